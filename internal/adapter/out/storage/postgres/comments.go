package postgres

import (
	"context"
	"errors"
	"fmt"

	"yatube/internal/model"
	"yatube/internal/service"
	"yatube/pkg/tableinfo"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
)

type CommentStorage struct {
	db     DB
	getter *trmpgx.CtxGetter
}

func NewCommentStorage(db DB, getter *trmpgx.CtxGetter) *CommentStorage {
	return &CommentStorage{
		db:     db,
		getter: getter,
	}
}

func selectComments() sq.SelectBuilder {
	return sq.
		Select(
			tableinfo.Qualified(tableinfo.CommentsTableName, tableinfo.CommentIDColumn),
			tableinfo.Qualified(tableinfo.CommentsTableName, tableinfo.CommentPostIDColumn),
			tableinfo.Qualified(tableinfo.CommentsTableName, tableinfo.CommentAuthorIDColumn),
			tableinfo.Qualified(tableinfo.UsersTableName, tableinfo.UserUsernameColumn),
			tableinfo.Qualified(tableinfo.CommentsTableName, tableinfo.CommentTextColumn),
			tableinfo.Qualified(tableinfo.CommentsTableName, tableinfo.CommentCreatedColumn),
		).
		From(tableinfo.CommentsTableName).
		Join(fmt.Sprintf("%s ON %s = %s",
			tableinfo.UsersTableName,
			tableinfo.Qualified(tableinfo.UsersTableName, tableinfo.UserIDColumn),
			tableinfo.Qualified(tableinfo.CommentsTableName, tableinfo.CommentAuthorIDColumn),
		)).
		PlaceholderFormat(sq.Dollar)
}

func scanComment(row pgx.Row, c *model.Comment) error {
	return row.Scan(
		&c.ID,
		&c.PostID,
		&c.AuthorID,
		&c.Author,
		&c.Text,
		&c.Created,
	)
}

func (s *CommentStorage) CreateComment(ctx context.Context, in model.Comment) (model.Comment, error) {
	query, args, err := sq.
		Insert(tableinfo.CommentsTableName).
		Columns(
			tableinfo.CommentPostIDColumn,
			tableinfo.CommentAuthorIDColumn,
			tableinfo.CommentTextColumn,
		).
		Values(in.PostID, in.AuthorID, in.Text).
		Suffix(fmt.Sprintf("RETURNING %s, %s",
			tableinfo.CommentIDColumn,
			tableinfo.CommentCreatedColumn,
		)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.Comment{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	out := in
	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	if err := tr.QueryRow(ctx, query, args...).Scan(&out.ID, &out.Created); err != nil {
		switch {
		case isForeignKeyViolation(err) && pgConstraint(err) == commentsAuthorFK:
			return model.Comment{}, fmt.Errorf("%w: author %d does not exist", service.ErrForbidden, in.AuthorID)
		case isForeignKeyViolation(err):
			// the post was removed between the existence check and the insert
			return model.Comment{}, service.ErrNotFound
		}
		return model.Comment{}, fmt.Errorf("exec insert comment: %w", err)
	}
	return out, nil
}

func (s *CommentStorage) GetCommentByID(ctx context.Context, commentID int64) (model.Comment, error) {
	query, args, err := selectComments().
		Where(sq.Eq{tableinfo.Qualified(tableinfo.CommentsTableName, tableinfo.CommentIDColumn): commentID}).
		ToSql()
	if err != nil {
		return model.Comment{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	var out model.Comment
	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	if err := scanComment(tr.QueryRow(ctx, query, args...), &out); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Comment{}, service.ErrNotFound
		}
		return model.Comment{}, fmt.Errorf("exec select comment by id: %w", err)
	}
	return out, nil
}

func (s *CommentStorage) ListCommentsByPost(ctx context.Context, postID int64) ([]model.Comment, error) {
	query, args, err := selectComments().
		Where(sq.Eq{tableinfo.Qualified(tableinfo.CommentsTableName, tableinfo.CommentPostIDColumn): postID}).
		OrderBy(tableinfo.Qualified(tableinfo.CommentsTableName, tableinfo.CommentIDColumn)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	rows, err := tr.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("exec select comments: %w", err)
	}
	defer rows.Close()

	out := make([]model.Comment, 0)
	for rows.Next() {
		var c model.Comment
		if err := scanComment(rows, &c); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func (s *CommentStorage) UpdateComment(ctx context.Context, commentID int64, text string) (model.Comment, error) {
	query, args, err := sq.
		Update(tableinfo.CommentsTableName).
		Set(tableinfo.CommentTextColumn, text).
		Where(sq.Eq{tableinfo.CommentIDColumn: commentID}).
		Suffix("RETURNING " + tableinfo.CommentIDColumn).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.Comment{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	var id int64
	if err := tr.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Comment{}, service.ErrNotFound
		}
		return model.Comment{}, fmt.Errorf("exec update comment: %w", err)
	}
	return s.GetCommentByID(ctx, id)
}

func (s *CommentStorage) DeleteComment(ctx context.Context, commentID int64) error {
	query, args, err := sq.
		Delete(tableinfo.CommentsTableName).
		Where(sq.Eq{tableinfo.CommentIDColumn: commentID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	tag, err := tr.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec delete comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrNotFound
	}
	return nil
}

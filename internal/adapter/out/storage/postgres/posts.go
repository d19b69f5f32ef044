package postgres

import (
	"context"
	"errors"
	"fmt"

	"yatube/internal/adapter/out/storage"
	"yatube/internal/model"
	"yatube/internal/service"
	"yatube/pkg/tableinfo"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
)

type PostStorage struct {
	db     DB
	getter *trmpgx.CtxGetter
}

func NewPostStorage(db DB, getter *trmpgx.CtxGetter) *PostStorage {
	return &PostStorage{
		db:     db,
		getter: getter,
	}
}

// selectPosts reads posts joined with their author's username.
func selectPosts() sq.SelectBuilder {
	return sq.
		Select(
			tableinfo.Qualified(tableinfo.PostsTableName, tableinfo.PostIDColumn),
			tableinfo.Qualified(tableinfo.PostsTableName, tableinfo.PostTextColumn),
			tableinfo.Qualified(tableinfo.PostsTableName, tableinfo.PostAuthorIDColumn),
			tableinfo.Qualified(tableinfo.UsersTableName, tableinfo.UserUsernameColumn),
			tableinfo.Qualified(tableinfo.PostsTableName, tableinfo.PostGroupIDColumn),
			tableinfo.Qualified(tableinfo.PostsTableName, tableinfo.PostPubDateColumn),
		).
		From(tableinfo.PostsTableName).
		Join(fmt.Sprintf("%s ON %s = %s",
			tableinfo.UsersTableName,
			tableinfo.Qualified(tableinfo.UsersTableName, tableinfo.UserIDColumn),
			tableinfo.Qualified(tableinfo.PostsTableName, tableinfo.PostAuthorIDColumn),
		)).
		PlaceholderFormat(sq.Dollar)
}

func scanPost(row pgx.Row, p *model.Post) error {
	return row.Scan(
		&p.ID,
		&p.Text,
		&p.AuthorID,
		&p.Author,
		&p.GroupID,
		&p.PubDate,
	)
}

func (s *PostStorage) CreatePost(ctx context.Context, in model.Post) (model.Post, error) {
	query, args, err := sq.
		Insert(tableinfo.PostsTableName).
		Columns(
			tableinfo.PostTextColumn,
			tableinfo.PostAuthorIDColumn,
			tableinfo.PostGroupIDColumn,
		).
		Values(in.Text, in.AuthorID, in.GroupID).
		Suffix(fmt.Sprintf("RETURNING %s, %s",
			tableinfo.PostIDColumn,
			tableinfo.PostPubDateColumn,
		)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.Post{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	out := in
	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	if err := tr.QueryRow(ctx, query, args...).Scan(&out.ID, &out.PubDate); err != nil {
		switch {
		case isForeignKeyViolation(err) && pgConstraint(err) == postsAuthorFK:
			return model.Post{}, fmt.Errorf("%w: author %d does not exist", service.ErrForbidden, in.AuthorID)
		case isForeignKeyViolation(err):
			return model.Post{}, fmt.Errorf("%w: unknown group", service.ErrInvalidRequest)
		}
		return model.Post{}, fmt.Errorf("exec insert post: %w", err)
	}
	return out, nil
}

func (s *PostStorage) GetPostByID(ctx context.Context, postID int64) (model.Post, error) {
	query, args, err := selectPosts().
		Where(sq.Eq{tableinfo.Qualified(tableinfo.PostsTableName, tableinfo.PostIDColumn): postID}).
		ToSql()
	if err != nil {
		return model.Post{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	var out model.Post
	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	if err := scanPost(tr.QueryRow(ctx, query, args...), &out); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Post{}, service.ErrNotFound
		}
		return model.Post{}, fmt.Errorf("exec select post by id: %w", err)
	}
	return out, nil
}

func (s *PostStorage) ListPosts(ctx context.Context, params storage.ListPostsParams) ([]model.Post, error) {
	qb := selectPosts().
		OrderBy(tableinfo.Qualified(tableinfo.PostsTableName, tableinfo.PostIDColumn))
	if params.GroupID != nil {
		qb = qb.Where(sq.Eq{tableinfo.Qualified(tableinfo.PostsTableName, tableinfo.PostGroupIDColumn): *params.GroupID})
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	rows, err := tr.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("exec select posts: %w", err)
	}
	defer rows.Close()

	out := make([]model.Post, 0)
	for rows.Next() {
		var p model.Post
		if err := scanPost(rows, &p); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

// UpdatePost writes the fields present in params and returns the post as
// stored afterwards.
func (s *PostStorage) UpdatePost(ctx context.Context, postID int64, params storage.UpdatePostParams) (model.Post, error) {
	if params.Text == nil && !params.SetGroup {
		return s.GetPostByID(ctx, postID)
	}

	qb := sq.
		Update(tableinfo.PostsTableName).
		Where(sq.Eq{tableinfo.PostIDColumn: postID}).
		Suffix("RETURNING " + tableinfo.PostIDColumn).
		PlaceholderFormat(sq.Dollar)
	if params.Text != nil {
		qb = qb.Set(tableinfo.PostTextColumn, *params.Text)
	}
	if params.SetGroup {
		qb = qb.Set(tableinfo.PostGroupIDColumn, params.GroupID)
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return model.Post{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	var id int64
	if err := tr.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Post{}, service.ErrNotFound
		}
		if isForeignKeyViolation(err) {
			return model.Post{}, fmt.Errorf("%w: unknown group", service.ErrInvalidRequest)
		}
		return model.Post{}, fmt.Errorf("exec update post: %w", err)
	}
	return s.GetPostByID(ctx, id)
}

// DeletePost removes the post; its comments go with it (ON DELETE CASCADE).
func (s *PostStorage) DeletePost(ctx context.Context, postID int64) error {
	query, args, err := sq.
		Delete(tableinfo.PostsTableName).
		Where(sq.Eq{tableinfo.PostIDColumn: postID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	tag, err := tr.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrNotFound
	}
	return nil
}

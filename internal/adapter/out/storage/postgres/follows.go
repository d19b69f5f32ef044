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

const (
	followerAlias = "follower"
	followeeAlias = "followee"
)

type FollowStorage struct {
	db     DB
	getter *trmpgx.CtxGetter
}

func NewFollowStorage(db DB, getter *trmpgx.CtxGetter) *FollowStorage {
	return &FollowStorage{
		db:     db,
		getter: getter,
	}
}

// CreateFollow relies on the (user_id, following_id) unique constraint:
// a conflicting insert returns no row and is reported as ErrDuplicateFollow.
func (s *FollowStorage) CreateFollow(ctx context.Context, in model.Follow) (model.Follow, error) {
	query, args, err := sq.
		Insert(tableinfo.FollowsTableName).
		Columns(
			tableinfo.FollowUserIDColumn,
			tableinfo.FollowFollowingIDColumn,
		).
		Values(in.UserID, in.FollowingID).
		Suffix(fmt.Sprintf("ON CONFLICT (%s, %s) DO NOTHING RETURNING %s, %s",
			tableinfo.FollowUserIDColumn,
			tableinfo.FollowFollowingIDColumn,
			tableinfo.FollowIDColumn,
			tableinfo.FollowCreatedAtColumn,
		)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.Follow{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	out := in
	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	if err := tr.QueryRow(ctx, query, args...).Scan(&out.ID, &out.CreatedAt); err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return model.Follow{}, service.ErrDuplicateFollow
		case isCheckViolation(err):
			return model.Follow{}, service.ErrSelfFollow
		case isForeignKeyViolation(err):
			return model.Follow{}, service.ErrNotFound
		}
		return model.Follow{}, fmt.Errorf("exec insert follow: %w", err)
	}
	return out, nil
}

func (s *FollowStorage) ListFollows(ctx context.Context, params storage.ListFollowsParams) ([]model.Follow, error) {
	qb := sq.
		Select(
			tableinfo.Qualified(tableinfo.FollowsTableName, tableinfo.FollowIDColumn),
			tableinfo.Qualified(tableinfo.FollowsTableName, tableinfo.FollowUserIDColumn),
			tableinfo.Qualified(followerAlias, tableinfo.UserUsernameColumn),
			tableinfo.Qualified(tableinfo.FollowsTableName, tableinfo.FollowFollowingIDColumn),
			tableinfo.Qualified(followeeAlias, tableinfo.UserUsernameColumn),
			tableinfo.Qualified(tableinfo.FollowsTableName, tableinfo.FollowCreatedAtColumn),
		).
		From(tableinfo.FollowsTableName).
		Join(fmt.Sprintf("%s %s ON %s = %s",
			tableinfo.UsersTableName, followerAlias,
			tableinfo.Qualified(followerAlias, tableinfo.UserIDColumn),
			tableinfo.Qualified(tableinfo.FollowsTableName, tableinfo.FollowUserIDColumn),
		)).
		Join(fmt.Sprintf("%s %s ON %s = %s",
			tableinfo.UsersTableName, followeeAlias,
			tableinfo.Qualified(followeeAlias, tableinfo.UserIDColumn),
			tableinfo.Qualified(tableinfo.FollowsTableName, tableinfo.FollowFollowingIDColumn),
		)).
		OrderBy(tableinfo.Qualified(tableinfo.FollowsTableName, tableinfo.FollowIDColumn)).
		PlaceholderFormat(sq.Dollar)

	if params.Search != "" {
		qb = qb.Where(sq.Or{
			sq.Eq{tableinfo.Qualified(followerAlias, tableinfo.UserUsernameColumn): params.Search},
			sq.Eq{tableinfo.Qualified(followeeAlias, tableinfo.UserUsernameColumn): params.Search},
		})
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	rows, err := tr.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("exec select follows: %w", err)
	}
	defer rows.Close()

	out := make([]model.Follow, 0)
	for rows.Next() {
		var f model.Follow
		if err := rows.Scan(
			&f.ID,
			&f.UserID,
			&f.User,
			&f.FollowingID,
			&f.Following,
			&f.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan follow: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func (s *FollowStorage) FollowExists(ctx context.Context, userID, followingID int64) (bool, error) {
	query, args, err := sq.
		Select("1").
		From(tableinfo.FollowsTableName).
		Where(sq.Eq{
			tableinfo.FollowUserIDColumn:      userID,
			tableinfo.FollowFollowingIDColumn: followingID,
		}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	var exists bool
	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	if err := tr.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("exec select follow exists: %w", err)
	}
	return exists, nil
}

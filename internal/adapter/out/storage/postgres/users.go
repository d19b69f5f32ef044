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

type UserStorage struct {
	db     DB
	getter *trmpgx.CtxGetter
}

func NewUserStorage(db DB, getter *trmpgx.CtxGetter) *UserStorage {
	return &UserStorage{
		db:     db,
		getter: getter,
	}
}

func (s *UserStorage) CreateUser(ctx context.Context, in model.User) (model.User, error) {
	query, args, err := sq.
		Insert(tableinfo.UsersTableName).
		Columns(
			tableinfo.UserUsernameColumn,
			tableinfo.UserPasswordHashColumn,
		).
		Values(in.Username, in.PasswordHash).
		Suffix(fmt.Sprintf("RETURNING %s, %s",
			tableinfo.UserIDColumn,
			tableinfo.UserCreatedAtColumn,
		)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.User{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	out := in
	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	if err := tr.QueryRow(ctx, query, args...).Scan(&out.ID, &out.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return model.User{}, service.ErrUsernameTaken
		}
		return model.User{}, fmt.Errorf("exec insert user: %w", err)
	}
	return out, nil
}

func (s *UserStorage) GetUserByID(ctx context.Context, userID int64) (model.User, error) {
	return s.getUser(ctx, sq.Eq{tableinfo.UserIDColumn: userID})
}

func (s *UserStorage) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	return s.getUser(ctx, sq.Eq{tableinfo.UserUsernameColumn: username})
}

func (s *UserStorage) getUser(ctx context.Context, where sq.Eq) (model.User, error) {
	query, args, err := sq.
		Select(
			tableinfo.UserIDColumn,
			tableinfo.UserUsernameColumn,
			tableinfo.UserPasswordHashColumn,
			tableinfo.UserCreatedAtColumn,
		).
		From(tableinfo.UsersTableName).
		Where(where).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.User{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	var out model.User
	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	if err := tr.QueryRow(ctx, query, args...).Scan(
		&out.ID,
		&out.Username,
		&out.PasswordHash,
		&out.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, service.ErrNotFound
		}
		return model.User{}, fmt.Errorf("exec select user: %w", err)
	}
	return out, nil
}

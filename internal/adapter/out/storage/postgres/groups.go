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

type GroupStorage struct {
	db     DB
	getter *trmpgx.CtxGetter
}

func NewGroupStorage(db DB, getter *trmpgx.CtxGetter) *GroupStorage {
	return &GroupStorage{
		db:     db,
		getter: getter,
	}
}

func (s *GroupStorage) CreateGroup(ctx context.Context, in model.Group) (model.Group, error) {
	query, args, err := sq.
		Insert(tableinfo.GroupsTableName).
		Columns(tableinfo.GroupTitleColumn).
		Values(in.Title).
		Suffix("RETURNING " + tableinfo.GroupIDColumn).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.Group{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	out := in
	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	if err := tr.QueryRow(ctx, query, args...).Scan(&out.ID); err != nil {
		return model.Group{}, fmt.Errorf("exec insert group: %w", err)
	}
	return out, nil
}

func (s *GroupStorage) GetGroupByID(ctx context.Context, groupID int64) (model.Group, error) {
	query, args, err := sq.
		Select(tableinfo.GroupIDColumn, tableinfo.GroupTitleColumn).
		From(tableinfo.GroupsTableName).
		Where(sq.Eq{tableinfo.GroupIDColumn: groupID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.Group{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	var out model.Group
	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	if err := tr.QueryRow(ctx, query, args...).Scan(&out.ID, &out.Title); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Group{}, service.ErrNotFound
		}
		return model.Group{}, fmt.Errorf("exec select group by id: %w", err)
	}
	return out, nil
}

func (s *GroupStorage) ListGroups(ctx context.Context) ([]model.Group, error) {
	query, args, err := sq.
		Select(tableinfo.GroupIDColumn, tableinfo.GroupTitleColumn).
		From(tableinfo.GroupsTableName).
		OrderBy(tableinfo.GroupIDColumn).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	rows, err := tr.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("exec select groups: %w", err)
	}
	defer rows.Close()

	out := make([]model.Group, 0)
	for rows.Next() {
		var g model.Group
		if err := rows.Scan(&g.ID, &g.Title); err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func (s *GroupStorage) UpdateGroup(ctx context.Context, groupID int64, title string) (model.Group, error) {
	query, args, err := sq.
		Update(tableinfo.GroupsTableName).
		Set(tableinfo.GroupTitleColumn, title).
		Where(sq.Eq{tableinfo.GroupIDColumn: groupID}).
		Suffix(fmt.Sprintf("RETURNING %s, %s", tableinfo.GroupIDColumn, tableinfo.GroupTitleColumn)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.Group{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	var out model.Group
	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	if err := tr.QueryRow(ctx, query, args...).Scan(&out.ID, &out.Title); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Group{}, service.ErrNotFound
		}
		return model.Group{}, fmt.Errorf("exec update group: %w", err)
	}
	return out, nil
}

// DeleteGroup removes a group; posts tagged with it keep existing with no
// group (ON DELETE SET NULL).
func (s *GroupStorage) DeleteGroup(ctx context.Context, groupID int64) error {
	query, args, err := sq.
		Delete(tableinfo.GroupsTableName).
		Where(sq.Eq{tableinfo.GroupIDColumn: groupID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	tag, err := tr.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec delete group: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrNotFound
	}
	return nil
}

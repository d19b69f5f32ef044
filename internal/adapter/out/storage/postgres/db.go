package postgres

import (
	"errors"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is anything queries can run on: the pool, a single connection or a
// transaction picked up from the context.
type DB = trmpgx.Tr

var ErrBuildingQuery = errors.New("error building sql-query")

// Constraint names from migrations/000001_init.up.sql.
const (
	postsAuthorFK    = "posts_author_id_fkey"
	commentsAuthorFK = "comments_author_id_fkey"
)

func pgErrCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func pgConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

func isUniqueViolation(err error) bool {
	return pgErrCode(err) == pgerrcode.UniqueViolation
}

func isForeignKeyViolation(err error) bool {
	return pgErrCode(err) == pgerrcode.ForeignKeyViolation
}

func isCheckViolation(err error) bool {
	return pgErrCode(err) == pgerrcode.CheckViolation
}

package sqlstore

import (
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"

	"taskmaster/internal/config"
)

type dialect struct {
	name        string
	placeholder sq.PlaceholderFormat
}

var (
	sqliteDialect   = dialect{name: config.DriverSQLite, placeholder: sq.Question}
	postgresDialect = dialect{name: config.DriverPostgres, placeholder: sq.Dollar}
)

func dialectFor(driver string) dialect {
	if driver == config.DriverPostgres {
		return postgresDialect
	}
	return sqliteDialect
}

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pgUniqueViolation
	}
	return false
}

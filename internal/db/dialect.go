package db

import (
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	moderncsqlite "modernc.org/sqlite"
	sqlitelib "modernc.org/sqlite/lib"
)

// Dialect identifies the SQL flavour spoken by the configured driver.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// postgresUniqueViolation is SQLSTATE 23505.
const postgresUniqueViolation = "23505"

// Rebind rewrites ? placeholders into the dialect's native form.
// Queries are written with ? and must not contain literal question marks.
func (d Dialect) Rebind(query string) string {
	if d != DialectPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// IsUniqueViolation reports whether err is a unique or primary key constraint failure
// raised by any of the supported drivers.
func (d Dialect) IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var mattnErr sqlite3.Error
	if errors.As(err, &mattnErr) {
		return mattnErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			mattnErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}

	var modernErr *moderncsqlite.Error
	if errors.As(err, &modernErr) {
		return modernErr.Code() == sqlitelib.SQLITE_CONSTRAINT_UNIQUE ||
			modernErr.Code() == sqlitelib.SQLITE_CONSTRAINT_PRIMARYKEY
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == postgresUniqueViolation
	}

	return false
}

// tableExistsQuery returns a query counting tables with the given name (one ? argument).
func (d Dialect) tableExistsQuery() string {
	if d == DialectPostgres {
		return "SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = $1"
	}
	return "SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name = ?"
}

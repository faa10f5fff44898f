package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	_ "github.com/mattn/go-sqlite3"    // registers the "sqlite3" driver
	_ "modernc.org/sqlite"             // registers the pure Go "sqlite" driver
)

// Supported storage drivers.
const (
	DriverSQLite3  = "sqlite3"  // mattn/go-sqlite3 (cgo)
	DriverSQLite   = "sqlite"   // modernc.org/sqlite (pure Go)
	DriverPostgres = "postgres" // jackc/pgx via database/sql
)

// busyTimeoutMS bounds how long a SQLite writer waits for the database lock.
const busyTimeoutMS = 5000

// Options selects and configures a storage driver.
type Options struct {
	Driver      string
	SQLitePath  string // file path or ":memory:"
	PostgresDSN string
}

// DialectFor returns the SQL dialect spoken by a driver.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case DriverSQLite3, DriverSQLite:
		return DialectSQLite, nil
	case DriverPostgres:
		return DialectPostgres, nil
	default:
		return "", fmt.Errorf("unknown storage driver %q", driver)
	}
}

// Open returns a ready database handle for the configured driver.
// SQLite handles enforce foreign keys, begin write transactions immediately and
// use a single connection so concurrent writers queue instead of failing.
func Open(ctx context.Context, opts Options) (*sql.DB, Dialect, error) {
	dialect, err := DialectFor(opts.Driver)
	if err != nil {
		return nil, "", err
	}

	var database *sql.DB
	switch opts.Driver {
	case DriverSQLite3, DriverSQLite:
		dsn, err := sqliteDSN(opts.Driver, opts.SQLitePath)
		if err != nil {
			return nil, "", err
		}
		database, err = sql.Open(opts.Driver, dsn)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open database: %w", err)
		}
		database.SetMaxOpenConns(1)
	case DriverPostgres:
		if opts.PostgresDSN == "" {
			return nil, "", fmt.Errorf("postgres DSN is required for driver %q", opts.Driver)
		}
		database, err = sql.Open("pgx", opts.PostgresDSN)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open database: %w", err)
		}
	}

	if err := database.PingContext(ctx); err != nil {
		database.Close()
		return nil, "", fmt.Errorf("failed to ping database: %w", err)
	}

	return database, dialect, nil
}

// sqliteDSN builds the connection string for either SQLite driver.
func sqliteDSN(driver, path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("sqlite path is required")
	}

	target := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return "", fmt.Errorf("failed to create database directory: %w", err)
		}
		target = filepath.ToSlash(path)
	}

	var params []string
	switch driver {
	case DriverSQLite3:
		params = []string{
			"_foreign_keys=on",
			fmt.Sprintf("_busy_timeout=%d", busyTimeoutMS),
			"_txlock=immediate",
		}
	case DriverSQLite:
		params = []string{
			"_pragma=foreign_keys(1)",
			fmt.Sprintf("_pragma=busy_timeout(%d)", busyTimeoutMS),
			"_txlock=immediate",
		}
	}

	return "file:" + target + "?" + strings.Join(params, "&"), nil
}

// DefaultSQLitePath returns ~/.stargate/stargate.db.
func DefaultSQLitePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".stargate", "stargate.db"), nil
}

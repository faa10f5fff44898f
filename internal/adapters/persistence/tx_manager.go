// Package persistence contains database/sql implementations of the repository
// interfaces. The same repositories serve SQLite and PostgreSQL; queries are written
// with ? placeholders and rebound for the configured dialect.
package persistence

import (
	"context"
	"database/sql"

	"github.com/example/stargate/internal/db"
	"github.com/example/stargate/internal/ports/secondary"
)

// querier is the subset of *sql.DB and *sql.Tx used by repositories.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txKey struct{}

// querierFrom returns the transaction carried by ctx, or the database itself.
func querierFrom(ctx context.Context, database *sql.DB) querier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return database
}

// TxManager implements secondary.TransactionManager on database/sql.
type TxManager struct {
	db      *sql.DB
	dialect db.Dialect
}

// NewTxManager creates a transaction manager for the database.
func NewTxManager(database *sql.DB, dialect db.Dialect) *TxManager {
	return &TxManager{db: database, dialect: dialect}
}

// RunInTx runs fn inside a transaction and commits when it returns nil.
// The transaction rides on the context handed to fn; a context that already
// carries one joins it instead of nesting. Cancelling ctx rolls back.
func (tm *TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	opts := &sql.TxOptions{}
	if tm.dialect == db.DialectPostgres {
		opts.Isolation = sql.LevelReadCommitted
	}

	tx, err := tm.db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	// Ensure rollback on panic
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			_ = tx.Rollback()
		}
	}()

	err = fn(context.WithValue(ctx, txKey{}, tx))
	if err != nil {
		return err
	}

	return tx.Commit()
}

// Ensure TxManager implements the interface.
var _ secondary.TransactionManager = (*TxManager)(nil)

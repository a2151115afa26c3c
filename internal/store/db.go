package store

import (
	"context"
	"database/sql"
)

// DBTX is the database surface the reading store issues queries against.
// Both *sql.DB and *sql.Tx satisfy it, so the same store code runs on a
// plain connection or inside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Package engine defines the contract between the reflection layer and the
// underlying DuckDB session. All layers above this package talk only to
// these interfaces — they never import the driver package directly.
package engine

import "context"

// Querier is the narrow query capability the reflection layer needs from a
// session. It deliberately lists only the methods the reflection subsystem
// actually calls; there is no catch-all passthrough to the underlying
// connection.
type Querier interface {
	// Query executes a SQL statement that returns multiple rows.
	Query(ctx context.Context, sql string, args ...any) (Rows, error)

	// QueryRow executes a SQL statement that returns at most one row.
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// Execer executes statements that return no rows (SET, LOAD, COMMIT, …).
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) error
}

// Conn is what a driver hands to a Session: queries plus statement
// execution plus teardown.
type Conn interface {
	Querier
	Execer

	// Ping verifies the database is reachable.
	Ping(ctx context.Context) error

	// Close releases all resources held by the connection.
	Close() error
}

// Rows is an abstraction over a database result set.
// Callers must always call Close() when done, even on error.
type Rows interface {
	// Next advances to the next row.
	// Returns false when no more rows exist or on error.
	Next() bool

	// Scan copies the current row's columns into the provided destinations.
	Scan(dest ...any) error

	// Close releases resources held by the result set.
	Close()

	// Err returns any error encountered during iteration.
	Err() error
}

// Row is an abstraction over a single database row.
type Row interface {
	Scan(dest ...any) error
}

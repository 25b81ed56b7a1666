// Package storage provides one query contract over two interchangeable
// relational backends: an embedded SQLite file and a networked PostgreSQL
// server. Callers write queries with `?` placeholders; each backend is
// responsible for translating them to its own positional syntax and for
// normalizing insert-id retrieval, so domain code never branches on the
// active backend.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// ErrOperation is the single condition under which every backend failure is
// reported: constraint violations, connectivity loss, malformed statements.
// Services map it to a domain error where they have enough context.
var ErrOperation = errors.New("storage operation failed")

// Result describes the outcome of a mutating statement.
type Result struct {
	// InsertedID is the generated identity value for INSERT statements.
	// Zero for other statements or when the target table has a non-numeric key.
	InsertedID int64

	RowsAffected int64
}

// DB is the backend-neutral query interface. The backend is selected once at
// process start and never re-evaluated.
type DB interface {
	// Get returns the first matching row, or nil when no row matches.
	// Zero rows is not an error.
	Get(ctx context.Context, query string, args ...any) (Row, error)

	// All returns every matching row in statement order. No match yields an
	// empty slice, not an error.
	All(ctx context.Context, query string, args ...any) ([]Row, error)

	// Run executes a mutating statement. For INSERTs the generated identity
	// value is returned regardless of backend.
	Run(ctx context.Context, query string, args ...any) (Result, error)

	// Exec runs a multi-statement script. Used only for schema setup at boot.
	Exec(ctx context.Context, script string) error

	Ping(ctx context.Context) error
	Close()
}

func opError(err error) error {
	return fmt.Errorf("%w: %v", ErrOperation, err)
}

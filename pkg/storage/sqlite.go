package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// sqliteDB implements DB on top of database/sql with the cgo-free modernc
// driver. SQLite already uses `?` placeholders, so queries pass through
// untouched and insert ids come from LastInsertId. time.Time arguments are
// bound as UTC RFC3339 text so timestamps round-trip identically to the
// Postgres backend.
type sqliteDB struct {
	db *sql.DB
}

// OpenSQLite creates or opens the database file at path (creating parent
// directories as needed) and applies the schema idempotently. Foreign keys
// are enabled so the cascade rules actually fire.
func OpenSQLite(ctx context.Context, path string) (DB, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single writer avoids SQLITE_BUSY under concurrent requests.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	s := &sqliteDB{db: db}
	if err := s.Exec(ctx, schemaSQLite); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (d *sqliteDB) Get(ctx context.Context, query string, args ...any) (Row, error) {
	rows, err := d.All(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (d *sqliteDB) All(ctx context.Context, query string, args ...any) ([]Row, error) {
	rows, err := d.db.QueryContext(ctx, query, bindArgs(args)...)
	if err != nil {
		return nil, opError(err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, opError(err)
	}
	out := []Row{}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, opError(err)
		}
		row := make(Row, len(cols))
		for i, col := range cols {
			row[col] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, opError(err)
	}
	return out, nil
}

func (d *sqliteDB) Run(ctx context.Context, query string, args ...any) (Result, error) {
	res, err := d.db.ExecContext(ctx, query, bindArgs(args)...)
	if err != nil {
		return Result{}, opError(err)
	}
	var out Result
	if isInsert(query) {
		out.InsertedID, _ = res.LastInsertId()
	}
	out.RowsAffected, _ = res.RowsAffected()
	return out, nil
}

func (d *sqliteDB) Exec(ctx context.Context, script string) error {
	if _, err := d.db.ExecContext(ctx, script); err != nil {
		return opError(err)
	}
	return nil
}

func (d *sqliteDB) Ping(ctx context.Context) error {
	if err := d.db.PingContext(ctx); err != nil {
		return opError(err)
	}
	return nil
}

func (d *sqliteDB) Close() {
	d.db.Close()
}

// bindArgs normalizes argument types the SQLite driver would otherwise store
// in a driver-specific shape.
func bindArgs(args []any) []any {
	out := make([]any, len(args))
	for i, a := range args {
		switch v := a.(type) {
		case time.Time:
			out[i] = v.UTC().Format(time.RFC3339Nano)
		default:
			out[i] = a
		}
	}
	return out
}

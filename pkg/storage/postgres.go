package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// postgresDB implements DB on top of a pgx connection pool. Queries arrive
// with `?` placeholders and are rewritten to `$N` before execution. INSERTs
// get a RETURNING clause appended so the generated id can be read back,
// since Postgres does not report last-insert ids natively.
type postgresDB struct {
	pool *pgxpool.Pool
}

// OpenPostgres opens a pgx pool for the given DSN, pings it and applies the
// schema idempotently.
func OpenPostgres(ctx context.Context, dsn string) (DB, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pgx config: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 0
	cfg.MaxConnLifetime = time.Hour
	cfg.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	db := &postgresDB{pool: pool}
	if err := db.Exec(ctx, schemaPostgres); err != nil {
		pool.Close()
		return nil, err
	}
	return db, nil
}

func (d *postgresDB) Get(ctx context.Context, query string, args ...any) (Row, error) {
	rows, err := d.All(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (d *postgresDB) All(ctx context.Context, query string, args ...any) ([]Row, error) {
	rows, err := d.pool.Query(ctx, numbered(query), args...)
	if err != nil {
		return nil, opError(err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	out := []Row{}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, opError(err)
		}
		row := make(Row, len(fields))
		for i, fd := range fields {
			row[fd.Name] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, opError(err)
	}
	return out, nil
}

func (d *postgresDB) Run(ctx context.Context, query string, args ...any) (Result, error) {
	q := numbered(query)
	if isInsert(query) && !strings.Contains(strings.ToUpper(query), "RETURNING") {
		var id any
		if err := d.pool.QueryRow(ctx, q+" RETURNING id", args...).Scan(&id); err != nil {
			return Result{}, opError(err)
		}
		res := Result{RowsAffected: 1}
		switch v := id.(type) {
		case int64:
			res.InsertedID = v
		case int32:
			res.InsertedID = int64(v)
		}
		return res, nil
	}
	tag, err := d.pool.Exec(ctx, q, args...)
	if err != nil {
		return Result{}, opError(err)
	}
	return Result{RowsAffected: tag.RowsAffected()}, nil
}

func (d *postgresDB) Exec(ctx context.Context, script string) error {
	if _, err := d.pool.Exec(ctx, script); err != nil {
		return opError(err)
	}
	return nil
}

func (d *postgresDB) Ping(ctx context.Context) error {
	if err := d.pool.Ping(ctx); err != nil {
		return opError(err)
	}
	return nil
}

func (d *postgresDB) Close() {
	d.pool.Close()
}

func isInsert(query string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(query)), "INSERT")
}

// Package postgres implements a Postgres storage.Repository using pgx v5.
// Bulk loads use the native COPY protocol via pgx.CopyFrom.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"olistetl/internal/storage"
)

// Repository is a Postgres-backed implementation of storage.Repository.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository connects a pgx pool for the given DSN.
func NewRepository(ctx context.Context, dsn string) (*Repository, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("postgres: DSN must not be empty")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: pgxpool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return &Repository{pool: pool}, nil
}

// Exec implements storage.Repository.Exec.
func (r *Repository) Exec(ctx context.Context, query string, args ...any) error {
	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("postgres: exec: %w", err)
	}
	return nil
}

// Query implements storage.Repository.Query, adapting pgx.Rows to the
// storage.Rows iterator shape.
func (r *Repository) Query(ctx context.Context, query string, args ...any) (storage.Rows, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: query: %w", err)
	}
	return &pgxRows{rows: rows}, nil
}

// CopyFrom implements storage.Repository.CopyFrom using the COPY protocol.
func (r *Repository) CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("postgres: CopyFrom: columns must not be empty")
	}
	if len(rows) == 0 {
		return 0, nil
	}

	n, err := r.pool.CopyFrom(
		ctx,
		pgx.Identifier(strings.Split(table, ".")),
		columns,
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return n, fmt.Errorf("postgres: copy into %s: %w", table, err)
	}
	return n, nil
}

// Dialect implements storage.Repository.Dialect.
func (r *Repository) Dialect() storage.Dialect { return dialect{} }

// Close implements storage.Repository.Close.
func (r *Repository) Close() { r.pool.Close() }

// pgxRows adapts pgx.Rows to storage.Rows. pgx reports column names through
// field descriptions and closes without an error return.
type pgxRows struct {
	rows pgx.Rows
}

func (p *pgxRows) Columns() ([]string, error) {
	fds := p.rows.FieldDescriptions()
	out := make([]string, len(fds))
	for i, fd := range fds {
		out[i] = fd.Name
	}
	return out, nil
}

func (p *pgxRows) Next() bool              { return p.rows.Next() }
func (p *pgxRows) Scan(dest ...any) error  { return p.rows.Scan(dest...) }
func (p *pgxRows) Err() error              { return p.rows.Err() }
func (p *pgxRows) Close() error            { p.rows.Close(); return nil }

// Package sqlite implements a SQLite-backed storage.Repository using
// database/sql. It is the default analytic store: in-process, no server,
// good enough for the dataset volumes this pipeline handles.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"olistetl/internal/storage"
)

// Repository is a SQLite-backed implementation of storage.Repository.
type Repository struct {
	db *sql.DB
}

// NewRepository opens a SQLite connection using the provided DSN, e.g.
// "file:artifacts/olist.sqlite" or ":memory:".
func NewRepository(ctx context.Context, dsn string) (*Repository, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("sqlite: DSN must not be empty")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}

	// One connection only: the pipeline is single-threaded, and with an
	// in-memory DSN every pooled connection would otherwise be a separate
	// database.
	db.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	_, _ = db.ExecContext(ctx, "PRAGMA foreign_keys = ON;")

	return &Repository{db: db}, nil
}

// Exec implements storage.Repository.Exec.
func (r *Repository) Exec(ctx context.Context, query string, args ...any) error {
	if _, err := r.db.ExecContext(ctx, query, bindValues(args)...); err != nil {
		return fmt.Errorf("sqlite: exec: %w", err)
	}
	return nil
}

// Query implements storage.Repository.Query. *sql.Rows satisfies
// storage.Rows directly.
func (r *Repository) Query(ctx context.Context, query string, args ...any) (storage.Rows, error) {
	rows, err := r.db.QueryContext(ctx, query, bindValues(args)...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query: %w", err)
	}
	return rows, nil
}

// CopyFrom inserts the given rows into table using a single transaction and
// a prepared INSERT. SQLite has no COPY-style bulk API; a transaction keeps
// this fast enough for the volumes at hand.
func (r *Repository) CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("sqlite: CopyFrom: columns must not be empty")
	}
	if len(rows) == 0 {
		return 0, nil
	}

	placeholders := make([]string, len(columns))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	stmtSQL := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(columns, ", "), strings.Join(placeholders, ", "),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite: begin tx: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, stmtSQL)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("sqlite: prepare insert: %w", err)
	}
	defer stmt.Close()

	var inserted int64
	for _, row := range rows {
		if len(row) != len(columns) {
			_ = tx.Rollback()
			return inserted, fmt.Errorf("sqlite: CopyFrom %s: row length %d != columns length %d",
				table, len(row), len(columns))
		}
		if _, err := stmt.ExecContext(ctx, bindValues(row)...); err != nil {
			_ = tx.Rollback()
			return inserted, fmt.Errorf("sqlite: insert into %s: %w", table, err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return inserted, fmt.Errorf("sqlite: commit: %w", err)
	}
	return inserted, nil
}

// Dialect implements storage.Repository.Dialect.
func (r *Repository) Dialect() storage.Dialect { return dialect{} }

// Close implements storage.Repository.Close.
func (r *Repository) Close() { _ = r.db.Close() }

// bindValues rewrites argument values into forms SQLite's date functions
// understand: time.Time becomes "YYYY-MM-DD HH:MM:SS" UTC text. Other values
// pass through untouched.
func bindValues(args []any) []any {
	out := make([]any, len(args))
	for i, a := range args {
		if ts, ok := a.(time.Time); ok {
			out[i] = ts.UTC().Format("2006-01-02 15:04:05")
			continue
		}
		out[i] = a
	}
	return out
}

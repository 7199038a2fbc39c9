// Package reports implements the analytical queries that run against the
// materialized store. Each report is a stateless function of the store: it
// composes backend-portable SQL from Dialect fragments, executes it, and
// returns a Relation. Reports never mutate source tables.
package reports

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/zeebo/xxh3"

	"olistetl/internal/storage"
)

// ErrQuery marks a report whose SQL the store rejected, typically because a
// required relation or column is missing from the materialized schema.
var ErrQuery = errors.New("query execution failed")

// Relation is a named tabular report result. Rows hold string, int64,
// float64, bool, time.Time, or nil values in column order.
type Relation struct {
	Name    string
	Columns []string
	Rows    [][]any
}

// Runner executes one report against the store.
type Runner func(ctx context.Context, repo storage.Repository) (*Relation, error)

// collect executes sql and drains every row into a Relation named name.
func collect(ctx context.Context, repo storage.Repository, name, sql string) (*Relation, error) {
	debugSQL(name, sql)

	rows, err := repo.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("reports: %s: %w: %v", name, ErrQuery, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reports: %s: columns: %w", name, err)
	}

	rel := &Relation{Name: name, Columns: cols}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("reports: %s: scan: %w", name, err)
		}
		for i, v := range vals {
			vals[i] = normalize(v)
		}
		rel.Rows = append(rel.Rows, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reports: %s: %w: %v", name, ErrQuery, err)
	}
	return rel, nil
}

// normalize maps driver-specific scan values onto the Relation value set.
func normalize(v any) any {
	switch x := v.(type) {
	case []byte:
		return string(x)
	case time.Time:
		return x.UTC()
	case int:
		return int64(x)
	case int32:
		return int64(x)
	case float32:
		return float64(x)
	default:
		return v
	}
}

// debugSQL logs a fingerprint and the head of the executed statement when
// ETL_DEBUG=1, enough to correlate a failing report with a backend's logs
// without dumping full query text on every run.
func debugSQL(name, sql string) {
	if os.Getenv("ETL_DEBUG") != "1" {
		return
	}
	head := sql
	if len(head) > 120 {
		head = head[:120] + "..."
	}
	log.Printf("transform: %s: sql fp=%016x %q", name, xxh3.HashString(sql), head)
}

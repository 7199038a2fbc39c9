// Package load implements the materialization stage: it rebuilds the source
// tables inside the query-capable store, loads the extracted rows, and
// creates the reference relations the analytical queries join against.
//
// The stage is idempotent by construction: every table and view is dropped
// and recreated, so each pipeline run starts from a clean, fully refreshed
// state with no append semantics.
package load

import (
	"context"
	"fmt"
	"log"

	"olistetl/internal/dataset"
	"olistetl/internal/ddl"
	"olistetl/internal/storage"
)

// DefaultBatchSize bounds the number of rows per CopyFrom call.
const DefaultBatchSize = 5000

// Materialize drops and recreates each table, bulk-loads its rows in
// batches, then rebuilds the months lookup and the delivered_orders view.
func Materialize(ctx context.Context, repo storage.Repository, tables []*dataset.Table, batchSize int) error {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	for _, t := range tables {
		if err := materializeTable(ctx, repo, t, batchSize); err != nil {
			return err
		}
	}
	if err := createMonths(ctx, repo); err != nil {
		return err
	}
	if err := createViews(ctx, repo); err != nil {
		return err
	}
	return nil
}

func materializeTable(ctx context.Context, repo storage.Repository, t *dataset.Table, batchSize int) error {
	d := repo.Dialect()

	td := ddl.TableDef{Name: t.Name}
	pk := primaryKeyFor(t.Name)
	for _, c := range t.Columns {
		sqlType := d.SQLType(c.Kind)
		if pk[c.Name] {
			sqlType = d.KeySQLType(c.Kind)
		}
		td.Columns = append(td.Columns, ddl.ColumnDef{
			Name:       c.Name,
			SQLType:    sqlType,
			Nullable:   !pk[c.Name],
			PrimaryKey: pk[c.Name],
		})
	}
	createSQL, err := ddl.BuildCreateTableSQL(td)
	if err != nil {
		return fmt.Errorf("load: %s: %w", t.Name, err)
	}

	if err := repo.Exec(ctx, "DROP TABLE IF EXISTS "+t.Name); err != nil {
		return fmt.Errorf("load: drop %s: %w", t.Name, err)
	}
	if err := repo.Exec(ctx, createSQL); err != nil {
		return fmt.Errorf("load: create %s: %w", t.Name, err)
	}

	cols := t.ColumnNames()
	var total int64
	for start := 0; start < len(t.Rows); start += batchSize {
		end := start + batchSize
		if end > len(t.Rows) {
			end = len(t.Rows)
		}
		n, err := repo.CopyFrom(ctx, t.Name, cols, t.Rows[start:end])
		total += n
		if err != nil {
			return fmt.Errorf("load: copy into %s: %w", t.Name, err)
		}
	}
	log.Printf("load: %s: rows=%d", t.Name, total)
	return nil
}

// primaryKeyFor returns the set of key columns declared for a table.
func primaryKeyFor(table string) map[string]bool {
	out := map[string]bool{}
	for _, sch := range dataset.Schemas() {
		if sch.Table != table {
			continue
		}
		for _, c := range sch.PrimaryKey {
			out[c] = true
		}
	}
	return out
}

// Package dataset declares the marketplace table schemas and implements the
// extract stage: reading the raw CSV sources into typed in-memory tables.
package dataset

import (
	"errors"

	"olistetl/internal/ddl"
)

// ErrSourceMissing reports that a required CSV source is absent.
var ErrSourceMissing = errors.New("source missing")

// ErrSchemaMismatch reports that an expected column is absent from a source
// or that a value could not be coerced to the declared column kind.
var ErrSchemaMismatch = errors.New("schema mismatch")

// Column is a named, typed column of a Table.
type Column struct {
	Name string
	Kind ddl.Kind
}

// Table is an in-memory relation: an ordered column list plus positional
// rows. Cell values are nil (SQL NULL), string, int64, float64, bool, or
// time.Time once the cleaning chain has run.
type Table struct {
	Name    string
	Columns []Column
	Rows    [][]any
}

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// ColumnNames returns the ordered column names.
func (t *Table) ColumnNames() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

// Package results persists report relations. Every relation is written to
// the store as a result_<name> table with full-overwrite semantics, and
// optionally exported to CSV and JSON files in an output directory.
package results

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"olistetl/internal/ddl"
	"olistetl/internal/reports"
	"olistetl/internal/storage"
)

// ErrPersistence marks a result that could not be written.
var ErrPersistence = errors.New("result persistence failed")

// Writer persists relations under stable identifiers tied to report names.
type Writer struct {
	repo    storage.Repository
	outDir  string
	formats map[string]bool
}

// NewWriter returns a Writer targeting repo. When outDir is non-empty, each
// relation is additionally exported there in the requested formats ("csv",
// "json").
func NewWriter(repo storage.Repository, outDir string, formats []string) *Writer {
	fm := make(map[string]bool, len(formats))
	for _, f := range formats {
		fm[f] = true
	}
	return &Writer{repo: repo, outDir: outDir, formats: fm}
}

// Write persists rel as the table result_<name>, overwriting any previous
// result for that name, then runs the configured file exports.
func (w *Writer) Write(ctx context.Context, rel *reports.Relation) error {
	if err := w.writeTable(ctx, rel); err != nil {
		return fmt.Errorf("results: %s: %w: %v", rel.Name, ErrPersistence, err)
	}
	if w.outDir != "" {
		if err := os.MkdirAll(w.outDir, 0o755); err != nil {
			return fmt.Errorf("results: %s: %w: %v", rel.Name, ErrPersistence, err)
		}
		if w.formats["csv"] {
			if err := w.writeCSV(rel); err != nil {
				return fmt.Errorf("results: %s: %w: %v", rel.Name, ErrPersistence, err)
			}
		}
		if w.formats["json"] {
			if err := w.writeJSON(rel); err != nil {
				return fmt.Errorf("results: %s: %w: %v", rel.Name, ErrPersistence, err)
			}
		}
	}
	log.Printf("write: %s: rows=%d", rel.Name, len(rel.Rows))
	return nil
}

func (w *Writer) writeTable(ctx context.Context, rel *reports.Relation) error {
	table := "result_" + rel.Name
	d := w.repo.Dialect()

	td := ddl.TableDef{Name: table}
	for i, col := range rel.Columns {
		td.Columns = append(td.Columns, ddl.ColumnDef{
			Name:     col,
			SQLType:  d.SQLType(inferKind(rel, i)),
			Nullable: true,
		})
	}
	createSQL, err := ddl.BuildCreateTableSQL(td)
	if err != nil {
		return err
	}

	if err := w.repo.Exec(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
		return err
	}
	if err := w.repo.Exec(ctx, createSQL); err != nil {
		return err
	}
	if len(rel.Rows) == 0 {
		return nil
	}
	_, err = w.repo.CopyFrom(ctx, table, rel.Columns, rel.Rows)
	return err
}

// inferKind picks a column type from the first non-nil value in the column.
func inferKind(rel *reports.Relation, col int) ddl.Kind {
	for _, row := range rel.Rows {
		switch row[col].(type) {
		case nil:
			continue
		case int64:
			return ddl.KindInt
		case float64:
			return ddl.KindFloat
		case bool:
			return ddl.KindBool
		case time.Time:
			return ddl.KindTimestamp
		default:
			return ddl.KindText
		}
	}
	return ddl.KindText
}

func (w *Writer) writeCSV(rel *reports.Relation) error {
	f, err := os.Create(filepath.Join(w.outDir, rel.Name+".csv"))
	if err != nil {
		return err
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(rel.Columns); err != nil {
		return err
	}
	for _, row := range rel.Rows {
		rec := make([]string, len(row))
		for i, v := range row {
			rec[i] = formatCSV(v)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return f.Close()
}

func formatCSV(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.UTC().Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprint(x)
	}
}

// writeJSON exports the relation as an array of records. Object keys keep
// the relation's column order and time values serialize as epoch ms.
func (w *Writer) writeJSON(rel *reports.Relation) error {
	var buf bytes.Buffer
	buf.WriteString("[")
	for ri, row := range rel.Rows {
		if ri > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n  {")
		for ci, col := range rel.Columns {
			if ci > 0 {
				buf.WriteString(", ")
			}
			key, err := json.Marshal(col)
			if err != nil {
				return err
			}
			val, err := json.Marshal(jsonValue(row[ci]))
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteString(": ")
			buf.Write(val)
		}
		buf.WriteString("}")
	}
	buf.WriteString("\n]\n")

	return os.WriteFile(filepath.Join(w.outDir, rel.Name+".json"), buf.Bytes(), 0o644)
}

func jsonValue(v any) any {
	if t, ok := v.(time.Time); ok {
		return t.UTC().UnixMilli()
	}
	return v
}

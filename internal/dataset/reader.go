package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\uFEFF"

// skipLogLimit caps per-table "skipping row" log lines so a badly mangled
// file cannot flood the output.
const skipLogLimit = 50

// ReadTable reads one CSV source into a Table according to its Schema.
//
// The first row must be a header; header names are normalized (BOM strip,
// trim, lowercase) before matching against the schema. Every schema column
// must be present, extra columns are ignored. Cell values are kept as strings
// with empty cells mapped to nil; type coercion is the cleaning chain's job.
//
// Rows with a field count different from the header are skipped softly and
// counted, mirroring how ragged rows show up in real dumps. A missing file
// wraps ErrSourceMissing; a missing column wraps ErrSchemaMismatch.
func ReadTable(dir string, sch Schema, csvName string) (*Table, error) {
	if csvName == "" {
		csvName = sch.CSVName
	}
	path := filepath.Join(dir, csvName)

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("dataset: table %s: %w: %s", sch.Table, ErrSourceMissing, path)
		}
		return nil, fmt.Errorf("dataset: open %s: %w", path, err)
	}
	defer f.Close()

	t, skipped, err := parseCSV(f, sch)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		log.Printf("extract: %s: skipped %d malformed row(s)", sch.Table, skipped)
	}
	log.Printf("extract: %s: rows=%d cols=%d", sch.Table, len(t.Rows), len(t.Columns))
	return t, nil
}

// ReadAll reads every schema from Schemas() in order. The overrides map
// (table name -> CSV filename) replaces default filenames when present.
func ReadAll(dir string, overrides map[string]string) ([]*Table, error) {
	schemas := Schemas()
	out := make([]*Table, 0, len(schemas))
	for _, sch := range schemas {
		t, err := ReadTable(dir, sch, overrides[sch.Table])
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func parseCSV(r io.Reader, sch Schema) (*Table, int, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("dataset: %s: read csv header: %w", sch.Table, err)
	}
	headers := normalizeHeaders(header)

	// Map each schema column to its CSV field position.
	pos := make([]int, len(sch.Columns))
	for i, col := range sch.Columns {
		idx := -1
		for j, h := range headers {
			if h == col.Name {
				idx = j
				break
			}
		}
		if idx < 0 {
			return nil, 0, fmt.Errorf("dataset: table %s: %w: column %s not in header",
				sch.Table, ErrSchemaMismatch, col.Name)
		}
		pos[i] = idx
	}

	t := &Table{Name: sch.Table, Columns: sch.Columns}
	var skipped int

	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if skipped < skipLogLimit {
				log.Printf("extract: %s: skipping row %d: %v", sch.Table, line, err)
			}
			skipped++
			continue
		}
		if len(row) != len(headers) {
			if skipped < skipLogLimit {
				log.Printf("extract: %s: skipping row %d: expected %d fields, got %d",
					sch.Table, line, len(headers), len(row))
			}
			skipped++
			continue
		}

		vals := make([]any, len(sch.Columns))
		for i, p := range pos {
			vals[i] = emptyToNil(row[p])
		}
		t.Rows = append(t.Rows, vals)
	}

	return t, skipped, nil
}

// emptyToNil converts an empty string to nil; other values pass through.
func emptyToNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// normalizeHeaders produces canonical header keys: BOM stripped from the
// first cell, trimmed, lowercased, spaces to underscores.
func normalizeHeaders(h []string) []string {
	res := make([]string, len(h))
	for i, col := range h {
		c := strings.TrimSpace(col)
		if i == 0 {
			c = strings.TrimPrefix(c, utf8BOM)
		}
		res[i] = strings.ReplaceAll(strings.ToLower(c), " ", "_")
	}
	return res
}

package clean

import (
	"fmt"
	"strconv"
	"time"

	"olistetl/internal/dataset"
	"olistetl/internal/ddl"
)

// timestampLayouts are tried in order when parsing timestamp cells. The raw
// dumps use "2006-01-02 15:04:05"; estimate columns are sometimes date-only.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC3339,
}

// Coerce converts string cells to the kind declared by the table schema.
// Nil cells stay nil; a non-empty value that fails to parse is a hard error
// wrapping dataset.ErrSchemaMismatch, since it means the source does not
// match the declared schema.
type Coerce struct{}

func (Coerce) Apply(t *dataset.Table) error {
	for ci, col := range t.Columns {
		if col.Kind == ddl.KindText {
			continue
		}
		for ri, row := range t.Rows {
			s, ok := row[ci].(string)
			if !ok {
				continue
			}
			v, err := coerceValue(s, col.Kind)
			if err != nil {
				return fmt.Errorf("clean: %s.%s row %d: %w: %v",
					t.Name, col.Name, ri+1, dataset.ErrSchemaMismatch, err)
			}
			row[ci] = v
		}
	}
	return nil
}

func coerceValue(s string, kind ddl.Kind) (any, error) {
	switch kind {
	case ddl.KindInt:
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse int %q", s)
		}
		return i, nil
	case ddl.KindFloat:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("parse float %q", s)
		}
		return f, nil
	case ddl.KindBool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("parse bool %q", s)
		}
		return b, nil
	case ddl.KindTimestamp:
		for _, layout := range timestampLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts, nil
			}
		}
		return nil, fmt.Errorf("parse timestamp %q", s)
	default:
		return s, nil
	}
}

// Midnight truncates every timestamp cell of the named column to UTC
// midnight. The holidays table uses it so calendar joins compare dates, not
// instants.
type Midnight struct {
	Column string
}

func (m Midnight) Apply(t *dataset.Table) error {
	ci := t.ColumnIndex(m.Column)
	if ci < 0 {
		return nil
	}
	for _, row := range t.Rows {
		if ts, ok := row[ci].(time.Time); ok {
			y, mo, d := ts.Date()
			row[ci] = time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
		}
	}
	return nil
}

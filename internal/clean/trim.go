package clean

import (
	"strings"

	"olistetl/internal/dataset"
)

// TrimSpace strips leading/trailing whitespace from every string cell.
// Interior casing and spacing are preserved.
type TrimSpace struct{}

func (TrimSpace) Apply(t *dataset.Table) error {
	for _, row := range t.Rows {
		for i, v := range row {
			if s, ok := v.(string); ok {
				trimmed := strings.TrimSpace(s)
				if trimmed == "" {
					row[i] = nil
					continue
				}
				row[i] = trimmed
			}
		}
	}
	return nil
}

package clean

import (
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"olistetl/internal/dataset"
)

// foldedColumns names the categorical text columns whose values are folded
// to unaccented form. The raw dumps mix accented and unaccented spellings of
// the same Brazilian city and category names, which would otherwise split
// GROUP BY buckets.
var foldedColumns = map[string]bool{
	"customer_city":         true,
	"seller_city":           true,
	"geolocation_city":      true,
	"product_category_name": true,
}

// FoldAccents strips diacritics (NFD, remove nonspacing marks, NFC) from the
// configured columns. Columns outside the set are untouched.
type FoldAccents struct{}

func (FoldAccents) Apply(t *dataset.Table) error {
	fold := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)

	for ci, col := range t.Columns {
		if !foldedColumns[col.Name] {
			continue
		}
		for _, row := range t.Rows {
			s, ok := row[ci].(string)
			if !ok {
				continue
			}
			if folded, _, err := transform.String(fold, s); err == nil {
				row[ci] = folded
			}
		}
	}
	return nil
}

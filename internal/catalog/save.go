package catalog

import (
	"github.com/blackwell-systems/shelfmap/internal/tabular"
)

// ExportText renders the catalog as CSV in row order. Structured fields are
// projected back onto each row first; cells whose value did not change keep
// their original text.
func ExportText(c *Catalog, s Schema) string {
	rows := make([]tabular.Record, 0, c.Len())
	for _, b := range c.Books() {
		b = b.Clone()
		b = s.project(b)
		writeLocation(b.Raw, b.Location)
		rows = append(rows, b.Raw)
	}
	return tabular.Serialize(c.columns, rows)
}

package catalog

import (
	"fmt"
	"os"

	"github.com/blackwell-systems/shelfmap/internal/errors"
	"github.com/blackwell-systems/shelfmap/internal/tabular"
)

// Load parses CSV text into a catalog. A header that does not fit the
// schema yields a SCHEMA_MISMATCH error and no catalog.
func Load(text string, s Schema) (*Catalog, error) {
	t := tabular.Parse(text)
	if err := s.Conform(t); err != nil {
		return nil, err
	}
	return New(t.Columns, Assign(t.Rows, s)), nil
}

// LoadFile reads and parses a CSV catalog from disk.
func LoadFile(path string, s Schema) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return Load(string(data), s)
}

// Empty returns a catalog with the schema's default columns and no books.
func Empty(s Schema) *Catalog {
	return New(s.Columns(), nil)
}

// Restore rebuilds a catalog from stored raw rows. order must list every key
// of rows exactly once. Structured fields are read back from each row.
func Restore(columns, order []string, rows map[string]tabular.Record, s Schema) (*Catalog, error) {
	if len(order) != len(rows) {
		return nil, errors.New(errors.CodeInvalidReference, "row order lists %d ids for %d books", len(order), len(rows))
	}
	books := make([]Book, 0, len(order))
	seen := make(map[string]bool, len(order))
	for _, id := range order {
		rec, ok := rows[id]
		if !ok || seen[id] {
			return nil, errors.New(errors.CodeInvalidReference, "row order entry %q does not match a book", id)
		}
		seen[id] = true
		full := make(tabular.Record, len(columns))
		for _, col := range columns {
			full[col] = rec[col]
		}
		b := s.bookFromRecord(full)
		b.ID = id
		books = append(books, b)
	}
	return New(columns, books), nil
}

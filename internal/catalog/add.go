package catalog

import (
	"strings"

	"github.com/blackwell-systems/shelfmap/internal/errors"
	"github.com/blackwell-systems/shelfmap/internal/tabular"
)

// NewBook creates a book for c from p. The id is derived the same way the
// importer derives one for a row without an explicit key, made unique
// against c, and written to the first identity column so a re-import of the
// exported file yields the same id.
func NewBook(c *Catalog, s Schema, p Patch) (Book, error) {
	if p.Title == nil || strings.TrimSpace(*p.Title) == "" {
		return Book{}, errors.New(errors.CodeInvalidInput, "title is required")
	}
	var author, year string
	if p.Author != nil {
		author = *p.Author
	}
	if p.Year != nil {
		year = *p.Year
	}

	taken := make(map[string]bool, c.Len())
	for _, id := range c.IDs() {
		taken[id] = true
	}
	id := uniqueID(DerivedID(author, *p.Title, year), taken)

	raw := make(tabular.Record, len(c.Columns()))
	for _, col := range c.Columns() {
		raw[col] = ""
	}
	if len(s.IDColumns) > 0 {
		raw[s.IDColumns[0]] = id
	}
	b, err := ApplyPatch(Book{ID: id, Raw: raw}, p, s)
	if err != nil {
		return Book{}, err
	}
	return b, nil
}

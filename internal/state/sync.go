package state

import (
	"github.com/blackwell-systems/shelfmap/internal/catalog"
	"github.com/blackwell-systems/shelfmap/internal/layout"
)

// applyLocations syncs the books named in locs. Books already at their
// location are left alone; if none move, c is returned.
func applyLocations(c *catalog.Catalog, locs []layout.Location) *catalog.Catalog {
	var changed []catalog.Book
	for _, loc := range locs {
		b, ok := c.Get(loc.Book)
		if !ok {
			continue
		}
		if at(b, loc) {
			continue
		}
		changed = append(changed, catalog.Sync(b, loc.Bookcase, loc.Shelf, loc.Position))
	}
	if len(changed) == 0 {
		return c
	}
	return c.Upsert(changed...)
}

// syncCatalog syncs every book placed in l.
func syncCatalog(c *catalog.Catalog, l *layout.Layout) *catalog.Catalog {
	if l == nil {
		return c
	}
	return applyLocations(c, layout.LocateAll(l))
}

func at(b catalog.Book, loc layout.Location) bool {
	return b.Location.Bookcase == loc.Bookcase &&
		b.Location.Shelf == loc.Shelf &&
		b.Location.Position == loc.Position &&
		catalog.InSync(b)
}

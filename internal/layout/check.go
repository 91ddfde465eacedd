package layout

import (
	"github.com/blackwell-systems/shelfmap/internal/catalog"
	"github.com/blackwell-systems/shelfmap/internal/errors"
)

// Check verifies the structural invariants of l against c: shelf counts
// and labels agree with shelf ids, every shelf is owned by exactly one
// bookcase, every placement resolves to a book, and no placement repeats.
func Check(l *Layout, c *catalog.Catalog) error {
	owned := make(map[string]bool, len(l.Shelves))
	seen := make(map[Placement]bool)
	for _, bc := range l.Bookcases {
		n := len(bc.ShelfIDs)
		if n < 1 || n > MaxShelves {
			return errors.New(errors.CodeInvalidReference, "bookcase %s has %d shelves", bc.ID, n)
		}
		if bc.Settings.ShelfCount != n || len(bc.Settings.ShelfLabels) != n {
			return errors.New(errors.CodeInvalidReference,
				"bookcase %s: shelfCount %d and %d labels for %d shelves",
				bc.ID, bc.Settings.ShelfCount, len(bc.Settings.ShelfLabels), n)
		}
		for _, sid := range bc.ShelfIDs {
			if owned[sid] {
				return errors.New(errors.CodeInvalidReference, "shelf %s appears twice", sid)
			}
			owned[sid] = true
			sh, ok := l.Shelves[sid]
			if !ok || sh.ID != sid {
				return errors.New(errors.CodeInvalidReference, "bookcase %s references missing shelf %s", bc.ID, sid)
			}
			for _, p := range sh.Placements {
				if !c.Has(p.Book) {
					return errors.New(errors.CodeInvalidReference, "shelf %s holds unknown book %s", sid, p.Book)
				}
				if seen[p] {
					return errors.New(errors.CodeInvalidReference, "placement %s appears twice", p)
				}
				seen[p] = true
			}
		}
	}
	for sid := range l.Shelves {
		if !owned[sid] {
			return errors.New(errors.CodeInvalidReference, "shelf %s belongs to no bookcase", sid)
		}
	}
	return nil
}

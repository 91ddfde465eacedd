package layout

import (
	"strings"

	"github.com/blackwell-systems/shelfmap/internal/catalog"
)

// Reconcile brings l in line with the catalog without disturbing the
// arrangement of placements that are still valid.
//
// Placements whose book is gone, or whose category value no longer applies,
// are dropped. When bookcases are named after category values, a placement
// must also sit in the bookcase of its current value. Placements the catalog
// now calls for are appended to the last shelf of the bookcase named after
// their category, or to a new bookcase if there is none. Bookcases left
// empty with no category behind them are removed. If nothing changes, l is
// returned.
func Reconcile(l *Layout, c *catalog.Catalog, def Definition) *Layout {
	return ReconcileSince(l, nil, c, def)
}

// ReconcileSince is Reconcile for a layout that was last in line with prev.
// A placement whose category value is the same under prev and c stays where
// it is, even in another value's bookcase. Only placements whose value
// changed are moved to the bookcase of the new value. A nil prev treats every value as changed.
func ReconcileSince(l *Layout, prev, c *catalog.Catalog, def Definition) *Layout {
	buckets := plan(c, def)
	expected := make(map[Placement]string)
	names := make(map[string]bool, len(buckets))
	for _, b := range buckets {
		names[b.name] = true
		for _, p := range b.items {
			expected[p] = b.name
		}
	}
	byName := bucketNamed(def)
	before := make(map[Placement]string)
	if byName && prev != nil {
		for _, b := range plan(prev, def) {
			for _, p := range b.items {
				before[p] = b.name
			}
		}
	}

	next := l.clone()
	changed := false
	present := make(map[Placement]bool)
	for _, bc := range l.Bookcases {
		for _, sid := range bc.ShelfIDs {
			sh := l.Shelves[sid]
			kept := make([]Placement, 0, len(sh.Placements))
			for _, p := range sh.Placements {
				want, ok := expected[p]
				if ok && !present[p] && (!byName || want == bc.Name || before[p] == want) {
					kept = append(kept, p)
					present[p] = true
				}
			}
			if len(kept) != len(sh.Placements) {
				next.Shelves[sid] = Shelf{ID: sid, Placements: kept}
				changed = true
			}
		}
	}

	var bookcases []Bookcase
	for _, bc := range next.Bookcases {
		if !names[bc.Name] && isEmpty(next, bc) {
			for _, sid := range bc.ShelfIDs {
				delete(next.Shelves, sid)
			}
			changed = true
			continue
		}
		bookcases = append(bookcases, bc)
	}
	next.Bookcases = bookcases

	for _, b := range buckets {
		var missing []Placement
		for _, p := range b.items {
			if !present[p] {
				missing = append(missing, p)
			}
		}
		if len(missing) == 0 {
			continue
		}
		changed = true
		if bc, _, ok := next.BookcaseByName(b.name); ok {
			last := bc.ShelfIDs[len(bc.ShelfIDs)-1]
			sh := next.Shelves[last]
			merged := append(append([]Placement(nil), sh.Placements...), missing...)
			next.Shelves[last] = Shelf{ID: last, Placements: merged}
			continue
		}
		next.addBookcase(b.name, roundRobin(missing, ShelfCountFor(len(missing))))
	}

	if !changed {
		return l
	}
	return next
}

// bucketNamed reports whether def names bookcases after category values.
// Single-bucket libraries and libraries laid out from recorded locations
// keep whatever bookcase a placement was moved to.
func bucketNamed(def Definition) bool {
	f := strings.TrimSpace(def.CategorizeField)
	return f != "" && !isField(f, FieldBookcase)
}

func isEmpty(l *Layout, bc Bookcase) bool {
	for _, sid := range bc.ShelfIDs {
		if len(l.Shelves[sid].Placements) > 0 {
			return false
		}
	}
	return true
}

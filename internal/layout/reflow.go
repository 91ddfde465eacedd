package layout

import (
	"strings"

	"github.com/blackwell-systems/shelfmap/internal/id"
)

// SetBookcaseShelfCount changes a bookcase's shelf count, clamped to
// [1, MaxShelves], and returns the locations of every primary placement in
// the bookcase.
//
// Growing appends empty shelves labelled "Shelf n". Shrinking moves the
// contents of the removed trailing shelves, in order, onto the end of the
// new last shelf; shelves that survive keep their order untouched.
func SetBookcaseShelfCount(l *Layout, bookcaseID string, n int) (*Layout, []Location) {
	bc, bi, ok := l.Bookcase(bookcaseID)
	if !ok {
		return l, nil
	}
	n = clamp(n, 1, MaxShelves)
	if n == len(bc.ShelfIDs) {
		return l, nil
	}

	next := l.clone()
	nb := bc
	if n > len(bc.ShelfIDs) {
		nb.ShelfIDs = append([]string(nil), bc.ShelfIDs...)
		for len(nb.ShelfIDs) < n {
			sid := id.MustGenerate("shelf")
			nb.ShelfIDs = append(nb.ShelfIDs, sid)
			next.Shelves[sid] = Shelf{ID: sid, Placements: []Placement{}}
		}
	} else {
		nb.ShelfIDs = append([]string(nil), bc.ShelfIDs[:n]...)
		last := nb.ShelfIDs[n-1]
		merged := append([]Placement(nil), l.Shelves[last].Placements...)
		for _, sid := range bc.ShelfIDs[n:] {
			merged = append(merged, l.Shelves[sid].Placements...)
			delete(next.Shelves, sid)
		}
		next.Shelves[last] = Shelf{ID: last, Placements: merged}
	}
	nb.Settings = Settings{ShelfCount: n, ShelfLabels: fitLabels(bc.Settings.ShelfLabels, n)}
	next.Bookcases[bi] = nb
	return next, locateBookcase(next, bi)
}

// SetShelfLabel relabels the 1-based shelf number of a bookcase. A blank
// label restores the default. It returns l and false for unknown targets.
func SetShelfLabel(l *Layout, bookcaseID string, shelf int, label string) (*Layout, bool) {
	bc, bi, ok := l.Bookcase(bookcaseID)
	if !ok || shelf < 1 || shelf > len(bc.ShelfIDs) {
		return l, false
	}
	label = strings.TrimSpace(label)
	if label == "" {
		label = DefaultLabel(shelf)
	}
	labels := fitLabels(bc.Settings.ShelfLabels, len(bc.ShelfIDs))
	if labels[shelf-1] == label {
		return l, true
	}
	labels[shelf-1] = label
	next := l.clone()
	nb := bc
	nb.Settings = Settings{ShelfCount: len(bc.ShelfIDs), ShelfLabels: labels}
	next.Bookcases[bi] = nb
	return next, true
}

// fitLabels returns a copy of labels padded with defaults or truncated to n.
func fitLabels(labels []string, n int) []string {
	out := make([]string, n)
	for i := range out {
		if i < len(labels) && labels[i] != "" {
			out[i] = labels[i]
		} else {
			out[i] = DefaultLabel(i + 1)
		}
	}
	return out
}

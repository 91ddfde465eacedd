package layout

import "strconv"

// Location is the derived position of a book's primary placement.
// Shelf and Position are 1-based.
type Location struct {
	Book     string
	Bookcase string
	Shelf    int
	Position int
}

// Locate derives the locations of every primary placement on the given
// shelves. Unknown shelf ids are skipped.
func Locate(l *Layout, shelfIDs ...string) []Location {
	var out []Location
	for _, sid := range shelfIDs {
		bi, si, ok := l.ShelfOwner(sid)
		if !ok {
			continue
		}
		name := l.Bookcases[bi].Name
		for i, p := range l.Shelves[sid].Placements {
			if !p.IsPrimary() {
				continue
			}
			out = append(out, Location{Book: p.Book, Bookcase: name, Shelf: si + 1, Position: i + 1})
		}
	}
	return out
}

// LocateAll derives the location of every primary placement in l.
func LocateAll(l *Layout) []Location {
	var ids []string
	for _, bc := range l.Bookcases {
		ids = append(ids, bc.ShelfIDs...)
	}
	return Locate(l, ids...)
}

// locateBookcase derives locations for every shelf of bookcase index bi.
func locateBookcase(l *Layout, bi int) []Location {
	return Locate(l, l.Bookcases[bi].ShelfIDs...)
}

func itoa(n int) string { return strconv.Itoa(n) }

package catalog

import "strconv"

// Sync returns a copy of b placed at (bookcase, shelf, position) with the
// structured location and the four Location_* columns updated together.
// The location note is carried over unchanged. b itself is not modified.
func Sync(b Book, bookcase string, shelf, position int) Book {
	out := b.Clone()
	out.Location.Bookcase = bookcase
	out.Location.Shelf = shelf
	out.Location.Position = position
	writeLocation(out.Raw, out.Location)
	return out
}

// InSync reports whether b's raw location columns mirror its structured
// location.
func InSync(b Book) bool {
	return b.Raw[ColBookcase] == b.Location.Bookcase &&
		b.Raw[ColShelf] == itoa(b.Location.Shelf) &&
		b.Raw[ColPosition] == itoa(b.Location.Position) &&
		b.Raw[ColNote] == b.Location.Note
}

func writeLocation(raw map[string]string, loc Location) {
	raw[ColBookcase] = loc.Bookcase
	raw[ColShelf] = itoa(loc.Shelf)
	raw[ColPosition] = itoa(loc.Position)
	raw[ColNote] = loc.Note
}

// itoa renders an unplaced (zero) shelf or position as an empty cell.
func itoa(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}

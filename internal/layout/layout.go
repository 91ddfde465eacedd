// Package layout arranges a catalog into libraries of bookcases and shelves.
//
// A Layout is treated as an immutable value: Build, Reconcile and the
// placement operations (MoveBook, SetBookcaseShelfCount, SetShelfLabel)
// either return their input pointer unchanged or a fresh Layout that shares
// no mutable state the caller could observe changing. Callers compare
// pointers to skip redundant work.
package layout

import (
	"strings"

	"github.com/blackwell-systems/shelfmap/internal/catalog"
)

// MaxShelves bounds every bookcase's shelf count.
const MaxShelves = 12

// ItemsPerShelf drives the default shelf-count heuristic.
const ItemsPerShelf = 18

// Uncategorized names the bookcase for books with no category value.
const Uncategorized = "Uncategorized"

// Mode controls how a multi-valued category maps to placements.
type Mode string

const (
	// ModeDuplicate places a book once per distinct category value.
	ModeDuplicate Mode = "duplicate"
	// ModeFirst places a book under its first category value only.
	ModeFirst Mode = "first"
	// ModeSplit places a book once, under its most specific category value:
	// the one shared by the fewest books in the catalog.
	ModeSplit Mode = "split"
)

// Definition is a library: a named rule for categorizing the catalog.
type Definition struct {
	ID                string `yaml:"id" validate:"required"`
	Name              string `yaml:"name" validate:"required"`
	CategorizeField   string `yaml:"categorizeField,omitempty"`
	MultiCategoryMode Mode   `yaml:"multiCategoryMode,omitempty" validate:"omitempty,oneof=duplicate first split"`
}

// Mode returns the effective multi-category mode (first when unset).
func (d Definition) Mode() Mode {
	if d.MultiCategoryMode == "" {
		return ModeFirst
	}
	return d.MultiCategoryMode
}

// SameRule reports whether d and o categorize books identically.
func (d Definition) SameRule(o Definition) bool {
	return strings.EqualFold(d.CategorizeField, o.CategorizeField) && d.Mode() == o.Mode()
}

// Placement is one appearance of a book on a shelf. The primary placement
// has an empty Copy; duplicates carry the category value they stand for.
type Placement struct {
	Book string `yaml:"book" validate:"required"`
	Copy string `yaml:"copy,omitempty"`
}

// IsPrimary reports whether p is the book's primary placement.
func (p Placement) IsPrimary() bool { return p.Copy == "" }

// String renders p as "book" or "book::copy" for display.
func (p Placement) String() string {
	if p.Copy == "" {
		return p.Book
	}
	return p.Book + "::" + p.Copy
}

// ParsePlacement is the inverse of Placement.String, splitting on the first "::".
func ParsePlacement(s string) Placement {
	book, cp, _ := strings.Cut(s, "::")
	return Placement{Book: book, Copy: cp}
}

// Shelf is an ordered run of placements.
type Shelf struct {
	ID         string      `yaml:"id" validate:"required"`
	Placements []Placement `yaml:"bookIds" validate:"dive"`
}

// Settings are per-bookcase display settings.
type Settings struct {
	ShelfCount  int      `yaml:"shelfCount" validate:"min=1,max=12"`
	ShelfLabels []string `yaml:"shelfLabels"`
}

// Bookcase is a named, ordered set of shelves.
type Bookcase struct {
	ID       string   `yaml:"id" validate:"required"`
	Name     string   `yaml:"name"`
	ShelfIDs []string `yaml:"shelfIds" validate:"min=1,max=12"`
	Settings Settings `yaml:"settings"`
}

// Layout is one library's arrangement of bookcases.
type Layout struct {
	LibraryID string           `yaml:"libraryId" validate:"required"`
	Bookcases []Bookcase       `yaml:"bookcases" validate:"dive"`
	Shelves   map[string]Shelf `yaml:"shelvesById" validate:"dive"`
}

// Library pairs a definition with its current layout.
type Library struct {
	Definition Definition
	Layout     *Layout
	// Catalog is what Layout was last reconciled against; nil if unknown.
	Catalog *catalog.Catalog
}

// Bookcase returns the bookcase with id and its index.
func (l *Layout) Bookcase(id string) (Bookcase, int, bool) {
	for i, bc := range l.Bookcases {
		if bc.ID == id {
			return bc, i, true
		}
	}
	return Bookcase{}, -1, false
}

// BookcaseByName returns the first bookcase called name.
func (l *Layout) BookcaseByName(name string) (Bookcase, int, bool) {
	for i, bc := range l.Bookcases {
		if bc.Name == name {
			return bc, i, true
		}
	}
	return Bookcase{}, -1, false
}

// ShelfOwner returns the index of the bookcase holding shelfID and the
// shelf's 0-based index within it.
func (l *Layout) ShelfOwner(shelfID string) (bookcase, shelf int, ok bool) {
	for i, bc := range l.Bookcases {
		for j, sid := range bc.ShelfIDs {
			if sid == shelfID {
				return i, j, true
			}
		}
	}
	return -1, -1, false
}

// Find returns the shelf holding p and p's index on it.
func (l *Layout) Find(p Placement) (shelfID string, index int, ok bool) {
	for _, bc := range l.Bookcases {
		for _, sid := range bc.ShelfIDs {
			for i, q := range l.Shelves[sid].Placements {
				if q == p {
					return sid, i, true
				}
			}
		}
	}
	return "", -1, false
}

// Placements returns every placement in bookcase, shelf and position order.
func (l *Layout) Placements() []Placement {
	var out []Placement
	for _, bc := range l.Bookcases {
		for _, sid := range bc.ShelfIDs {
			out = append(out, l.Shelves[sid].Placements...)
		}
	}
	return out
}

// BookIDs returns the set of books that have at least one placement.
func (l *Layout) BookIDs() map[string]bool {
	ids := make(map[string]bool)
	for _, p := range l.Placements() {
		ids[p.Book] = true
	}
	return ids
}

// clone copies the layout's top-level containers. Bookcase and shelf
// slices are still shared and must be replaced, not edited, by the caller.
func (l *Layout) clone() *Layout {
	next := &Layout{
		LibraryID: l.LibraryID,
		Bookcases: append([]Bookcase(nil), l.Bookcases...),
		Shelves:   make(map[string]Shelf, len(l.Shelves)),
	}
	for k, v := range l.Shelves {
		next.Shelves[k] = v
	}
	return next
}

// Retarget returns l under a different library id.
func (l *Layout) Retarget(libraryID string) *Layout {
	if l.LibraryID == libraryID {
		return l
	}
	next := l.clone()
	next.LibraryID = libraryID
	return next
}

// ShelfCountFor is the default shelf count for a bookcase of n items.
func ShelfCountFor(n int) int {
	base := (n + ItemsPerShelf - 1) / ItemsPerShelf
	adjusted := base
	if n >= ItemsPerShelf && base < 2 {
		adjusted = 2
	}
	return clamp(adjusted, 1, MaxShelves)
}

// DefaultLabel is the label of a 1-based shelf number.
func DefaultLabel(n int) string {
	return "Shelf " + itoa(n)
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

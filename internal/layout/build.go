package layout

import (
	"sort"
	"strings"

	"github.com/blackwell-systems/shelfmap/internal/catalog"
	"github.com/blackwell-systems/shelfmap/internal/id"
)

// Field names understood by CategorizeField. Any other name is read as a
// raw CSV column.
const (
	FieldTags     = "tags"
	FieldAuthor   = "author"
	FieldYear     = "year"
	FieldStatus   = "useStatus"
	FieldBookcase = "locationBookcase"
)

// bucket is the planned content of one bookcase.
type bucket struct {
	name  string
	items []Placement
}

// Build lays out c according to def.
//
// If previous holds a library with the same categorization rule whose
// layout covers exactly the catalog's book ids, that arrangement is carried
// forward (reconciled against any category changes) instead of rebuilt.
func Build(c *catalog.Catalog, def Definition, previous []Library) *Layout {
	for _, p := range previous {
		if p.Layout == nil || !p.Definition.SameRule(def) {
			continue
		}
		if sameBookSet(p.Layout, c) {
			return ReconcileSince(p.Layout.Retarget(def.ID), p.Catalog, c, def)
		}
	}
	return build(c, def)
}

func build(c *catalog.Catalog, def Definition) *Layout {
	l := &Layout{
		LibraryID: def.ID,
		Shelves:   make(map[string]Shelf),
	}
	restore := isField(def.CategorizeField, FieldBookcase)
	for _, b := range plan(c, def) {
		var shelves [][]Placement
		if restore {
			shelves = recorded(c, b)
		}
		if shelves == nil {
			shelves = roundRobin(b.items, ShelfCountFor(len(b.items)))
		}
		l.addBookcase(b.name, shelves)
	}
	return l
}

// addBookcase appends a bookcase holding the given shelves, in place.
// Only used on layouts that have not been handed out yet.
func (l *Layout) addBookcase(name string, shelves [][]Placement) {
	bc := Bookcase{
		ID:       id.MustGenerate("case"),
		Name:     name,
		Settings: Settings{ShelfCount: len(shelves)},
	}
	for i, items := range shelves {
		sid := id.MustGenerate("shelf")
		bc.ShelfIDs = append(bc.ShelfIDs, sid)
		bc.Settings.ShelfLabels = append(bc.Settings.ShelfLabels, DefaultLabel(i+1))
		l.Shelves[sid] = Shelf{ID: sid, Placements: items}
	}
	l.Bookcases = append(l.Bookcases, bc)
}

// roundRobin deals items onto count shelves: item i goes to shelf i mod count.
func roundRobin(items []Placement, count int) [][]Placement {
	shelves := make([][]Placement, count)
	for i := range shelves {
		shelves[i] = []Placement{}
	}
	for i, p := range items {
		shelves[i%count] = append(shelves[i%count], p)
	}
	return shelves
}

// recorded lays a bucket out from the locations its books already carry.
// It returns nil unless every item is a primary placement with a valid
// recorded location in this bookcase.
func recorded(c *catalog.Catalog, b bucket) [][]Placement {
	if len(b.items) == 0 {
		return nil
	}
	type slot struct {
		p             Placement
		shelf, pos, i int
	}
	slots := make([]slot, 0, len(b.items))
	highest := 0
	for i, p := range b.items {
		book, ok := c.Get(p.Book)
		if !ok || !p.IsPrimary() {
			return nil
		}
		loc := book.Location
		if loc.Bookcase != b.name || loc.Shelf < 1 || loc.Shelf > MaxShelves || loc.Position < 1 {
			return nil
		}
		if loc.Shelf > highest {
			highest = loc.Shelf
		}
		slots = append(slots, slot{p: p, shelf: loc.Shelf, pos: loc.Position, i: i})
	}
	sort.SliceStable(slots, func(a, z int) bool {
		if slots[a].shelf != slots[z].shelf {
			return slots[a].shelf < slots[z].shelf
		}
		if slots[a].pos != slots[z].pos {
			return slots[a].pos < slots[z].pos
		}
		return slots[a].i < slots[z].i
	})
	shelves := make([][]Placement, highest)
	for i := range shelves {
		shelves[i] = []Placement{}
	}
	for _, s := range slots {
		shelves[s.shelf-1] = append(shelves[s.shelf-1], s.p)
	}
	return shelves
}

// plan groups the catalog's placements into buckets in order of first
// appearance, walking books in row order.
func plan(c *catalog.Catalog, def Definition) []bucket {
	var counts map[string]int
	if def.Mode() == ModeSplit {
		counts = valueCounts(c, def.CategorizeField)
	}

	var buckets []bucket
	index := make(map[string]int)
	add := func(name string, p Placement) {
		i, ok := index[name]
		if !ok {
			i = len(buckets)
			index[name] = i
			buckets = append(buckets, bucket{name: name})
		}
		buckets[i].items = append(buckets[i].items, p)
	}

	for _, b := range c.Books() {
		if strings.TrimSpace(def.CategorizeField) == "" {
			add(def.Name, Placement{Book: b.ID})
			continue
		}
		values := CategoryValues(b, def.CategorizeField)
		if len(values) == 0 {
			add(Uncategorized, Placement{Book: b.ID})
			continue
		}
		switch def.Mode() {
		case ModeDuplicate:
			for i, v := range values {
				p := Placement{Book: b.ID}
				if i > 0 {
					p.Copy = v
				}
				add(v, p)
			}
		case ModeSplit:
			add(mostSpecific(values, counts), Placement{Book: b.ID})
		default:
			add(values[0], Placement{Book: b.ID})
		}
	}
	return buckets
}

// CategoryValues returns the distinct, non-empty values of field for b, in
// the order the book lists them.
func CategoryValues(b catalog.Book, field string) []string {
	var raw []string
	switch {
	case isField(field, FieldTags):
		raw = b.Tags
	case isField(field, FieldAuthor):
		raw = []string{b.Author}
	case isField(field, FieldYear):
		raw = []string{b.Year}
	case isField(field, FieldStatus):
		raw = []string{b.UseStatus}
	case isField(field, FieldBookcase):
		raw = []string{b.Location.Bookcase}
	default:
		raw = []string{b.Raw[field]}
	}
	var out []string
	seen := make(map[string]bool, len(raw))
	for _, v := range raw {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func valueCounts(c *catalog.Catalog, field string) map[string]int {
	counts := make(map[string]int)
	for _, b := range c.Books() {
		for _, v := range CategoryValues(b, field) {
			counts[v]++
		}
	}
	return counts
}

// mostSpecific picks the value shared by the fewest books; ties keep the
// earlier value.
func mostSpecific(values []string, counts map[string]int) string {
	best := values[0]
	for _, v := range values[1:] {
		if counts[v] < counts[best] {
			best = v
		}
	}
	return best
}

func sameBookSet(l *Layout, c *catalog.Catalog) bool {
	ids := l.BookIDs()
	if len(ids) != c.Len() {
		return false
	}
	for _, bid := range c.IDs() {
		if !ids[bid] {
			return false
		}
	}
	return true
}

func isField(field, name string) bool {
	return strings.EqualFold(strings.TrimSpace(field), name)
}

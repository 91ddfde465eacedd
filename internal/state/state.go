// Package state holds the application state: the catalog, the library
// definitions, one layout per library, and which library is active.
//
// A State is an immutable value. Every operation returns a new *State, or
// the receiver itself when nothing changed, so a previous State stays valid
// for undo and comparison.
package state

import (
	"github.com/blackwell-systems/shelfmap/internal/catalog"
	"github.com/blackwell-systems/shelfmap/internal/errors"
	"github.com/blackwell-systems/shelfmap/internal/id"
	"github.com/blackwell-systems/shelfmap/internal/layout"
	"github.com/blackwell-systems/shelfmap/internal/validation"
)

// Version is bumped whenever the shape of a persisted State changes.
const Version = 1

// DefaultLibrary is used when a State is created without any libraries.
var DefaultLibrary = layout.Definition{ID: "all", Name: "All books"}

// State is one consistent snapshot of the application.
type State struct {
	Catalog         *catalog.Catalog
	Schema          catalog.Schema
	Libraries       []layout.Definition
	Layouts         map[string]*layout.Layout
	ActiveLibraryID string
}

// New returns a State with an empty catalog and one empty layout per
// definition. The first definition is active.
func New(s catalog.Schema, defs []layout.Definition) (*State, error) {
	return FromCatalog(catalog.Empty(s), s, defs)
}

// FromCatalog builds fresh layouts for c and syncs every book's location
// from the first library.
func FromCatalog(c *catalog.Catalog, s catalog.Schema, defs []layout.Definition) (*State, error) {
	if len(defs) == 0 {
		defs = []layout.Definition{DefaultLibrary}
	}
	seen := make(map[string]bool, len(defs))
	for _, d := range defs {
		if err := validation.Validate(d); err != nil {
			return nil, err
		}
		if seen[d.ID] {
			return nil, errors.New(errors.CodeInvalidInput, "duplicate library id %q", d.ID)
		}
		seen[d.ID] = true
	}
	st := &State{
		Catalog:         c,
		Schema:          s,
		Libraries:       append([]layout.Definition(nil), defs...),
		Layouts:         make(map[string]*layout.Layout, len(defs)),
		ActiveLibraryID: defs[0].ID,
	}
	for _, d := range defs {
		st.Layouts[d.ID] = layout.Build(c, d, nil)
	}
	st.Catalog = syncCatalog(st.Catalog, st.ActiveLayout())
	return st, nil
}

// Restore assembles a State from stored parts. Every library must have a
// layout that passes layout.Check and gives every book a primary placement;
// the active library must exist. Book locations are resynced from the
// active layout.
func Restore(c *catalog.Catalog, s catalog.Schema, defs []layout.Definition, layouts map[string]*layout.Layout, activeID string) (*State, error) {
	if len(defs) == 0 {
		return nil, errors.New(errors.CodeInvalidReference, "no libraries")
	}
	if len(layouts) != len(defs) {
		return nil, errors.New(errors.CodeInvalidReference, "%d layouts for %d libraries", len(layouts), len(defs))
	}
	st := &State{
		Catalog:         c,
		Schema:          s,
		Libraries:       append([]layout.Definition(nil), defs...),
		Layouts:         make(map[string]*layout.Layout, len(defs)),
		ActiveLibraryID: activeID,
	}
	for _, d := range defs {
		if err := validation.Validate(d); err != nil {
			return nil, err
		}
		if _, dup := st.Layouts[d.ID]; dup {
			return nil, errors.New(errors.CodeInvalidReference, "duplicate library id %q", d.ID)
		}
		l, ok := layouts[d.ID]
		if !ok || l == nil {
			return nil, errors.New(errors.CodeInvalidReference, "library %s has no layout", d.ID)
		}
		if l.LibraryID != d.ID {
			return nil, errors.New(errors.CodeInvalidReference, "layout for %s claims library %s", d.ID, l.LibraryID)
		}
		if err := layout.Check(l, c); err != nil {
			return nil, errors.Wrap(errors.CodeInvalidReference, err, "library %s", d.ID)
		}
		placed := make(map[string]bool, c.Len())
		for _, p := range l.Placements() {
			if p.IsPrimary() {
				placed[p.Book] = true
			}
		}
		for _, bid := range c.IDs() {
			if !placed[bid] {
				return nil, errors.New(errors.CodeInvalidReference, "library %s does not place book %s", d.ID, bid)
			}
		}
		st.Layouts[d.ID] = l
	}
	if _, ok := st.Library(activeID); !ok {
		return nil, errors.New(errors.CodeInvalidReference, "active library %s not found", activeID)
	}
	st.Catalog = syncCatalog(st.Catalog, st.ActiveLayout())
	return st, nil
}

// ActiveLayout returns the layout of the active library.
func (s *State) ActiveLayout() *layout.Layout {
	return s.Layouts[s.ActiveLibraryID]
}

// Library returns the definition with id.
func (s *State) Library(libraryID string) (layout.Definition, bool) {
	for _, d := range s.Libraries {
		if d.ID == libraryID {
			return d, true
		}
	}
	return layout.Definition{}, false
}

// ActiveLibrary returns the active library's definition.
func (s *State) ActiveLibrary() layout.Definition {
	d, _ := s.Library(s.ActiveLibraryID)
	return d
}

// ExportText serializes the catalog, locations included.
func (s *State) ExportText() string {
	return catalog.ExportText(s.Catalog, s.Schema)
}

// ImportText replaces the catalog with text and rebuilds every library,
// carrying forward arrangements whose rule and book set are unchanged. On
// error the receiver is returned untouched.
func (s *State) ImportText(text string) (*State, error) {
	c, err := catalog.Load(text, s.Schema)
	if err != nil {
		return s, err
	}
	next := s.clone()
	next.Catalog = c
	for _, d := range s.Libraries {
		next.Layouts[d.ID] = layout.Build(c, d, s.previous(d.ID))
	}
	next.Catalog = syncCatalog(next.Catalog, next.ActiveLayout())
	return next, nil
}

// MoveBook moves a placement within the active layout and updates the
// locations of every book on the affected shelves. Unknown shelves or
// placements leave the state unchanged.
func (s *State) MoveBook(req layout.MoveRequest) *State {
	l := s.ActiveLayout()
	nl, locs := layout.MoveBook(l, req)
	if nl == l {
		return s
	}
	return s.withActiveLayout(nl, locs)
}

// MoveTo is MoveBook with the source shelf looked up.
func (s *State) MoveTo(p layout.Placement, toShelf string, toIndex int) *State {
	l := s.ActiveLayout()
	nl, locs := layout.MoveTo(l, p, toShelf, toIndex)
	if nl == l {
		return s
	}
	return s.withActiveLayout(nl, locs)
}

// SetBookcaseShelfCount reflows a bookcase of the active layout.
func (s *State) SetBookcaseShelfCount(bookcaseID string, n int) *State {
	l := s.ActiveLayout()
	nl, locs := layout.SetBookcaseShelfCount(l, bookcaseID, n)
	if nl == l {
		return s
	}
	return s.withActiveLayout(nl, locs)
}

// SetShelfLabel relabels a shelf of the active layout.
func (s *State) SetShelfLabel(bookcaseID string, shelf int, label string) (*State, error) {
	l := s.ActiveLayout()
	nl, ok := layout.SetShelfLabel(l, bookcaseID, shelf, label)
	if !ok {
		return s, errors.New(errors.CodeNotFound, "bookcase %s has no shelf %d", bookcaseID, shelf)
	}
	if nl == l {
		return s, nil
	}
	return s.withActiveLayout(nl, nil), nil
}

// UpdateBook applies p to a book, then reconciles every library with the
// edited catalog. Placements that still apply keep their position.
func (s *State) UpdateBook(bookID string, p catalog.Patch) (*State, error) {
	b, ok := s.Catalog.Get(bookID)
	if !ok {
		return s, errors.New(errors.CodeNotFound, "book %s not found", bookID)
	}
	for col := range p.Columns {
		if !containsColumn(s.Catalog.Columns(), col) {
			return s, errors.New(errors.CodeInvalidInput, "unknown column %q", col)
		}
	}
	nb, err := catalog.ApplyPatch(b, p, s.Schema)
	if err != nil {
		return s, err
	}
	return s.withCatalog(s.Catalog.Upsert(nb)), nil
}

// AddBook creates a book from p and places it in every library.
func (s *State) AddBook(p catalog.Patch) (*State, string, error) {
	b, err := catalog.NewBook(s.Catalog, s.Schema, p)
	if err != nil {
		return s, "", err
	}
	return s.withCatalog(s.Catalog.Upsert(b)), b.ID, nil
}

// RemoveBook deletes a book and all of its placements.
func (s *State) RemoveBook(bookID string) (*State, error) {
	c, ok := s.Catalog.Remove(bookID)
	if !ok {
		return s, errors.New(errors.CodeNotFound, "book %s not found", bookID)
	}
	return s.withCatalog(c), nil
}

// CreateLibrary adds a library and builds its layout, carrying forward the
// arrangement of an existing library with the same rule. An empty ID is
// generated. The active library does not change.
func (s *State) CreateLibrary(d layout.Definition) (*State, layout.Definition, error) {
	if d.ID == "" {
		gen, err := id.Generate("lib")
		if err != nil {
			return s, d, err
		}
		d.ID = gen
	}
	if err := validation.Validate(d); err != nil {
		return s, d, err
	}
	if _, exists := s.Library(d.ID); exists {
		return s, d, errors.New(errors.CodeInvalidInput, "library %s already exists", d.ID)
	}
	next := s.clone()
	next.Libraries = append(next.Libraries, d)
	next.Layouts[d.ID] = layout.Build(s.Catalog, d, s.previous(""))
	return next, d, nil
}

// UseLibrary makes a library active and resyncs every book's location
// from its layout.
func (s *State) UseLibrary(libraryID string) (*State, error) {
	if _, ok := s.Library(libraryID); !ok {
		return s, errors.New(errors.CodeNotFound, "library %s not found", libraryID)
	}
	if libraryID == s.ActiveLibraryID {
		return s, nil
	}
	next := s.clone()
	next.ActiveLibraryID = libraryID
	next.Catalog = syncCatalog(next.Catalog, next.ActiveLayout())
	return next, nil
}

// DeleteLibrary removes a library. Deleting the active library activates
// the first remaining one; the last library cannot be deleted.
func (s *State) DeleteLibrary(libraryID string) (*State, error) {
	if _, ok := s.Library(libraryID); !ok {
		return s, errors.New(errors.CodeNotFound, "library %s not found", libraryID)
	}
	if len(s.Libraries) == 1 {
		return s, errors.New(errors.CodeInvalidInput, "cannot delete the only library")
	}
	next := s.clone()
	next.Libraries = next.Libraries[:0]
	for _, d := range s.Libraries {
		if d.ID != libraryID {
			next.Libraries = append(next.Libraries, d)
		}
	}
	delete(next.Layouts, libraryID)
	if s.ActiveLibraryID == libraryID {
		next.ActiveLibraryID = next.Libraries[0].ID
		next.Catalog = syncCatalog(next.Catalog, next.ActiveLayout())
	}
	return next, nil
}

// withActiveLayout swaps in a new active layout and applies locs to the
// catalog.
func (s *State) withActiveLayout(l *layout.Layout, locs []layout.Location) *State {
	next := s.clone()
	next.Layouts[s.ActiveLibraryID] = l
	next.Catalog = applyLocations(next.Catalog, locs)
	return next
}

// withCatalog swaps in c, reconciles every layout with it and resyncs
// locations from the active layout.
func (s *State) withCatalog(c *catalog.Catalog) *State {
	next := s.clone()
	next.Catalog = c
	for _, d := range s.Libraries {
		next.Layouts[d.ID] = layout.ReconcileSince(s.Layouts[d.ID], s.Catalog, c, d)
	}
	next.Catalog = syncCatalog(c, next.ActiveLayout())
	return next
}

// previous lists the current libraries for carry-forward, putting
// libraryID first so a library prefers its own arrangement.
func (s *State) previous(libraryID string) []layout.Library {
	out := make([]layout.Library, 0, len(s.Libraries))
	for _, d := range s.Libraries {
		if d.ID == libraryID {
			out = append(out, layout.Library{Definition: d, Layout: s.Layouts[d.ID], Catalog: s.Catalog})
		}
	}
	for _, d := range s.Libraries {
		if d.ID != libraryID {
			out = append(out, layout.Library{Definition: d, Layout: s.Layouts[d.ID], Catalog: s.Catalog})
		}
	}
	return out
}

func (s *State) clone() *State {
	next := *s
	next.Libraries = append([]layout.Definition(nil), s.Libraries...)
	next.Layouts = make(map[string]*layout.Layout, len(s.Layouts))
	for k, v := range s.Layouts {
		next.Layouts[k] = v
	}
	return &next
}

func containsColumn(cols []string, col string) bool {
	for _, c := range cols {
		if c == col {
			return true
		}
	}
	return false
}

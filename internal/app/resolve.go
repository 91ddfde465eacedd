package app

import (
	"strconv"
	"strings"

	"github.com/blackwell-systems/shelfmap/internal/errors"
	"github.com/blackwell-systems/shelfmap/internal/layout"
	"github.com/blackwell-systems/shelfmap/internal/state"
)

// resolveLibrary returns the layout of libraryID, or the active layout when
// libraryID is empty.
func resolveLibrary(st *state.State, libraryID string) (layout.Definition, *layout.Layout, error) {
	if libraryID == "" {
		return st.ActiveLibrary(), st.ActiveLayout(), nil
	}
	d, found := st.Library(libraryID)
	if !found {
		return d, nil, errors.New(errors.CodeNotFound, "library %s not found", libraryID)
	}
	return d, st.Layouts[libraryID], nil
}

// resolveBookcase finds a bookcase by id, then by name (case-insensitive).
func resolveBookcase(l *layout.Layout, ref string) (layout.Bookcase, error) {
	if bc, _, found := l.Bookcase(ref); found {
		return bc, nil
	}
	for _, bc := range l.Bookcases {
		if strings.EqualFold(bc.Name, ref) {
			return bc, nil
		}
	}
	return layout.Bookcase{}, errors.New(errors.CodeInvalidReference, "no bookcase %q", ref)
}

// resolveShelf accepts a shelf id or "<bookcase>/<n>" with a 1-based shelf
// number, and returns the shelf id.
func resolveShelf(l *layout.Layout, ref string) (string, error) {
	if _, found := l.Shelves[ref]; found {
		return ref, nil
	}
	i := strings.LastIndex(ref, "/")
	if i < 0 {
		return "", errors.New(errors.CodeInvalidReference, "no shelf %q (use a shelf id or bookcase/number)", ref)
	}
	bc, err := resolveBookcase(l, strings.TrimSpace(ref[:i]))
	if err != nil {
		return "", err
	}
	n, err := strconv.Atoi(strings.TrimSpace(ref[i+1:]))
	if err != nil || n < 1 || n > len(bc.ShelfIDs) {
		return "", errors.New(errors.CodeInvalidReference, "bookcase %q has no shelf %s", bc.Name, ref[i+1:])
	}
	return bc.ShelfIDs[n-1], nil
}

// resolvePlacement parses "<book>" or "<book>::<copy>" and checks the
// placement exists in l.
func resolvePlacement(l *layout.Layout, ref string) (layout.Placement, error) {
	p := layout.ParsePlacement(ref)
	if _, _, found := l.Find(p); !found {
		return p, errors.New(errors.CodeInvalidReference, "%s is not placed in this library", ref)
	}
	return p, nil
}

// Package snapshot persists the application state as a versioned YAML
// document.
//
// The snapshot is a cache of the CSV catalog plus every library's manual
// arrangement. A snapshot that is missing, from another version, or fails
// validation is never partially trusted: callers rebuild from the CSV.
package snapshot

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"

	"github.com/blackwell-systems/shelfmap/internal/catalog"
	"github.com/blackwell-systems/shelfmap/internal/errors"
	"github.com/blackwell-systems/shelfmap/internal/layout"
	"github.com/blackwell-systems/shelfmap/internal/state"
	"github.com/blackwell-systems/shelfmap/internal/tabular"
	"github.com/blackwell-systems/shelfmap/internal/util"
	"github.com/blackwell-systems/shelfmap/internal/validation"
)

// Document is the on-disk shape of a snapshot.
type Document struct {
	Version int     `yaml:"version"`
	Schema  string  `yaml:"schema"`
	State   Payload `yaml:"state"`
}

// Payload holds the persisted state.
type Payload struct {
	BooksByID          map[string]tabular.Record `yaml:"booksById"`
	RowOrder           []string                  `yaml:"rowOrder"`
	Libraries          []layout.Definition       `yaml:"libraries" validate:"min=1,dive"`
	LayoutsByLibraryID map[string]*layout.Layout `yaml:"layoutsByLibraryId" validate:"min=1,dive,required"`
	ActiveLibraryID    string                    `yaml:"activeLibraryId" validate:"required"`
	CSVColumns         []string                  `yaml:"csvColumns" validate:"min=1"`
}

// Encode renders st as a snapshot document.
func Encode(st *state.State) ([]byte, error) {
	c := st.Catalog
	cols := c.Columns()
	doc := Document{
		Version: state.Version,
		Schema:  st.Schema.Name,
		State: Payload{
			BooksByID:          make(map[string]tabular.Record, c.Len()),
			RowOrder:           c.IDs(),
			Libraries:          st.Libraries,
			LayoutsByLibraryID: st.Layouts,
			ActiveLibraryID:    st.ActiveLibraryID,
			CSVColumns:         cols,
		},
	}
	for _, b := range c.Books() {
		rec := make(tabular.Record, len(cols))
		for _, col := range cols {
			rec[col] = b.Raw[col]
		}
		doc.State.BooksByID[b.ID] = rec
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses and validates a snapshot written for schema s. Any problem
// is reported as CORRUPT_SNAPSHOT.
func Decode(data []byte, s catalog.Schema) (*state.State, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.CodeCorruptSnapshot, err, "parsing snapshot")
	}
	if doc.Version != state.Version {
		return nil, errors.New(errors.CodeCorruptSnapshot, "snapshot version %d, want %d", doc.Version, state.Version)
	}
	if doc.Schema != s.Name {
		return nil, errors.New(errors.CodeCorruptSnapshot, "snapshot written for schema %q, want %q", doc.Schema, s.Name)
	}
	if err := validation.Validate(doc.State); err != nil {
		return nil, errors.Wrap(errors.CodeCorruptSnapshot, err, "invalid snapshot")
	}

	p := doc.State
	for _, col := range catalog.LocationColumns {
		if !contains(p.CSVColumns, col) {
			return nil, errors.New(errors.CodeCorruptSnapshot, "snapshot columns lack %s", col)
		}
	}
	c, err := catalog.Restore(p.CSVColumns, p.RowOrder, p.BooksByID, s)
	if err != nil {
		return nil, errors.Wrap(errors.CodeCorruptSnapshot, err, "restoring catalog")
	}
	st, err := state.Restore(c, s, p.Libraries, p.LayoutsByLibraryID, p.ActiveLibraryID)
	if err != nil {
		return nil, errors.Wrap(errors.CodeCorruptSnapshot, err, "restoring layouts")
	}
	return st, nil
}

// Save writes st to path atomically while holding the snapshot lock.
func Save(path string, st *state.State) error {
	data, err := Encode(st)
	if err != nil {
		return err
	}
	if err := util.EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("creating snapshot dir: %w", err)
	}
	lock := flock.New(lockPath(path))
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("acquire snapshot lock: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	if err := util.WriteFileAtomic(path, data, 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

// Load reads the snapshot at path. A missing file is NOT_FOUND; anything
// unreadable as a valid snapshot is CORRUPT_SNAPSHOT.
func Load(path string, s catalog.Schema) (*state.State, error) {
	if _, err := os.Stat(path); stderrors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(errors.CodeNotFound, err, "no snapshot at %s", path)
	}
	lock := flock.New(lockPath(path))
	if err := lock.RLock(); err != nil {
		return nil, fmt.Errorf("acquire snapshot lock: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	return Decode(data, s)
}

// Remove deletes the snapshot and its lock file. A missing snapshot is not
// an error.
func Remove(path string) error {
	for _, p := range []string{path, lockPath(path)} {
		if err := os.Remove(p); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

func lockPath(path string) string {
	return path + ".lock"
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

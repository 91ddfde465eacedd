package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/blackwell-systems/shelfmap/internal/errors"
	"github.com/blackwell-systems/shelfmap/internal/snapshot"
	"github.com/blackwell-systems/shelfmap/internal/state"
	"github.com/blackwell-systems/shelfmap/internal/util"
)

// loadState restores the last saved state. The snapshot is preferred; a
// missing or corrupt snapshot falls back to rebuilding from the CSV. If the
// CSV changed since the snapshot was written it is re-imported on top of
// the snapshot so manual arrangements carry forward.
func loadState() (*state.State, error) {
	st, err := snapshot.Load(cfg.Snapshot.Path, schema)
	switch {
	case err == nil:
		logger.Debug("loaded snapshot", "path", cfg.Snapshot.Path, "books", st.Catalog.Len())
	case errors.Is(err, errors.CodeCorruptSnapshot):
		warn("Ignoring unreadable snapshot %s: %v", cfg.Snapshot.Path, err)
		st, err = state.New(schema, cfg.Definitions())
		if err != nil {
			return nil, err
		}
	case errors.GetCode(err) == errors.CodeNotFound:
		logger.Debug("no snapshot", "path", cfg.Snapshot.Path)
		st, err = state.New(schema, cfg.Definitions())
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	text, found, err := readCatalog()
	if err != nil || !found {
		return st, err
	}
	if catalogText(text) == st.ExportText() {
		return st, nil
	}
	logger.Debug("catalog differs from snapshot, re-importing", "path", cfg.Catalog.Path)
	return st.ImportText(text)
}

// readCatalog reads the CSV catalog. found is false if it does not exist.
func readCatalog() (text string, found bool, err error) {
	data, err := os.ReadFile(cfg.Catalog.Path)
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading catalog: %w", err)
	}
	return string(data), true, nil
}

// catalogText strips the trailing newline the CSV file is written with.
func catalogText(s string) string {
	return strings.TrimSuffix(strings.TrimSuffix(s, "\n"), "\r")
}

// saveState writes the CSV and the snapshot for next. prev is kept as the
// undo snapshot.
func saveState(prev, next *state.State) error {
	if prev != nil && prev != next {
		if err := snapshot.Save(undoPath(), prev); err != nil {
			return fmt.Errorf("saving undo snapshot: %w", err)
		}
	}
	if err := util.WriteFileAtomic(cfg.Catalog.Path, []byte(next.ExportText()+"\n"), 0644); err != nil {
		return fmt.Errorf("writing catalog: %w", err)
	}
	if err := snapshot.Save(cfg.Snapshot.Path, next); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	logger.Debug("saved", "catalog", cfg.Catalog.Path, "snapshot", cfg.Snapshot.Path)
	return nil
}

func undoPath() string {
	return cfg.Snapshot.Path + ".prev"
}

// mutate loads the saved state, applies fn through a store and saves the
// result. It reports whether anything changed.
func mutate(action string, fn func(*state.State) (*state.State, error)) (*state.State, bool, error) {
	st, err := loadState()
	if err != nil {
		return nil, false, err
	}
	store := state.NewStore(st, state.WithLogger(logger))
	next, err := store.Apply(action, fn)
	if err != nil {
		return nil, false, err
	}
	if next == st {
		return st, false, nil
	}
	if err := saveState(st, next); err != nil {
		return nil, false, err
	}
	return next, true, nil
}

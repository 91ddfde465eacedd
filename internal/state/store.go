package state

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/blackwell-systems/shelfmap/internal/catalog"
	"github.com/blackwell-systems/shelfmap/internal/layout"
)

// DefaultHistory is how many prior states a Store keeps for undo.
const DefaultHistory = 50

// Store serializes access to the current State and keeps undo/redo history.
type Store struct {
	mu      sync.Mutex
	current *State
	undo    []*State
	redo    []*State
	limit   int
	logger  *log.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the diagnostic logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithHistory bounds the undo history. Zero disables undo.
func WithHistory(n int) Option {
	return func(s *Store) {
		if n >= 0 {
			s.limit = n
		}
	}
}

// NewStore creates a store holding initial.
func NewStore(initial *State, opts ...Option) *Store {
	s := &Store{
		current: initial,
		limit:   DefaultHistory,
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current state.
func (s *Store) State() *State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Apply runs fn against the current state and commits the result. A result
// identical to the current state is not recorded in history. It returns
// the state after the call.
func (s *Store) Apply(action string, fn func(*State) (*State, error)) (*State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(s.current)
	if err != nil {
		s.logger.Debug("action failed", "action", action, "err", err)
		return s.current, err
	}
	if next == nil || next == s.current {
		s.logger.Debug("no change", "action", action)
		return s.current, nil
	}
	s.push(s.current)
	s.redo = nil
	s.current = next
	s.logger.Debug("applied", "action", action, "books", next.Catalog.Len(), "library", next.ActiveLibraryID)
	return next, nil
}

// Reset replaces the current state and clears history.
func (s *Store) Reset(st *State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = st
	s.undo = nil
	s.redo = nil
}

// Undo restores the previous state. It reports false if there is none.
func (s *Store) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.undo) == 0 {
		return false
	}
	prev := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	s.redo = append(s.redo, s.current)
	s.current = prev
	s.logger.Debug("undo", "remaining", len(s.undo))
	return true
}

// Redo reapplies the most recently undone state.
func (s *Store) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.redo) == 0 {
		return false
	}
	next := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	s.push(s.current)
	s.current = next
	s.logger.Debug("redo", "remaining", len(s.redo))
	return true
}

// CanUndo reports whether Undo would do anything.
func (s *Store) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.undo) > 0
}

func (s *Store) push(st *State) {
	if s.limit == 0 {
		return
	}
	s.undo = append(s.undo, st)
	if over := len(s.undo) - s.limit; over > 0 {
		s.undo = append([]*State(nil), s.undo[over:]...)
	}
}

// ActiveLayout returns the current active layout.
func (s *Store) ActiveLayout() *layout.Layout {
	return s.State().ActiveLayout()
}

// ExportText serializes the current catalog.
func (s *Store) ExportText() string {
	return s.State().ExportText()
}

// ImportText replaces the catalog. A failed import leaves the store as it was.
func (s *Store) ImportText(text string) (*catalog.Catalog, error) {
	st, err := s.Apply("import", func(cur *State) (*State, error) {
		return cur.ImportText(text)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("imported catalog", "books", st.Catalog.Len(), "libraries", len(st.Libraries))
	return st.Catalog, nil
}

// MoveBook moves a placement in the active layout.
func (s *Store) MoveBook(req layout.MoveRequest) *State {
	st, _ := s.Apply("move", func(cur *State) (*State, error) {
		return cur.MoveBook(req), nil
	})
	return st
}

// SetBookcaseShelfCount reflows a bookcase in the active layout.
func (s *Store) SetBookcaseShelfCount(bookcaseID string, n int) *State {
	st, _ := s.Apply("resize", func(cur *State) (*State, error) {
		return cur.SetBookcaseShelfCount(bookcaseID, n), nil
	})
	return st
}

// UpdateBook applies a partial update to one book.
func (s *Store) UpdateBook(bookID string, p catalog.Patch) (*State, error) {
	return s.Apply("update", func(cur *State) (*State, error) {
		return cur.UpdateBook(bookID, p)
	})
}

// CreateLibrary adds a library.
func (s *Store) CreateLibrary(d layout.Definition) (layout.Definition, error) {
	var created layout.Definition
	_, err := s.Apply("create-library", func(cur *State) (*State, error) {
		next, def, err := cur.CreateLibrary(d)
		created = def
		return next, err
	})
	return created, err
}

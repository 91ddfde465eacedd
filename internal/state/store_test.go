package state_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/blackwell-systems/shelfmap/internal/catalog"
	"github.com/blackwell-systems/shelfmap/internal/errors"
	"github.com/blackwell-systems/shelfmap/internal/layout"
	"github.com/blackwell-systems/shelfmap/internal/state"
)

func TestStore_ImportAndUndo(t *testing.T) {
	s := state.NewStore(newState(t))
	c, err := s.ImportText(numberedCSV(3))
	if err != nil {
		t.Fatalf("ImportText: %v", err)
	}
	if c.Len() != 3 {
		t.Errorf("imported %d books", c.Len())
	}
	if !s.CanUndo() {
		t.Fatal("import should be undoable")
	}
	if !s.Undo() {
		t.Fatal("Undo returned false")
	}
	if s.State().Catalog.Len() != 0 {
		t.Errorf("undo left %d books", s.State().Catalog.Len())
	}
	if !s.Redo() {
		t.Fatal("Redo returned false")
	}
	if s.State().Catalog.Len() != 3 {
		t.Errorf("redo left %d books", s.State().Catalog.Len())
	}
	if s.Redo() {
		t.Error("second Redo should have nothing to do")
	}
}

func TestStore_FailedImportNotRecorded(t *testing.T) {
	s := state.NewStore(newState(t))
	before := s.State()
	if _, err := s.ImportText("Author\nnobody\n"); !errors.Is(err, errors.CodeSchemaMismatch) {
		t.Fatalf("expected SCHEMA_MISMATCH, got %v", err)
	}
	if s.State() != before || s.CanUndo() {
		t.Error("failed import changed the store")
	}
}

func TestStore_NoOpNotRecorded(t *testing.T) {
	s := state.NewStore(imported(t, numberedCSV(3)))
	sid := s.ActiveLayout().Bookcases[0].ShelfIDs[0]
	s.MoveBook(layout.MoveRequest{Placement: layout.Placement{Book: "b0"}, FromShelf: sid, ToShelf: sid, ToIndex: 0})
	if s.CanUndo() {
		t.Error("no-op move was recorded")
	}

	st := s.MoveBook(layout.MoveRequest{Placement: layout.Placement{Book: "b2"}, FromShelf: sid, ToShelf: sid, ToIndex: 0})
	if b, _ := st.Catalog.Get("b2"); b.Location.Position != 1 {
		t.Errorf("b2 position = %d", b.Location.Position)
	}
	if !s.CanUndo() {
		t.Error("move was not recorded")
	}
}

func TestStore_NewActionClearsRedo(t *testing.T) {
	s := state.NewStore(imported(t, numberedCSV(3)))
	bcID := s.ActiveLayout().Bookcases[0].ID
	s.SetBookcaseShelfCount(bcID, 3)
	s.Undo()
	title := "Renamed"
	if _, err := s.UpdateBook("b1", catalog.Patch{Title: &title}); err != nil {
		t.Fatalf("UpdateBook: %v", err)
	}
	if s.Redo() {
		t.Error("redo should be cleared by a new action")
	}
	if !strings.Contains(s.ExportText(), "Renamed") {
		t.Error("export does not contain the update")
	}
}

func TestStore_HistoryBounded(t *testing.T) {
	s := state.NewStore(imported(t, numberedCSV(2)), state.WithHistory(2))
	bcID := s.ActiveLayout().Bookcases[0].ID
	for _, n := range []int{2, 3, 4, 5} {
		s.SetBookcaseShelfCount(bcID, n)
	}
	undone := 0
	for s.Undo() {
		undone++
	}
	if undone != 2 {
		t.Errorf("undid %d steps, want 2", undone)
	}
	if got := s.ActiveLayout().Bookcases[0].Settings.ShelfCount; got != 3 {
		t.Errorf("oldest retained shelf count = %d, want 3", got)
	}
}

func TestStore_CreateLibraryLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	s := state.NewStore(imported(t, numberedCSV(2)), state.WithLogger(logger))

	def, err := s.CreateLibrary(layout.Definition{Name: "Second"})
	if err != nil {
		t.Fatalf("CreateLibrary: %v", err)
	}
	if _, ok := s.State().Library(def.ID); !ok {
		t.Errorf("library %s not in state", def.ID)
	}
	if !strings.Contains(buf.String(), "create-library") {
		t.Errorf("expected debug log for the action, got %q", buf.String())
	}

	if _, err := s.CreateLibrary(layout.Definition{ID: def.ID, Name: "Dup"}); err == nil {
		t.Error("expected an error for a duplicate library")
	}
}

func TestStore_Reset(t *testing.T) {
	s := state.NewStore(newState(t))
	if _, err := s.ImportText(numberedCSV(1)); err != nil {
		t.Fatal(err)
	}
	fresh := imported(t, numberedCSV(4))
	s.Reset(fresh)
	if s.State() != fresh || s.CanUndo() {
		t.Error("Reset should replace the state and clear history")
	}
}

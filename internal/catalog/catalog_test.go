package catalog_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/blackwell-systems/shelfmap/internal/catalog"
	"github.com/blackwell-systems/shelfmap/internal/errors"
)

var holdings = catalog.Holdings("|")

const sampleCSV = `HoldingID,Title,Author,Year,Tags,UseStatus,Shelf Mark
h1,Dune,Frank Herbert,1965,sf|classic,owned,A-12
h2,"Emma, Annotated",Jane Austen,1815,classic,lent,"B ""7"""
h3,Neuromancer,William Gibson,1984,sf|cyberpunk,owned,
`

// --- Load / Conform ---

func TestLoad_Holdings(t *testing.T) {
	c, err := catalog.Load(sampleCSV, holdings)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Len() != 3 {
		t.Fatalf("expected 3 books, got %d", c.Len())
	}
	if got := c.IDs(); !reflect.DeepEqual(got, []string{"h1", "h2", "h3"}) {
		t.Errorf("IDs = %v", got)
	}
	b, _ := c.Get("h2")
	if b.Title != "Emma, Annotated" {
		t.Errorf("Title = %q", b.Title)
	}
	if b.Raw["Shelf Mark"] != `B "7"` {
		t.Errorf("pass-through column = %q", b.Raw["Shelf Mark"])
	}
	d, _ := c.Get("h1")
	if !reflect.DeepEqual(d.Tags, []string{"sf", "classic"}) {
		t.Errorf("Tags = %v", d.Tags)
	}
}

func TestLoad_AppendsLocationColumns(t *testing.T) {
	c, err := catalog.Load(sampleCSV, holdings)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cols := c.Columns()
	tail := cols[len(cols)-4:]
	if !reflect.DeepEqual(tail, catalog.LocationColumns) {
		t.Errorf("trailing columns = %v, want %v", tail, catalog.LocationColumns)
	}
	if cols[6] != "Shelf Mark" {
		t.Errorf("pass-through column moved: %v", cols)
	}
}

func TestLoad_HoldingsMissingTitle(t *testing.T) {
	_, err := catalog.Load("HoldingID,Name\n1,x", holdings)
	if !errors.Is(err, errors.CodeSchemaMismatch) {
		t.Fatalf("expected SCHEMA_MISMATCH, got %v", err)
	}
}

func TestLoad_SimpleStrict(t *testing.T) {
	header := strings.Join(catalog.SimpleColumns, ",")
	simple := catalog.Simple("|")

	t.Run("exact header", func(t *testing.T) {
		c, err := catalog.Load(header+"\nb1,Dune", simple)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if _, ok := c.Get("b1"); !ok {
			t.Error("explicit id column not used")
		}
	})

	t.Run("extra trailing column preserved", func(t *testing.T) {
		c, err := catalog.Load(header+",shelf_color\nb1,Dune", simple)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if !containsString(c.Columns(), "shelf_color") {
			t.Errorf("extra column dropped: %v", c.Columns())
		}
	})

	t.Run("reordered header rejected", func(t *testing.T) {
		swapped := strings.Replace(header, "id,title", "title,id", 1)
		_, err := catalog.Load(swapped+"\nDune,b1", simple)
		if !errors.Is(err, errors.CodeSchemaMismatch) {
			t.Fatalf("expected SCHEMA_MISMATCH, got %v", err)
		}
	})

	t.Run("missing column rejected", func(t *testing.T) {
		_, err := catalog.Load("id,title\nb1,Dune", simple)
		if !errors.Is(err, errors.CodeSchemaMismatch) {
			t.Fatalf("expected SCHEMA_MISMATCH, got %v", err)
		}
	})
}

func TestSchemaByName(t *testing.T) {
	if s, ok := catalog.SchemaByName("simple", ";"); !ok || s.Name != "simple" || s.TagDelimiter != ";" {
		t.Errorf("SchemaByName(simple) = %+v, %v", s, ok)
	}
	if s, ok := catalog.SchemaByName("", ""); !ok || s.Name != "holdings" || s.TagDelimiter != "|" {
		t.Errorf("SchemaByName(\"\") = %+v, %v", s, ok)
	}
	if _, ok := catalog.SchemaByName("marc", "|"); ok {
		t.Error("unknown schema should not resolve")
	}
}

// --- Identity ---

func TestAssign_IdentityStable(t *testing.T) {
	a, _ := catalog.Load(sampleCSV, holdings)
	b, _ := catalog.Load(sampleCSV, holdings)
	if !reflect.DeepEqual(a.IDs(), b.IDs()) {
		t.Errorf("ids differ across imports: %v vs %v", a.IDs(), b.IDs())
	}
}

func TestAssign_OriginalIDFallback(t *testing.T) {
	c, err := catalog.Load("HoldingID,OriginalID,Title\n,orig-9,Dune", holdings)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := c.Get("orig-9"); !ok {
		t.Errorf("expected OriginalID to be used, got %v", c.IDs())
	}
}

func TestAssign_DerivedIDsUniqueAndDeterministic(t *testing.T) {
	text := "Title,Author,Year\nDune,Frank Herbert,1965\nDUNE!,frank  herbert,1965\nDune,Frank Herbert,1965\nEmma,Jane Austen,1815\n"
	c, err := catalog.Load(text, holdings)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	ids := c.IDs()
	if len(ids) != 4 {
		t.Fatalf("expected 4 books, got %d (%v)", len(ids), ids)
	}
	base := catalog.DerivedID("Frank Herbert", "Dune", "1965")
	want := []string{base, base + "-1", base + "-2"}
	if !reflect.DeepEqual(ids[:3], want) {
		t.Errorf("ids = %v, want prefix %v", ids[:3], want)
	}
	seen := map[string]bool{}
	for _, id := range ids {
		if seen[id] {
			t.Errorf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestAssign_ExplicitCollisionSuffixed(t *testing.T) {
	c, err := catalog.Load("HoldingID,Title\nx,A\nx,B\nx-1,C\n", holdings)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []string{"x", "x-1", "x-1-1"}
	if got := c.IDs(); !reflect.DeepEqual(got, want) {
		t.Errorf("IDs = %v, want %v", got, want)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Frank Herbert", "frank-herbert"},
		{"  Émile   Zola!! ", "emile-zola"},
		{"Sci-Fi/Fantasy", "sci-fi-fantasy"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := catalog.Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// --- Upsert / Remove / ReplaceAll ---

func TestUpsert_NewAppendsToRowOrder(t *testing.T) {
	c, _ := catalog.Load(sampleCSV, holdings)
	next := c.Upsert(catalog.Book{ID: "h9", Title: "New"})
	if got := next.IDs(); got[len(got)-1] != "h9" {
		t.Errorf("new id not appended: %v", got)
	}
	if c.Has("h9") {
		t.Error("Upsert mutated the original catalog")
	}
}

func TestUpsert_ExistingKeepsPosition(t *testing.T) {
	c, _ := catalog.Load(sampleCSV, holdings)
	b, _ := c.Get("h1")
	b = b.Clone()
	b.Title = "Dune (revised)"
	next := c.Upsert(b)
	if !reflect.DeepEqual(next.IDs(), c.IDs()) {
		t.Errorf("row order changed: %v", next.IDs())
	}
	got, _ := next.Get("h1")
	if got.Title != "Dune (revised)" {
		t.Errorf("Title = %q", got.Title)
	}
	orig, _ := c.Get("h1")
	if orig.Title != "Dune" {
		t.Error("Upsert mutated the original catalog")
	}
}

func TestRemove(t *testing.T) {
	c, _ := catalog.Load(sampleCSV, holdings)
	next, ok := c.Remove("h2")
	if !ok {
		t.Fatal("Remove returned ok=false for existing book")
	}
	if got := next.IDs(); !reflect.DeepEqual(got, []string{"h1", "h3"}) {
		t.Errorf("IDs = %v", got)
	}
	if next.Has("h2") {
		t.Error("book still present after Remove")
	}
	if c.Len() != 3 {
		t.Error("Remove mutated the original catalog")
	}

	same, ok := c.Remove("nope")
	if ok || same != c {
		t.Error("Remove of a missing id should return the same catalog and false")
	}
}

func TestReplaceAll(t *testing.T) {
	c, _ := catalog.Load(sampleCSV, holdings)
	next := c.ReplaceAll([]catalog.Book{{ID: "z"}, {ID: "a"}})
	if got := next.IDs(); !reflect.DeepEqual(got, []string{"z", "a"}) {
		t.Errorf("IDs = %v", got)
	}
	if !reflect.DeepEqual(next.Columns(), c.Columns()) {
		t.Error("ReplaceAll should keep columns")
	}
}

// --- Export ---

func TestExportText_RoundTrip(t *testing.T) {
	c, err := catalog.Load(sampleCSV, holdings)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	out := catalog.ExportText(c, holdings)

	again, err := catalog.Load(out, holdings)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !reflect.DeepEqual(again.Columns(), c.Columns()) {
		t.Errorf("columns changed: %v", again.Columns())
	}
	for _, b := range c.Books() {
		got, ok := again.Get(b.ID)
		if !ok {
			t.Fatalf("book %s lost", b.ID)
		}
		if !reflect.DeepEqual(got.Raw, b.Raw) {
			t.Errorf("%s raw = %v, want %v", b.ID, got.Raw, b.Raw)
		}
	}
	if out != catalog.ExportText(again, holdings) {
		t.Error("repeated export is not stable")
	}
}

func TestExportText_FollowsRowOrder(t *testing.T) {
	c, _ := catalog.Load(sampleCSV, holdings)
	c = c.ReplaceAll(reverse(c.Books()))
	lines := strings.Split(catalog.ExportText(c, holdings), "\n")
	if !strings.HasPrefix(lines[1], "h3,") || !strings.HasPrefix(lines[3], "h1,") {
		t.Errorf("export not in row order:\n%s", strings.Join(lines, "\n"))
	}
}

func TestExportText_KeepsUntouchedCellText(t *testing.T) {
	text := "HoldingID,Title,Tags\nh1,Dune, sf | classic "
	c, _ := catalog.Load(text, holdings)
	out := catalog.ExportText(c, holdings)
	if !strings.Contains(out, " sf | classic ") {
		t.Errorf("untouched tags cell was rewritten: %q", out)
	}
}

// --- Sync ---

func TestSync_UpdatesBothRepresentations(t *testing.T) {
	c, _ := catalog.Load(sampleCSV, holdings)
	b, _ := c.Get("h1")
	synced := catalog.Sync(b, "Hall", 3, 7)

	if synced.Location.Shelf != 3 || synced.Location.Position != 7 || synced.Location.Bookcase != "Hall" {
		t.Errorf("Location = %+v", synced.Location)
	}
	if synced.Raw[catalog.ColShelf] != "3" || synced.Raw[catalog.ColPosition] != "7" || synced.Raw[catalog.ColBookcase] != "Hall" {
		t.Errorf("raw = %v", synced.Raw)
	}
	if !catalog.InSync(synced) {
		t.Error("InSync = false after Sync")
	}
	if b.Raw[catalog.ColShelf] != "" {
		t.Error("Sync mutated its argument")
	}
}

func TestInSync_DetectsDrift(t *testing.T) {
	b := catalog.Sync(catalog.Book{ID: "x"}, "A", 1, 1)
	b.Location.Position = 2
	if catalog.InSync(b) {
		t.Error("InSync should report drift between fields and raw")
	}
}

// --- Patch ---

func TestApplyPatch_FieldsAndRaw(t *testing.T) {
	c, _ := catalog.Load(sampleCSV, holdings)
	b, _ := c.Get("h1")

	title := "Dune Messiah"
	tags := []string{"sf", " sequel "}
	note := "signed"
	got, err := catalog.ApplyPatch(b, catalog.Patch{Title: &title, Tags: &tags, Note: &note}, holdings)
	if err != nil {
		t.Fatalf("ApplyPatch: %v", err)
	}
	if got.Title != title || got.Raw["Title"] != title {
		t.Errorf("title field %q raw %q", got.Title, got.Raw["Title"])
	}
	if got.Raw["Tags"] != "sf|sequel" {
		t.Errorf("raw Tags = %q", got.Raw["Tags"])
	}
	if got.Location.Note != "signed" || got.Raw[catalog.ColNote] != "signed" {
		t.Errorf("note field %q raw %q", got.Location.Note, got.Raw[catalog.ColNote])
	}
	if b.Title != "Dune" {
		t.Error("ApplyPatch mutated its argument")
	}
}

func TestApplyPatch_Columns(t *testing.T) {
	c, _ := catalog.Load(sampleCSV, holdings)
	b, _ := c.Get("h1")
	got, err := catalog.ApplyPatch(b, catalog.Patch{Columns: map[string]string{
		"Shelf Mark": "Z-1",
		"UseStatus":  "wishlist",
	}}, holdings)
	if err != nil {
		t.Fatalf("ApplyPatch: %v", err)
	}
	if got.Raw["Shelf Mark"] != "Z-1" {
		t.Errorf("pass-through = %q", got.Raw["Shelf Mark"])
	}
	if got.UseStatus != "wishlist" {
		t.Errorf("UseStatus = %q, want structured field refreshed from column", got.UseStatus)
	}
}

func TestApplyPatch_RejectsOwnedColumns(t *testing.T) {
	b := catalog.Book{ID: "x"}
	for _, col := range []string{catalog.ColShelf, "HoldingID"} {
		_, err := catalog.ApplyPatch(b, catalog.Patch{Columns: map[string]string{col: "1"}}, holdings)
		if !errors.Is(err, errors.CodeInvalidInput) {
			t.Errorf("%s: expected INVALID_INPUT, got %v", col, err)
		}
	}
}

// --- Filter ---

func TestFilter(t *testing.T) {
	c, _ := catalog.Load(sampleCSV, holdings)
	books := c.Books()
	tests := []struct {
		name string
		f    catalog.Filter
		want []string
	}{
		{"empty", catalog.Filter{}, []string{"h1", "h2", "h3"}},
		{"tag case-insensitive", catalog.Filter{Tag: "SF"}, []string{"h1", "h3"}},
		{"status", catalog.Filter{Status: "lent"}, []string{"h2"}},
		{"search author", catalog.Filter{Search: "gibson"}, []string{"h3"}},
		{"search tag", catalog.Filter{Search: "cyber"}, []string{"h3"}},
		{"combined no match", catalog.Filter{Tag: "classic", Status: "missing"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ids(tt.f.Apply(books)); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTagCounts(t *testing.T) {
	c, _ := catalog.Load(sampleCSV, holdings)
	counts := catalog.TagCounts(c.Books())
	if counts["sf"] != 2 || counts["classic"] != 2 || counts["cyberpunk"] != 1 {
		t.Errorf("counts = %v", counts)
	}
}

func TestNewBook(t *testing.T) {
	c, _ := catalog.Load(sampleCSV, holdings)
	title, author := "Dune", "Frank Herbert"
	b, err := catalog.NewBook(c, holdings, catalog.Patch{Title: &title, Author: &author})
	if err != nil {
		t.Fatalf("NewBook: %v", err)
	}
	if c.Has(b.ID) {
		t.Errorf("id %s collides with an existing book", b.ID)
	}
	if b.Raw["HoldingID"] != b.ID {
		t.Errorf("HoldingID = %q, want %q", b.Raw["HoldingID"], b.ID)
	}
	if b.Raw["Title"] != "Dune" || b.Raw["Author"] != "Frank Herbert" {
		t.Errorf("raw = %v", b.Raw)
	}
	for _, col := range c.Columns() {
		if _, ok := b.Raw[col]; !ok {
			t.Errorf("raw row missing column %s", col)
		}
	}

	again, _ := catalog.NewBook(c.Upsert(b), holdings, catalog.Patch{Title: &title, Author: &author})
	if again.ID == b.ID {
		t.Error("second book with the same tuple reused the id")
	}

	blank := " "
	if _, err := catalog.NewBook(c, holdings, catalog.Patch{Title: &blank}); !errors.Is(err, errors.CodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

func ids(books []catalog.Book) []string {
	var out []string
	for _, b := range books {
		out = append(out, b.ID)
	}
	return out
}

func reverse(books []catalog.Book) []catalog.Book {
	out := make([]catalog.Book, len(books))
	for i, b := range books {
		out[len(books)-1-i] = b
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

package report_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blackwell-systems/shelfmap/internal/catalog"
	"github.com/blackwell-systems/shelfmap/internal/layout"
	"github.com/blackwell-systems/shelfmap/internal/report"
)

const csv = `HoldingID,Title,Author,Tags
h1,Dune,Herbert,sf|classic
h2,<Emma>,Austen,classic
h3,Ulysses,Joyce,
`

func fixture(t *testing.T) (layout.Definition, *layout.Layout, *catalog.Catalog) {
	t.Helper()
	c, err := catalog.Load(csv, catalog.Holdings("|"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	def := layout.Definition{ID: "tags", Name: "By tag", CategorizeField: "tags", MultiCategoryMode: layout.ModeDuplicate}
	return def, layout.Build(c, def, nil), c
}

func TestGenerateHTML(t *testing.T) {
	def, l, c := fixture(t)
	out := report.GenerateHTML(def, l, c)

	for _, want := range []string{
		"<title>By tag · shelfmap</title>",
		`<h2>sf</h2>`,
		`<h2>classic</h2>`,
		`<h2>Uncategorized</h2>`,
		"&lt;Emma&gt;",
		`data-tag="classic">classic (2)`,
		`class="book-card copy"`,
		"3 books on 3 bookcases",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(out, "<Emma>") {
		t.Error("title not escaped")
	}
}

func TestWriteHTML(t *testing.T) {
	def, l, c := fixture(t)
	path := filepath.Join(t.TempDir(), "out", "library.html")
	if err := report.WriteHTML(path, def, l, c); err != nil {
		t.Fatalf("WriteHTML: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "<!DOCTYPE html>") {
		t.Errorf("unexpected start: %q", string(data[:20]))
	}
}

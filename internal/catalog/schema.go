package catalog

import (
	"strconv"
	"strings"

	"github.com/blackwell-systems/shelfmap/internal/errors"
	"github.com/blackwell-systems/shelfmap/internal/tabular"
)

// Schema describes one variant of the CSV exchange format: which columns are
// required, which carry identity, and where the modelled fields live.
type Schema struct {
	Name string

	// Required columns. With Strict set the header must start with exactly
	// these columns in order; otherwise they only need to be present.
	Required []string
	Strict   bool

	// Defaults are the columns of a freshly created, empty catalog.
	Defaults []string

	// IDColumns are consulted in order for an explicit identity.
	IDColumns []string

	TitleColumn  string
	AuthorColumn string
	YearColumn   string
	TagsColumn   string
	StatusColumn string

	// TagDelimiter splits and joins the multi-valued tags column.
	TagDelimiter string
}

// SimpleColumns is the canonical header of the single-shelf variant.
var SimpleColumns = []string{
	"id", "title", "authors", "publisher", "publish_year", "language", "format",
	"isbn13", "tags", "collections", "projects", "location", "status", "notes",
	"cover_image", "added_at", "updated_at",
}

// Simple is the strict single-shelf variant.
func Simple(delim string) Schema {
	return Schema{
		Name:         "simple",
		Required:     SimpleColumns,
		Strict:       true,
		Defaults:     SimpleColumns,
		IDColumns:    []string{"id"},
		TitleColumn:  "title",
		AuthorColumn: "authors",
		YearColumn:   "publish_year",
		TagsColumn:   "tags",
		StatusColumn: "status",
		TagDelimiter: delim,
	}
}

// Holdings is the layout-capable variant keyed by HoldingID.
func Holdings(delim string) Schema {
	return Schema{
		Name:         "holdings",
		Required:     []string{"Title"},
		Defaults:     []string{"HoldingID", "OriginalID", "Title", "Author", "Year", "Tags", "UseStatus"},
		IDColumns:    []string{"HoldingID", "OriginalID"},
		TitleColumn:  "Title",
		AuthorColumn: "Author",
		YearColumn:   "Year",
		TagsColumn:   "Tags",
		StatusColumn: "UseStatus",
		TagDelimiter: delim,
	}
}

// SchemaByName returns the named variant. Unknown names yield false.
func SchemaByName(name, delim string) (Schema, bool) {
	if delim == "" {
		delim = "|"
	}
	switch strings.ToLower(name) {
	case "", "holdings":
		return Holdings(delim), true
	case "simple":
		return Simple(delim), true
	}
	return Schema{}, false
}

// Conform checks t's header against the schema and appends any missing
// location columns. Extra columns are kept as pass-through.
func (s Schema) Conform(t *tabular.Table) error {
	if s.Strict {
		if len(t.Columns) < len(s.Required) {
			return errors.New(errors.CodeSchemaMismatch,
				"%s header has %d columns, expected at least %d", s.Name, len(t.Columns), len(s.Required))
		}
		for i, want := range s.Required {
			if t.Columns[i] != want {
				return errors.New(errors.CodeSchemaMismatch,
					"%s header column %d is %q, expected %q", s.Name, i+1, t.Columns[i], want)
			}
		}
	} else {
		for _, want := range s.Required {
			if !t.HasColumn(want) {
				return errors.New(errors.CodeSchemaMismatch, "%s header is missing column %q", s.Name, want)
			}
		}
	}
	for _, col := range LocationColumns {
		t.AddColumn(col)
	}
	return nil
}

// Columns returns the header of an empty catalog in this variant.
func (s Schema) Columns() []string {
	cols := append([]string(nil), s.Defaults...)
	for _, c := range LocationColumns {
		if !contains(cols, c) {
			cols = append(cols, c)
		}
	}
	return cols
}

// SplitTags splits a tags cell on the delimiter, trimming and dropping blanks.
func (s Schema) SplitTags(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(v, s.delim()) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JoinTags is the inverse of SplitTags.
func (s Schema) JoinTags(tags []string) string {
	return strings.Join(tags, s.delim())
}

func (s Schema) delim() string {
	if s.TagDelimiter == "" {
		return "|"
	}
	return s.TagDelimiter
}

// IsManaged reports whether col is interpreted by the schema rather than
// passed through.
func (s Schema) IsManaged(col string) bool {
	if contains(LocationColumns, col) || contains(s.IDColumns, col) {
		return true
	}
	switch col {
	case s.TitleColumn, s.AuthorColumn, s.YearColumn, s.TagsColumn, s.StatusColumn:
		return true
	}
	return false
}

// bookFromRecord reads the modelled fields out of rec. ID is left empty.
func (s Schema) bookFromRecord(rec tabular.Record) Book {
	b := Book{
		Title:     strings.TrimSpace(rec[s.TitleColumn]),
		Author:    strings.TrimSpace(rec[s.AuthorColumn]),
		Year:      strings.TrimSpace(rec[s.YearColumn]),
		Tags:      s.SplitTags(rec[s.TagsColumn]),
		UseStatus: strings.TrimSpace(rec[s.StatusColumn]),
		Raw:       rec,
	}
	b.Location = Location{
		Bookcase: rec[ColBookcase],
		Shelf:    parseBounded(rec[ColShelf], 1, MaxShelf),
		Position: parseBounded(rec[ColPosition], 1, 0),
		Note:     rec[ColNote],
	}
	return b
}

// project writes structured fields back onto Raw where they differ from
// what Raw already says, so untouched cells keep their original text.
func (s Schema) project(b Book) Book {
	cur := s.bookFromRecord(b.Raw)
	set := func(col, v string, same bool) {
		if col != "" && !same {
			b.Raw[col] = v
		}
	}
	set(s.TitleColumn, b.Title, cur.Title == b.Title)
	set(s.AuthorColumn, b.Author, cur.Author == b.Author)
	set(s.YearColumn, b.Year, cur.Year == b.Year)
	set(s.TagsColumn, s.JoinTags(b.Tags), equalStrings(cur.Tags, b.Tags))
	set(s.StatusColumn, b.UseStatus, cur.UseStatus == b.UseStatus)
	return b
}

// parseBounded parses v as an int in [lo, hi]; hi <= 0 means unbounded.
// Anything else is 0.
func parseBounded(v string, lo, hi int) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < lo || (hi > 0 && n > hi) {
		return 0
	}
	return n
}

func contains(list []string, item string) bool {
	for _, s := range list {
		if s == item {
			return true
		}
	}
	return false
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

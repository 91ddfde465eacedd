package catalog

import (
	"strings"

	"github.com/blackwell-systems/shelfmap/internal/errors"
)

// Patch is a partial update of a book. Nil fields are left alone.
type Patch struct {
	Title     *string
	Author    *string
	Year      *string
	Tags      *[]string
	UseStatus *string
	Note      *string

	// Columns sets pass-through or modelled columns by name. Location and
	// identity columns are owned by the layout and the importer.
	Columns map[string]string
}

// Empty reports whether p changes nothing.
func (p Patch) Empty() bool {
	return p.Title == nil && p.Author == nil && p.Year == nil && p.Tags == nil &&
		p.UseStatus == nil && p.Note == nil && len(p.Columns) == 0
}

// ApplyPatch returns a copy of b with p applied to both the structured
// fields and the raw row.
func ApplyPatch(b Book, p Patch, s Schema) (Book, error) {
	for col := range p.Columns {
		if contains(LocationColumns, col) || contains(s.IDColumns, col) {
			return b, errors.New(errors.CodeInvalidInput, "column %q cannot be edited directly", col)
		}
	}

	out := b.Clone()
	if len(p.Columns) > 0 {
		for col, v := range p.Columns {
			out.Raw[col] = v
		}
		fresh := s.bookFromRecord(out.Raw)
		out.Title, out.Author, out.Year = fresh.Title, fresh.Author, fresh.Year
		out.Tags, out.UseStatus = fresh.Tags, fresh.UseStatus
	}

	if p.Title != nil {
		out.Title = strings.TrimSpace(*p.Title)
	}
	if p.Author != nil {
		out.Author = strings.TrimSpace(*p.Author)
	}
	if p.Year != nil {
		out.Year = strings.TrimSpace(*p.Year)
	}
	if p.Tags != nil {
		out.Tags = s.SplitTags(s.JoinTags(*p.Tags))
	}
	if p.UseStatus != nil {
		out.UseStatus = strings.TrimSpace(*p.UseStatus)
	}
	if p.Note != nil {
		out.Location.Note = *p.Note
	}

	out = s.project(out)
	writeLocation(out.Raw, out.Location)
	return out, nil
}

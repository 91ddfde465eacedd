package catalog

import (
	"github.com/blackwell-systems/shelfmap/internal/tabular"
)

// Pass-through location columns kept in lock-step with Book.Location.
const (
	ColBookcase = "Location_Bookcase"
	ColShelf    = "Location_Shelf"
	ColPosition = "Location_Position"
	ColNote     = "Location_Note"
)

// LocationColumns lists the location columns in the order they are appended
// to a header that lacks them.
var LocationColumns = []string{ColBookcase, ColShelf, ColPosition, ColNote}

// MaxShelf is the highest shelf number a bookcase can have.
const MaxShelf = 12

// Book is one catalog entry derived from a CSV row.
type Book struct {
	ID        string
	Title     string
	Author    string
	Year      string
	Tags      []string
	UseStatus string
	Location  Location
	Raw       tabular.Record
}

// Location is where a book sits in the active library. Shelf and Position
// are 1-based; zero means unplaced.
type Location struct {
	Bookcase string
	Shelf    int
	Position int
	Note     string
}

// Clone returns a deep copy of b.
func (b Book) Clone() Book {
	out := b
	if b.Tags != nil {
		out.Tags = append([]string(nil), b.Tags...)
	}
	if b.Raw != nil {
		out.Raw = b.Raw.Clone()
	} else {
		out.Raw = tabular.Record{}
	}
	return out
}

// HasTag reports whether b carries tag (case-sensitive).
func (b Book) HasTag(tag string) bool {
	for _, t := range b.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

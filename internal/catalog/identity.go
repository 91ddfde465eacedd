package catalog

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/blackwell-systems/shelfmap/internal/tabular"
	"github.com/blackwell-systems/shelfmap/internal/util"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Assign turns rows into books with ids unique within the batch.
//
// An explicit identity column wins. Otherwise the id is derived from the
// normalized (author, title, year) tuple, so the same book always hashes to
// the same id. Ids already taken in the batch get -1, -2, ... appended.
func Assign(rows []tabular.Record, s Schema) []Book {
	books := make([]Book, 0, len(rows))
	taken := make(map[string]bool, len(rows))
	for _, rec := range rows {
		b := s.bookFromRecord(rec)
		id := explicitID(rec, s)
		if id == "" {
			id = DerivedID(b.Author, b.Title, b.Year)
		}
		b.ID = uniqueID(id, taken)
		taken[b.ID] = true
		books = append(books, b)
	}
	return books
}

// DerivedID hashes the normalized author/title/year tuple.
func DerivedID(author, title, year string) string {
	key := Normalize(author) + "|" + Normalize(title) + "|" + Normalize(year)
	return "bk-" + util.SHA256String(key)[:12]
}

// Normalize folds s to lower-case ASCII with every run of other characters
// collapsed to a single "-".
func Normalize(s string) string {
	s = norm.NFKD.String(s)
	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)
	s = strings.ToLower(s)
	s = nonAlphanumeric.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

func explicitID(rec tabular.Record, s Schema) string {
	for _, col := range s.IDColumns {
		if v := strings.TrimSpace(rec[col]); v != "" {
			return v
		}
	}
	return ""
}

func uniqueID(id string, taken map[string]bool) string {
	if !taken[id] {
		return id
	}
	for n := 1; ; n++ {
		candidate := id + "-" + strconv.Itoa(n)
		if !taken[candidate] {
			return candidate
		}
	}
}

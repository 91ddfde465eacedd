package catalog

import "strings"

// Filter applies all non-empty criteria and returns matching books.
type Filter struct {
	Tag    string
	Status string
	Search string // matches title, author, or any tag
}

// Apply returns the subset of books matching all non-empty filter fields.
func (f Filter) Apply(books []Book) []Book {
	var out []Book
	for _, b := range books {
		if f.Tag != "" && !hasTagFold(b, f.Tag) {
			continue
		}
		if f.Status != "" && !strings.EqualFold(b.UseStatus, f.Status) {
			continue
		}
		if f.Search != "" && !matchesSearch(b, f.Search) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// TagCounts returns how many books carry each tag, keyed case-insensitively.
func TagCounts(books []Book) map[string]int {
	counts := make(map[string]int)
	for _, b := range books {
		for _, t := range b.Tags {
			counts[strings.ToLower(t)]++
		}
	}
	return counts
}

func hasTagFold(b Book, tag string) bool {
	for _, t := range b.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

func matchesSearch(b Book, q string) bool {
	q = strings.ToLower(q)
	if strings.Contains(strings.ToLower(b.Title), q) {
		return true
	}
	if strings.Contains(strings.ToLower(b.Author), q) {
		return true
	}
	for _, t := range b.Tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}

// Package catalog holds the in-memory book catalog: CSV schema variants,
// identity assignment, the immutable Catalog value, and the location
// synchronizer that keeps structured and raw location fields aligned.
package catalog

// Catalog is an immutable set of books with a fixed row and column order.
// Every mutating method returns a new Catalog and leaves the receiver
// untouched, so older snapshots stay valid.
type Catalog struct {
	books   map[string]Book
	order   []string
	columns []string
}

// New builds a catalog from books in the given order. A later book with an
// id already seen replaces the earlier one in place.
func New(columns []string, books []Book) *Catalog {
	c := &Catalog{
		books:   make(map[string]Book, len(books)),
		order:   make([]string, 0, len(books)),
		columns: append([]string(nil), columns...),
	}
	for _, b := range books {
		if _, exists := c.books[b.ID]; !exists {
			c.order = append(c.order, b.ID)
		}
		c.books[b.ID] = b
	}
	return c
}

// Len returns the number of books.
func (c *Catalog) Len() int { return len(c.order) }

// Columns returns a copy of the CSV column order.
func (c *Catalog) Columns() []string {
	return append([]string(nil), c.columns...)
}

// IDs returns a copy of the row order.
func (c *Catalog) IDs() []string {
	return append([]string(nil), c.order...)
}

// Get returns the book with id. The returned value shares its Raw map with
// the catalog; use Clone before modifying it.
func (c *Catalog) Get(id string) (Book, bool) {
	b, ok := c.books[id]
	return b, ok
}

// Has reports whether id is in the catalog.
func (c *Catalog) Has(id string) bool {
	_, ok := c.books[id]
	return ok
}

// Books returns every book in row order.
func (c *Catalog) Books() []Book {
	out := make([]Book, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.books[id])
	}
	return out
}

// Upsert inserts or replaces books. New ids are appended to the row order;
// existing ids keep their position.
func (c *Catalog) Upsert(books ...Book) *Catalog {
	next := c.clone()
	for _, b := range books {
		if _, exists := next.books[b.ID]; !exists {
			next.order = append(next.order, b.ID)
		}
		next.books[b.ID] = b
	}
	return next
}

// Remove deletes id from the books and the row order. It returns the
// receiver unchanged and false if id is unknown.
func (c *Catalog) Remove(id string) (*Catalog, bool) {
	if !c.Has(id) {
		return c, false
	}
	next := c.clone()
	delete(next.books, id)
	for i, existing := range next.order {
		if existing == id {
			next.order = append(next.order[:i], next.order[i+1:]...)
			break
		}
	}
	return next, true
}

// ReplaceAll returns a catalog holding exactly books, keeping the columns.
func (c *Catalog) ReplaceAll(books []Book) *Catalog {
	return New(c.columns, books)
}

func (c *Catalog) clone() *Catalog {
	next := &Catalog{
		books:   make(map[string]Book, len(c.books)+1),
		order:   append(make([]string, 0, len(c.order)+1), c.order...),
		columns: c.columns,
	}
	for k, v := range c.books {
		next.books[k] = v
	}
	return next
}

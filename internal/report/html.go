// Package report renders a library as a static HTML page: one section per
// bookcase, one row per shelf, a card per placement. Search and tag
// filtering run client-side.
package report

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/blackwell-systems/shelfmap/internal/catalog"
	"github.com/blackwell-systems/shelfmap/internal/layout"
	"github.com/blackwell-systems/shelfmap/internal/util"
)

// WriteHTML renders l and writes it to path.
func WriteHTML(path string, def layout.Definition, l *layout.Layout, c *catalog.Catalog) error {
	if err := util.WriteFileAtomic(path, []byte(GenerateHTML(def, l, c)), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// GenerateHTML renders one library's layout as a standalone HTML page.
func GenerateHTML(def layout.Definition, l *layout.Layout, c *catalog.Catalog) string {
	var s strings.Builder

	tagSet := make(map[string]int)
	for _, b := range c.Books() {
		for _, tag := range b.Tags {
			tagSet[tag]++
		}
	}

	fmt.Fprintf(&s, `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s · shelfmap</title>
    <style>
        :root {
            --orange: #fb6820;
            --teal: #1b8487;
            --teal-light: #2ecfd4;
            --teal-card: #1c2829;
            --teal-border: #1e3a3c;
        }
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
            background: #1a1a1a;
            color: #e0e0e0;
            line-height: 1.5;
            padding: 20px;
        }
        header { max-width: 1200px; margin: 0 auto 20px; }
        h1 { font-size: 2rem; color: var(--orange); }
        .subtitle { color: #888; font-size: 0.9rem; }
        .controls { max-width: 1200px; margin: 0 auto 15px; }
        #search {
            width: 100%%;
            padding: 10px 14px;
            background: #2a2a2a;
            border: 1px solid var(--teal-border);
            border-radius: 6px;
            color: #e0e0e0;
        }
        .tag-filters { max-width: 1200px; margin: 0 auto 20px; display: flex; flex-wrap: wrap; gap: 6px; }
        .tag-filter {
            padding: 3px 10px;
            border-radius: 12px;
            background: var(--teal-card);
            border: 1px solid var(--teal-border);
            cursor: pointer;
            font-size: 0.8rem;
        }
        .tag-filter.active { background: var(--teal); color: #fff; }
        .bookcase {
            max-width: 1200px;
            margin: 0 auto 30px;
            border: 2px solid var(--teal-border);
            border-radius: 8px;
            padding: 12px;
        }
        .bookcase h2 { color: var(--teal-light); font-size: 1.3rem; margin-bottom: 8px; }
        .shelf { display: flex; gap: 8px; align-items: stretch; border-bottom: 4px solid #5a4632; padding: 8px 0; min-height: 60px; }
        .shelf-label { width: 90px; flex-shrink: 0; color: #888; font-size: 0.8rem; }
        .book-card {
            width: 130px;
            background: var(--teal-card);
            border: 1px solid var(--teal-border);
            border-radius: 4px;
            padding: 6px;
            font-size: 0.8rem;
        }
        .book-card.copy { opacity: 0.6; font-style: italic; }
        .book-title { color: #fff; font-weight: 600; }
        .book-author { color: #aaa; }
        .book-id { color: #666; font-family: monospace; font-size: 0.7rem; }
        .empty { color: #555; font-style: italic; }
    </style>
</head>
<body>
    <header>
        <h1>%s</h1>
        <p class="subtitle">%d books on %d bookcases</p>
    </header>
    <div class="controls">
        <input type="text" id="search" placeholder="Search by title, author, or tag...">
    </div>
`,
		html.EscapeString(def.Name),
		html.EscapeString(def.Name),
		c.Len(),
		len(l.Bookcases),
	)

	if len(tagSet) > 0 {
		tags := make([]string, 0, len(tagSet))
		for tag := range tagSet {
			tags = append(tags, tag)
		}
		sort.Strings(tags)
		s.WriteString(`    <div class="tag-filters">
`)
		for _, tag := range tags {
			fmt.Fprintf(&s, `        <span class="tag-filter" data-tag="%s">%s (%d)</span>
`, html.EscapeString(tag), html.EscapeString(tag), tagSet[tag])
		}
		s.WriteString(`    </div>
`)
	}

	for _, bc := range l.Bookcases {
		renderBookcase(&s, l, bc, c)
	}

	s.WriteString(`    <script>
        const search = document.getElementById('search');
        const activeTags = new Set();

        document.querySelectorAll('.tag-filter').forEach(filter => {
            filter.addEventListener('click', () => {
                const tag = filter.dataset.tag;
                if (activeTags.has(tag)) {
                    activeTags.delete(tag);
                    filter.classList.remove('active');
                } else {
                    activeTags.add(tag);
                    filter.classList.add('active');
                }
                applyFilters();
            });
        });

        search.addEventListener('input', applyFilters);

        function applyFilters() {
            const query = search.value.toLowerCase();
            document.querySelectorAll('.book-card').forEach(card => {
                const text = card.textContent.toLowerCase();
                const cardTags = card.dataset.tags.split('|').filter(t => t);
                const matchesSearch = query === '' || text.includes(query);
                const matchesTags = Array.from(activeTags).every(tag => cardTags.includes(tag));
                card.style.display = matchesSearch && matchesTags ? 'block' : 'none';
            });
        }
    </script>
</body>
</html>
`)

	return s.String()
}

func renderBookcase(s *strings.Builder, l *layout.Layout, bc layout.Bookcase, c *catalog.Catalog) {
	fmt.Fprintf(s, `    <section class="bookcase" id="%s">
        <h2>%s</h2>
`, html.EscapeString(bc.ID), html.EscapeString(bc.Name))

	for i, sid := range bc.ShelfIDs {
		label := layout.DefaultLabel(i + 1)
		if i < len(bc.Settings.ShelfLabels) {
			label = bc.Settings.ShelfLabels[i]
		}
		fmt.Fprintf(s, `        <div class="shelf" data-shelf="%s">
            <div class="shelf-label">%s</div>
`, html.EscapeString(sid), html.EscapeString(label))

		placements := l.Shelves[sid].Placements
		if len(placements) == 0 {
			s.WriteString(`            <div class="empty">empty</div>
`)
		}
		for _, p := range placements {
			renderBookCard(s, p, c)
		}
		s.WriteString(`        </div>
`)
	}
	s.WriteString(`    </section>
`)
}

func renderBookCard(s *strings.Builder, p layout.Placement, c *catalog.Catalog) {
	b, _ := c.Get(p.Book)
	title := b.Title
	if title == "" {
		title = p.Book
	}
	class := "book-card"
	if !p.IsPrimary() {
		class += " copy"
	}

	fmt.Fprintf(s, `            <div class="%s" data-id="%s" data-tags="%s">
                <div class="book-title">%s</div>
`,
		class,
		html.EscapeString(p.String()),
		html.EscapeString(strings.Join(b.Tags, "|")),
		html.EscapeString(title),
	)
	if b.Author != "" {
		fmt.Fprintf(s, `                <div class="book-author">%s</div>
`, html.EscapeString(b.Author))
	}
	fmt.Fprintf(s, `                <div class="book-id">%s</div>
            </div>
`, html.EscapeString(p.String()))
}

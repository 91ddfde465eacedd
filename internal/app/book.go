package app

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/shelfmap/internal/catalog"
	"github.com/blackwell-systems/shelfmap/internal/state"
)

func newBookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "book",
		Short: "Add, edit, inspect or remove a single book",
	}
	cmd.AddCommand(
		newBookInfoCmd(),
		newBookAddCmd(),
		newBookEditCmd(),
		newBookRemoveCmd(),
	)
	return cmd
}

// patchFlags collects the flags shared by book add and book edit.
type patchFlags struct {
	title   string
	author  string
	year    string
	tags    string
	addTags []string
	rmTags  []string
	status  string
	note    string
	set     []string
}

func (f *patchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "Book title")
	cmd.Flags().StringVar(&f.author, "author", "", "Author")
	cmd.Flags().StringVar(&f.year, "year", "", "Publication year")
	cmd.Flags().StringVar(&f.tags, "tags", "", "Replace tags (comma-separated)")
	cmd.Flags().StringArrayVar(&f.addTags, "add-tag", nil, "Add a tag (repeatable)")
	cmd.Flags().StringArrayVar(&f.rmTags, "rm-tag", nil, "Remove a tag (repeatable)")
	cmd.Flags().StringVar(&f.status, "status", "", "Use status")
	cmd.Flags().StringVar(&f.note, "note", "", "Location note")
	cmd.Flags().StringArrayVar(&f.set, "set", nil, "Set a CSV column: --set 'Column=value' (repeatable)")
}

// patch builds a catalog patch from the flags the user actually passed.
// current supplies the tags --add-tag and --rm-tag start from.
func (f *patchFlags) patch(cmd *cobra.Command, current []string) (catalog.Patch, error) {
	var p catalog.Patch
	changed := cmd.Flags().Changed

	if changed("title") {
		p.Title = &f.title
	}
	if changed("author") {
		p.Author = &f.author
	}
	if changed("year") {
		p.Year = &f.year
	}
	if changed("status") {
		p.UseStatus = &f.status
	}
	if changed("note") {
		p.Note = &f.note
	}
	if changed("tags") || len(f.addTags) > 0 || len(f.rmTags) > 0 {
		tags := current
		if changed("tags") {
			tags = splitList(f.tags)
		}
		tags = editTags(tags, f.addTags, f.rmTags)
		p.Tags = &tags
	}
	if len(f.set) > 0 {
		cols, err := parseAssignments(f.set)
		if err != nil {
			return p, err
		}
		p.Columns = cols
	}
	return p, nil
}

// parseAssignments parses "Column=value" pairs.
func parseAssignments(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, kv := range pairs {
		k, v, found := strings.Cut(kv, "=")
		k = strings.TrimSpace(k)
		if !found || k == "" {
			return nil, fmt.Errorf("invalid --set %q: expected Column=value", kv)
		}
		out[k] = v
	}
	return out, nil
}

// splitList splits a comma-separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// editTags adds and removes tags case-insensitively, keeping order.
func editTags(tags, add, remove []string) []string {
	drop := make(map[string]bool, len(remove))
	for _, t := range remove {
		drop[strings.ToLower(strings.TrimSpace(t))] = true
	}
	seen := make(map[string]bool)
	out := []string{}
	for _, t := range append(append([]string(nil), tags...), add...) {
		t = strings.TrimSpace(t)
		key := strings.ToLower(t)
		if t == "" || drop[key] || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	return out
}

func newBookInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <id>",
		Short: "Show a book's fields and placements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := loadState()
			if err != nil {
				return err
			}
			b, found := st.Catalog.Get(args[0])
			if !found {
				return fmt.Errorf("book %q not found", args[0])
			}

			w := cmd.OutOrStdout()
			row := func(k, v string) {
				if v != "" {
					fmt.Fprintf(w, "  %-10s %s\n", color.HiBlackString(k), v)
				}
			}
			fmt.Fprintln(w, color.New(color.Bold).Sprint(b.Title))
			row("ID", b.ID)
			row("Author", b.Author)
			row("Year", b.Year)
			row("Tags", strings.Join(b.Tags, ", "))
			row("Status", b.UseStatus)
			row("Location", formatLocation(b.Location))
			row("Note", b.Location.Note)

			for _, d := range st.Libraries {
				l := st.Layouts[d.ID]
				for _, p := range l.Placements() {
					if p.Book != b.ID {
						continue
					}
					sid, idx, _ := l.Find(p)
					bi, si, _ := l.ShelfOwner(sid)
					fmt.Fprintf(w, "  %-10s %s / %d / %d\n",
						color.HiBlackString(d.Name), l.Bookcases[bi].Name, si+1, idx+1)
				}
			}
			return nil
		},
	}
}

func newBookAddCmd() *cobra.Command {
	var f patchFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a book to the catalog",
		Long: `Add a book. A title is required. The id is derived from author, title
and year. Every library places the new book.

Examples:
  shelfmap book add --title "The Dispossessed" --author "Ursula K. Le Guin" --year 1974 --tags fiction,sf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := f.patch(cmd, nil)
			if err != nil {
				return err
			}
			var id string
			_, _, err = mutate("add-book", func(cur *state.State) (*state.State, error) {
				next, newID, err := cur.AddBook(p)
				id = newID
				return next, err
			})
			if err != nil {
				return err
			}
			ok("Added %s", id)
			return nil
		},
	}

	f.register(cmd)
	return cmd
}

func newBookEditCmd() *cobra.Command {
	var f patchFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a book's fields",
		Long: `Edit a book. Only the flags you pass change.

Examples:
  shelfmap book edit bk-1a2b3c4d5e6f --status read
  shelfmap book edit bk-1a2b3c4d5e6f --add-tag favorites --rm-tag draft
  shelfmap book edit bk-1a2b3c4d5e6f --set 'Publisher=Harper & Row'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bookID := args[0]
			_, changed, err := mutate("edit-book", func(cur *state.State) (*state.State, error) {
				b, found := cur.Catalog.Get(bookID)
				if !found {
					return cur.UpdateBook(bookID, catalog.Patch{})
				}
				p, err := f.patch(cmd, b.Tags)
				if err != nil {
					return cur, err
				}
				return cur.UpdateBook(bookID, p)
			})
			if err != nil {
				return err
			}
			if !changed {
				warn("Nothing to change for %s", bookID)
				return nil
			}
			ok("Updated %s", bookID)
			return nil
		},
	}

	f.register(cmd)
	return cmd
}

func newBookRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a book from the catalog and every library",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, err := mutate("remove-book", func(cur *state.State) (*state.State, error) {
				return cur.RemoveBook(args[0])
			})
			if err != nil {
				return err
			}
			ok("Removed %s", args[0])
			return nil
		},
	}
}

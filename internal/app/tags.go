package app

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/shelfmap/internal/catalog"
	"github.com/blackwell-systems/shelfmap/internal/state"
)

func newTagsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "List and manage tags across the catalog",
		Long:  "List all tags with book counts, or rename tags in bulk.",
	}

	cmd.AddCommand(
		newTagsListCmd(),
		newTagsRenameCmd(),
	)

	// Make `shelfmap tags` with no subcommand default to list
	cmd.RunE = newTagsListCmd().RunE

	return cmd
}

type tagEntry struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// sortedTags orders tag counts by count descending, then name ascending.
func sortedTags(counts map[string]int) []tagEntry {
	entries := make([]tagEntry, 0, len(counts))
	for name, count := range counts {
		entries = append(entries, tagEntry{name, count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Name < entries[j].Name
	})
	return entries
}

func newTagsListCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all tags with book counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := loadState()
			if err != nil {
				return err
			}
			entries := sortedTags(catalog.TagCounts(st.Catalog.Books()))

			if jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}

			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tags found.")
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "  %-24s %s\n",
					color.CyanString(e.Name),
					color.HiBlackString("(%d)", e.Count),
				)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d tags across %d books\n", len(entries), st.Catalog.Len())
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")

	return cmd
}

func newTagsRenameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename a tag across all books",
		Long: `Rename all occurrences of a tag (case-insensitive).

Libraries grouped by tag move the affected books to the renamed bookcase.

Examples:
  shelfmap tags rename "prog" "programming"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			oldTag, newTag := args[0], strings.TrimSpace(args[1])
			if newTag == "" {
				return fmt.Errorf("new tag must not be empty")
			}

			renamed := 0
			_, changed, err := mutate("rename-tag", func(cur *state.State) (*state.State, error) {
				next := cur
				for _, b := range cur.Catalog.Books() {
					tags, hit := renameTag(b.Tags, oldTag, newTag)
					if !hit {
						continue
					}
					var err error
					next, err = next.UpdateBook(b.ID, catalog.Patch{Tags: &tags})
					if err != nil {
						return cur, err
					}
					renamed++
				}
				return next, nil
			})
			if err != nil {
				return err
			}
			if !changed {
				warn("No books tagged %q", oldTag)
				return nil
			}
			ok("Renamed %q to %q on %d books", oldTag, newTag, renamed)
			return nil
		},
	}

	return cmd
}

// renameTag replaces oldTag with newTag, dropping the result if the book
// already carries newTag. hit reports whether oldTag was present.
func renameTag(tags []string, oldTag, newTag string) (out []string, hit bool) {
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		if strings.EqualFold(t, oldTag) {
			t = newTag
			hit = true
		}
		key := strings.ToLower(t)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	return out, hit
}

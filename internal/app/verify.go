package app

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/shelfmap/internal/catalog"
	"github.com/blackwell-systems/shelfmap/internal/layout"
	"github.com/blackwell-systems/shelfmap/internal/state"
)

func newVerifyCmd() *cobra.Command {
	var fix bool

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check layouts and locations for inconsistencies",
		Long: `Check every library's layout against the catalog, and every book's
Location columns against the active library.
Use --fix to rebuild the layouts and rewrite the locations.

Examples:
  shelfmap verify
  shelfmap verify --fix`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := loadState()
			if err != nil {
				return err
			}

			issues := verifyState(st)
			for _, is := range issues {
				fmt.Printf("  %s %-10s %s\n", color.RedString("✗"), is.Type, is.Description)
			}

			fmt.Println()
			if len(issues) == 0 {
				ok("No issues found")
				return nil
			}
			if !fix {
				warn("%d issues found. Run with --fix to repair.", len(issues))
				return nil
			}

			next, err := st.ImportText(st.ExportText())
			if err != nil {
				return err
			}
			if err := saveState(st, next); err != nil {
				return err
			}
			if remaining := verifyState(next); len(remaining) > 0 {
				warn("%d issues remain after rebuilding", len(remaining))
				return nil
			}
			ok("Fixed %d issues", len(issues))
			return nil
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "Rebuild layouts and locations")
	return cmd
}

type verifyIssue struct {
	Type        string // "layout", "location" or "columns"
	BookID      string
	Description string
}

func verifyState(st *state.State) []verifyIssue {
	var issues []verifyIssue

	for _, d := range st.Libraries {
		if err := layout.Check(st.Layouts[d.ID], st.Catalog); err != nil {
			issues = append(issues, verifyIssue{
				Type:        "layout",
				Description: fmt.Sprintf("%s: %v", d.Name, err),
			})
		}
	}

	located := make(map[string]layout.Location)
	for _, loc := range layout.LocateAll(st.ActiveLayout()) {
		located[loc.Book] = loc
	}
	for _, b := range st.Catalog.Books() {
		if !catalog.InSync(b) {
			issues = append(issues, verifyIssue{
				Type:        "columns",
				BookID:      b.ID,
				Description: fmt.Sprintf("%s: Location columns disagree with the parsed location", b.ID),
			})
		}
		loc, found := located[b.ID]
		if !found {
			continue
		}
		if b.Location.Bookcase != loc.Bookcase || b.Location.Shelf != loc.Shelf || b.Location.Position != loc.Position {
			issues = append(issues, verifyIssue{
				Type:   "location",
				BookID: b.ID,
				Description: fmt.Sprintf("%s: recorded %s, shelved at %s", b.ID,
					formatLocation(b.Location),
					formatLocation(catalog.Location{Bookcase: loc.Bookcase, Shelf: loc.Shelf, Position: loc.Position})),
			})
		}
	}
	return issues
}

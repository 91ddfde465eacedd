package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/shelfmap/internal/layout"
)

func newShowCmd() *cobra.Command {
	var (
		libraryID string
		showIDs   bool
	)

	cmd := &cobra.Command{
		Use:   "show [bookcase]",
		Short: "Draw the bookcases of a library",
		Long: `Draw every bookcase of the active library, or just one. Duplicate
placements are shown in italics.

Examples:
  shelfmap show
  shelfmap show Fiction --ids
  shelfmap show --library tags`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := loadState()
			if err != nil {
				return err
			}
			def, l, err := resolveLibrary(st, libraryID)
			if err != nil {
				return err
			}

			bookcases := l.Bookcases
			if len(args) == 1 {
				bc, err := resolveBookcase(l, args[0])
				if err != nil {
					return err
				}
				bookcases = []layout.Bookcase{bc}
			}

			header("── %s  (%d bookcases)", def.Name, len(l.Bookcases))
			if len(bookcases) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No books yet. Run 'shelfmap import <file.csv>' first.")
				return nil
			}
			for _, bc := range bookcases {
				fmt.Fprintln(cmd.OutOrStdout(), renderBookcase(l, bc, st.Catalog, showIDs))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&libraryID, "library", "", "Library to show (default: active)")
	cmd.Flags().BoolVar(&showIDs, "ids", false, "Show placement ids after titles")

	return cmd
}

package app

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/shelfmap/internal/layout"
	"github.com/blackwell-systems/shelfmap/internal/state"
)

func newResizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resize <bookcase> <shelves>",
		Short: "Change a bookcase's shelf count",
		Long: `Change how many shelves a bookcase has (1 to 12). Shrinking moves the
books of removed shelves onto the new last shelf; growing adds empty
shelves.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return err
			}
			if n < 1 || n > layout.MaxShelves {
				warn("Shelf count clamped to 1..%d", layout.MaxShelves)
			}
			st, changed, err := mutate("resize", func(cur *state.State) (*state.State, error) {
				bc, err := resolveBookcase(cur.ActiveLayout(), args[0])
				if err != nil {
					return cur, err
				}
				return cur.SetBookcaseShelfCount(bc.ID, n), nil
			})
			if err != nil {
				return err
			}
			bc, _ := resolveBookcase(st.ActiveLayout(), args[0])
			if !changed {
				ok("%s already has %d shelves", bc.Name, len(bc.ShelfIDs))
				return nil
			}
			ok("%s now has %d shelves", bc.Name, len(bc.ShelfIDs))
			return nil
		},
	}
}

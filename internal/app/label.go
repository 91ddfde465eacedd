package app

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/shelfmap/internal/state"
)

func newLabelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "label <bookcase> <shelf> <label>",
		Short: "Rename a shelf",
		Long:  `Set the label of a shelf (1-based). An empty label restores the default.`,
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return err
			}
			_, _, err = mutate("label", func(cur *state.State) (*state.State, error) {
				bc, err := resolveBookcase(cur.ActiveLayout(), args[0])
				if err != nil {
					return cur, err
				}
				return cur.SetShelfLabel(bc.ID, n, args[2])
			})
			if err != nil {
				return err
			}
			ok("Labelled shelf %d of %s", n, args[0])
			return nil
		},
	}
}

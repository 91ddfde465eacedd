package app

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/shelfmap/internal/catalog"
	"github.com/blackwell-systems/shelfmap/internal/layout"
	"github.com/blackwell-systems/shelfmap/internal/state"
	"github.com/blackwell-systems/shelfmap/internal/tui"
)

func newMoveCmd() *cobra.Command {
	var position int

	cmd := &cobra.Command{
		Use:   "move [book[::copy]] [shelf]",
		Short: "Move a book to a shelf in the active library",
		Long: `Move a placement to a shelf of the active library. The shelf is a shelf
id or "<bookcase>/<n>" with a 1-based shelf number. The book goes at
--position (1-based), or last when omitted.

Books in other libraries keep their places. Every book on the shelves
involved gets its Location rewritten.

Without arguments in a terminal, pick the book and the shelf interactively.

Examples:
  shelfmap move
  shelfmap move bk-1a2b3c4d5e6f Fiction/2
  shelfmap move bk-1a2b3c4d5e6f Fiction/2 --position 1
  shelfmap move bk-1a2b3c4d5e6f::history History/1`,
		Args: cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) < 2 {
				if !tui.ShouldUseTUI(cmd) {
					return fmt.Errorf("book and shelf required in non-interactive mode")
				}
				picked, err := pickMove(args)
				if err != nil {
					return err
				}
				args = picked
			}

			_, changed, err := mutate("move", func(cur *state.State) (*state.State, error) {
				l := cur.ActiveLayout()
				p, err := resolvePlacement(l, args[0])
				if err != nil {
					return cur, err
				}
				to, err := resolveShelf(l, args[1])
				if err != nil {
					return cur, err
				}
				from, _, _ := l.Find(p)
				req := layout.MoveRequest{
					Placement: p,
					FromShelf: from,
					ToShelf:   to,
					ToIndex:   targetIndex(l, p, to, position),
				}
				return cur.MoveBook(req), nil
			})
			if err != nil {
				return err
			}
			if !changed {
				warn("%s is already there", args[0])
				return nil
			}
			ok("Moved %s to %s", args[0], args[1])
			return nil
		},
	}

	cmd.Flags().IntVar(&position, "position", 0, "1-based position on the shelf (default: last)")

	return cmd
}

// targetIndex converts a 1-based final position on toShelf to the drop
// index MoveBook takes. Zero or less means the end of the shelf. A drop
// index counts the moved placement itself, so a forward move within one
// shelf lands one slot further on.
func targetIndex(l *layout.Layout, p layout.Placement, toShelf string, position int) int {
	if position <= 0 {
		return math.MaxInt32
	}
	idx := position - 1
	if from, current, found := l.Find(p); found && from == toShelf && current < idx {
		idx++
	}
	return idx
}

// pickMove prompts for whichever of placement and shelf args lacks.
func pickMove(args []string) ([]string, error) {
	st, err := loadState()
	if err != nil {
		return nil, err
	}
	l := st.ActiveLayout()

	ref := ""
	if len(args) > 0 {
		ref = args[0]
	} else {
		opt, err := tui.PickPlacement(placementOptions(l, st.Catalog))
		if err != nil {
			return nil, err
		}
		ref = opt.Ref
	}

	shelf, err := tui.PickShelf(shelfOptions(l))
	if err != nil {
		return nil, err
	}
	return []string{ref, shelf.ID}, nil
}

func placementOptions(l *layout.Layout, c *catalog.Catalog) []tui.PlacementOption {
	var opts []tui.PlacementOption
	for _, bc := range l.Bookcases {
		for si, sid := range bc.ShelfIDs {
			for pi, p := range l.Shelves[sid].Placements {
				title := p.Book
				if b, found := c.Get(p.Book); found && b.Title != "" {
					title = b.Title
				}
				opts = append(opts, tui.PlacementOption{
					Ref:   p.String(),
					Title: title,
					Where: fmt.Sprintf("%s / %d / %d", bc.Name, si+1, pi+1),
				})
			}
		}
	}
	return opts
}

func shelfOptions(l *layout.Layout) []tui.ShelfOption {
	var opts []tui.ShelfOption
	for _, bc := range l.Bookcases {
		for i, sid := range bc.ShelfIDs {
			label := layout.DefaultLabel(i + 1)
			if i < len(bc.Settings.ShelfLabels) {
				label = bc.Settings.ShelfLabels[i]
			}
			opts = append(opts, tui.ShelfOption{
				ID:       sid,
				Bookcase: bc.Name,
				Label:    label,
				Count:    len(l.Shelves[sid].Placements),
			})
		}
	}
	return opts
}

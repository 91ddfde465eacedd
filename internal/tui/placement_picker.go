package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
)

// PlacementOption is one placement offered for a move.
type PlacementOption struct {
	Ref   string // "book" or "book::copy"
	Title string
	Where string // "Bookcase / shelf / position"
}

// FilterValue implements list.Item
func (p PlacementOption) FilterValue() string {
	return p.Title + " " + p.Ref + " " + p.Where
}

func renderPlacementOption(w io.Writer, m list.Model, index int, item list.Item) {
	opt, ok := item.(PlacementOption)
	if !ok {
		return
	}
	renderRow(w, index == m.Index(), fmt.Sprintf("%-40s", opt.Title), "["+opt.Where+"]  "+opt.Ref)
}

// PickPlacement lets the user choose the placement to move.
func PickPlacement(opts []PlacementOption) (PlacementOption, error) {
	if len(opts) == 0 {
		return PlacementOption{}, fmt.Errorf("no books are placed in this library")
	}
	items := make([]list.Item, len(opts))
	for i, o := range opts {
		items[i] = o
	}
	item, err := run(newPicker("Select Book", items, renderPlacementOption))
	if err != nil {
		return PlacementOption{}, err
	}
	return item.(PlacementOption), nil
}

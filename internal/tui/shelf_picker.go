package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
)

// ShelfOption is one destination shelf.
type ShelfOption struct {
	ID       string
	Bookcase string
	Label    string
	Count    int
}

// FilterValue implements list.Item
func (s ShelfOption) FilterValue() string {
	return s.Bookcase + " " + s.Label
}

func renderShelfOption(w io.Writer, m list.Model, index int, item list.Item) {
	opt, ok := item.(ShelfOption)
	if !ok {
		return
	}
	text := fmt.Sprintf("%s / %s", StyleMeta.Render(opt.Bookcase), opt.Label)
	renderRow(w, index == m.Index(), text, fmt.Sprintf("(%d books)", opt.Count))
}

// PickShelf lets the user choose a destination shelf.
func PickShelf(opts []ShelfOption) (ShelfOption, error) {
	if len(opts) == 0 {
		return ShelfOption{}, fmt.Errorf("no shelves in this library")
	}
	if len(opts) == 1 {
		return opts[0], nil
	}
	items := make([]list.Item, len(opts))
	for i, o := range opts {
		items[i] = o
	}
	item, err := run(newPicker("Move To Shelf", items, renderShelfOption))
	if err != nil {
		return ShelfOption{}, err
	}
	return item.(ShelfOption), nil
}

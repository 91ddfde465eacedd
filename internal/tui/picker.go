package tui

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrCanceled is returned when the user quits a picker without choosing.
var ErrCanceled = errors.New("canceled by user")

// renderFunc draws one list row.
type renderFunc func(w io.Writer, m list.Model, index int, item list.Item)

// delegate is a single-line list delegate that defers drawing to a
// renderFunc.
type delegate struct {
	render renderFunc
}

func (d delegate) Height() int { return 1 }
func (d delegate) Spacing() int { return 0 }
func (d delegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d delegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	d.render(w, m, index, item)
}

// pickerModel is a filterable list that quits on select or cancel.
type pickerModel struct {
	list     list.Model
	keys     PickerKeys
	selected list.Item
	canceled bool
}

func newPicker(title string, items []list.Item, render renderFunc) pickerModel {
	l := list.New(items, delegate{render: render}, 0, 0)
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = StyleHeader
	l.Styles.HelpStyle = StyleHelp

	keys := NewPickerKeys()
	l.AdditionalShortHelpKeys = keys.ShortHelp
	return pickerModel{list: l, keys: keys}
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.canceled = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Select):
			if item := m.list.SelectedItem(); item != nil {
				m.selected = item
				return m, tea.Quit
			}
		}
	case tea.WindowSizeMsg:
		h, v := StyleBorder.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m pickerModel) View() string {
	if m.canceled || m.selected != nil {
		return ""
	}
	return StyleBorder.Render(m.list.View())
}

// run shows the picker full-screen and returns the chosen item.
func run(m pickerModel) (list.Item, error) {
	p := tea.NewProgram(m, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("running picker: %w", err)
	}
	fm, ok := final.(pickerModel)
	if !ok {
		return nil, fmt.Errorf("unexpected model type")
	}
	if fm.canceled || fm.selected == nil {
		return nil, ErrCanceled
	}
	return fm.selected, nil
}

// renderRow draws a row with the selection marker used by every picker.
func renderRow(w io.Writer, selected bool, text, meta string) {
	if meta != "" {
		meta = " " + StyleHelp.Render(meta)
	}
	if selected {
		_, _ = fmt.Fprint(w, StyleHighlight.Render("› "+text)+meta)
		return
	}
	_, _ = fmt.Fprint(w, "  "+StyleNormal.Render(text)+meta)
}

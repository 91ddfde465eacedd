package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/blackwell-systems/shelfmap/internal/catalog"
	"github.com/blackwell-systems/shelfmap/internal/layout"
)

// Color palette matching existing fatih/color usage
var (
	colorGreen = lipgloss.AdaptiveColor{Light: "#00AF00", Dark: "#00D700"}
	colorCyan  = lipgloss.AdaptiveColor{Light: "#00AFAF", Dark: "#00D7D7"}
	colorWhite = lipgloss.AdaptiveColor{Light: "#262626", Dark: "#FFFFFF"}
	colorGray  = lipgloss.AdaptiveColor{Light: "#767676", Dark: "#808080"}
)

var (
	styleHeader = lipgloss.NewStyle().
			Foreground(colorWhite).
			Bold(true)

	styleLabel = lipgloss.NewStyle().Foreground(colorCyan)

	styleCopy = lipgloss.NewStyle().Foreground(colorGray).Italic(true)

	styleID = lipgloss.NewStyle().Foreground(colorGreen).Faint(true)

	styleEmpty = lipgloss.NewStyle().Foreground(colorGray).Faint(true)

	styleBookcase = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorGray).
			Padding(0, 1)
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

// bookRows turns books into rows for the books table.
func bookRows(books []catalog.Book) [][]string {
	rows := make([][]string, 0, len(books))
	for _, b := range books {
		rows = append(rows, []string{
			b.ID,
			truncate(b.Title, 40),
			truncate(b.Author, 24),
			strings.Join(b.Tags, ", "),
			b.UseStatus,
			formatLocation(b.Location),
		})
	}
	return rows
}

// formatLocation renders a location as "Bookcase / 2 / 5".
func formatLocation(loc catalog.Location) string {
	if loc.Shelf == 0 {
		return loc.Bookcase
	}
	return fmt.Sprintf("%s / %d / %d", loc.Bookcase, loc.Shelf, loc.Position)
}

// renderBookcase draws one bookcase as a bordered box, one line per shelf.
// Titles are looked up in c; showIDs adds the placement reference after
// each title.
func renderBookcase(l *layout.Layout, bc layout.Bookcase, c *catalog.Catalog, showIDs bool) string {
	var b strings.Builder
	b.WriteString(styleHeader.Render(bc.Name))
	b.WriteString(styleID.Render(fmt.Sprintf("  %s", bc.ID)))
	b.WriteString("\n")

	labelWidth := 0
	for _, lbl := range bc.Settings.ShelfLabels {
		if w := lipgloss.Width(lbl); w > labelWidth {
			labelWidth = w
		}
	}

	for i, sid := range bc.ShelfIDs {
		label := layout.DefaultLabel(i + 1)
		if i < len(bc.Settings.ShelfLabels) {
			label = bc.Settings.ShelfLabels[i]
		}
		b.WriteString(styleLabel.Render(fmt.Sprintf("%-*s", labelWidth, label)))
		b.WriteString(" │ ")

		placements := l.Shelves[sid].Placements
		if len(placements) == 0 {
			b.WriteString(styleEmpty.Render("(empty)"))
		}
		for j, p := range placements {
			if j > 0 {
				b.WriteString(", ")
			}
			b.WriteString(placementTitle(p, c, showIDs))
		}
		if i < len(bc.ShelfIDs)-1 {
			b.WriteString("\n")
		}
	}
	return styleBookcase.Render(b.String())
}

func placementTitle(p layout.Placement, c *catalog.Catalog, showIDs bool) string {
	title := p.Book
	if book, ok := c.Get(p.Book); ok && book.Title != "" {
		title = truncate(book.Title, 32)
	}
	if showIDs {
		title += styleID.Render(" [" + p.String() + "]")
	}
	if !p.IsPrimary() {
		return styleCopy.Render(title)
	}
	return title
}

// truncate shortens s to at most n runes, marking the cut with "…".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

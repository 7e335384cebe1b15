// Package table renders themed lipgloss tables.
package table

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	"github.com/grovetools/watchers/tui/theme"
)

// NewStyledTable returns a bordered table in the active theme.
func NewStyledTable() *ltable.Table {
	t := theme.DefaultTheme
	return ltable.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(t.Colors.Border)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == ltable.HeaderRow {
				return t.TableHeader.Padding(0, 1)
			}
			return t.TableRow.Padding(0, 1)
		})
}

// SimpleTable renders headers and rows.
func SimpleTable(headers []string, rows [][]string) string {
	tbl := NewStyledTable().Headers(headers...)
	for _, r := range rows {
		tbl = tbl.Row(r...)
	}
	return tbl.String()
}

// StatusTable renders label/value pairs without a border.
func StatusTable(items [][]string) string {
	t := theme.DefaultTheme
	tbl := ltable.New().
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return t.Muted.PaddingRight(1)
			}
			return t.Normal
		})
	for _, item := range items {
		if len(item) >= 2 {
			tbl = tbl.Row(item[0]+":", item[1])
		}
	}
	return tbl.String()
}

// SelectableTable renders a table with an arrow left of the selected data
// row. A negative selected index draws no arrow.
func SelectableTable(headers []string, rows [][]string, selected int) string {
	t := theme.DefaultTheme
	tbl := ltable.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(t.Colors.Border)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == ltable.HeaderRow:
				return t.TableHeader.Padding(0, 1)
			case row == selected:
				return t.Selected.Padding(0, 1)
			default:
				return t.TableRow.Padding(0, 1)
			}
		})
	for _, r := range rows {
		tbl = tbl.Row(r...)
	}

	// Top border, header, separator, then one line per data row.
	first := 1
	if len(headers) > 0 {
		first = 3
	}
	arrow := t.Highlight.Render(">")

	lines := strings.Split(tbl.String(), "\n")
	for i, line := range lines {
		if selected >= 0 && i == first+selected {
			lines[i] = arrow + " " + line
		} else {
			lines[i] = "  " + line
		}
	}
	return strings.Join(lines, "\n")
}

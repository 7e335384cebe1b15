package watchers

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/grovetools/watchers/pkg/models"
	"github.com/grovetools/watchers/tui/components"
	"github.com/grovetools/watchers/tui/components/table"
	"github.com/grovetools/watchers/tui/theme"
)

var headers = []string{"", "TITLE", "TYPE", "SCHEDULE", "ID"}

// View implements tea.Model.
func (m *Model) View() string {
	if m.help.ShowAll {
		return m.help.View()
	}

	t := theme.DefaultTheme
	clock := t.Clock.Render(fmt.Sprintf("%s %s  UTC %s", theme.IconClock, m.clock.Local(), m.clock.UTC()))
	subtitle := fmt.Sprintf("%d watchers", m.ctrl.Len())
	top := components.RenderStatusBar(components.RenderHeader("Watchers", subtitle), clock, m.width)

	var body string
	switch {
	case m.dialog.Active():
		body = components.Center(m.dialog.View(), m.width, max(m.height-6, 0))
	case m.ctrl.Loading() && m.ctrl.Len() == 0:
		body = m.spinner.View() + " Loading watchers..."
	case m.ctrl.Len() == 0:
		body = t.Muted.Render("No watchers yet. Press n to create one.")
	default:
		body = table.SelectableTable(headers, m.rows(), m.cursor)
	}

	footer := m.help.View()
	if m.choosing {
		footer = t.Highlight.Render("New watcher: ") + "e email · r report · any other key cancels"
	} else if m.ctrl.Loading() && m.ctrl.Len() > 0 {
		footer = m.spinner.View() + " " + footer
	}

	sections := []string{top, "", body}
	if toasts := m.toasts.View(); toasts != "" {
		sections = append(sections, "", toasts)
	}
	sections = append(sections, components.RenderFooter(footer, m.width))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) rows() [][]string {
	t := theme.DefaultTheme
	ws := m.ctrl.Watchers()
	rows := make([][]string, 0, len(ws))
	for _, w := range ws {
		status := t.Enabled.Render(theme.IconEnabled)
		if w.Source.Disable {
			status = t.Disabled.Render(theme.IconDisabled)
		}
		schedule := w.Source.Schedule
		if schedule == "" {
			schedule = "-"
		}
		rows = append(rows, []string{status, w.Source.Title, typeLabel(w.Source.Type), schedule, shortID(w.ID)})
	}
	return rows
}

func typeLabel(t models.WatcherType) string {
	switch t {
	case models.WatcherTypeEmail:
		return theme.IconEmail + " email"
	case models.WatcherTypeReport:
		return theme.IconReport + " report"
	}
	return string(t)
}

func shortID(id string) string {
	id = strings.ReplaceAll(id, "-", "")
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

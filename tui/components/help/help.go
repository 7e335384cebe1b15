// Package help renders the one-line key hint and the full-screen help
// overlay of the watchers TUI.
package help

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	"github.com/grovetools/watchers/tui/keymap"
	"github.com/grovetools/watchers/tui/theme"
)

// KeyMap is what the help model needs from a keymap.
type KeyMap interface {
	keymap.SectionedKeyMap
	ShortHelp() []key.Binding
}

// Model is an embeddable help component.
type Model struct {
	Keys    KeyMap
	ShowAll bool
	Width   int
	Height  int
	Title   string

	viewport viewport.Model
}

// New returns a closed help model.
func New(keys KeyMap) Model {
	vp := viewport.New(0, 0)
	vp.MouseWheelEnabled = false
	return Model{Keys: keys, Title: "Watchers", viewport: vp}
}

// Toggle opens or closes the overlay.
func (m *Model) Toggle() {
	m.ShowAll = !m.ShowAll
	if m.ShowAll {
		m.setViewportContent()
	}
}

// Update resizes the overlay and, while it is open, scrolls it. Any of ?,
// q or esc closes it.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		if m.ShowAll {
			m.setViewportContent()
		}
	case tea.KeyMsg:
		if !m.ShowAll {
			return m, nil
		}
		switch msg.String() {
		case "?", "q", "esc":
			m.Toggle()
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders either the overlay or the short hint line.
func (m Model) View() string {
	t := theme.DefaultTheme
	if m.ShowAll {
		content := m.viewport.View()
		if m.viewport.TotalLineCount() > m.viewport.Height {
			indicator := "↕ more"
			if m.viewport.AtTop() {
				indicator = "↓ more"
			} else if m.viewport.AtBottom() {
				indicator = "↑ more"
			}
			content = lipgloss.JoinVertical(lipgloss.Right, content,
				t.Muted.Width(m.viewport.Width).Align(lipgloss.Right).Render(indicator))
		}
		return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, content)
	}
	return m.viewShort()
}

func (m Model) viewShort() string {
	t := theme.DefaultTheme
	var pairs []string
	for _, b := range m.Keys.ShortHelp() {
		if !b.Enabled() || b.Help().Key == "" {
			continue
		}
		pairs = append(pairs, fmt.Sprintf("%s %s", t.Highlight.Render(b.Help().Key), t.Muted.Render(b.Help().Desc)))
	}
	return strings.Join(pairs, t.Muted.Render(" • "))
}

func (m *Model) setViewportContent() {
	const verticalMargin = 4

	content := m.render()
	m.viewport.SetContent(content)
	m.viewport.Width = lipgloss.Width(content)
	m.viewport.Height = m.Height - verticalMargin - 1
	if m.viewport.Height < 1 {
		m.viewport.Height = lipgloss.Height(content)
	}
}

func (m *Model) render() string {
	t := theme.DefaultTheme
	keyStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Colors.Cyan)

	var blocks []string
	for _, section := range m.Keys.Sections() {
		if section.IsEmpty() {
			continue
		}
		tbl := ltable.New().
			Border(lipgloss.HiddenBorder()).
			StyleFunc(func(row, col int) lipgloss.Style {
				if col == 0 {
					return keyStyle.PaddingRight(2)
				}
				return t.Normal
			})
		for _, b := range section.FilterEnabled() {
			tbl = tbl.Row(b.Help().Key, b.Help().Desc)
		}
		blocks = append(blocks, lipgloss.JoinVertical(lipgloss.Left, t.Accent.Render(section.Name), tbl.String()))
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, interleave(blocks, "    ")...)
	title := t.Highlight.Width(lipgloss.Width(body)).Align(lipgloss.Center).MarginBottom(1).Render(m.Title)
	return t.Box.Render(lipgloss.JoinVertical(lipgloss.Center, title, body))
}

func interleave(blocks []string, gutter string) []string {
	out := make([]string, 0, len(blocks)*2)
	for i, b := range blocks {
		if i > 0 {
			out = append(out, gutter)
		}
		out = append(out, b)
	}
	return out
}

// Package components holds small render helpers shared by the watchers TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/grovetools/watchers/tui/theme"
)

// RenderHeader renders the screen title with an optional muted subtitle.
func RenderHeader(title string, subtitle ...string) string {
	t := theme.DefaultTheme
	header := t.Header.Render(title)
	if len(subtitle) > 0 && subtitle[0] != "" {
		return lipgloss.JoinVertical(lipgloss.Left, header, t.Muted.Render(subtitle[0]))
	}
	return header
}

// RenderFooter renders content centered under a top rule.
func RenderFooter(content string, width int) string {
	c := theme.DefaultTheme.Colors
	return lipgloss.NewStyle().
		Foreground(c.MutedText).
		Width(width).
		Align(lipgloss.Center).
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(c.Border).
		Render(content)
}

// RenderStatusBar puts left and right at opposite ends of a width-wide line.
// When both do not fit only left is shown.
func RenderStatusBar(left, right string, width int) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left
	}
	return left + strings.Repeat(" ", gap) + right
}

// RenderDivider renders a horizontal rule.
func RenderDivider(width int) string {
	if width < 1 {
		return ""
	}
	return lipgloss.NewStyle().
		Foreground(theme.DefaultTheme.Colors.Border).
		Render(strings.Repeat("─", width))
}

// RenderKeyValue renders "key: value" with a muted key.
func RenderKeyValue(key, value string) string {
	return theme.DefaultTheme.Muted.Render(key+":") + " " + value
}

// Center places content in the middle of a width x height area.
func Center(content string, width, height int) string {
	if width <= 0 || height <= 0 {
		return content
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

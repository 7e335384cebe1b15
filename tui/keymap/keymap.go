// Package keymap defines the watcher list keybindings and the helpers used
// to group, override and sequence them.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap holds the list screen bindings. Vim-style navigation takes
// precedence; gg and dd are two-key sequences.
type KeyMap struct {
	// Navigation
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding // gg
	Bottom key.Binding // G

	// Watcher actions
	Play   key.Binding
	Edit   key.Binding
	Wizard key.Binding
	Toggle key.Binding
	Delete key.Binding // dd
	New    key.Binding

	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// Default returns the standard bindings.
func Default() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "down"),
		),
		Top: key.NewBinding(
			key.WithKeys("gg", "home"),
			key.WithHelp("gg", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "bottom"),
		),

		Play: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "play"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e", "enter"),
			key.WithHelp("e", "edit"),
		),
		Wizard: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "wizard"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "t"),
			key.WithHelp("space", "enable/disable"),
		),
		Delete: key.NewBinding(
			key.WithKeys("dd"),
			key.WithHelp("dd", "delete"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new"),
		),

		Refresh: key.NewBinding(
			key.WithKeys("ctrl+r", "r"),
			key.WithHelp("r", "refresh"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Sequences returns the bindings that span more than one key press.
func (k KeyMap) Sequences() []key.Binding {
	return []key.Binding{k.Top, k.Delete}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Play, k.Edit, k.Toggle, k.Delete, k.New, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap, one column per section.
func (k KeyMap) FullHelp() [][]key.Binding {
	sections := k.Sections()
	out := make([][]key.Binding, 0, len(sections))
	for _, s := range sections {
		out = append(out, s.FilterEnabled())
	}
	return out
}

// Sections implements SectionedKeyMap.
func (k KeyMap) Sections() []Section {
	return []Section{
		NavigationSection(k.Up, k.Down, k.Top, k.Bottom),
		ActionsSection(k.Play, k.Edit, k.Wizard, k.Toggle, k.Delete, k.New, k.Refresh),
		SystemSection(k.Help, k.Quit),
	}
}

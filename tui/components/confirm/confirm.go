// Package confirm implements the yes/no dialog used before destructive
// watcher actions.
package confirm

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/grovetools/watchers/pkg/watchlist"
	"github.com/grovetools/watchers/tui/theme"
)

type keyMap struct {
	Yes    key.Binding
	No     key.Binding
	Cancel key.Binding
}

var keys = keyMap{
	Yes:    key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
	No:     key.NewBinding(key.WithKeys("n", "N"), key.WithHelp("n", "no")),
	Cancel: key.NewBinding(key.WithKeys("esc", "q", "ctrl+c"), key.WithHelp("esc", "cancel")),
}

// Dialog queues confirmation requests and shows them one at a time. It
// implements watchlist.Confirmer.
type Dialog struct {
	queue []watchlist.ConfirmRequest
}

// New returns an idle dialog.
func New() *Dialog {
	return &Dialog{}
}

// Confirm implements watchlist.Confirmer. The request is answered when the
// user presses a key while it is at the head of the queue.
func (d *Dialog) Confirm(req watchlist.ConfirmRequest) tea.Cmd {
	d.queue = append(d.queue, req)
	return nil
}

// Active reports whether a request is waiting for an answer.
func (d *Dialog) Active() bool {
	return len(d.queue) > 0
}

// Current returns the request being shown.
func (d *Dialog) Current() (watchlist.ConfirmRequest, bool) {
	if len(d.queue) == 0 {
		return watchlist.ConfirmRequest{}, false
	}
	return d.queue[0], true
}

// Update consumes key presses while active. handled is false when the
// dialog is idle or the key means nothing to it.
func (d *Dialog) Update(msg tea.Msg) (cmd tea.Cmd, handled bool) {
	km, ok := msg.(tea.KeyMsg)
	if !ok || len(d.queue) == 0 {
		return nil, false
	}

	var resp watchlist.Response
	switch {
	case key.Matches(km, keys.Yes):
		resp = watchlist.ResponseYes
	case key.Matches(km, keys.No):
		resp = watchlist.ResponseNo
	case key.Matches(km, keys.Cancel):
		resp = watchlist.ResponseCancel
	default:
		// Swallow other keys so they do not reach the list.
		return nil, true
	}

	req := d.queue[0]
	d.queue = d.queue[1:]
	return func() tea.Msg {
		return watchlist.ConfirmResolvedMsg{RequestID: req.RequestID, Response: resp}
	}, true
}

// View renders the current request, or nothing.
func (d *Dialog) View() string {
	req, ok := d.Current()
	if !ok {
		return ""
	}
	t := theme.DefaultTheme
	body := lipgloss.JoinVertical(lipgloss.Left,
		t.Error.Render(theme.IconTrash+" "+req.Title),
		"",
		req.Message,
		"",
		t.Muted.Render("y yes · n no · esc cancel"),
	)
	return t.Dialog.Render(body)
}

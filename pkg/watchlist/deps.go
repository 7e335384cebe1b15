// Package watchlist keeps the local watcher collection in step with the store
// and turns user actions (play, create, edit, enable/disable, delete) into
// store calls with user-facing feedback.
//
// The controller is driven like a Bubble Tea model. Operations return a
// tea.Cmd that performs the remote call off the event loop; the result comes
// back as a message to Update, which is the only place the collection
// changes. Drive runs the same loop synchronously for the CLI and tests.
package watchlist

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/grovetools/watchers/pkg/models"
)

// Store is the remote watcher store.
type Store interface {
	List(ctx context.Context) ([]models.Watcher, error)
	Play(ctx context.Context, id string) (models.PlayResult, error)
	Save(ctx context.Context, w models.Watcher) (string, error)
	Delete(ctx context.Context, id string) (string, error)
	New(ctx context.Context, t models.WatcherType) (models.Watcher, error)
}

// TemplateProvider lists the templates of one category.
type TemplateProvider interface {
	ListTemplates(ctx context.Context, category models.TemplateCategory) ([]models.Template, error)
}

// Transfer hands data to the editor and wizard screens.
type Transfer interface {
	SetWatcher(w models.Watcher)
	SetTemplates(cache models.TemplateCache)
}

// Notifier shows transient feedback.
type Notifier interface {
	Info(text string)
	Warning(text string)
	Error(err error)
}

// Navigator switches screens.
type Navigator interface {
	Navigate(path string)
}

// Slot is one-shot storage: Take returns the value and clears it.
type Slot interface {
	Take() (value string, ok bool, err error)
}

// Response is the answer to a confirmation request.
type Response int

const (
	ResponseNo Response = iota
	ResponseYes
	ResponseCancel
)

// String returns the lower-case response name.
func (r Response) String() string {
	switch r {
	case ResponseYes:
		return "yes"
	case ResponseCancel:
		return "cancel"
	default:
		return "no"
	}
}

// ConfirmRequest asks the user to approve a destructive action.
type ConfirmRequest struct {
	RequestID int
	Title     string
	Message   string
}

// ConfirmResolvedMsg carries the user's answer back to the controller.
type ConfirmResolvedMsg struct {
	RequestID int
	Response  Response
}

// Confirmer opens a confirmation dialog. The returned command, or a later
// one, must eventually produce a ConfirmResolvedMsg for the request.
type Confirmer interface {
	Confirm(req ConfirmRequest) tea.Cmd
}

// AutoConfirm answers every request with the same response. The CLI uses it
// for --yes.
type AutoConfirm struct {
	Response Response
}

// Confirm implements Confirmer.
func (a AutoConfirm) Confirm(req ConfirmRequest) tea.Cmd {
	return func() tea.Msg {
		return ConfirmResolvedMsg{RequestID: req.RequestID, Response: a.Response}
	}
}

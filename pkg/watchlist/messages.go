package watchlist

import (
	"github.com/grovetools/watchers/pkg/models"
)

// LoadedMsg is the result of LoadAll.
type LoadedMsg struct {
	Watchers []models.Watcher
	Err      error
}

// PlayedMsg is the result of Play.
type PlayedMsg struct {
	ID     string
	Title  string
	Result models.PlayResult
	Err    error
}

// SavedMsg is the result of SaveWatcher. Snapshot is the watcher as it was
// sent.
type SavedMsg struct {
	ID       string
	Snapshot models.Watcher
	Err      error
}

// DeletedMsg is the result of the remote half of Delete.
type DeletedMsg struct {
	RequestID int
	Err       error
}

// CreatedMsg is the result of Create.
type CreatedMsg struct {
	Watcher models.Watcher
	Err     error
}

// TemplatesLoadedMsg is the result of a template load.
type TemplatesLoadedMsg struct {
	Cache models.TemplateCache
	Err   error
}

// ImportMsg is what the import bridge found in its slot.
type ImportMsg struct {
	Watcher models.Watcher
	Present bool
	Err     error
}

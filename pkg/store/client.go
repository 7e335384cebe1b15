// Package store provides the client the watchers CLI and TUI use to reach
// the watcher store. It implements a transparent fallback: if the daemon is
// running, talk to it over its unix socket; if not, open the database
// in-process.
package store

import (
	"context"
	"time"

	"github.com/grovetools/watchers/pkg/models"
)

// Client is the watcher store as seen by the screen controller.
// Both RemoteClient (daemon) and LocalClient (in-process) implement it.
type Client interface {
	// List returns every watcher in store order.
	List(ctx context.Context) ([]models.Watcher, error)

	// Get returns a single watcher.
	Get(ctx context.Context, id string) (models.Watcher, error)

	// Play runs a watcher once. A non-empty Message is a diagnostic.
	Play(ctx context.Context, id string) (models.PlayResult, error)

	// Save persists a watcher and returns the id the store keeps it under.
	Save(ctx context.Context, w models.Watcher) (string, error)

	// Delete removes a watcher and returns the deleted id.
	Delete(ctx context.Context, id string) (string, error)

	// New returns an unsaved scaffold of the given type.
	New(ctx context.Context, t models.WatcherType) (models.Watcher, error)

	// ListTemplates returns the templates of one category.
	ListTemplates(ctx context.Context, category models.TemplateCategory) ([]models.Template, error)

	// SaveTemplate adds or replaces a template.
	SaveTemplate(ctx context.Context, t models.Template) error

	// Watch streams change events until ctx is cancelled. The channel is
	// closed when the stream ends.
	Watch(ctx context.Context) (<-chan models.Event, error)

	// CurrentTime returns the store's notion of now, used to seed the clock.
	CurrentTime(ctx context.Context) (time.Time, error)

	// IsRunning returns true if the store is reachable.
	IsRunning() bool

	// Close cleans up any resources used by the client.
	Close() error
}

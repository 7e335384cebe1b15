package store

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/grovetools/watchers/internal/daemon/engine"
	dbstore "github.com/grovetools/watchers/internal/daemon/store"
	"github.com/grovetools/watchers/pkg/models"
	"github.com/sirupsen/logrus"
)

// LocalClient implements Client by opening the sqlite store in-process.
// It is used when the daemon is not running.
type LocalClient struct {
	path   string
	store  *dbstore.Store
	engine *engine.Engine
	logger *logrus.Entry

	// debounce collapses the burst of fsnotify events one sqlite write makes.
	debounce time.Duration
}

// NewLocalClient opens the database at path.
func NewLocalClient(ctx context.Context, path string, logger *logrus.Entry) (*LocalClient, error) {
	st, err := dbstore.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	return &LocalClient{
		path:     path,
		store:    st,
		engine:   engine.New(st, logger),
		logger:   logger,
		debounce: 100 * time.Millisecond,
	}, nil
}

// List returns every watcher in store order.
func (c *LocalClient) List(ctx context.Context) ([]models.Watcher, error) {
	return c.store.List(ctx)
}

// Get returns a single watcher.
func (c *LocalClient) Get(ctx context.Context, id string) (models.Watcher, error) {
	return c.store.Get(ctx, id)
}

// Play runs a watcher once.
func (c *LocalClient) Play(ctx context.Context, id string) (models.PlayResult, error) {
	return c.engine.Play(ctx, id)
}

// Save persists a watcher.
func (c *LocalClient) Save(ctx context.Context, w models.Watcher) (string, error) {
	return c.store.Save(ctx, w)
}

// Delete removes a watcher.
func (c *LocalClient) Delete(ctx context.Context, id string) (string, error) {
	return c.store.Delete(ctx, id)
}

// New returns an unsaved scaffold of the given type.
func (c *LocalClient) New(ctx context.Context, t models.WatcherType) (models.Watcher, error) {
	return c.store.Scaffold(t), nil
}

// ListTemplates returns the templates of one category.
func (c *LocalClient) ListTemplates(ctx context.Context, category models.TemplateCategory) ([]models.Template, error) {
	return c.store.ListTemplates(ctx, category)
}

// SaveTemplate adds or replaces a template.
func (c *LocalClient) SaveTemplate(ctx context.Context, t models.Template) error {
	return c.store.SaveTemplate(ctx, t)
}

// CurrentTime returns the local clock; there is no remote authority.
func (c *LocalClient) CurrentTime(ctx context.Context) (time.Time, error) {
	return time.Now(), nil
}

// IsRunning is always true once the database is open.
func (c *LocalClient) IsRunning() bool {
	return true
}

// Watch merges in-process store events with filesystem events on the
// database, so writes from other processes (a second CLI, the daemon) are
// seen too.
func (c *LocalClient) Watch(ctx context.Context) (<-chan models.Event, error) {
	out := make(chan models.Event, 10)
	sub := c.store.Subscribe()

	var fsEvents <-chan models.Event
	if c.path != ":memory:" {
		ch, err := c.watchFile(ctx)
		if err != nil {
			c.store.Unsubscribe(sub)
			return nil, err
		}
		fsEvents = ch
	}

	go func() {
		defer close(out)
		defer c.store.Unsubscribe(sub)

		for {
			var (
				event models.Event
				ok    bool
			)
			select {
			case <-ctx.Done():
				return
			case event, ok = <-sub:
				if !ok {
					return
				}
			case event, ok = <-fsEvents:
				if !ok {
					fsEvents = nil
					continue
				}
			}

			select {
			case out <- event:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

// watchFile reports debounced writes to the database file and its WAL.
func (c *LocalClient) watchFile(ctx context.Context) (<-chan models.Event, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(c.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	base := filepath.Base(c.path)
	ch := make(chan models.Event, 1)

	go func() {
		defer close(ch)
		defer watcher.Close()

		var lastChange time.Time
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !strings.HasPrefix(filepath.Base(event.Name), base) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}

				if time.Since(lastChange) < c.debounce {
					continue
				}
				lastChange = time.Now()

				c.logger.WithField("file", filepath.Base(event.Name)).Debug("Database changed on disk")
				select {
				case ch <- models.Event{Type: models.EventStoreChanged, Source: "fsnotify", Timestamp: time.Now()}:
				default:
					// One pending notice is enough; the reader reloads everything.
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				c.logger.WithError(err).Warn("Database watcher error")
			}
		}
	}()

	return ch, nil
}

// Close closes the database.
func (c *LocalClient) Close() error {
	return c.store.Close()
}

// Ensure LocalClient implements Client interface.
var _ Client = (*LocalClient)(nil)

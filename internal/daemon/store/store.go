package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/grovetools/watchers/errors"
	"github.com/grovetools/watchers/pkg/models"

	_ "modernc.org/sqlite"
)

// Store persists watchers in insertion order and templates by category.
// It is safe for concurrent use and supports pub/sub for change events.
type Store struct {
	db  *sql.DB
	now func() time.Time

	mu          sync.RWMutex
	subscribers map[chan Update]struct{}
}

// Open opens (creating if needed) the sqlite database at path. ":memory:" is
// accepted for tests.
func Open(ctx context.Context, path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, errors.StoreUnavailable(path, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.StoreUnavailable(path, err)
	}
	if path == ":memory:" {
		// Each pooled connection would get its own empty in-memory database.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.StoreUnavailable(path, err)
	}

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, errors.StoreUnavailable(path, fmt.Errorf("%s: %w", pragma, err))
		}
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, errors.StoreUnavailable(path, fmt.Errorf("migrate: %w", err))
	}

	return &Store{
		db:          db,
		now:         time.Now,
		subscribers: make(map[chan Update]struct{}),
	}, nil
}

// Close closes the database. Subscribers are left to their owners.
func (s *Store) Close() error {
	return s.db.Close()
}

// List returns every watcher in insertion order.
func (s *Store) List(ctx context.Context) ([]models.Watcher, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, source FROM watchers ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list watchers: %w", err)
	}
	defer rows.Close()

	watchers := make([]models.Watcher, 0)
	for rows.Next() {
		w, err := scanWatcher(rows)
		if err != nil {
			return nil, err
		}
		watchers = append(watchers, w)
	}
	return watchers, rows.Err()
}

// Get returns one watcher or a WATCHER_NOT_FOUND error.
func (s *Store) Get(ctx context.Context, id string) (models.Watcher, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, source FROM watchers WHERE id = ?`, id)
	w, err := scanWatcher(row)
	if err == sql.ErrNoRows {
		return models.Watcher{}, errors.WatcherNotFound(id)
	}
	return w, err
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanWatcher(row scanner) (models.Watcher, error) {
	var (
		w      models.Watcher
		source models.JSONColumn[models.WatcherSource]
	)
	if err := row.Scan(&w.ID, &source); err != nil {
		return models.Watcher{}, err
	}
	w.Source = source.Data
	return w, nil
}

// Save inserts or updates a watcher and returns its id. An empty id is
// assigned a new UUID. Updates keep the watcher's position.
func (s *Store) Save(ctx context.Context, w models.Watcher) (string, error) {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}

	now := s.now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO watchers (id, source, created_at, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET source = excluded.source, updated_at = excluded.updated_at`,
		w.ID, models.JSONColumn[models.WatcherSource]{Data: w.Source}, now, now)
	if err != nil {
		return "", fmt.Errorf("save watcher %s: %w", w.ID, err)
	}

	s.broadcast(models.EventWatcherSaved, w.ID)
	return w.ID, nil
}

// Delete removes a watcher and returns its id.
func (s *Store) Delete(ctx context.Context, id string) (string, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM watchers WHERE id = ?`, id)
	if err != nil {
		return "", fmt.Errorf("delete watcher %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return "", errors.WatcherNotFound(id)
	}

	s.broadcast(models.EventWatcherDeleted, id)
	return id, nil
}

// Scaffold returns an unsaved watcher of the given type with a fresh id.
func (s *Store) Scaffold(t models.WatcherType) models.Watcher {
	w := models.Watcher{
		ID: uuid.NewString(),
		Source: models.WatcherSource{
			Title:    fmt.Sprintf("New %s watcher", t),
			Disable:  true,
			Type:     t,
			Schedule: "every 5 minutes",
			Input:    map[string]interface{}{},
			Actions:  map[string]interface{}{},
		},
	}
	switch t {
	case models.WatcherTypeEmail:
		w.Source.Actions["email"] = map[string]interface{}{"to": "", "subject": w.Source.Title}
	case models.WatcherTypeReport:
		w.Source.Actions["report"] = map[string]interface{}{"to": "", "url": ""}
	}
	return w
}

// ListTemplates returns the templates of one category ordered by id.
func (s *Store) ListTemplates(ctx context.Context, category models.TemplateCategory) ([]models.Template, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, payload FROM templates WHERE category = ? ORDER BY id`, string(category))
	if err != nil {
		return nil, fmt.Errorf("list %s templates: %w", category, err)
	}
	defer rows.Close()

	templates := make([]models.Template, 0)
	for rows.Next() {
		t := models.Template{Category: category}
		var payload models.JSONColumn[map[string]interface{}]
		if err := rows.Scan(&t.ID, &t.Title, &payload); err != nil {
			return nil, fmt.Errorf("decode template %s/%s: %w", category, t.ID, err)
		}
		t.Payload = payload.Data
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

// SaveTemplate upserts a template.
func (s *Store) SaveTemplate(ctx context.Context, t models.Template) error {
	if _, err := models.ParseTemplateCategory(string(t.Category)); err != nil {
		return errors.InvalidInput("category", err.Error())
	}
	if t.ID == "" {
		return errors.InvalidInput("id", "template id is required")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO templates (category, id, title, payload) VALUES (?, ?, ?, ?)
		ON CONFLICT(category, id) DO UPDATE SET title = excluded.title, payload = excluded.payload`,
		string(t.Category), t.ID, t.Title, models.JSONColumn[map[string]interface{}]{Data: t.Payload})
	if err != nil {
		return fmt.Errorf("save template %s/%s: %w", t.Category, t.ID, err)
	}

	s.broadcast(models.EventTemplateSaved, "")
	return nil
}

// Publish broadcasts an event that did not come from a store write, such as
// a play.
func (s *Store) Publish(eventType models.EventType, watcherID string) {
	s.broadcast(eventType, watcherID)
}

func (s *Store) broadcast(eventType models.EventType, watcherID string) {
	update := Update{
		Type:      eventType,
		WatcherID: watcherID,
		Source:    "store",
		Timestamp: s.now(),
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for ch := range s.subscribers {
		select {
		case ch <- update:
		default:
			// Non-blocking send to prevent slow clients from stalling writers
		}
	}
}

// Subscribe creates a new subscription channel for change events.
func (s *Store) Subscribe() chan Update {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan Update, 100)
	s.subscribers[ch] = struct{}{}
	return ch
}

// Unsubscribe removes a subscription and closes its channel.
func (s *Store) Unsubscribe(ch chan Update) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subscribers[ch]; !ok {
		return
	}
	delete(s.subscribers, ch)
	close(ch)
}

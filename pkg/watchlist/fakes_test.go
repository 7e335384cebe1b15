package watchlist

import (
	"context"
	"fmt"
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/grovetools/watchers/errors"
	"github.com/grovetools/watchers/pkg/models"
)

type fakeStore struct {
	mu       sync.Mutex
	watchers []models.Watcher
	listErr  error
	playRes  models.PlayResult
	playErr  error
	saveErr  error
	delErr   error
	newErr   error

	lists   int
	plays   []string
	saves   []models.Watcher
	deletes []string
	news    []models.WatcherType
}

func (s *fakeStore) List(ctx context.Context) ([]models.Watcher, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists++
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]models.Watcher, len(s.watchers))
	for i, w := range s.watchers {
		out[i] = w.Clone()
	}
	return out, nil
}

func (s *fakeStore) Play(ctx context.Context, id string) (models.PlayResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plays = append(s.plays, id)
	return s.playRes, s.playErr
}

func (s *fakeStore) Save(ctx context.Context, w models.Watcher) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves = append(s.saves, w.Clone())
	if s.saveErr != nil {
		return "", s.saveErr
	}
	return w.ID, nil
}

func (s *fakeStore) Delete(ctx context.Context, id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes = append(s.deletes, id)
	if s.delErr != nil {
		return "", s.delErr
	}
	return id, nil
}

func (s *fakeStore) New(ctx context.Context, t models.WatcherType) (models.Watcher, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.news = append(s.news, t)
	if s.newErr != nil {
		return models.Watcher{}, s.newErr
	}
	return models.Watcher{ID: "scaffold-1", Source: models.WatcherSource{Type: t, Disable: true}}, nil
}

type fakeTemplates struct {
	mu     sync.Mutex
	byCat  map[models.TemplateCategory][]models.Template
	errCat models.TemplateCategory
	calls  int
}

func (f *fakeTemplates) ListTemplates(ctx context.Context, category models.TemplateCategory) ([]models.Template, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if category == f.errCat {
		return nil, errors.RemoteFailure("list templates", fmt.Errorf("boom"))
	}
	return f.byCat[category], nil
}

type fakeTransfer struct {
	mu        sync.Mutex
	watchers  []models.Watcher
	templates []models.TemplateCache
}

func (t *fakeTransfer) SetWatcher(w models.Watcher) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.watchers = append(t.watchers, w)
}

func (t *fakeTransfer) SetTemplates(cache models.TemplateCache) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.templates = append(t.templates, cache)
}

type fakeNotifier struct {
	infos    []string
	warnings []string
	errs     []error
}

func (n *fakeNotifier) Info(text string)    { n.infos = append(n.infos, text) }
func (n *fakeNotifier) Warning(text string) { n.warnings = append(n.warnings, text) }
func (n *fakeNotifier) Error(err error)     { n.errs = append(n.errs, err) }

type fakeNav struct {
	paths []string
}

func (n *fakeNav) Navigate(path string) { n.paths = append(n.paths, path) }

// heldConfirm records requests and resolves nothing on its own.
type heldConfirm struct {
	requests []ConfirmRequest
}

func (h *heldConfirm) Confirm(req ConfirmRequest) tea.Cmd {
	h.requests = append(h.requests, req)
	return nil
}

type memSlot struct {
	value string
	set   bool
	err   error
	takes int
}

func (m *memSlot) Key() string { return "saved_query" }

func (m *memSlot) Take() (string, bool, error) {
	m.takes++
	if m.err != nil {
		return "", false, m.err
	}
	v, ok := m.value, m.set
	m.value, m.set = "", false
	return v, ok, nil
}

type harness struct {
	store    *fakeStore
	tmpl     *fakeTemplates
	transfer *fakeTransfer
	notifier *fakeNotifier
	nav      *fakeNav
	confirm  Confirmer
	slot     *memSlot
}

func newHarness(watchers ...models.Watcher) *harness {
	return &harness{
		store:    &fakeStore{watchers: watchers},
		tmpl:     &fakeTemplates{byCat: map[models.TemplateCategory][]models.Template{}},
		transfer: &fakeTransfer{},
		notifier: &fakeNotifier{},
		nav:      &fakeNav{},
		confirm:  AutoConfirm{Response: ResponseYes},
		slot:     &memSlot{},
	}
}

func (h *harness) controller(opts ...Option) *Controller {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	opts = append([]Option{WithLogger(logrus.NewEntry(logger))}, opts...)
	return New(Deps{
		Store:     h.store,
		Templates: h.tmpl,
		Transfer:  h.transfer,
		Notifier:  h.notifier,
		Navigator: h.nav,
		Confirmer: h.confirm,
		Import:    h.slot,
	}, opts...)
}

// loaded returns a controller that has completed one LoadAll.
func (h *harness) loaded(opts ...Option) *Controller {
	c := h.controller(opts...)
	Drive(c, c.LoadAll())
	return c
}

func watcher(id, title string, disabled bool) models.Watcher {
	return models.Watcher{ID: id, Source: models.WatcherSource{Title: title, Disable: disabled, Type: models.WatcherTypeEmail}}
}

func resolve(req int, r Response) tea.Cmd {
	return func() tea.Msg { return ConfirmResolvedMsg{RequestID: req, Response: r} }
}

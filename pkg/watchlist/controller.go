package watchlist

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/grovetools/watchers/errors"
	"github.com/grovetools/watchers/logging"
	"github.com/grovetools/watchers/pkg/models"
	"github.com/grovetools/watchers/pkg/nav"
)

// DefaultTimeout bounds every store call made by the controller.
const DefaultTimeout = 10 * time.Second

// echoWindow is how long after its own write the controller treats an
// anonymous store change as an echo.
const echoWindow = 500 * time.Millisecond

// EditMode picks the screen an entity is opened in.
type EditMode int

const (
	ModeEditor EditMode = iota
	ModeWizard
)

// EditRef names what to edit: a full entity or only its id.
type EditRef struct {
	watcher *models.Watcher
	id      string
}

// ByEntity edits w, which is handed to the editor through the transfer channel.
func ByEntity(w models.Watcher) EditRef {
	clone := w.Clone()
	return EditRef{watcher: &clone}
}

// ByID edits the watcher with id; the editor fetches it itself.
func ByID(id string) EditRef {
	return EditRef{id: id}
}

// Deps are the collaborators a Controller talks to. Store, Transfer,
// Notifier, Navigator and Confirmer are required.
type Deps struct {
	Store     Store
	Templates TemplateProvider
	Transfer  Transfer
	Notifier  Notifier
	Navigator Navigator
	Confirmer Confirmer
	// Import is optional. When set it is consumed once after every load.
	Import Slot
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger replaces the default component logger.
func WithLogger(logger *logrus.Entry) Option {
	return func(c *Controller) { c.logger = logger }
}

// WithTimeout sets the per-call store timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithClock replaces time.Now for echo bookkeeping.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// Controller owns the watcher collection of the list screen.
type Controller struct {
	deps       Deps
	logger     *logrus.Entry
	timeout    time.Duration
	now        func() time.Time
	collection *Collection
	templates  *TemplateLoader
	importer   *ImportBridge

	ctx    context.Context
	cancel context.CancelFunc
	closed bool

	loading   bool
	loads     int
	nextReq   int
	deletes   map[int]*deleteOp
	lastPhase DeletePhase

	echoes     map[string]int
	lastWrite  time.Time
	lastCreate time.Time
}

// New builds a controller. Nothing is loaded until LoadAll runs.
func New(deps Deps, opts ...Option) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		deps:       deps,
		logger:     logging.NewLogger("watchlist"),
		timeout:    DefaultTimeout,
		now:        time.Now,
		collection: NewCollection(),
		ctx:        ctx,
		cancel:     cancel,
		deletes:    make(map[int]*deleteOp),
		echoes:     make(map[string]int),
	}
	for _, opt := range opts {
		opt(c)
	}
	if deps.Templates != nil {
		c.templates = NewTemplateLoader(deps.Templates, nil, c.logger)
	}
	if deps.Import != nil {
		c.importer = NewImportBridge(deps.Import, deps.Transfer, deps.Navigator)
	}
	return c
}

// Init loads the collection and the template cache.
func (c *Controller) Init() tea.Cmd {
	return tea.Batch(c.LoadAll(), c.LoadTemplates())
}

// Watchers returns a copy of the collection in store order.
func (c *Controller) Watchers() []models.Watcher {
	return c.collection.All()
}

// Watcher returns a copy of one watcher.
func (c *Controller) Watcher(id string) (models.Watcher, bool) {
	w, ok := c.collection.Get(id)
	if !ok {
		return models.Watcher{}, false
	}
	return w.Clone(), true
}

// Len returns the collection size.
func (c *Controller) Len() int {
	return c.collection.Len()
}

// Loading reports whether a LoadAll is in flight.
func (c *Controller) Loading() bool {
	return c.loading
}

// Loads returns how many loads have completed.
func (c *Controller) Loads() int {
	return c.loads
}

// Closed reports whether Close was called.
func (c *Controller) Closed() bool {
	return c.closed
}

// Close detaches the controller. In-flight calls are cancelled and any
// result that still arrives is ignored.
func (c *Controller) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.cancel()
	c.logger.Debug("Controller closed")
}

// LoadAll replaces the collection with the store's list. After the load
// settles, successful or not, the import slot is consumed once.
func (c *Controller) LoadAll() tea.Cmd {
	if c.closed {
		return nil
	}
	c.loading = true
	store := c.deps.Store
	return c.call(func(ctx context.Context) tea.Msg {
		watchers, err := store.List(ctx)
		return LoadedMsg{Watchers: watchers, Err: err}
	})
}

// LoadTemplates fills the template cache. The cache reaches the transfer
// channel when the result is applied and every category loaded.
func (c *Controller) LoadTemplates() tea.Cmd {
	if c.closed || c.templates == nil {
		return nil
	}
	loader := c.templates
	return c.call(func(ctx context.Context) tea.Msg {
		cache, err := loader.Load(ctx)
		return TemplatesLoadedMsg{Cache: cache, Err: err}
	})
}

// Play runs w once on the store. The title shown in the result notification
// is the one w had when Play was called.
func (c *Controller) Play(w models.Watcher) tea.Cmd {
	if c.closed {
		return nil
	}
	id, title := w.ID, w.Source.Title
	store := c.deps.Store
	c.markWrite("")
	c.logger.WithField("watcher_id", id).Debug("Playing watcher")
	return c.call(func(ctx context.Context) tea.Msg {
		res, err := store.Play(ctx, id)
		return PlayedMsg{ID: id, Title: title, Result: res, Err: err}
	})
}

// PlayByID plays the watcher with id from the collection.
func (c *Controller) PlayByID(id string) tea.Cmd {
	w, ok := c.collection.Get(id)
	if !ok {
		c.deps.Notifier.Error(errors.WatcherNotFound(id))
		return nil
	}
	return c.Play(*w)
}

// Edit navigates to the editor or wizard. An entity is staged in the
// transfer channel first; an id goes into the path.
func (c *Controller) Edit(ref EditRef, mode EditMode) {
	if c.closed {
		return
	}
	if ref.watcher == nil {
		if mode == ModeWizard {
			c.deps.Navigator.Navigate(nav.WizardFor(ref.id))
			return
		}
		c.deps.Navigator.Navigate(nav.EditorFor(ref.id))
		return
	}
	c.deps.Transfer.SetWatcher(*ref.watcher)
	if mode == ModeWizard {
		c.deps.Navigator.Navigate(nav.WizardPath)
		return
	}
	c.deps.Navigator.Navigate(nav.EditorPath)
}

// Toggle flips the disable flag locally and saves. A failed save leaves the
// flipped flag in place.
func (c *Controller) Toggle(id string) tea.Cmd {
	if c.closed {
		return nil
	}
	w, ok := c.collection.Get(id)
	if !ok {
		c.deps.Notifier.Error(errors.WatcherNotFound(id))
		return nil
	}
	w.Source.Disable = !w.Source.Disable
	return c.SaveWatcher(id)
}

// SaveWatcher sends a snapshot of the watcher to the store. On success the
// notification uses the title and status the entity has by then.
func (c *Controller) SaveWatcher(id string) tea.Cmd {
	if c.closed {
		return nil
	}
	w, ok := c.collection.Get(id)
	if !ok {
		c.deps.Notifier.Error(errors.WatcherNotFound(id))
		return nil
	}
	snapshot := w.Clone()
	store := c.deps.Store
	c.markWrite(id)
	return c.call(func(ctx context.Context) tea.Msg {
		returned, err := store.Save(ctx, snapshot)
		if returned == "" {
			returned = snapshot.ID
		}
		return SavedMsg{ID: returned, Snapshot: snapshot, Err: err}
	})
}

// Create asks the store for a scaffold of type t and opens it in the editor.
func (c *Controller) Create(t models.WatcherType) tea.Cmd {
	if c.closed {
		return nil
	}
	store := c.deps.Store
	return c.call(func(ctx context.Context) tea.Msg {
		w, err := store.New(ctx, t)
		return CreatedMsg{Watcher: w, Err: err}
	})
}

// ExternalChange reports whether ev should trigger a reload, i.e. it was
// not caused by this controller's own writes.
func (c *Controller) ExternalChange(ev models.Event) bool {
	switch ev.Type {
	case models.EventWatcherPlayed, models.EventTemplateSaved:
		return false
	}
	if ev.WatcherID != "" {
		if n := c.echoes[ev.WatcherID]; n > 0 {
			c.forgetEcho(ev.WatcherID)
			return false
		}
		if _, known := c.collection.Get(ev.WatcherID); !known && ev.Type == models.EventWatcherSaved &&
			c.now().Sub(c.lastCreate) <= echoWindow {
			c.lastCreate = time.Time{}
			return false
		}
		return true
	}
	return c.now().Sub(c.lastWrite) > echoWindow
}

// Update applies a result message. It returns follow-up work, if any.
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	if c.closed {
		return nil
	}

	switch msg := msg.(type) {
	case LoadedMsg:
		return c.handleLoaded(msg)

	case TemplatesLoadedMsg:
		if msg.Err != nil {
			c.deps.Notifier.Error(msg.Err)
			return nil
		}
		if c.deps.Transfer != nil {
			c.deps.Transfer.SetTemplates(msg.Cache)
		}
		return nil

	case PlayedMsg:
		switch {
		case msg.Err != nil:
			c.deps.Notifier.Error(msg.Err)
		case msg.Result.Message != "":
			c.deps.Notifier.Warning(msg.Result.Message)
		default:
			c.deps.Notifier.Info(fmt.Sprintf("Executed watcher %q", msg.Title))
		}
		return nil

	case SavedMsg:
		return c.handleSaved(msg)

	case CreatedMsg:
		if msg.Err != nil {
			c.deps.Notifier.Error(msg.Err)
			return nil
		}
		c.Edit(ByEntity(msg.Watcher), ModeEditor)
		return nil

	case ConfirmResolvedMsg:
		return c.handleConfirm(msg)

	case DeletedMsg:
		return c.handleDeleted(msg)
	}
	return nil
}

func (c *Controller) handleLoaded(msg LoadedMsg) tea.Cmd {
	c.loading = false
	c.loads++
	if msg.Err != nil {
		c.logger.WithError(msg.Err).Warn("Failed to load watchers")
		c.deps.Notifier.Error(msg.Err)
	} else {
		if dropped := c.collection.Replace(msg.Watchers); dropped > 0 {
			c.logger.WithField("dropped", dropped).Warn("Store returned duplicate watcher ids")
		}
		c.logger.WithField("count", c.collection.Len()).Debug("Watchers loaded")
	}
	if c.importer == nil {
		return nil
	}
	// The slot is taken here rather than in a command so that a load
	// dropped after Close leaves it for the next screen.
	if err := c.importer.Run(); err != nil {
		c.deps.Notifier.Error(err)
	}
	return nil
}

func (c *Controller) handleSaved(msg SavedMsg) tea.Cmd {
	if msg.Err != nil {
		c.forgetEcho(msg.Snapshot.ID)
		c.deps.Notifier.Error(msg.Err)
		return nil
	}
	current := msg.Snapshot
	if w, ok := c.collection.Get(msg.ID); ok {
		current = *w
	}
	c.deps.Notifier.Info(fmt.Sprintf("%s watcher %q", current.Status(), current.Source.Title))
	return nil
}

// call runs fn off the loop with a bounded context derived from the
// controller's lifetime.
func (c *Controller) call(fn func(ctx context.Context) tea.Msg) tea.Cmd {
	parent, timeout := c.ctx, c.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, timeout)
		defer cancel()
		return fn(ctx)
	}
}

// ExpectWrite records a save of id made outside the controller, so the
// store event it causes is not taken for an external change. An empty id
// stands for a watcher the store has not numbered yet.
func (c *Controller) ExpectWrite(id string) {
	if id == "" {
		c.lastCreate = c.now()
	}
	c.markWrite(id)
}

// CancelWrite drops what ExpectWrite recorded for a save that failed.
func (c *Controller) CancelWrite(id string) {
	if id == "" {
		c.lastCreate = time.Time{}
		return
	}
	c.forgetEcho(id)
}

func (c *Controller) markWrite(id string) {
	c.lastWrite = c.now()
	if id != "" {
		c.echoes[id]++
	}
}

func (c *Controller) forgetEcho(id string) {
	if n := c.echoes[id]; n > 1 {
		c.echoes[id] = n - 1
		return
	}
	delete(c.echoes, id)
}

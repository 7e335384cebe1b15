// Package watchers is the interactive watcher list screen.
package watchers

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/grovetools/watchers/config"
	"github.com/grovetools/watchers/logging"
	"github.com/grovetools/watchers/pkg/models"
	"github.com/grovetools/watchers/pkg/nav"
	"github.com/grovetools/watchers/pkg/store"
	"github.com/grovetools/watchers/pkg/transfer"
	"github.com/grovetools/watchers/pkg/watchlist"
	"github.com/grovetools/watchers/state"
	"github.com/grovetools/watchers/tui"
	"github.com/grovetools/watchers/tui/components/confirm"
	"github.com/grovetools/watchers/tui/components/help"
	"github.com/grovetools/watchers/tui/components/notify"
	"github.com/grovetools/watchers/tui/keymap"
	"github.com/grovetools/watchers/tui/theme"
)

// Model is the list screen. It owns one watchlist.Controller and routes
// its navigation requests to an external editor.
type Model struct {
	client   store.Client
	cfg      *config.Config
	logger   *logrus.Entry
	ctrl     *watchlist.Controller
	transfer *transfer.Channel
	router   *nav.Router
	toasts   *notify.Stack
	dialog   *confirm.Dialog
	clock    *watchlist.Clock
	spinner  spinner.Model
	help     help.Model
	keys     keymap.KeyMap
	seq      *keymap.SequenceState

	ctx    context.Context
	cancel context.CancelFunc

	cursor     int
	width      int
	height     int
	choosing   bool
	pending    *nav.Route
	editorArgs []string
}

// Option configures a Model.
type Option func(*Model)

// WithImportSlot consumes slot after every load instead of the state file's
// import slot.
func WithImportSlot(slot watchlist.Slot) Option {
	return func(m *Model) { m.ctrl = m.newController(slot) }
}

// WithEditor overrides the editor command line.
func WithEditor(args ...string) Option {
	return func(m *Model) { m.editorArgs = args }
}

// New builds the screen for client.
func New(client store.Client, cfg *config.Config, opts ...Option) *Model {
	ctx, cancel := context.WithCancel(context.Background())
	logger := logging.NewLogger("tui")

	keys := keymap.Default()
	keymap.ApplyOverrides(&keys, cfg.TUI.Keys)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.DefaultTheme.Info

	m := &Model{
		client:     client,
		cfg:        cfg,
		logger:     logger,
		transfer:   transfer.New(),
		router:     nav.NewRouter(),
		toasts:     notify.New(cfg.NotificationDuration(), logger),
		dialog:     confirm.New(),
		clock:      watchlist.NewClock(cfg.ClockLocation()),
		spinner:    sp,
		help:       help.New(keys),
		keys:       keys,
		seq:        keymap.NewSequenceState(),
		ctx:        ctx,
		cancel:     cancel,
		editorArgs: editorCommand(),
	}
	onRoute := func(r nav.Route) { m.pending = &r }
	m.router.Handle(nav.EditorPath, onRoute)
	m.router.Handle(nav.WizardPath, onRoute)

	m.ctrl = m.newController(state.ImportSlot())
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Model) newController(slot watchlist.Slot) *watchlist.Controller {
	return watchlist.New(watchlist.Deps{
		Store:     m.client,
		Templates: m.client,
		Transfer:  m.transfer,
		Notifier:  m.toasts,
		Navigator: m.router,
		Confirmer: m.dialog,
		Import:    slot,
	}, watchlist.WithTimeout(m.cfg.StoreTimeout()), watchlist.WithLogger(m.logger))
}

// Controller exposes the list controller.
func (m *Model) Controller() *watchlist.Controller {
	return m.ctrl
}

// Init loads watchers and templates, seeds the clock and subscribes to
// store changes.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.ctrl.Init(),
		m.clock.Seed(m.client.CurrentTime, m.cfg.StoreTimeout()),
		m.spinner.Tick,
		m.subscribe(),
	)
}

// Run shows the screen until the user quits. Terminal logging is muted
// while the alternate screen is active.
func Run(ctx context.Context, client store.Client, cfg *config.Config, opts ...Option) error {
	tui.InitializeTUI()
	logging.SetGlobalOutput(io.Discard)
	defer logging.SetGlobalOutput(os.Stderr)

	m := New(client, cfg, opts...)
	defer m.shutdown()

	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

func (m *Model) shutdown() {
	m.ctrl.Close()
	m.clock.Stop()
	m.cancel()
}

func (m *Model) selected() (models.Watcher, bool) {
	ws := m.ctrl.Watchers()
	if m.cursor < 0 || m.cursor >= len(ws) {
		return models.Watcher{}, false
	}
	return ws[m.cursor], true
}

func (m *Model) clampCursor() {
	n := m.ctrl.Len()
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

type storeEventMsg struct {
	event models.Event
	ch    <-chan models.Event
}

type eventsClosedMsg struct{}

func (m *Model) subscribe() tea.Cmd {
	ctx, client, logger := m.ctx, m.client, m.logger
	return func() tea.Msg {
		ch, err := client.Watch(ctx)
		if err != nil {
			logger.WithError(err).Warn("Store change stream unavailable")
			return eventsClosedMsg{}
		}
		return nextEvent(ch)()
	}
}

func nextEvent(ch <-chan models.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return eventsClosedMsg{}
		}
		return storeEventMsg{event: ev, ch: ch}
	}
}

// refresh reloads the list and restarts the spinner.
func (m *Model) refresh() tea.Cmd {
	return tea.Batch(m.ctrl.LoadAll(), m.spinner.Tick)
}

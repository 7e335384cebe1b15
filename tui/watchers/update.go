package watchers

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/grovetools/watchers/pkg/models"
	"github.com/grovetools/watchers/pkg/watchlist"
	"github.com/grovetools/watchers/tui/keymap"
)

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	m.clampCursor()
	if m.pending != nil {
		route := *m.pending
		m.pending = nil
		cmd = tea.Batch(cmd, m.openRoute(route))
	}
	return m, cmd
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help, _ = m.help.Update(msg)
		return nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.ctrl.Loading() {
			return nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd

	case watchlist.ClockTickMsg:
		m.toasts.Prune()
		return m.clock.Update(msg)

	case watchlist.ClockSeedMsg:
		if msg.Err != nil {
			m.logger.WithError(msg.Err).Warn("Could not read store time; using local clock")
			return m.clock.SetTime(timeNow())
		}
		return m.clock.Update(msg)

	case storeEventMsg:
		next := nextEvent(msg.ch)
		if m.ctrl.ExternalChange(msg.event) {
			m.logger.WithField("type", msg.event.Type).Debug("Store changed elsewhere; reloading")
			return tea.Batch(next, m.refresh())
		}
		return next

	case eventsClosedMsg:
		return nil

	case editorFetchedMsg, editorFinishedMsg, editSavedMsg:
		return m.handleEditor(msg)
	}

	return m.ctrl.Update(msg)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.help.ShowAll {
		var cmd tea.Cmd
		m.help, cmd = m.help.Update(msg)
		return cmd
	}
	if cmd, handled := m.dialog.Update(msg); handled {
		return cmd
	}
	if m.choosing {
		return m.chooseType(msg)
	}

	res, idx := m.seq.Process(msg, m.keys.Sequences()...)
	switch res {
	case keymap.SequencePending:
		return nil
	case keymap.SequenceMatch:
		m.seq.Clear()
		if idx == 0 {
			m.cursor = 0
			return nil
		}
		if w, ok := m.selected(); ok {
			return m.ctrl.Delete(w.ID)
		}
		return nil
	}
	m.seq.Clear()

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.shutdown()
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.Toggle()
		return nil
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return nil
	case key.Matches(msg, m.keys.Down):
		m.cursor++
		return nil
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = m.ctrl.Len() - 1
		return nil
	case key.Matches(msg, m.keys.Refresh):
		return m.refresh()
	case key.Matches(msg, m.keys.New):
		m.choosing = true
		return nil
	}

	w, ok := m.selected()
	if !ok {
		return nil
	}
	switch {
	case key.Matches(msg, m.keys.Play):
		return m.ctrl.Play(w)
	case key.Matches(msg, m.keys.Edit):
		m.ctrl.Edit(watchlist.ByID(w.ID), watchlist.ModeEditor)
	case key.Matches(msg, m.keys.Wizard):
		m.ctrl.Edit(watchlist.ByEntity(w), watchlist.ModeWizard)
	case key.Matches(msg, m.keys.Toggle):
		return m.ctrl.Toggle(w.ID)
	}
	return nil
}

// chooseType handles the key after New: e for email, r for report, anything
// else cancels.
func (m *Model) chooseType(msg tea.KeyMsg) tea.Cmd {
	m.choosing = false
	var t models.WatcherType
	switch msg.String() {
	case "e":
		t = models.WatcherTypeEmail
	case "r":
		t = models.WatcherTypeReport
	default:
		return nil
	}
	return m.ctrl.Create(t)
}

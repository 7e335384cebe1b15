package watchlist

import (
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/watchers/errors"
	"github.com/grovetools/watchers/pkg/models"
	"github.com/grovetools/watchers/pkg/nav"
)

func ids(ws []models.Watcher) []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.ID
	}
	return out
}

func TestLoadAll(t *testing.T) {
	t.Run("replaces collection in store order", func(t *testing.T) {
		h := newHarness(watcher("c", "C", false), watcher("a", "A", true), watcher("b", "B", false))
		c := h.controller()
		assert.Equal(t, 0, c.Len())

		cmd := c.LoadAll()
		assert.True(t, c.Loading())
		Drive(c, cmd)

		assert.False(t, c.Loading())
		assert.Equal(t, []string{"c", "a", "b"}, ids(c.Watchers()))
		assert.Equal(t, 1, c.Loads())

		h.store.watchers = []models.Watcher{watcher("b", "B", false)}
		Drive(c, c.LoadAll())
		assert.Equal(t, []string{"b"}, ids(c.Watchers()))
	})

	t.Run("failure keeps collection and notifies", func(t *testing.T) {
		h := newHarness(watcher("a", "A", false))
		c := h.loaded()

		h.store.listErr = errors.RemoteFailure("list watchers", fmt.Errorf("connection refused"))
		Drive(c, c.LoadAll())

		assert.Equal(t, []string{"a"}, ids(c.Watchers()))
		require.Len(t, h.notifier.errs, 1)
		assert.True(t, errors.Is(h.notifier.errs[0], errors.ErrCodeRemoteFailure))
		assert.Equal(t, 2, h.slot.takes, "import check runs after every load, failed or not")
	})

	t.Run("duplicate ids keep first occurrence", func(t *testing.T) {
		h := newHarness(watcher("a", "first", false), watcher("a", "second", false), watcher("b", "B", false))
		c := h.loaded()

		assert.Equal(t, []string{"a", "b"}, ids(c.Watchers()))
		w, ok := c.Watcher("a")
		require.True(t, ok)
		assert.Equal(t, "first", w.Source.Title)
	})

	t.Run("returned watchers are copies", func(t *testing.T) {
		h := newHarness(watcher("a", "A", false))
		c := h.loaded()

		ws := c.Watchers()
		ws[0].Source.Title = "mutated"
		w, _ := c.Watcher("a")
		assert.Equal(t, "A", w.Source.Title)
	})
}

func TestToggle(t *testing.T) {
	t.Run("flips one flag and saves once", func(t *testing.T) {
		h := newHarness(watcher("a", "A", false), watcher("b", "B", false))
		c := h.loaded()

		Drive(c, c.Toggle("a"))

		a, _ := c.Watcher("a")
		b, _ := c.Watcher("b")
		assert.True(t, a.Source.Disable)
		assert.False(t, b.Source.Disable)

		require.Len(t, h.store.saves, 1)
		assert.Equal(t, "a", h.store.saves[0].ID)
		assert.True(t, h.store.saves[0].Source.Disable)
		assert.Equal(t, []string{`Disabled watcher "A"`}, h.notifier.infos)

		Drive(c, c.Toggle("a"))
		assert.Equal(t, `Enabled watcher "A"`, h.notifier.infos[1])
	})

	t.Run("failed save keeps the flipped flag", func(t *testing.T) {
		h := newHarness(watcher("a", "A", false))
		c := h.loaded()
		h.store.saveErr = errors.RemoteStatus("save watcher", 500, "db locked")

		Drive(c, c.Toggle("a"))

		a, _ := c.Watcher("a")
		assert.True(t, a.Source.Disable)
		assert.Empty(t, h.notifier.infos)
		require.Len(t, h.notifier.errs, 1)
	})

	t.Run("unknown id", func(t *testing.T) {
		h := newHarness(watcher("a", "A", false))
		c := h.loaded()

		assert.Nil(t, c.Toggle("missing"))
		assert.Empty(t, h.store.saves)
		require.Len(t, h.notifier.errs, 1)
		assert.True(t, errors.Is(h.notifier.errs[0], errors.ErrCodeWatcherNotFound))
	})
}

func TestSaveWatcherNotification(t *testing.T) {
	t.Run("reports the state at completion", func(t *testing.T) {
		h := newHarness(watcher("a", "A", false))
		c := h.loaded()

		first := c.Toggle("a")
		second := c.Toggle("a")

		Drive(c, first)
		assert.Equal(t, []string{`Enabled watcher "A"`}, h.notifier.infos)
		Drive(c, second)
		assert.Equal(t, `Enabled watcher "A"`, h.notifier.infos[1])

		require.Len(t, h.store.saves, 2)
		assert.True(t, h.store.saves[0].Source.Disable)
		assert.False(t, h.store.saves[1].Source.Disable)
	})

	t.Run("falls back to the saved snapshot", func(t *testing.T) {
		h := newHarness(watcher("a", "A", false))
		c := h.loaded()

		save := c.Toggle("a")
		h.store.watchers = nil
		Drive(c, c.LoadAll())
		require.Equal(t, 0, c.Len())

		Drive(c, save)
		assert.Equal(t, []string{`Disabled watcher "A"`}, h.notifier.infos)
	})
}

func TestDelete(t *testing.T) {
	t.Run("confirmed and removed", func(t *testing.T) {
		h := newHarness(watcher("a", "A", false), watcher("b", "B", false), watcher("c", "C", false))
		c := h.loaded()

		Drive(c, c.Delete("b"))

		assert.Equal(t, []string{"a", "c"}, ids(c.Watchers()))
		assert.Equal(t, []string{"b"}, h.store.deletes)
		assert.Equal(t, []string{`Deleted watcher "B"`}, h.notifier.infos)
		assert.Equal(t, DeleteRemoved, c.DeletePhase())
		assert.Equal(t, 0, c.PendingDeletes())
	})

	for _, resp := range []Response{ResponseNo, ResponseCancel} {
		resp := resp
		t.Run("answered "+resp.String(), func(t *testing.T) {
			h := newHarness(watcher("a", "A", false), watcher("b", "B", false))
			h.confirm = AutoConfirm{Response: resp}
			c := h.loaded()

			Drive(c, c.Delete("a"))

			assert.Equal(t, []string{"a", "b"}, ids(c.Watchers()))
			assert.Empty(t, h.store.deletes)
			assert.Empty(t, h.notifier.infos)
			assert.Empty(t, h.notifier.errs)
			assert.Equal(t, DeleteCancelled, c.DeletePhase())
		})
	}

	t.Run("remote failure removes optimistically", func(t *testing.T) {
		h := newHarness(watcher("a", "A", false), watcher("b", "B", false))
		h.store.delErr = errors.RemoteStatus("delete watcher", 500, "boom")
		c := h.loaded()

		Drive(c, c.Delete("a"))

		assert.Equal(t, []string{"b"}, ids(c.Watchers()))
		assert.Empty(t, h.notifier.errs)
		assert.Empty(t, h.notifier.infos)
		assert.Equal(t, DeleteRemovedOptimistically, c.DeletePhase())
	})

	t.Run("remote failure after the entity is gone is reported", func(t *testing.T) {
		h := newHarness(watcher("a", "A", false), watcher("b", "B", false))
		h.store.delErr = errors.RemoteStatus("delete watcher", 500, "boom")
		held := &heldConfirm{}
		h.confirm = held
		c := h.loaded()

		Drive(c, c.Delete("a"))
		require.Len(t, held.requests, 1)
		assert.Equal(t, DeleteConfirmationPending, c.DeletePhase())

		h.store.watchers = []models.Watcher{watcher("b", "B", false)}
		Drive(c, c.LoadAll())

		Drive(c, resolve(held.requests[0].RequestID, ResponseYes))
		assert.Equal(t, DeleteReportedError, c.DeletePhase())
		require.Len(t, h.notifier.errs, 1)
		assert.Equal(t, []string{"b"}, ids(c.Watchers()))
	})

	t.Run("removes the captured entity after a reorder", func(t *testing.T) {
		h := newHarness(watcher("a", "A", false), watcher("b", "B", false), watcher("c", "C", false))
		held := &heldConfirm{}
		h.confirm = held
		c := h.loaded()

		Drive(c, c.Delete("b"))
		assert.Contains(t, held.requests[0].Message, `"B"`)

		h.store.watchers = []models.Watcher{watcher("c", "C", false), watcher("a", "A", false), watcher("b", "B", false)}
		Drive(c, c.LoadAll())

		Drive(c, resolve(held.requests[0].RequestID, ResponseYes))
		assert.Equal(t, []string{"c", "a"}, ids(c.Watchers()))
		assert.Equal(t, []string{"b"}, h.store.deletes)
	})

	t.Run("overlapping deletes", func(t *testing.T) {
		h := newHarness(watcher("a", "A", false), watcher("b", "B", false), watcher("c", "C", false))
		held := &heldConfirm{}
		h.confirm = held
		c := h.loaded()

		Drive(c, c.Delete("a"))
		Drive(c, c.Delete("c"))
		assert.Equal(t, 2, c.PendingDeletes())

		Drive(c, resolve(held.requests[1].RequestID, ResponseYes))
		Drive(c, resolve(held.requests[0].RequestID, ResponseYes))
		assert.Equal(t, []string{"b"}, ids(c.Watchers()))
		assert.Equal(t, []string{"c", "a"}, h.store.deletes)
	})

	t.Run("stale confirmation is ignored", func(t *testing.T) {
		h := newHarness(watcher("a", "A", false))
		c := h.loaded()

		Drive(c, resolve(42, ResponseYes))
		assert.Empty(t, h.store.deletes)
		assert.Equal(t, 1, c.Len())
	})

	t.Run("unknown id", func(t *testing.T) {
		h := newHarness(watcher("a", "A", false))
		held := &heldConfirm{}
		h.confirm = held
		c := h.loaded()

		assert.Nil(t, c.Delete("missing"))
		assert.Empty(t, held.requests)
		require.Len(t, h.notifier.errs, 1)
		assert.True(t, errors.Is(h.notifier.errs[0], errors.ErrCodeWatcherNotFound))
	})
}

func TestPlay(t *testing.T) {
	tests := []struct {
		name     string
		result   models.PlayResult
		err      error
		infos    []string
		warnings []string
		errs     int
	}{
		{name: "success", infos: []string{`Executed watcher "Nightly"`}},
		{name: "diagnostic", result: models.PlayResult{Message: "no actions configured"}, warnings: []string{"no actions configured"}},
		{name: "failure", err: errors.RemoteFailure("play watcher", fmt.Errorf("timeout")), errs: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(watcher("a", "Nightly", false))
			h.store.playRes = tt.result
			h.store.playErr = tt.err
			c := h.loaded()

			cmd := c.PlayByID("a")
			// Renaming before completion does not change the reported title.
			h.store.watchers = []models.Watcher{watcher("a", "Renamed", false)}
			Drive(c, c.LoadAll())
			Drive(c, cmd)

			assert.Equal(t, []string{"a"}, h.store.plays)
			assert.Equal(t, tt.infos, h.notifier.infos)
			assert.Equal(t, tt.warnings, h.notifier.warnings)
			assert.Len(t, h.notifier.errs, tt.errs)
		})
	}
}

func TestEdit(t *testing.T) {
	h := newHarness(watcher("a", "A", false))
	c := h.loaded()

	c.Edit(ByID("a"), ModeEditor)
	c.Edit(ByID("a"), ModeWizard)
	assert.Equal(t, []string{"/editor/a", "/wizard/a"}, h.nav.paths)
	assert.Empty(t, h.transfer.watchers)

	w, _ := c.Watcher("a")
	c.Edit(ByEntity(w), ModeEditor)
	c.Edit(ByEntity(w), ModeWizard)
	assert.Equal(t, []string{"/editor/a", "/wizard/a", nav.EditorPath, nav.WizardPath}, h.nav.paths)
	require.Len(t, h.transfer.watchers, 2)
	assert.Equal(t, "a", h.transfer.watchers[0].ID)
}

func TestCreate(t *testing.T) {
	t.Run("opens scaffold in editor", func(t *testing.T) {
		h := newHarness()
		c := h.loaded()

		Drive(c, c.Create(models.WatcherTypeReport))

		assert.Equal(t, []models.WatcherType{models.WatcherTypeReport}, h.store.news)
		require.Len(t, h.transfer.watchers, 1)
		assert.Equal(t, models.WatcherTypeReport, h.transfer.watchers[0].Source.Type)
		assert.Equal(t, []string{nav.EditorPath}, h.nav.paths)
		assert.Equal(t, 0, c.Len(), "scaffold is not added to the collection")
	})

	t.Run("failure", func(t *testing.T) {
		h := newHarness()
		h.store.newErr = errors.RemoteFailure("new watcher", fmt.Errorf("refused"))
		c := h.loaded()

		Drive(c, c.Create(models.WatcherTypeEmail))
		assert.Empty(t, h.nav.paths)
		assert.Len(t, h.notifier.errs, 1)
	})
}

func TestClose(t *testing.T) {
	h := newHarness(watcher("a", "A", false))
	c := h.controller()

	load := c.LoadAll()
	c.Close()
	Drive(c, load)

	assert.True(t, c.Closed())
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0, h.slot.takes)
	assert.Nil(t, c.LoadAll())
	assert.Nil(t, c.Toggle("a"))
	assert.Nil(t, c.Delete("a"))

	c.Close()
}

func TestImportAfterLoad(t *testing.T) {
	t.Run("consumed once", func(t *testing.T) {
		h := newHarness(watcher("a", "A", false))
		h.slot.value, h.slot.set = `{"id":"","source":{"title":"Imported","type":"report"}}`, true
		c := h.loaded()

		assert.Equal(t, []string{nav.WizardPath}, h.nav.paths)
		require.Len(t, h.transfer.watchers, 1)
		assert.Equal(t, "Imported", h.transfer.watchers[0].Source.Title)

		Drive(c, c.LoadAll())
		assert.Equal(t, []string{nav.WizardPath}, h.nav.paths)
		assert.Equal(t, 2, h.slot.takes)
	})

	t.Run("corrupt value is cleared and reported", func(t *testing.T) {
		h := newHarness()
		h.slot.value, h.slot.set = `{not json`, true
		c := h.loaded()

		assert.Empty(t, h.nav.paths)
		require.Len(t, h.notifier.errs, 1)
		assert.True(t, errors.Is(h.notifier.errs[0], errors.ErrCodeImportCorrupt))
		assert.False(t, h.slot.set)

		Drive(c, c.LoadAll())
		assert.Len(t, h.notifier.errs, 1)
	})

	t.Run("left in place when the load lands after close", func(t *testing.T) {
		h := newHarness(watcher("a", "A", false))
		h.slot.value, h.slot.set = `{"source":{"title":"Imported","type":"report"}}`, true
		c := h.controller()

		cmd := c.LoadAll()
		c.Close()
		Drive(c, cmd)

		assert.Zero(t, h.slot.takes)
		assert.True(t, h.slot.set)
		assert.Empty(t, h.nav.paths)
	})
}

func TestExternalChange(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	h := newHarness(watcher("a", "A", false))
	c := h.loaded(WithClock(func() time.Time { return now }))

	Drive(c, c.Toggle("a"))

	assert.False(t, c.ExternalChange(models.Event{Type: models.EventWatcherSaved, WatcherID: "a"}), "own write")
	assert.True(t, c.ExternalChange(models.Event{Type: models.EventWatcherSaved, WatcherID: "a"}), "echo consumed")
	assert.True(t, c.ExternalChange(models.Event{Type: models.EventWatcherDeleted, WatcherID: "b"}))
	assert.False(t, c.ExternalChange(models.Event{Type: models.EventWatcherPlayed, WatcherID: "b"}))

	assert.False(t, c.ExternalChange(models.Event{Type: models.EventStoreChanged}))
	now = now.Add(time.Second)
	assert.True(t, c.ExternalChange(models.Event{Type: models.EventStoreChanged}))
}

func TestExpectWrite(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	h := newHarness(watcher("a", "A", false))
	c := h.loaded(WithClock(func() time.Time { return now }))

	c.ExpectWrite("a")
	assert.False(t, c.ExternalChange(models.Event{Type: models.EventWatcherSaved, WatcherID: "a"}))
	assert.True(t, c.ExternalChange(models.Event{Type: models.EventWatcherSaved, WatcherID: "a"}))

	c.ExpectWrite("a")
	c.CancelWrite("a")
	assert.True(t, c.ExternalChange(models.Event{Type: models.EventWatcherSaved, WatcherID: "a"}))

	c.ExpectWrite("")
	assert.False(t, c.ExternalChange(models.Event{Type: models.EventWatcherSaved, WatcherID: "new"}), "first save of a new watcher")
	assert.True(t, c.ExternalChange(models.Event{Type: models.EventWatcherSaved, WatcherID: "other"}))
}

func TestInit(t *testing.T) {
	h := newHarness(watcher("a", "A", false))
	h.tmpl.byCat[models.CategoryInput] = []models.Template{{ID: "http"}}
	c := h.controller()

	Drive(c, c.Init())

	assert.Equal(t, 1, c.Len())
	require.Len(t, h.transfer.templates, 1)
	assert.Equal(t, 1, h.transfer.templates[0].Count(models.CategoryInput))
}

func TestTemplatesAfterClose(t *testing.T) {
	h := newHarness()
	h.tmpl.byCat[models.CategoryInput] = []models.Template{{ID: "http"}}
	c := h.controller()

	cmd := c.LoadTemplates()
	c.Close()
	Drive(c, cmd)

	assert.Equal(t, len(models.AllTemplateCategories), h.tmpl.calls)
	assert.Empty(t, h.transfer.templates)
}

func TestDriveFlattensBatches(t *testing.T) {
	var seen []int
	u := updaterFunc(func(msg tea.Msg) tea.Cmd {
		n := msg.(int)
		seen = append(seen, n)
		if n == 1 {
			return func() tea.Msg { return 3 }
		}
		return nil
	})

	Drive(u, tea.Batch(
		func() tea.Msg { return 1 },
		nil,
		func() tea.Msg { return 2 },
	))
	assert.Equal(t, []int{1, 2, 3}, seen)
}

type updaterFunc func(tea.Msg) tea.Cmd

func (f updaterFunc) Update(msg tea.Msg) tea.Cmd { return f(msg) }

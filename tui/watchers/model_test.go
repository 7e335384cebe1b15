package watchers

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/watchers/config"
	"github.com/grovetools/watchers/pkg/models"
	"github.com/grovetools/watchers/pkg/nav"
	"github.com/grovetools/watchers/pkg/store"
)

type emptySlot struct{}

func (emptySlot) Take() (string, bool, error) { return "", false, nil }

func newTestModel(t *testing.T, titles ...string) (*Model, *store.LocalClient) {
	t.Helper()
	l := logrus.New()
	l.SetOutput(io.Discard)

	client, err := store.NewLocalClient(context.Background(), ":memory:", logrus.NewEntry(l))
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	for _, title := range titles {
		_, err := client.Save(context.Background(), models.Watcher{Source: models.WatcherSource{Title: title, Type: models.WatcherTypeEmail}})
		require.NoError(t, err)
	}

	cfg := config.Defaults()
	m := New(client, cfg, WithImportSlot(emptySlot{}), WithEditor("true"))
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	drive(m, m.ctrl.LoadAll())
	return m, client
}

// drive runs single commands to completion. Batches are not expanded since
// they carry ticks and the blocking event subscription.
func drive(m *Model, cmd tea.Cmd) {
	for cmd != nil {
		msg := cmd()
		if _, ok := msg.(tea.BatchMsg); ok || msg == nil {
			return
		}
		_, cmd = m.Update(msg)
	}
}

func press(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeKeys(m *Model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(press(k))
	}
	return cmd
}

func TestListRendersWatchers(t *testing.T) {
	m, _ := newTestModel(t, "Nightly errors", "Weekly report")

	view := m.View()
	assert.Contains(t, view, "Nightly errors")
	assert.Contains(t, view, "Weekly report")
	assert.Contains(t, view, "2 watchers")
}

func TestEmptyList(t *testing.T) {
	m, _ := newTestModel(t)
	assert.Contains(t, m.View(), "No watchers yet")
}

func TestToggleFromKeyboard(t *testing.T) {
	m, client := newTestModel(t, "Nightly")

	drive(m, typeKeys(m, " "))

	ws, err := client.List(context.Background())
	require.NoError(t, err)
	require.Len(t, ws, 1)
	assert.True(t, ws[0].Source.Disable)
	assert.Contains(t, m.toasts.View(), `Disabled watcher "Nightly"`)
}

func TestEditorSaveIsNotAnExternalChange(t *testing.T) {
	m, client := newTestModel(t, "Nightly")
	ws, err := client.List(context.Background())
	require.NoError(t, err)
	require.Len(t, ws, 1)

	edited := ws[0]
	edited.Source.Title = "Hourly"
	data, err := json.Marshal(edited)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "watcher.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	_, cmd := m.Update(editorFinishedMsg{path: path, original: []byte("{}")})
	drive(m, cmd)

	assert.Contains(t, m.toasts.View(), `Saved watcher "Hourly"`)
	saved := models.Event{Type: models.EventWatcherSaved, WatcherID: edited.ID}
	assert.False(t, m.ctrl.ExternalChange(saved))
	assert.True(t, m.ctrl.ExternalChange(saved))
}

func TestDeleteWithConfirmation(t *testing.T) {
	m, client := newTestModel(t, "First", "Second")

	typeKeys(m, "j", "d", "d")
	require.True(t, m.dialog.Active())
	assert.Contains(t, m.View(), `"Second"`)

	drive(m, typeKeys(m, "y"))

	assert.False(t, m.dialog.Active())
	ws, err := client.List(context.Background())
	require.NoError(t, err)
	require.Len(t, ws, 1)
	assert.Equal(t, "First", ws[0].Source.Title)
	assert.Equal(t, 1, m.ctrl.Len())
	assert.Equal(t, 0, m.cursor)
}

func TestDeleteDeclined(t *testing.T) {
	m, client := newTestModel(t, "Only")

	typeKeys(m, "d", "d")
	drive(m, typeKeys(m, "n"))

	ws, _ := client.List(context.Background())
	assert.Len(t, ws, 1)
	assert.Equal(t, 1, m.ctrl.Len())
}

func TestCursorBounds(t *testing.T) {
	m, _ := newTestModel(t, "A", "B", "C")

	typeKeys(m, "j", "j", "j", "j")
	assert.Equal(t, 2, m.cursor)
	typeKeys(m, "g", "g")
	assert.Equal(t, 0, m.cursor)
	typeKeys(m, "G")
	assert.Equal(t, 2, m.cursor)
	typeKeys(m, "k")
	assert.Equal(t, 1, m.cursor)
}

func TestNewWatcherTypePrompt(t *testing.T) {
	m, _ := newTestModel(t)

	typeKeys(m, "n")
	assert.True(t, m.choosing)
	assert.Contains(t, m.View(), "e email")

	assert.Nil(t, typeKeys(m, "x"))
	assert.False(t, m.choosing)
}

func TestEditNavigatesByID(t *testing.T) {
	m, _ := newTestModel(t, "Nightly")
	w, ok := m.selected()
	require.True(t, ok)

	typeKeys(m, "e")
	assert.Equal(t, []string{nav.EditorFor(w.ID)}, m.router.History())
	assert.Nil(t, m.pending)
}

func TestQuitClosesController(t *testing.T) {
	m, _ := newTestModel(t, "Nightly")

	cmd := typeKeys(m, "q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.ctrl.Closed())
	assert.True(t, m.clock.Stopped())
}

func TestHelpOverlay(t *testing.T) {
	m, _ := newTestModel(t, "Nightly")

	typeKeys(m, "?")
	assert.True(t, m.help.ShowAll)
	assert.Contains(t, m.View(), "Navigation")

	typeKeys(m, "?")
	assert.False(t, m.help.ShowAll)
}

func TestApplyTemplates(t *testing.T) {
	cache := models.NewTemplateCache()
	cache[models.CategoryInput]["b-search"] = models.Template{ID: "b-search", Payload: map[string]interface{}{"search": true}}
	cache[models.CategoryInput]["a-http"] = models.Template{ID: "a-http", Payload: map[string]interface{}{"http": true}}
	cache[models.CategoryTransform]["script"] = models.Template{ID: "script", Payload: map[string]interface{}{"script": "x"}}

	w := applyTemplates(models.Watcher{Source: models.WatcherSource{
		Transform: map[string]interface{}{"kept": true},
	}}, cache)

	assert.Equal(t, map[string]interface{}{"http": true}, w.Source.Input)
	assert.Nil(t, w.Source.Condition)
	assert.Equal(t, map[string]interface{}{"kept": true}, w.Source.Transform)
}

func TestEditorCommand(t *testing.T) {
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "code --wait")
	assert.Equal(t, []string{"code", "--wait"}, editorCommand())

	t.Setenv("EDITOR", "")
	assert.Equal(t, []string{"vi"}, editorCommand())
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "0f8fad5b", shortID("0f8fad5b-d9cb-469f-a165-70867728950e"))
	assert.Equal(t, "abc", shortID("abc"))
	assert.False(t, strings.Contains(shortID("a-b"), "-"))
}

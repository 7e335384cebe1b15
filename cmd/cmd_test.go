package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbstore "github.com/grovetools/watchers/internal/daemon/store"
	"github.com/grovetools/watchers/errors"
	"github.com/grovetools/watchers/pkg/models"
	"github.com/grovetools/watchers/pkg/watchlist"
	"github.com/grovetools/watchers/state"
	"github.com/grovetools/watchers/testutil"
)

type env struct {
	dir    string
	config string
	db     string
}

func newEnv(t *testing.T, watchers ...models.Watcher) *env {
	t.Helper()
	home := testutil.IsolatedHome(t)
	dir := filepath.Dir(home)

	e := &env{dir: dir}
	e.config, e.db = testutil.LocalStoreConfig(t, dir)

	st, err := dbstore.Open(context.Background(), e.db)
	require.NoError(t, err)
	for _, w := range watchers {
		_, err := st.Save(context.Background(), w)
		require.NoError(t, err)
	}
	require.NoError(t, st.Close())
	return e
}

func (e *env) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append(args, "--config", e.config))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (e *env) list(t *testing.T) []models.Watcher {
	t.Helper()
	out, err := e.run(t, "", "list", "--json")
	require.NoError(t, err)
	var ws []models.Watcher
	require.NoError(t, json.Unmarshal([]byte(out), &ws))
	return ws
}

func sample(id, title string, disabled bool) models.Watcher {
	return models.Watcher{ID: id, Source: models.WatcherSource{
		Title:   title,
		Disable: disabled,
		Type:    models.WatcherTypeEmail,
		Input:   map[string]interface{}{"search": "errors"},
		Actions: map[string]interface{}{"email": map[string]interface{}{"to": "ops@example.com"}},
	}}
}

func TestListCommand(t *testing.T) {
	e := newEnv(t, sample("w1", "Disk full", false), sample("w2", "Error rate", true))

	out, err := e.run(t, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Disk full")
	assert.Contains(t, out, "Disabled")

	ws := e.list(t)
	require.Len(t, ws, 2)
	assert.Equal(t, "w1", ws[0].ID)
}

func TestToggleCommand(t *testing.T) {
	e := newEnv(t, sample("w1", "Disk full", false))

	out, err := e.run(t, "", "toggle", "w1")
	require.NoError(t, err)
	assert.Contains(t, out, `Disabled watcher "Disk full"`)
	assert.True(t, e.list(t)[0].Source.Disable)

	_, err = e.run(t, "", "toggle", "missing")
	assert.True(t, errors.Is(err, errors.ErrCodeWatcherNotFound))
}

func TestPlayCommand(t *testing.T) {
	noInput := sample("w2", "Empty", false)
	noInput.Source.Input = nil
	e := newEnv(t, sample("w1", "Disk full", false), noInput)

	out, err := e.run(t, "", "play", "w1")
	require.NoError(t, err)
	assert.Contains(t, out, `Executed watcher "Disk full"`)

	out, err = e.run(t, "", "play", "w2")
	require.NoError(t, err)
	assert.Contains(t, out, "has no input configured")

	_, err = e.run(t, "", "play", "missing")
	assert.True(t, errors.Is(err, errors.ErrCodeWatcherNotFound))
}

func TestDeleteCommand(t *testing.T) {
	e := newEnv(t, sample("w1", "Disk full", false), sample("w2", "Error rate", false))

	out, err := e.run(t, "n\n", "delete", "w1")
	require.NoError(t, err)
	assert.Contains(t, out, `Are you sure you want to delete watcher "Disk full"?`)
	assert.Len(t, e.list(t), 2)

	out, err = e.run(t, "y\n", "delete", "w1")
	require.NoError(t, err)
	assert.Contains(t, out, `Deleted watcher "Disk full"`)

	_, err = e.run(t, "", "delete", "--yes", "w2")
	require.NoError(t, err)
	assert.Empty(t, e.list(t))

	_, err = e.run(t, "", "delete", "--yes", "missing")
	assert.True(t, errors.Is(err, errors.ErrCodeWatcherNotFound))
}

func TestNewCommand(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "", "new", "--type", "report", "--save")
	require.NoError(t, err)
	var w models.Watcher
	require.NoError(t, json.Unmarshal([]byte(out), &w))
	assert.Equal(t, models.WatcherTypeReport, w.Source.Type)
	assert.True(t, w.Source.Disable)
	assert.Len(t, e.list(t), 1)

	_, err = e.run(t, "", "new", "--type", "pager")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestStageCommand(t *testing.T) {
	e := newEnv(t)
	data, _ := json.Marshal(sample("", "Imported", true))
	path := testutil.WriteFile(t, e.dir, "staged.json", string(data))

	slot := state.NewSlot(state.Open(filepath.Join(e.dir, "state.yml")), state.ImportKey)
	importSlot = func() *state.Slot { return slot }
	t.Cleanup(func() { importSlot = state.ImportSlot })

	out, err := e.run(t, "", "stage", path)
	require.NoError(t, err)
	assert.Contains(t, out, `Staged watcher "Imported"`)

	value, ok, err := slot.Take()
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, string(data), value)
}

func TestTemplateCommands(t *testing.T) {
	e := newEnv(t)
	path := testutil.WriteFile(t, e.dir, "input.json", `{"id":"http","title":"HTTP input","payload":{"url":""}}`)

	out, err := e.run(t, "", "template", "add", "input", path)
	require.NoError(t, err)
	assert.Contains(t, out, `Saved input template "http"`)

	out, err = e.run(t, "", "template", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "HTTP input")

	_, err = e.run(t, "", "template", "add", "output", path)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestDecodeWatcher(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{"valid", `{"source":{"title":"A","type":"email"}}`, false},
		{"no type", `{"source":{"title":"A"}}`, false},
		{"no title", `{"source":{"type":"email"}}`, true},
		{"bad type", `{"source":{"title":"A","type":"sms"}}`, true},
		{"not json", `{`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeWatcher([]byte(tt.data))
			if tt.wantErr {
				assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPromptConfirmer(t *testing.T) {
	tests := []struct {
		input string
		want  watchlist.Response
	}{
		{"y\n", watchlist.ResponseYes},
		{"YES\n", watchlist.ResponseYes},
		{"n\n", watchlist.ResponseNo},
		{"\n", watchlist.ResponseNo},
		{"", watchlist.ResponseCancel},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		p := promptConfirmer{in: strings.NewReader(tt.input), out: &out}
		msg := p.Confirm(watchlist.ConfirmRequest{RequestID: 3, Message: "Delete?"})()
		resolved, ok := msg.(watchlist.ConfirmResolvedMsg)
		require.True(t, ok)
		assert.Equal(t, 3, resolved.RequestID)
		assert.Equal(t, tt.want, resolved.Response, "input %q", tt.input)
		assert.Contains(t, out.String(), "Delete? [y/N]")
	}
}

func TestPathsCommand(t *testing.T) {
	e := newEnv(t)
	out, err := e.run(t, "", "paths")
	require.NoError(t, err)
	var p PathsOutput
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.Equal(t, filepath.Join(e.dir, "home", "config"), p.ConfigDir)
}

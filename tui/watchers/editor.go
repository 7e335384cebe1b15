package watchers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/grovetools/watchers/errors"
	"github.com/grovetools/watchers/pkg/models"
	"github.com/grovetools/watchers/pkg/nav"
	"github.com/grovetools/watchers/util/sanitize"
)

var timeNow = time.Now

type editorFetchedMsg struct {
	watcher models.Watcher
	err     error
}

type editorFinishedMsg struct {
	path     string
	original []byte
	err      error
}

type editSavedMsg struct {
	id    string
	title string
	err   error
}

// editorCommand resolves $VISUAL, then $EDITOR, then vi.
func editorCommand() []string {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if fields := strings.Fields(os.Getenv(env)); len(fields) > 0 {
			return fields
		}
	}
	return []string{"vi"}
}

// openRoute starts the editor for a navigation request. /editor/<id> is
// fetched from the store first; /editor and /wizard take the staged watcher.
func (m *Model) openRoute(route nav.Route) tea.Cmd {
	if route.ID != "" {
		client, timeout, id := m.client, m.cfg.StoreTimeout(), route.ID
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			w, err := client.Get(ctx, id)
			return editorFetchedMsg{watcher: w, err: err}
		}
	}

	w, ok := m.transfer.TakeWatcher()
	if !ok {
		m.toasts.Warning("Nothing to edit")
		return nil
	}
	if route.Root == nav.WizardPath {
		w = applyTemplates(w, m.transfer.Templates())
	}
	return m.editDocument(w)
}

// editDocument writes w to a temp file and suspends the screen while the
// editor runs.
func (m *Model) editDocument(w models.Watcher) tea.Cmd {
	data, err := json.MarshalIndent(w, "", "  ")
	if err != nil {
		m.toasts.Error(errors.Wrap(err, errors.ErrCodeInternal, "encode watcher"))
		return nil
	}
	f, err := os.CreateTemp("", sanitize.TempPattern(w.Source.Title))
	if err != nil {
		m.toasts.Error(errors.Wrap(err, errors.ErrCodeInternal, "create temp file"))
		return nil
	}
	path := f.Name()
	_, werr := f.Write(data)
	cerr := f.Close()
	if werr != nil || cerr != nil {
		os.Remove(path)
		m.toasts.Error(errors.Wrap(fmt.Errorf("%v %v", werr, cerr), errors.ErrCodeInternal, "write temp file"))
		return nil
	}

	args := append(append([]string(nil), m.editorArgs[1:]...), path)
	c := exec.Command(m.editorArgs[0], args...)
	m.logger.WithField("editor", m.editorArgs[0]).WithField("watcher_id", w.ID).Debug("Opening editor")
	return tea.ExecProcess(c, func(err error) tea.Msg {
		return editorFinishedMsg{path: path, original: data, err: err}
	})
}

func (m *Model) handleEditor(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case editorFetchedMsg:
		if msg.err != nil {
			m.toasts.Error(msg.err)
			return nil
		}
		return m.editDocument(msg.watcher)

	case editorFinishedMsg:
		edited, err := os.ReadFile(msg.path)
		os.Remove(msg.path)
		if msg.err != nil {
			m.toasts.Error(errors.Wrap(msg.err, errors.ErrCodeInternal, "editor exited with an error"))
			return nil
		}
		if err != nil {
			m.toasts.Error(errors.Wrap(err, errors.ErrCodeInternal, "read edited watcher"))
			return nil
		}
		if bytes.Equal(bytes.TrimSpace(edited), bytes.TrimSpace(msg.original)) {
			return nil
		}
		var w models.Watcher
		if err := json.Unmarshal(edited, &w); err != nil {
			m.toasts.Error(errors.InvalidInput("watcher", err.Error()))
			return nil
		}
		// The reload below covers this save; its store event is an echo.
		m.ctrl.ExpectWrite(w.ID)
		client, timeout := m.client, m.cfg.StoreTimeout()
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			_, err := client.Save(ctx, w)
			return editSavedMsg{id: w.ID, title: w.Source.Title, err: err}
		}

	case editSavedMsg:
		if msg.err != nil {
			m.ctrl.CancelWrite(msg.id)
			m.toasts.Error(msg.err)
			return nil
		}
		m.toasts.Info(fmt.Sprintf("Saved watcher %q", msg.title))
		return m.refresh()
	}
	return nil
}

// applyTemplates fills each empty input, condition and transform with the
// payload of the first template (by id) in that category.
func applyTemplates(w models.Watcher, cache models.TemplateCache) models.Watcher {
	if cache == nil {
		return w
	}
	pick := func(c models.TemplateCategory) map[string]interface{} {
		ids := make([]string, 0, len(cache[c]))
		for id := range cache[c] {
			ids = append(ids, id)
		}
		if len(ids) == 0 {
			return nil
		}
		sort.Strings(ids)
		return cache[c][ids[0]].Payload
	}
	if w.Source.Input == nil {
		w.Source.Input = pick(models.CategoryInput)
	}
	if w.Source.Condition == nil {
		w.Source.Condition = pick(models.CategoryCondition)
	}
	if w.Source.Transform == nil {
		w.Source.Transform = pick(models.CategoryTransform)
	}
	return w
}

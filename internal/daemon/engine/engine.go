// Package engine runs watchers on demand for the daemon and the local client.
// It does not evaluate conditions or deliver actions; it checks that a
// watcher is runnable and records the run.
package engine

import (
	"context"
	"fmt"

	"github.com/grovetools/watchers/internal/daemon/store"
	"github.com/grovetools/watchers/pkg/models"
	"github.com/sirupsen/logrus"
)

// Engine executes watchers against a store.
type Engine struct {
	store  *store.Store
	logger *logrus.Entry
}

// New creates a new Engine instance.
func New(st *store.Store, logger *logrus.Entry) *Engine {
	return &Engine{
		store:  st,
		logger: logger,
	}
}

// Play runs a watcher once. Problems that stop the run are reported as a
// diagnostic in the result, not as an error; errors mean the watcher could
// not be looked up.
func (e *Engine) Play(ctx context.Context, id string) (models.PlayResult, error) {
	w, err := e.store.Get(ctx, id)
	if err != nil {
		return models.PlayResult{}, err
	}

	log := e.logger.WithField("watcher", id)

	if msg := diagnose(w); msg != "" {
		log.WithField("diagnostic", msg).Warn("Watcher run skipped")
		return models.PlayResult{Message: msg}, nil
	}

	log.Info("Watcher executed")
	e.store.Publish(models.EventWatcherPlayed, id)
	return models.PlayResult{}, nil
}

func diagnose(w models.Watcher) string {
	title := w.Source.Title
	if title == "" {
		title = w.ID
	}
	switch {
	case len(w.Source.Input) == 0:
		return fmt.Sprintf("Watcher %q has no input configured", title)
	case len(w.Source.Actions) == 0:
		return fmt.Sprintf("Watcher %q has no actions configured", title)
	}
	return ""
}

// Store returns the engine's store.
func (e *Engine) Store() *store.Store {
	return e.store
}

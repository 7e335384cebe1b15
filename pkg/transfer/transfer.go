// Package transfer carries a watcher and the template cache from the list
// screen to the editor and wizard screens.
package transfer

import (
	"sync"

	"github.com/grovetools/watchers/pkg/models"
)

// Channel holds the most recent hand-off. Setters are called by the list
// screen; getters by the editor side.
type Channel struct {
	mu        sync.RWMutex
	watcher   *models.Watcher
	templates models.TemplateCache
}

// New returns an empty channel.
func New() *Channel {
	return &Channel{}
}

// SetWatcher stages a copy of w for the next editor or wizard.
func (c *Channel) SetWatcher(w models.Watcher) {
	clone := w.Clone()
	c.mu.Lock()
	c.watcher = &clone
	c.mu.Unlock()
}

// Watcher returns the staged watcher, if any.
func (c *Channel) Watcher() (models.Watcher, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.watcher == nil {
		return models.Watcher{}, false
	}
	return c.watcher.Clone(), true
}

// TakeWatcher returns the staged watcher and clears it.
func (c *Channel) TakeWatcher() (models.Watcher, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.watcher == nil {
		return models.Watcher{}, false
	}
	w := *c.watcher
	c.watcher = nil
	return w, true
}

// SetTemplates publishes the merged template cache.
func (c *Channel) SetTemplates(cache models.TemplateCache) {
	c.mu.Lock()
	c.templates = cache
	c.mu.Unlock()
}

// Templates returns the last published cache, or nil before publication.
func (c *Channel) Templates() models.TemplateCache {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.templates
}

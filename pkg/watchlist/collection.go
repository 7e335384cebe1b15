package watchlist

import (
	"github.com/grovetools/watchers/pkg/models"
)

// Collection is the locally held watcher list: an id index plus the order
// the store returned.
type Collection struct {
	byID  map[string]*models.Watcher
	order []string
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{byID: make(map[string]*models.Watcher)}
}

// Replace discards the current contents and takes watchers in order. A
// repeated id keeps its first occurrence; the number dropped is returned.
func (c *Collection) Replace(watchers []models.Watcher) int {
	c.byID = make(map[string]*models.Watcher, len(watchers))
	c.order = make([]string, 0, len(watchers))

	dropped := 0
	for _, w := range watchers {
		if _, dup := c.byID[w.ID]; dup {
			dropped++
			continue
		}
		clone := w.Clone()
		c.byID[w.ID] = &clone
		c.order = append(c.order, w.ID)
	}
	return dropped
}

// Get returns the live entity for id. Mutations through the pointer are
// visible to later reads.
func (c *Collection) Get(id string) (*models.Watcher, bool) {
	w, ok := c.byID[id]
	return w, ok
}

// IndexOf returns the position of id, or -1.
func (c *Collection) IndexOf(id string) int {
	if _, ok := c.byID[id]; !ok {
		return -1
	}
	for i, existing := range c.order {
		if existing == id {
			return i
		}
	}
	return -1
}

// Remove deletes id, keeping the order of the rest.
func (c *Collection) Remove(id string) bool {
	i := c.IndexOf(id)
	if i < 0 {
		return false
	}
	delete(c.byID, id)
	c.order = append(c.order[:i], c.order[i+1:]...)
	return true
}

// Len returns the number of watchers.
func (c *Collection) Len() int {
	return len(c.order)
}

// At returns the watcher at position i.
func (c *Collection) At(i int) (models.Watcher, bool) {
	if i < 0 || i >= len(c.order) {
		return models.Watcher{}, false
	}
	return *c.byID[c.order[i]], true
}

// IDs returns the ids in order.
func (c *Collection) IDs() []string {
	return append([]string(nil), c.order...)
}

// All returns copies of every watcher in order.
func (c *Collection) All() []models.Watcher {
	out := make([]models.Watcher, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id].Clone())
	}
	return out
}

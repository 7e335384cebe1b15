// Package nav routes the list screen's navigation requests to the editor and
// wizard flows.
package nav

import (
	"fmt"
	"strings"
	"sync"
)

// Route roots.
const (
	EditorPath = "/editor"
	WizardPath = "/wizard"
)

// Route is a parsed navigation target.
type Route struct {
	// Root is EditorPath or WizardPath.
	Root string
	// ID is set for /editor/<id> and /wizard/<id>.
	ID string
}

// String renders the route back to a path.
func (r Route) String() string {
	if r.ID == "" {
		return r.Root
	}
	return r.Root + "/" + r.ID
}

// Parse splits a path into a Route. Only the editor and wizard roots are known.
func Parse(path string) (Route, error) {
	trimmed := strings.Trim(path, "/")
	root, id, _ := strings.Cut(trimmed, "/")
	switch "/" + root {
	case EditorPath, WizardPath:
	default:
		return Route{}, fmt.Errorf("unknown route %q", path)
	}
	if strings.Contains(id, "/") {
		return Route{}, fmt.Errorf("unknown route %q", path)
	}
	return Route{Root: "/" + root, ID: id}, nil
}

// EditorFor returns the editor path for id, or the bare editor path.
func EditorFor(id string) string {
	return Route{Root: EditorPath, ID: id}.String()
}

// WizardFor returns the wizard path for id, or the bare wizard path.
func WizardFor(id string) string {
	return Route{Root: WizardPath, ID: id}.String()
}

// Handler receives a parsed route.
type Handler func(Route)

// Router dispatches Navigate calls to the handler registered for the root.
// Navigations to a root without a handler are recorded and otherwise ignored.
type Router struct {
	mu       sync.Mutex
	handlers map[string]Handler
	history  []string
}

// NewRouter returns an empty router.
func NewRouter() *Router {
	return &Router{handlers: make(map[string]Handler)}
}

// Handle registers h for a root path.
func (r *Router) Handle(root string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[root] = h
}

// Navigate parses path and invokes its handler.
func (r *Router) Navigate(path string) {
	route, err := Parse(path)

	r.mu.Lock()
	r.history = append(r.history, path)
	h := r.handlers[route.Root]
	r.mu.Unlock()

	if err != nil || h == nil {
		return
	}
	h(route)
}

// History returns every path navigated to, oldest first.
func (r *Router) History() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.history...)
}

package models

import (
	"fmt"
	"strings"
)

// WatcherType selects the action family a watcher scaffold is built for.
type WatcherType string

const (
	WatcherTypeEmail  WatcherType = "email"
	WatcherTypeReport WatcherType = "report"
)

// WatcherTypes lists the types the store knows how to scaffold.
var WatcherTypes = []WatcherType{WatcherTypeEmail, WatcherTypeReport}

// ParseWatcherType converts user input into a WatcherType.
func ParseWatcherType(s string) (WatcherType, error) {
	t := WatcherType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range WatcherTypes {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown watcher type %q (want one of: email, report)", s)
}

// Watcher is an alert/report definition. Identity is ID; everything mutable
// lives under Source.
type Watcher struct {
	ID     string        `json:"id"`
	Source WatcherSource `json:"source"`
}

// WatcherSource holds the editable part of a watcher.
type WatcherSource struct {
	Title     string                 `json:"title"`
	Disable   bool                   `json:"disable"`
	Type      WatcherType            `json:"type"`
	Schedule  string                 `json:"schedule,omitempty"`
	Input     map[string]interface{} `json:"input,omitempty"`
	Condition map[string]interface{} `json:"condition,omitempty"`
	Transform map[string]interface{} `json:"transform,omitempty"`
	Actions   map[string]interface{} `json:"actions,omitempty"`
}

// Status returns the label used when reporting the enabled state.
func (w Watcher) Status() string {
	if w.Source.Disable {
		return "Disabled"
	}
	return "Enabled"
}

// Clone returns a deep enough copy that mutating the clone's Source does not
// touch the original's maps.
func (w Watcher) Clone() Watcher {
	c := w
	c.Source.Input = cloneMap(w.Source.Input)
	c.Source.Condition = cloneMap(w.Source.Condition)
	c.Source.Transform = cloneMap(w.Source.Transform)
	c.Source.Actions = cloneMap(w.Source.Actions)
	return c
}

func cloneMap(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// PlayResult is what the store answers to an on-demand run. A non-empty
// Message is a diagnostic from the execution engine.
type PlayResult struct {
	Message string `json:"message,omitempty"`
}

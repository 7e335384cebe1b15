package models

import "time"

// EventType represents the kind of change the store reports.
type EventType string

const (
	EventWatcherSaved   EventType = "saved"
	EventWatcherDeleted EventType = "deleted"
	EventWatcherPlayed  EventType = "played"
	EventTemplateSaved  EventType = "template_saved"
	// EventStoreChanged reports an outside write whose details are unknown,
	// such as another process touching the local database.
	EventStoreChanged EventType = "changed"
)

// Event is a change notification pushed by a store to its watchers.
type Event struct {
	Type      EventType `json:"type"`
	WatcherID string    `json:"watcher_id,omitempty"`
	Source    string    `json:"source,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

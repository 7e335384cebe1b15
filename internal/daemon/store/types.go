// Package store is the sqlite-backed watcher and template store shared by the
// daemon and the in-process local client.
package store

import (
	"github.com/grovetools/watchers/pkg/models"
)

// Update is a change broadcast to subscribers.
type Update = models.Event

const schema = `
CREATE TABLE IF NOT EXISTS watchers (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	id         TEXT NOT NULL UNIQUE,
	source     TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS templates (
	category TEXT NOT NULL,
	id       TEXT NOT NULL,
	title    TEXT NOT NULL DEFAULT '',
	payload  TEXT NOT NULL DEFAULT '{}',
	PRIMARY KEY (category, id)
);
`

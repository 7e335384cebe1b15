package errors

import (
	"fmt"
)

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *WatcherError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *WatcherError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// WatcherNotFound creates a watcher not found error
func WatcherNotFound(id string) *WatcherError {
	return New(ErrCodeWatcherNotFound, fmt.Sprintf("watcher '%s' not found", id)).
		WithDetail("id", id)
}

// RemoteFailure wraps a rejected store or template call.
func RemoteFailure(op string, err error) *WatcherError {
	return Wrap(err, ErrCodeRemoteFailure, fmt.Sprintf("%s failed", op)).
		WithDetail("op", op)
}

// RemoteStatus creates a failure for a non-OK status returned by the daemon.
func RemoteStatus(op string, status int, body string) *WatcherError {
	msg := fmt.Sprintf("%s: daemon returned status %d", op, status)
	if body != "" {
		msg = fmt.Sprintf("%s: %s", msg, body)
	}
	return New(ErrCodeRemoteFailure, msg).
		WithDetail("op", op).
		WithDetail("status", status)
}

// StoreUnavailable creates an error for a store that cannot be opened or reached
func StoreUnavailable(location string, err error) *WatcherError {
	return Wrap(err, ErrCodeStoreUnavailable, fmt.Sprintf("watcher store unavailable at %s", location)).
		WithDetail("location", location)
}

// InvalidInput creates an invalid input error
func InvalidInput(field, reason string) *WatcherError {
	return New(ErrCodeInvalidInput, fmt.Sprintf("invalid %s: %s", field, reason)).
		WithDetail("field", field)
}

// ImportCorrupt creates an error for an unreadable pending import
func ImportCorrupt(key string, err error) *WatcherError {
	return Wrap(err, ErrCodeImportCorrupt, fmt.Sprintf("pending watcher under '%s' could not be decoded", key)).
		WithDetail("key", key)
}

package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	// Configuration errors
	ErrCodeConfigNotFound ErrorCode = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  ErrorCode = "CONFIG_INVALID"

	// Store errors
	ErrCodeRemoteFailure    ErrorCode = "REMOTE_FAILURE"
	ErrCodeStoreUnavailable ErrorCode = "STORE_UNAVAILABLE"
	ErrCodeWatcherNotFound  ErrorCode = "WATCHER_NOT_FOUND"

	// Import slot errors
	ErrCodeImportCorrupt ErrorCode = "IMPORT_CORRUPT"

	// General errors
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// WatcherError represents a structured error with context
type WatcherError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *WatcherError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *WatcherError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *WatcherError) WithDetail(key string, value interface{}) *WatcherError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ToJSON converts the error to JSON
func (e *WatcherError) ToJSON() string {
	data, _ := json.MarshalIndent(e, "", "  ")
	return string(data)
}

// New creates a new WatcherError
func New(code ErrorCode, message string) *WatcherError {
	return &WatcherError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a WatcherError
func Wrap(err error, code ErrorCode, message string) *WatcherError {
	return &WatcherError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Is checks if an error is a specific WatcherError code
func Is(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}

	watcherErr, ok := err.(*WatcherError)
	if !ok {
		// Try to unwrap
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return Is(unwrapper.Unwrap(), code)
		}
		return false
	}

	return watcherErr.Code == code
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}

	watcherErr, ok := err.(*WatcherError)
	if !ok {
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return GetCode(unwrapper.Unwrap())
		}
		return ""
	}

	return watcherErr.Code
}

// As returns the first WatcherError in err's chain.
func As(err error) (*WatcherError, bool) {
	for err != nil {
		if watcherErr, ok := err.(*WatcherError); ok {
			return watcherErr, true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil, false
		}
		err = unwrapper.Unwrap()
	}
	return nil, false
}

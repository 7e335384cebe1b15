package keymap

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// SequenceResult is the outcome of feeding one key to a SequenceState.
type SequenceResult int

const (
	// SequenceNone means the buffer matches nothing and is no prefix.
	SequenceNone SequenceResult = iota
	// SequencePending means more keys may complete a binding.
	SequencePending
	// SequenceMatch means a binding matched exactly.
	SequenceMatch
)

// SequenceState buffers key presses for multi-key bindings such as gg and
// dd. The buffer is dropped when the next key comes after the timeout.
type SequenceState struct {
	buffer     string
	lastUpdate time.Time
	timeout    time.Duration
	now        func() time.Time
}

// NewSequenceState returns a state with a one second timeout.
func NewSequenceState() *SequenceState {
	return &SequenceState{timeout: time.Second, now: time.Now}
}

// Process appends msg to the buffer and checks it against bindings. On
// SequenceMatch the index of the matching binding is returned; the caller
// clears the buffer on match and on none.
func (s *SequenceState) Process(msg tea.KeyMsg, bindings ...key.Binding) (SequenceResult, int) {
	now := s.now()
	if s.timeout > 0 && now.Sub(s.lastUpdate) > s.timeout {
		s.buffer = ""
	}
	s.lastUpdate = now
	s.buffer += msg.String()

	for i, b := range bindings {
		for _, k := range b.Keys() {
			if k == s.buffer {
				return SequenceMatch, i
			}
		}
	}
	for _, b := range bindings {
		for _, k := range b.Keys() {
			if len(s.buffer) < len(k) && k[:len(s.buffer)] == s.buffer {
				return SequencePending, -1
			}
		}
	}
	return SequenceNone, -1
}

// Clear resets the buffer.
func (s *SequenceState) Clear() {
	s.buffer = ""
}

// Buffer returns the pending keys.
func (s *SequenceState) Buffer() string {
	return s.buffer
}

// IsPending reports whether keys are buffered.
func (s *SequenceState) IsPending() bool {
	return s.buffer != ""
}

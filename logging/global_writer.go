package logging

import (
	"io"
	"os"
	"sync"
)

// terminalSink is the terminal half of every logger. Its target changes
// while the list screen owns the terminal.
type terminalSink struct {
	mu     sync.RWMutex
	target io.Writer
}

func (s *terminalSink) Write(p []byte) (int, error) {
	s.mu.RLock()
	target := s.target
	s.mu.RUnlock()
	return target.Write(p)
}

var terminal = &terminalSink{target: os.Stderr}

// SetGlobalOutput redirects the terminal output of every logger. nil means
// os.Stderr.
func SetGlobalOutput(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	terminal.mu.Lock()
	terminal.target = w
	terminal.mu.Unlock()
}

// GetGlobalOutput returns the writer loggers use for terminal output.
func GetGlobalOutput() io.Writer {
	return terminal
}

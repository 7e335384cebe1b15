// Package notify keeps the toast stack shown in the corner of the watchers
// screen. It implements the list controller's Notifier.
package notify

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/grovetools/watchers/errors"
	"github.com/grovetools/watchers/tui/theme"
)

// Level is the severity of a toast.
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

// Toast is one visible notification.
type Toast struct {
	Level   Level
	Text    string
	Expires time.Time
}

// maxVisible caps the stack; older toasts are dropped first.
const maxVisible = 4

// Stack is the list of live toasts. Expired ones are removed by Prune.
type Stack struct {
	toasts   []Toast
	duration time.Duration
	now      func() time.Time
	logger   *logrus.Entry
}

// New returns a stack whose toasts live for d.
func New(d time.Duration, logger *logrus.Entry) *Stack {
	return &Stack{duration: d, now: time.Now, logger: logger}
}

// Info implements watchlist.Notifier.
func (s *Stack) Info(text string) {
	s.logger.Info(text)
	s.push(LevelInfo, text)
}

// Warning implements watchlist.Notifier.
func (s *Stack) Warning(text string) {
	s.logger.Warn(text)
	s.push(LevelWarning, text)
}

// Error implements watchlist.Notifier. Structured errors show their message
// without the code.
func (s *Stack) Error(err error) {
	if err == nil {
		return
	}
	s.logger.WithError(err).WithField("code", errors.GetCode(err)).Error("Watcher operation failed")

	text := err.Error()
	if werr, ok := errors.As(err); ok {
		text = werr.Message
		if werr.Cause != nil {
			text += ": " + werr.Cause.Error()
		}
	}
	s.push(LevelError, text)
}

func (s *Stack) push(level Level, text string) {
	s.toasts = append(s.toasts, Toast{Level: level, Text: text, Expires: s.now().Add(s.duration)})
	if len(s.toasts) > maxVisible {
		s.toasts = s.toasts[len(s.toasts)-maxVisible:]
	}
}

// Prune drops expired toasts.
func (s *Stack) Prune() {
	now := s.now()
	live := s.toasts[:0]
	for _, t := range s.toasts {
		if now.Before(t.Expires) {
			live = append(live, t)
		}
	}
	s.toasts = live
}

// Toasts returns the live toasts, oldest first.
func (s *Stack) Toasts() []Toast {
	return append([]Toast(nil), s.toasts...)
}

// View renders the stack, newest at the bottom.
func (s *Stack) View() string {
	if len(s.toasts) == 0 {
		return ""
	}
	t := theme.DefaultTheme
	lines := make([]string, 0, len(s.toasts))
	for _, toast := range s.toasts {
		var icon string
		var style lipgloss.Style
		switch toast.Level {
		case LevelError:
			icon, style = theme.IconError, t.Error
		case LevelWarning:
			icon, style = theme.IconWarning, t.Warning
		default:
			icon, style = theme.IconSuccess, t.Success
		}
		lines = append(lines, t.Toast.Render(style.Render(icon)+" "+toast.Text))
	}
	return strings.Join(lines, "\n")
}

package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/grovetools/watchers/tui/theme"
)

// PrettyLogger prints user-facing CLI output with the active theme.
type PrettyLogger struct {
	writer io.Writer
	theme  *theme.Theme
}

// NewPrettyLogger writes to stdout with the default theme.
func NewPrettyLogger() *PrettyLogger {
	return &PrettyLogger{
		writer: os.Stdout,
		theme:  theme.DefaultTheme,
	}
}

// WithWriter sets a custom writer for pretty output
func (p *PrettyLogger) WithWriter(w io.Writer) *PrettyLogger {
	p.writer = w
	return p
}

// Success prints a message with a check mark.
func (p *PrettyLogger) Success(message string) {
	fmt.Fprintf(p.writer, "%s %s\n", p.theme.Success.Render(theme.IconSuccess), message)
}

// InfoPretty prints an informational line.
func (p *PrettyLogger) InfoPretty(message string) {
	fmt.Fprintf(p.writer, "%s %s\n", p.theme.Info.Render(theme.IconInfo), message)
}

// WarnPretty prints a warning line.
func (p *PrettyLogger) WarnPretty(message string) {
	fmt.Fprintf(p.writer, "%s %s\n", p.theme.Warning.Render(theme.IconWarning), p.theme.Warning.Render(message))
}

// ErrorPretty prints an error line, appending err when present.
func (p *PrettyLogger) ErrorPretty(message string, err error) {
	fmt.Fprintf(p.writer, "%s %s", p.theme.Error.Render(theme.IconError), p.theme.Error.Render(message))
	if err != nil {
		fmt.Fprintf(p.writer, ": %s", err.Error())
	}
	fmt.Fprintln(p.writer)
}

// Field prints an aligned key-value pair.
func (p *PrettyLogger) Field(key string, value interface{}) {
	fmt.Fprintf(p.writer, "%s %s\n",
		p.theme.Muted.Render(fmt.Sprintf("%-10s", key+":")),
		p.theme.Bold.Render(fmt.Sprint(value)))
}

// Code prints indented multi-line content such as a JSON body.
func (p *PrettyLogger) Code(content string) {
	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		fmt.Fprintf(p.writer, "  %s\n", line)
	}
}

// Divider prints a horizontal rule.
func (p *PrettyLogger) Divider() {
	fmt.Fprintln(p.writer, p.theme.Muted.Render(strings.Repeat("─", 60)))
}

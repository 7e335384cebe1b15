// Package tui holds terminal setup shared by the watchers screens.
package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// InitializeTUI picks the lipgloss color profile. CLICOLOR_FORCE=1 or
// COLORTERM=truecolor force true color so output is styled under a pipe or
// in CI; NO_COLOR disables color entirely.
func InitializeTUI() {
	switch {
	case os.Getenv("NO_COLOR") != "":
		lipgloss.SetColorProfile(termenv.Ascii)
	case os.Getenv("CLICOLOR_FORCE") == "1" || os.Getenv("COLORTERM") == "truecolor":
		lipgloss.SetColorProfile(termenv.TrueColor)
	}
}

package theme

import (
	"os"

	"github.com/grovetools/watchers/config"
)

const (
	nerdIconSuccess  = "󰄬"
	nerdIconError    = ""
	nerdIconWarning  = ""
	nerdIconInfo     = "󰋼"
	nerdIconRunning  = ""
	nerdIconEnabled  = "󰐊"
	nerdIconDisabled = "󰏤"
	nerdIconClock    = "󰥔"
	nerdIconTrash    = "󰩹"
	nerdIconEmail    = "󰇮"
	nerdIconReport   = "󰈙"
)

const (
	asciiIconSuccess  = "✓"
	asciiIconError    = "✗"
	asciiIconWarning  = "⚠"
	asciiIconInfo     = "i"
	asciiIconRunning  = "*"
	asciiIconEnabled  = "●"
	asciiIconDisabled = "○"
	asciiIconClock    = "@"
	asciiIconTrash    = "x"
	asciiIconEmail    = "@"
	asciiIconReport   = "#"
)

// Icon set for the active configuration.
var (
	IconSuccess  string
	IconError    string
	IconWarning  string
	IconInfo     string
	IconRunning  string
	IconEnabled  string
	IconDisabled string
	IconClock    string
	IconTrash    string
	IconEmail    string
	IconReport   string
)

func init() {
	SetIcons(useNerdFonts())
}

// SetIcons switches between the Nerd Font and plain glyph sets.
func SetIcons(nerd bool) {
	if nerd {
		IconSuccess, IconError, IconWarning, IconInfo = nerdIconSuccess, nerdIconError, nerdIconWarning, nerdIconInfo
		IconRunning, IconEnabled, IconDisabled = nerdIconRunning, nerdIconEnabled, nerdIconDisabled
		IconClock, IconTrash, IconEmail, IconReport = nerdIconClock, nerdIconTrash, nerdIconEmail, nerdIconReport
		return
	}
	IconSuccess, IconError, IconWarning, IconInfo = asciiIconSuccess, asciiIconError, asciiIconWarning, asciiIconInfo
	IconRunning, IconEnabled, IconDisabled = asciiIconRunning, asciiIconEnabled, asciiIconDisabled
	IconClock, IconTrash, IconEmail, IconReport = asciiIconClock, asciiIconTrash, asciiIconEmail, asciiIconReport
}

func useNerdFonts() bool {
	switch os.Getenv("WATCHERS_ICONS") {
	case "ascii":
		return false
	case "nerd":
		return true
	}
	cfg, err := config.LoadDefault()
	if err != nil || cfg == nil {
		return true
	}
	return cfg.TUI.Icons != "ascii"
}

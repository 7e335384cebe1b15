package cli

import (
	"fmt"
	"io"

	"github.com/grovetools/watchers/errors"
	"github.com/grovetools/watchers/tui/theme"
)

// ErrorHandler prints user-facing hints for structured errors.
type ErrorHandler struct {
	Verbose bool
	Out     io.Writer
}

// NewErrorHandler creates a handler writing to out.
func NewErrorHandler(verbose bool, out io.Writer) *ErrorHandler {
	return &ErrorHandler{Verbose: verbose, Out: out}
}

// Handle prints a message for err and returns it unchanged.
func (h *ErrorHandler) Handle(err error) error {
	if err == nil {
		return nil
	}
	icon := theme.DefaultTheme.Error.Render(theme.IconError)

	werr, _ := errors.As(err)
	switch errors.GetCode(err) {
	case errors.ErrCodeConfigNotFound:
		fmt.Fprintf(h.Out, "%s Configuration not found: %v\n", icon, werr.Details["path"])
		fmt.Fprintln(h.Out, "Create watchers.yml or run without --config to use the defaults.")

	case errors.ErrCodeConfigInvalid:
		fmt.Fprintf(h.Out, "%s %s\n", icon, werr.Message)
		fmt.Fprintln(h.Out, "Run 'watchers config schema' to see the accepted settings.")

	case errors.ErrCodeWatcherNotFound:
		fmt.Fprintf(h.Out, "%s Watcher '%v' not found\n", icon, werr.Details["id"])
		fmt.Fprintln(h.Out, "Run 'watchers list' to see available watchers.")

	case errors.ErrCodeStoreUnavailable:
		fmt.Fprintf(h.Out, "%s Store unavailable at %v\n", icon, werr.Details["location"])
		fmt.Fprintln(h.Out, "Start it with 'watchers daemon start' or set store.mode to local.")

	case errors.ErrCodeImportCorrupt:
		fmt.Fprintf(h.Out, "%s %s\n", icon, werr.Message)
		fmt.Fprintln(h.Out, "The staged watcher was discarded.")

	default:
		fmt.Fprintf(h.Out, "%s Error: %v\n", icon, err)
	}

	if h.Verbose && werr != nil {
		fmt.Fprintf(h.Out, "\nError details:\n%s\n", werr.ToJSON())
	}
	return err
}

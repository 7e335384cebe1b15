package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grovetools/watchers/errors"
	"github.com/grovetools/watchers/pkg/models"
	"github.com/grovetools/watchers/state"
)

// importSlot is swapped in tests.
var importSlot = state.ImportSlot

func printJSON(cmd *cobra.Command, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

// decodeWatcher parses a watcher definition and checks the fields the store
// requires.
func decodeWatcher(data []byte) (models.Watcher, error) {
	var w models.Watcher
	if err := json.Unmarshal(data, &w); err != nil {
		return w, errors.InvalidInput("watcher", err.Error())
	}
	if w.Source.Title == "" {
		return w, errors.InvalidInput("source.title", "must not be empty")
	}
	if w.Source.Type != "" {
		if _, err := models.ParseWatcherType(string(w.Source.Type)); err != nil {
			return w, errors.InvalidInput("source.type", err.Error())
		}
	}
	return w, nil
}

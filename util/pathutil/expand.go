// Package pathutil expands user-supplied paths from config files.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Expand resolves a leading ~, $VAR and ${VAR} references and returns an
// absolute path. ":memory:" and the empty string are returned unchanged.
func Expand(path string) (string, error) {
	if path == "" || path == ":memory:" {
		return path, nil
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("could not get user home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}

	path = os.ExpandEnv(path)
	return filepath.Abs(path)
}

// MustExpand is Expand that falls back to the input on error.
func MustExpand(path string) string {
	expanded, err := Expand(path)
	if err != nil {
		return path
	}
	return expanded
}

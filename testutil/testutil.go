// Package testutil holds helpers shared by package tests that need an
// isolated watchers home and a local store.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// IsolatedHome points WATCHERS_HOME at a fresh temp directory for the
// duration of the test and returns it.
func IsolatedHome(t *testing.T) string {
	t.Helper()
	home := filepath.Join(t.TempDir(), "home")
	require.NoError(t, os.MkdirAll(home, 0o755))
	t.Setenv("WATCHERS_HOME", home)
	t.Setenv("WATCHERS_LOG_LEVEL", "error")
	return home
}

// LocalStoreConfig writes a watchers.yml in dir that selects the local store
// with its database in dir. It returns the config and database paths.
func LocalStoreConfig(t *testing.T, dir string) (configPath, dbPath string) {
	t.Helper()
	configPath = filepath.Join(dir, "watchers.yml")
	dbPath = filepath.Join(dir, "watchers.db")
	content := fmt.Sprintf("store:\n  mode: local\n  database: %s\n", dbPath)
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))
	return configPath, dbPath
}

// WriteFile writes content to name under dir and returns the path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// Package paths provides XDG-compliant path resolution for watchers.
//
// Resolution order:
// 1. WATCHERS_HOME (portable root) → $WATCHERS_HOME/{config,data,state,cache,run}
// 2. XDG env vars → $XDG_*_HOME/watchers
// 3. Platform defaults → ~/.config/watchers, ~/.local/share/watchers, etc.
package paths

import (
	"os"
	"path/filepath"
)

const appName = "watchers"

// homeOr returns $WATCHERS_HOME/<portable> when set, otherwise the XDG
// variable, otherwise ~/<fallback...>.
func homeOr(portable, xdgVar string, fallback ...string) string {
	if root := os.Getenv("WATCHERS_HOME"); root != "" {
		return filepath.Join(root, portable)
	}
	if dir := os.Getenv(xdgVar); dir != "" {
		return dir
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(append([]string{homeDir}, fallback...)...)
	}
	return ""
}

func appDir(base string) string {
	if base == "" {
		return ""
	}
	if os.Getenv("WATCHERS_HOME") != "" {
		return base
	}
	return filepath.Join(base, appName)
}

// ConfigDir returns the configuration directory holding the global watchers.yml.
func ConfigDir() string {
	return appDir(homeOr("config", "XDG_CONFIG_HOME", ".config"))
}

// DataDir returns the data directory. The daemon database lives here.
func DataDir() string {
	return appDir(homeOr("data", "XDG_DATA_HOME", ".local", "share"))
}

// StateDir returns the state directory used for logs, the pid file and the
// one-shot import slot.
func StateDir() string {
	return appDir(homeOr("state", "XDG_STATE_HOME", ".local", "state"))
}

// CacheDir returns the cache directory.
func CacheDir() string {
	return appDir(homeOr("cache", "XDG_CACHE_HOME", ".cache"))
}

// RuntimeDir returns the directory for the daemon socket.
// Uses XDG_RUNTIME_DIR when available (Linux), falls back to StateDir (macOS).
func RuntimeDir() string {
	if root := os.Getenv("WATCHERS_HOME"); root != "" {
		return filepath.Join(root, "run")
	}
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, appName)
	}
	return StateDir()
}

// SocketPath returns the path to the daemon unix socket.
func SocketPath() string {
	return filepath.Join(RuntimeDir(), "watchersd.sock")
}

// PidFilePath returns the path to the daemon PID file.
func PidFilePath() string {
	return filepath.Join(StateDir(), "watchersd.pid")
}

// DatabasePath returns the default sqlite database path.
func DatabasePath() string {
	return filepath.Join(DataDir(), "watchers.db")
}

// StateFilePath returns the path of the shared state file that carries
// cross-screen handoffs such as the pending import.
func StateFilePath() string {
	return filepath.Join(StateDir(), "state.yml")
}

// LogDir returns the directory for component log files.
func LogDir() string {
	return filepath.Join(StateDir(), "logs")
}

// EnsureDirs creates all watchers directories if they don't exist.
func EnsureDirs() error {
	dirs := []string{
		ConfigDir(),
		DataDir(),
		StateDir(),
		CacheDir(),
		RuntimeDir(),
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}

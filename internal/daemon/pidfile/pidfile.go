// Package pidfile guards the watchers daemon against running twice.
package pidfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/grovetools/watchers/pkg/process"
)

// Acquire records the current PID at path. A file naming a live process is
// an error; a file naming a dead one is replaced.
func Acquire(path string) error {
	if pid, err := Read(path); err == nil && process.IsProcessAlive(pid) {
		return fmt.Errorf("daemon already running with PID %d", pid)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create pid directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0644); err != nil {
		return fmt.Errorf("failed to write pid file: %w", err)
	}
	return nil
}

// Release removes the file.
func Release(path string) error {
	return os.Remove(path)
}

// Read parses the PID stored at path.
func Read(path string) (int, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(content)))
}

// IsRunning reports whether the recorded daemon is alive. A missing file is
// not an error.
func IsRunning(path string) (bool, int, error) {
	pid, err := Read(path)
	switch {
	case os.IsNotExist(err):
		return false, 0, nil
	case err != nil:
		return false, 0, err
	}
	return process.IsProcessAlive(pid), pid, nil
}

// Stop sends SIGTERM to the recorded daemon and returns its PID.
func Stop(path string) (int, error) {
	running, pid, err := IsRunning(path)
	if err != nil {
		return 0, err
	}
	if !running {
		return 0, fmt.Errorf("daemon is not running")
	}
	return pid, process.Terminate(pid)
}

// Package process inspects and signals processes by PID.
package process

import (
	"fmt"
	"os"
	"syscall"
)

// IsProcessAlive reports whether pid names a live process. Signal 0 probes
// without delivering anything; EPERM still means the process exists.
func IsProcessAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || os.IsPermission(err)
}

// Terminate sends SIGTERM to pid.
func Terminate(pid int) error {
	if !IsProcessAlive(pid) {
		return fmt.Errorf("process %d is not running", pid)
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("find process %d: %w", pid, err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("signal process %d: %w", pid, err)
	}
	return nil
}

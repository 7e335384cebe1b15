package pidfile

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run", "watchersd.pid")

	require.NoError(t, Acquire(path))

	running, pid, err := IsRunning(path)
	require.NoError(t, err)
	assert.True(t, running)
	assert.Equal(t, os.Getpid(), pid)

	// A live owner blocks a second acquire.
	assert.Error(t, Acquire(path))

	require.NoError(t, Release(path))
	running, _, err = IsRunning(path)
	require.NoError(t, err)
	assert.False(t, running)
}

func TestAcquireReplacesStale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watchersd.pid")
	// PIDs are positive; a negative one is never alive.
	require.NoError(t, os.WriteFile(path, []byte(strconv.Itoa(-42)), 0644))

	require.NoError(t, Acquire(path))
	pid, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), pid)
}

func TestStopNotRunning(t *testing.T) {
	_, err := Stop(filepath.Join(t.TempDir(), "none.pid"))
	assert.Error(t, err)
}

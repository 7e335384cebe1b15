package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/grovetools/watchers/config"
	dbstore "github.com/grovetools/watchers/internal/daemon/store"
	"github.com/grovetools/watchers/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalClient(t *testing.T) {
	ctx := context.Background()
	client, err := NewLocalClient(ctx, filepath.Join(t.TempDir(), "watchers.db"), quietLogger())
	require.NoError(t, err)
	defer client.Close()

	assert.True(t, client.IsRunning())

	w, err := client.New(ctx, models.WatcherTypeEmail)
	require.NoError(t, err)
	id, err := client.Save(ctx, w)
	require.NoError(t, err)
	assert.Equal(t, w.ID, id)

	res, err := client.Play(ctx, id)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Message, "scaffolds have no input yet")

	now, err := client.CurrentTime(ctx)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), now, time.Second)
}

func TestLocalWatchSeesOwnWrites(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := NewLocalClient(ctx, filepath.Join(t.TempDir(), "watchers.db"), quietLogger())
	require.NoError(t, err)
	defer client.Close()

	events, err := client.Watch(ctx)
	require.NoError(t, err)

	_, err = client.Save(ctx, models.Watcher{ID: "w1"})
	require.NoError(t, err)

	deadline := time.After(5 * time.Second)
	for {
		select {
		case ev := <-events:
			if ev.Type == models.EventWatcherSaved {
				assert.Equal(t, "w1", ev.WatcherID)
				return
			}
		case <-deadline:
			t.Fatal("no saved event")
		}
	}
}

func TestLocalWatchSeesOtherWriters(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	path := filepath.Join(t.TempDir(), "watchers.db")
	client, err := NewLocalClient(ctx, path, quietLogger())
	require.NoError(t, err)
	defer client.Close()

	events, err := client.Watch(ctx)
	require.NoError(t, err)

	// A second handle stands in for another process.
	other, err := dbstore.Open(ctx, path)
	require.NoError(t, err)
	defer other.Close()
	_, err = other.Save(ctx, models.Watcher{ID: "external"})
	require.NoError(t, err)

	select {
	case ev := <-events:
		assert.Equal(t, models.EventStoreChanged, ev.Type)
	case <-time.After(5 * time.Second):
		t.Fatal("no filesystem event")
	}
}

func TestFactoryModes(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	cfg := config.Defaults()
	cfg.Store.Database = filepath.Join(dir, "watchers.db")
	cfg.Store.Socket = filepath.Join(dir, "absent.sock")

	cfg.Store.Mode = config.StoreModeLocal
	client, err := New(ctx, cfg, quietLogger())
	require.NoError(t, err)
	_, isLocal := client.(*LocalClient)
	assert.True(t, isLocal)
	client.Close()

	cfg.Store.Mode = config.StoreModeAuto
	client, err = New(ctx, cfg, quietLogger())
	require.NoError(t, err)
	_, isLocal = client.(*LocalClient)
	assert.True(t, isLocal, "auto falls back when the socket is missing")
	client.Close()

	cfg.Store.Mode = config.StoreModeDaemon
	_, err = New(ctx, cfg, quietLogger())
	assert.Error(t, err)
}

func TestPathsFromConfig(t *testing.T) {
	t.Setenv("WATCHERS_HOME", "/tmp/wh")

	assert.Equal(t, "/tmp/wh/run/watchersd.sock", SocketPath(nil))
	assert.Equal(t, "/tmp/wh/data/watchers.db", DatabasePath(config.Defaults()))

	cfg := config.Defaults()
	cfg.Store.Socket = "/x.sock"
	assert.Equal(t, "/x.sock", SocketPath(cfg))
}

package store

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/grovetools/watchers/config"
	"github.com/grovetools/watchers/errors"
	"github.com/grovetools/watchers/pkg/paths"
	"github.com/grovetools/watchers/util/pathutil"
	"github.com/grovetools/watchers/version"
	"github.com/sirupsen/logrus"
)

// New returns the Client selected by cfg.Store.Mode:
//
//   - "daemon": the daemon must answer and be version-compatible.
//   - "local":  the database is opened in-process.
//   - "auto":   the daemon when it answers and is compatible, local otherwise.
//
// Callers don't need to know which one they got; the same API works in
// both modes.
func New(ctx context.Context, cfg *config.Config, logger *logrus.Entry) (Client, error) {
	socketPath := SocketPath(cfg)
	dbPath := DatabasePath(cfg)

	switch cfg.Store.Mode {
	case config.StoreModeLocal:
		return NewLocalClient(ctx, dbPath, logger)

	case config.StoreModeDaemon:
		client, err := connect(ctx, socketPath, cfg.StoreTimeout())
		if err != nil {
			return nil, err
		}
		return client, nil

	default:
		client, err := connect(ctx, socketPath, cfg.StoreTimeout())
		if err == nil {
			return client, nil
		}
		logger.WithError(err).Debug("Daemon unavailable, using local store")
		return NewLocalClient(ctx, dbPath, logger)
	}
}

// connect dials the daemon and checks that it speaks a compatible API.
func connect(ctx context.Context, socketPath string, timeout time.Duration) (*RemoteClient, error) {
	if _, err := os.Stat(socketPath); err != nil {
		return nil, errors.StoreUnavailable(socketPath, err)
	}

	conn, err := net.DialTimeout("unix", socketPath, 100*time.Millisecond)
	if err != nil {
		return nil, errors.StoreUnavailable(socketPath, err)
	}
	conn.Close()

	client := NewRemoteClient(socketPath, timeout)

	vctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	info, err := client.Version(vctx)
	if err != nil {
		client.Close()
		return nil, errors.StoreUnavailable(socketPath, err)
	}
	if !version.Compatible(info.Version) {
		client.Close()
		return nil, errors.StoreUnavailable(socketPath,
			fmt.Errorf("daemon version %s is not compatible with client %s", info.Version, version.Version))
	}

	return client, nil
}

// SocketPath returns the configured daemon socket or the default.
func SocketPath(cfg *config.Config) string {
	if cfg != nil && cfg.Store.Socket != "" {
		return pathutil.MustExpand(cfg.Store.Socket)
	}
	return paths.SocketPath()
}

// DatabasePath returns the configured database or the default.
func DatabasePath(cfg *config.Config) string {
	if cfg != nil && cfg.Store.Database != "" {
		return pathutil.MustExpand(cfg.Store.Database)
	}
	return paths.DatabasePath()
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/grovetools/watchers/cli"
	"github.com/grovetools/watchers/internal/daemon/engine"
	"github.com/grovetools/watchers/internal/daemon/pidfile"
	"github.com/grovetools/watchers/internal/daemon/server"
	dbstore "github.com/grovetools/watchers/internal/daemon/store"
	"github.com/grovetools/watchers/logging"
	"github.com/grovetools/watchers/pkg/paths"
	"github.com/grovetools/watchers/pkg/store"
)

// NewDaemonCmd returns the watchersd daemon command with subcommands.
func NewDaemonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run or control the watcher store daemon",
		Long: `The daemon owns the watcher database and serves it over a unix socket.
While it runs, the list screen and the CLI talk to it and receive change
events; otherwise they open the database in-process.`,
	}

	cmd.AddCommand(newDaemonStartCmd())
	cmd.AddCommand(newDaemonStopCmd())
	cmd.AddCommand(newDaemonStatusCmd())

	return cmd
}

func newDaemonStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the daemon in the foreground",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.LoadConfig(cmd)
			if err != nil {
				return err
			}
			logger := logging.NewLogger("watchersd")
			pidPath := paths.PidFilePath()
			sockPath := store.SocketPath(cfg)

			if err := pidfile.Acquire(pidPath); err != nil {
				return fmt.Errorf("failed to start: %w", err)
			}
			defer func() {
				if err := pidfile.Release(pidPath); err != nil {
					logger.Errorf("Failed to release pidfile: %v", err)
				}
			}()

			ctx, stop := signal.NotifyContext(contextOf(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			st, err := dbstore.Open(ctx, store.DatabasePath(cfg))
			if err != nil {
				return err
			}
			defer st.Close()

			srv := server.New(logger, engine.New(st, logger))

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				logger.WithField("pid", os.Getpid()).Info("Starting daemon")
				return srv.ListenAndServe(sockPath)
			})
			g.Go(func() error {
				<-gctx.Done()
				logger.Info("Received stop signal")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})

			if err := g.Wait(); err != nil && !isServerClosed(err) {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		},
	}
}

func newDaemonStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the running daemon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pidPath := paths.PidFilePath()

			running, _, err := pidfile.IsRunning(pidPath)
			if err != nil {
				return fmt.Errorf("error checking status: %w", err)
			}
			if !running {
				fmt.Fprintln(cmd.OutOrStdout(), "Daemon is not running")
				return nil
			}

			pid, err := pidfile.Stop(pidPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sent SIGTERM to process %d\n", pid)
			return nil
		},
	}
}

// DaemonStatus is the --json shape of `daemon status`.
type DaemonStatus struct {
	Running bool   `json:"running"`
	PID     int    `json:"pid,omitempty"`
	Socket  string `json:"socket"`
}

func newDaemonStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check daemon status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.LoadConfig(cmd)
			if err != nil {
				return err
			}
			running, pid, err := pidfile.IsRunning(paths.PidFilePath())
			if err != nil {
				return fmt.Errorf("error: %w", err)
			}
			status := DaemonStatus{Running: running, PID: pid, Socket: store.SocketPath(cfg)}

			if cli.GetOptions(cmd).JSONOutput {
				return printJSON(cmd, status)
			}
			if running {
				fmt.Fprintf(cmd.OutOrStdout(), "Running (PID: %d)\nSocket: %s\n", pid, status.Socket)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Stopped")
			}
			return nil
		},
	}
}

func isServerClosed(err error) bool {
	return errors.Is(err, http.ErrServerClosed)
}

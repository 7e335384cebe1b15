package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/grovetools/watchers/cli"
	"github.com/grovetools/watchers/config"
	"github.com/grovetools/watchers/logging"
	"github.com/grovetools/watchers/pkg/profiling"
	"github.com/grovetools/watchers/pkg/store"
	"github.com/grovetools/watchers/pkg/watchlist"
)

// session bundles what a one-shot command needs: the store client, a
// controller that reports through the pretty logger, and the first error
// the controller surfaced.
type session struct {
	ctx      context.Context
	cfg      *config.Config
	client   store.Client
	ctrl     *watchlist.Controller
	notifier *recordingNotifier
	logger   *logrus.Entry
}

// openSession loads config, connects to the store and loads the watcher
// collection. The caller must Close the session.
func openSession(cmd *cobra.Command, confirmer watchlist.Confirmer) (*session, error) {
	cfg, err := cli.LoadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger := cli.GetLogger(cmd, "cli")

	connect := profiling.Start("store.connect")
	client, err := store.New(contextOf(cmd), cfg, logger)
	connect.Stop()
	if err != nil {
		return nil, err
	}

	pretty := logging.NewPrettyLogger().WithWriter(cmd.OutOrStdout())
	notifier := &recordingNotifier{Notifier: watchlist.NewLogNotifier(pretty, logger)}
	if confirmer == nil {
		confirmer = watchlist.AutoConfirm{Response: watchlist.ResponseNo}
	}

	ctrl := watchlist.New(watchlist.Deps{
		Store:     client,
		Templates: client,
		Notifier:  notifier,
		Confirmer: confirmer,
	}, watchlist.WithLogger(logger), watchlist.WithTimeout(cfg.StoreTimeout()))

	s := &session{ctx: contextOf(cmd), cfg: cfg, client: client, ctrl: ctrl, notifier: notifier, logger: logger}
	load := profiling.Start("watchers.load")
	err = s.run(ctrl.LoadAll)
	load.Stop()
	if err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// run starts the controller operation, drives it to completion and returns
// the first error reported. Errors raised while start builds its command
// count too.
func (s *session) run(start func() tea.Cmd) error {
	s.notifier.err = nil
	watchlist.Drive(s.ctrl, start())
	return s.notifier.err
}

// call returns a context bounded by the configured store timeout.
func (s *session) call() (context.Context, context.CancelFunc) {
	return context.WithTimeout(s.ctx, s.cfg.StoreTimeout())
}

func (s *session) Close() {
	s.ctrl.Close()
	if err := s.client.Close(); err != nil {
		s.logger.WithError(err).Debug("Failed to close store client")
	}
}

// recordingNotifier remembers the first error it is handed.
type recordingNotifier struct {
	watchlist.Notifier
	err error
}

func (n *recordingNotifier) Error(err error) {
	if n.err == nil {
		n.err = err
	}
	n.Notifier.Error(err)
}

// promptConfirmer asks on the terminal. Anything but y/yes declines.
type promptConfirmer struct {
	in  io.Reader
	out io.Writer
}

func (p promptConfirmer) Confirm(req watchlist.ConfirmRequest) tea.Cmd {
	return func() tea.Msg {
		fmt.Fprintf(p.out, "%s [y/N]: ", req.Message)
		line, err := bufio.NewReader(p.in).ReadString('\n')
		if err != nil && line == "" {
			return watchlist.ConfirmResolvedMsg{RequestID: req.RequestID, Response: watchlist.ResponseCancel}
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return watchlist.ConfirmResolvedMsg{RequestID: req.RequestID, Response: watchlist.ResponseYes}
		}
		return watchlist.ConfirmResolvedMsg{RequestID: req.RequestID, Response: watchlist.ResponseNo}
	}
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/grovetools/watchers/errors"
	"github.com/grovetools/watchers/pkg/models"
	"github.com/grovetools/watchers/pkg/watchlist"
)

// NewPlayCmd returns the `play` command.
func NewPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play <id>",
		Short: "Run a watcher once",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, nil)
			if err != nil {
				return err
			}
			defer s.Close()
			return s.run(func() tea.Cmd { return s.ctrl.PlayByID(args[0]) })
		},
	}
}

// NewToggleCmd returns the `toggle` command.
func NewToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Enable a disabled watcher or disable an enabled one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, nil)
			if err != nil {
				return err
			}
			defer s.Close()
			return s.run(func() tea.Cmd { return s.ctrl.Toggle(args[0]) })
		},
	}
}

// NewDeleteCmd returns the `delete` command.
func NewDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a watcher after confirmation",
		Long: `Delete a watcher after confirmation.

Examples:
  # Ask before deleting
  watchers delete 0b6f...

  # Delete without asking
  watchers delete --yes 0b6f...`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var confirmer watchlist.Confirmer = promptConfirmer{in: cmd.InOrStdin(), out: cmd.OutOrStdout()}
			if yes {
				confirmer = watchlist.AutoConfirm{Response: watchlist.ResponseYes}
			}

			s, err := openSession(cmd, confirmer)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.run(func() tea.Cmd { return s.ctrl.Delete(args[0]) }); err != nil {
				return err
			}
			switch s.ctrl.DeletePhase() {
			case watchlist.DeleteCancelled:
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
			case watchlist.DeleteRemovedOptimistically:
				fmt.Fprintln(cmd.ErrOrStderr(), "The store rejected the delete; the watcher may reappear on the next load.")
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

// NewNewCmd returns the `new` command.
func NewNewCmd() *cobra.Command {
	var typeName string
	var save bool

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a watcher scaffold",
		Long: `Create a watcher scaffold of the given type. The scaffold is printed as
JSON and is disabled. Pass --save to persist it right away.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := models.ParseWatcherType(typeName)
			if err != nil {
				return errors.InvalidInput("type", err.Error())
			}

			s, err := openSession(cmd, nil)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx, cancel := s.call()
			defer cancel()
			w, err := s.client.New(ctx, t)
			if err != nil {
				return errors.RemoteFailure("new", err)
			}
			if save {
				if _, err := s.client.Save(ctx, w); err != nil {
					return errors.RemoteFailure("save", err)
				}
			}
			return printJSON(cmd, w)
		},
	}
	cmd.Flags().StringVarP(&typeName, "type", "t", string(models.WatcherTypeEmail), "Watcher type (email, report)")
	cmd.Flags().BoolVar(&save, "save", false, "Persist the scaffold")
	return cmd
}

// NewStageCmd returns the `stage` command.
func NewStageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stage <file.json>",
		Short: "Stage a watcher definition for the wizard to pick up",
		Long: `Stage a watcher definition for import. The next time the watcher list
loads, the staged watcher is opened in the wizard and the slot is cleared.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			w, err := decodeWatcher(data)
			if err != nil {
				return err
			}
			if err := importSlot().Put(string(data)); err != nil {
				return fmt.Errorf("failed to stage watcher: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Staged watcher %q\n", w.Source.Title)
			return nil
		},
	}
}

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/grovetools/watchers/cli"
	"github.com/grovetools/watchers/pkg/profiling"
	"github.com/grovetools/watchers/pkg/store"
	"github.com/grovetools/watchers/tui/watchers"
)

// NewRootCmd returns the watchers command. Without a subcommand it opens
// the watcher list screen.
func NewRootCmd() *cobra.Command {
	root := cli.NewStandardCommand("watchers", "Manage alert and report watchers")
	root.Long = `Manage alert and report watchers.

Run without arguments to open the watcher list. Subcommands cover the same
actions for scripts.`
	root.Args = cobra.NoArgs
	root.SilenceUsage = true
	root.SilenceErrors = true
	root.RunE = runList

	root.AddCommand(NewListCmd())
	root.AddCommand(NewPlayCmd())
	root.AddCommand(NewToggleCmd())
	root.AddCommand(NewDeleteCmd())
	root.AddCommand(NewNewCmd())
	root.AddCommand(NewStageCmd())
	root.AddCommand(NewTemplateCmd())
	root.AddCommand(NewDaemonCmd())
	root.AddCommand(NewLogsCmd())
	root.AddCommand(NewConfigCmd())
	root.AddCommand(NewPathsCmd())
	root.AddCommand(cli.NewVersionCommand("watchers"))

	profiling.NewCobraProfiler().Attach(root)
	cli.ApplyStyledHelpRecursive(root)
	return root
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := cli.LoadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := contextOf(cmd)

	client, err := store.New(ctx, cfg, cli.GetLogger(cmd, "watchers"))
	if err != nil {
		return err
	}
	defer client.Close()

	return watchers.Run(ctx, client, cfg)
}

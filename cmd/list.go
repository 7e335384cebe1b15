package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grovetools/watchers/cli"
	"github.com/grovetools/watchers/pkg/models"
	"github.com/grovetools/watchers/tui/components/table"
)

// NewListCmd returns the `list` command.
func NewListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List watchers in store order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, nil)
			if err != nil {
				return err
			}
			defer s.Close()

			watchers := s.ctrl.Watchers()
			if cli.GetOptions(cmd).JSONOutput {
				data, err := json.MarshalIndent(watchers, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal watchers: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}

			if len(watchers) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No watchers")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), table.SimpleTable([]string{"ID", "TITLE", "TYPE", "SCHEDULE", "STATUS"}, listRows(watchers)))
			return nil
		},
	}
}

func listRows(watchers []models.Watcher) [][]string {
	rows := make([][]string, 0, len(watchers))
	for _, w := range watchers {
		rows = append(rows, []string{w.ID, w.Source.Title, string(w.Source.Type), w.Source.Schedule, w.Status()})
	}
	return rows
}

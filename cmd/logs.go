package cmd

import (
	"bufio"
	"fmt"
	"io"
	stdlog "log"
	"os"

	"github.com/hpcloud/tail"
	"github.com/spf13/cobra"

	"github.com/grovetools/watchers/logging"
)

// NewLogsCmd returns the `logs` command.
func NewLogsCmd() *cobra.Command {
	var follow bool
	var component string

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show today's log file",
		Long: `Show today's log file for a component.

Examples:
  # Follow the list screen's log
  watchers logs -f

  # Show the daemon log
  watchers logs --component watchersd`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := logging.LogFilePath(component)
			if !follow {
				f, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("no log file for %s: %w", component, err)
				}
				defer f.Close()
				_, err = io.Copy(cmd.OutOrStdout(), bufio.NewReader(f))
				return err
			}

			t, err := tail.TailFile(path, tail.Config{
				Follow:   true,
				ReOpen:   true,
				Location: &tail.SeekInfo{Offset: 0, Whence: io.SeekStart},
				Logger:   stdlog.New(io.Discard, "", 0),
			})
			if err != nil {
				return fmt.Errorf("cannot tail %s: %w", path, err)
			}
			defer t.Cleanup()

			ctx := contextOf(cmd)
			for {
				select {
				case <-ctx.Done():
					return t.Stop()
				case line, ok := <-t.Lines:
					if !ok {
						return t.Err()
					}
					if line.Err != nil {
						return line.Err
					}
					fmt.Fprintln(cmd.OutOrStdout(), line.Text)
				}
			}
		},
	}
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Follow log output")
	cmd.Flags().StringVar(&component, "component", "watchers", "Component whose log to show")
	return cmd
}

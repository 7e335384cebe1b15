package cmd

import (
	"github.com/spf13/cobra"

	"github.com/grovetools/watchers/pkg/paths"
)

// PathsOutput lists the directories and files the watchers tools use.
type PathsOutput struct {
	ConfigDir string `json:"config_dir"`
	DataDir   string `json:"data_dir"`
	StateDir  string `json:"state_dir"`
	CacheDir  string `json:"cache_dir"`
	Database  string `json:"database"`
	Socket    string `json:"socket"`
	StateFile string `json:"state_file"`
	LogDir    string `json:"log_dir"`
}

func NewPathsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print the paths used by watchers as JSON",
		Long: `Print the paths used by watchers as JSON.

Set WATCHERS_HOME to keep everything under a single directory, otherwise
the XDG base directories are used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd, PathsOutput{
				ConfigDir: paths.ConfigDir(),
				DataDir:   paths.DataDir(),
				StateDir:  paths.StateDir(),
				CacheDir:  paths.CacheDir(),
				Database:  paths.DatabasePath(),
				Socket:    paths.SocketPath(),
				StateFile: paths.StateFilePath(),
				LogDir:    paths.LogDir(),
			})
		},
	}
}

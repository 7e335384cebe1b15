package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/grovetools/watchers/cli"
	"github.com/grovetools/watchers/errors"
	"github.com/grovetools/watchers/pkg/models"
	"github.com/grovetools/watchers/pkg/watchlist"
	"github.com/grovetools/watchers/tui/components/table"
)

// NewTemplateCmd returns the `template` command group.
func NewTemplateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Manage input, condition and transform templates",
	}
	cmd.AddCommand(newTemplateListCmd())
	cmd.AddCommand(newTemplateAddCmd())
	return cmd
}

func newTemplateListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached templates per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, nil)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx, cancel := s.call()
			defer cancel()
			cache, err := watchlist.NewTemplateLoader(s.client, nil, s.logger).Load(ctx)
			if err != nil {
				return err
			}

			if cli.GetOptions(cmd).JSONOutput {
				return printJSON(cmd, cache)
			}

			var rows [][]string
			for _, category := range models.AllTemplateCategories {
				ids := make([]string, 0, len(cache[category]))
				for id := range cache[category] {
					ids = append(ids, id)
				}
				sort.Strings(ids)
				for _, id := range ids {
					rows = append(rows, []string{string(category), id, cache[category][id].Title})
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), table.SimpleTable([]string{"CATEGORY", "ID", "TITLE"}, rows))
			return nil
		},
	}
}

func newTemplateAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <category> <file.json>",
		Short: "Add or replace a template",
		Long: `Add or replace a template. The file holds a JSON object with "id",
an optional "title" and the "payload" to copy into new watchers.

Examples:
  watchers template add input http-input.json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := models.ParseTemplateCategory(args[0])
			if err != nil {
				return errors.InvalidInput("category", err.Error())
			}
			data, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[1], err)
			}
			var t models.Template
			if err := json.Unmarshal(data, &t); err != nil {
				return errors.InvalidInput("template", err.Error())
			}
			if t.ID == "" {
				return errors.InvalidInput("id", "must not be empty")
			}
			t.Category = category

			s, err := openSession(cmd, nil)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx, cancel := s.call()
			defer cancel()
			if err := s.client.SaveTemplate(ctx, t); err != nil {
				return errors.RemoteFailure("save template", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s template %q\n", category, t.ID)
			return nil
		},
	}
}

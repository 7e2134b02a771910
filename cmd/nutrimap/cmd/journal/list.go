package journal

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carebridge/nutrimap/cmd/application"
	"github.com/carebridge/nutrimap/internal/cmd/cmdutil"
	"github.com/carebridge/nutrimap/internal/cmd/output"
	"github.com/carebridge/nutrimap/internal/cmd/table"
)

func newListCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the entries of a day",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, app)
		},
	}

	cmd.Flags().String("date", "", "day to list as YYYY-MM-DD (default today)")

	return cmd
}

func runList(cmd *cobra.Command, app application.Application) error {
	day, err := cmd.Flags().GetString("date")
	if err != nil {
		return err
	}

	journal, err := app.Journal()
	if err != nil {
		return err
	}

	ctx, cancel := cmdutil.Context(cmd, app)
	defer cancel()

	entries, err := journal.Entries(ctx, day)
	if err != nil {
		return err
	}

	format := cmdutil.Format(app)
	out := cmd.OutOrStdout()
	if err := output.Write(out, format, entries, table.EntriesToTableData(entries)); err != nil {
		return err
	}
	if cmdutil.IsTable(format) {
		fmt.Fprintf(out, "\n%d entries\n", len(entries))
	}
	return nil
}

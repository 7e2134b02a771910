package journal

import (
	"github.com/spf13/cobra"

	"github.com/carebridge/nutrimap/cmd/application"
	"github.com/carebridge/nutrimap/internal/cmd/cmdutil"
	"github.com/carebridge/nutrimap/internal/cmd/output"
)

func newSummaryCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Compare a day's total with the daily need",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSummary(cmd, app)
		},
	}

	cmd.Flags().String("date", "", "day to summarize as YYYY-MM-DD (default today)")

	return cmd
}

func runSummary(cmd *cobra.Command, app application.Application) error {
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

	summary, err := journal.Summary(ctx, day)
	if err != nil {
		return err
	}

	return output.Write(cmd.OutOrStdout(), cmdutil.Format(app), summary, summary)
}

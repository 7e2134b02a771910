// Package journal provides the consumption journal commands.
package journal

import (
	"github.com/spf13/cobra"

	"github.com/carebridge/nutrimap/cmd/application"
)

// NewCommand creates the journal command and its subcommands.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "journal",
		GroupID: "tracking",
		Short:   "Record consumed foods and review daily totals",
		Long: `Journal keeps a local SQLite log of consumed foods.

Entries are keyed by calendar day. The daily summary compares the day's
total with the need from the most recently saved profile
(see "nutrimap needs --save").`,
	}

	cmd.AddCommand(newAddCommand(app))
	cmd.AddCommand(newListCommand(app))
	cmd.AddCommand(newSummaryCommand(app))

	return cmd
}

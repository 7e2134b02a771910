package app

import (
	"github.com/spf13/cobra"

	"github.com/carebridge/nutrimap/cmd/nutrimap/cmd/details"
	"github.com/carebridge/nutrimap/cmd/nutrimap/cmd/journal"
	"github.com/carebridge/nutrimap/cmd/nutrimap/cmd/needs"
	"github.com/carebridge/nutrimap/cmd/nutrimap/cmd/search"
	"github.com/carebridge/nutrimap/cmd/nutrimap/cmd/serve"
	"github.com/carebridge/nutrimap/cmd/nutrimap/cmd/version"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(search.NewCommand(a))
	rootCmd.AddCommand(details.NewCommand(a))
	rootCmd.AddCommand(serve.NewCommand(a))

	// Tracking commands
	rootCmd.AddCommand(needs.NewCommand(a))
	rootCmd.AddCommand(journal.NewCommand(a))

	// Utility commands
	rootCmd.AddCommand(version.NewCommand(a))
}

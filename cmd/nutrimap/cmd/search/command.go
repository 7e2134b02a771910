// Package search provides the food search command.
package search

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/carebridge/nutrimap"
	"github.com/carebridge/nutrimap/cmd/application"
	"github.com/carebridge/nutrimap/internal/cmd/cmdutil"
	"github.com/carebridge/nutrimap/internal/cmd/emoji"
	"github.com/carebridge/nutrimap/internal/cmd/output"
	"github.com/carebridge/nutrimap/internal/cmd/table"
	"github.com/carebridge/nutrimap/pkg/constants"
	"github.com/carebridge/nutrimap/pkg/errors"
	"github.com/carebridge/nutrimap/pkg/sources"
)

// NewCommand creates the search command.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "search <query>",
		GroupID: "core",
		Short:   "Search USDA FoodData Central for foods",
		Long: `Search queries USDA FoodData Central for foods matching the query.

Queries shorter than two characters return no results without contacting
the provider. Use the FDC ID of a result with "nutrimap details".`,
		Example: `  nutrimap search apple
  nutrimap search "greek yogurt" --page-size 10
  nutrimap search banana -o json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, app)
		},
	}

	cmd.Flags().Int("page-size", 0, "number of results (default from config)")
	cmd.Flags().Int("page", 1, "results page, starting at 1")

	return cmd
}

func run(cmd *cobra.Command, args []string, app application.Application) error {
	query := strings.Join(args, " ")

	pageSize, err := cmd.Flags().GetInt("page-size")
	if err != nil {
		return err
	}
	var opts []sources.SearchOption
	if cmd.Flags().Changed("page-size") {
		if pageSize <= 0 || pageSize > constants.MaxPageSize {
			return errors.NewValidationError("page-size", pageSize, "must be between 1 and 200")
		}
		opts = append(opts, sources.WithPageSize(pageSize))
	}
	page, err := cmd.Flags().GetInt("page")
	if err != nil {
		return err
	}
	if page < 1 {
		return errors.NewValidationError("page", page, "must be at least 1")
	}
	opts = append(opts, sources.WithPageNumber(page))

	client, err := app.Client()
	if err != nil {
		return err
	}

	ctx, cancel := cmdutil.Context(cmd, app)
	defer cancel()

	resp, err := client.Search(ctx, query, opts...)
	if err != nil {
		return err
	}

	format := cmdutil.Format(app)
	out := cmd.OutOrStdout()
	if err := output.Write(out, format, resp, table.SearchToTableData(resp, format == output.FormatWide)); err != nil {
		return err
	}

	if cmdutil.IsTable(format) {
		if !nutrimap.IsSearchable(query) {
			fmt.Fprintf(out, "\n%s Queries need at least %d characters\n", emoji.Info, constants.MinQueryLength)
		} else {
			fmt.Fprintf(out, "\nShowing %d of %d results\n", len(resp.Foods), resp.TotalHits)
		}
	}
	return nil
}

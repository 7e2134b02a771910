// Package details provides the reconciled food details command.
package details

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/carebridge/nutrimap/cmd/application"
	"github.com/carebridge/nutrimap/internal/cmd/cmdutil"
	"github.com/carebridge/nutrimap/internal/cmd/emoji"
	"github.com/carebridge/nutrimap/internal/cmd/output"
	"github.com/carebridge/nutrimap/internal/cmd/table"
	"github.com/carebridge/nutrimap/pkg/errors"
	"github.com/carebridge/nutrimap/pkg/nutrition"
)

// NewCommand creates the details command.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "details <fdc-id>",
		Aliases: []string{"show"},
		GroupID: "core",
		Short:   "Show reconciled nutrition for a food",
		Long: `Details fetches a food from USDA FoodData Central and, when configured,
looks the same food up in Nutritionix and Spoonacular by name. The answers
are reconciled into a best estimate with a confidence rating.

The secondary lookups use --name, or the USDA description when --name is
not given.`,
		Example: `  nutrimap details 171688
  nutrimap details 171688 --name "apple"
  nutrimap details 171688 -o yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, app)
		},
	}

	cmd.Flags().String("name", "", "food name for secondary provider lookups (default: the USDA description)")
	cmd.Flags().String("category", "", "food category, shown with the record")

	return cmd
}

func run(cmd *cobra.Command, args []string, app application.Application) error {
	food, err := identity(cmd, args[0])
	if err != nil {
		return err
	}

	client, err := app.Client()
	if err != nil {
		return err
	}

	ctx, cancel := cmdutil.Context(cmd, app)
	defer cancel()

	record, err := client.FoodDetails(ctx, food)
	if err != nil {
		return err
	}

	format := cmdutil.Format(app)
	out := cmd.OutOrStdout()
	if err := output.Write(out, format, record, table.NutritionToTableData(record)); err != nil {
		return err
	}

	if cmdutil.IsTable(format) {
		fmt.Fprintln(out)
		for _, line := range table.SummaryLines(record) {
			fmt.Fprintln(out, line)
		}
		if record.Degraded {
			fmt.Fprintf(out, "%s Secondary providers were skipped after a reference failure\n", emoji.Warning)
		}
	}
	return nil
}

// identity builds the food identity from the argument and flags.
func identity(cmd *cobra.Command, arg string) (nutrition.FoodIdentity, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return nutrition.FoodIdentity{}, errors.NewValidationError("fdc-id", arg, "must be a positive integer")
	}
	name, err := cmd.Flags().GetString("name")
	if err != nil {
		return nutrition.FoodIdentity{}, err
	}
	category, err := cmd.Flags().GetString("category")
	if err != nil {
		return nutrition.FoodIdentity{}, err
	}
	return nutrition.FoodIdentity{ID: id, Name: name, Category: category}, nil
}

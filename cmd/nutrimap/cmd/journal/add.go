package journal

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carebridge/nutrimap/cmd/application"
	"github.com/carebridge/nutrimap/internal/cmd/cmdutil"
	"github.com/carebridge/nutrimap/internal/cmd/emoji"
	"github.com/carebridge/nutrimap/internal/cmd/output"
	"github.com/carebridge/nutrimap/internal/cmd/table"
	"github.com/carebridge/nutrimap/internal/store"
	"github.com/carebridge/nutrimap/pkg/errors"
	"github.com/carebridge/nutrimap/pkg/nutrition"
)

func newAddCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a consumed food",
		Long: `Add records a consumed food.

When --calories-per-100g is omitted the food is looked up by --fdc-id and
the reconciled best estimate is used, together with its confidence and
calorie sources. --name is passed to the secondary providers as in
"nutrimap details".`,
		Example: `  nutrimap journal add --fdc-id 171688 --name apple --grams 180
  nutrimap journal add --description "Homemade soup" --grams 300 --calories-per-100g 45`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAdd(cmd, app)
		},
	}

	cmd.Flags().Int64("fdc-id", 0, "FoodData Central id of the food")
	cmd.Flags().String("name", "", "food name for secondary provider lookups")
	cmd.Flags().String("description", "", "description stored with the entry (default: the USDA description)")
	cmd.Flags().Float64("grams", 0, "amount consumed in grams")
	cmd.Flags().Float64("calories-per-100g", 0, "energy density; looked up when omitted")

	return cmd
}

func runAdd(cmd *cobra.Command, app application.Application) error {
	flags := cmd.Flags()
	fdcID, err := flags.GetInt64("fdc-id")
	if err != nil {
		return err
	}
	name, err := flags.GetString("name")
	if err != nil {
		return err
	}
	description, err := flags.GetString("description")
	if err != nil {
		return err
	}
	grams, err := flags.GetFloat64("grams")
	if err != nil {
		return err
	}
	per100g, err := flags.GetFloat64("calories-per-100g")
	if err != nil {
		return err
	}

	ctx, cancel := cmdutil.Context(cmd, app)
	defer cancel()

	entry := store.NewEntry{
		FdcID:           fdcID,
		Description:     description,
		Grams:           grams,
		CaloriesPer100g: per100g,
	}

	if !flags.Changed("calories-per-100g") {
		if fdcID <= 0 {
			return errors.NewValidationError("fdc-id", fdcID, "is required when --calories-per-100g is omitted")
		}
		client, err := app.Client()
		if err != nil {
			return err
		}
		record, err := client.FoodDetails(ctx, nutrition.FoodIdentity{ID: fdcID, Name: name})
		if err != nil {
			return err
		}
		entry.CaloriesPer100g = record.Best.Calories
		entry.Confidence = record.Best.Confidence
		entry.Sources = record.Best.CaloriesSources
		if entry.Description == "" {
			entry.Description = record.Reference.Description
		}
	}

	journal, err := app.Journal()
	if err != nil {
		return err
	}
	saved, err := journal.AddEntry(ctx, entry)
	if err != nil {
		return err
	}

	format := cmdutil.Format(app)
	out := cmd.OutOrStdout()
	if err := output.Write(out, format, saved, table.EntriesToTableData([]store.Entry{*saved})); err != nil {
		return err
	}
	if cmdutil.IsTable(format) {
		fmt.Fprintf(out, "\n%s Recorded %s kcal\n", emoji.Success, table.FormatValue(&saved.Calories))
	}
	return nil
}

// Package needs provides the daily calorie needs command.
package needs

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carebridge/nutrimap/cmd/application"
	"github.com/carebridge/nutrimap/internal/cmd/cmdutil"
	"github.com/carebridge/nutrimap/internal/cmd/emoji"
	"github.com/carebridge/nutrimap/internal/cmd/output"
	"github.com/carebridge/nutrimap/pkg/needs"
)

// NewCommand creates the needs command.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "needs",
		GroupID: "tracking",
		Short:   "Estimate BMI and daily calorie needs",
		Long: `Needs computes BMI and a sedentary daily calorie estimate from height,
weight, age and gender using the Mifflin-St Jeor equation.

With --save the profile is stored in the journal and used by
"nutrimap journal summary".`,
		Example: `  nutrimap needs --height 180 --weight 80 --age 30 --gender male
  nutrimap needs --height 165 --weight 60 --age 28 --save`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, app)
		},
	}

	cmd.Flags().Float64("height", 0, "height in centimeters")
	cmd.Flags().Float64("weight", 0, "weight in kilograms")
	cmd.Flags().Int("age", 0, "age in years")
	cmd.Flags().String("gender", string(needs.Female), "male or female")
	cmd.Flags().Bool("save", false, "store the profile in the journal")

	return cmd
}

func run(cmd *cobra.Command, app application.Application) error {
	profile, err := profileFromFlags(cmd)
	if err != nil {
		return err
	}

	assessment, err := app.Calculator().Assess(profile)
	if err != nil {
		return err
	}

	save, err := cmd.Flags().GetBool("save")
	if err != nil {
		return err
	}

	var result any = assessment
	if save {
		journal, err := app.Journal()
		if err != nil {
			return err
		}
		ctx, cancel := cmdutil.Context(cmd, app)
		defer cancel()

		record, err := journal.SaveProfile(ctx, profile, assessment)
		if err != nil {
			return err
		}
		result = record
	}

	format := cmdutil.Format(app)
	out := cmd.OutOrStdout()
	if err := output.Write(out, format, result, assessment); err != nil {
		return err
	}
	if save && cmdutil.IsTable(format) {
		fmt.Fprintf(out, "\n%s Profile saved\n", emoji.Success)
	}
	return nil
}

func profileFromFlags(cmd *cobra.Command) (needs.Profile, error) {
	height, err := cmd.Flags().GetFloat64("height")
	if err != nil {
		return needs.Profile{}, err
	}
	weight, err := cmd.Flags().GetFloat64("weight")
	if err != nil {
		return needs.Profile{}, err
	}
	age, err := cmd.Flags().GetInt("age")
	if err != nil {
		return needs.Profile{}, err
	}
	gender, err := cmd.Flags().GetString("gender")
	if err != nil {
		return needs.Profile{}, err
	}
	return needs.Profile{
		HeightCM: height,
		WeightKG: weight,
		Age:      age,
		Gender:   needs.ParseGender(gender),
	}, nil
}

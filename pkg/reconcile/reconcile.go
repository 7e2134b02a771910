// Package reconcile combines the answers of the nutrition providers into one
// confidence-rated record.
//
// Reconciliation is a pure function of the three raw payloads: it never
// fails, never performs I/O and returns a freshly allocated record, so
// reconciling the same payloads twice yields deeply equal results.
package reconcile

import (
	"github.com/carebridge/nutrimap/pkg/extract"
	"github.com/carebridge/nutrimap/pkg/nutrition"
	"github.com/carebridge/nutrimap/pkg/types"
)

// Reconciler turns provider payloads into reconciled records.
type Reconciler interface {
	// Reconcile builds a record from whatever providers answered.
	Reconcile(payloads nutrition.Payloads) *nutrition.ReconciledNutrition

	// Fallback builds a degraded, reference-only record.
	Fallback(identity nutrition.FoodIdentity, details *nutrition.FoodDetails) *nutrition.ReconciledNutrition
}

// reconciler is the default implementation of Reconciler.
type reconciler struct {
	threshold float64
}

// New creates a new Reconciler with options.
func New(opts ...Option) (Reconciler, error) {
	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &reconciler{threshold: options.threshold}, nil
}

// Default is a Reconciler with default options.
var Default Reconciler = &reconciler{threshold: defaultOptions().threshold}

// Reconcile reconciles payloads with the default options.
func Reconcile(payloads nutrition.Payloads) *nutrition.ReconciledNutrition {
	return Default.Reconcile(payloads)
}

// Fallback builds a reference-only record with the default options.
func Fallback(identity nutrition.FoodIdentity, details *nutrition.FoodDetails) *nutrition.ReconciledNutrition {
	return Default.Fallback(identity, details)
}

// Reconcile implements Reconciler.
func (r *reconciler) Reconcile(payloads nutrition.Payloads) *nutrition.ReconciledNutrition {
	reference := referenceRecord(payloads.Identity, payloads.Reference)

	readings := []reading{
		{provider: types.USDA, value: extract.ReferenceCalories(payloads.Reference)},
		{provider: types.Nutritionix, value: extract.NutritionixValue(payloads.Nutritionix, types.Calories)},
		{provider: types.Spoonacular, value: extract.SpoonacularNutrient(payloads.Spoonacular, types.Calories)},
	}
	cal := r.calories(readings)

	secondary := make([]nutrition.SecondaryRecord, 0, 2)
	if payloads.Nutritionix != nil {
		secondary = append(secondary, nutritionixRecord(payloads.Nutritionix, cal.avg))
	}
	if payloads.Spoonacular != nil {
		secondary = append(secondary, spoonacularRecord(payloads.Spoonacular, cal.avg))
	}

	best := nutrition.Best{
		Calories:        cal.best,
		CaloriesSources: cal.sources,
		Confidence:      cal.confidence,
		Discrepancies:   cal.discrepancies,
		Provenance:      map[types.Nutrient][]types.ProviderID{types.Calories: cal.used},
	}
	for _, m := range types.Macros() {
		value, providers := macro(secondary, m)
		if value == nil {
			continue
		}
		switch m {
		case types.Protein:
			best.Protein = value
		case types.Fat:
			best.Fat = value
		case types.Carbs:
			best.Carbs = value
		}
		best.Provenance[m] = providers
	}

	return &nutrition.ReconciledNutrition{
		Reference: reference,
		Secondary: secondary,
		Best:      best,
	}
}

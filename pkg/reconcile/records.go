package reconcile

import (
	"math"
	"slices"

	"github.com/carebridge/nutrimap/internal/utils/ptr"
	"github.com/carebridge/nutrimap/pkg/constants"
	"github.com/carebridge/nutrimap/pkg/extract"
	"github.com/carebridge/nutrimap/pkg/nutrition"
	"github.com/carebridge/nutrimap/pkg/types"
)

// referenceRecord builds the reference block. Identity fields come from the
// details when present and from the selected identity otherwise.
func referenceRecord(identity nutrition.FoodIdentity, details *nutrition.FoodDetails) nutrition.ReferenceRecord {
	rec := nutrition.ReferenceRecord{
		FdcID:       identity.ID,
		Description: identity.Name,
		DataType:    identity.Category,
		Ingredients: extract.Ingredients(details),
		Calories:    ptr.Deref(extract.ReferenceCalories(details), 0),
		ServingSize: extract.ReferenceServingSize(details),
		Values:      extract.ReferenceValues(details),
		Nutrients:   []nutrition.FoodNutrient{},
	}
	if details == nil {
		return rec
	}
	if details.FdcID != 0 {
		rec.FdcID = details.FdcID
	}
	if details.Description != "" {
		rec.Description = details.Description
	}
	if details.DataType != "" {
		rec.DataType = details.DataType
	}
	rec.Nutrients = cloneNutrients(details.FoodNutrients)
	return rec
}

func nutritionixRecord(food *nutrition.NutritionixFood, avg float64) nutrition.SecondaryRecord {
	rec := nutrition.SecondaryRecord{
		Provider:    types.Nutritionix,
		Calories:    extract.NutritionixValue(food, types.Calories),
		Protein:     extract.NutritionixValue(food, types.Protein),
		Fat:         extract.NutritionixValue(food, types.Fat),
		Carbs:       extract.NutritionixValue(food, types.Carbs),
		Fiber:       extract.NutritionixValue(food, types.Fiber),
		Sugar:       extract.NutritionixValue(food, types.Sugar),
		Sodium:      extract.NutritionixValue(food, types.Sodium),
		ServingSize: extract.NutritionixServingSize(food),
	}
	rec.Confidence = score(rec.Calories, avg)
	return rec
}

func spoonacularRecord(ingredient *nutrition.SpoonacularIngredient, avg float64) nutrition.SecondaryRecord {
	rec := nutrition.SecondaryRecord{
		Provider:    types.Spoonacular,
		Calories:    extract.SpoonacularNutrient(ingredient, types.Calories),
		Protein:     extract.SpoonacularNutrient(ingredient, types.Protein),
		Fat:         extract.SpoonacularNutrient(ingredient, types.Fat),
		Carbs:       extract.SpoonacularNutrient(ingredient, types.Carbs),
		Fiber:       extract.SpoonacularNutrient(ingredient, types.Fiber),
		Sugar:       extract.SpoonacularNutrient(ingredient, types.Sugar),
		Sodium:      extract.SpoonacularNutrient(ingredient, types.Sodium),
		ServingSize: extract.SpoonacularServingSize(ingredient),
		Nutrients:   slices.Clone(ingredient.Nutrition.Nutrients),
	}
	rec.Confidence = score(rec.Calories, avg)
	return rec
}

// macro averages a macro over the secondary records that report it.
// A present zero counts as a reading.
func macro(secondary []nutrition.SecondaryRecord, nutrient types.Nutrient) (*float64, []types.ProviderID) {
	var values []float64
	var providers []types.ProviderID
	for _, rec := range secondary {
		if v := rec.Value(nutrient); v != nil {
			values = append(values, *v)
			providers = append(providers, rec.Provider)
		}
	}
	if len(values) == 0 {
		return nil, nil
	}
	return ptr.Float64(mean(values)), providers
}

func cloneNutrients(in []nutrition.FoodNutrient) []nutrition.FoodNutrient {
	out := make([]nutrition.FoodNutrient, len(in))
	for i, n := range in {
		n.Value = ptr.Clone(n.Value)
		out[i] = n
	}
	return out
}

// Fallback implements Reconciler.
func (r *reconciler) Fallback(identity nutrition.FoodIdentity, details *nutrition.FoodDetails) *nutrition.ReconciledNutrition {
	reference := referenceRecord(identity, details)
	return &nutrition.ReconciledNutrition{
		Reference: reference,
		Secondary: []nutrition.SecondaryRecord{},
		Best: nutrition.Best{
			Calories:        math.Max(0, reference.Calories),
			CaloriesSources: []types.ProviderID{types.USDA},
			Confidence:      nutrition.ConfidenceLow,
			Discrepancies:   []string{constants.ReferenceOnlyNote},
			Provenance:      map[types.Nutrient][]types.ProviderID{types.Calories: {types.USDA}},
		},
		Degraded: true,
	}
}

// Package extract pulls normalized nutrient values out of raw provider
// payloads. Every function is pure and returns nil when the provider gave
// no value; a present zero is returned as a real reading.
package extract

import (
	"strings"

	"github.com/carebridge/nutrimap/internal/utils/ptr"
	"github.com/carebridge/nutrimap/pkg/constants"
	"github.com/carebridge/nutrimap/pkg/nutrition"
	"github.com/carebridge/nutrimap/pkg/types"
)

// FoodData Central nutrient ids and legacy numbers for the tracked macros.
// Rows are matched on either.
var referenceNutrients = map[types.Nutrient]struct {
	id     int
	number string
}{
	types.Protein: {1003, "203"},
	types.Fat:     {1004, "204"},
	types.Carbs:   {1005, "205"},
	types.Fiber:   {1079, "291"},
	types.Sugar:   {2000, "269"},
	types.Sodium:  {1093, "307"},
}

// ReferenceCalories returns the energy value of a reference record: the
// first nutrient whose id is 208, whose name contains "energy", or whose
// number is "208".
func ReferenceCalories(details *nutrition.FoodDetails) *float64 {
	if details == nil {
		return nil
	}
	return ReferenceNutrientCalories(details.FoodNutrients)
}

// ReferenceNutrientCalories applies the ReferenceCalories rule to a bare
// nutrient list, as found on search results.
func ReferenceNutrientCalories(nutrients []nutrition.FoodNutrient) *float64 {
	for _, n := range nutrients {
		if isEnergy(n) {
			return ptr.Clone(n.Value)
		}
	}
	return nil
}

func isEnergy(n nutrition.FoodNutrient) bool {
	return n.NutrientID == constants.EnergyNutrientID ||
		strings.Contains(strings.ToLower(n.NutrientName), "energy") ||
		n.NutrientNumber == constants.EnergyNutrientNumber
}

// ReferenceValue returns a macro from a reference record.
func ReferenceValue(details *nutrition.FoodDetails, nutrient types.Nutrient) *float64 {
	if details == nil {
		return nil
	}
	if nutrient == types.Calories {
		return ReferenceCalories(details)
	}
	key, ok := referenceNutrients[nutrient]
	if !ok {
		return nil
	}
	for _, n := range details.FoodNutrients {
		if n.NutrientID == key.id || n.NutrientNumber == key.number {
			return ptr.Clone(n.Value)
		}
	}
	return nil
}

// ReferenceValues returns every tracked nutrient present in a reference record.
func ReferenceValues(details *nutrition.FoodDetails) nutrition.Values {
	values := nutrition.Values{}
	for _, n := range types.Nutrients() {
		if v := ReferenceValue(details, n); v != nil {
			values[n] = *v
		}
	}
	return values
}

// NutritionixValue returns the nf_* field for nutrient.
func NutritionixValue(food *nutrition.NutritionixFood, nutrient types.Nutrient) *float64 {
	if food == nil {
		return nil
	}
	var v *float64
	switch nutrient {
	case types.Calories:
		v = food.Calories
	case types.Protein:
		v = food.Protein
	case types.Fat:
		v = food.TotalFat
	case types.Carbs:
		v = food.TotalCarbohydrate
	case types.Fiber:
		v = food.DietaryFiber
	case types.Sugar:
		v = food.Sugars
	case types.Sodium:
		v = food.Sodium
	}
	return ptr.Clone(v)
}

// spoonacularNames maps nutrients to Spoonacular display names.
var spoonacularNames = map[types.Nutrient]string{
	types.Calories: "Calories",
	types.Protein:  "Protein",
	types.Fat:      "Fat",
	types.Carbs:    "Carbohydrates",
	types.Fiber:    "Fiber",
	types.Sugar:    "Sugar",
	types.Sodium:   "Sodium",
}

// SpoonacularName returns the display name Spoonacular uses for nutrient.
func SpoonacularName(nutrient types.Nutrient) string {
	return spoonacularNames[nutrient]
}

// SpoonacularValue scans the ingredient's nutrient list for an exact name match.
func SpoonacularValue(ingredient *nutrition.SpoonacularIngredient, name string) *float64 {
	if ingredient == nil {
		return nil
	}
	for _, n := range ingredient.Nutrition.Nutrients {
		if n.Name == name {
			return ptr.Float64(n.Amount)
		}
	}
	return nil
}

// SpoonacularNutrient returns the value for a tracked nutrient.
func SpoonacularNutrient(ingredient *nutrition.SpoonacularIngredient, nutrient types.Nutrient) *float64 {
	name, ok := spoonacularNames[nutrient]
	if !ok {
		return nil
	}
	return SpoonacularValue(ingredient, name)
}

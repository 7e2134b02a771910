package extract

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/carebridge/nutrimap/pkg/constants"
	"github.com/carebridge/nutrimap/pkg/nutrition"
)

// ReferenceServingSize renders "{size}{unit}", or "Per 100g" when the
// record has no serving size.
func ReferenceServingSize(details *nutrition.FoodDetails) string {
	if details == nil || details.ServingSize == nil || *details.ServingSize == 0 {
		return constants.Per100g
	}
	return formatNumber(*details.ServingSize) + details.ServingSizeUnit
}

// NutritionixServingSize renders "{qty} {unit}".
func NutritionixServingSize(food *nutrition.NutritionixFood) string {
	if food == nil {
		return ""
	}
	qty := ""
	if food.ServingQty != nil {
		qty = formatNumber(*food.ServingQty)
	}
	return strings.TrimSpace(fmt.Sprintf("%s %s", qty, food.ServingUnit))
}

// SpoonacularServingSize renders the weight per serving, falling back to
// the requested amount and then to 100 grams.
func SpoonacularServingSize(ingredient *nutrition.SpoonacularIngredient) string {
	if ingredient == nil {
		return ""
	}
	if w := ingredient.Nutrition.WeightPerServing; w != nil && w.Amount > 0 {
		return formatNumber(w.Amount) + " " + w.Unit
	}
	if ingredient.Amount != nil && ingredient.Unit != "" {
		return formatNumber(*ingredient.Amount) + " " + ingredient.Unit
	}
	return "100 g"
}

// Ingredients returns the ingredient list or "Not available".
func Ingredients(details *nutrition.FoodDetails) string {
	if details == nil || strings.TrimSpace(details.Ingredients) == "" {
		return constants.NotAvailable
	}
	return details.Ingredients
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

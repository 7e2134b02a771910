package extract_test

import (
	"testing"

	"github.com/carebridge/nutrimap/internal/utils/ptr"
	"github.com/carebridge/nutrimap/pkg/extract"
	"github.com/carebridge/nutrimap/pkg/nutrition"
	"github.com/carebridge/nutrimap/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceCalories(t *testing.T) {
	tests := []struct {
		name      string
		nutrients []nutrition.FoodNutrient
		want      *float64
	}{
		{
			name:      "by id",
			nutrients: []nutrition.FoodNutrient{{NutrientID: 208, NutrientName: "Calories", Value: ptr.Float64(52)}},
			want:      ptr.Float64(52),
		},
		{
			name:      "by name case-insensitive",
			nutrients: []nutrition.FoodNutrient{{NutrientID: 1008, NutrientName: "ENERGY", Value: ptr.Float64(95)}},
			want:      ptr.Float64(95),
		},
		{
			name:      "by number",
			nutrients: []nutrition.FoodNutrient{{NutrientID: 9, NutrientName: "kcal", NutrientNumber: "208", Value: ptr.Float64(40)}},
			want:      ptr.Float64(40),
		},
		{
			name: "first match wins",
			nutrients: []nutrition.FoodNutrient{
				{NutrientID: 1003, NutrientName: "Protein", Value: ptr.Float64(1)},
				{NutrientID: 1008, NutrientName: "Energy", Value: ptr.Float64(52)},
				{NutrientID: 1062, NutrientName: "Energy", Value: ptr.Float64(218)},
			},
			want: ptr.Float64(52),
		},
		{
			name:      "present zero is kept",
			nutrients: []nutrition.FoodNutrient{{NutrientID: 1008, NutrientName: "Energy", Value: ptr.Float64(0)}},
			want:      ptr.Float64(0),
		},
		{
			name:      "not found",
			nutrients: []nutrition.FoodNutrient{{NutrientID: 1003, NutrientName: "Protein", Value: ptr.Float64(1)}},
			want:      nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extract.ReferenceCalories(&nutrition.FoodDetails{FoodNutrients: tt.nutrients})
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Nil(t, extract.ReferenceCalories(nil))
}

func TestReferenceValues(t *testing.T) {
	details := &nutrition.FoodDetails{FoodNutrients: []nutrition.FoodNutrient{
		{NutrientID: 1008, NutrientName: "Energy", Value: ptr.Float64(52)},
		{NutrientID: 1003, NutrientName: "Protein", NutrientNumber: "203", Value: ptr.Float64(0.26)},
		{NutrientName: "Total lipid (fat)", NutrientNumber: "204", Value: ptr.Float64(0.17)},
		{NutrientID: 1005, NutrientName: "Carbohydrate, by difference", Value: ptr.Float64(13.8)},
	}}

	values := extract.ReferenceValues(details)
	assert.Equal(t, nutrition.Values{
		types.Calories: 52,
		types.Protein:  0.26,
		types.Fat:      0.17,
		types.Carbs:    13.8,
	}, values)
	assert.Nil(t, extract.ReferenceValue(details, types.Sodium))
}

func TestNutritionixValue(t *testing.T) {
	food := &nutrition.NutritionixFood{
		Calories:          ptr.Float64(95),
		Protein:           ptr.Float64(0.5),
		TotalFat:          ptr.Float64(0),
		TotalCarbohydrate: ptr.Float64(25),
	}

	assert.Equal(t, 95.0, *extract.NutritionixValue(food, types.Calories))
	assert.Equal(t, 0.5, *extract.NutritionixValue(food, types.Protein))
	require.NotNil(t, extract.NutritionixValue(food, types.Fat))
	assert.Equal(t, 0.0, *extract.NutritionixValue(food, types.Fat))
	assert.Equal(t, 25.0, *extract.NutritionixValue(food, types.Carbs))
	assert.Nil(t, extract.NutritionixValue(food, types.Fiber))
	assert.Nil(t, extract.NutritionixValue(nil, types.Calories))

	// returned pointers are copies
	*extract.NutritionixValue(food, types.Calories) = 1
	assert.Equal(t, 95.0, *food.Calories)
}

func TestSpoonacularValue(t *testing.T) {
	ing := &nutrition.SpoonacularIngredient{Nutrition: nutrition.SpoonacularNutrition{
		Nutrients: []nutrition.NamedNutrient{
			{Name: "Calories", Amount: 52, Unit: "kcal"},
			{Name: "Protein", Amount: 0.3, Unit: "g"},
			{Name: "Carbohydrates", Amount: 14, Unit: "g"},
			{Name: "Net Carbohydrates", Amount: 11.5, Unit: "g"},
		},
	}}

	assert.Equal(t, 52.0, *extract.SpoonacularValue(ing, "Calories"))
	assert.Equal(t, 14.0, *extract.SpoonacularNutrient(ing, types.Carbs))
	assert.Nil(t, extract.SpoonacularValue(ing, "calories"), "match is exact")
	assert.Nil(t, extract.SpoonacularNutrient(ing, types.Fat))
	assert.Nil(t, extract.SpoonacularValue(nil, "Calories"))
	assert.Equal(t, "Carbohydrates", extract.SpoonacularName(types.Carbs))
}

func TestServingSizes(t *testing.T) {
	t.Run("reference with serving", func(t *testing.T) {
		d := &nutrition.FoodDetails{ServingSize: ptr.Float64(240), ServingSizeUnit: "ml"}
		assert.Equal(t, "240ml", extract.ReferenceServingSize(d))
	})
	t.Run("reference without serving", func(t *testing.T) {
		assert.Equal(t, "Per 100g", extract.ReferenceServingSize(&nutrition.FoodDetails{}))
		assert.Equal(t, "Per 100g", extract.ReferenceServingSize(nil))
	})
	t.Run("nutritionix", func(t *testing.T) {
		f := &nutrition.NutritionixFood{ServingQty: ptr.Float64(1), ServingUnit: "medium (3\" dia)"}
		assert.Equal(t, "1 medium (3\" dia)", extract.NutritionixServingSize(f))
	})
	t.Run("spoonacular", func(t *testing.T) {
		ing := &nutrition.SpoonacularIngredient{Amount: ptr.Float64(100), Unit: "grams"}
		assert.Equal(t, "100 grams", extract.SpoonacularServingSize(ing))
		ing.Nutrition.WeightPerServing = &nutrition.Weight{Amount: 182, Unit: "g"}
		assert.Equal(t, "182 g", extract.SpoonacularServingSize(ing))
		assert.Equal(t, "100 g", extract.SpoonacularServingSize(&nutrition.SpoonacularIngredient{}))
	})
	t.Run("ingredients", func(t *testing.T) {
		assert.Equal(t, "Not available", extract.Ingredients(&nutrition.FoodDetails{Ingredients: "  "}))
		assert.Equal(t, "APPLES", extract.Ingredients(&nutrition.FoodDetails{Ingredients: "APPLES"}))
	})
}

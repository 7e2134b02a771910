package nutrition

// NutritionixFood is the first food of a natural-language nutrients answer.
type NutritionixFood struct {
	FoodName           string   `json:"food_name"`
	BrandName          string   `json:"brand_name,omitempty"`
	ServingQty         *float64 `json:"serving_qty,omitempty"`
	ServingUnit        string   `json:"serving_unit,omitempty"`
	ServingWeightGrams *float64 `json:"serving_weight_grams,omitempty"`

	Calories          *float64 `json:"nf_calories,omitempty"`
	TotalFat          *float64 `json:"nf_total_fat,omitempty"`
	SaturatedFat      *float64 `json:"nf_saturated_fat,omitempty"`
	Cholesterol       *float64 `json:"nf_cholesterol,omitempty"`
	Sodium            *float64 `json:"nf_sodium,omitempty"`
	TotalCarbohydrate *float64 `json:"nf_total_carbohydrate,omitempty"`
	DietaryFiber      *float64 `json:"nf_dietary_fiber,omitempty"`
	Sugars            *float64 `json:"nf_sugars,omitempty"`
	Protein           *float64 `json:"nf_protein,omitempty"`
	Potassium         *float64 `json:"nf_potassium,omitempty"`

	FullNutrients []NutritionixNutrient `json:"full_nutrients,omitempty"`
}

// NutritionixNutrient is an entry of full_nutrients keyed by USDA attribute id.
type NutritionixNutrient struct {
	AttrID int     `json:"attr_id"`
	Value  float64 `json:"value"`
}

// NutritionixResponse is the body of POST /natural/nutrients.
type NutritionixResponse struct {
	Foods []NutritionixFood `json:"foods"`
}

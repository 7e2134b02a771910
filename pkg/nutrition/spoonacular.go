package nutrition

// SpoonacularIngredient is the ingredient information record for a
// 100 gram amount.
type SpoonacularIngredient struct {
	ID        int64                `json:"id"`
	Name      string               `json:"name"`
	Amount    *float64             `json:"amount,omitempty"`
	Unit      string               `json:"unit,omitempty"`
	Nutrition SpoonacularNutrition `json:"nutrition"`
}

// SpoonacularNutrition groups the named nutrient list.
type SpoonacularNutrition struct {
	Nutrients        []NamedNutrient   `json:"nutrients"`
	CaloricBreakdown *CaloricBreakdown `json:"caloricBreakdown,omitempty"`
	WeightPerServing *Weight           `json:"weightPerServing,omitempty"`
}

// NamedNutrient is a nutrient reported by display name.
type NamedNutrient struct {
	Name                string   `json:"name" yaml:"name"`
	Amount              float64  `json:"amount" yaml:"amount"`
	Unit                string   `json:"unit" yaml:"unit"`
	PercentOfDailyNeeds *float64 `json:"percentOfDailyNeeds,omitempty" yaml:"percent_of_daily_needs,omitempty"`
}

// CaloricBreakdown is the percentage of energy from each macro.
type CaloricBreakdown struct {
	PercentProtein float64 `json:"percentProtein"`
	PercentFat     float64 `json:"percentFat"`
	PercentCarbs   float64 `json:"percentCarbs"`
}

// Weight is an amount with a unit.
type Weight struct {
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// SpoonacularSearchResponse is the body of GET /ingredients/search.
type SpoonacularSearchResponse struct {
	Results      []SpoonacularSearchHit `json:"results"`
	TotalResults int                    `json:"totalResults"`
}

// SpoonacularSearchHit is one ingredient match.
type SpoonacularSearchHit struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

package nutrition

import "github.com/carebridge/nutrimap/pkg/types"

// Confidence rates how well the providers agreed on calories.
type Confidence string

// Confidence levels.
const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// String returns the string representation of a confidence level.
func (c Confidence) String() string {
	return string(c)
}

// Values holds the nutrients a provider answered for. A missing key means
// the provider gave no value; a zero entry is a real reading.
type Values map[types.Nutrient]float64

// Get returns the value for n, or nil when absent.
func (v Values) Get(n types.Nutrient) *float64 {
	x, ok := v[n]
	if !ok {
		return nil
	}
	return &x
}

// Payloads are the three raw provider answers for one food.
// Any of them may be nil.
type Payloads struct {
	Identity    FoodIdentity
	Reference   *FoodDetails
	Nutritionix *NutritionixFood
	Spoonacular *SpoonacularIngredient
}

// ReferenceRecord is the reference provider's contribution to a record.
type ReferenceRecord struct {
	FdcID       int64          `json:"fdcId" yaml:"fdc_id"`
	Description string         `json:"description" yaml:"description"`
	DataType    string         `json:"dataType,omitempty" yaml:"data_type,omitempty"`
	Ingredients string         `json:"ingredients" yaml:"ingredients"`
	Calories    float64        `json:"calories" yaml:"calories"`
	ServingSize string         `json:"servingSize" yaml:"serving_size"`
	Values      Values         `json:"values,omitempty" yaml:"values,omitempty"`
	Nutrients   []FoodNutrient `json:"nutrients" yaml:"nutrients"`
}

// SecondaryRecord is a best-effort provider's contribution to a record.
type SecondaryRecord struct {
	Provider    types.ProviderID `json:"source" yaml:"source"`
	Calories    *float64         `json:"calories" yaml:"calories"`
	Protein     *float64         `json:"protein" yaml:"protein"`
	Fat         *float64         `json:"fat" yaml:"fat"`
	Carbs       *float64         `json:"carbs" yaml:"carbs"`
	Fiber       *float64         `json:"fiber,omitempty" yaml:"fiber,omitempty"`
	Sugar       *float64         `json:"sugar,omitempty" yaml:"sugar,omitempty"`
	Sodium      *float64         `json:"sodium,omitempty" yaml:"sodium,omitempty"`
	ServingSize string           `json:"servingSize" yaml:"serving_size"`
	Nutrients   []NamedNutrient  `json:"nutrients,omitempty" yaml:"nutrients,omitempty"`
	Confidence  float64          `json:"confidence" yaml:"confidence"`
}

// Value returns the record's value for n, or nil when absent.
func (r SecondaryRecord) Value(n types.Nutrient) *float64 {
	switch n {
	case types.Calories:
		return r.Calories
	case types.Protein:
		return r.Protein
	case types.Fat:
		return r.Fat
	case types.Carbs:
		return r.Carbs
	case types.Fiber:
		return r.Fiber
	case types.Sugar:
		return r.Sugar
	case types.Sodium:
		return r.Sodium
	}
	return nil
}

// Best is the reconciled best estimate.
type Best struct {
	Calories        float64                               `json:"calories" yaml:"calories"`
	CaloriesSources []types.ProviderID                    `json:"caloriesSources" yaml:"calories_sources"`
	Protein         *float64                              `json:"protein" yaml:"protein"`
	Fat             *float64                              `json:"fat" yaml:"fat"`
	Carbs           *float64                              `json:"carbs" yaml:"carbs"`
	Confidence      Confidence                            `json:"confidence" yaml:"confidence"`
	Discrepancies   []string                              `json:"discrepancies" yaml:"discrepancies"`
	Provenance      map[types.Nutrient][]types.ProviderID `json:"provenance,omitempty" yaml:"provenance,omitempty"`
}

// ReconciledNutrition is the confidence-rated record for one food.
// It is built fresh for each selection and never mutated afterwards.
type ReconciledNutrition struct {
	Reference ReferenceRecord   `json:"usda" yaml:"usda"`
	Secondary []SecondaryRecord `json:"secondary" yaml:"secondary"`
	Best      Best              `json:"best" yaml:"best"`
	Degraded  bool              `json:"degraded" yaml:"degraded"`
}

// SecondaryFor returns the record for provider id, if present.
func (r *ReconciledNutrition) SecondaryFor(id types.ProviderID) (SecondaryRecord, bool) {
	for _, s := range r.Secondary {
		if s.Provider == id {
			return s, true
		}
	}
	return SecondaryRecord{}, false
}

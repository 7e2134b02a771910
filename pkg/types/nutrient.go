package types

import "slices"

// Nutrient names a nutritional quantity tracked across providers.
type Nutrient string

const (
	// Calories is food energy in kcal.
	Calories Nutrient = "calories"

	// Protein in grams.
	Protein Nutrient = "protein"

	// Fat is total lipid in grams.
	Fat Nutrient = "fat"

	// Carbs is total carbohydrate by difference in grams.
	Carbs Nutrient = "carbs"

	// Fiber is total dietary fiber in grams.
	Fiber Nutrient = "fiber"

	// Sugar is total sugars in grams.
	Sugar Nutrient = "sugar"

	// Sodium in milligrams.
	Sodium Nutrient = "sodium"
)

// Nutrients returns every tracked nutrient in display order.
func Nutrients() []Nutrient {
	return []Nutrient{Calories, Protein, Fat, Carbs, Fiber, Sugar, Sodium}
}

// Macros returns the nutrients reconciled into the best-estimate macro fields.
func Macros() []Nutrient {
	return []Nutrient{Protein, Fat, Carbs}
}

// String returns the string representation of a nutrient.
func (n Nutrient) String() string {
	return string(n)
}

// IsValid returns true if n is a tracked nutrient.
func (n Nutrient) IsValid() bool {
	return slices.Contains(Nutrients(), n)
}

// Unit returns the unit the nutrient is reported in.
func (n Nutrient) Unit() string {
	switch n {
	case Calories:
		return "kcal"
	case Sodium:
		return "mg"
	default:
		return "g"
	}
}

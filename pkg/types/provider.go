//nolint:revive // Package types provides common type definitions
package types

import "slices"

// ProviderID identifies a nutrition data provider.
// The string value is the provider's display name and appears in
// reconciled records as the calorie source list.
type ProviderID string

// String returns the string representation of a provider ID.
func (id ProviderID) String() string {
	return string(id)
}

// Known providers.
const (
	// USDA is FoodData Central, the reference provider.
	USDA ProviderID = "USDA"

	// Nutritionix is the natural-language nutrient API.
	Nutritionix ProviderID = "Nutritionix"

	// Spoonacular is the ingredient information API.
	Spoonacular ProviderID = "Spoonacular"
)

// ProviderIDs returns all providers in reconciliation order.
// Source lists are always emitted in this order.
func ProviderIDs() []ProviderID {
	return []ProviderID{USDA, Nutritionix, Spoonacular}
}

// SecondaryProviderIDs returns the best-effort providers in order.
func SecondaryProviderIDs() []ProviderID {
	return []ProviderID{Nutritionix, Spoonacular}
}

// IsValid returns true if the ProviderID is one of the defined constants.
func (id ProviderID) IsValid() bool {
	return slices.Contains(ProviderIDs(), id)
}

// IsReference reports whether id is the reference provider.
func (id ProviderID) IsReference() bool {
	return id == USDA
}

// Package mocks provides testify mocks of the provider interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/carebridge/nutrimap/pkg/nutrition"
	"github.com/carebridge/nutrimap/pkg/sources"
	"github.com/carebridge/nutrimap/pkg/types"
)

var (
	_ sources.Reference   = (*Reference)(nil)
	_ sources.Nutritionix = (*Secondary[nutrition.NutritionixFood])(nil)
	_ sources.Spoonacular = (*Secondary[nutrition.SpoonacularIngredient])(nil)
)

// Reference mocks sources.Reference. Search options are not passed to
// Called; expectations match on context and query only.
type Reference struct {
	mock.Mock
}

// ID implements sources.Reference.
func (m *Reference) ID() types.ProviderID {
	return types.USDA
}

// Search implements sources.Reference.
func (m *Reference) Search(ctx context.Context, query string, _ ...sources.SearchOption) (*nutrition.SearchResponse, error) {
	args := m.Called(ctx, query)
	if resp, ok := args.Get(0).(*nutrition.SearchResponse); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

// Details implements sources.Reference.
func (m *Reference) Details(ctx context.Context, fdcID int64) (*nutrition.FoodDetails, error) {
	args := m.Called(ctx, fdcID)
	if details, ok := args.Get(0).(*nutrition.FoodDetails); ok {
		return details, args.Error(1)
	}
	return nil, args.Error(1)
}

// Secondary mocks sources.Secondary for any payload type.
type Secondary[T any] struct {
	mock.Mock
	Provider types.ProviderID
}

// NewNutritionix returns a mock Nutritionix provider.
func NewNutritionix() *Secondary[nutrition.NutritionixFood] {
	return &Secondary[nutrition.NutritionixFood]{Provider: types.Nutritionix}
}

// NewSpoonacular returns a mock Spoonacular provider.
func NewSpoonacular() *Secondary[nutrition.SpoonacularIngredient] {
	return &Secondary[nutrition.SpoonacularIngredient]{Provider: types.Spoonacular}
}

// ID implements sources.Secondary.
func (m *Secondary[T]) ID() types.ProviderID {
	return m.Provider
}

// Lookup implements sources.Secondary.
func (m *Secondary[T]) Lookup(ctx context.Context, name string) (*T, error) {
	args := m.Called(ctx, name)
	if value, ok := args.Get(0).(*T); ok {
		return value, args.Error(1)
	}
	return nil, args.Error(1)
}

// Package sources defines the contracts nutrition providers implement.
//
// The reference provider is addressed by a stable numeric FoodData Central
// id and also serves text search. Secondary providers are addressed by the
// free-text food name and answer with their own payload shape:
//
//	var nix sources.Secondary[nutrition.NutritionixFood] = nutritionix.NewClient(cfg)
//	food, err := nix.Lookup(ctx, "apples, raw")
//	if food == nil && err == nil {
//	    // provider had no match
//	}
package sources

import (
	"context"

	"github.com/carebridge/nutrimap/pkg/constants"
	"github.com/carebridge/nutrimap/pkg/nutrition"
	"github.com/carebridge/nutrimap/pkg/types"
)

// Reference is the canonical, id-addressable provider.
type Reference interface {
	// ID returns the provider identifier.
	ID() types.ProviderID

	// Search finds foods matching a text query.
	Search(ctx context.Context, query string, opts ...SearchOption) (*nutrition.SearchResponse, error)

	// Details fetches the full record for a food. It returns nil, nil
	// when the provider has no record for fdcID.
	Details(ctx context.Context, fdcID int64) (*nutrition.FoodDetails, error)
}

// Secondary is a best-effort, name-addressable provider with payload type T.
// Lookup returns nil, nil when the provider has no match.
type Secondary[T any] interface {
	// ID returns the provider identifier.
	ID() types.ProviderID

	// Lookup fetches the provider's answer for a food name.
	Lookup(ctx context.Context, name string) (*T, error)
}

// Nutritionix is the natural-language nutrients provider.
type Nutritionix = Secondary[nutrition.NutritionixFood]

// Spoonacular is the ingredient information provider.
type Spoonacular = Secondary[nutrition.SpoonacularIngredient]

// SearchOptions controls a reference search.
type SearchOptions struct {
	PageSize   int
	PageNumber int
}

// SearchOption configures a search.
type SearchOption func(*SearchOptions)

// WithPageSize sets the number of results per page.
func WithPageSize(n int) SearchOption {
	return func(o *SearchOptions) {
		if n > 0 {
			o.PageSize = min(n, constants.MaxPageSize)
		}
	}
}

// WithPageNumber selects a 1-based results page.
func WithPageNumber(n int) SearchOption {
	return func(o *SearchOptions) {
		if n > 0 {
			o.PageNumber = n
		}
	}
}

// ApplySearchOptions returns the options with defaults applied.
func ApplySearchOptions(opts ...SearchOption) *SearchOptions {
	o := &SearchOptions{PageSize: constants.DefaultPageSize, PageNumber: 1}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

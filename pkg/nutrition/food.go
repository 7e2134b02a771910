package nutrition

import (
	"fmt"
	"strings"
)

// FoodIdentity identifies a food selected from search results.
// It is immutable once selected.
type FoodIdentity struct {
	ID              int64  `json:"fdcId" yaml:"fdc_id"`
	Name            string `json:"description" yaml:"description"`
	Category        string `json:"dataType,omitempty" yaml:"data_type,omitempty"`
	PublicationDate string `json:"publicationDate,omitempty" yaml:"publication_date,omitempty"`
}

// Validate reports whether the identity can key a details request.
func (f FoodIdentity) Validate() error {
	if f.ID <= 0 {
		return fmt.Errorf("fdcId must be positive, got %d", f.ID)
	}
	return nil
}

// String returns "description (fdcId)".
func (f FoodIdentity) String() string {
	return fmt.Sprintf("%s (%d)", f.Name, f.ID)
}

// LookupName is the free-text key sent to the secondary providers.
func (f FoodIdentity) LookupName() string {
	return strings.TrimSpace(f.Name)
}

// SearchResult is one food summary returned by a reference search.
type SearchResult struct {
	FoodIdentity
	BrandOwner          string         `json:"brandOwner,omitempty" yaml:"brand_owner,omitempty"`
	Ingredients         string         `json:"ingredients,omitempty" yaml:"ingredients,omitempty"`
	IngredientStatement string         `json:"ingredientStatement,omitempty" yaml:"ingredient_statement,omitempty"`
	FoodNutrients       []FoodNutrient `json:"foodNutrients,omitempty" yaml:"-"`
}

// SearchResponse is a page of search results.
type SearchResponse struct {
	Foods       []SearchResult `json:"foods" yaml:"foods"`
	TotalHits   int            `json:"totalHits" yaml:"total_hits"`
	CurrentPage int            `json:"currentPage,omitempty" yaml:"current_page,omitempty"`
	TotalPages  int            `json:"totalPages,omitempty" yaml:"total_pages,omitempty"`
}

// EmptySearchResponse is returned for queries too short to search.
func EmptySearchResponse() *SearchResponse {
	return &SearchResponse{Foods: []SearchResult{}, TotalHits: 0}
}

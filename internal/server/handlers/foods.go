package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/carebridge/nutrimap"
	"github.com/carebridge/nutrimap/internal/server/response"
	"github.com/carebridge/nutrimap/pkg/constants"
	"github.com/carebridge/nutrimap/pkg/nutrition"
	"github.com/carebridge/nutrimap/pkg/sources"
)

// HandleSearchFoods handles GET /api/v1/foods/search?query=&page_size=.
// Queries shorter than the minimum length return an empty page without
// reaching the provider.
func (h *Handlers) HandleSearchFoods(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")

	pageSize := constants.DefaultPageSize
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > constants.MaxPageSize {
			response.BadRequest(w, "Invalid page_size",
				"page_size must be an integer between 1 and "+strconv.Itoa(constants.MaxPageSize))
			return
		}
		pageSize = n
	}

	if !nutrimap.IsSearchable(query) {
		response.OK(w, nutrition.EmptySearchResponse())
		return
	}

	if cached, found := h.cache.GetSearch(query, pageSize); found {
		response.OK(w, cached)
		return
	}

	client, err := h.app.Client()
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	resp, err := client.Search(r.Context(), query, sources.WithPageSize(pageSize))
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	h.cache.SetSearch(query, pageSize, resp)
	response.OK(w, resp)
}

// HandleFoodDetails handles GET /api/v1/foods/{fdcId}?name=&category=.
// name keys the secondary providers; without it they are keyed on the USDA
// description.
func (h *Handlers) HandleFoodDetails(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("fdcId"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(w, "Invalid food id", "fdcId must be a positive integer")
		return
	}

	food := nutrition.FoodIdentity{
		ID:       id,
		Name:     strings.TrimSpace(r.URL.Query().Get("name")),
		Category: r.URL.Query().Get("category"),
	}

	client, err := h.app.Client()
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	record, err := client.FoodDetails(r.Context(), food)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	response.OK(w, record)
}

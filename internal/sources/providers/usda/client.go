// Package usda implements the FoodData Central reference provider.
package usda

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/carebridge/nutrimap/internal/transport"
	"github.com/carebridge/nutrimap/pkg/constants"
	"github.com/carebridge/nutrimap/pkg/errors"
	"github.com/carebridge/nutrimap/pkg/nutrition"
	"github.com/carebridge/nutrimap/pkg/sources"
	"github.com/carebridge/nutrimap/pkg/types"
)

// Config configures the FoodData Central client.
type Config struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Retries    int
}

// Client implements sources.Reference for FoodData Central.
type Client struct {
	transport *transport.Client
	baseURL   string
}

var _ sources.Reference = (*Client)(nil)

// NewClient creates a FoodData Central client. Requests are retried once
// on transient failure unless cfg.Retries says otherwise.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = constants.USDABaseURL
	}
	retries := cfg.Retries
	if retries <= 0 {
		retries = constants.ReferenceRetries
	}
	return &Client{
		transport: transport.New(
			types.USDA.String(),
			cfg.APIKey,
			&transport.QueryAuth{Param: "api_key"},
			transport.WithHTTPClient(cfg.HTTPClient),
			transport.WithRetries(retries),
		),
		baseURL: baseURL,
	}
}

// ID implements sources.Reference.
func (c *Client) ID() types.ProviderID {
	return types.USDA
}

// Search implements sources.Reference. Results are limited to Foundation,
// Survey and Branded foods and sorted by data type.
func (c *Client) Search(ctx context.Context, query string, opts ...sources.SearchOption) (*nutrition.SearchResponse, error) {
	options := sources.ApplySearchOptions(opts...)

	params := url.Values{}
	params.Set("query", strings.TrimSpace(query))
	params.Set("pageSize", strconv.Itoa(options.PageSize))
	params.Set("pageNumber", strconv.Itoa(options.PageNumber))
	params.Set("dataType", constants.USDADataTypes)
	params.Set("sortBy", "dataType.keyword")
	params.Set("sortOrder", "asc")

	endpoint := transport.JoinURL(c.baseURL, "/foods/search") + "?" + params.Encode()
	resp, err := c.transport.Get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var result nutrition.SearchResponse
	if err := transport.DecodeResponse(resp, c.transport.Provider(), &result); err != nil {
		return nil, err
	}
	if result.Foods == nil {
		result.Foods = []nutrition.SearchResult{}
	}
	return &result, nil
}

// Details implements sources.Reference. A 404 means the food does not
// exist and yields nil, nil.
func (c *Client) Details(ctx context.Context, fdcID int64) (*nutrition.FoodDetails, error) {
	if fdcID <= 0 {
		return nil, errors.NewValidationError("fdcId", fdcID, "must be positive")
	}

	endpoint := transport.JoinURL(c.baseURL, fmt.Sprintf("/food/%d", fdcID))
	resp, err := c.transport.Get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var details nutrition.FoodDetails
	if err := transport.DecodeResponse(resp, c.transport.Provider(), &details); err != nil {
		if errors.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &details, nil
}

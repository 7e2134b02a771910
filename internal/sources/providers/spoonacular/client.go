// Package spoonacular implements the Spoonacular ingredient provider.
package spoonacular

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/carebridge/nutrimap/internal/transport"
	"github.com/carebridge/nutrimap/pkg/constants"
	"github.com/carebridge/nutrimap/pkg/errors"
	"github.com/carebridge/nutrimap/pkg/nutrition"
	"github.com/carebridge/nutrimap/pkg/sources"
	"github.com/carebridge/nutrimap/pkg/types"
)

// Config configures the Spoonacular client.
type Config struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// Client implements sources.Spoonacular.
type Client struct {
	transport *transport.Client
	baseURL   string
	apiKey    string
}

var _ sources.Spoonacular = (*Client)(nil)

// NewClient creates a Spoonacular client. It never retries.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = constants.SpoonacularBaseURL
	}
	return &Client{
		transport: transport.New(
			types.Spoonacular.String(),
			cfg.APIKey,
			&transport.QueryAuth{Param: "apiKey"},
			transport.WithHTTPClient(cfg.HTTPClient),
		),
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
	}
}

// ID implements sources.Secondary.
func (c *Client) ID() types.ProviderID {
	return types.Spoonacular
}

// Lookup implements sources.Secondary in two steps: the best ingredient
// match for name, then its information for a 100 gram amount.
func (c *Client) Lookup(ctx context.Context, name string) (*nutrition.SpoonacularIngredient, error) {
	if c.apiKey == "" {
		return nil, errors.NewAuthenticationError(types.Spoonacular.String(), "api_key", "api key is required", errors.ErrAPIKeyRequired)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	hit, err := c.search(ctx, name)
	if err != nil || hit == nil {
		return nil, err
	}
	return c.information(ctx, hit.ID)
}

func (c *Client) search(ctx context.Context, name string) (*nutrition.SpoonacularSearchHit, error) {
	params := url.Values{}
	params.Set("query", name)
	params.Set("number", "1")

	resp, err := c.transport.Get(ctx, transport.JoinURL(c.baseURL, "/ingredients/search")+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var result nutrition.SpoonacularSearchResponse
	if err := transport.DecodeResponse(resp, c.transport.Provider(), &result); err != nil {
		return nil, err
	}
	if len(result.Results) == 0 {
		return nil, nil
	}
	return &result.Results[0], nil
}

func (c *Client) information(ctx context.Context, id int64) (*nutrition.SpoonacularIngredient, error) {
	params := url.Values{}
	params.Set("amount", "100")
	params.Set("unit", "grams")

	endpoint := transport.JoinURL(c.baseURL, fmt.Sprintf("/ingredients/%d/information", id)) + "?" + params.Encode()
	resp, err := c.transport.Get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var ingredient nutrition.SpoonacularIngredient
	if err := transport.DecodeResponse(resp, c.transport.Provider(), &ingredient); err != nil {
		if errors.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &ingredient, nil
}

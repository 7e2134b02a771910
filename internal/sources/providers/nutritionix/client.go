// Package nutritionix implements the Nutritionix natural-language
// nutrients provider.
package nutritionix

import (
	"context"
	"net/http"
	"strings"

	"github.com/carebridge/nutrimap/internal/transport"
	"github.com/carebridge/nutrimap/pkg/constants"
	"github.com/carebridge/nutrimap/pkg/errors"
	"github.com/carebridge/nutrimap/pkg/nutrition"
	"github.com/carebridge/nutrimap/pkg/sources"
	"github.com/carebridge/nutrimap/pkg/types"
)

// Config configures the Nutritionix client.
type Config struct {
	BaseURL    string
	AppID      string
	APIKey     string
	HTTPClient *http.Client
}

// Client implements sources.Nutritionix.
type Client struct {
	transport *transport.Client
	baseURL   string
	appID     string
	apiKey    string
}

var _ sources.Nutritionix = (*Client)(nil)

// nutrientsRequest is the body of POST /natural/nutrients.
type nutrientsRequest struct {
	Query    string `json:"query"`
	Timezone string `json:"timezone"`
}

// NewClient creates a Nutritionix client. It never retries.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = constants.NutritionixBaseURL
	}
	auth := &transport.AppKeyAuth{AppID: cfg.AppID, IDHeader: "x-app-id", KeyHeader: "x-app-key"}
	return &Client{
		transport: transport.New(types.Nutritionix.String(), cfg.APIKey, auth, transport.WithHTTPClient(cfg.HTTPClient)),
		baseURL:   baseURL,
		appID:     cfg.AppID,
		apiKey:    cfg.APIKey,
	}
}

// ID implements sources.Secondary.
func (c *Client) ID() types.ProviderID {
	return types.Nutritionix
}

// Lookup implements sources.Secondary. It returns the first food of the
// answer, or nil when nothing matched.
func (c *Client) Lookup(ctx context.Context, name string) (*nutrition.NutritionixFood, error) {
	if c.appID == "" || c.apiKey == "" {
		return nil, errors.NewAuthenticationError(types.Nutritionix.String(), "app_key", "app id and key are required", errors.ErrAPIKeyRequired)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	resp, err := c.transport.PostJSON(ctx, transport.JoinURL(c.baseURL, "/natural/nutrients"), nutrientsRequest{
		Query:    name,
		Timezone: constants.NutritionixTimezone,
	})
	if err != nil {
		return nil, err
	}

	var result nutrition.NutritionixResponse
	if err := transport.DecodeResponse(resp, c.transport.Provider(), &result); err != nil {
		// "We couldn't match any of your foods" is a 404
		if errors.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if len(result.Foods) == 0 {
		return nil, nil
	}
	food := result.Foods[0]
	return &food, nil
}

package nutrimap

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/carebridge/nutrimap/internal/sources/providers/nutritionix"
	"github.com/carebridge/nutrimap/internal/sources/providers/spoonacular"
	"github.com/carebridge/nutrimap/internal/sources/providers/usda"
	"github.com/carebridge/nutrimap/pkg/constants"
	"github.com/carebridge/nutrimap/pkg/errors"
	"github.com/carebridge/nutrimap/pkg/reconcile"
	"github.com/carebridge/nutrimap/pkg/sources"
)

// Option is a function that configures a Client.
type Option func(*config) error

// config holds the resolved client configuration.
type config struct {
	reference   sources.Reference
	nutritionix sources.Nutritionix
	spoonacular sources.Spoonacular
	reconciler  reconcile.Reconciler
	pageSize    int
	logger      *zerolog.Logger
}

func defaultConfig() *config {
	return &config{
		reconciler: reconcile.Default,
		pageSize:   constants.DefaultPageSize,
	}
}

func newConfig(opts ...Option) (*config, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// Credentials carries the provider API keys. A secondary provider whose
// credentials are empty is not registered.
type Credentials struct {
	USDAKey           string
	NutritionixAppID  string
	NutritionixAPIKey string
	SpoonacularAPIKey string

	// Base URL overrides, mostly for tests.
	USDABaseURL        string
	NutritionixBaseURL string
	SpoonacularBaseURL string

	HTTPClient *http.Client
}

// WithCredentials builds the provider clients from creds.
func WithCredentials(creds Credentials) Option {
	return func(c *config) error {
		if creds.USDAKey == "" {
			return errors.NewConfigError("usda", "USDA_API_KEY is not set", errors.ErrAPIKeyRequired)
		}
		c.reference = usda.NewClient(usda.Config{
			BaseURL:    creds.USDABaseURL,
			APIKey:     creds.USDAKey,
			HTTPClient: creds.HTTPClient,
		})
		if creds.NutritionixAppID != "" && creds.NutritionixAPIKey != "" {
			c.nutritionix = nutritionix.NewClient(nutritionix.Config{
				BaseURL:    creds.NutritionixBaseURL,
				AppID:      creds.NutritionixAppID,
				APIKey:     creds.NutritionixAPIKey,
				HTTPClient: creds.HTTPClient,
			})
		}
		if creds.SpoonacularAPIKey != "" {
			c.spoonacular = spoonacular.NewClient(spoonacular.Config{
				BaseURL:    creds.SpoonacularBaseURL,
				APIKey:     creds.SpoonacularAPIKey,
				HTTPClient: creds.HTTPClient,
			})
		}
		return nil
	}
}

// WithReference configures the reference provider.
func WithReference(ref sources.Reference) Option {
	return func(c *config) error {
		c.reference = ref
		return nil
	}
}

// WithNutritionix configures the Nutritionix provider.
func WithNutritionix(src sources.Nutritionix) Option {
	return func(c *config) error {
		c.nutritionix = src
		return nil
	}
}

// WithSpoonacular configures the Spoonacular provider.
func WithSpoonacular(src sources.Spoonacular) Option {
	return func(c *config) error {
		c.spoonacular = src
		return nil
	}
}

// WithReconciler replaces the default reconciler.
func WithReconciler(r reconcile.Reconciler) Option {
	return func(c *config) error {
		if r == nil {
			return errors.NewValidationError("reconciler", nil, "must not be nil")
		}
		c.reconciler = r
		return nil
	}
}

// WithPageSize sets the default search page size.
func WithPageSize(n int) Option {
	return func(c *config) error {
		if n <= 0 || n > constants.MaxPageSize {
			return errors.NewValidationError("pageSize", n, "must be between 1 and 200")
		}
		c.pageSize = n
		return nil
	}
}

// WithLogger sets the logger used when a call's context carries none.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) error {
		c.logger = logger
		return nil
	}
}

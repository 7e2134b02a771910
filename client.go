// Package nutrimap provides the main entry point for multi-source nutrition
// lookups. It searches the USDA FoodData Central reference database and, for
// a selected food, fans out to Nutritionix and Spoonacular before
// reconciling the answers into one confidence-rated record.
//
// The reference provider is authoritative. The secondary providers are
// best-effort: when one fails it is logged and left out of the record, and
// when the reference itself fails the client re-fetches it alone and returns
// a degraded, reference-only record.
//
// Example usage:
//
//	client, err := nutrimap.New(nutrimap.WithCredentials(nutrimap.Credentials{
//	    USDAKey:           os.Getenv("USDA_API_KEY"),
//	    NutritionixAppID:  os.Getenv("NUTRITIONIX_APP_ID"),
//	    NutritionixAPIKey: os.Getenv("NUTRITIONIX_API_KEY"),
//	    SpoonacularAPIKey: os.Getenv("SPOONACULAR_API_KEY"),
//	}))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	results, err := client.Search(ctx, "apple")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	record, err := client.FoodDetails(ctx, results.Foods[0].FoodIdentity)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%s: %.0f kcal (%s)\n", record.Reference.Description, record.Best.Calories, record.Best.Confidence)
//
// Interactive front ends should drive the client through a Session, which
// debounces search input and discards superseded responses.
package nutrimap

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/carebridge/nutrimap/pkg/errors"
	"github.com/carebridge/nutrimap/pkg/logging"
	"github.com/carebridge/nutrimap/pkg/nutrition"
	"github.com/carebridge/nutrimap/pkg/reconcile"
	"github.com/carebridge/nutrimap/pkg/sources"
	"github.com/carebridge/nutrimap/pkg/types"
)

// Compile-time interface check to ensure proper implementation.
var _ Client = (*client)(nil)

// Searcher finds foods in the reference provider.
type Searcher interface {
	// Search returns a page of foods matching query. Queries shorter than
	// two characters after trimming return an empty response without
	// contacting the provider.
	Search(ctx context.Context, query string, opts ...sources.SearchOption) (*nutrition.SearchResponse, error)
}

// Detailer produces reconciled records for selected foods.
type Detailer interface {
	// FoodDetails fetches every configured provider for food and
	// reconciles the answers.
	FoodDetails(ctx context.Context, food nutrition.FoodIdentity) (*nutrition.ReconciledNutrition, error)
}

// Hooks allows registering callbacks for lookup events.
type Hooks interface {
	OnReconciled(fn ReconciledHook)
	OnProviderError(fn ProviderErrorHook)
}

// Client searches foods and builds reconciled nutrition records.
type Client interface {
	Searcher
	Detailer
	Hooks

	// Providers lists the configured providers in reconciliation order.
	Providers() []types.ProviderID
}

// client is the default implementation of Client.
type client struct {
	reference   sources.Reference
	nutritionix sources.Nutritionix
	spoonacular sources.Spoonacular
	reconciler  reconcile.Reconciler
	pageSize    int
	logger      *zerolog.Logger
	hooks       *hooks
}

// New creates a new Client with the given options. A reference provider is
// required, either directly through WithReference or built from
// WithCredentials.
func New(opts ...Option) (Client, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	if cfg.reference == nil {
		return nil, errors.NewConfigError("client", "reference provider is required", errors.ErrAPIKeyRequired)
	}

	c := &client{
		reference:   cfg.reference,
		nutritionix: cfg.nutritionix,
		spoonacular: cfg.spoonacular,
		reconciler:  cfg.reconciler,
		pageSize:    cfg.pageSize,
		logger:      cfg.logger,
		hooks:       newHooks(),
	}

	logging.Debug().
		Interface("providers", c.Providers()).
		Msg("Nutrition client created")

	return c, nil
}

// Providers implements Client.
func (c *client) Providers() []types.ProviderID {
	ids := []types.ProviderID{c.reference.ID()}
	if c.nutritionix != nil {
		ids = append(ids, c.nutritionix.ID())
	}
	if c.spoonacular != nil {
		ids = append(ids, c.spoonacular.ID())
	}
	return ids
}

// OnReconciled implements Hooks.
func (c *client) OnReconciled(fn ReconciledHook) {
	c.hooks.OnReconciled(fn)
}

// OnProviderError implements Hooks.
func (c *client) OnProviderError(fn ProviderErrorHook) {
	c.hooks.OnProviderError(fn)
}

// withLogger attaches the client's logger unless ctx already carries one.
func (c *client) withLogger(ctx context.Context) context.Context {
	if logging.HasLogger(ctx) || c.logger == nil {
		return ctx
	}
	return logging.WithLogger(ctx, c.logger)
}

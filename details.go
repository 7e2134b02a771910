package nutrimap

import (
	"context"
	"strings"
	"sync"

	"github.com/carebridge/nutrimap/pkg/errors"
	"github.com/carebridge/nutrimap/pkg/logging"
	"github.com/carebridge/nutrimap/pkg/nutrition"
	"github.com/carebridge/nutrimap/pkg/sources"
)

// FoodDetails implements Detailer.
//
// The reference and secondary providers are queried concurrently and the
// call completes once all of them have answered. A failing secondary is
// treated as absent. A failing reference triggers one more reference-only
// fetch; if that succeeds the result is a degraded record, otherwise the
// call fails with a DetailsFetchError.
func (c *client) FoodDetails(ctx context.Context, food nutrition.FoodIdentity) (*nutrition.ReconciledNutrition, error) {
	if err := food.Validate(); err != nil {
		return nil, errors.NewDetailsFetchError(food.ID, errors.WrapValidation("fdcId", err))
	}

	ctx = logging.WithFood(c.withLogger(ctx), food.ID)
	logger := logging.FromContext(ctx)

	payloads, err := c.fanOut(ctx, food)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.NewDetailsFetchError(food.ID, ctx.Err())
		}
		logger.Warn().Err(err).Msg("Reference lookup failed, retrying reference only")
		c.hooks.triggerProviderError(c.reference.ID(), err)
		return c.fallback(ctx, food)
	}

	record := c.reconciler.Reconcile(payloads)
	logger.Debug().
		Float64("calories", record.Best.Calories).
		Str("confidence", record.Best.Confidence.String()).
		Int("discrepancies", len(record.Best.Discrepancies)).
		Msg("Food reconciled")

	c.hooks.triggerReconciled(food, record)
	return record, nil
}

// fanOut queries every configured provider concurrently. Only a reference
// failure is reported; secondary failures and a reference "no data" answer
// become absent payloads.
//
// Without a name on the identity the secondaries are keyed on the USDA
// description, so the reference is fetched first on that path.
func (c *client) fanOut(ctx context.Context, food nutrition.FoodIdentity) (nutrition.Payloads, error) {
	payloads := nutrition.Payloads{Identity: food}

	name := food.LookupName()
	if name == "" {
		details, err := c.details(ctx, food.ID)
		if err != nil {
			return payloads, err
		}
		payloads.Reference = details
		if details != nil {
			name = strings.TrimSpace(details.Description)
		}
		c.lookupSecondaries(ctx, name, &payloads, nil)
		return payloads, nil
	}

	var refErr error
	c.lookupSecondaries(ctx, name, &payloads, func() {
		payloads.Reference, refErr = c.details(ctx, food.ID)
	})
	return payloads, refErr
}

// lookupSecondaries runs the secondary lookups for name, plus extra when
// non-nil, concurrently and waits for all of them.
func (c *client) lookupSecondaries(ctx context.Context, name string, payloads *nutrition.Payloads, extra func()) {
	var wg sync.WaitGroup
	run := func(fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn()
		}()
	}

	if extra != nil {
		run(extra)
	}
	if name == "" {
		logging.FromContext(ctx).Debug().Msg("No food name, skipping secondary providers")
	} else {
		if c.nutritionix != nil {
			run(func() { payloads.Nutritionix = lookup(ctx, c.nutritionix, name, c.hooks) })
		}
		if c.spoonacular != nil {
			run(func() { payloads.Spoonacular = lookup(ctx, c.spoonacular, name, c.hooks) })
		}
	}
	wg.Wait()
}

// details fetches the reference record. A nil record with a nil error means
// USDA has no data for the id.
func (c *client) details(ctx context.Context, fdcID int64) (*nutrition.FoodDetails, error) {
	ctx = logging.WithProvider(ctx, c.reference.ID().String())
	details, err := c.reference.Details(ctx, fdcID)
	if err != nil {
		return nil, err
	}
	if details == nil {
		logging.FromContext(ctx).Debug().Msg("Reference has no data for food")
	}
	return details, nil
}

// fallback re-fetches the reference alone and builds a degraded record.
func (c *client) fallback(ctx context.Context, food nutrition.FoodIdentity) (*nutrition.ReconciledNutrition, error) {
	logger := logging.FromContext(ctx)

	details, err := c.details(ctx, food.ID)
	if err != nil {
		logger.Error().Err(err).Msg("Error loading food details")
		return nil, errors.NewDetailsFetchError(food.ID, err)
	}

	record := c.reconciler.Fallback(food, details)
	logger.Info().
		Float64("calories", record.Best.Calories).
		Msg("Returning reference-only record")

	c.hooks.triggerReconciled(food, record)
	return record, nil
}

// lookup queries one secondary provider. Errors are logged and reported to
// the hooks, then dropped.
func lookup[T any](ctx context.Context, src sources.Secondary[T], name string, h *hooks) *T {
	id := src.ID()
	ctx = logging.WithProvider(ctx, id.String())

	value, err := src.Lookup(ctx, name)
	if err != nil {
		logging.FromContext(ctx).Warn().
			Err(err).
			Msg("Secondary provider failed, continuing without it")
		h.triggerProviderError(id, err)
		return nil
	}
	if value == nil {
		logging.FromContext(ctx).Debug().Msg("Secondary provider has no match")
	}
	return value
}

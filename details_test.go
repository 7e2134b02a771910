package nutrimap_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carebridge/nutrimap"
	"github.com/carebridge/nutrimap/internal/mocks"
	"github.com/carebridge/nutrimap/pkg/constants"
	"github.com/carebridge/nutrimap/pkg/errors"
	"github.com/carebridge/nutrimap/pkg/nutrition"
	"github.com/carebridge/nutrimap/pkg/types"
)

func TestFoodDetailsAllProviders(t *testing.T) {
	f := newFixture(t)
	f.reference.On("Details", mock.Anything, apple.ID).Return(appleDetails(52), nil).Once()
	f.nutritionix.On("Lookup", mock.Anything, apple.Name).Return(appleNutritionix(52), nil).Once()
	f.spoonacular.On("Lookup", mock.Anything, apple.Name).Return(appleSpoonacular(52), nil).Once()

	rec, err := f.client.FoodDetails(context.Background(), apple)
	require.NoError(t, err)

	assert.False(t, rec.Degraded)
	assert.Equal(t, 52.0, rec.Best.Calories)
	assert.Equal(t, nutrition.ConfidenceHigh, rec.Best.Confidence)
	assert.Equal(t, types.ProviderIDs(), rec.Best.CaloriesSources)
	assert.Empty(t, rec.Best.Discrepancies)
	assert.Len(t, rec.Secondary, 2)
	assert.Equal(t, apple.ID, rec.Reference.FdcID)

	f.reference.AssertExpectations(t)
	f.nutritionix.AssertExpectations(t)
	f.spoonacular.AssertExpectations(t)
}

func TestFoodDetailsSecondaryFailureIsAbsorbed(t *testing.T) {
	f := newFixture(t)
	f.reference.On("Details", mock.Anything, apple.ID).Return(appleDetails(52), nil)
	f.nutritionix.On("Lookup", mock.Anything, apple.Name).Return(nil, errors.NewAPIError("Nutritionix", 500, "boom"))
	f.spoonacular.On("Lookup", mock.Anything, apple.Name).Return(appleSpoonacular(52), nil)

	var (
		mu     sync.Mutex
		failed []types.ProviderID
	)
	f.client.OnProviderError(func(provider types.ProviderID, _ error) {
		mu.Lock()
		defer mu.Unlock()
		failed = append(failed, provider)
	})

	rec, err := f.client.FoodDetails(context.Background(), apple)
	require.NoError(t, err)

	assert.False(t, rec.Degraded)
	assert.Equal(t, nutrition.ConfidenceMedium, rec.Best.Confidence)
	assert.Equal(t, []types.ProviderID{types.USDA, types.Spoonacular}, rec.Best.CaloriesSources)
	_, ok := rec.SecondaryFor(types.Nutritionix)
	assert.False(t, ok)
	assert.Equal(t, []types.ProviderID{types.Nutritionix}, failed)
}

func TestFoodDetailsBothSecondariesAbsent(t *testing.T) {
	f := newFixture(t)
	f.reference.On("Details", mock.Anything, apple.ID).Return(appleDetails(52), nil)
	f.nutritionix.On("Lookup", mock.Anything, apple.Name).Return(nil, nil)
	f.spoonacular.On("Lookup", mock.Anything, apple.Name).Return(nil, errors.NewAPIError("Spoonacular", 402, "quota"))

	rec, err := f.client.FoodDetails(context.Background(), apple)
	require.NoError(t, err)

	assert.False(t, rec.Degraded)
	assert.Equal(t, 52.0, rec.Best.Calories)
	assert.Equal(t, nutrition.ConfidenceLow, rec.Best.Confidence)
	assert.Empty(t, rec.Secondary)
}

func TestFoodDetailsFallback(t *testing.T) {
	f := newFixture(t)
	f.reference.On("Details", mock.Anything, apple.ID).Return(nil, errors.NewAPIError("USDA", 503, "down")).Once()
	f.reference.On("Details", mock.Anything, apple.ID).Return(appleDetails(52), nil).Once()
	f.nutritionix.On("Lookup", mock.Anything, apple.Name).Return(appleNutritionix(95), nil)
	f.spoonacular.On("Lookup", mock.Anything, apple.Name).Return(appleSpoonacular(52), nil)

	var reconciled int
	f.client.OnReconciled(func(food nutrition.FoodIdentity, rec *nutrition.ReconciledNutrition) {
		assert.Equal(t, apple.ID, food.ID)
		assert.True(t, rec.Degraded)
		reconciled++
	})

	rec, err := f.client.FoodDetails(context.Background(), apple)
	require.NoError(t, err)

	assert.True(t, rec.Degraded)
	assert.Equal(t, 52.0, rec.Best.Calories)
	assert.Equal(t, []types.ProviderID{types.USDA}, rec.Best.CaloriesSources)
	assert.Equal(t, nutrition.ConfidenceLow, rec.Best.Confidence)
	assert.Equal(t, []string{constants.ReferenceOnlyNote}, rec.Best.Discrepancies)
	assert.Empty(t, rec.Secondary)
	assert.Equal(t, 1, reconciled)
	f.reference.AssertNumberOfCalls(t, "Details", 2)
}

func TestFoodDetailsFallbackFails(t *testing.T) {
	f := newFixture(t)
	cause := errors.NewAPIError("USDA", 503, "down")
	f.reference.On("Details", mock.Anything, apple.ID).Return(nil, cause)
	f.nutritionix.On("Lookup", mock.Anything, apple.Name).Return(appleNutritionix(95), nil)
	f.spoonacular.On("Lookup", mock.Anything, apple.Name).Return(appleSpoonacular(52), nil)

	rec, err := f.client.FoodDetails(context.Background(), apple)
	assert.Nil(t, rec)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrDetailsFailed)
	assert.ErrorIs(t, err, cause)

	var fetchErr *errors.DetailsFetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, apple.ID, fetchErr.FdcID)
	assert.Equal(t, errors.DetailsFailedMessage, fetchErr.UserMessage())
}

func TestFoodDetailsReferenceHasNoData(t *testing.T) {
	f := newFixture(t)
	f.reference.On("Details", mock.Anything, apple.ID).Return(nil, nil).Once()
	f.nutritionix.On("Lookup", mock.Anything, apple.Name).Return(appleNutritionix(52), nil).Once()
	f.spoonacular.On("Lookup", mock.Anything, apple.Name).Return(appleSpoonacular(54), nil).Once()

	rec, err := f.client.FoodDetails(context.Background(), apple)
	require.NoError(t, err)

	assert.False(t, rec.Degraded)
	assert.Equal(t, apple.ID, rec.Reference.FdcID)
	assert.Equal(t, apple.Name, rec.Reference.Description)
	assert.Empty(t, rec.Reference.Nutrients)
	assert.Equal(t, 53.0, rec.Best.Calories)
	assert.Equal(t, nutrition.ConfidenceMedium, rec.Best.Confidence)
	assert.Equal(t, []types.ProviderID{types.Nutritionix, types.Spoonacular}, rec.Best.CaloriesSources)
	assert.NotContains(t, rec.Best.Discrepancies, constants.ReferenceOnlyNote)

	f.reference.AssertNumberOfCalls(t, "Details", 1)
}

func TestFoodDetailsWithoutNameUsesReferenceDescription(t *testing.T) {
	f := newFixture(t)
	f.reference.On("Details", mock.Anything, apple.ID).Return(appleDetails(52), nil).Once()
	f.nutritionix.On("Lookup", mock.Anything, apple.Name).Return(appleNutritionix(54), nil).Once()
	f.spoonacular.On("Lookup", mock.Anything, apple.Name).Return(appleSpoonacular(53), nil).Once()

	rec, err := f.client.FoodDetails(context.Background(), nutrition.FoodIdentity{ID: apple.ID})
	require.NoError(t, err)

	assert.Equal(t, types.ProviderIDs(), rec.Best.CaloriesSources)
	assert.Equal(t, nutrition.ConfidenceHigh, rec.Best.Confidence)
	assert.Equal(t, 53.0, rec.Best.Calories)
	assert.Equal(t, apple.Name, rec.Reference.Description)
	f.nutritionix.AssertExpectations(t)
	f.spoonacular.AssertExpectations(t)
}

func TestFoodDetailsWithoutNameOrReferenceData(t *testing.T) {
	f := newFixture(t)
	f.reference.On("Details", mock.Anything, apple.ID).Return(nil, nil).Once()

	rec, err := f.client.FoodDetails(context.Background(), nutrition.FoodIdentity{ID: apple.ID})
	require.NoError(t, err)

	assert.Equal(t, 0.0, rec.Best.Calories)
	assert.Equal(t, nutrition.ConfidenceLow, rec.Best.Confidence)
	f.nutritionix.AssertNotCalled(t, "Lookup", mock.Anything, mock.Anything)
	f.spoonacular.AssertNotCalled(t, "Lookup", mock.Anything, mock.Anything)
}

func TestFoodDetailsWithoutNameReferenceFailure(t *testing.T) {
	f := newFixture(t)
	f.reference.On("Details", mock.Anything, apple.ID).
		Return(nil, errors.NewAPIError("USDA", 500, "boom")).Once()
	f.reference.On("Details", mock.Anything, apple.ID).Return(appleDetails(52), nil).Once()

	rec, err := f.client.FoodDetails(context.Background(), nutrition.FoodIdentity{ID: apple.ID})
	require.NoError(t, err)
	assert.True(t, rec.Degraded)
	assert.Contains(t, rec.Best.Discrepancies, constants.ReferenceOnlyNote)
	f.nutritionix.AssertNotCalled(t, "Lookup", mock.Anything, mock.Anything)
}

func TestFoodDetailsFetchesConcurrently(t *testing.T) {
	f := newFixture(t)

	var started sync.WaitGroup
	started.Add(3)
	allStarted := make(chan struct{})
	go func() {
		started.Wait()
		close(allStarted)
	}()

	var timedOut atomic.Bool
	barrier := func(mock.Arguments) {
		started.Done()
		select {
		case <-allStarted:
		case <-time.After(2 * time.Second):
			timedOut.Store(true)
		}
	}

	f.reference.On("Details", mock.Anything, apple.ID).Run(barrier).Return(appleDetails(52), nil).Once()
	f.nutritionix.On("Lookup", mock.Anything, apple.Name).Run(barrier).Return(appleNutritionix(52), nil).Once()
	f.spoonacular.On("Lookup", mock.Anything, apple.Name).Run(barrier).Return(appleSpoonacular(52), nil).Once()

	rec, err := f.client.FoodDetails(context.Background(), apple)
	require.NoError(t, err)
	assert.False(t, timedOut.Load(), "provider fetches did not overlap")
	assert.Equal(t, nutrition.ConfidenceHigh, rec.Best.Confidence)
}

func TestFoodDetailsInvalidIdentity(t *testing.T) {
	f := newFixture(t)

	_, err := f.client.FoodDetails(context.Background(), nutrition.FoodIdentity{Name: "apple"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrDetailsFailed)
	assert.True(t, errors.IsValidationError(err))
	f.reference.AssertNotCalled(t, "Details", mock.Anything, mock.Anything)
}

func TestFoodDetailsReferenceOnlyClient(t *testing.T) {
	ref := &mocks.Reference{}
	ref.On("Details", mock.Anything, apple.ID).Return(appleDetails(0), nil)

	client, err := nutrimap.New(nutrimap.WithReference(ref))
	require.NoError(t, err)

	rec, err := client.FoodDetails(context.Background(), apple)
	require.NoError(t, err)
	assert.Equal(t, 0.0, rec.Best.Calories)
	assert.Equal(t, nutrition.ConfidenceLow, rec.Best.Confidence)
}

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carebridge/nutrimap"
	"github.com/carebridge/nutrimap/cmd/application"
	"github.com/carebridge/nutrimap/internal/mocks"
	"github.com/carebridge/nutrimap/internal/server/cache"
	"github.com/carebridge/nutrimap/internal/server/events"
	"github.com/carebridge/nutrimap/internal/server/response"
	ws "github.com/carebridge/nutrimap/internal/server/websocket"
	"github.com/carebridge/nutrimap/internal/store"
	"github.com/carebridge/nutrimap/internal/utils/ptr"
	"github.com/carebridge/nutrimap/pkg/errors"
	"github.com/carebridge/nutrimap/pkg/nutrition"
	"github.com/carebridge/nutrimap/pkg/types"
)

var (
	noon  = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	apple = nutrition.FoodIdentity{ID: 171688, Name: "Apples, raw, with skin", Category: "Foundation"}
)

func appleDetails() *nutrition.FoodDetails {
	return &nutrition.FoodDetails{
		FdcID:       apple.ID,
		Description: apple.Name,
		DataType:    apple.Category,
		FoodNutrients: []nutrition.FoodNutrient{
			{NutrientID: 1008, NutrientName: "Energy", UnitName: "KCAL", Value: ptr.Float64(52)},
		},
	}
}

func appleSearch() *nutrition.SearchResponse {
	return &nutrition.SearchResponse{
		Foods:     []nutrition.SearchResult{{FoodIdentity: apple}},
		TotalHits: 1,
	}
}

type fixture struct {
	reference *mocks.Reference
	journal   *store.Store
	broker    *events.Broker
	handlers  *Handlers
}

func newFixture(t *testing.T, opts ...nutrimap.Option) *fixture {
	t.Helper()
	f := &fixture{reference: &mocks.Reference{}}

	client, err := nutrimap.New(append([]nutrimap.Option{nutrimap.WithReference(f.reference)}, opts...)...)
	require.NoError(t, err)

	f.journal, err = store.Open(context.Background(), filepath.Join(t.TempDir(), "journal.db"),
		store.WithClock(func() time.Time { return noon }),
		store.WithLocation(time.UTC),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.journal.Close() })

	app := &application.Mock{
		NutritionClient: client,
		JournalStore:    f.journal,
	}

	logger := zerolog.Nop()
	f.broker = events.NewBroker(&logger)
	f.handlers = New(app, cache.New(time.Minute, time.Minute), f.broker, ws.NewHub(&logger),
		websocket.Upgrader{}, &logger, WithSessionDebounce(0))
	return f
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, data any) *response.Error {
	t.Helper()
	var envelope struct {
		Data  json.RawMessage `json:"data"`
		Error *response.Error `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	if data != nil && envelope.Error == nil {
		require.NoError(t, json.Unmarshal(envelope.Data, data))
	}
	return envelope.Error
}

func post(path string, body any) *http.Request {
	data, _ := json.Marshal(body)
	return httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
}

func TestHandleHealth(t *testing.T) {
	f := newFixture(t)
	rec := httptest.NewRecorder()
	f.handlers.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var data map[string]string
	require.Nil(t, decode(t, rec, &data))
	assert.Equal(t, "healthy", data["status"])
}

func TestHandleReady(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		f := newFixture(t)
		rec := httptest.NewRecorder()
		f.handlers.HandleReady(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ready", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unconfigured", func(t *testing.T) {
		logger := zerolog.Nop()
		app := &application.Mock{
			ClientErr: errors.NewConfigError("nutrimap", "USDA API key is required", errors.ErrAPIKeyRequired),
		}
		h := New(app, cache.New(time.Minute, time.Minute), events.NewBroker(&logger), ws.NewHub(&logger), websocket.Upgrader{}, &logger)

		rec := httptest.NewRecorder()
		h.HandleReady(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ready", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestHandleSearchFoods(t *testing.T) {
	t.Run("results are cached", func(t *testing.T) {
		f := newFixture(t)
		f.reference.On("Search", mock.Anything, "apple").Return(appleSearch(), nil).Once()

		for i := 0; i < 2; i++ {
			rec := httptest.NewRecorder()
			f.handlers.HandleSearchFoods(rec, httptest.NewRequest(http.MethodGet, "/api/v1/foods/search?query=apple", nil))

			require.Equal(t, http.StatusOK, rec.Code)
			var resp nutrition.SearchResponse
			require.Nil(t, decode(t, rec, &resp))
			require.Len(t, resp.Foods, 1)
			assert.Equal(t, apple.ID, resp.Foods[0].ID)
		}
		f.reference.AssertNumberOfCalls(t, "Search", 1)
	})

	t.Run("short query", func(t *testing.T) {
		f := newFixture(t)
		rec := httptest.NewRecorder()
		f.handlers.HandleSearchFoods(rec, httptest.NewRequest(http.MethodGet, "/api/v1/foods/search?query=a", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var resp nutrition.SearchResponse
		require.Nil(t, decode(t, rec, &resp))
		assert.Empty(t, resp.Foods)
		f.reference.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
	})

	t.Run("invalid page size", func(t *testing.T) {
		f := newFixture(t)
		rec := httptest.NewRecorder()
		f.handlers.HandleSearchFoods(rec, httptest.NewRequest(http.MethodGet, "/api/v1/foods/search?query=apple&page_size=0", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("provider failure", func(t *testing.T) {
		f := newFixture(t)
		f.reference.On("Search", mock.Anything, "apple").Return(nil, errors.NewAPIError("usda", 500, "down"))

		rec := httptest.NewRecorder()
		f.handlers.HandleSearchFoods(rec, httptest.NewRequest(http.MethodGet, "/api/v1/foods/search?query=apple", nil))

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		apiErr := decode(t, rec, nil)
		require.NotNil(t, apiErr)
		assert.Equal(t, errors.SearchFailedMessage, apiErr.Message)

		_, cached := f.handlers.cache.GetSearch("apple", 25)
		assert.False(t, cached)
	})
}

func TestHandleFoodDetails(t *testing.T) {
	t.Run("reconciled", func(t *testing.T) {
		f := newFixture(t)
		f.reference.On("Details", mock.Anything, apple.ID).Return(appleDetails(), nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/foods/171688?name=apple", nil)
		req.SetPathValue("fdcId", "171688")
		rec := httptest.NewRecorder()
		f.handlers.HandleFoodDetails(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var record nutrition.ReconciledNutrition
		require.Nil(t, decode(t, rec, &record))
		assert.InDelta(t, 52, record.Best.Calories, 0.001)
	})

	t.Run("without name keys secondaries on description", func(t *testing.T) {
		nix := mocks.NewNutritionix()
		spoon := mocks.NewSpoonacular()
		f := newFixture(t, nutrimap.WithNutritionix(nix), nutrimap.WithSpoonacular(spoon))
		f.reference.On("Details", mock.Anything, apple.ID).Return(appleDetails(), nil).Once()
		nix.On("Lookup", mock.Anything, apple.Name).
			Return(&nutrition.NutritionixFood{FoodName: "apple", Calories: ptr.Float64(54)}, nil).Once()
		spoon.On("Lookup", mock.Anything, apple.Name).Return(&nutrition.SpoonacularIngredient{
			ID:        9003,
			Name:      "apple",
			Nutrition: nutrition.SpoonacularNutrition{Nutrients: []nutrition.NamedNutrient{{Name: "Calories", Amount: 53}}},
		}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/foods/171688", nil)
		req.SetPathValue("fdcId", "171688")
		rec := httptest.NewRecorder()
		f.handlers.HandleFoodDetails(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var record nutrition.ReconciledNutrition
		require.Nil(t, decode(t, rec, &record))
		assert.Equal(t, types.ProviderIDs(), record.Best.CaloriesSources)
		assert.Equal(t, nutrition.ConfidenceHigh, record.Best.Confidence)
		nix.AssertExpectations(t)
		spoon.AssertExpectations(t)
	})

	t.Run("reference has no data", func(t *testing.T) {
		f := newFixture(t)
		f.reference.On("Details", mock.Anything, apple.ID).Return(nil, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/foods/171688?name=apple", nil)
		req.SetPathValue("fdcId", "171688")
		rec := httptest.NewRecorder()
		f.handlers.HandleFoodDetails(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var record nutrition.ReconciledNutrition
		require.Nil(t, decode(t, rec, &record))
		assert.Equal(t, "apple", record.Reference.Description)
		assert.Equal(t, nutrition.ConfidenceLow, record.Best.Confidence)
	})

	t.Run("invalid id", func(t *testing.T) {
		f := newFixture(t)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/foods/abc", nil)
		req.SetPathValue("fdcId", "abc")
		rec := httptest.NewRecorder()
		f.handlers.HandleFoodDetails(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("reference down", func(t *testing.T) {
		f := newFixture(t)
		f.reference.On("Details", mock.Anything, apple.ID).Return(nil, errors.NewAPIError("usda", 503, "down"))

		req := httptest.NewRequest(http.MethodGet, "/api/v1/foods/171688", nil)
		req.SetPathValue("fdcId", "171688")
		rec := httptest.NewRecorder()
		f.handlers.HandleFoodDetails(rec, req)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		apiErr := decode(t, rec, nil)
		require.NotNil(t, apiErr)
		assert.Equal(t, errors.DetailsFailedMessage, apiErr.Message)
	})
}

func TestHandleNeeds(t *testing.T) {
	f := newFixture(t)

	rec := httptest.NewRecorder()
	f.handlers.HandleNeeds(rec, post("/api/v1/needs", map[string]any{
		"height_cm": 180, "weight_kg": 80, "age": 30, "gender": "Male",
	}))

	require.Equal(t, http.StatusOK, rec.Code)
	var record store.ProfileRecord
	require.Nil(t, decode(t, rec, &record))
	assert.InDelta(t, 24.69, record.BMI, 0.001)
	assert.InDelta(t, 2136, record.DailyCaloriesNeeded, 0.001)

	latest, err := f.journal.LatestProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, record.ID, latest.ID)

	t.Run("invalid profile", func(t *testing.T) {
		rec := httptest.NewRecorder()
		f.handlers.HandleNeeds(rec, post("/api/v1/needs", map[string]any{
			"height_cm": 0, "weight_kg": 80, "age": 30, "gender": "female",
		}))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown field", func(t *testing.T) {
		rec := httptest.NewRecorder()
		f.handlers.HandleNeeds(rec, post("/api/v1/needs", map[string]any{"height": 180}))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestJournalFlow(t *testing.T) {
	f := newFixture(t)

	rec := httptest.NewRecorder()
	f.handlers.HandleNeeds(rec, post("/api/v1/needs", map[string]any{
		"height_cm": 180, "weight_kg": 80, "age": 30, "gender": "male",
	}))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	f.handlers.HandleAddEntry(rec, post("/api/v1/journal", map[string]any{
		"fdc_id": apple.ID, "description": apple.Name, "grams": 200, "calories_per_100g": 52,
		"confidence": "high", "sources": []string{"USDA", "Nutritionix"},
	}))
	require.Equal(t, http.StatusCreated, rec.Code)
	var entry store.Entry
	require.Nil(t, decode(t, rec, &entry))
	assert.InDelta(t, 104, entry.Calories, 0.001)
	assert.Equal(t, "2026-03-14", entry.Day)

	rec = httptest.NewRecorder()
	f.handlers.HandleListEntries(rec, httptest.NewRequest(http.MethodGet, "/api/v1/journal?date=2026-03-14", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Entries []store.Entry `json:"entries"`
		Count   int           `json:"count"`
	}
	require.Nil(t, decode(t, rec, &list))
	assert.Equal(t, 1, list.Count)

	rec = httptest.NewRecorder()
	f.handlers.HandleSummary(rec, httptest.NewRequest(http.MethodGet, "/api/v1/summary", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var summary store.Summary
	require.Nil(t, decode(t, rec, &summary))
	assert.InDelta(t, 2136, summary.DailyCaloriesNeeded, 0.001)
	assert.InDelta(t, 104, summary.TotalConsumed, 0.001)

	t.Run("invalid entry", func(t *testing.T) {
		rec := httptest.NewRecorder()
		f.handlers.HandleAddEntry(rec, post("/api/v1/journal", map[string]any{"description": "apple", "grams": -5}))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid date", func(t *testing.T) {
		rec := httptest.NewRecorder()
		f.handlers.HandleSummary(rec, httptest.NewRequest(http.MethodGet, "/api/v1/summary?date=14-03-2026", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestJournalUnavailable(t *testing.T) {
	logger := zerolog.Nop()
	app := &application.Mock{
		JournalErr: errors.NewIOError("open", "/nope/journal.db", errors.New("permission denied")),
	}
	h := New(app, cache.New(time.Minute, time.Minute), events.NewBroker(&logger), ws.NewHub(&logger), websocket.Upgrader{}, &logger)

	rec := httptest.NewRecorder()
	h.HandleSummary(rec, httptest.NewRequest(http.MethodGet, "/api/v1/summary", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

package app

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carebridge/nutrimap"
	"github.com/carebridge/nutrimap/internal/mocks"
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
			{NutrientID: 208, NutrientName: "Energy", UnitName: "KCAL", Value: ptr.Float64(52)},
		},
	}
}

func testConfig(t *testing.T) *Config {
	t.Helper()
	return &Config{
		USDAKey:              "test-key",
		PageSize:             25,
		DiscrepancyThreshold: 0.2,
		HTTPTimeout:          time.Second,
		JournalPath:          filepath.Join(t.TempDir(), "journal.db"),
		LogLevel:             "error",
		LogFormat:            "json",
		LogOutput:            "stderr",
	}
}

type testApp struct {
	app       *App
	reference *mocks.Reference
	journal   *store.Store
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	isolate(t)

	reference := &mocks.Reference{}
	client, err := nutrimap.New(nutrimap.WithReference(reference))
	require.NoError(t, err)

	journal, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "journal.db"),
		store.WithClock(func() time.Time { return noon }),
		store.WithLocation(time.UTC),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = journal.Close() })

	app, err := New("1.2.3", "abc123", "2026-03-01", "test",
		WithConfig(testConfig(t)),
		WithClient(client),
		WithJournal(journal),
	)
	require.NoError(t, err)

	return &testApp{app: app, reference: reference, journal: journal}
}

// run executes the root command and returns its standard output.
func (ta *testApp) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := ta.app.rootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestNewAppAccessors(t *testing.T) {
	ta := newTestApp(t)

	assert.Equal(t, "1.2.3", ta.app.Version())
	assert.Equal(t, "abc123", ta.app.Commit())
	assert.Equal(t, "2026-03-01", ta.app.Date())
	assert.Equal(t, "test", ta.app.BuiltBy())
	assert.NotNil(t, ta.app.Logger())
	assert.NotNil(t, ta.app.Calculator())

	client, err := ta.app.Client()
	require.NoError(t, err)
	assert.Equal(t, []types.ProviderID{types.USDA}, client.Providers())
}

func TestClientRequiresUSDAKey(t *testing.T) {
	isolate(t)
	config := testConfig(t)
	config.USDAKey = ""

	app, err := New("dev", "", "", "", WithConfig(config))
	require.NoError(t, err)

	_, err = app.Client()
	require.Error(t, err)
	assert.True(t, errors.IsAPIKeyError(err))
}

func TestClientIsSingleton(t *testing.T) {
	isolate(t)
	app, err := New("dev", "", "", "", WithConfig(testConfig(t)))
	require.NoError(t, err)

	first, err := app.Client()
	require.NoError(t, err)
	second, err := app.Client()
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestJournalOpensConfiguredPath(t *testing.T) {
	isolate(t)
	config := testConfig(t)
	app, err := New("dev", "", "", "", WithConfig(config))
	require.NoError(t, err)

	journal, err := app.Journal()
	require.NoError(t, err)
	s, ok := journal.(*store.Store)
	require.True(t, ok)
	assert.Equal(t, config.JournalPath, s.Path())

	require.NoError(t, app.Shutdown(context.Background()))
	require.NoError(t, app.Shutdown(context.Background()))
}

func TestWithConfigValidates(t *testing.T) {
	isolate(t)
	config := testConfig(t)
	config.PageSize = 0

	_, err := New("dev", "", "", "", WithConfig(config))
	require.Error(t, err)
}

func TestSearchCommand(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		ta := newTestApp(t)
		ta.reference.On("Search", mock.Anything, "apple").Return(&nutrition.SearchResponse{
			Foods:     []nutrition.SearchResult{{FoodIdentity: apple}},
			TotalHits: 1,
		}, nil)

		out, err := ta.run(t, "search", "apple", "-o", "json")
		require.NoError(t, err)

		var resp nutrition.SearchResponse
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		require.Len(t, resp.Foods, 1)
		assert.Equal(t, apple.ID, resp.Foods[0].ID)
	})

	t.Run("short query", func(t *testing.T) {
		ta := newTestApp(t)

		out, err := ta.run(t, "search", "a", "-o", "table")
		require.NoError(t, err)
		assert.Contains(t, out, "at least 2 characters")
		ta.reference.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
	})

	t.Run("invalid page size", func(t *testing.T) {
		ta := newTestApp(t)
		_, err := ta.run(t, "search", "apple", "--page-size", "0")
		require.Error(t, err)
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("provider failure", func(t *testing.T) {
		ta := newTestApp(t)
		ta.reference.On("Search", mock.Anything, "apple").Return(nil, errors.NewAPIError("usda", 500, "down"))

		_, err := ta.run(t, "search", "apple", "-o", "json")
		require.Error(t, err)
		assert.Equal(t, errors.SearchFailedMessage, errorMessage(err))
	})
}

func TestDetailsCommand(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		ta := newTestApp(t)
		ta.reference.On("Details", mock.Anything, apple.ID).Return(appleDetails(), nil)

		out, err := ta.run(t, "details", "171688", "-o", "json")
		require.NoError(t, err)

		var record nutrition.ReconciledNutrition
		require.NoError(t, json.Unmarshal([]byte(out), &record))
		assert.Equal(t, apple.ID, record.Reference.FdcID)
		assert.InDelta(t, 52, record.Best.Calories, 0.001)
		assert.Equal(t, []types.ProviderID{types.USDA}, record.Best.CaloriesSources)
	})

	t.Run("table", func(t *testing.T) {
		ta := newTestApp(t)
		ta.reference.On("Details", mock.Anything, apple.ID).Return(appleDetails(), nil)

		out, err := ta.run(t, "details", "171688", "-o", "table")
		require.NoError(t, err)
		assert.Contains(t, out, "Calories (kcal)")
		assert.Contains(t, out, "Calorie sources: USDA")
	})

	t.Run("invalid id", func(t *testing.T) {
		ta := newTestApp(t)
		_, err := ta.run(t, "details", "apple")
		require.Error(t, err)
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("reference failure", func(t *testing.T) {
		ta := newTestApp(t)
		ta.reference.On("Details", mock.Anything, apple.ID).Return(nil, errors.NewAPIError("usda", 503, "down"))

		_, err := ta.run(t, "details", "171688")
		require.Error(t, err)
		assert.Equal(t, errors.DetailsFailedMessage, errorMessage(err))
	})
}

func TestNeedsCommand(t *testing.T) {
	t.Run("assessment", func(t *testing.T) {
		ta := newTestApp(t)

		out, err := ta.run(t, "needs", "--height", "180", "--weight", "80", "--age", "30", "--gender", "male", "-o", "json")
		require.NoError(t, err)

		var got map[string]float64
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.InDelta(t, 24.69, got["bmi"], 0.001)
		assert.InDelta(t, 2136, got["daily_calories_needed"], 0.001)

		_, err = ta.journal.LatestProfile(context.Background())
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("save", func(t *testing.T) {
		ta := newTestApp(t)

		_, err := ta.run(t, "needs", "--height", "180", "--weight", "80", "--age", "30", "--gender", "male", "--save", "-o", "json")
		require.NoError(t, err)

		profile, err := ta.journal.LatestProfile(context.Background())
		require.NoError(t, err)
		assert.InDelta(t, 2136, profile.DailyCaloriesNeeded, 0.001)
	})

	t.Run("invalid", func(t *testing.T) {
		ta := newTestApp(t)
		_, err := ta.run(t, "needs", "--height", "0", "--weight", "80", "--age", "30")
		require.Error(t, err)
		assert.True(t, errors.IsValidationError(err))
	})
}

func TestJournalCommands(t *testing.T) {
	ta := newTestApp(t)
	ta.reference.On("Details", mock.Anything, apple.ID).Return(appleDetails(), nil)

	_, err := ta.run(t, "needs", "--height", "180", "--weight", "80", "--age", "30", "--gender", "male", "--save", "-o", "json")
	require.NoError(t, err)

	out, err := ta.run(t, "journal", "add", "--fdc-id", "171688", "--grams", "200", "-o", "json")
	require.NoError(t, err)
	var looked store.Entry
	require.NoError(t, json.Unmarshal([]byte(out), &looked))
	assert.Equal(t, apple.Name, looked.Description)
	assert.InDelta(t, 104, looked.Calories, 0.001)
	assert.Equal(t, []types.ProviderID{types.USDA}, looked.Sources)

	out, err = ta.run(t, "journal", "add", "--description", "Vegetable soup", "--grams", "300", "--calories-per-100g", "45", "-o", "json")
	require.NoError(t, err)
	var manual store.Entry
	require.NoError(t, json.Unmarshal([]byte(out), &manual))
	assert.InDelta(t, 135, manual.Calories, 0.001)

	out, err = ta.run(t, "journal", "list", "-o", "json")
	require.NoError(t, err)
	var entries []store.Entry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	assert.Len(t, entries, 2)

	out, err = ta.run(t, "journal", "summary", "-o", "json")
	require.NoError(t, err)
	var summary store.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, "2026-03-14", summary.Day)
	assert.Equal(t, 2, summary.Entries)
	assert.InDelta(t, 239, summary.TotalConsumed, 0.001)
	assert.InDelta(t, 2136-239, summary.Remaining, 0.001)

	ta.reference.AssertNumberOfCalls(t, "Details", 1)
}

func TestJournalAddRequiresFood(t *testing.T) {
	ta := newTestApp(t)
	_, err := ta.run(t, "journal", "add", "--grams", "100")
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestJournalSummaryInvalidDate(t *testing.T) {
	ta := newTestApp(t)
	_, err := ta.run(t, "journal", "summary", "--date", "14/03/2026")
	require.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	ta := newTestApp(t)

	out, err := ta.run(t, "version", "-o", "json")
	require.NoError(t, err)
	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "1.2.3", info["version"])
	assert.Equal(t, "abc123", info["commit"])

	out, err = newTestApp(t).run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "nutrimap version 1.2.3")
}

func TestInvalidFormatFlag(t *testing.T) {
	ta := newTestApp(t)
	_, err := ta.run(t, "version", "-o", "xml")
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, errors.NewSearchError("apple", errors.ErrProviderUnavailable))
	assert.Equal(t, "Error: "+errors.SearchFailedMessage+"\n", buf.String())

	buf.Reset()
	printError(&buf, errors.NewValidationError("grams", 0, "must be positive"))
	assert.Contains(t, buf.String(), "grams")
}

// Package constants holds values shared by the library, the CLI and the
// server: timeouts, provider endpoints, reconciliation tuning and search
// limits.
package constants

import "time"

// Timeouts
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to provider APIs
	DefaultHTTPTimeout = 30 * time.Second

	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 2 * time.Minute

	// RetryBackoff is the pause before the single retry of a reference request
	RetryBackoff = 250 * time.Millisecond

	// ShutdownTimeout bounds graceful HTTP server shutdown
	ShutdownTimeout = 10 * time.Second
)

// File permissions for the journal directory and log files.
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Search session constants
const (
	// MinQueryLength is the shortest trimmed query that reaches the reference provider
	MinQueryLength = 2

	// SearchDebounce is the quiet period after the last keystroke before a search is issued
	SearchDebounce = 300 * time.Millisecond

	// DefaultPageSize is the number of search results requested per page
	DefaultPageSize = 25

	// MaxPageSize is the maximum page size accepted by the reference provider
	MaxPageSize = 200

	// ReferenceRetries is how many times a failed reference request is retried
	ReferenceRetries = 1
)

// Reconciliation constants
const (
	// DiscrepancyThreshold is the fraction of the mean calorie value above which
	// the spread between providers is reported as a discrepancy
	DiscrepancyThreshold = 0.20

	// EnergyNutrientID is the FoodData Central nutrient id for energy (kcal)
	EnergyNutrientID = 208

	// EnergyNutrientNumber is the legacy nutrient number for energy (kcal)
	EnergyNutrientNumber = "208"

	// NotAvailable is shown where the reference provider has no ingredient list
	NotAvailable = "Not available"

	// Per100g is the serving size used when the reference provider reports none
	Per100g = "Per 100g"
)

// Provider endpoint constants
const (
	// USDABaseURL is the FoodData Central API root
	USDABaseURL = "https://api.nal.usda.gov/fdc/v1"

	// NutritionixBaseURL is the Nutritionix track API root
	NutritionixBaseURL = "https://trackapi.nutritionix.com/v2"

	// SpoonacularBaseURL is the Spoonacular API root for ingredient lookups
	SpoonacularBaseURL = "https://api.spoonacular.com/food"

	// NutritionixTimezone is sent with every natural-language nutrient query
	NutritionixTimezone = "US/Eastern"

	// USDADataTypes restricts searches to curated and branded foods
	USDADataTypes = "Foundation,Survey (FNDDS),Branded"
)

// Cache constants
const (
	// CacheTTL is the default time-to-live for cached search responses
	CacheTTL = 5 * time.Minute

	// CacheCleanupInterval is how often to clean expired cache entries
	CacheCleanupInterval = 10 * time.Minute
)

// Path constants
const (
	// DefaultJournalPath is the default location of the consumption journal database
	DefaultJournalPath = "~/.nutrimap/journal.db"

	// DefaultConfigFile is the default configuration file name in the home directory
	DefaultConfigFile = ".nutrimap"
)

// DayFormat keys journal entries by calendar day.
const DayFormat = "2006-01-02"

// TimestampFormat stores UTC times at a fixed width so that they sort
// chronologically as text.
const TimestampFormat = "2006-01-02T15:04:05.000000000Z07:00"

// ReferenceOnlyNote is the discrepancy recorded on degraded, reference-only records
const ReferenceOnlyNote = "Limited to reference data only - other sources unavailable"

package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/carebridge/nutrimap/internal/utils/paths"
	"github.com/carebridge/nutrimap/pkg/constants"
	"github.com/carebridge/nutrimap/pkg/errors"
)

// Config holds the application configuration loaded from config files,
// environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Provider credentials
	USDAKey           string
	NutritionixAppID  string
	NutritionixAPIKey string
	SpoonacularAPIKey string

	// Provider endpoints
	USDABaseURL        string
	NutritionixBaseURL string
	SpoonacularBaseURL string
	HTTPTimeout        time.Duration

	// Search, reconciliation and journal
	PageSize             int
	DiscrepancyThreshold float64
	JournalPath          string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (~/.nutrimap.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	return loadConfig(os.Getenv("NUTRIMAP_CONFIG"))
}

// LoadConfigFile loads configuration using an explicit config file. Unlike
// the default search, a missing or malformed file is an error.
func LoadConfigFile(path string) (*Config, error) {
	if path == "" {
		return LoadConfig()
	}
	return loadConfig(path)
}

func loadConfig(configFile string) (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(paths.Expand(configFile))
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("config", "cannot read "+configFile, err)
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(constants.DefaultConfigFile)
		// Read config file (ignore error if not found)
		_ = v.ReadInConfig()
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no-color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		USDAKey:           v.GetString("usda.api_key"),
		NutritionixAppID:  v.GetString("nutritionix.app_id"),
		NutritionixAPIKey: v.GetString("nutritionix.api_key"),
		SpoonacularAPIKey: v.GetString("spoonacular.api_key"),

		USDABaseURL:        v.GetString("usda.base_url"),
		NutritionixBaseURL: v.GetString("nutritionix.base_url"),
		SpoonacularBaseURL: v.GetString("spoonacular.base_url"),
		HTTPTimeout:        v.GetDuration("http.timeout"),

		PageSize:             v.GetInt("search.page_size"),
		DiscrepancyThreshold: v.GetFloat64("reconcile.discrepancy_threshold"),
		JournalPath:          v.GetString("journal.path"),

		LogLevel:  v.GetString("log.level"),
		LogFormat: v.GetString("log.format"),
		LogOutput: v.GetString("log.output"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// setDefaults registers the defaults. Environment variables map onto the
// dotted keys, so usda.api_key reads USDA_API_KEY.
func setDefaults(v *viper.Viper) {
	v.SetDefault("usda.base_url", constants.USDABaseURL)
	v.SetDefault("nutritionix.base_url", constants.NutritionixBaseURL)
	v.SetDefault("spoonacular.base_url", constants.SpoonacularBaseURL)
	v.SetDefault("http.timeout", constants.DefaultHTTPTimeout)
	v.SetDefault("search.page_size", constants.DefaultPageSize)
	v.SetDefault("reconcile.discrepancy_threshold", constants.DiscrepancyThreshold)
	v.SetDefault("journal.path", constants.DefaultJournalPath)
	v.SetDefault("log.format", "auto")
	v.SetDefault("log.output", "stderr")
}

// Validate checks the values that cannot be defaulted at use.
func (c *Config) Validate() error {
	if c.PageSize <= 0 || c.PageSize > constants.MaxPageSize {
		return errors.NewValidationError("search.page_size", c.PageSize, "must be between 1 and 200")
	}
	if c.DiscrepancyThreshold <= 0 || c.DiscrepancyThreshold > 1 {
		return errors.NewValidationError("reconcile.discrepancy_threshold", c.DiscrepancyThreshold, "must be in (0, 1]")
	}
	if c.HTTPTimeout <= 0 {
		return errors.NewValidationError("http.timeout", c.HTTPTimeout, "must be positive")
	}
	return nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
// Variables already set in the environment are not overridden.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// Package app provides the application context and dependency management
// for the nutrimap CLI. It centralizes configuration, logging, and the
// lazily built reconciliation client and journal.
package app

import (
	"context"
	"net/http"
	"sync"

	"github.com/rs/zerolog"

	"github.com/carebridge/nutrimap"
	"github.com/carebridge/nutrimap/cmd/application"
	"github.com/carebridge/nutrimap/internal/store"
	"github.com/carebridge/nutrimap/pkg/errors"
	"github.com/carebridge/nutrimap/pkg/logging"
	"github.com/carebridge/nutrimap/pkg/needs"
	"github.com/carebridge/nutrimap/pkg/reconcile"
)

var _ application.Application = (*App)(nil)

// App represents the nutrimap application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	calculator needs.Calculator

	// Lazily initialized singletons
	mu      sync.RWMutex
	client  nutrimap.Client
	journal store.Journal
}

// New creates a new App instance with the given version information.
// The app is initialized with configuration from the environment, which
// can be replaced using functional options.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version:    version,
		commit:     commit,
		date:       date,
		builtBy:    builtBy,
		calculator: needs.Default,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Calculator returns the daily needs calculator.
func (a *App) Calculator() needs.Calculator {
	return a.calculator
}

// Client returns the reconciliation client, creating it lazily if needed.
func (a *App) Client() (nutrimap.Client, error) {
	a.mu.RLock()
	if a.client != nil {
		c := a.client
		a.mu.RUnlock()
		return c, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	// Double-check after acquiring write lock
	if a.client != nil {
		return a.client, nil
	}

	opts, err := a.clientOptions()
	if err != nil {
		return nil, err
	}
	c, err := nutrimap.New(opts...)
	if err != nil {
		return nil, err
	}
	a.logger.Debug().
		Interface("providers", c.Providers()).
		Msg("Client initialized")

	a.client = c
	return c, nil
}

// Journal returns the consumption journal, opening it lazily if needed.
func (a *App) Journal() (store.Journal, error) {
	a.mu.RLock()
	if a.journal != nil {
		j := a.journal
		a.mu.RUnlock()
		return j, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.journal != nil {
		return a.journal, nil
	}

	ctx := logging.WithLogger(context.Background(), a.logger)
	j, err := store.Open(ctx, a.config.JournalPath)
	if err != nil {
		return nil, err
	}

	a.journal = j
	return j, nil
}

// Shutdown releases the journal if it was opened.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.journal == nil {
		return nil
	}
	err := a.journal.Close()
	a.journal = nil
	if err != nil {
		a.logger.Error().Err(err).Msg("Failed to close journal during shutdown")
		return err
	}
	return nil
}

// clientOptions constructs client options from the app configuration.
func (a *App) clientOptions() ([]nutrimap.Option, error) {
	r, err := reconcile.New(reconcile.WithDiscrepancyThreshold(a.config.DiscrepancyThreshold))
	if err != nil {
		return nil, err
	}
	return []nutrimap.Option{
		nutrimap.WithCredentials(nutrimap.Credentials{
			USDAKey:            a.config.USDAKey,
			NutritionixAppID:   a.config.NutritionixAppID,
			NutritionixAPIKey:  a.config.NutritionixAPIKey,
			SpoonacularAPIKey:  a.config.SpoonacularAPIKey,
			USDABaseURL:        a.config.USDABaseURL,
			NutritionixBaseURL: a.config.NutritionixBaseURL,
			SpoonacularBaseURL: a.config.SpoonacularBaseURL,
			HTTPClient:         &http.Client{Timeout: a.config.HTTPTimeout},
		}),
		nutrimap.WithPageSize(a.config.PageSize),
		nutrimap.WithReconciler(r),
		nutrimap.WithLogger(a.logger),
	}, nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		if err := config.Validate(); err != nil {
			return err
		}
		a.config = config
		logger := NewLogger(config)
		a.logger = &logger
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithClient sets a custom client (useful for testing).
func WithClient(c nutrimap.Client) Option {
	return func(a *App) error {
		a.client = c
		return nil
	}
}

// WithJournal sets a custom journal (useful for testing).
func WithJournal(j store.Journal) Option {
	return func(a *App) error {
		a.journal = j
		return nil
	}
}

// WithCalculator replaces the daily needs calculator.
func WithCalculator(c needs.Calculator) Option {
	return func(a *App) error {
		if c == nil {
			return errors.NewValidationError("calculator", nil, "must not be nil")
		}
		a.calculator = c
		return nil
	}
}

// Package application defines what CLI commands and the API server need
// from the running program: the reconciliation client, the journal, the
// needs calculator, logging and build metadata.
//
// Commands take an Application rather than the concrete app so tests can
// pass a Mock:
//
//	app := &application.Mock{NutritionClient: client}
//	cmd := search.NewCommand(app)
package application

import (
	"github.com/rs/zerolog"

	"github.com/carebridge/nutrimap"
	"github.com/carebridge/nutrimap/internal/store"
	"github.com/carebridge/nutrimap/pkg/needs"
)

// Application is implemented by cmd/nutrimap/app.App. All methods must be
// safe for concurrent use.
type Application interface {
	// Client returns the reconciliation client, built lazily from the
	// configured provider credentials. It fails with a ConfigError when the
	// USDA key is missing.
	Client() (nutrimap.Client, error)

	// Journal returns the consumption journal, opened lazily at the
	// configured path.
	Journal() (store.Journal, error)

	// Calculator returns the daily needs calculator.
	Calculator() needs.Calculator

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (json, yaml, table).
	OutputFormat() string

	// Build metadata injected at link time.
	Version() string
	Commit() string
	Date() string
	BuiltBy() string
}

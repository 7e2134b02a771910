package server

import (
	"net"
	"strconv"
	"time"

	"github.com/carebridge/nutrimap/pkg/constants"
	"github.com/carebridge/nutrimap/pkg/errors"
)

// Config holds server configuration.
type Config struct {
	Host       string
	Port       int
	PathPrefix string

	// CORS is applied when CORSEnabled is set or CORSOrigins is non-empty.
	CORSEnabled bool
	CORSOrigins []string

	RateLimit       int // requests per minute per IP, 0 disables
	CacheTTL        time.Duration
	SessionDebounce time.Duration

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultConfig returns the configuration used when no flags are given.
func DefaultConfig() Config {
	return Config{
		Host:            "localhost",
		Port:            8080,
		PathPrefix:      "/api/v1",
		CORSOrigins:     []string{},
		RateLimit:       100,
		CacheTTL:        constants.CacheTTL,
		SessionDebounce: constants.SearchDebounce,
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    60 * time.Second,
		IdleTimeout:     120 * time.Second,
	}
}

// Addr is the listen address.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Validate rejects values the server cannot run with.
func (c Config) Validate() error {
	switch {
	case c.Port < 1 || c.Port > 65535:
		return errors.NewValidationError("port", c.Port, "must be between 1 and 65535")
	case c.RateLimit < 0:
		return errors.NewValidationError("rate-limit", c.RateLimit, "must not be negative")
	case c.CacheTTL <= 0:
		return errors.NewValidationError("cache-ttl", c.CacheTTL, "must be positive")
	case c.SessionDebounce < 0:
		return errors.NewValidationError("session-debounce", c.SessionDebounce, "must not be negative")
	}
	return nil
}

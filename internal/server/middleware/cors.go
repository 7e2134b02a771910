package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	AllowAll       bool
	MaxAge         int
}

// DefaultCORSConfig returns the default CORS configuration.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", RequestIDHeader},
		AllowAll:       false,
		MaxAge:         86400, // 24 hours
	}
}

// CORS middleware adds CORS headers to responses and answers preflight
// requests.
func CORS(config CORSConfig) func(http.Handler) http.Handler {
	origins := config.AllowedOrigins
	if config.AllowAll || len(origins) == 0 {
		origins = []string{"*"}
	}

	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: config.AllowedMethods,
		AllowedHeaders: config.AllowedHeaders,
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         config.MaxAge,
	})
	return c.Handler
}

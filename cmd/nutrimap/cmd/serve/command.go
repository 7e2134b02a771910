// Package serve provides the HTTP API server command.
package serve

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/carebridge/nutrimap/cmd/application"
	"github.com/carebridge/nutrimap/internal/cmd/emoji"
	"github.com/carebridge/nutrimap/internal/server"
	"github.com/carebridge/nutrimap/pkg/constants"
	"github.com/carebridge/nutrimap/pkg/errors"
)

// NewCommand creates the serve command.
func NewCommand(app application.Application) *cobra.Command {
	cfg := server.DefaultConfig()

	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"server"},
		GroupID: "core",
		Short:   "Start the REST API server with WebSocket sessions",
		Long: `Start the nutrimap REST API server.

Endpoints (under --prefix, default /api/v1):
  GET  /foods/search?query=...  search USDA FoodData Central
  GET  /foods/{fdcId}           reconciled nutrition for a food
  POST /needs                   BMI and daily calorie need
  GET  /journal, POST /journal  consumption journal
  GET  /summary                 daily total against the need
  GET  /session/ws              interactive search session (WebSocket)
  GET  /updates/ws              server event stream (WebSocket)
  GET  /health, /ready          health checks

HTTP_HOST and HTTP_PORT override --host and --port.`,
		Example: `  nutrimap serve
  nutrimap serve --cors-origins "https://app.example.com"
  nutrimap serve --rate-limit 30 --cache-ttl 1m`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := applyEnv(&cfg, os.Getenv); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cmd.Context(), cmd.OutOrStdout(), app, cfg)
		},
	}

	f := cmd.Flags()
	f.IntVarP(&cfg.Port, "port", "p", cfg.Port, "Server port")
	f.StringVar(&cfg.Host, "host", cfg.Host, "Bind address")
	f.StringVar(&cfg.PathPrefix, "prefix", cfg.PathPrefix, "API path prefix")
	f.BoolVar(&cfg.CORSEnabled, "cors", cfg.CORSEnabled, "Enable CORS for all origins")
	f.StringSliceVar(&cfg.CORSOrigins, "cors-origins", cfg.CORSOrigins, "Allowed CORS origins (comma-separated)")
	f.IntVar(&cfg.RateLimit, "rate-limit", cfg.RateLimit, "Requests per minute per IP (0 to disable)")
	f.DurationVar(&cfg.CacheTTL, "cache-ttl", cfg.CacheTTL, "Search cache TTL")
	f.DurationVar(&cfg.SessionDebounce, "session-debounce", cfg.SessionDebounce, "Input debounce for WebSocket sessions")
	f.DurationVar(&cfg.ReadTimeout, "read-timeout", cfg.ReadTimeout, "HTTP read timeout")
	f.DurationVar(&cfg.WriteTimeout, "write-timeout", cfg.WriteTimeout, "HTTP write timeout")
	f.DurationVar(&cfg.IdleTimeout, "idle-timeout", cfg.IdleTimeout, "HTTP idle timeout")

	return cmd
}

// applyEnv lets HTTP_HOST and HTTP_PORT override the flags, for container
// deployments.
func applyEnv(cfg *server.Config, getenv func(string) string) error {
	if host := getenv("HTTP_HOST"); host != "" {
		cfg.Host = host
	}
	if raw := getenv("HTTP_PORT"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil {
			return errors.NewValidationError("HTTP_PORT", raw, "must be a number")
		}
		cfg.Port = port
	}
	return nil
}

// run serves until ctx is canceled, then drains connections and stops the
// background services.
func run(ctx context.Context, out io.Writer, app application.Application, cfg server.Config) error {
	logger := app.Logger()

	srv, err := server.New(app, cfg)
	if err != nil {
		return err
	}
	srv.Start()

	httpServer := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	logger.Info().
		Str("addr", httpServer.Addr).
		Str("prefix", cfg.PathPrefix).
		Int("rate_limit", cfg.RateLimit).
		Dur("cache_ttl", cfg.CacheTTL).
		Msg("Starting API server")

	listenErr := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			listenErr <- errors.WrapIO("listen", httpServer.Addr, err)
		}
	}()
	fmt.Fprintf(out, "API server listening on %s (Ctrl+C to stop)\n", httpServer.Addr)

	select {
	case err := <-listenErr:
		_ = srv.Shutdown(context.Background())
		return err
	case <-ctx.Done():
	}

	fmt.Fprintf(out, "\n%s Shutting down API server...\n", emoji.Stop)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return errors.WrapIO("shutdown", httpServer.Addr, err)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("Background services did not stop cleanly")
	}

	logger.Info().Msg("Server stopped")
	fmt.Fprintf(out, "%s API server stopped\n", emoji.Success)
	return nil
}

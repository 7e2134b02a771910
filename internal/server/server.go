// Package server provides the HTTP server for the nutrimap API.
package server

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/carebridge/nutrimap/cmd/application"
	"github.com/carebridge/nutrimap/internal/server/cache"
	"github.com/carebridge/nutrimap/internal/server/events"
	ws "github.com/carebridge/nutrimap/internal/server/websocket"
	"github.com/carebridge/nutrimap/pkg/constants"
	"github.com/carebridge/nutrimap/pkg/nutrition"
	"github.com/carebridge/nutrimap/pkg/types"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	app       application.Application
	cache     *cache.Cache
	broker    *events.Broker
	wsHub     *ws.Hub
	upgrader  websocket.Upgrader
	logger    *zerolog.Logger
	config    Config
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
	started   atomic.Bool
	startTime time.Time
}

// New creates a new server instance with the given configuration. It fails
// when the reconciliation client cannot be built.
func New(app application.Application, cfg Config) (*Server, error) {
	logger := app.Logger()

	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = DefaultConfig().CacheTTL
	}
	if cfg.PathPrefix == "" {
		cfg.PathPrefix = DefaultConfig().PathPrefix
	}

	broker := events.NewBroker(logger)
	wsHub := ws.NewHub(logger)
	broker.Subscribe(wsHub.Subscriber())

	ctx, cancel := context.WithCancel(context.Background())

	server := &Server{
		app:    app,
		cache:  cache.New(cfg.CacheTTL, constants.CacheCleanupInterval),
		broker: broker,
		wsHub:  wsHub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(_ *http.Request) bool {
				return true // Allow all origins for WebSocket
			},
		},
		logger:    logger,
		config:    cfg,
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
		startTime: time.Now(),
	}

	if err := server.connectHooks(); err != nil {
		cancel()
		return nil, err
	}

	logger.Debug().Msg("Server instance created")
	return server, nil
}

// connectHooks publishes client lookup events to the broker.
func (s *Server) connectHooks() error {
	client, err := s.app.Client()
	if err != nil {
		return err
	}

	client.OnReconciled(func(food nutrition.FoodIdentity, record *nutrition.ReconciledNutrition) {
		s.broker.Publish(events.FoodReconciled, map[string]any{
			"food":       food,
			"calories":   record.Best.Calories,
			"confidence": record.Best.Confidence,
			"sources":    record.Best.CaloriesSources,
			"degraded":   record.Degraded,
		})
	})

	client.OnProviderError(func(provider types.ProviderID, err error) {
		s.broker.Publish(events.ProviderFailed, map[string]any{
			"provider": provider,
			"error":    err.Error(),
		})
	})

	s.logger.Debug().Msg("Client hooks connected to event broker")
	return nil
}

// Start starts background services (broker and WebSocket hub). Calls
// after the first are no-ops.
func (s *Server) Start() {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer close(s.done)
		s.broker.Run(s.ctx)
	}()
	go s.wsHub.Run(s.ctx)
	s.logger.Debug().Msg("Background services started")
}

// Handler returns the configured http.Handler with middleware chain applied.
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

// Shutdown stops background services, waiting for the broker to close its
// subscribers or for ctx to expire.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down server background services")
	s.cancel()
	if !s.started.Load() {
		return nil
	}

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Broker returns the event broker for publishing events.
func (s *Server) Broker() *events.Broker {
	return s.broker
}

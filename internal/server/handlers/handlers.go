// Package handlers provides HTTP request handlers for the nutrimap API.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/carebridge/nutrimap/cmd/application"
	"github.com/carebridge/nutrimap/internal/server/cache"
	"github.com/carebridge/nutrimap/internal/server/events"
	"github.com/carebridge/nutrimap/internal/server/response"
	ws "github.com/carebridge/nutrimap/internal/server/websocket"
	"github.com/carebridge/nutrimap/pkg/constants"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// Handlers provides access to all HTTP handlers.
type Handlers struct {
	app       application.Application
	cache     *cache.Cache
	broker    *events.Broker
	wsHub     *ws.Hub
	upgrader  websocket.Upgrader
	logger    *zerolog.Logger
	debounce  time.Duration
	startTime time.Time
}

// Option configures Handlers.
type Option func(*Handlers)

// WithSessionDebounce sets the input debounce of WebSocket sessions.
func WithSessionDebounce(d time.Duration) Option {
	return func(h *Handlers) {
		if d >= 0 {
			h.debounce = d
		}
	}
}

// WithStartTime sets the time reported as the server start.
func WithStartTime(t time.Time) Option {
	return func(h *Handlers) {
		h.startTime = t
	}
}

// New creates a new Handlers instance.
func New(
	app application.Application,
	cache *cache.Cache,
	broker *events.Broker,
	wsHub *ws.Hub,
	upgrader websocket.Upgrader,
	logger *zerolog.Logger,
	opts ...Option,
) *Handlers {
	h := &Handlers{
		app:       app,
		cache:     cache,
		broker:    broker,
		wsHub:     wsHub,
		upgrader:  upgrader,
		logger:    logger,
		debounce:  constants.SearchDebounce,
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// decodeJSON reads a JSON body into v, answering 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		response.BadRequest(w, "Invalid request body", err.Error())
		return false
	}
	return true
}

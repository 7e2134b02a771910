package server

import (
	"net/http"

	"github.com/carebridge/nutrimap/internal/server/handlers"
	"github.com/carebridge/nutrimap/internal/server/middleware"
	"github.com/carebridge/nutrimap/internal/server/response"
)

// setupRouter creates the HTTP handler with routes and middleware.
func (s *Server) setupRouter() http.Handler {
	mux := http.NewServeMux()

	h := handlers.New(
		s.app,
		s.cache,
		s.broker,
		s.wsHub,
		s.upgrader,
		s.logger,
		handlers.WithSessionDebounce(s.config.SessionDebounce),
		handlers.WithStartTime(s.startTime),
	)

	s.registerRoutes(mux, h)

	return s.applyMiddleware(mux)
}

// registerRoutes registers all HTTP routes.
func (s *Server) registerRoutes(mux *http.ServeMux, h *handlers.Handlers) {
	prefix := s.config.PathPrefix

	// Favicon handler (return 204 No Content to avoid 404 logs)
	mux.HandleFunc("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Health endpoints
	mux.HandleFunc("/health", only(http.MethodGet, h.HandleHealth))
	mux.HandleFunc(prefix+"/health", only(http.MethodGet, h.HandleHealth))
	mux.HandleFunc(prefix+"/ready", only(http.MethodGet, h.HandleReady))

	// Foods
	mux.HandleFunc(prefix+"/foods/search", only(http.MethodGet, h.HandleSearchFoods))
	mux.HandleFunc(prefix+"/foods/{fdcId}", only(http.MethodGet, h.HandleFoodDetails))

	// Needs and journal
	mux.HandleFunc(prefix+"/needs", only(http.MethodPost, h.HandleNeeds))
	mux.HandleFunc(prefix+"/journal", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.HandleListEntries(w, r)
		case http.MethodPost:
			h.HandleAddEntry(w, r)
		default:
			response.MethodNotAllowed(w, r.Method)
		}
	})
	mux.HandleFunc(prefix+"/summary", only(http.MethodGet, h.HandleSummary))

	// Real-time endpoints
	mux.HandleFunc(prefix+"/session/ws", h.HandleSession)
	mux.HandleFunc(prefix+"/updates/ws", h.HandleUpdates)
}

// only rejects requests whose method is not method.
func only(method string, fn http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			response.MethodNotAllowed(w, r.Method)
			return
		}
		fn(w, r)
	}
}

// applyMiddleware wraps handler, outermost first: recovery, logging, CORS
// when enabled, then rate limiting when enabled.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	cfg := s.config
	chain := []func(http.Handler) http.Handler{
		middleware.Recovery(s.logger),
		middleware.Logger(s.logger),
	}

	if cfg.CORSEnabled || len(cfg.CORSOrigins) > 0 {
		corsConfig := middleware.DefaultCORSConfig()
		if len(cfg.CORSOrigins) > 0 {
			corsConfig.AllowedOrigins = cfg.CORSOrigins
		} else {
			corsConfig.AllowAll = true
		}
		chain = append(chain, middleware.CORS(corsConfig))
	}

	if cfg.RateLimit > 0 {
		chain = append(chain, middleware.RateLimit(middleware.NewRateLimiter(cfg.RateLimit, s.logger)))
	}

	return middleware.Chain(chain...)(handler)
}

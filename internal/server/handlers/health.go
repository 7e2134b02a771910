package handlers

import (
	"net/http"
	"time"

	"github.com/carebridge/nutrimap/internal/server/response"
)

// HandleHealth reports liveness. It never touches a provider.
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"status":  "healthy",
		"service": "nutrimap",
		"version": h.app.Version(),
		"api":     "v1",
	})
}

// HandleReady handles GET /api/v1/ready. The server is ready once the
// reconciliation client and the journal can both be built.
func (h *Handlers) HandleReady(w http.ResponseWriter, _ *http.Request) {
	client, err := h.app.Client()
	if err != nil {
		response.ServiceUnavailable(w, "Nutrition providers not configured")
		return
	}
	if _, err := h.app.Journal(); err != nil {
		response.ServiceUnavailable(w, "Journal not available")
		return
	}

	response.OK(w, map[string]any{
		"status":    "ready",
		"providers": client.Providers(),
		"cache": map[string]any{
			"items": h.cache.ItemCount(),
		},
		"websocket_clients": h.wsHub.ClientCount(),
		"subscribers":       h.broker.SubscriberCount(),
		"uptime":            time.Since(h.startTime).Round(time.Second).String(),
	})
}

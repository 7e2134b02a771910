package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/carebridge/nutrimap/internal/server/events"
	ws "github.com/carebridge/nutrimap/internal/server/websocket"
)

// HandleUpdates handles WebSocket connections at /api/v1/updates/ws.
// Clients receive every broker event: reconciled foods, dropped provider
// answers, journal entries and profile updates.
func (h *Handlers) HandleUpdates(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := ws.NewClient(uuid.NewString(), h.wsHub, conn, h.logger)
	h.wsHub.Register(client)

	h.broker.Publish(events.ClientConnected, map[string]any{
		"client_id": client.ID(),
		"clients":   h.wsHub.ClientCount(),
	})

	go client.WritePump()
	go client.ReadPump()
}

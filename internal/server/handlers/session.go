package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/carebridge/nutrimap"
	"github.com/carebridge/nutrimap/internal/server/response"
	ws "github.com/carebridge/nutrimap/internal/server/websocket"
	"github.com/carebridge/nutrimap/pkg/errors"
	"github.com/carebridge/nutrimap/pkg/logging"
	"github.com/carebridge/nutrimap/pkg/nutrition"
)

// Session frame types.
const (
	FrameQuery          = "query"
	FrameFlush          = "flush"
	FrameSelect         = "select"
	FrameClearSelection = "clear_selection"
	FrameClear          = "clear"

	FrameState = "state"
	FrameError = "error"
)

// SessionFrame is a client message on the session socket.
type SessionFrame struct {
	Type  string                  `json:"type"`
	Query string                  `json:"query,omitempty"`
	Food  *nutrition.FoodIdentity `json:"food,omitempty"`
}

// HandleSession handles WebSocket connections at /api/v1/session/ws.
//
// Each connection owns one interactive session. Client frames drive the
// session and every state change is pushed back as a "state" frame
// carrying the full snapshot.
func (h *Handlers) HandleSession(w http.ResponseWriter, r *http.Request) {
	client, err := h.app.Client()
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	id := uuid.NewString()
	logger := h.logger.With().Str("session_id", id).Logger()
	ctx, cancel := context.WithCancel(logging.WithLogger(context.Background(), &logger))

	wsClient := ws.NewClient(id, nil, conn, &logger)
	session := nutrimap.NewSession(client,
		nutrimap.WithDebounce(h.debounce),
		nutrimap.WithSessionContext(ctx),
	)
	session.OnChange(func(state nutrimap.SessionState) {
		if !wsClient.Send(stateMessage(state)) {
			logger.Debug().Uint64("version", state.Version).Msg("Session state dropped")
		}
	})
	wsClient.OnMessage(func(data []byte) {
		if err := applyFrame(session, data); err != nil {
			wsClient.Send(ws.Message{
				Type:      FrameError,
				Timestamp: time.Now(),
				Data:      map[string]string{"message": err.Error()},
			})
		}
	})

	wsClient.Send(stateMessage(session.Snapshot()))
	logger.Info().Msg("Session opened")

	go func() {
		<-wsClient.Done()
		cancel()
		session.Close()
		logger.Info().Msg("Session closed")
	}()
	go wsClient.WritePump()
	go wsClient.ReadPump()
}

func stateMessage(state nutrimap.SessionState) ws.Message {
	return ws.Message{
		Type:      FrameState,
		Timestamp: time.Now(),
		Data:      state,
	}
}

// applyFrame decodes one client frame and applies it to session.
func applyFrame(session *nutrimap.Session, data []byte) error {
	var frame SessionFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return errors.NewValidationError("frame", string(data), "malformed JSON")
	}

	switch frame.Type {
	case FrameQuery:
		session.Type(frame.Query)
	case FrameFlush:
		session.Flush()
	case FrameSelect:
		if frame.Food == nil {
			return errors.NewValidationError("food", nil, "is required")
		}
		if err := frame.Food.Validate(); err != nil {
			return errors.WrapValidation("food", err)
		}
		session.Select(*frame.Food)
	case FrameClearSelection:
		session.ClearSelection()
	case FrameClear:
		session.ClearSearch()
	default:
		return errors.NewValidationError("type", frame.Type, "unknown frame type")
	}
	return nil
}

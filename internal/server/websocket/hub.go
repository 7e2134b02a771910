// Package websocket provides WebSocket connections for live updates and
// interactive lookup sessions.
package websocket

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/carebridge/nutrimap/internal/server/events"
)

// Hub fans server messages out to the connected update clients.
type Hub struct {
	mu        sync.RWMutex
	clients   map[*Client]struct{}
	broadcast chan Message
	logger    *zerolog.Logger
}

// NewHub creates a new WebSocket hub.
func NewHub(logger *zerolog.Logger) *Hub {
	return &Hub{
		clients:   make(map[*Client]struct{}),
		broadcast: make(chan Message, 256),
		logger:    logger,
	}
}

// Run delivers broadcasts until ctx is canceled, then closes every client.
// A client whose queue is full is disconnected.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.evict(func(*Client) bool { return true })
			return
		case message := <-h.broadcast:
			h.evict(func(c *Client) bool { return !c.Send(message) })
		}
	}
}

// evict closes and removes the clients for which drop reports true.
func (h *Hub) evict(drop func(*Client) bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		if drop(client) {
			client.close()
			delete(h.clients, client)
		}
	}
}

// Register adds a client to the broadcast set.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	h.clients[client] = struct{}{}
	total := len(h.clients)
	h.mu.Unlock()

	h.logger.Info().
		Str("client_id", client.id).
		Int("total_clients", total).
		Msg("WebSocket client connected")
}

// Unregister removes a client and closes its send queue.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		client.close()
	}
	total := len(h.clients)
	h.mu.Unlock()

	h.logger.Info().
		Str("client_id", client.id).
		Int("total_clients", total).
		Msg("WebSocket client disconnected")
}

// Broadcast queues a message for all connected clients.
func (h *Hub) Broadcast(message Message) {
	select {
	case h.broadcast <- message:
	default:
		h.logger.Warn().Msg("Broadcast channel full, message dropped")
	}
}

// Subscriber returns a broker subscriber that broadcasts every event to
// the hub's clients.
func (h *Hub) Subscriber() events.Subscriber {
	return events.SubscriberFunc(func(e events.Event) error {
		h.Broadcast(Message{Type: string(e.Type), Timestamp: e.Timestamp, Data: e.Data})
		return nil
	})
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Message is a server frame.
type Message struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// Client is one WebSocket connection. Clients created with a hub receive
// broadcasts; clients without one are driven by their owner through Send.
type Client struct {
	id      string
	hub     *Hub
	conn    *websocket.Conn
	logger  *zerolog.Logger
	handler func([]byte)

	mu     sync.Mutex
	send   chan Message
	closed bool
	done   chan struct{}
}

// NewClient creates a new WebSocket client. hub may be nil.
func NewClient(id string, hub *Hub, conn *websocket.Conn, logger *zerolog.Logger) *Client {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Client{
		id:     id,
		hub:    hub,
		conn:   conn,
		logger: logger,
		send:   make(chan Message, 256),
		done:   make(chan struct{}),
	}
}

// ID returns the client identifier.
func (c *Client) ID() string {
	return c.id
}

// OnMessage sets the handler for inbound text frames. It must be called
// before ReadPump.
func (c *Client) OnMessage(fn func([]byte)) {
	c.handler = fn
}

// Send queues a message without blocking. It reports false when the client
// is closed or its queue is full.
func (c *Client) Send(message Message) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- message:
		return true
	default:
		return false
	}
}

// Done is closed when the client shuts down.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
	close(c.done)
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 4096
)

// ReadPump reads inbound frames until the connection fails, then
// unregisters the client.
func (c *Client) ReadPump() {
	defer func() {
		if c.hub != nil {
			c.hub.Unregister(c)
		} else {
			c.close()
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error().Err(err).Str("client_id", c.id).Msg("WebSocket read error")
			}
			return
		}
		if c.handler != nil {
			c.handler(data)
		}
	}
}

// WritePump writes queued messages and keepalive pings to the connection.
// It returns when the queue is closed or a write fails.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		var err error
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			err = c.conn.WriteJSON(message)
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			err = c.conn.WriteMessage(websocket.PingMessage, nil)
		}
		if err != nil {
			c.logger.Debug().Err(err).Str("client_id", c.id).Msg("WebSocket write failed")
			return
		}
	}
}

package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/gorilla/websocket"
	"github.com/sglre6355/sgrtune/internal/modules/playback/application/ports"
	"github.com/sglre6355/sgrtune/internal/modules/playback/domain"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = 30 * time.Second
	// Messages buffered per client before it is considered too slow and dropped.
	clientSendBuffer = 64
)

// Event types pushed to WebSocket clients.
const (
	EventTypeConnected    = "connected"
	EventTypeNotification = "notification"
	EventTypeState        = "state"
)

// HubEvent is the envelope of every message sent to a client.
type HubEvent struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

type notificationPayload struct {
	Level      ports.NotificationLevel `json:"level"`
	Title      string                  `json:"title"`
	Message    string                  `json:"message"`
	ArtworkURL string                  `json:"artwork_url,omitempty"`
}

type hubClient struct {
	hub       *WebSocketHub
	sessionID snowflake.ID
	conn      *websocket.Conn
	send      chan []byte
}

// WebSocketHub fans session notifications and state changes out to the
// WebSocket clients watching each session.
type WebSocketHub struct {
	upgrader    websocket.Upgrader
	renderState func(domain.SessionSnapshot) any

	mu       sync.RWMutex
	sessions map[snowflake.ID]map[*hubClient]struct{}
}

// NewWebSocketHub creates a new WebSocketHub. renderState converts a snapshot
// into the payload sent with "state" events; nil sends the snapshot as is.
func NewWebSocketHub(renderState func(domain.SessionSnapshot) any) *WebSocketHub {
	if renderState == nil {
		renderState = func(s domain.SessionSnapshot) any { return s }
	}

	return &WebSocketHub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // the front end may be served from another origin
			},
		},
		renderState: renderState,
		sessions:    make(map[snowflake.ID]map[*hubClient]struct{}),
	}
}

// ServeSession upgrades the request and subscribes the connection to the session.
func (h *WebSocketHub) ServeSession(w http.ResponseWriter, r *http.Request, sessionID snowflake.ID) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("failed to upgrade websocket", "remote", r.RemoteAddr, "error", err)
		return
	}

	client := &hubClient{
		hub:       h,
		sessionID: sessionID,
		conn:      conn,
		send:      make(chan []byte, clientSendBuffer),
	}

	if data, err := json.Marshal(HubEvent{Type: EventTypeConnected}); err == nil {
		client.send <- data
	}

	h.register(client)

	go client.writePump()
	go client.readPump()
}

// Notify implements ports.NotificationSender.
func (h *WebSocketHub) Notify(_ context.Context, sessionID snowflake.ID, n ports.Notification) error {
	return h.broadcast(sessionID, HubEvent{
		Type: EventTypeNotification,
		Payload: notificationPayload{
			Level:      n.Level,
			Title:      n.Title,
			Message:    n.Message,
			ArtworkURL: n.ArtworkURL,
		},
	})
}

// PublishState implements ports.StatePublisher.
func (h *WebSocketHub) PublishState(_ context.Context, snapshot domain.SessionSnapshot) error {
	return h.broadcast(snapshot.SessionID, HubEvent{
		Type:    EventTypeState,
		Payload: h.renderState(snapshot),
	})
}

// ClientCount returns the number of clients watching the session.
func (h *WebSocketHub) ClientCount(sessionID snowflake.ID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}

// Forget disconnects every client of a closed session.
func (h *WebSocketHub) Forget(sessionID snowflake.ID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.sessions[sessionID] {
		close(client.send)
	}
	delete(h.sessions, sessionID)
}

// Close disconnects every client.
func (h *WebSocketHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, clients := range h.sessions {
		for client := range clients {
			close(client.send)
		}
		delete(h.sessions, id)
	}
}

func (h *WebSocketHub) register(client *hubClient) {
	h.mu.Lock()
	clients, ok := h.sessions[client.sessionID]
	if !ok {
		clients = make(map[*hubClient]struct{})
		h.sessions[client.sessionID] = clients
	}
	clients[client] = struct{}{}
	count := len(clients)
	h.mu.Unlock()

	slog.Debug("websocket client connected", "session", client.sessionID, "clients", count)
}

func (h *WebSocketHub) unregister(client *hubClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.sessions[client.sessionID]
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.sessions, client.sessionID)
	}

	slog.Debug("websocket client disconnected", "session", client.sessionID, "clients", len(clients))
}

func (h *WebSocketHub) broadcast(sessionID snowflake.ID, event HubEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event.Type, err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.sessions[sessionID]
	for client := range clients {
		select {
		case client.send <- data:
		default:
			slog.Warn("dropping slow websocket client", "session", sessionID)
			delete(clients, client)
			close(client.send)
		}
	}
	if len(clients) == 0 {
		delete(h.sessions, sessionID)
	}

	return nil
}

// writePump sends queued messages and keepalive pings to the connection.
func (c *hubClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains the connection until it closes. Clients never send commands
// over the socket; reads only keep the deadline and pong handling alive.
func (c *hubClient) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Warn("websocket read failed", "session", c.sessionID, "error", err)
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	}
}

var (
	_ ports.NotificationSender = (*WebSocketHub)(nil)
	_ ports.StatePublisher     = (*WebSocketHub)(nil)
)

package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
)

var Upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// PresenceNotifier receives the registry's online/offline transitions. The
// hub fires it on the first connection of a user and on the last disconnect.
type PresenceNotifier interface {
	UserOnline(ctx context.Context, userID string)
	UserOffline(ctx context.Context, userID string)
}

type Client struct {
	Hub    *Hub
	Conn   *websocket.Conn
	Send   chan []byte
	UserID string
	ConnID string
}

// Hub owns the live websocket clients and drives the connection registry.
// It implements ports.IBroadcaster for the services.
type Hub struct {
	Register   chan *Client
	Unregister chan *Client

	mu       sync.RWMutex
	clients  map[string]*Client
	registry *ConnectionRegistry
	presence PresenceNotifier
	active   prometheus.Gauge
	logger   *slog.Logger
}

func NewHub(registry *ConnectionRegistry, active prometheus.Gauge, logger *slog.Logger) *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[string]*Client),
		registry:   registry,
		active:     active,
		logger:     logger,
	}
}

// SetPresenceNotifier attaches the notifier after construction; the notifier
// itself broadcasts through the hub, so it cannot exist first.
func (h *Hub) SetPresenceNotifier(n PresenceNotifier) {
	h.presence = n
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.addClient(client)
		case client := <-h.Unregister:
			h.removeClient(client)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client.ConnID] = client
	h.mu.Unlock()

	becameOnline := h.registry.Register(client.UserID, client.ConnID)
	if h.active != nil {
		h.active.Inc()
	}
	h.logger.Info("client registered", "userID", client.UserID, "connID", client.ConnID)

	// Presence notifications are fire-and-forget and unordered: a rapid
	// connect/disconnect can apply the store's is_online writes out of
	// order. The flag is advisory and corrects on the next transition.
	if becameOnline && h.presence != nil {
		go h.presence.UserOnline(context.Background(), client.UserID)
	}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	current, ok := h.clients[client.ConnID]
	if !ok || current != client {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client.ConnID)
	close(client.Send)
	h.mu.Unlock()

	userID, becameOffline := h.registry.Unregister(client.ConnID)
	if h.active != nil {
		h.active.Dec()
	}
	h.logger.Info("client unregistered", "userID", client.UserID, "connID", client.ConnID)

	if becameOffline && h.presence != nil {
		go h.presence.UserOffline(context.Background(), userID)
	}
}

func (h *Hub) EmitToUser(userID string, event string, data interface{}) {
	payload, err := json.Marshal(Event{Event: event, Data: data})
	if err != nil {
		h.logger.Error("failed to marshal event", "event", event, "error", err)
		return
	}
	h.sendToConns(h.registry.ConnectionsFor(userID), payload, event)
}

func (h *Hub) EmitToUsers(userIDs []string, event string, data interface{}) {
	payload, err := json.Marshal(Event{Event: event, Data: data})
	if err != nil {
		h.logger.Error("failed to marshal event", "event", event, "error", err)
		return
	}
	var conns []string
	for _, userID := range userIDs {
		conns = append(conns, h.registry.ConnectionsFor(userID)...)
	}
	h.sendToConns(conns, payload, event)
}

func (h *Hub) EmitToAll(event string, data interface{}) {
	payload, err := json.Marshal(Event{Event: event, Data: data})
	if err != nil {
		h.logger.Error("failed to marshal event", "event", event, "error", err)
		return
	}
	h.sendToConns(h.registry.AllConnections(), payload, event)
}

// sendToConns pushes the payload to each connection's send channel. A full
// channel means a consumer that stopped draining; that client is dropped so
// one slow connection never stalls fanout to the rest.
func (h *Hub) sendToConns(connIDs []string, payload []byte, event string) {
	var dropped []*Client

	h.mu.RLock()
	for _, connID := range connIDs {
		client, ok := h.clients[connID]
		if !ok {
			continue
		}
		select {
		case client.Send <- payload:
			h.logger.Debug("event sent", "event", event, "userID", client.UserID, "connID", connID)
		default:
			h.logger.Warn("client send buffer full, dropping connection", "userID", client.UserID, "connID", connID)
			dropped = append(dropped, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range dropped {
		h.Unregister <- client
	}
}

// ReadPump drains the connection until it closes. Clients send messages over
// the REST surface, so inbound frames are not interpreted; the read loop
// exists to detect disconnects and keep control frames flowing.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Error("websocket error", "userID", c.UserID, "error", err)
			}
			return
		}
	}
}

func (c *Client) WritePump() {
	defer func() {
		c.Conn.Close()
	}()

	for message := range c.Send {
		w, err := c.Conn.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}

		w.Write(message)

		if err := w.Close(); err != nil {
			return
		}
	}

	c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}

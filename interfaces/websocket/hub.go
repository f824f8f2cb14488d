// Package websocket fans document events out to every client connected to
// the same share id. REST handlers mutate documents; connections here only
// receive broadcasts and keep presence alive.
package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"codoc-backend/pkg/observability"

	"go.uber.org/zap"
)

// DetachFunc is invoked when the last connection of a session leaves a
// document, so presence can be released.
type DetachFunc func(shareID, sessionToken string)

// Hub maintains active WebSocket connections grouped by document
type Hub struct {
	// shareID -> set of clients
	connections map[string]map[*Client]bool
	// shareID -> sessionToken -> open connection count
	sessions map[string]map[string]int
	mu       sync.RWMutex

	register   chan *Client
	unregister chan *Client

	broadcast chan *BroadcastMessage

	onDetach DetachFunc

	ctx    context.Context
	cancel context.CancelFunc
	logger *zap.Logger
}

// BroadcastMessage is one event addressed to every client of a document
type BroadcastMessage struct {
	ShareID   string          `json:"-"`
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

// NewHub creates a new WebSocket hub
func NewHub(logger *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	return &Hub{
		connections: make(map[string]map[*Client]bool),
		sessions:    make(map[string]map[string]int),
		register:    make(chan *Client, 100),
		unregister:  make(chan *Client, 100),
		broadcast:   make(chan *BroadcastMessage, 1000),
		ctx:         ctx,
		cancel:      cancel,
		logger:      logger,
	}
}

// SetDetachHandler installs the presence release callback. Must be called
// before Run.
func (h *Hub) SetDetachHandler(fn DetachFunc) {
	h.onDetach = fn
}

// Run starts the hub's main event loop
func (h *Hub) Run() {
	for {
		select {
		case <-h.ctx.Done():
			h.logger.Info("hub shutting down")
			h.closeAllConnections()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastToDocument(message)
		}
	}
}

// Stop gracefully shuts down the hub
func (h *Hub) Stop() {
	h.cancel()
}

// SendToDocument queues a message for every connection on the share id
func (h *Hub) SendToDocument(shareID string, messageType string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	message := &BroadcastMessage{
		ShareID:   shareID,
		Type:      messageType,
		Data:      jsonData,
		Timestamp: time.Now().Unix(),
	}

	select {
	case h.broadcast <- message:
		return nil
	case <-time.After(5 * time.Second):
		return fmt.Errorf("broadcast channel full, message dropped")
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.connections[client.shareID] == nil {
		h.connections[client.shareID] = make(map[*Client]bool)
		h.sessions[client.shareID] = make(map[string]int)
	}
	h.connections[client.shareID][client] = true
	h.sessions[client.shareID][client.sessionToken]++

	observability.ActiveSessions.WithLabelValues(client.shareID).Inc()
	h.logger.Info("client registered",
		zap.String("share_id", client.shareID),
		zap.String("connection_id", client.id),
		zap.Int("document_connections", len(h.connections[client.shareID])),
	)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()

	clients, ok := h.connections[client.shareID]
	if !ok || !clients[client] {
		h.mu.Unlock()
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.connections, client.shareID)
	}

	var sessionGone bool
	if counts, ok := h.sessions[client.shareID]; ok {
		counts[client.sessionToken]--
		if counts[client.sessionToken] <= 0 {
			delete(counts, client.sessionToken)
			sessionGone = true
		}
		if len(counts) == 0 {
			delete(h.sessions, client.shareID)
		}
	}

	observability.ActiveSessions.WithLabelValues(client.shareID).Dec()
	h.logger.Info("client unregistered",
		zap.String("share_id", client.shareID),
		zap.String("connection_id", client.id),
		zap.Int("remaining_connections", len(clients)),
	)
	h.mu.Unlock()

	// Presence release runs outside the hub lock; it re-enters the hub via
	// the broadcast channel.
	if sessionGone && h.onDetach != nil {
		h.onDetach(client.shareID, client.sessionToken)
	}
}

func (h *Hub) broadcastToDocument(message *BroadcastMessage) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.connections[message.ShareID]))
	for client := range h.connections[message.ShareID] {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	if len(clients) == 0 {
		return
	}

	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("failed to marshal broadcast message",
			zap.Error(err),
			zap.String("message_type", message.Type),
		)
		return
	}

	for _, client := range clients {
		select {
		case client.send <- data:
			observability.Broadcasts.Inc()
		default:
			// The client cannot keep up with the event stream.
			h.logger.Warn("closing slow client",
				zap.String("share_id", client.shareID),
				zap.String("connection_id", client.id),
			)
			go func(c *Client) {
				c.hub.unregister <- c
				c.conn.Close()
			}(client)
		}
	}
}

func (h *Hub) closeAllConnections() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for shareID, clients := range h.connections {
		for client := range clients {
			close(client.send)
			client.conn.Close()
		}
		delete(h.connections, shareID)
	}
	h.sessions = make(map[string]map[string]int)
}

// ConnectionCount returns the number of open connections for a document
func (h *Hub) ConnectionCount(shareID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections[shareID])
}

// SessionCount returns the number of distinct sessions on a document
func (h *Hub) SessionCount(shareID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[shareID])
}

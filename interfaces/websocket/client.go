package websocket

import (
	"bytes"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512 * 1024

	// Send buffer size
	sendBufferSize = 256
)

// Client represents one WebSocket connection bound to a document
type Client struct {
	id           string
	shareID      string
	sessionToken string
	hub          *Hub
	conn         *websocket.Conn
	send         chan []byte
	logger       *zap.Logger
}

// NewClient creates a new WebSocket client
func NewClient(shareID, sessionToken string, hub *Hub, conn *websocket.Conn, logger *zap.Logger) *Client {
	id := uuid.New().String()
	return &Client{
		id:           id,
		shareID:      shareID,
		sessionToken: sessionToken,
		hub:          hub,
		conn:         conn,
		send:         make(chan []byte, sendBufferSize),
		logger: logger.With(
			zap.String("share_id", shareID),
			zap.String("connection_id", id),
		),
	}
}

// Start registers the client and begins its read and write pumps
func (c *Client) Start() {
	c.hub.register <- c

	go c.writePump()
	go c.readPump()

	c.sendConnectionEstablished()
}

// readPump pumps messages from the WebSocket connection to the hub
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("websocket read error", zap.Error(err))
			}
			break
		}

		switch messageType {
		case websocket.TextMessage:
			c.handleTextMessage(message)
		case websocket.BinaryMessage:
			c.logger.Warn("binary messages not supported")
		}
	}
}

// writePump pumps messages from the hub to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Error("failed to write message", zap.Error(err))
				return
			}

			// Drain anything already queued into the same write window.
			n := len(c.send)
			for i := 0; i < n; i++ {
				if err := c.conn.WriteMessage(websocket.TextMessage, <-c.send); err != nil {
					c.logger.Error("failed to write batched message", zap.Error(err))
					return
				}
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleTextMessage processes incoming text messages. All document
// mutations go through the REST API; the socket only carries keepalives.
func (c *Client) handleTextMessage(message []byte) {
	message = bytes.TrimSpace(message)

	if string(message) == `{"type":"pong"}` {
		return
	}

	c.logger.Debug("received message from client", zap.String("message", string(message)))
}

// sendConnectionEstablished sends an initial connection message
func (c *Client) sendConnectionEstablished() {
	message := fmt.Sprintf(`{"type":"CONNECTION_ESTABLISHED","timestamp":%d,"data":{"connectionId":"%s","shareId":"%s"}}`,
		time.Now().Unix(), c.id, c.shareID)

	select {
	case c.send <- []byte(message):
	default:
		c.logger.Error("failed to send connection established message")
	}
}

// GetID returns the client's connection ID
func (c *Client) GetID() string {
	return c.id
}

// GetShareID returns the document the client is attached to
func (c *Client) GetShareID() string {
	return c.shareID
}

package websocket

import (
	"context"
	"net/http"

	"codoc-backend/application/services"
	"codoc-backend/domain/core/valueobjects"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Server upgrades HTTP requests to WebSocket connections bound to a
// document. Joining a socket also joins the document's presence list; the
// presence entry is released when the session's last socket closes.
type Server struct {
	hub      *Hub
	service  *services.DocumentService
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// ServerConfig holds WebSocket server configuration
type ServerConfig struct {
	ReadBufferSize  int
	WriteBufferSize int
	CheckOrigin     func(r *http.Request) bool
	MaxConnections  int
}

// DefaultServerConfig returns default WebSocket server configuration
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			// The share id itself is the access credential.
			return true
		},
		MaxConnections: 10000,
	}
}

// NewServer creates a new WebSocket server and wires presence release into
// the hub
func NewServer(hub *Hub, service *services.DocumentService, config *ServerConfig, logger *zap.Logger) *Server {
	if config == nil {
		config = DefaultServerConfig()
	}

	s := &Server{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		service: service,
		logger:  logger,
	}

	hub.SetDetachHandler(func(shareID, sessionToken string) {
		service.Leave(context.Background(), valueobjects.ShareID(shareID), sessionToken)
	})

	return s
}

// HandleWebSocket handles WebSocket upgrade requests for /ws/{shareID}
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	rawID := chi.URLParam(r, "shareID")
	shareID, err := valueobjects.ParseShareID(rawID)
	if err != nil {
		http.Error(w, "invalid share id", http.StatusBadRequest)
		return
	}

	// Reconnecting clients pass their session token to keep one presence
	// entry across sockets. First-time clients get a fresh token.
	sessionToken := r.URL.Query().Get("session")
	if sessionToken == "" {
		sessionToken = uuid.New().String()
	}

	if s.hub.ConnectionCount(shareID.String()) >= DefaultServerConfig().MaxConnections {
		http.Error(w, "connection limit exceeded", http.StatusTooManyRequests)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("failed to upgrade connection",
			zap.Error(err),
			zap.String("remote_addr", r.RemoteAddr),
		)
		return
	}

	client := NewClient(shareID.String(), sessionToken, s.hub, conn, s.logger)
	client.Start()

	// Presence join happens after registration so the USER_JOINED event
	// reaches this connection too.
	s.service.Join(r.Context(), shareID, sessionToken)

	s.logger.Info("websocket connection established",
		zap.String("share_id", shareID.String()),
		zap.String("connection_id", client.GetID()),
		zap.String("remote_addr", r.RemoteAddr),
	)
}

// GetHub returns the WebSocket hub
func (s *Server) GetHub() *Hub {
	return s.hub
}

package websocket

import (
	"net/http"

	"github.com/RithishKumarK/supreme/application/services"
	pkgerrors "github.com/RithishKumarK/supreme/pkg/errors"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// SessionLookup resolves a session id
type SessionLookup interface {
	Get(id string) (*services.EditorSession, error)
}

// ServerConfig holds WebSocket server configuration
type ServerConfig struct {
	ReadBufferSize       int
	WriteBufferSize      int
	CheckOrigin          func(r *http.Request) bool
	MaxClientsPerSession int
}

// DefaultServerConfig returns default WebSocket server configuration
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
		MaxClientsPerSession: 10,
	}
}

// Greeting is the payload of the first message on every connection
type Greeting struct {
	ConnectionID string      `json:"connectionId"`
	SessionID    string      `json:"sessionId"`
	Version      int         `json:"version"`
	Graph        interface{} `json:"graph"`
}

// Server upgrades session watch requests to WebSocket connections
type Server struct {
	hub          *Hub
	sessions     SessionLookup
	upgrader     websocket.Upgrader
	maxClients   int
	errorHandler *pkgerrors.ErrorHandler
	logger       *zap.Logger
}

// NewServer creates a new WebSocket server
func NewServer(hub *Hub, sessions SessionLookup, config *ServerConfig, errorHandler *pkgerrors.ErrorHandler, logger *zap.Logger) *Server {
	if config == nil {
		config = DefaultServerConfig()
	}

	return &Server{
		hub:      hub,
		sessions: sessions,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		maxClients:   config.MaxClientsPerSession,
		errorHandler: errorHandler,
		logger:       logger,
	}
}

// HandleWebSocket handles GET /ws/sessions/{sessionID}
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		s.errorHandler.Handle(w, r, err)
		return
	}

	if s.maxClients > 0 && s.hub.GetConnectionCount(sessionID) >= s.maxClients {
		s.errorHandler.Handle(w, r, pkgerrors.NewLimitError("too many watchers for this session"))
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader has already written the error response
		s.logger.Warn("Failed to upgrade connection",
			zap.Error(err),
			zap.String("remoteAddr", r.RemoteAddr),
		)
		return
	}

	client := NewClient(sessionID, s.hub, conn, s.logger)
	client.Start(Greeting{
		ConnectionID: client.ID(),
		SessionID:    sessionID,
		Version:      session.Version(),
		Graph:        session.Graph(),
	})

	s.logger.Info("New WebSocket connection established",
		zap.String("sessionID", sessionID),
		zap.String("connectionID", client.ID()),
		zap.String("remoteAddr", r.RemoteAddr),
	)
}

// Hub returns the WebSocket hub
func (s *Server) Hub() *Hub {
	return s.hub
}

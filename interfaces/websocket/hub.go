package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Hub maintains active WebSocket connections grouped by editor session
type Hub struct {
	// Session connections - one session can be watched by several clients
	connections map[string]map[*Client]bool // sessionID -> set of clients
	mu          sync.RWMutex

	// Channels for client management
	register   chan *Client
	unregister chan *Client
	closeAll   chan string

	// Message broadcasting
	broadcast chan *Message

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	logger *zap.Logger

	metrics       *HubMetrics
	onClientCount func(int)
}

// HubMetrics tracks WebSocket metrics
type HubMetrics struct {
	ActiveConnections int64
	MessagesSent      int64
	MessagesDropped   int64
	mu                sync.RWMutex
}

// Message is one notification sent to every client of a session
type Message struct {
	SessionID string          `json:"sessionId"`
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

// HubOption configures a Hub
type HubOption func(*Hub)

// WithClientGauge reports the connected client count after every change
func WithClientGauge(fn func(int)) HubOption {
	return func(h *Hub) {
		h.onClientCount = fn
	}
}

// NewHub creates a new WebSocket hub
func NewHub(logger *zap.Logger, opts ...HubOption) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	h := &Hub{
		connections:   make(map[string]map[*Client]bool),
		register:      make(chan *Client, 100),
		unregister:    make(chan *Client, 100),
		closeAll:      make(chan string, 100),
		broadcast:     make(chan *Message, 1000),
		ctx:           ctx,
		cancel:        cancel,
		logger:        logger,
		metrics:       &HubMetrics{},
		onClientCount: func(int) {},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run starts the hub's main event loop
func (h *Hub) Run() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			h.logger.Info("Hub shutting down")
			h.closeAllConnections()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case sessionID := <-h.closeAll:
			h.closeSession(sessionID)

		case message := <-h.broadcast:
			h.broadcastToSession(message)

		case <-ticker.C:
			h.performHealthCheck()
		}
	}
}

// Stop gracefully shuts down the hub
func (h *Hub) Stop() {
	h.logger.Info("Stopping WebSocket hub")
	h.cancel()
}

// Send queues a message for every client watching sessionID. It never blocks;
// when the queue is full the message is dropped.
func (h *Hub) Send(sessionID string, messageType string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	message := &Message{
		SessionID: sessionID,
		Type:      messageType,
		Data:      jsonData,
		Timestamp: time.Now().Unix(),
	}

	select {
	case h.broadcast <- message:
		return nil
	default:
		h.metrics.mu.Lock()
		h.metrics.MessagesDropped++
		h.metrics.mu.Unlock()
		return fmt.Errorf("broadcast channel full, message dropped")
	}
}

// CloseSession disconnects every client of a session
func (h *Hub) CloseSession(sessionID string) {
	select {
	case h.closeAll <- sessionID:
	case <-h.ctx.Done():
	}
}

// registerClient adds a new client connection
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	if h.connections[client.sessionID] == nil {
		h.connections[client.sessionID] = make(map[*Client]bool)
	}
	h.connections[client.sessionID][client] = true
	sessionConnections := len(h.connections[client.sessionID])
	h.mu.Unlock()

	h.metrics.mu.Lock()
	h.metrics.ActiveConnections++
	active := h.metrics.ActiveConnections
	h.metrics.mu.Unlock()
	h.onClientCount(int(active))

	h.logger.Info("Client registered",
		zap.String("sessionID", client.sessionID),
		zap.String("connectionID", client.id),
		zap.Int("sessionConnections", sessionConnections),
	)
}

// unregisterClient removes a client connection
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	clients, ok := h.connections[client.sessionID]
	if !ok || !clients[client] {
		h.mu.Unlock()
		return
	}
	delete(clients, client)
	close(client.send)
	remaining := len(clients)
	if remaining == 0 {
		delete(h.connections, client.sessionID)
	}
	h.mu.Unlock()

	h.metrics.mu.Lock()
	h.metrics.ActiveConnections--
	active := h.metrics.ActiveConnections
	h.metrics.mu.Unlock()
	h.onClientCount(int(active))

	h.logger.Info("Client unregistered",
		zap.String("sessionID", client.sessionID),
		zap.String("connectionID", client.id),
		zap.Int("remainingConnections", remaining),
	)
}

func (h *Hub) closeSession(sessionID string) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.connections[sessionID]))
	for client := range h.connections[sessionID] {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	// closing send makes the write pump send a close frame
	for _, client := range clients {
		h.unregisterClient(client)
	}
}

// broadcastToSession sends a message to all connections of a session
func (h *Hub) broadcastToSession(message *Message) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.connections[message.SessionID]))
	for client := range h.connections[message.SessionID] {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	if len(clients) == 0 {
		return
	}

	// Marshal once for all clients
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("Failed to marshal broadcast message",
			zap.Error(err),
			zap.String("messageType", message.Type),
		)
		return
	}

	for _, client := range clients {
		select {
		case client.send <- data:
			h.metrics.mu.Lock()
			h.metrics.MessagesSent++
			h.metrics.mu.Unlock()
		default:
			h.metrics.mu.Lock()
			h.metrics.MessagesDropped++
			h.metrics.mu.Unlock()

			h.logger.Warn("Closing slow client",
				zap.String("sessionID", client.sessionID),
				zap.String("connectionID", client.id),
			)
			h.unregisterClient(client)
		}
	}
}

// performHealthCheck logs connection totals
func (h *Hub) performHealthCheck() {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, clients := range h.connections {
		total += len(clients)
	}
	h.logger.Debug("Health check performed",
		zap.Int("totalConnections", total),
		zap.Int("totalSessions", len(h.connections)),
	)
}

// closeAllConnections closes all active connections during shutdown
func (h *Hub) closeAllConnections() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sessionID, clients := range h.connections {
		for client := range clients {
			close(client.send)
		}
		delete(h.connections, sessionID)
	}

	h.metrics.mu.Lock()
	h.metrics.ActiveConnections = 0
	h.metrics.mu.Unlock()
	h.onClientCount(0)

	h.logger.Info("All connections closed")
}

// GetMetrics returns current hub metrics
func (h *Hub) GetMetrics() (active, sent, dropped int64) {
	h.metrics.mu.RLock()
	defer h.metrics.mu.RUnlock()
	return h.metrics.ActiveConnections, h.metrics.MessagesSent, h.metrics.MessagesDropped
}

// GetConnectionCount returns the number of active connections for a session
func (h *Hub) GetConnectionCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections[sessionID])
}

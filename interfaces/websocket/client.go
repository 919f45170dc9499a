package websocket

import (
	"bytes"
	"encoding/json"
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

	// Clients only send pongs and pings
	maxMessageSize = 4 * 1024

	sendBufferSize = 256
)

// Message types sent by the server itself
const (
	TypeConnectionEstablished = "connection.established"
)

// Client is one WebSocket connection watching an editor session
type Client struct {
	id        string
	sessionID string
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	logger    *zap.Logger
}

// NewClient creates a new WebSocket client
func NewClient(sessionID string, hub *Hub, conn *websocket.Conn, logger *zap.Logger) *Client {
	id := uuid.New().String()
	return &Client{
		id:        id,
		sessionID: sessionID,
		hub:       hub,
		conn:      conn,
		send:      make(chan []byte, sendBufferSize),
		logger: logger.With(
			zap.String("sessionID", sessionID),
			zap.String("connectionID", id),
		),
	}
}

// Start registers the client, queues the greeting and starts both pumps.
// greeting is the payload of the connection.established message.
func (c *Client) Start(greeting interface{}) {
	c.queue(TypeConnectionEstablished, greeting)
	c.hub.register <- c

	go c.writePump()
	go c.readPump()
}

func (c *Client) queue(messageType string, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		c.logger.Error("Failed to marshal message", zap.Error(err))
		return
	}
	message, err := json.Marshal(Message{
		SessionID: c.sessionID,
		Type:      messageType,
		Data:      payload,
		Timestamp: time.Now().Unix(),
	})
	if err != nil {
		c.logger.Error("Failed to marshal message", zap.Error(err))
		return
	}

	select {
	case c.send <- message:
	default:
		c.logger.Warn("Send buffer full", zap.String("messageType", messageType))
	}
}

// readPump drains the connection so pongs and close frames are processed
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.ctx.Done():
		}
		c.conn.Close()
		c.logger.Debug("Read pump stopped")
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
				c.logger.Error("WebSocket read error", zap.Error(err))
			}
			break
		}

		if messageType == websocket.TextMessage {
			c.handleTextMessage(message)
		}
	}
}

// writePump pumps messages from the hub to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		c.logger.Debug("Write pump stopped")
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
				c.logger.Debug("Failed to write message", zap.Error(err))
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Debug("Failed to send ping", zap.Error(err))
				return
			}
		}
	}
}

// handleTextMessage ignores everything except the keepalive pong
func (c *Client) handleTextMessage(message []byte) {
	message = bytes.TrimSpace(message)
	if string(message) == `{"type":"pong"}` {
		return
	}
	c.logger.Debug("Ignoring client message", zap.Int("bytes", len(message)))
}

// ID returns the client's connection ID
func (c *Client) ID() string {
	return c.id
}

// SessionID returns the watched session's ID
func (c *Client) SessionID() string {
	return c.sessionID
}

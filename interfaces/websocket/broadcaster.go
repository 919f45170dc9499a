package websocket

import (
	"sync"

	"github.com/RithishKumarK/supreme/application/services"
	"go.uber.org/zap"
)

// Broadcaster forwards editor session changes to the hub
type Broadcaster struct {
	hub    *Hub
	logger *zap.Logger

	mu            sync.Mutex
	unsubscribers map[string]func()
}

// NewBroadcaster creates a new change broadcaster
func NewBroadcaster(hub *Hub, logger *zap.Logger) *Broadcaster {
	return &Broadcaster{
		hub:           hub,
		logger:        logger,
		unsubscribers: make(map[string]func()),
	}
}

// Attach starts forwarding a session's changes
func (b *Broadcaster) Attach(session *services.EditorSession) {
	unsubscribe := session.Subscribe(func(c services.Change) {
		if err := b.hub.Send(c.SessionID, c.Type, c); err != nil {
			b.logger.Warn("Failed to forward change",
				zap.String("sessionID", c.SessionID),
				zap.String("type", c.Type),
				zap.Error(err),
			)
		}
	})

	b.mu.Lock()
	if previous, ok := b.unsubscribers[session.ID()]; ok {
		previous()
	}
	b.unsubscribers[session.ID()] = unsubscribe
	b.mu.Unlock()
}

// Detach stops forwarding and disconnects the session's clients
func (b *Broadcaster) Detach(sessionID string) {
	b.mu.Lock()
	unsubscribe, ok := b.unsubscribers[sessionID]
	delete(b.unsubscribers, sessionID)
	b.mu.Unlock()

	if ok {
		unsubscribe()
	}
	b.hub.CloseSession(sessionID)
}

package services

import (
	"fmt"
	"sort"
	"sync"

	domainservices "github.com/RithishKumarK/supreme/domain/services"
	pkgerrors "github.com/RithishKumarK/supreme/pkg/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionManager keeps the open editor sessions in memory
type SessionManager struct {
	mu          sync.RWMutex
	sessions    map[string]*EditorSession
	maxSessions int

	interpreter domainservices.PromptInterpreter
	generator   domainservices.Generator
	opts        SessionOptions

	recorder Recorder
	logger   *zap.Logger
}

// NewSessionManager creates a manager. maxSessions <= 0 means unlimited.
func NewSessionManager(
	interpreter domainservices.PromptInterpreter,
	generator domainservices.Generator,
	opts SessionOptions,
	maxSessions int,
	recorder Recorder,
	logger *zap.Logger,
) *SessionManager {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionManager{
		sessions:    make(map[string]*EditorSession),
		maxSessions: maxSessions,
		interpreter: interpreter,
		generator:   generator,
		opts:        opts,
		recorder:    recorder,
		logger:      logger,
	}
}

// Create opens a new session seeded with the Start node
func (m *SessionManager) Create() (*EditorSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.maxSessions > 0 && len(m.sessions) >= m.maxSessions {
		return nil, pkgerrors.NewLimitError(fmt.Sprintf("session limit of %d reached", m.maxSessions))
	}

	session, err := NewEditorSession(uuid.New().String(), m.interpreter, m.generator, m.opts, m.recorder, m.logger)
	if err != nil {
		return nil, err
	}
	m.sessions[session.ID()] = session
	m.recorder.SetActiveSessions(len(m.sessions))

	m.logger.Info("Session created",
		zap.String("sessionID", session.ID()),
		zap.Int("active", len(m.sessions)),
	)
	return session, nil
}

// Get returns an open session
func (m *SessionManager) Get(id string) (*EditorSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, ok := m.sessions[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("session").WithDetail("sessionID", id)
	}
	return session, nil
}

// Delete ends a session
func (m *SessionManager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return pkgerrors.NewNotFoundError("session").WithDetail("sessionID", id)
	}
	delete(m.sessions, id)
	m.recorder.SetActiveSessions(len(m.sessions))

	m.logger.Info("Session ended", zap.String("sessionID", id))
	return nil
}

// Count returns the number of open sessions
func (m *SessionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// IDs returns the open session ids in sorted order
func (m *SessionManager) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Reconfigure applies new prompt settings to future and open sessions.
// A nil interpreter keeps the current one.
func (m *SessionManager) Reconfigure(opts SessionOptions, interpreter domainservices.PromptInterpreter, maxSessions int) {
	m.mu.Lock()
	m.opts.Latency = opts.Latency
	m.opts.Timeout = opts.Timeout
	if interpreter != nil {
		m.interpreter = interpreter
	}
	m.maxSessions = maxSessions
	open := make([]*EditorSession, 0, len(m.sessions))
	for _, s := range m.sessions {
		open = append(open, s)
	}
	m.mu.Unlock()

	for _, s := range open {
		s.Reconfigure(opts, interpreter)
	}
	m.logger.Info("Session settings reloaded",
		zap.Duration("latency", opts.Latency),
		zap.Duration("timeout", opts.Timeout),
		zap.Int("maxSessions", maxSessions),
		zap.Int("updatedSessions", len(open)),
	)
}

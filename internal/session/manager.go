// Package session manages the lifecycle of chat widget sessions. Each
// open widget gets one controller; nothing survives the process (no
// cross-session persistence by design).
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bea-tech/site-assistant/internal/chat"
	"github.com/bea-tech/site-assistant/internal/events"
	"github.com/bea-tech/site-assistant/internal/llm"
	"github.com/bea-tech/site-assistant/pkg/logger"
	"github.com/bea-tech/site-assistant/pkg/metrics"
)

// ErrNotFound reports an unknown or disposed session id.
var ErrNotFound = errors.New("session not found")

// Session is one open chat widget instance.
type Session struct {
	ID         string
	CreatedAt  time.Time
	Controller *chat.Controller
}

// Manager owns all live sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	client    llm.Client
	publisher *events.Publisher
	logger    *logger.Logger
}

// NewManager creates a session manager.
func NewManager(client llm.Client, publisher *events.Publisher, log *logger.Logger) *Manager {
	return &Manager{
		sessions:  make(map[string]*Session),
		client:    client,
		publisher: publisher,
		logger:    log,
	}
}

// Create opens a new session with a freshly greeted conversation.
func (m *Manager) Create() *Session {
	id := uuid.Must(uuid.NewV7()).String()

	sess := &Session{
		ID:         id,
		CreatedAt:  time.Now(),
		Controller: chat.NewController(id, m.client, m.publisher, m.logger),
	}

	m.mu.Lock()
	m.sessions[id] = sess
	m.mu.Unlock()

	metrics.SessionsActive.Inc()
	m.logger.Info("session created", zap.String("session_id", id))
	return sess
}

// Get retrieves a live session.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	sess, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	return sess, nil
}

// Delete disposes a session. Disposing an unknown id is an error;
// disposal does not cancel an in-flight round trip, it only removes
// the store the round trip will eventually append to.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	_, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if !ok {
		return ErrNotFound
	}

	metrics.SessionsActive.Dec()
	return nil
}

// Count reports the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

package session

import (
	"context"
	"sync"

	"jarrib-bot/internal/api/jarrib"

	"go.uber.org/zap"
)

// StorageFactory returns the storage of one chat
type StorageFactory func(chatID int64) Storage

// Manager creates and bootstraps one Session per chat
type Manager struct {
	storage StorageFactory
	api     *jarrib.Client
	logger  *zap.Logger

	mu       sync.Mutex
	sessions map[int64]*Session
}

func NewManager(storage StorageFactory, api *jarrib.Client, logger *zap.Logger) *Manager {
	return &Manager{
		storage:  storage,
		api:      api,
		logger:   logger,
		sessions: make(map[int64]*Session),
	}
}

// Get returns the chat's session, bootstrapping it on first use
func (m *Manager) Get(ctx context.Context, chatID int64) (*Session, error) {
	m.mu.Lock()
	if s, ok := m.sessions[chatID]; ok {
		m.mu.Unlock()
		return s, nil
	}
	m.mu.Unlock()

	// bootstrap talks to the API, don't hold the lock for other chats
	s := newSession(chatID, m.storage(chatID), m.api, m.logger)
	if err := s.Bootstrap(ctx); err != nil {
		m.logger.Error("failed to bootstrap session",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.sessions[chatID]; ok {
		return existing, nil
	}
	m.sessions[chatID] = s
	return s, nil
}

// Forget drops the cached session so the next Get bootstraps again
func (m *Manager) Forget(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, chatID)
}

// File: sessionstore/memory.go
package sessionstore

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"car-showcase/logger"
	"car-showcase/models"
)

var _ Store = (*Memory)(nil)

// Memory is a process-local Store. With a cap set, a full store first drops
// expired sessions and then the session closest to expiry.
type Memory struct {
	mu       sync.Mutex
	sessions map[string]models.Session
	opts     options
}

func NewMemory(opts ...Option) *Memory {
	return &Memory{
		sessions: make(map[string]models.Session),
		opts:     buildOptions(opts),
	}
}

func (m *Memory) Create(_ context.Context, userID int64) (models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.opts.max > 0 && len(m.sessions) >= m.opts.max {
		m.sweepLocked()
		if len(m.sessions) >= m.opts.max {
			m.evictSoonestLocked()
		}
	}
	s := m.opts.newSession(userID)
	m.sessions[s.ID] = s
	return s, nil
}

func (m *Memory) Get(_ context.Context, id string) (models.Session, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return models.Session{}, false, nil
	}
	if s.Expired(m.opts.now()) {
		delete(m.sessions, id)
		return models.Session{}, false, nil
	}
	return s, true, nil
}

func (m *Memory) Destroy(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *Memory) Sweep(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sweepLocked(), nil
}

// Len reports the number of stored sessions, expired or not.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Memory) Close() error { return nil }

func (m *Memory) sweepLocked() int {
	now := m.opts.now()
	removed := 0
	for id, s := range m.sessions {
		if s.Expired(now) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

func (m *Memory) evictSoonestLocked() {
	var victim models.Session
	found := false
	for _, s := range m.sessions {
		if !found || s.ExpiresAt.Before(victim.ExpiresAt) {
			victim, found = s, true
		}
	}
	if found {
		delete(m.sessions, victim.ID)
		logger.Debug("session cap reached, evicted oldest", zap.Int64("userId", victim.UserID), zap.Int("max", m.opts.max))
	}
}

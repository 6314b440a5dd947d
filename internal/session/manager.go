package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sawdustofmind/nfe-predictor/internal/log"
)

// Manager keeps live sessions in memory. Nothing survives a restart.
type Manager struct {
	fixtures  Fixtures
	predictor Predictor
	now       func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager(f Fixtures, p Predictor) *Manager {
	return &Manager{
		fixtures:  f,
		predictor: p,
		now:       time.Now,
		sessions:  make(map[string]*Session),
	}
}

// Create registers a new session and performs its initial fixture lookup.
func (m *Manager) Create(ctx context.Context) *Session {
	s := New(uuid.New().String(), m.fixtures, m.predictor)
	s.now = m.now
	s.lastSeen = m.now()

	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()

	s.Open(ctx)
	return s
}

func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return false
	}
	delete(m.sessions, id)
	return true
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Evict drops sessions not used for longer than idle and returns how many
// were removed.
func (m *Manager) Evict(idle time.Duration) int {
	cutoff := m.now().Add(-idle)

	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, s := range m.sessions {
		if s.LastSeen().Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// RunEvictor calls Evict every interval until ctx is done.
func (m *Manager) RunEvictor(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Evict(idle); n > 0 {
				log.Info("Evicted idle sessions", zap.Int("count", n), zap.Int("remaining", m.Len()))
			}
		}
	}
}

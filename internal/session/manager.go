// internal/session/manager.go
package session

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultIdleTTL mirrors the 24h lifetime of the guest session cookie.
const DefaultIdleTTL = 24 * time.Hour

// ManagerDeps configures session construction. BridgeFor returns the auth
// bridge bound to one session's credential slot.
type ManagerDeps struct {
	CartLocal       CartStore
	CartRemote      CartStore
	FavoritesLocal  FavoritesStore
	FavoritesRemote FavoritesStore
	Recent          RecentStore
	BridgeFor       func(sessionID string) AuthBridge
	Window          time.Duration
	IdleTTL         time.Duration
	Logger          *logrus.Logger
}

// Manager owns the live session containers, one per session cookie. A
// session is hydrated on first use and evicted after IdleTTL without
// activity; its persisted snapshots survive eviction.
type Manager struct {
	deps ManagerDeps

	mu       sync.Mutex
	sessions map[string]*Session

	stop chan struct{}
	once sync.Once
}

// NewManager creates a session manager and starts its idle sweeper.
func NewManager(deps ManagerDeps) *Manager {
	if deps.IdleTTL <= 0 {
		deps.IdleTTL = DefaultIdleTTL
	}
	if deps.Logger == nil {
		deps.Logger = logrus.New()
	}

	m := &Manager{
		deps:     deps,
		sessions: make(map[string]*Session),
		stop:     make(chan struct{}),
	}
	go m.sweep()
	return m
}

// Get returns the live session for id, creating and hydrating it on first
// use.
func (m *Manager) Get(ctx context.Context, id string) *Session {
	m.mu.Lock()
	if s, ok := m.sessions[id]; ok {
		m.mu.Unlock()
		s.Touch()
		return s
	}

	var bridge AuthBridge
	if m.deps.BridgeFor != nil {
		bridge = m.deps.BridgeFor(id)
	}

	s := New(id, Deps{
		CartLocal:       m.deps.CartLocal,
		CartRemote:      m.deps.CartRemote,
		FavoritesLocal:  m.deps.FavoritesLocal,
		FavoritesRemote: m.deps.FavoritesRemote,
		Recent:          m.deps.Recent,
		Bridge:          bridge,
		Window:          m.deps.Window,
		Logger:          m.deps.Logger,
	})
	m.sessions[id] = s
	m.mu.Unlock()

	s.Load(ctx)
	return s
}

// Close stops the sweeper and closes all live sessions.
func (m *Manager) Close() {
	m.once.Do(func() { close(m.stop) })

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		s.Close()
		delete(m.sessions, id)
	}
}

func (m *Manager) sweep() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			cutoff := time.Now().UTC().Add(-m.deps.IdleTTL)
			m.mu.Lock()
			for id, s := range m.sessions {
				s.mu.Lock()
				idle := s.lastSeen.Before(cutoff)
				s.mu.Unlock()
				if idle {
					s.Close()
					delete(m.sessions, id)
				}
			}
			m.mu.Unlock()
		}
	}
}

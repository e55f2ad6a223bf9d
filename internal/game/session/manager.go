package session

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Manager tracks every live game of a process.
// All methods are safe for concurrent use; the controllers it hands out are not.
type Manager struct {
	deps Deps

	mu       sync.RWMutex
	sessions map[string]*Controller
}

// NewManager creates an empty Manager whose games share deps.
func NewManager(deps Deps) *Manager {
	return &Manager{deps: deps, sessions: make(map[string]*Controller)}
}

// Start creates and registers a new game.
//
// Postcondition: Get(c.ID()) returns c until Remove is called.
func (m *Manager) Start(ctx context.Context, opts Options) (*Controller, error) {
	c, err := NewController(ctx, m.deps, opts)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[c.ID()] = c
	return c, nil
}

// Remove closes and forgets the game with id. It must be called from the
// goroutine driving that game.
func (m *Manager) Remove(id string) error {
	m.mu.Lock()
	c, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("session %q not found", id)
	}
	c.Close()
	return nil
}

// Get returns the game with id.
func (m *Manager) Get(id string) (*Controller, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.sessions[id]
	return c, ok
}

// IDs returns every live session id in sorted order.
func (m *Manager) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Count returns the number of live games.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

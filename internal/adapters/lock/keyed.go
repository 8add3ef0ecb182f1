// Package lock provides an in-process keyed try-lock for per-entity mutual exclusion.
package lock

import (
	"hash/fnv"
	"sync"

	"github.com/example/lessonbook/internal/core/fault"
	"github.com/example/lessonbook/internal/ports/secondary"
)

// Manager hands out non-blocking exclusive locks keyed by a stable
// FNV-64a hash of the entity id.
type Manager struct {
	mu   sync.Mutex
	held map[uint64]struct{}
}

// NewManager creates an empty lock manager.
func NewManager() *Manager {
	return &Manager{held: make(map[uint64]struct{})}
}

// Key returns the lock key for an entity id.
func Key(entityID string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(entityID))
	return h.Sum64()
}

// TryAcquire takes the lock for entityID or returns fault.ErrBusy immediately.
func (m *Manager) TryAcquire(entityID string) (func(), error) {
	k := Key(entityID)

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, busy := m.held[k]; busy {
		return nil, fault.ErrBusy
	}
	m.held[k] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.held, k)
			m.mu.Unlock()
		})
	}, nil
}

// Held reports the number of locks currently taken.
func (m *Manager) Held() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.held)
}

var _ secondary.LockManager = (*Manager)(nil)

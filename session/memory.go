package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type guard struct {
	token string
	at    time.Time
}

// MemoryStore keeps sessions in process memory.
type MemoryStore struct {
	mu     sync.Mutex
	locks  map[string]guard
	states map[string]State
	ttl    time.Duration
	now    func() time.Time
}

// NewMemoryStore creates an empty in-memory store. Guards older than ttl are
// considered abandoned; ttl <= 0 uses DefaultLockTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	return &MemoryStore{
		locks:  make(map[string]guard),
		states: make(map[string]State),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Acquire claims the guard for id.
func (m *MemoryStore) Acquire(_ context.Context, id string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	if held, ok := m.locks[id]; ok && now.Sub(held.at) < m.ttl {
		return "", ErrBusy
	}
	token := uuid.NewString()
	m.locks[id] = guard{token: token, at: now}
	return token, nil
}

// Release frees the guard for id when token still owns it.
func (m *MemoryStore) Release(_ context.Context, id, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if held, ok := m.locks[id]; ok && held.token == token {
		delete(m.locks, id)
	}
	return nil
}

// Save stores a copy of state.
func (m *MemoryStore) Save(_ context.Context, id string, state State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	state.Output = append([]string(nil), state.Output...)
	m.states[id] = state
	return nil
}

// Load returns a copy of the stored state.
func (m *MemoryStore) Load(_ context.Context, id string) (State, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.states[id]
	if ok {
		s.Output = append([]string(nil), s.Output...)
	}
	return s, ok, nil
}

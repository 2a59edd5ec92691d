package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps sessions in process memory. It is the fallback when
// Redis is not configured and the store used by most tests.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	locks    sync.Map // id -> *sync.Mutex
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
	}
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(sess), nil
}

func (m *MemoryStore) Put(_ context.Context, id string, sess *Session) error {
	cp := clone(sess)
	cp.UpdatedAt = time.Now().UTC()
	m.mu.Lock()
	m.sessions[id] = cp
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Lock(_ context.Context, id string) (UnlockFunc, error) {
	v, _ := m.locks.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock, nil
}

// clone keeps callers from mutating stored state through shared maps.
func clone(s *Session) *Session {
	cp := *s
	cp.Collected = make(map[string]string, len(s.Collected))
	for k, v := range s.Collected {
		cp.Collected[k] = v
	}
	return &cp
}

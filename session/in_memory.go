package session

import (
	"fmt"
	"sync"

	"github.com/hupe1980/shopflow/core"
)

// InMemoryStore is a process-local core.SessionStore. A per-session mutex
// serializes Update calls so at most one turn mutates a session at a time,
// while distinct sessions proceed concurrently.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*core.Session
	locks    map[string]*sync.Mutex
}

// NewInMemoryStore creates an empty in-memory session store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		sessions: make(map[string]*core.Session),
		locks:    make(map[string]*sync.Mutex),
	}
}

// Get implements core.SessionStore. It returns a clone; callers never see the
// stored instance.
func (s *InMemoryStore) Get(id string) (*core.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %q not found", id)
	}
	return sess.Clone(), nil
}

// Update implements core.SessionStore. The session is created on first use.
// fn receives a clone of the current session; the clone replaces the stored
// session only when fn returns nil, so a failed turn leaves prior history
// untouched.
func (s *InMemoryStore) Update(id string, fn func(*core.Session) error) error {
	lock := s.sessionLock(id)
	lock.Lock()
	defer lock.Unlock()

	s.mu.RLock()
	stored, ok := s.sessions[id]
	s.mu.RUnlock()

	var working *core.Session
	if ok {
		working = stored.Clone()
	} else {
		working = core.NewSession(id)
	}

	if err := fn(working); err != nil {
		return err
	}

	s.mu.Lock()
	s.sessions[id] = working
	s.mu.Unlock()
	return nil
}

// Delete implements core.SessionStore. Deleting an unknown session is a
// no-op.
func (s *InMemoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	delete(s.locks, id)
	return nil
}

// Len returns the number of stored sessions.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *InMemoryStore) sessionLock(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[id] = lock
	}
	return lock
}

var _ core.SessionStore = (*InMemoryStore)(nil)

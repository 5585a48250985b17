package core

import (
	"sync"
	"time"
)

// Session is the durable per-user conversational container. It tracks the
// full message history across turns. It is safe for concurrent access,
// though the boundary must still guarantee single-writer-per-session turn
// execution (two concurrent turns for the same session would interleave
// histories).
//
// Contract:
//   - Append updates the Updated timestamp
//   - History returns a defensive copy to avoid external mutation
//   - Clone performs deep copies for safe divergence
type Session struct {
	ID       string            `json:"id"`
	Messages []Message         `json:"messages"`
	Created  time.Time         `json:"created"`
	Updated  time.Time         `json:"updated"`
	Metadata map[string]string `json:"metadata"`
	mu       sync.RWMutex
}

// NewSession creates a new empty session with the given ID.
func NewSession(id string) *Session {
	now := time.Now()
	return &Session{ID: id, Messages: []Message{}, Created: now, Updated: now, Metadata: map[string]string{}}
}

// Append adds messages to the history updating the Updated timestamp.
func (s *Session) Append(msgs ...Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Messages = append(s.Messages, msgs...)
	s.Updated = time.Now()
}

// Replace swaps the full history for the provided sequence. Used by the
// boundary after a successful turn to persist the engine's final messages.
func (s *Session) Replace(msgs []Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Messages = make([]Message, len(msgs))
	copy(s.Messages, msgs)
	s.Updated = time.Now()
}

// History returns a defensive copy of the full message sequence.
func (s *Session) History() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs := make([]Message, len(s.Messages))
	copy(msgs, s.Messages)
	return msgs
}

// Clone returns a deep copy of the session safe for independent mutation.
func (s *Session) Clone() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	clone := &Session{ID: s.ID, Messages: make([]Message, len(s.Messages)), Created: s.Created, Updated: s.Updated, Metadata: make(map[string]string, len(s.Metadata))}
	copy(clone.Messages, s.Messages)
	for k, v := range s.Metadata {
		clone.Metadata[k] = v
	}
	return clone
}

// SessionStore persists sessions and their evolving message history.
//
// Update executes fn under a per-session write lock, guaranteeing the
// single-writer-per-session contract the engine's state model assumes. The
// session passed to fn is a clone; it replaces the stored session only when
// fn returns nil, so a failed turn leaves prior history untouched.
type SessionStore interface {
	Get(id string) (*Session, error)
	Update(id string, fn func(*Session) error) error
	Delete(id string) error
}

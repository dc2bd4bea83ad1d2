// Package sessions tracks devices with an approved, currently active
// connection. The store is append-only and in-memory: a session never
// expires and only a process restart clears it.
package sessions

import (
	"sync"
	"time"
)

// Session records one approved device connection.
type Session struct {
	DeviceInfo  string    `json:"device_info"`
	Code        string    `json:"code"`
	ConnectedAt time.Time `json:"connected_at"`
}

// Store holds active sessions in insertion order.
type Store struct {
	mu       sync.RWMutex
	sessions []Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{}
}

// Add appends a session. Called by the pairing workflow when a connection
// request is accepted.
func (s *Store) Add(sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = append(s.sessions, sess)
}

// IsActive reports whether some session exists for the given code. This is
// the authorization check behind every privileged operation.
func (s *Store) IsActive(code string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sess := range s.sessions {
		if sess.Code == code {
			return true
		}
	}
	return false
}

// List returns a copy of all active sessions in insertion order.
func (s *Store) List() []Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Session, len(s.sessions))
	copy(out, s.sessions)
	return out
}

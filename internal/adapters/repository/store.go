// Package repository defines the session store interface and errors.
package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/whichracket/advisor/internal/domain/profile"
)

// Session pairs a session ID with its profile accumulator. The accumulator
// is guarded by the session's own lock; the answer history it retains is the
// source of truth, the profile a derived cache.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	acc      *profile.Accumulator
	lastSeen atomic.Int64 // unix nanos
}

// NewSession creates a session owning acc.
func NewSession(id string, acc *profile.Accumulator) *Session {
	s := &Session{
		ID:        id,
		CreatedAt: time.Now(),
		acc:       acc,
	}
	s.touch()
	return s
}

// With runs fn with exclusive access to the session's accumulator and marks
// the session as recently used.
func (s *Session) With(fn func(acc *profile.Accumulator)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	fn(s.acc)
}

func (s *Session) touch() {
	s.lastSeen.Store(time.Now().UnixNano())
}

// Store provides access to live quiz sessions.
type Store interface {
	// Put registers a session, evicting the least recently used one when the
	// store is at capacity.
	Put(ctx context.Context, s *Session) error

	// Get returns the session with the given id.
	// Returns ErrNotFound if the session is unknown.
	Get(ctx context.Context, id string) (*Session, error)

	// Delete removes a session. Returns true if it existed.
	Delete(ctx context.Context, id string) bool

	// Count returns the number of live sessions.
	Count(ctx context.Context) int
}

// Package dialogue implements the per-session slot-filling state machine at
// the core of BankBot.
package dialogue

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/rsharan/bankbot/internal/domain"
)

// sweepInterval is how often the idle-session sweeper runs.
const sweepInterval = 5 * time.Minute

// SessionStore maps session ids to dialogue contexts. Turns against the same
// session serialize on a per-session lock; turns against different sessions
// run in parallel. State is in-memory only — after a restart an old session
// id behaves exactly like a brand-new session.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	mu  sync.Mutex
	ctx *domain.DialogueContext
}

// NewSessionStore creates an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*session)}
}

// Acquire returns the context for the session, creating it on first contact,
// with its per-session lock held. The caller must invoke the release
// function when the turn completes.
func (s *SessionStore) Acquire(sessionID string) (*domain.DialogueContext, func()) {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &session{ctx: domain.NewDialogueContext(sessionID)}
		s.sessions[sessionID] = sess
	}
	s.mu.Unlock()

	sess.mu.Lock()
	sess.ctx.LastActive = time.Now()
	return sess.ctx, sess.mu.Unlock
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep evicts sessions idle for longer than ttl and returns how many were
// removed. Eviction is indistinguishable from a context reset: the next turn
// sees a fresh session.
func (s *SessionStore) Sweep(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		// TryLock avoids blocking the sweep behind an in-flight turn; a busy
		// session is by definition not idle.
		if !sess.mu.TryLock() {
			continue
		}
		idle := sess.ctx.LastActive.Before(cutoff)
		sess.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// StartSweeper runs a background goroutine that periodically evicts idle
// sessions until the context is cancelled.
func (s *SessionStore) StartSweeper(ctx context.Context, ttl time.Duration) {
	ticker := time.NewTicker(sweepInterval)
	go func() {
		defer ticker.Stop()
		slog.Info("Session sweeper started", "interval", sweepInterval, "ttl", ttl)
		for {
			select {
			case <-ticker.C:
				if n := s.Sweep(ttl); n > 0 {
					slog.Info("Evicted idle sessions", "count", n)
				}
			case <-ctx.Done():
				slog.Info("Session sweeper shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
}

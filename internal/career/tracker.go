package career

import (
	"fmt"
	"sync"
	"time"

	"careerfit/internal/errors"
)

// DefaultMaxSessions bounds the tracked session/operation pairs
const DefaultMaxSessions = 10000

// Ticket marks a request of one operation within a session
type Ticket struct {
	Session   string
	Operation string
	Seq       uint64
}

type trackKey struct {
	session   string
	operation string
}

type sessionState struct {
	latest uint64
	seen   time.Time
}

// Tracker hands out increasing tickets per session and operation so that a
// result can be rejected once a newer request for the same operation in the
// same session has started. Different operations never supersede each other.
type Tracker struct {
	mu        sync.Mutex
	next      uint64
	sessions  map[trackKey]sessionState
	ttl       time.Duration
	max       int
	lastSweep time.Time
	now       func() time.Time
}

// NewTracker returns a tracker that forgets sessions idle for longer than ttl
// and tracks at most DefaultMaxSessions of them
func NewTracker(ttl time.Duration) *Tracker {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Tracker{
		sessions: make(map[trackKey]sessionState),
		ttl:      ttl,
		max:      DefaultMaxSessions,
		now:      time.Now,
	}
}

// Begin starts a request for operation in session and supersedes earlier
// requests for the same operation
func (t *Tracker) Begin(session, operation string) Ticket {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if now.Sub(t.lastSweep) >= t.ttl/2 {
		t.prune(now)
		t.lastSweep = now
	}

	key := trackKey{session: session, operation: operation}
	if _, ok := t.sessions[key]; !ok && len(t.sessions) >= t.max {
		t.prune(now)
		if len(t.sessions) >= t.max {
			t.evictOldest()
		}
	}

	t.next++
	t.sessions[key] = sessionState{latest: t.next, seen: now}
	return Ticket{Session: session, Operation: operation, Seq: t.next}
}

// Check returns a StaleResult error when a newer request for the ticket's
// operation started in its session
func (t *Tracker) Check(tk Ticket) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	state, ok := t.sessions[trackKey{session: tk.Session, operation: tk.Operation}]
	if ok && state.latest != tk.Seq {
		return errors.NewStaleResultError(
			fmt.Sprintf("%s request %d superseded by %d", tk.Operation, tk.Seq, state.latest)).
			WithContext("session", tk.Session).
			WithContext("operation", tk.Operation)
	}
	return nil
}

// Sessions returns the number of tracked session/operation pairs
func (t *Tracker) Sessions() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.sessions)
}

func (t *Tracker) prune(now time.Time) {
	for key, s := range t.sessions {
		if now.Sub(s.seen) > t.ttl {
			delete(t.sessions, key)
		}
	}
}

func (t *Tracker) evictOldest() {
	var (
		oldest trackKey
		seen   time.Time
		found  bool
	)
	for key, s := range t.sessions {
		if !found || s.seen.Before(seen) {
			oldest, seen, found = key, s.seen, true
		}
	}
	if found {
		delete(t.sessions, oldest)
	}
}

package view

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/imran31415/forcefield/pkg/graph"
	"github.com/imran31415/forcefield/pkg/layout"
	"github.com/imran31415/forcefield/pkg/observability"
)

// Sentinel errors for session lookups.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("session not found")

	// ErrExpired is returned when a session has exceeded its TTL.
	ErrExpired = errors.New("session expired")
)

// DefaultTTL is the default session lifetime.
const DefaultTTL = 24 * time.Hour

// Session is one client's layout workspace: the capped graph it asked to
// lay out, the parameters in effect, and its display state.
type Session struct {
	ID        uuid.UUID
	CreatedAt time.Time
	ExpiresAt time.Time
	State     *State

	mu     sync.RWMutex
	graph  graph.Graph
	params layout.Params
	loaded bool
}

// IsExpired returns true if the session has exceeded its TTL.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// SetGraph replaces the session's graph and layout parameters. The graph
// should already be capped with layout.Filter.
func (s *Session) SetGraph(g graph.Graph, p layout.Params) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.graph = g
	s.params = p
	s.loaded = true
}

// Graph returns the session's graph and parameters. The third result is
// false until SetGraph has been called.
func (s *Session) Graph() (graph.Graph, layout.Params, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.graph, s.params, s.loaded
}

// Store is an in-memory session store with TTL-based expiry.
//
// Expired sessions are dropped lazily on Get and eagerly by Cleanup;
// long-running servers run Sweep on a background goroutine to keep the
// map from accumulating abandoned sessions.
type Store struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	ttl      time.Duration
	logger   *log.Logger
}

// NewStore creates a session store. Non-positive ttl selects DefaultTTL;
// a nil logger discards all output.
func NewStore(ttl time.Duration, logger *log.Logger) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Store{
		sessions: make(map[uuid.UUID]*Session),
		ttl:      ttl,
		logger:   logger,
	}
}

// Create registers a new empty session.
func (st *Store) Create(ctx context.Context) *Session {
	now := time.Now()
	sess := &Session{
		ID:        uuid.New(),
		CreatedAt: now,
		ExpiresAt: now.Add(st.ttl),
		State:     NewState(),
	}

	st.mu.Lock()
	st.sessions[sess.ID] = sess
	st.mu.Unlock()

	observability.Session().OnSessionCreate(ctx, sess.ID.String())
	st.logger.Debug("session created", "session", sess.ID, "expires", sess.ExpiresAt)
	return sess
}

// Get retrieves a session by ID. Returns ErrNotFound for unknown IDs and
// ErrExpired for sessions past their TTL; expired sessions are removed.
func (st *Store) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	st.mu.RLock()
	sess, ok := st.sessions[id]
	st.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	if sess.IsExpired() {
		st.expire(ctx, sess)
		return nil, ErrExpired
	}
	return sess, nil
}

// Delete removes a session. Deleting an unknown ID is not an error.
func (st *Store) Delete(ctx context.Context, id uuid.UUID) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

// Cleanup removes every expired session now and returns how many were
// dropped.
func (st *Store) Cleanup(ctx context.Context) int {
	st.mu.RLock()
	var expired []*Session
	for _, sess := range st.sessions {
		if sess.IsExpired() {
			expired = append(expired, sess)
		}
	}
	st.mu.RUnlock()

	for _, sess := range expired {
		st.expire(ctx, sess)
	}
	return len(expired)
}

// Sweep runs Cleanup on a fixed interval until the context is cancelled.
func (st *Store) Sweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := st.Cleanup(ctx); n > 0 {
				st.logger.Info("expired sessions removed", "count", n)
			}
		}
	}
}

// Len returns the number of live sessions, expired ones included until
// the next sweep.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

func (st *Store) expire(ctx context.Context, sess *Session) {
	st.mu.Lock()
	delete(st.sessions, sess.ID)
	st.mu.Unlock()

	observability.Session().OnSessionExpire(ctx, sess.ID.String(), time.Since(sess.CreatedAt))
	st.logger.Debug("session expired", "session", sess.ID, "age", time.Since(sess.CreatedAt))
}

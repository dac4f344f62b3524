package server

import (
	stderrors "errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/imran31415/forcefield/pkg/errors"
	"github.com/imran31415/forcefield/pkg/graph"
	"github.com/imran31415/forcefield/pkg/layout"
	"github.com/imran31415/forcefield/pkg/stats"
	"github.com/imran31415/forcefield/pkg/view"
)

// =============================================================================
// Request / Response Shapes
// =============================================================================

// layoutRequest asks for a base layout of a graph. The preset selects
// named engine parameters from the configuration; width and height
// override the preset's viewport when positive.
type layoutRequest struct {
	Graph  graph.Graph `json:"graph"`
	Preset string      `json:"preset,omitempty"`
	Width  float64     `json:"width,omitempty"`
	Height float64     `json:"height,omitempty"`
}

// focusRequest names the node to focus.
type focusRequest struct {
	Node string `json:"node"`
}

// sessionInfo describes a session's display state.
type sessionInfo struct {
	ID         string    `json:"id"`
	Generation uint64    `json:"generation"`
	Focused    string    `json:"focused,omitempty"`
	HasLayout  bool      `json:"has_layout"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// layoutResponse carries the outcome of a layout or focus run. Applied
// is false when a newer run finished first; the layout is then the
// session's current one rather than this run's result, so the client
// always renders the freshest positions.
type layoutResponse struct {
	Generation uint64         `json:"generation"`
	Applied    bool           `json:"applied"`
	Focused    string         `json:"focused,omitempty"`
	Layout     *layout.Layout `json:"layout"`
	Stats      *stats.Summary `json:"stats,omitempty"`
}

// =============================================================================
// Session Lifecycle
// =============================================================================

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.store.Create(r.Context())
	s.respondJSON(w, http.StatusCreated, sessionToInfo(sess))
}

func (s *Server) handleSessionInfo(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, sessionToInfo(sess))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "sessionID")
	id, err := uuid.Parse(raw)
	if err != nil {
		s.respondError(w, r, errors.New(errors.ErrCodeInvalidParams, "malformed session id %q", raw))
		return
	}
	s.store.Delete(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Layout and Focus
// =============================================================================

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var req layoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := req.Graph.Validate(); err != nil {
		s.respondError(w, r, errors.Wrap(errors.ErrCodeInvalidGraph, err, "invalid graph"))
		return
	}

	p, err := s.config.PresetParamsWithViewport(req.Preset, req.Width, req.Height)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	filtered := layout.Filter(req.Graph, s.config.Limits.MaxNodes, s.config.Limits.MaxEdges)
	sess.SetGraph(filtered, p)

	run, err := s.engine.Layout(r.Context(), filtered, p)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	l, err := s.await(run)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	applied := sess.State.ApplyBase(run.Generation, l)
	if !applied {
		l = sess.State.Current()
	}

	summary := stats.Compute(filtered)
	s.respondJSON(w, http.StatusOK, layoutResponse{
		Generation: run.Generation,
		Applied:    applied,
		Layout:     l,
		Stats:      &summary,
	})
}

func (s *Server) handleFocus(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var req focusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if req.Node == "" {
		s.respondError(w, r, errors.New(errors.ErrCodeInvalidParams, "node must not be empty"))
		return
	}

	g, p, ok := sess.Graph()
	if !ok {
		s.respondError(w, r, errors.New(errors.ErrCodeInvalidGraph, "session has no graph; compute a layout first"))
		return
	}
	if !graph.NewIndex(g).HasNode(req.Node) {
		s.respondError(w, r, errors.New(errors.ErrCodeNodeNotFound, "node %q not in session graph", req.Node))
		return
	}

	opts := layout.FocusOptions{Width: p.Width, Height: p.Height}
	run, err := s.engine.Focus(r.Context(), g, req.Node, sess.State.Base(), opts)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	l, err := s.await(run)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	applied := sess.State.ApplyFocus(run.Generation, req.Node, l)
	if !applied {
		l = sess.State.Current()
	}

	s.respondJSON(w, http.StatusOK, layoutResponse{
		Generation: run.Generation,
		Applied:    applied,
		Focused:    sess.State.FocusedNode(),
		Layout:     l,
	})
}

// handleUnfocus restores the cached base layout. Unfocusing an already
// unfocused session is a no-op that returns the base again.
func (s *Server) handleUnfocus(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	l := sess.State.ClearFocus()
	s.respondJSON(w, http.StatusOK, layoutResponse{
		Generation: sess.State.Generation(),
		Applied:    true,
		Layout:     l,
	})
}

// =============================================================================
// Stats
// =============================================================================

// handleStats summarizes a posted graph without touching any session.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	g, err := graph.ReadGraph(r.Body)
	if err != nil {
		s.respondError(w, r, errors.Wrap(errors.ErrCodeInvalidGraph, err, "invalid graph"))
		return
	}

	summary := stats.Compute(g)
	s.respondJSON(w, http.StatusOK, summary)
}

// =============================================================================
// Helpers
// =============================================================================

// session resolves the sessionID URL parameter against the store.
func (s *Server) session(r *http.Request) (*view.Session, error) {
	raw := chi.URLParam(r, "sessionID")
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, errors.New(errors.ErrCodeInvalidParams, "malformed session id %q", raw)
	}

	sess, err := s.store.Get(r.Context(), id)
	switch {
	case stderrors.Is(err, view.ErrNotFound):
		return nil, errors.Wrap(errors.ErrCodeSessionNotFound, err, "session %s", id)
	case stderrors.Is(err, view.ErrExpired):
		return nil, errors.Wrap(errors.ErrCodeSessionExpired, err, "session %s", id)
	case err != nil:
		return nil, err
	}
	return sess, nil
}

// await drains a run's progress and returns its result. The progress
// stream has no HTTP surface; clients see only the finished layout.
func (s *Server) await(run *layout.Run) (*layout.Layout, error) {
	for range run.Progress() {
	}
	return run.Wait()
}

func sessionToInfo(sess *view.Session) sessionInfo {
	return sessionInfo{
		ID:         sess.ID.String(),
		Generation: sess.State.Generation(),
		Focused:    sess.State.FocusedNode(),
		HasLayout:  sess.State.Current() != nil,
		CreatedAt:  sess.CreatedAt,
		ExpiresAt:  sess.ExpiresAt,
	}
}

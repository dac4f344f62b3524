// Package view holds caller-side layout state: which layout a client is
// currently showing, whether a node is focused, and which run generation
// produced it.
//
// The layout engine computes; this package decides what to display. The
// two concerns are split so the engine can stay stateless between runs
// while every consumer (HTTP sessions, the CLI, embedding applications)
// shares one arbitration rule for concurrent runs: a result is applied
// only if its generation is newer than the last applied one. A slow
// superseded run therefore never clobbers fresher output, it is simply
// discarded on arrival.
package view

import (
	"sync"

	"github.com/imran31415/forcefield/pkg/layout"
)

// State is the display state of one layout consumer.
//
// It tracks the last applied base layout, an optional focused overlay,
// and the highest applied run generation. All methods are safe for
// concurrent use. Layouts are stored by pointer and never copied or
// mutated: clearing focus restores the exact base layout object that was
// showing before the focus run.
type State struct {
	mu      sync.RWMutex
	base    *layout.Layout
	current *layout.Layout
	focused string
	applied uint64
}

// NewState returns an empty State. Current returns nil until the first
// base layout is applied.
func NewState() *State {
	return &State{}
}

// ApplyBase installs a completed base layout and clears any focus.
// Returns false without changes when the generation is not newer than
// the last applied one.
func (s *State) ApplyBase(generation uint64, l *layout.Layout) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation <= s.applied {
		return false
	}
	s.applied = generation
	s.base = l
	s.current = l
	s.focused = ""
	return true
}

// ApplyFocus installs a completed focus layout for nodeID, keeping the
// cached base layout for a later ClearFocus. Returns false without
// changes when the generation is not newer than the last applied one.
func (s *State) ApplyFocus(generation uint64, nodeID string, l *layout.Layout) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation <= s.applied {
		return false
	}
	s.applied = generation
	s.current = l
	s.focused = nodeID
	return true
}

// ClearFocus drops the focus overlay and restores the cached base
// layout, returning it. The restored layout is the same object that was
// current before focusing, not a recomputation.
func (s *State) ClearFocus() *layout.Layout {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = s.base
	s.focused = ""
	return s.current
}

// Current returns the layout to display now: the focus overlay when a
// node is focused, otherwise the base layout. Nil before any layout has
// been applied.
func (s *State) Current() *layout.Layout {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Base returns the last applied base layout regardless of focus state.
func (s *State) Base() *layout.Layout {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.base
}

// FocusedNode returns the focused node ID, or empty when no focus is
// active.
func (s *State) FocusedNode() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.focused
}

// Generation returns the highest applied run generation.
func (s *State) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.applied
}

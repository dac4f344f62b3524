package layout

import (
	"math"

	"github.com/imran31415/forcefield/pkg/graph"
)

// nodeState holds the simulation scratch for one node: position, velocity,
// and an optional pin. Pins force the position every iteration regardless
// of simulated forces and exist only for the duration of a run.
//
// Keeping this separate from graph.Node means caller input is never
// mutated: the arena owns every mutable value a run touches.
type nodeState struct {
	x, y   float64
	vx, vy float64
	pinned bool
	px, py float64
	placed bool // position assigned from a prior layout or initialization
}

// arena is the private working state of a single layout run. It snapshots
// the graph on construction (first occurrence wins for duplicate IDs,
// unresolved edges dropped) and is discarded when the run ends.
type arena struct {
	ids     []string
	nodes   []graph.Node
	states  []nodeState
	index   map[string]int
	springs [][2]int     // resolved edges as state-index pairs
	edges   []graph.Edge // resolved edges, input order
	width   float64
	height  float64
}

func newArena(g graph.Graph, width, height float64) *arena {
	a := &arena{
		index:  make(map[string]int, len(g.Nodes)),
		width:  width,
		height: height,
	}

	for _, n := range g.Nodes {
		if _, exists := a.index[n.ID]; exists {
			continue
		}
		a.index[n.ID] = len(a.ids)
		a.ids = append(a.ids, n.ID)
		a.nodes = append(a.nodes, n)
	}
	a.states = make([]nodeState, len(a.ids))

	for _, e := range g.Edges {
		from, fromOK := a.index[e.From]
		to, toOK := a.index[e.To]
		if !fromOK || !toOK {
			continue
		}
		a.springs = append(a.springs, [2]int{from, to})
		a.edges = append(a.edges, e)
	}

	return a
}

// seed copies positions from a prior layout for nodes that appear in it.
func (a *arena) seed(current *Layout) {
	if current == nil {
		return
	}
	for _, pn := range current.Nodes {
		i, ok := a.index[pn.ID]
		if !ok {
			continue
		}
		a.states[i].x = pn.X
		a.states[i].y = pn.Y
		a.states[i].placed = true
	}
}

// initCircle places every node still lacking a position on a circle of
// radius 0.3×min(width, height) around the viewport center, evenly spaced
// by index. Starting all nodes at one point would make repulsion
// directionless.
func (a *arena) initCircle() {
	n := len(a.states)
	if n == 0 {
		return
	}
	cx, cy := a.width/2, a.height/2
	radius := 0.3 * math.Min(a.width, a.height)

	for i := range a.states {
		st := &a.states[i]
		if st.placed {
			continue
		}
		angle := 2 * math.Pi * float64(i) / float64(n)
		st.x = cx + radius*math.Cos(angle)
		st.y = cy + radius*math.Sin(angle)
		st.placed = true
	}
}

// pin fixes a node at (x, y) for subsequent iterations and moves it there
// immediately.
func (a *arena) pin(i int, x, y float64) {
	st := &a.states[i]
	st.pinned = true
	st.px, st.py = x, y
	st.x, st.y = x, y
	st.placed = true
}

// place assigns a position without pinning.
func (a *arena) place(i int, x, y float64) {
	st := &a.states[i]
	st.x, st.y = x, y
	st.placed = true
}

// clearPins removes every pin, leaving positions where they are.
func (a *arena) clearPins() {
	for i := range a.states {
		a.states[i].pinned = false
	}
}

// result copies the arena into a positioned layout: nodes in input order
// with resolved coordinates, edges resolved to their endpoint positions.
func (a *arena) result() *Layout {
	l := &Layout{
		Width:  a.width,
		Height: a.height,
		Nodes:  make([]PositionedNode, len(a.nodes)),
	}

	for i, n := range a.nodes {
		l.Nodes[i] = PositionedNode{
			Node: n,
			X:    a.states[i].x,
			Y:    a.states[i].y,
		}
	}

	if len(a.edges) > 0 {
		l.Edges = make([]PositionedEdge, len(a.edges))
		for i, e := range a.edges {
			from := a.states[a.springs[i][0]]
			to := a.states[a.springs[i][1]]
			l.Edges[i] = PositionedEdge{
				Edge: e,
				X1:   from.x,
				Y1:   from.y,
				X2:   to.x,
				Y2:   to.y,
			}
		}
	}

	return l
}

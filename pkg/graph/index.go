package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyNodeID is returned by [Graph.Validate] when a node has an
	// empty identifier. All nodes must have non-empty IDs.
	ErrEmptyNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.Validate] when two nodes
	// share an identifier. Node IDs must be unique within a graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrDuplicateEdgeID is returned by [Graph.Validate] when two edges
	// share a non-empty identifier.
	ErrDuplicateEdgeID = errors.New("duplicate edge ID")
)

// Validate checks structural constraints on the graph: non-empty node IDs
// and uniqueness of node and edge identifiers. Edges referencing unknown
// node IDs are not a validation failure; the layout engine drops them
// silently, since partial query results are expected.
func (g Graph) Validate() error {
	nodeIDs := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.ID == "" {
			return ErrEmptyNodeID
		}
		if nodeIDs[n.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateNodeID, n.ID)
		}
		nodeIDs[n.ID] = true
	}

	edgeIDs := make(map[string]bool, len(g.Edges))
	for _, e := range g.Edges {
		if e.ID == "" {
			continue
		}
		if edgeIDs[e.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateEdgeID, e.ID)
		}
		edgeIDs[e.ID] = true
	}

	return nil
}

// Index provides adjacency and degree lookups over a graph snapshot.
//
// The index treats every edge as undirected: layout forces, neighbor rings,
// and degrees ignore edge direction. Edges whose endpoints are missing from
// the node set are excluded from the resolved edge list and contribute
// nothing to adjacency or degree.
//
// An Index is immutable after construction and safe for concurrent reads.
type Index struct {
	nodes     map[string]int      // node ID -> position in input order
	ids       []string            // distinct node IDs, input order
	neighbors map[string][]string // node ID -> neighbor IDs, first-seen order
	degree    map[string]int
	resolved  []Edge // edges with both endpoints present, input order
}

// NewIndex builds an Index over the graph. Duplicate node IDs keep the
// first occurrence; later duplicates are ignored.
func NewIndex(g Graph) *Index {
	ix := &Index{
		nodes:     make(map[string]int, len(g.Nodes)),
		neighbors: make(map[string][]string, len(g.Nodes)),
		degree:    make(map[string]int, len(g.Nodes)),
	}

	for i, n := range g.Nodes {
		if _, exists := ix.nodes[n.ID]; exists {
			continue
		}
		ix.nodes[n.ID] = i
		ix.ids = append(ix.ids, n.ID)
	}

	seen := make(map[[2]string]bool)
	for _, e := range g.Edges {
		_, fromOK := ix.nodes[e.From]
		_, toOK := ix.nodes[e.To]
		if !fromOK || !toOK {
			continue
		}
		ix.resolved = append(ix.resolved, e)
		ix.degree[e.From]++
		ix.degree[e.To]++

		if e.From != e.To {
			if !seen[[2]string{e.From, e.To}] {
				seen[[2]string{e.From, e.To}] = true
				ix.neighbors[e.From] = append(ix.neighbors[e.From], e.To)
			}
			if !seen[[2]string{e.To, e.From}] {
				seen[[2]string{e.To, e.From}] = true
				ix.neighbors[e.To] = append(ix.neighbors[e.To], e.From)
			}
		}
	}

	return ix
}

// HasNode reports whether the node ID exists in the indexed graph.
func (ix *Index) HasNode(id string) bool {
	_, ok := ix.nodes[id]
	return ok
}

// Position returns the input-order position of a node, or -1 if absent.
func (ix *Index) Position(id string) int {
	if pos, ok := ix.nodes[id]; ok {
		return pos
	}
	return -1
}

// Neighbors returns the IDs of nodes connected to id by any resolved edge,
// in first-encounter order. Self-loops do not make a node its own neighbor.
func (ix *Index) Neighbors(id string) []string {
	return ix.neighbors[id]
}

// Degree returns the number of resolved edge endpoints incident to the node.
// A self-loop contributes two.
func (ix *Index) Degree(id string) int {
	return ix.degree[id]
}

// ResolvedEdges returns the edges whose endpoints both exist in the node
// set, in input order. Callers must not mutate the returned slice.
func (ix *Index) ResolvedEdges() []Edge {
	return ix.resolved
}

// NodeIDs returns the distinct node IDs in input order. Callers must not
// mutate the returned slice.
func (ix *Index) NodeIDs() []string {
	return ix.ids
}

// NodeCount returns the number of distinct node IDs in the index.
func (ix *Index) NodeCount() int {
	return len(ix.nodes)
}

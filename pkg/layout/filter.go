package layout

import (
	"sort"

	"github.com/imran31415/forcefield/pkg/graph"
)

// Filter caps a graph to at most maxNodes nodes and maxEdges edges before
// layout, so render cost stays bounded on dense graphs.
//
// Nodes keep the first maxNodes entries in input order; no reordering or
// importance ranking happens at the node level. Edges are then restricted
// to those whose endpoints both survived. If too many remain, edges are
// ranked by combined endpoint degree (computed once, over the
// endpoint-filtered edge set) and the highest-degree edges win, so the
// structurally significant links survive. Ties keep input order, and the
// returned edge set preserves input order regardless of rank.
//
// Negative maxima behave as zero. Filter never fails and never mutates
// its input; empty input yields empty output.
func Filter(g graph.Graph, maxNodes, maxEdges int) graph.Graph {
	if maxNodes < 0 {
		maxNodes = 0
	}
	if maxEdges < 0 {
		maxEdges = 0
	}

	nodes := g.Nodes
	if len(nodes) > maxNodes {
		nodes = nodes[:maxNodes]
	}
	kept := make([]graph.Node, len(nodes))
	copy(kept, nodes)

	inSet := make(map[string]bool, len(kept))
	for _, n := range kept {
		inSet[n.ID] = true
	}

	edges := make([]graph.Edge, 0, len(g.Edges))
	for _, e := range g.Edges {
		if inSet[e.From] && inSet[e.To] {
			edges = append(edges, e)
		}
	}

	if len(edges) > maxEdges {
		// One degree pass over the surviving edges; ranking is by the
		// sum of endpoint degrees under that single computation.
		degree := make(map[string]int, len(kept))
		for _, e := range edges {
			degree[e.From]++
			degree[e.To]++
		}

		order := make([]int, len(edges))
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(a, b int) bool {
			da := degree[edges[order[a]].From] + degree[edges[order[a]].To]
			db := degree[edges[order[b]].From] + degree[edges[order[b]].To]
			return da > db
		})

		selected := make([]bool, len(edges))
		for _, i := range order[:maxEdges] {
			selected[i] = true
		}

		top := make([]graph.Edge, 0, maxEdges)
		for i, e := range edges {
			if selected[i] {
				top = append(top, e)
			}
		}
		edges = top
	}

	return graph.Graph{Nodes: kept, Edges: edges}
}

// FilterDefault applies Filter with the default node and edge caps.
func FilterDefault(g graph.Graph) graph.Graph {
	return Filter(g, DefaultMaxNodes, DefaultMaxEdges)
}

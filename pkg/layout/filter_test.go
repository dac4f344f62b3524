package layout

import (
	"fmt"
	"testing"

	"github.com/imran31415/forcefield/pkg/graph"
)

func nodes(ids ...string) []graph.Node {
	out := make([]graph.Node, len(ids))
	for i, id := range ids {
		out[i] = graph.Node{ID: id}
	}
	return out
}

func edge(id, from, to string) graph.Edge {
	return graph.Edge{ID: id, From: from, To: to}
}

func edgeIDs(edges []graph.Edge) []string {
	out := make([]string, len(edges))
	for i, e := range edges {
		out[i] = e.ID
	}
	return out
}

func TestFilterNodeCap(t *testing.T) {
	g := graph.Graph{Nodes: nodes("a", "b", "c", "d", "e")}

	out := Filter(g, 3, 10)

	if len(out.Nodes) != 3 {
		t.Fatalf("node count = %d, want 3", len(out.Nodes))
	}
	for i, want := range []string{"a", "b", "c"} {
		if out.Nodes[i].ID != want {
			t.Errorf("Nodes[%d] = %q, want %q", i, out.Nodes[i].ID, want)
		}
	}
}

func TestFilterDropsEdgesOfDroppedNodes(t *testing.T) {
	g := graph.Graph{
		Nodes: nodes("a", "b", "c"),
		Edges: []graph.Edge{
			edge("e1", "a", "b"),
			edge("e2", "b", "c"), // c is dropped by the node cap
			edge("e3", "a", "c"),
		},
	}

	out := Filter(g, 2, 10)

	if got := edgeIDs(out.Edges); len(got) != 1 || got[0] != "e1" {
		t.Errorf("edges = %v, want [e1]", got)
	}
}

func TestFilterEdgeRankingFavorsHighDegree(t *testing.T) {
	// A hub with four spokes plus one isolated pair. The pair edge has the
	// lowest combined endpoint degree and must lose when only four slots
	// remain, no matter that it comes first in input order.
	g := graph.Graph{
		Nodes: nodes("x", "y", "h", "a", "b", "c", "d"),
		Edges: []graph.Edge{
			edge("pair", "x", "y"),
			edge("s1", "h", "a"),
			edge("s2", "h", "b"),
			edge("s3", "h", "c"),
			edge("s4", "h", "d"),
		},
	}

	out := Filter(g, 100, 4)

	want := []string{"s1", "s2", "s3", "s4"}
	got := edgeIDs(out.Edges)
	if len(got) != len(want) {
		t.Fatalf("edges = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Edges[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFilterEdgeRankingTiesKeepInputOrder(t *testing.T) {
	// All three spokes tie on combined degree; the first two in input
	// order survive.
	g := graph.Graph{
		Nodes: nodes("h", "a", "b", "c"),
		Edges: []graph.Edge{
			edge("s1", "h", "a"),
			edge("s2", "h", "b"),
			edge("s3", "h", "c"),
		},
	}

	out := Filter(g, 100, 2)

	if got := edgeIDs(out.Edges); len(got) != 2 || got[0] != "s1" || got[1] != "s2" {
		t.Errorf("edges = %v, want [s1 s2]", got)
	}
}

func TestFilterDegreeProperty(t *testing.T) {
	// Whatever the cap, no surviving edge may rank below a dropped one
	// under the single degree computation over endpoint-filtered edges.
	g := graph.Graph{
		Nodes: nodes("h", "a", "b", "c", "d", "p", "q", "r"),
		Edges: []graph.Edge{
			edge("e1", "p", "q"),
			edge("e2", "h", "a"),
			edge("e3", "h", "b"),
			edge("e4", "q", "r"),
			edge("e5", "h", "c"),
			edge("e6", "h", "d"),
			edge("e7", "a", "b"),
		},
	}

	out := Filter(g, 100, 4)
	if len(out.Edges) != 4 {
		t.Fatalf("edge count = %d, want 4", len(out.Edges))
	}

	degree := make(map[string]int)
	for _, e := range g.Edges {
		degree[e.From]++
		degree[e.To]++
	}
	kept := make(map[string]bool, len(out.Edges))
	for _, e := range out.Edges {
		kept[e.ID] = true
	}

	minKept, maxDropped := 1<<30, -1
	for _, e := range g.Edges {
		sum := degree[e.From] + degree[e.To]
		if kept[e.ID] {
			if sum < minKept {
				minKept = sum
			}
		} else if sum > maxDropped {
			maxDropped = sum
		}
	}

	if minKept < maxDropped {
		t.Errorf("kept edge with degree sum %d while dropping one with %d", minKept, maxDropped)
	}
}

func TestFilterNoDanglingEdges(t *testing.T) {
	g := graph.Graph{
		Nodes: nodes("a", "b", "c", "d", "e", "f"),
		Edges: []graph.Edge{
			edge("e1", "a", "f"),
			edge("e2", "a", "b"),
			edge("e3", "c", "e"),
			edge("e4", "b", "c"),
			edge("e5", "d", "f"),
		},
	}

	out := Filter(g, 3, 10)

	inSet := make(map[string]bool, len(out.Nodes))
	for _, n := range out.Nodes {
		inSet[n.ID] = true
	}
	for _, e := range out.Edges {
		if !inSet[e.From] || !inSet[e.To] {
			t.Errorf("edge %s references node outside the filtered set", e.ID)
		}
	}
}

func TestFilterDeterministic(t *testing.T) {
	g := graph.Graph{
		Nodes: nodes("h", "a", "b", "c", "p", "q"),
		Edges: []graph.Edge{
			edge("e1", "p", "q"),
			edge("e2", "h", "a"),
			edge("e3", "h", "b"),
			edge("e4", "h", "c"),
		},
	}

	first := Filter(g, 5, 3)
	second := Filter(g, 5, 3)

	if len(first.Edges) != len(second.Edges) {
		t.Fatalf("edge counts differ: %d vs %d", len(first.Edges), len(second.Edges))
	}
	for i := range first.Edges {
		if first.Edges[i].ID != second.Edges[i].ID {
			t.Errorf("Edges[%d] differs: %q vs %q", i, first.Edges[i].ID, second.Edges[i].ID)
		}
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	g := graph.Graph{
		Nodes: nodes("a", "b", "c", "d"),
		Edges: []graph.Edge{
			edge("e1", "a", "b"),
			edge("e2", "c", "d"),
			edge("e3", "a", "c"),
		},
	}

	Filter(g, 2, 1)

	if len(g.Nodes) != 4 || len(g.Edges) != 3 {
		t.Fatalf("input sizes changed: %d nodes, %d edges", len(g.Nodes), len(g.Edges))
	}
	for i, want := range []string{"e1", "e2", "e3"} {
		if g.Edges[i].ID != want {
			t.Errorf("input Edges[%d] = %q, want %q", i, g.Edges[i].ID, want)
		}
	}
}

func TestFilterEdgeCases(t *testing.T) {
	t.Run("empty graph", func(t *testing.T) {
		out := Filter(graph.Graph{}, 100, 200)
		if len(out.Nodes) != 0 || len(out.Edges) != 0 {
			t.Errorf("got %d nodes, %d edges, want empty", len(out.Nodes), len(out.Edges))
		}
	})

	t.Run("negative maxima act as zero", func(t *testing.T) {
		g := graph.Graph{Nodes: nodes("a", "b"), Edges: []graph.Edge{edge("e1", "a", "b")}}
		out := Filter(g, -1, -1)
		if len(out.Nodes) != 0 || len(out.Edges) != 0 {
			t.Errorf("got %d nodes, %d edges, want empty", len(out.Nodes), len(out.Edges))
		}
	})

	t.Run("under caps passes through", func(t *testing.T) {
		g := graph.Graph{Nodes: nodes("a", "b"), Edges: []graph.Edge{edge("e1", "a", "b")}}
		out := Filter(g, 100, 200)
		if len(out.Nodes) != 2 || len(out.Edges) != 1 {
			t.Errorf("got %d nodes, %d edges, want 2 and 1", len(out.Nodes), len(out.Edges))
		}
	})
}

func TestFilterDefault(t *testing.T) {
	g := graph.Graph{}
	for i := 0; i < 150; i++ {
		g.Nodes = append(g.Nodes, graph.Node{ID: fmt.Sprintf("n%d", i)})
	}
	for i := 0; i < 250; i++ {
		g.Edges = append(g.Edges, graph.Edge{
			ID:   fmt.Sprintf("e%d", i),
			From: fmt.Sprintf("n%d", i%100),
			To:   fmt.Sprintf("n%d", (i+1)%100),
		})
	}

	out := FilterDefault(g)

	if len(out.Nodes) != DefaultMaxNodes {
		t.Errorf("node count = %d, want %d", len(out.Nodes), DefaultMaxNodes)
	}
	if len(out.Edges) != DefaultMaxEdges {
		t.Errorf("edge count = %d, want %d", len(out.Edges), DefaultMaxEdges)
	}
}

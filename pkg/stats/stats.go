// Package stats aggregates entity graphs into display-ready summaries:
// node and edge counts, label and edge-type histograms, and a degree
// distribution. It is pure aggregation with no layout dependency, so a
// stats badge can render before any layout has run.
package stats

import (
	"gonum.org/v1/gonum/stat"

	"github.com/imran31415/forcefield/pkg/graph"
)

// Summary describes a graph in aggregate.
//
// Counts and histograms reflect the raw input collections in one pass
// each: every label of a multi-label node counts once, edges count
// whether or not their endpoints resolve. The degree summary instead
// describes the resolved graph (duplicate node IDs collapsed, dangling
// edges dropped), since degrees are undefined for edges without
// endpoints.
type Summary struct {
	NodeCount int            `json:"node_count" bson:"node_count"`
	EdgeCount int            `json:"edge_count" bson:"edge_count"`
	Labels    map[string]int `json:"labels,omitempty" bson:"labels,omitempty"`
	EdgeTypes map[string]int `json:"edge_types,omitempty" bson:"edge_types,omitempty"`
	Degrees   DegreeSummary  `json:"degrees" bson:"degrees"`
}

// DegreeSummary is the degree distribution of the resolved graph.
// A self-loop contributes two to its node's degree. StdDev is the
// sample standard deviation, zero when fewer than two nodes exist.
type DegreeSummary struct {
	Min      int     `json:"min" bson:"min"`
	Max      int     `json:"max" bson:"max"`
	Mean     float64 `json:"mean" bson:"mean"`
	StdDev   float64 `json:"std_dev" bson:"std_dev"`
	Isolated int     `json:"isolated" bson:"isolated"`
}

// Compute builds a Summary for the graph. Never fails; an empty graph
// yields a zero summary.
func Compute(g graph.Graph) Summary {
	s := Summary{
		NodeCount: len(g.Nodes),
		EdgeCount: len(g.Edges),
	}

	for _, n := range g.Nodes {
		for _, l := range n.Labels {
			if s.Labels == nil {
				s.Labels = make(map[string]int)
			}
			s.Labels[l]++
		}
	}

	for _, e := range g.Edges {
		if e.Type == "" {
			continue
		}
		if s.EdgeTypes == nil {
			s.EdgeTypes = make(map[string]int)
		}
		s.EdgeTypes[e.Type]++
	}

	s.Degrees = computeDegrees(g)
	return s
}

func computeDegrees(g graph.Graph) DegreeSummary {
	ix := graph.NewIndex(g)
	n := ix.NodeCount()
	if n == 0 {
		return DegreeSummary{}
	}

	degrees := make([]float64, 0, n)
	d := DegreeSummary{Min: int(^uint(0) >> 1)}
	for _, id := range ix.NodeIDs() {
		deg := ix.Degree(id)
		degrees = append(degrees, float64(deg))
		if deg < d.Min {
			d.Min = deg
		}
		if deg > d.Max {
			d.Max = deg
		}
		if deg == 0 {
			d.Isolated++
		}
	}

	d.Mean = stat.Mean(degrees, nil)
	if n > 1 {
		d.StdDev = stat.StdDev(degrees, nil)
	}
	return d
}

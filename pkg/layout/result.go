package layout

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/imran31415/forcefield/pkg/graph"
)

// =============================================================================
// Layout - Positioned Output
// =============================================================================

// Layout is the positioned output of a completed run.
//
// Nodes carry resolved x/y coordinates; edges are resolved to their
// endpoint positions so a renderer can draw lines without joining against
// the node list. Node order matches the input graph.
//
// A Layout is an immutable snapshot: the engine returns a fresh value per
// run and never mutates one after handing it out, so concurrent readers
// always see consistent positions. Callers swap whole layouts rather than
// editing them in place.
type Layout struct {
	Width  float64          `json:"width" bson:"width"`
	Height float64          `json:"height" bson:"height"`
	Nodes  []PositionedNode `json:"nodes" bson:"nodes"`
	Edges  []PositionedEdge `json:"edges,omitempty" bson:"edges,omitempty"`
}

// PositionedNode is a graph node with its computed viewport position.
type PositionedNode struct {
	graph.Node `bson:",inline"`
	X          float64 `json:"x" bson:"x"`
	Y          float64 `json:"y" bson:"y"`
}

// PositionedEdge is a graph edge resolved to endpoint coordinates.
type PositionedEdge struct {
	graph.Edge `bson:",inline"`
	X1         float64 `json:"x1" bson:"x1"`
	Y1         float64 `json:"y1" bson:"y1"`
	X2         float64 `json:"x2" bson:"x2"`
	Y2         float64 `json:"y2" bson:"y2"`
}

// NodeByID returns the positioned node with the given ID, if present.
func (l *Layout) NodeByID(id string) (PositionedNode, bool) {
	for _, pn := range l.Nodes {
		if pn.ID == id {
			return pn, true
		}
	}
	return PositionedNode{}, false
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
// Validates that every edge references nodes present in the layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}

	ids := make(map[string]bool, len(l.Nodes))
	for _, pn := range l.Nodes {
		if pn.ID == "" {
			return Layout{}, fmt.Errorf("layout node without id")
		}
		ids[pn.ID] = true
	}
	for _, pe := range l.Edges {
		if !ids[pe.From] || !ids[pe.To] {
			return Layout{}, fmt.Errorf("layout edge %s references missing node", pe.ID)
		}
	}

	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}

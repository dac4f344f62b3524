package graph

// =============================================================================
// Graph - Entity Graph Serialization
// =============================================================================

// Graph is the canonical serialization format for entity graphs.
// Used for API requests, layout input, and cross-tool compatibility.
//
// The format is human-readable and designed for round-trip fidelity:
// import → filter → layout → export preserves node and edge identity.
type Graph struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// IsEmpty returns true if the graph has no nodes.
func (g Graph) IsEmpty() bool { return len(g.Nodes) == 0 }

// =============================================================================
// Node - Labeled Entity
// =============================================================================

// Node is an entity in the graph. The first label is the primary label,
// used for grouping and statistics. Visual overrides are optional hints
// for the renderer and are carried through layout untouched.
type Node struct {
	ID         string         `json:"id" bson:"id"`
	Labels     []string       `json:"labels,omitempty" bson:"labels,omitempty"`
	Properties map[string]any `json:"properties,omitempty" bson:"properties,omitempty"`
	Color      string         `json:"color,omitempty" bson:"color,omitempty"`
	Size       float64        `json:"size,omitempty" bson:"size,omitempty"`
	Icon       string         `json:"icon,omitempty" bson:"icon,omitempty"`
}

// PrimaryLabel returns the first label, or empty string for unlabeled nodes.
func (n *Node) PrimaryLabel() string {
	if len(n.Labels) > 0 {
		return n.Labels[0]
	}
	return ""
}

// DisplayLabel returns the best human-readable name for the node:
// the "name" property if present, otherwise the primary label,
// otherwise the ID.
func (n *Node) DisplayLabel() string {
	if name, ok := n.Properties["name"].(string); ok && name != "" {
		return name
	}
	if l := n.PrimaryLabel(); l != "" {
		return l
	}
	return n.ID
}

// =============================================================================
// Edge - Typed Relationship
// =============================================================================

// Edge represents a typed relationship between two nodes. Edges are
// directed unless Undirected is set; direction only affects rendering,
// never layout forces or adjacency.
type Edge struct {
	ID         string         `json:"id" bson:"id"`
	Type       string         `json:"type,omitempty" bson:"type,omitempty"`
	From       string         `json:"from" bson:"from"`
	To         string         `json:"to" bson:"to"`
	Properties map[string]any `json:"properties,omitempty" bson:"properties,omitempty"`
	Undirected bool           `json:"undirected,omitempty" bson:"undirected,omitempty"`
	Color      string         `json:"color,omitempty" bson:"color,omitempty"`
	Width      float64        `json:"width,omitempty" bson:"width,omitempty"`
	Label      string         `json:"label,omitempty" bson:"label,omitempty"`
}

// Directed returns true unless the edge is explicitly undirected.
func (e *Edge) Directed() bool { return !e.Undirected }

// DisplayLabel returns the label if set, otherwise the type.
func (e *Edge) DisplayLabel() string {
	if e.Label != "" {
		return e.Label
	}
	return e.Type
}

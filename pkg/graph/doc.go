// Package graph provides the entity-graph data model and its serialization.
//
// This package defines the canonical wire format for ForceField's graph
// data, used for JSON files, API requests, and cross-tool interoperability.
//
// # Architecture
//
// The package sits at the serialization boundary between data sources and
// the layout engine:
//
//   - [Graph], [Node], [Edge]: Serialization types (this package)
//   - [Index]: Adjacency and degree lookups over a graph snapshot
//   - pkg/layout.Layout: Positioned output computed from a Graph
//
// Data sources (files, query-result adapters) produce a Graph; the layout
// engine consumes it read-only and returns positioned copies.
//
// # Graph Serialization
//
// Graphs use a simple node-link JSON format:
//
//	{
//	  "nodes": [{"id": "a", "labels": ["Person"]}, {"id": "b"}],
//	  "edges": [{"id": "e1", "type": "KNOWS", "from": "a", "to": "b"}]
//	}
//
// Common operations:
//
//	g, _ := graph.ReadGraphFile("graph.json")   // File → Graph
//	graph.WriteGraphFile(g, "output.json")      // Graph → File
//	data, _ := graph.MarshalGraph(g)            // Graph → []byte
//	parsed, _ := graph.UnmarshalGraph(data)     // []byte → Graph
//
// # Edge Resolution
//
// Edges may reference node IDs that are absent from the node set; query
// backends routinely return partial data. Such edges survive serialization
// but are excluded by [Index] and therefore never reach the simulation.
//
// # Concurrency
//
// Graph values and Index instances are safe for concurrent reads but not
// concurrent writes.
package graph

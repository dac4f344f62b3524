// Package pkg provides the core libraries for forcefield graph layout.
//
// # Overview
//
// Forcefield turns entity graphs into node positions with a deterministic
// force simulation. The pkg directory is organized into three main areas:
//
//  1. [graph], [source] - Graph model and loading (JSON files, record dumps)
//  2. [layout] - The force simulation engine and its scheduler
//  3. [view], [cache], [stats] - State kept around layouts (sessions,
//     cached results, graph summaries)
//
// # Architecture
//
// The typical data flow through forcefield:
//
//	Graph file / request body
//	         ↓
//	    [source], [graph] (decode, validate, index)
//	         ↓
//	    [layout] (filter caps, force simulation, focus passes)
//	         ↓
//	    [view] (generation-ordered session state)
//	         ↓
//	    layout.json / HTTP response
//
// # Quick Start
//
// Lay out a graph and focus one of its nodes:
//
//	import (
//	    "context"
//	    "github.com/imran31415/forcefield/pkg/graph"
//	    "github.com/imran31415/forcefield/pkg/layout"
//	)
//
//	// 1. Load and cap the graph
//	g, _ := graph.ReadGraphFile("graph.json")
//	g = layout.FilterDefault(g)
//
//	// 2. Compute the base layout
//	engine := layout.NewEngine(nil)
//	base, _ := engine.LayoutSync(context.Background(), g, layout.Params{})
//
//	// 3. Focus a node, seeding background positions from the base
//	focused, _ := engine.FocusSync(context.Background(), g, "a", base, layout.FocusOptions{})
//	_ = focused
//
// # Main Packages
//
// [graph] - Serialization types for nodes, edges, and positioned layouts,
// plus the resolved adjacency index shared by the engine and the stats
// summaries.
//
// [layout] - The force-directed engine: parameter validation with presets,
// size capping, chunked simulation runs with progress streams, and the
// focus pass that pins a node to the viewport center.
//
// [view] - Generation-ordered base and focus layouts per session, with the
// TTL session store used by the HTTP server.
//
// [source] - Graph loading from local files and BSON record dumps, with
// content hashes for cache keys.
//
// [cache] - Content-addressed layout cache; identical inputs reuse the
// previously computed layout.
//
// [stats] - Aggregate graph summaries (counts, histograms, degree
// distribution) independent of any layout.
//
// [config] - TOML configuration for the server, engine caps, and parameter
// presets.
//
// [errors] - Coded errors shared across the CLI and HTTP surfaces.
//
// [observability] - Pluggable hooks for engine runs and HTTP requests.
package pkg

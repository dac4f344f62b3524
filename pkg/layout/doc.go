// Package layout computes 2-D positions for entity graphs with a
// force-directed simulation.
//
// This package implements the complete filter → simulate → position
// pipeline used by the CLI, the HTTP facade, and embedding applications.
// The algorithm is a Fruchterman-Reingold style relaxation: pairwise
// repulsion, spring attraction along edges toward an ideal length, weak
// center gravity, velocity damping, and a linear cooling schedule over a
// fixed iteration budget. It is a heuristic: layouts are readable, not
// optimal, and large graphs must be capped with Filter first.
//
// # Architecture
//
// A layout request flows through three stages:
//
//  1. Filter: cap node and edge counts, ranking excess edges by endpoint degree
//  2. Simulate: run the force relaxation over a private working arena
//  3. Position: copy the arena out as an immutable Layout snapshot
//
// The simulation runs on a worker goroutine in fixed-size iteration
// batches. Between batches the run reports progress and checks for
// cancellation, so a host UI stays responsive and a superseded request
// can be abandoned without ever publishing partial positions.
//
// # Usage
//
// Create an Engine and execute a run:
//
//	engine := layout.NewEngine(logger)
//	filtered := layout.Filter(g, layout.DefaultMaxNodes, layout.DefaultMaxEdges)
//	run, err := engine.Layout(ctx, filtered, layout.Params{})
//	if err != nil {
//	    return err
//	}
//	for p := range run.Progress() {
//	    fmt.Printf("%d%%\n", p.Percent)
//	}
//	result, err := run.Wait()
//
// Re-arrange around a selected node, reusing the prior layout for
// continuity:
//
//	run, err := engine.Focus(ctx, filtered, "node-7", result, layout.FocusOptions{})
//
// Callers that do not care about incremental progress can use LayoutSync
// and FocusSync.
//
// # Concurrency
//
// Inputs are treated as immutable: each run snapshots the graph into a
// private arena and mutates only that. Results are fresh snapshots the
// engine never touches again. Runs carry monotonically increasing
// generation numbers so a caller holding shared display state can discard
// stale results; pkg/view implements that bookkeeping.
package layout

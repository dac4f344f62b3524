package layout

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/imran31415/forcefield/pkg/errors"
	"github.com/imran31415/forcefield/pkg/graph"
	"github.com/imran31415/forcefield/pkg/observability"
)

// =============================================================================
// Progress - Batch Advancement Events
// =============================================================================

// Progress reports how far a run has advanced. Events are informational
// only and never carry position data; positions become visible exclusively
// through Run.Wait after the whole run completes.
type Progress struct {
	Done    int `json:"done"`
	Total   int `json:"total"`
	Percent int `json:"percent"`
}

// =============================================================================
// Run - One In-Flight Layout Computation
// =============================================================================

// Run is a single layout computation executing on a worker goroutine.
//
// Progress events arrive on Progress() in order, one per completed batch,
// ending at 100 for completed runs; the channel is closed when the run
// finishes either way. The channel is buffered for the exact number of
// batches, so the worker never blocks on a slow or absent consumer.
//
// A Run is not restartable and no batch is ever re-executed.
type Run struct {
	// ID correlates log lines and observability events for this run.
	ID uuid.UUID

	// Generation orders runs created by one Engine. Callers keeping
	// shared display state apply a result only if its generation is
	// newer than the last applied one, so a superseded run is discarded
	// instead of clobbering fresher output.
	Generation uint64

	progress chan Progress
	done     chan struct{}
	layout   *Layout
	err      error
}

// Progress returns the ordered stream of batch completion events.
// The channel closes when the run finishes.
func (r *Run) Progress() <-chan Progress {
	return r.progress
}

// Done returns a channel closed when the run has finished.
func (r *Run) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the run finishes and returns its layout.
//
// A cancelled run returns a nil layout and an error carrying the
// context's cause: cancellation yields no usable result, and callers
// must not render anything from it.
func (r *Run) Wait() (*Layout, error) {
	<-r.done
	return r.layout, r.err
}

// =============================================================================
// Engine - Run Scheduler
// =============================================================================

// Engine schedules chunked layout runs.
//
// Each call to Layout or Focus starts an independent run tagged with the
// next generation number. The engine itself holds no layout state between
// runs; results belong to the caller.
type Engine struct {
	logger *log.Logger
	gen    atomic.Uint64
}

// NewEngine creates an Engine. A nil logger discards all output.
func NewEngine(logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Engine{logger: logger}
}

// Layout starts a base force-simulation run over the graph.
//
// The graph should already be capped via Filter; Layout lays out whatever
// it is given. The input is snapshotted before the worker starts and is
// never mutated. Cancellation via ctx is observed between batches only.
func (e *Engine) Layout(ctx context.Context, g graph.Graph, p Params) (*Run, error) {
	if err := p.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	a := newArena(g, p.Width, p.Height)
	a.initCircle()

	batch := batchSizeFor(len(a.states), p.BatchSize)
	run := e.newRun(batchCount(p.Iterations, batch))

	e.logger.Info("starting layout",
		"run", run.ID, "generation", run.Generation,
		"nodes", len(a.states), "edges", len(a.springs),
		"iterations", p.Iterations, "batch", batch)

	go e.execute(ctx, run, a, p, batch, false)
	return run, nil
}

// LayoutSync runs a base layout to completion, draining progress
// internally.
func (e *Engine) LayoutSync(ctx context.Context, g graph.Graph, p Params) (*Layout, error) {
	run, err := e.Layout(ctx, g, p)
	if err != nil {
		return nil, err
	}
	for range run.Progress() {
	}
	return run.Wait()
}

// Focus starts a focus-layout run: the focused node pins to the viewport
// center, direct neighbors to an inner ring, second-degree neighbors to
// an outer ring, and the remainder keeps prior positions from current or
// is scattered to the periphery. A short reduced-strength settle pass
// then resolves overlaps, and every pin is cleared before the result is
// returned.
//
// If the focused node is not in the graph, the run completes immediately
// and Wait returns current unchanged (a no-op, not an error).
func (e *Engine) Focus(ctx context.Context, g graph.Graph, nodeID string, current *Layout, opts FocusOptions) (*Run, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	base := Params{Width: opts.Width, Height: opts.Height, BatchSize: opts.BatchSize}
	if err := base.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	p := base.settleParams(opts.SettleIterations)

	a := newArena(g, p.Width, p.Height)
	a.seed(current)

	if !a.placeFocus(nodeID, opts.Seed) {
		run := e.newRun(0)
		run.layout = current
		close(run.progress)
		close(run.done)
		e.logger.Debug("focus target missing, returning current layout", "node", nodeID)
		return run, nil
	}

	batch := batchSizeFor(len(a.states), p.BatchSize)
	run := e.newRun(batchCount(p.Iterations, batch))

	e.logger.Info("starting focus layout",
		"run", run.ID, "generation", run.Generation,
		"node", nodeID, "nodes", len(a.states),
		"settle_iterations", p.Iterations)

	go e.execute(ctx, run, a, p, batch, true)
	return run, nil
}

// FocusSync runs a focus layout to completion, draining progress
// internally.
func (e *Engine) FocusSync(ctx context.Context, g graph.Graph, nodeID string, current *Layout, opts FocusOptions) (*Layout, error) {
	run, err := e.Focus(ctx, g, nodeID, current, opts)
	if err != nil {
		return nil, err
	}
	for range run.Progress() {
	}
	return run.Wait()
}

// =============================================================================
// Internal Implementation
// =============================================================================

func (e *Engine) newRun(batches int) *Run {
	return &Run{
		ID:         uuid.New(),
		Generation: e.gen.Add(1),
		progress:   make(chan Progress, batches),
		done:       make(chan struct{}),
	}
}

// batchCount returns how many batches a budget of total iterations
// occupies at the given batch size.
func batchCount(total, batch int) int {
	return (total + batch - 1) / batch
}

// execute is the worker loop: run a batch, report progress, check for
// cancellation, repeat. Cancellation is observed only between batches;
// an in-progress batch always completes, and a cancelled run discards
// its arena without ever publishing positions.
func (e *Engine) execute(ctx context.Context, r *Run, a *arena, p Params, batch int, clearPins bool) {
	start := time.Now()
	observability.Layout().OnLayoutStart(ctx, r.ID.String(), r.Generation, len(a.states), len(a.springs))

	total := p.Iterations
	done := 0
	for done < total {
		if err := ctx.Err(); err != nil {
			r.err = errors.Wrap(errors.ErrCodeCancelled, err, "layout run cancelled after %d/%d iterations", done, total)
			close(r.progress)
			close(r.done)
			observability.Layout().OnLayoutComplete(ctx, r.ID.String(), time.Since(start), r.err)
			e.logger.Info("layout cancelled",
				"run", r.ID, "generation", r.Generation, "done", done, "total", total)
			return
		}

		end := min(done+batch, total)
		a.runBatch(done, end, total, p)
		done = end

		pct := done * 100 / total
		r.progress <- Progress{Done: done, Total: total, Percent: pct}
		observability.Layout().OnLayoutBatch(ctx, r.ID.String(), pct)
		e.logger.Debug("layout batch complete", "run", r.ID, "done", done, "total", total, "percent", pct)
	}

	if clearPins {
		a.clearPins()
	}
	r.layout = a.result()
	close(r.progress)
	close(r.done)

	observability.Layout().OnLayoutComplete(ctx, r.ID.String(), time.Since(start), nil)
	e.logger.Info("layout complete",
		"run", r.ID, "generation", r.Generation,
		"nodes", len(r.layout.Nodes), "duration", time.Since(start))
}

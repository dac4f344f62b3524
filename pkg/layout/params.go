package layout

import (
	"github.com/imran31415/forcefield/pkg/errors"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Presets
// =============================================================================

const (
	// DefaultRepulsion is the pairwise push-apart strength.
	DefaultRepulsion = 5000.0

	// DefaultAttraction is the spring strength pulling edge endpoints
	// toward the ideal separation.
	DefaultAttraction = 0.005

	// DefaultCenterPull is the gravity strength toward the viewport center.
	DefaultCenterPull = 0.02

	// DefaultFriction is the per-iteration velocity decay factor.
	DefaultFriction = 0.85

	// DefaultIterations is the base simulation iteration budget.
	DefaultIterations = 100

	// DefaultIdealEdgeLength is the target separation between connected nodes.
	DefaultIdealEdgeLength = 120.0

	// DefaultMinDistance is the separation below which an extra linear
	// repulsion penalty applies.
	DefaultMinDistance = 80.0

	// DefaultPadding is the boundary band no node position may enter.
	DefaultPadding = 80.0

	// DefaultWidth is the default viewport width in pixels.
	DefaultWidth = 800.0

	// DefaultHeight is the default viewport height in pixels.
	DefaultHeight = 600.0

	// DefaultMaxNodes caps how many nodes survive filtering.
	DefaultMaxNodes = 100

	// DefaultMaxEdges caps how many edges survive filtering.
	DefaultMaxEdges = 200

	// DefaultBatchSize is the iterations-per-batch for small graphs.
	// Larger graphs shrink the batch to bound per-batch cost.
	DefaultBatchSize = 10

	// DefaultSettleIterations is the iteration budget of a focus settle pass.
	DefaultSettleIterations = 30

	// DefaultSeed seeds the scatter placement of background nodes during
	// a focus pass, keeping focus layouts reproducible.
	DefaultSeed = int64(42)
)

// Focus ring geometry.
const (
	// FocusRingRadius is the distance of direct neighbors from the
	// focused node.
	FocusRingRadius = 180.0

	// FocusOuterRingRadius is the distance of second-degree neighbors.
	FocusOuterRingRadius = 320.0

	// FocusScatterMin and FocusScatterMax bound the radius band where
	// unrelated nodes without prior positions are scattered.
	FocusScatterMin = 450.0
	FocusScatterMax = 550.0
)

// Settle pass tuning: lower strengths and higher friction than the base
// simulation, so ring placement is preserved while overlaps relax.
const (
	settleRepulsion  = 2000.0
	settleAttraction = 0.002
	settleCenterPull = 0.005
	settleFriction   = 0.9
)

// =============================================================================
// Params - Simulation Configuration
// =============================================================================

// Params contains all tuning for a base layout run.
// This struct supports JSON serialization for API requests.
//
// Zero values mean "use the default". Negative strengths, non-positive
// dimensions, and out-of-range friction are caller programming errors and
// are rejected eagerly rather than clamped.
type Params struct {
	Repulsion       float64 `json:"repulsion,omitempty"`
	Attraction      float64 `json:"attraction,omitempty"`
	CenterPull      float64 `json:"center_pull,omitempty"`
	Friction        float64 `json:"friction,omitempty"`
	Iterations      int     `json:"iterations,omitempty"`
	IdealEdgeLength float64 `json:"ideal_edge_length,omitempty"`
	MinDistance     float64 `json:"min_distance,omitempty"`
	Padding         float64 `json:"padding,omitempty"`
	Width           float64 `json:"width,omitempty"`
	Height          float64 `json:"height,omitempty"`

	// BatchSize overrides the iterations-per-batch of the scheduler.
	// Zero selects a size based on graph scale.
	BatchSize int `json:"batch_size,omitempty"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks field ranges and applies defaults.
// This method is idempotent - calling it multiple times has the same
// effect as calling it once.
func (p *Params) ValidateAndSetDefaults() error {
	if p.validated {
		return nil
	}

	if p.Repulsion < 0 {
		return errors.New(errors.ErrCodeInvalidParams, "repulsion must not be negative, got %v", p.Repulsion)
	}
	if p.Attraction < 0 {
		return errors.New(errors.ErrCodeInvalidParams, "attraction must not be negative, got %v", p.Attraction)
	}
	if p.CenterPull < 0 {
		return errors.New(errors.ErrCodeInvalidParams, "center_pull must not be negative, got %v", p.CenterPull)
	}
	if p.Friction < 0 || p.Friction > 1 {
		return errors.New(errors.ErrCodeInvalidParams, "friction must be in (0, 1], got %v", p.Friction)
	}
	if p.Iterations < 0 {
		return errors.New(errors.ErrCodeInvalidParams, "iterations must not be negative, got %d", p.Iterations)
	}
	if p.IdealEdgeLength < 0 {
		return errors.New(errors.ErrCodeInvalidParams, "ideal_edge_length must not be negative, got %v", p.IdealEdgeLength)
	}
	if p.MinDistance < 0 {
		return errors.New(errors.ErrCodeInvalidParams, "min_distance must not be negative, got %v", p.MinDistance)
	}
	if p.Padding < 0 {
		return errors.New(errors.ErrCodeInvalidParams, "padding must not be negative, got %v", p.Padding)
	}
	if p.Width < 0 || p.Height < 0 {
		return errors.New(errors.ErrCodeInvalidParams, "viewport dimensions must not be negative, got %vx%v", p.Width, p.Height)
	}
	if p.BatchSize < 0 {
		return errors.New(errors.ErrCodeInvalidParams, "batch_size must not be negative, got %d", p.BatchSize)
	}

	if p.Repulsion == 0 {
		p.Repulsion = DefaultRepulsion
	}
	if p.Attraction == 0 {
		p.Attraction = DefaultAttraction
	}
	if p.CenterPull == 0 {
		p.CenterPull = DefaultCenterPull
	}
	if p.Friction == 0 {
		p.Friction = DefaultFriction
	}
	if p.Iterations == 0 {
		p.Iterations = DefaultIterations
	}
	if p.IdealEdgeLength == 0 {
		p.IdealEdgeLength = DefaultIdealEdgeLength
	}
	if p.MinDistance == 0 {
		p.MinDistance = DefaultMinDistance
	}
	if p.Padding == 0 {
		p.Padding = DefaultPadding
	}
	if p.Width == 0 {
		p.Width = DefaultWidth
	}
	if p.Height == 0 {
		p.Height = DefaultHeight
	}

	if p.Width <= 2*p.Padding || p.Height <= 2*p.Padding {
		return errors.New(errors.ErrCodeInvalidParams,
			"viewport %vx%v leaves no room inside padding %v", p.Width, p.Height, p.Padding)
	}

	p.validated = true
	return nil
}

// settleParams derives the reduced-strength parameter set for a focus
// settle pass from validated base params.
func (p Params) settleParams(iterations int) Params {
	s := p
	s.Repulsion = settleRepulsion
	s.Attraction = settleAttraction
	s.CenterPull = settleCenterPull
	s.Friction = settleFriction
	s.Iterations = iterations
	return s
}

// batchSizeFor returns the iterations-per-batch for a graph of n nodes.
// Batches shrink as graphs grow so a single batch never monopolizes the
// worker for long: the repulsion loop is O(n²) per iteration.
func batchSizeFor(n, override int) int {
	if override > 0 {
		return override
	}
	switch {
	case n > 300:
		return 2
	case n > 150:
		return 5
	default:
		return DefaultBatchSize
	}
}

// =============================================================================
// FocusOptions - Focus Pass Configuration
// =============================================================================

// FocusOptions tunes a focus layout pass. Zero values mean defaults.
type FocusOptions struct {
	// Width and Height give the viewport; the focused node pins to its
	// exact center.
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	// SettleIterations is the length of the post-placement settle pass.
	SettleIterations int `json:"settle_iterations,omitempty"`

	// Seed drives scatter placement of background nodes that lack a
	// prior position. Runs with equal inputs and seeds are identical.
	Seed int64 `json:"seed,omitempty"`

	// BatchSize overrides the scheduler batch size, as in Params.
	BatchSize int `json:"batch_size,omitempty"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks field ranges and applies defaults.
// Idempotent, like Params.ValidateAndSetDefaults.
func (o *FocusOptions) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidParams, "viewport dimensions must not be negative, got %vx%v", o.Width, o.Height)
	}
	if o.SettleIterations < 0 {
		return errors.New(errors.ErrCodeInvalidParams, "settle_iterations must not be negative, got %d", o.SettleIterations)
	}
	if o.BatchSize < 0 {
		return errors.New(errors.ErrCodeInvalidParams, "batch_size must not be negative, got %d", o.BatchSize)
	}

	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.SettleIterations == 0 {
		o.SettleIterations = DefaultSettleIterations
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}

	o.validated = true
	return nil
}

package tree

import "go.uber.org/zap"

const (
	DefaultMaxDepth         = 64
	DefaultMinLeafTriangles = 1
	DefaultRayLength        = 1000.0
)

type options struct {
	logger           *zap.SugaredLogger
	maxDepth         int
	minLeafTriangles int
	rayLength        float64
}

// Option configures Build
type Option func(*options)

func defaultOptions() options {
	return options{
		logger:           zap.NewNop().Sugar(),
		maxDepth:         DefaultMaxDepth,
		minLeafTriangles: DefaultMinLeafTriangles,
		rayLength:        DefaultRayLength,
	}
}

// WithLogger sets the logger receiving build statistics
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMaxDepth bounds the depth of the tree, the root being at depth 0.
// Nodes reaching it become leaves.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		if depth >= 0 {
			o.maxDepth = depth
		}
	}
}

// WithMinLeafTriangles stops subdividing subsets of at most n triangles.
// The default of 1 lets only geometry decide when to stop.
func WithMinLeafTriangles(n int) Option {
	return func(o *options) {
		if n >= 1 {
			o.minLeafTriangles = n
		}
	}
}

// WithRayLength sets the length of the segment standing for a ray when resolving
// candidate triangles. Directions are not normalized, so the length is in units of
// the direction vector.
func WithRayLength(length float64) Option {
	return func(o *options) {
		if length > 0 {
			o.rayLength = length
		}
	}
}

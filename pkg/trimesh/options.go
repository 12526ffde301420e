package trimesh

import "github.com/philipparndt/gotrimesh/pkg/diag"

// DefaultKNN is the neighbourhood size for point-cloud normals, the query
// point included.
const DefaultKNN = 6

// DefaultRadiusFactor scales the median nearest-neighbour spacing into the
// point-cloud search radius.
const DefaultRadiusFactor = 4.0

// Options configures the derivations of a Mesh
type Options struct {
	// Workers bounds the goroutines used by parallel loops; 0 means GOMAXPROCS.
	Workers int
	// KNN is the number of points fitted per point-cloud normal.
	KNN int
	// NeighborRadius limits the point-cloud search; 0 derives it from the
	// cloud as RadiusFactor times the median nearest-neighbour spacing.
	NeighborRadius float64
	// RadiusFactor applies when NeighborRadius is 0; a negative value
	// disables the radius limit.
	RadiusFactor float64
	// Sink receives diagnostics; nil discards them.
	Sink diag.Sink
}

func defaultOptions() Options {
	return Options{
		KNN:          DefaultKNN,
		RadiusFactor: DefaultRadiusFactor,
	}
}

// Option customizes a Mesh
type Option func(*Options)

// NewOptions applies opts to the defaults
func NewOptions(opts ...Option) Options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithWorkers sets the worker count for parallel loops
func WithWorkers(n int) Option {
	return func(o *Options) { o.Workers = n }
}

// WithKNN sets the point-cloud neighbourhood size
func WithKNN(k int) Option {
	return func(o *Options) {
		if k > 0 {
			o.KNN = k
		}
	}
}

// WithNeighborRadius fixes the point-cloud search radius
func WithNeighborRadius(r float64) Option {
	return func(o *Options) { o.NeighborRadius = r }
}

// WithRadiusFactor sets the automatic search radius scale
func WithRadiusFactor(f float64) Option {
	return func(o *Options) { o.RadiusFactor = f }
}

// WithDiagnostics routes diagnostics to s
func WithDiagnostics(s diag.Sink) Option {
	return func(o *Options) { o.Sink = s }
}

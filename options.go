package lbvh

import (
	"go.uber.org/zap"

	"github.com/bmharper/lbvh-go/internal/parallel"
)

// Executor runs the data-parallel stages of a build.
type Executor = parallel.Executor

// Pool is a persistent worker pool. Share one between builds to avoid
// spawning goroutines every time, and Close it when done.
type Pool = parallel.Pool

// Sequential runs every stage on the calling goroutine.
type Sequential = parallel.Sequential

// NewPool creates a pool of workers goroutines (GOMAXPROCS if workers <= 0).
func NewPool(workers int) *Pool {
	return parallel.New(workers)
}

// Options configure Build.
type Options struct {
	// Workers is the number of goroutines a build may use. 0 means GOMAXPROCS
	// and 1 runs every stage sequentially. Ignored when Executor is set.
	Workers int
	// Executor, when set, runs every stage.
	Executor Executor
	// Scale grows every box about its centroid before it is inserted.
	Scale  float64
	Sort   SortStrategy
	Curve  Curve
	Logger *zap.Logger
}

type Option func(*Options)

func DefaultOptions() Options {
	return Options{
		Scale:  1,
		Sort:   SortRadix,
		Curve:  CurveMorton,
		Logger: zap.NewNop(),
	}
}

func WithWorkers(n int) Option {
	return func(o *Options) {
		o.Workers = n
	}
}

func WithExecutor(e Executor) Option {
	return func(o *Options) {
		o.Executor = e
	}
}

func WithScale(s float64) Option {
	return func(o *Options) {
		o.Scale = s
	}
}

func WithSort(s SortStrategy) Option {
	return func(o *Options) {
		o.Sort = s
	}
}

func WithCurve(c Curve) Option {
	return func(o *Options) {
		o.Curve = c
	}
}

// WithLogger sets the logger build stages report to, at debug level.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// executor returns the executor for a build, and a function to release it.
func (o *Options) executor() (Executor, func()) {
	switch {
	case o.Executor != nil:
		return o.Executor, func() {}
	case o.Workers == 1:
		return parallel.Sequential{}, func() {}
	}
	p := parallel.New(o.Workers)
	return p, p.Close
}

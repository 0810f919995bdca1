package linear

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/linfit/pkg/log"
)

// IterationHook is called after every update of an iterative solver.
// iter is the 1-based number of completed updates and w is the solver's
// working weight vector, which must not be modified or retained.
// A non-nil return aborts the solver with that error.
type IterationHook func(iter int, w *mat.VecDense) error

type config struct {
	rng    *rand.Rand
	hook   IterationHook
	logger log.Logger
}

// Option configures a solver call.
type Option func(*config)

// WithRand sets the generator used by MeanSquaredErrorSGD to draw sample
// indices. Without it each call uses its own generator seeded with 0.
func WithRand(rng *rand.Rand) Option {
	return func(c *config) {
		c.rng = rng
	}
}

// WithIterationHook registers fn to observe each update.
func WithIterationHook(fn IterationHook) Option {
	return func(c *config) {
		c.hook = fn
	}
}

// WithLogger sets the logger used for solver diagnostics.
func WithLogger(logger log.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

func newConfig(solver string, opts []Option) *config {
	c := &config{}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = log.GetLoggerWithName("linear")
	}
	c.logger = c.logger.With(log.ModelNameKey, solver)
	if c.rng == nil {
		c.rng = rand.New(rand.NewSource(0))
	}
	return c
}

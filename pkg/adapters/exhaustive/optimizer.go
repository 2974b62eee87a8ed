// Package exhaustive provides the reference Optimizer: a full sweep of the
// discrete cube with a coarse angle grid and golden-section refinement. It is
// exact enough to certify small reductions and deliberately unclever.
package exhaustive

import (
	"context"
	"fmt"
	"math"

	"github.com/quelllabs/quell/pkg/ports"
)

// maxDiscrete caps the 2^m cube sweep.
const maxDiscrete = 20

const invPhi = 0.6180339887498949

// Optimizer sweeps every corner of the discrete cube. For each corner the
// continuous variable is scanned on a coarse grid and the best bracket is
// refined by golden-section search.
type Optimizer struct {
	gridSteps  int
	refineIter int
}

type Option func(*Optimizer)

// WithGridSteps sets the coarse scan resolution.
func WithGridSteps(n int) Option {
	return func(o *Optimizer) {
		if n > 0 {
			o.gridSteps = n
		}
	}
}

// WithRefineIterations sets the golden-section iteration count.
func WithRefineIterations(n int) Option {
	return func(o *Optimizer) {
		if n > 0 {
			o.refineIter = n
		}
	}
}

// New creates the reference optimizer with options.
func New(opts ...Option) *Optimizer {
	o := &Optimizer{
		gridSteps:  48,
		refineIter: 48,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Minimize implements ports.Optimizer. Samples come out in a deterministic
// order: corners by ascending bitmask (bit i set means q_i = -1), each followed
// by its refined best point.
func (o *Optimizer) Minimize(ctx context.Context, space ports.SearchSpace, objective ports.Objective) ([]ports.Sample, error) {
	m := len(space.Discrete)
	if m > maxDiscrete {
		return nil, fmt.Errorf("discrete cube of %d variables exceeds the %d-variable cap", m, maxDiscrete)
	}

	var samples []ports.Sample
	for mask := 0; mask < 1<<m; mask++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		corner := make(ports.Assignment, m+1)
		for i, name := range space.Discrete {
			if mask&(1<<i) != 0 {
				corner[name] = -1
			} else {
				corner[name] = 1
			}
		}

		eval := func(theta float64) float64 {
			a := make(ports.Assignment, len(corner)+1)
			for k, v := range corner {
				a[k] = v
			}
			a[space.Continuous.Name] = theta
			val := objective(a)
			samples = append(samples, ports.Sample{Objective: val, Values: a})
			return val
		}

		lo, hi := space.Continuous.Min, space.Continuous.Max
		span := hi - lo
		step := span / float64(o.gridSteps)
		bestTheta, bestVal := lo, math.Inf(1)
		for i := 0; i <= o.gridSteps; i++ {
			theta := lo + float64(i)*step
			if v := eval(theta); v < bestVal {
				bestVal, bestTheta = v, theta
			}
		}

		a := math.Max(lo, bestTheta-step)
		b := math.Min(hi, bestTheta+step)
		o.goldenSection(a, b, eval)
	}
	if len(samples) == 0 {
		return nil, ports.ErrNoSamples
	}
	return samples, nil
}

// goldenSection narrows [a, b] around the minimum; every probe is recorded
// through eval.
func (o *Optimizer) goldenSection(a, b float64, eval func(float64) float64) {
	x1 := b - invPhi*(b-a)
	x2 := a + invPhi*(b-a)
	f1, f2 := eval(x1), eval(x2)
	for i := 0; i < o.refineIter; i++ {
		if f1 < f2 {
			b, x2, f2 = x2, x1, f1
			x1 = b - invPhi*(b-a)
			f1 = eval(x1)
		} else {
			a, x1, f1 = x1, x2, f2
			x2 = a + invPhi*(b-a)
			f2 = eval(x2)
		}
	}
	eval((a + b) / 2)
}

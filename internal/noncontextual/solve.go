package noncontextual

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/quelllabs/quell/pkg/ports"
)

// ErrOptimizerFailure wraps any failure of the injected optimizer, including an
// empty or malformed sample set.
var ErrOptimizerFailure = errors.New("optimizer failure")

// Solution is the minimizing point of the classical objective: generator
// eigenvalues Nu (one +/-1 per generator, in generator index order), the clique
// angle Theta, the corresponding unit vector R = (sin(theta), cos(theta)), and
// the attained energy.
type Solution struct {
	Energy  float64
	Nu      []int
	Theta   float64
	R       [2]float64
	Samples []ports.Sample
}

// Space builds the optimizer search space for m generators: discrete variables
// q0..q{m-1} in generator order plus the clique angle theta on [-pi, pi].
func Space(m int) ports.SearchSpace {
	discrete := make([]string, m)
	for i := range discrete {
		discrete[i] = fmt.Sprintf("q%d", i)
	}
	return ports.SearchSpace{
		Objective:  "energy",
		Discrete:   discrete,
		Continuous: ports.ContinuousVar{Name: "theta", Min: -math.Pi, Max: math.Pi},
	}
}

// Solve minimizes the classical objective with the injected optimizer and
// returns the best sample found. Every sample is validated against the search
// space; a missing variable or an empty sample set is an optimizer failure.
func Solve(ctx context.Context, terms []ObjectiveTerm, m int, opt ports.Optimizer) (Solution, error) {
	space := Space(m)

	objective := func(a ports.Assignment) float64 {
		q, theta := assignmentPoint(space, a)
		return Energy(terms, q, theta)
	}

	samples, err := opt.Minimize(ctx, space, objective)
	if err != nil {
		return Solution{}, fmt.Errorf("%w: %w", ErrOptimizerFailure, err)
	}
	if len(samples) == 0 {
		return Solution{}, fmt.Errorf("%w: %w", ErrOptimizerFailure, ports.ErrNoSamples)
	}

	best := 0
	for i, s := range samples {
		if err := s.Validate(space); err != nil {
			return Solution{}, fmt.Errorf("%w: sample %d: %w", ErrOptimizerFailure, i, err)
		}
		if s.Objective < samples[best].Objective {
			best = i
		}
	}

	q, theta := assignmentPoint(space, samples[best].Values)
	return Solution{
		Energy:  samples[best].Objective,
		Nu:      q,
		Theta:   theta,
		R:       [2]float64{math.Sin(theta), math.Cos(theta)},
		Samples: samples,
	}, nil
}

// assignmentPoint reads an assignment back into generator eigenvalues and the
// clique angle. Discrete values are snapped to +/-1 by sign so optimizers that
// relax the ordinals still evaluate a valid point.
func assignmentPoint(space ports.SearchSpace, a ports.Assignment) ([]int, float64) {
	q := make([]int, len(space.Discrete))
	for i, name := range space.Discrete {
		if a[name] < 0 {
			q[i] = -1
		} else {
			q[i] = 1
		}
	}
	return q, a[space.Continuous.Name]
}

package noncontextual

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quelllabs/quell/pkg/ports"
)

// gridOptimizer sweeps the +/-1 cube and a dense angle grid.
type gridOptimizer struct {
	steps int
}

func (g gridOptimizer) Minimize(ctx context.Context, space ports.SearchSpace, objective ports.Objective) ([]ports.Sample, error) {
	var samples []ports.Sample
	m := len(space.Discrete)
	for mask := 0; mask < 1<<m; mask++ {
		for i := 0; i < g.steps; i++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			a := ports.Assignment{}
			for j, name := range space.Discrete {
				if mask&(1<<j) != 0 {
					a[name] = -1
				} else {
					a[name] = 1
				}
			}
			span := space.Continuous.Max - space.Continuous.Min
			a[space.Continuous.Name] = space.Continuous.Min + span*float64(i)/float64(g.steps)
			samples = append(samples, ports.Sample{Objective: objective(a), Values: a})
		}
	}
	return samples, nil
}

type staticOptimizer struct {
	samples []ports.Sample
	err     error
}

func (s staticOptimizer) Minimize(context.Context, ports.SearchSpace, ports.Objective) ([]ports.Sample, error) {
	return s.samples, s.err
}

func TestSolveTwoCliques(t *testing.T) {
	_, _, terms := buildTwoCliqueCase(t)

	sol, err := Solve(context.Background(), terms, 1, gridOptimizer{steps: 20000})
	require.NoError(t, err)

	assert.InDelta(t, -math.Sqrt(1.78), sol.Energy, 1e-6)
	assert.Equal(t, []int{1}, sol.Nu)
	assert.InDelta(t, math.Sin(sol.Theta), sol.R[0], 1e-12)
	assert.InDelta(t, math.Cos(sol.Theta), sol.R[1], 1e-12)
	assert.NotEmpty(t, sol.Samples)
}

func TestSolveSpaceNaming(t *testing.T) {
	space := Space(3)
	assert.Equal(t, []string{"q0", "q1", "q2"}, space.Discrete)
	assert.Equal(t, "theta", space.Continuous.Name)
	assert.InDelta(t, -math.Pi, space.Continuous.Min, 1e-12)
	assert.InDelta(t, math.Pi, space.Continuous.Max, 1e-12)
}

func TestSolveNoSamples(t *testing.T) {
	_, _, terms := buildTwoCliqueCase(t)

	_, err := Solve(context.Background(), terms, 1, staticOptimizer{})
	assert.ErrorIs(t, err, ErrOptimizerFailure)
	assert.ErrorIs(t, err, ports.ErrNoSamples)
}

func TestSolveMalformedSample(t *testing.T) {
	_, _, terms := buildTwoCliqueCase(t)

	bad := staticOptimizer{samples: []ports.Sample{
		{Objective: -1, Values: ports.Assignment{"q0": 1}}, // theta missing
	}}
	_, err := Solve(context.Background(), terms, 1, bad)
	assert.ErrorIs(t, err, ErrOptimizerFailure)
	assert.ErrorIs(t, err, ports.ErrMalformedSample)
}

func TestSolvePropagatesOptimizerError(t *testing.T) {
	_, _, terms := buildTwoCliqueCase(t)

	boom := errors.New("backend unavailable")
	_, err := Solve(context.Background(), terms, 1, staticOptimizer{err: boom})
	assert.ErrorIs(t, err, ErrOptimizerFailure)
	assert.ErrorIs(t, err, boom)
}

package exhaustive

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quelllabs/quell/pkg/ports"
)

func space(discrete ...string) ports.SearchSpace {
	return ports.SearchSpace{
		Objective:  "energy",
		Discrete:   discrete,
		Continuous: ports.ContinuousVar{Name: "theta", Min: -math.Pi, Max: math.Pi},
	}
}

func best(samples []ports.Sample) ports.Sample {
	out := samples[0]
	for _, s := range samples[1:] {
		if s.Objective < out.Objective {
			out = s
		}
	}
	return out
}

func TestMinimizeFindsGlobalMinimum(t *testing.T) {
	// f(q0, theta) = q0*(1.3*sin(theta) + 0.3*cos(theta)) has its minimum
	// -sqrt(1.78) on both corners, at supplementary angles.
	f := func(a ports.Assignment) float64 {
		return a["q0"] * (1.3*math.Sin(a["theta"]) + 0.3*math.Cos(a["theta"]))
	}

	samples, err := New().Minimize(context.Background(), space("q0"), f)
	require.NoError(t, err)

	assert.InDelta(t, -math.Sqrt(1.78), best(samples).Objective, 1e-9)
}

func TestMinimizeCoversEveryCorner(t *testing.T) {
	f := func(a ports.Assignment) float64 {
		return a["q0"] + 2*a["q1"] + 0.01*a["theta"]*a["theta"]
	}

	samples, err := New(WithGridSteps(8), WithRefineIterations(8)).
		Minimize(context.Background(), space("q0", "q1"), f)
	require.NoError(t, err)

	corners := map[[2]float64]bool{}
	for _, s := range samples {
		require.NoError(t, s.Validate(space("q0", "q1")))
		corners[[2]float64{s.Values["q0"], s.Values["q1"]}] = true
	}
	assert.Len(t, corners, 4)
	assert.InDelta(t, -3, best(samples).Objective, 1e-6)
}

func TestMinimizeNoDiscreteVariables(t *testing.T) {
	f := func(a ports.Assignment) float64 {
		return math.Cos(a["theta"]) // minimum -1 at +/-pi
	}

	samples, err := New().Minimize(context.Background(), space(), f)
	require.NoError(t, err)
	assert.InDelta(t, -1, best(samples).Objective, 1e-9)
}

func TestMinimizeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Minimize(ctx, space("q0"), func(ports.Assignment) float64 { return 0 })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMinimizeTooManyVariables(t *testing.T) {
	names := make([]string, maxDiscrete+1)
	for i := range names {
		names[i] = "q"
	}
	_, err := New().Minimize(context.Background(), space(names...), func(ports.Assignment) float64 { return 0 })
	assert.Error(t, err)
}

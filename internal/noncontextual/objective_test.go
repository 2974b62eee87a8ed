package noncontextual

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quelllabs/quell/pkg/pauli"
)

func buildTwoCliqueCase(t *testing.T) (pauli.Operator, Decomposition, []ObjectiveTerm) {
	t.Helper()
	h, err := pauli.NewOperatorReal(map[string]float64{
		"ZZ": 0.8,
		"XI": 0.3,
		"ZI": 0.5,
	})
	require.NoError(t, err)

	d, err := Decompose(h.Terms())
	require.NoError(t, err)
	require.Len(t, d.Generators, 1)
	require.Len(t, d.Cliques, 2)

	terms, err := BuildObjective(h, d)
	require.NoError(t, err)
	return h, d, terms
}

func TestBuildObjectiveTwoCliques(t *testing.T) {
	_, _, terms := buildTwoCliqueCase(t)

	// With one generator the closure is {G0, I}: the G0 term picks up the
	// Hamiltonian coefficients of G0*C1 and G0*C2, the identity term those of
	// C1 and C2 themselves.
	require.Len(t, terms, 2)
	assert.Equal(t, []int{0}, terms[0].Indices)
	assert.Empty(t, terms[1].Indices)

	// energy(q, theta) = (0.8*q0 + 0.5)*s(theta) + 0.3*c(theta) where s, c are
	// the clique components in the deduced clique order.
	for _, theta := range []float64{-2.5, -0.3, 0, 1.1, math.Pi} {
		for _, q0 := range []int{-1, 1} {
			got := Energy(terms, []int{q0}, theta)
			s, c := math.Sin(theta), math.Cos(theta)
			want := (0.8*float64(q0)+0.5)*s + 0.3*c
			assert.InDelta(t, want, got, 1e-12, "q0=%d theta=%g", q0, theta)
		}
	}
}

func TestObjectiveMinimumMatchesClosedForm(t *testing.T) {
	_, _, terms := buildTwoCliqueCase(t)

	best := math.Inf(1)
	const steps = 200000
	for _, q0 := range []int{-1, 1} {
		for i := 0; i < steps; i++ {
			theta := -math.Pi + 2*math.Pi*float64(i)/steps
			if e := Energy(terms, []int{q0}, theta); e < best {
				best = e
			}
		}
	}
	// Ground sector q0=+1 gives -sqrt((0.8+0.5)^2 + 0.3^2).
	assert.InDelta(t, -math.Sqrt(1.78), best, 1e-8)
}

func TestOptimalAngleMatchesGrid(t *testing.T) {
	_, _, terms := buildTwoCliqueCase(t)

	for _, q0 := range []int{-1, 1} {
		theta, energy := OptimalAngle(terms, []int{q0})
		assert.InDelta(t, energy, Energy(terms, []int{q0}, theta), 1e-12)

		gridBest := math.Inf(1)
		for i := 0; i < 100000; i++ {
			x := -math.Pi + 2*math.Pi*float64(i)/100000
			if e := Energy(terms, []int{q0}, x); e < gridBest {
				gridBest = e
			}
		}
		assert.InDelta(t, gridBest, energy, 1e-7, "q0=%d", q0)
	}
}

func TestBuildObjectivePhaseFolding(t *testing.T) {
	// Generators {ZI, IZ} with closure element ZI*IZ = ZZ: the closure
	// coefficient must carry the (here trivial) product phase so eigenvalue
	// products reproduce expectations exactly.
	h, err := pauli.NewOperatorReal(map[string]float64{
		"ZI": 0.5,
		"IZ": -0.25,
		"ZZ": 1.5,
	})
	require.NoError(t, err)
	d, err := Decompose(h.Terms())
	require.NoError(t, err)
	require.Empty(t, d.Cliques)

	terms, err := BuildObjective(h, d)
	require.NoError(t, err)

	for _, q := range [][]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}} {
		want := 0.5*eig(q, d.Generators, "ZI") +
			-0.25*eig(q, d.Generators, "IZ") +
			1.5*eig(q, d.Generators, "ZI")*eig(q, d.Generators, "IZ")
		assert.InDelta(t, want, Energy(terms, q, 0), 1e-12, "q=%v", q)
	}
}

// eig returns the assigned eigenvalue of one label given the generator order.
func eig(q []int, gens []pauli.Term, label pauli.Term) float64 {
	for i, g := range gens {
		if g == label {
			return float64(q[i])
		}
	}
	return 0
}

func TestBuildObjectiveTooManyCliques(t *testing.T) {
	d := Decomposition{
		NQubits:    1,
		Cliques:    terms("X", "Y", "Z"),
		Generators: nil,
	}
	h, err := pauli.NewOperatorReal(map[string]float64{"X": 1})
	require.NoError(t, err)

	_, err = BuildObjective(h, d)
	assert.ErrorIs(t, err, ErrTooManyCliques)
}

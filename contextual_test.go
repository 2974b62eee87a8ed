package quell

import (
	"context"
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quelllabs/quell/internal/spectrum"
	"github.com/quelllabs/quell/pkg/adapters/memory"
	"github.com/quelllabs/quell/pkg/observability"
	"github.com/quelllabs/quell/pkg/pauli"
)

// twoQubitModel is noncontextual as a whole: one symmetry generator IZ and two
// cliques represented by ZI and XI. Its exact ground energy is
// -sqrt((0.8+0.5)^2 + 0.3^2).
func twoQubitModel(t *testing.T) pauli.Operator {
	t.Helper()
	h, err := pauli.NewOperatorReal(map[string]float64{
		"ZZ": 0.8, "XI": 0.3, "ZI": 0.5,
	})
	require.NoError(t, err)
	return h
}

func TestContextualSolveExact(t *testing.T) {
	cs, err := NewContextualSubspace(twoQubitModel(t))
	require.NoError(t, err)

	sol, err := cs.Solve(context.Background())
	require.NoError(t, err)

	assert.InDelta(t, -math.Sqrt(1.78), sol.Energy, 1e-8)
	assert.Equal(t, []int{1}, sol.Nu)
	require.Len(t, sol.Stabilizers, 2)
	assert.Equal(t, pauli.Term("ZI"), sol.Stabilizers[0],
		"the collapsed clique operator leads the stabilizer list")
	assert.Equal(t, pauli.Term("IZ"), sol.Stabilizers[1])

	energy, err := cs.NoncontextualEnergy()
	require.NoError(t, err)
	assert.InDelta(t, sol.Energy, energy, 1e-12)
}

func TestContextualFullProjectionRecoversEnergy(t *testing.T) {
	cs, err := NewContextualSubspace(twoQubitModel(t))
	require.NoError(t, err)
	sol, err := cs.Solve(context.Background())
	require.NoError(t, err)

	// Projecting every stabilizer leaves a scalar: the noncontextual energy.
	reduced, err := cs.ReducedHamiltonian()
	require.NoError(t, err)
	assert.Equal(t, 0, reduced.NQubits())
	assert.InDelta(t, sol.Energy, real(reduced.Coeff(pauli.Identity(0))), 1e-8)
}

func TestContextualPartialProjection(t *testing.T) {
	h := twoQubitModel(t)
	cs, err := NewContextualSubspace(h)
	require.NoError(t, err)
	sol, err := cs.Solve(context.Background())
	require.NoError(t, err)

	// Projecting only the clique stabilizer keeps one qubit; the reduced
	// operator must still reach the noncontextual energy exactly, since the
	// model is noncontextual as a whole.
	reduced, err := cs.ReducedHamiltonian(0)
	require.NoError(t, err)
	assert.Equal(t, 1, reduced.NQubits())

	ground, err := spectrum.GroundEnergy(reduced)
	require.NoError(t, err)
	assert.InDelta(t, sol.Energy, ground, 1e-8)

	ref, err := cs.ReducedReference(0)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, ref, "the surviving generator IZ with nu=+1 pins the qubit to |0>")
}

func TestContextualSubspaceVariationalBounds(t *testing.T) {
	// A contextual Hamiltonian: the square XI, IX, ZI, IZ is closed by the
	// light IX term; greedy search keeps the three heavy terms.
	h, err := pauli.NewOperatorReal(map[string]float64{
		"ZZ": 0.8, "ZI": 0.5, "XI": 0.3, "IX": 0.1,
	})
	require.NoError(t, err)

	cs, err := NewContextualSubspace(h)
	require.NoError(t, err)
	sol, err := cs.Solve(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, -math.Sqrt(1.78), sol.Energy, 1e-8,
		"the dropped IX term does not enter the classical objective")

	reduced, err := cs.ReducedHamiltonian(0)
	require.NoError(t, err)
	reducedGround, err := spectrum.GroundEnergy(reduced)
	require.NoError(t, err)
	fullGround, err := spectrum.GroundEnergy(h)
	require.NoError(t, err)

	assert.LessOrEqual(t, fullGround-1e-9, reducedGround,
		"projection cannot undershoot the true ground energy")
	assert.LessOrEqual(t, reducedGround, sol.Energy+1e-9,
		"restoring contextual terms cannot raise the energy above the classical estimate")
}

func TestContextualResector(t *testing.T) {
	cs, err := NewContextualSubspace(twoQubitModel(t))
	require.NoError(t, err)
	_, err = cs.Solve(context.Background())
	require.NoError(t, err)

	flipped, err := cs.Resector([]int{-1})
	require.NoError(t, err)

	energy, err := flipped.NoncontextualEnergy()
	require.NoError(t, err)
	// In the nu = -1 sector the objective reduces to -0.3*sin + 0.3*cos.
	assert.InDelta(t, -0.3*math.Sqrt2, energy, 1e-9)

	orig, err := cs.NoncontextualEnergy()
	require.NoError(t, err)
	assert.InDelta(t, -math.Sqrt(1.78), orig, 1e-8, "the original instance is untouched")

	_, err = cs.Resector([]int{0})
	assert.Error(t, err)
	_, err = cs.Resector([]int{1, 1})
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestContextualRunPersistence(t *testing.T) {
	store := memory.New()
	cs, err := NewContextualSubspace(twoQubitModel(t), WithRunStore(store, "model-a"))
	require.NoError(t, err)

	sol, err := cs.Solve(context.Background())
	require.NoError(t, err)

	require.NotNil(t, cs.LastRun())
	assert.Equal(t, []string{"q0"}, cs.LastRun().Space.Discrete)

	loaded, err := store.Load(context.Background(), "model-a")
	require.NoError(t, err)
	assert.InDelta(t, sol.Energy, loaded.Energy, 1e-12)
	assert.NotEmpty(t, loaded.Samples)
}

func TestContextualMetricsWiring(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.New(reg)

	cs, err := NewContextualSubspace(twoQubitModel(t), WithMetrics(metrics))
	require.NoError(t, err)
	_, err = cs.Solve(context.Background())
	require.NoError(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)
	found := false
	for _, f := range families {
		if f.GetName() == "quell_objective_evaluations_total" {
			found = true
			assert.Greater(t, f.GetMetric()[0].GetCounter().GetValue(), 0.0)
		}
	}
	assert.True(t, found)
}

func TestContextualNotSolved(t *testing.T) {
	cs, err := NewContextualSubspace(twoQubitModel(t))
	require.NoError(t, err)

	_, err = cs.ReducedHamiltonian()
	assert.ErrorIs(t, err, ErrNotSolved)
	_, err = cs.NoncontextualEnergy()
	assert.ErrorIs(t, err, ErrNotSolved)
	_, err = cs.Resector([]int{1})
	assert.ErrorIs(t, err, ErrNotSolved)
	assert.Nil(t, cs.LastRun())
}

func TestContextualRejectsForeignSetTerms(t *testing.T) {
	_, err := NewContextualSubspace(twoQubitModel(t),
		WithNoncontextualSet([]pauli.Term{"ZZ", "YY"}))
	assert.Error(t, err)
}

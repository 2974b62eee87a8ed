package spectrum

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quelllabs/quell/pkg/pauli"
)

func operator(t *testing.T, coeffs map[string]float64) pauli.Operator {
	t.Helper()
	op, err := pauli.NewOperatorReal(coeffs)
	require.NoError(t, err)
	return op
}

func TestEigenvaluesSingleQubit(t *testing.T) {
	for _, tc := range []struct {
		coeffs map[string]float64
		want   []float64
	}{
		{map[string]float64{"Z": 1}, []float64{-1, 1}},
		{map[string]float64{"X": 1}, []float64{-1, 1}},
		{map[string]float64{"Y": 0.5}, []float64{-0.5, 0.5}},
		{map[string]float64{"I": 2, "Z": 1}, []float64{1, 3}},
		{map[string]float64{"X": 3, "Z": 4}, []float64{-5, 5}},
	} {
		got, err := Eigenvalues(operator(t, tc.coeffs))
		require.NoError(t, err)
		require.Len(t, got, len(tc.want))
		for i := range tc.want {
			assert.InDelta(t, tc.want[i], got[i], 1e-10, "%v", tc.coeffs)
		}
	}
}

func TestGroundEnergyTwoQubit(t *testing.T) {
	// H = 0.8*ZZ + 0.3*XI + 0.5*ZI block-diagonalizes over the IZ eigenspaces
	// with ground energy -sqrt((0.8+0.5)^2 + 0.3^2).
	e, err := GroundEnergy(operator(t, map[string]float64{
		"ZZ": 0.8, "XI": 0.3, "ZI": 0.5,
	}))
	require.NoError(t, err)
	assert.InDelta(t, -math.Sqrt(1.78), e, 1e-10)
}

func TestGroundEnergyWithYTerms(t *testing.T) {
	// XX + YY + ZZ is the Heisenberg pair: spectrum {-3, 1, 1, 1}.
	vals, err := Eigenvalues(operator(t, map[string]float64{
		"XX": 1, "YY": 1, "ZZ": 1,
	}))
	require.NoError(t, err)
	assert.InDelta(t, -3, vals[0], 1e-10)
	for _, v := range vals[1:] {
		assert.InDelta(t, 1, v, 1e-10)
	}
}

func TestEigenvaluesTooLarge(t *testing.T) {
	label := strings.Repeat("Z", maxDenseQubits+1)
	_, err := Eigenvalues(operator(t, map[string]float64{label: 1}))
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestSimultaneousEigenstates(t *testing.T) {
	states, err := SimultaneousEigenstates(4,
		[]pauli.Term{"ZZII", "IIZZ"}, []int{1, 1})
	require.NoError(t, err)

	assert.Equal(t, [][]int{
		{0, 0, 0, 0},
		{0, 0, 1, 1},
		{1, 1, 0, 0},
		{1, 1, 1, 1},
	}, states, "states come out in ascending lexicographic order")
}

func TestSimultaneousEigenstatesMixedSector(t *testing.T) {
	states, err := SimultaneousEigenstates(2, []pauli.Term{"ZI", "IZ"}, []int{1, -1})
	require.NoError(t, err)
	assert.Equal(t, [][]int{{0, 1}}, states)
}

func TestSimultaneousEigenstatesErrors(t *testing.T) {
	_, err := SimultaneousEigenstates(2, []pauli.Term{"ZI"}, []int{1, -1})
	assert.ErrorIs(t, err, pauli.ErrShapeMismatch)

	_, err = SimultaneousEigenstates(2, []pauli.Term{"XI"}, []int{1})
	assert.ErrorIs(t, err, pauli.ErrNotBasisEigenstate)

	_, err = SimultaneousEigenstates(1, []pauli.Term{"Z", "Z"}, []int{1, -1})
	assert.ErrorIs(t, err, ErrEmptySector)
}

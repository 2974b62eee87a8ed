package projection

import (
	"math"
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

func assertRealCoeffs(t *testing.T, op pauli.Operator, want map[string]float64) {
	t.Helper()
	got, err := op.Cleanup(1e-12).RealMap(1e-12)
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for label, coeff := range want {
		assert.InDelta(t, coeff, got[label], 1e-12, "coefficient of %s", label)
	}
}

func TestApplyCliffordRotation(t *testing.T) {
	op := operator(t, map[string]float64{"ZZ": 1, "XX": 0.5})
	rot := Rotation{Generator: "YZ", Angle: math.Pi / 2, Clifford: true}

	out, err := Apply(op, []Rotation{rot})
	require.NoError(t, err)
	// ZZ anticommutes with YZ and maps to i*(YZ*ZZ) = -XI; XX commutes.
	assertRealCoeffs(t, out, map[string]float64{"XI": -1, "XX": 0.5})
}

func TestApplyContinuousRotationPreservesNorm(t *testing.T) {
	op := operator(t, map[string]float64{"ZI": 0.6})
	rot := Rotation{Generator: "YI", Angle: 0.7}

	out, err := Apply(op, []Rotation{rot})
	require.NoError(t, err)
	total := 0.0
	for _, term := range out.Terms() {
		c := real(out.Coeff(term))
		total += c * c
	}
	assert.InDelta(t, 0.36, total, 1e-12, "conjugation preserves the coefficient norm")
}

func TestProjectSingleStabilizer(t *testing.T) {
	h := operator(t, map[string]float64{"ZZ": 1, "XX": 0.5})

	for _, tc := range []struct {
		sector int
		want   map[string]float64
	}{
		// The ZZ=+1 block of H has spectrum {0.5, 1.5}, the -1 block {-1.5, -0.5}.
		{sector: 1, want: map[string]float64{"I": 1, "X": -0.5}},
		{sector: -1, want: map[string]float64{"I": -1, "X": 0.5}},
	} {
		p, err := New(2, []pauli.Term{"ZZ"}, []int{tc.sector}, 'X')
		require.NoError(t, err)
		assert.Equal(t, []int{1}, p.FreeQubits())

		out, err := p.Project(h)
		require.NoError(t, err)
		assertRealCoeffs(t, out, tc.want)
	}
}

func TestProjectAllTargetStabilizer(t *testing.T) {
	// XX needs two rotations: every factor already equals the target.
	h := operator(t, map[string]float64{"XX": 1, "ZZ": 0.5, "YY": 0.25})

	p, err := New(2, []pauli.Term{"XX"}, []int{1}, 'X')
	require.NoError(t, err)

	out, err := p.Project(h)
	require.NoError(t, err)
	// The XX=+1 sector of H has spectrum {0.75, 1.25}.
	assertRealCoeffs(t, out, map[string]float64{"I": 1, "Y": 0.25})
}

func TestProjectTwoStabilizers(t *testing.T) {
	h := operator(t, map[string]float64{
		"ZIII": 0.5, "IZII": 0.7, "IIZI": 0.9, "IIIZ": 1.1,
		"XXII": 0.3, "IIXX": 0.2,
	})

	p, err := New(4, []pauli.Term{"ZZII", "IIZZ"}, []int{1, 1}, 'X')
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, p.FreeQubits())

	out, err := p.Project(h)
	require.NoError(t, err)
	assertRealCoeffs(t, out, map[string]float64{
		"ZI": 1.2, "IZ": 2.0, "XI": -0.3, "IX": -0.2,
	})
}

func TestProjectWithPreRotation(t *testing.T) {
	// Noncontextual H = 0.8*ZZ + 0.3*XI + 0.5*ZI: the partitioning rotation
	// exp(i*t/2*YI) with t on the supplementary branch collapses the clique
	// operator onto ZI, and projecting the ZI stabilizer must reproduce the
	// noncontextual ground energy -sqrt(1.78) on the remaining qubit.
	h := operator(t, map[string]float64{"ZZ": 0.8, "XI": 0.3, "ZI": 0.5})
	pre := Rotation{Generator: "YI", Angle: math.Pi + math.Atan(0.3/1.3)}

	p, err := New(2, []pauli.Term{"ZI"}, []int{1}, 'Z', pre)
	require.NoError(t, err)

	out, err := p.Project(h)
	require.NoError(t, err)

	norm := math.Sqrt(1.78)
	assertRealCoeffs(t, out, map[string]float64{
		"I": -0.74 / norm,
		"Z": -1.04 / norm,
	})
	ground := real(out.Coeff("I")) - math.Abs(real(out.Coeff("Z")))
	assert.InDelta(t, -norm, ground, 1e-12)
}

func TestProjectShapeMismatch(t *testing.T) {
	p, err := New(2, []pauli.Term{"ZZ"}, []int{1}, 'X')
	require.NoError(t, err)

	_, err = p.Project(operator(t, map[string]float64{"ZZZ": 1}))
	assert.ErrorIs(t, err, pauli.ErrShapeMismatch)
}

func TestNewValidatesSector(t *testing.T) {
	_, err := New(2, []pauli.Term{"ZZ"}, []int{0}, 'X')
	assert.Error(t, err)

	_, err = New(2, []pauli.Term{"ZZ"}, []int{1, -1}, 'X')
	assert.ErrorIs(t, err, pauli.ErrShapeMismatch)
}

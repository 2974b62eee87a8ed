package pauli_test

import (
	"testing"

	"github.com/quelllabs/quell/pkg/pauli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTerm_Validation(t *testing.T) {
	t.Run("accepts IXYZ labels", func(t *testing.T) {
		term, err := pauli.NewTerm("IXYZ")
		require.NoError(t, err)
		assert.Equal(t, 4, term.NQubits())
	})

	t.Run("rejects empty label", func(t *testing.T) {
		_, err := pauli.NewTerm("")
		assert.ErrorIs(t, err, pauli.ErrInvalidLabel)
	})

	t.Run("rejects foreign symbols", func(t *testing.T) {
		_, err := pauli.NewTerm("IXQZ")
		assert.ErrorIs(t, err, pauli.ErrInvalidLabel)
	})
}

func TestMul_PhaseTable(t *testing.T) {
	cases := []struct {
		a, b  pauli.Term
		want  pauli.Term
		phase complex128
	}{
		{"X", "Y", "Z", 1i},
		{"Y", "X", "Z", -1i},
		{"Y", "Z", "X", 1i},
		{"Z", "Y", "X", -1i},
		{"Z", "X", "Y", 1i},
		{"X", "Z", "Y", -1i},
		{"X", "X", "I", 1},
		{"I", "Y", "Y", 1},
		{"XY", "YX", "ZZ", 1}, // i * -i
		{"XX", "YY", "ZZ", -1},
		{"XZ", "ZX", "YY", 1}, // -i * i
	}
	for _, tc := range cases {
		got, phase, err := pauli.Mul(tc.a, tc.b)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "%s * %s", tc.a, tc.b)
		assert.Equal(t, tc.phase, phase, "%s * %s phase", tc.a, tc.b)
	}
}

func TestMul_ShapeMismatch(t *testing.T) {
	_, _, err := pauli.Mul("XX", "X")
	assert.ErrorIs(t, err, pauli.ErrShapeMismatch)
}

func TestCommute(t *testing.T) {
	assert.True(t, pauli.Commute("XX", "YY"), "two anticommuting positions commute overall")
	assert.True(t, pauli.Commute("ZZII", "IIZZ"))
	assert.False(t, pauli.Commute("XIII", "ZIII"))
	assert.False(t, pauli.Commute("XXX", "ZZZ"), "three anticommuting positions")
	assert.True(t, pauli.Commute("IIII", "XYZX"), "identity commutes with everything")
}

func TestTerm_Counts(t *testing.T) {
	term := pauli.Term("IXYZY")
	assert.Equal(t, 4, term.Weight())
	assert.Equal(t, 3, term.XYCount())
	assert.False(t, term.IsIdentity())
	assert.True(t, pauli.Identity(5).IsIdentity())
}

func TestMeasureBasis(t *testing.T) {
	t.Run("Z-type eigenvalues", func(t *testing.T) {
		val, err := pauli.MeasureBasis("ZZII", []int{1, 0, 1, 1})
		require.NoError(t, err)
		assert.Equal(t, -1, val)

		val, err = pauli.MeasureBasis("ZZII", []int{1, 1, 0, 0})
		require.NoError(t, err)
		assert.Equal(t, 1, val)
	})

	t.Run("X support is not an eigenstate", func(t *testing.T) {
		_, err := pauli.MeasureBasis("XZII", []int{0, 0, 0, 0})
		assert.ErrorIs(t, err, pauli.ErrNotBasisEigenstate)
	})

	t.Run("length mismatch", func(t *testing.T) {
		_, err := pauli.MeasureBasis("ZZ", []int{0})
		assert.ErrorIs(t, err, pauli.ErrShapeMismatch)
	})
}

func TestIsNoncontextual(t *testing.T) {
	t.Run("commuting set", func(t *testing.T) {
		assert.True(t, pauli.IsNoncontextual([]pauli.Term{"ZZ", "ZI", "IZ"}))
	})

	t.Run("two cliques", func(t *testing.T) {
		// {ZZ, ZI} commute; XI anticommutes with both.
		assert.True(t, pauli.IsNoncontextual([]pauli.Term{"ZZ", "ZI", "XI"}))
	})

	t.Run("contextual set", func(t *testing.T) {
		// XI ~ IX and IX ~ ZI commute, but XI and ZI anticommute: not transitive.
		assert.False(t, pauli.IsNoncontextual([]pauli.Term{"XI", "IX", "ZI", "IZ"}))
	})
}

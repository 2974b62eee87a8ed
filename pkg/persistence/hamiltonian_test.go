package persistence

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quelllabs/quell/pkg/pauli"
)

func TestHamiltonianRoundTrip(t *testing.T) {
	op, err := pauli.NewOperatorReal(map[string]float64{"ZZ": 0.8, "XI": 0.3})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteHamiltonian(&buf, op, 1e-9))

	got, err := ReadHamiltonian(&buf)
	require.NoError(t, err)
	assert.Equal(t, op.Map(), got.Map())
}

func TestReadHamiltonianRejectsBadLabel(t *testing.T) {
	_, err := ReadHamiltonian(strings.NewReader("ZQ: 1.0\n"))
	assert.ErrorIs(t, err, pauli.ErrInvalidLabel)
}

func TestReadHamiltonianMalformedYAML(t *testing.T) {
	_, err := ReadHamiltonian(strings.NewReader("ZZ: [1,"))
	assert.Error(t, err)
}

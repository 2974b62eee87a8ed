package spectrum

import (
	"errors"
	"fmt"

	"github.com/quelllabs/quell/pkg/pauli"
)

// ErrEmptySector is returned when no basis state satisfies the requested
// stabilizer eigenvalues.
var ErrEmptySector = errors.New("no basis state lies in the requested sector")

// SimultaneousEigenstates lists every computational-basis state on which each
// Z-type stabilizer takes its assigned eigenvalue, as bit slices in ascending
// lexicographic order. Callers that need a deterministic representative take
// the first element.
func SimultaneousEigenstates(n int, stabilizers []pauli.Term, sector []int) ([][]int, error) {
	if len(stabilizers) != len(sector) {
		return nil, fmt.Errorf("%w: %d stabilizers, %d eigenvalues",
			pauli.ErrShapeMismatch, len(stabilizers), len(sector))
	}
	if n > maxDenseQubits {
		return nil, fmt.Errorf("%w: %d qubits, cap %d", ErrTooLarge, n, maxDenseQubits)
	}

	var out [][]int
	bits := make([]int, n)
	for idx := 0; idx < 1<<n; idx++ {
		for q := 0; q < n; q++ {
			bits[q] = (idx >> (n - 1 - q)) & 1
		}
		match := true
		for k, s := range stabilizers {
			val, err := pauli.MeasureBasis(s, bits)
			if err != nil {
				return nil, err
			}
			if val != sector[k] {
				match = false
				break
			}
		}
		if match {
			out = append(out, append([]int(nil), bits...))
		}
	}
	if len(out) == 0 {
		return nil, ErrEmptySector
	}
	return out, nil
}

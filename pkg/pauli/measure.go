package pauli

import (
	"errors"
	"fmt"
)

// ErrNotBasisEigenstate is returned when a term with X or Y support is measured
// against a computational-basis state. Such states are not eigenstates of the term,
// so no +/-1 outcome exists.
var ErrNotBasisEigenstate = errors.New("term is not diagonal in the computational basis")

// MeasureBasis returns the eigenvalue of a Z-type term on the computational-basis
// state described by bits (0/1 per qubit).
func MeasureBasis(t Term, bits []int) (int, error) {
	if len(bits) != t.NQubits() {
		return 0, fmt.Errorf("%w: state has %d bits, term has %d qubits",
			ErrShapeMismatch, len(bits), t.NQubits())
	}
	val := 1
	for i := 0; i < len(t); i++ {
		switch t[i] {
		case 'X', 'Y':
			return 0, fmt.Errorf("%w: %s", ErrNotBasisEigenstate, t)
		case 'Z':
			if bits[i] == 1 {
				val = -val
			}
		}
	}
	return val, nil
}

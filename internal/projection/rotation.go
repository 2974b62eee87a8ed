// Package projection rotates stabilizers onto single-qubit Paulis and projects
// operators into the stabilizer eigenspace, dropping the stabilized qubits.
package projection

import (
	"math"

	"github.com/quelllabs/quell/pkg/pauli"
)

// Rotation is the exponentiated Pauli exp(i*Angle/2 * Generator) acting by
// conjugation. Clifford marks the pi/2 case, where conjugation maps Pauli terms
// to Pauli terms without splitting.
type Rotation struct {
	Generator pauli.Term
	Angle     float64
	Clifford  bool
}

// Apply conjugates an operator by a sequence of rotations, first to last. Terms
// commuting with a rotation generator pass through; an anticommuting term T maps
// to cos(angle)*T + i*sin(angle)*(generator*T), which for a Clifford rotation is
// the single term i*(generator*T).
func Apply(op pauli.Operator, rotations []Rotation) (pauli.Operator, error) {
	coeffs := op.Map()
	for _, r := range rotations {
		next := make(map[pauli.Term]complex128, len(coeffs))
		for t, c := range coeffs {
			if pauli.Commute(r.Generator, t) {
				next[t] += c
				continue
			}
			prod, phase, err := pauli.Mul(r.Generator, t)
			if err != nil {
				return pauli.Operator{}, err
			}
			if r.Clifford {
				next[prod] += c * 1i * phase
				continue
			}
			next[t] += c * complex(math.Cos(r.Angle), 0)
			next[prod] += c * 1i * complex(math.Sin(r.Angle), 0) * phase
		}
		coeffs = next
	}
	return pauli.FromTerms(op.NQubits(), coeffs), nil
}

// applyToTerm conjugates a single signed Pauli term by Clifford rotations only.
// The running sign stays real because i*(generator*term) has a +/-1 coefficient
// whenever the two anticommute.
func applyToTerm(t pauli.Term, sign float64, rotations []Rotation) (pauli.Term, float64, error) {
	for _, r := range rotations {
		if pauli.Commute(r.Generator, t) {
			continue
		}
		prod, phase, err := pauli.Mul(r.Generator, t)
		if err != nil {
			return "", 0, err
		}
		t = prod
		sign *= real(1i * phase)
	}
	return t, sign, nil
}

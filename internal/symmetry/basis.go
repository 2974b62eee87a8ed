// Package symmetry extracts independent symmetry generators from Pauli term sets
// via exact GF(2) linear algebra on the symplectic representation.
package symmetry

import (
	"errors"
	"fmt"

	"github.com/quelllabs/quell/internal/gf2"
	"github.com/quelllabs/quell/pkg/pauli"
)

// ErrNotCommuting is returned when the extracted kernel basis fails the pairwise
// commutation invariant required of a generator set.
var ErrNotCommuting = errors.New("kernel basis is not mutually commuting")

// Basis is the result of a symmetry extraction. Generators is an ordered,
// GF(2)-independent, pairwise-commuting set of Pauli terms, each commuting with
// every input term. Reduced retains the row-echelon form of the input in (Z,X)
// block order for downstream clique analysis.
type Basis struct {
	NQubits    int
	Generators []pauli.Term
	Reduced    gf2.Matrix
}

// Extract computes an independent generating basis for the joint symmetry of a
// term collection. The symplectic rows are assembled with the Z block first:
// with that ordering, the right null space of the row-reduced matrix under the
// plain dot product is exactly the set of operators commuting with every input
// term, so Gaussian elimination plus kernel extraction does all the work.
func Extract(terms []pauli.Term) (Basis, error) {
	if len(terms) == 0 {
		return Basis{}, errors.New("no terms to extract symmetry from")
	}
	n := terms[0].NQubits()

	rows := make(gf2.Matrix, 0, len(terms))
	for _, t := range terms {
		if t.NQubits() != n {
			return Basis{}, fmt.Errorf("%w: term %s", pauli.ErrShapeMismatch, t)
		}
		rows = append(rows, swapBlocks(pauli.Encode(t), n))
	}

	reduced := gf2.RREF(rows)
	kernel := gf2.Kernel(reduced)

	generators := make([]pauli.Term, 0, len(kernel))
	for _, v := range kernel {
		// Kernel vectors pair the Z rows against their first half and the X rows
		// against their second half, which is exactly XZ block order: decode directly.
		g := pauli.Decode(pauli.SymplecticVector(v))
		if g.IsIdentity() {
			// Empty support stabilizes nothing; never emit it.
			continue
		}
		generators = append(generators, g)
	}

	for i := range generators {
		for j := i + 1; j < len(generators); j++ {
			if !pauli.Commute(generators[i], generators[j]) {
				return Basis{}, fmt.Errorf("%w: %s vs %s",
					ErrNotCommuting, generators[i], generators[j])
			}
		}
	}

	return Basis{NQubits: n, Generators: generators, Reduced: reduced}, nil
}

// DecodeReducedRow maps a row of Basis.Reduced (Z,X block order) back to a term.
func DecodeReducedRow(row []byte) pauli.Term {
	n := len(row) / 2
	return pauli.Decode(pauli.SymplecticVector(swapBlocks(pauli.SymplecticVector(row), n)))
}

// swapBlocks exchanges the two halves of a length-2n vector.
func swapBlocks(v pauli.SymplecticVector, n int) []byte {
	out := make([]byte, 2*n)
	copy(out[:n], v[n:])
	copy(out[n:], v[:n])
	return out
}

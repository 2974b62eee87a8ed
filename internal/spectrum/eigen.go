// Package spectrum computes exact reference spectra of small Pauli operators by
// dense diagonalization. It exists to validate reductions, not to scale: the
// qubit count is capped well below anything a reduction pipeline handles.
package spectrum

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/quelllabs/quell/pkg/pauli"
)

// maxDenseQubits bounds the 2^n x 2^n dense matrix build.
const maxDenseQubits = 10

// ErrTooLarge is returned when an operator exceeds the dense diagonalization cap.
var ErrTooLarge = errors.New("operator too large for dense diagonalization")

// Eigenvalues returns the sorted spectrum of a Hermitian operator. The complex
// matrix H = A + iB is diagonalized through its real symmetric embedding
// [[A, -B], [B, A]], whose spectrum is that of H with every value doubled.
func Eigenvalues(op pauli.Operator) ([]float64, error) {
	n := op.NQubits()
	if n > maxDenseQubits {
		return nil, fmt.Errorf("%w: %d qubits, cap %d", ErrTooLarge, n, maxDenseQubits)
	}
	if n == 0 {
		return []float64{real(op.Coeff(pauli.Identity(0)))}, nil
	}
	dim := 1 << n

	re := make([]float64, dim*dim)
	im := make([]float64, dim*dim)
	for _, t := range op.Terms() {
		c := op.Coeff(t)
		for col := 0; col < dim; col++ {
			row, amp := applyToBasis(t, col)
			re[row*dim+col] += real(c*amp)
			im[row*dim+col] += imag(c * amp)
		}
	}

	embed := mat.NewSymDense(2*dim, nil)
	for i := 0; i < dim; i++ {
		for j := i; j < dim; j++ {
			embed.SetSym(i, j, re[i*dim+j])
			embed.SetSym(dim+i, dim+j, re[i*dim+j])
		}
		// B is antisymmetric, so setting the upper-right block to -B mirrors
		// the lower-left block to B.
		for j := 0; j < dim; j++ {
			embed.SetSym(i, dim+j, -im[i*dim+j])
		}
	}

	var eig mat.EigenSym
	if !eig.Factorize(embed, false) {
		return nil, errors.New("eigendecomposition failed to converge")
	}
	doubled := eig.Values(nil)
	sort.Float64s(doubled)

	// Each eigenvalue of H appears twice in the embedding.
	out := make([]float64, dim)
	for i := range out {
		out[i] = doubled[2*i]
	}
	return out, nil
}

// GroundEnergy returns the smallest eigenvalue of a Hermitian operator.
func GroundEnergy(op pauli.Operator) (float64, error) {
	vals, err := Eigenvalues(op)
	if err != nil {
		return 0, err
	}
	return vals[0], nil
}

// applyToBasis applies a Pauli term to the basis state with index col and
// returns the resulting basis index and amplitude. Qubit 0 is the label's first
// character and the index's most significant bit.
func applyToBasis(t pauli.Term, col int) (int, complex128) {
	n := t.NQubits()
	row := col
	amp := complex128(1)
	for q := 0; q < n; q++ {
		bitpos := n - 1 - q
		bit := (col >> bitpos) & 1
		switch t[q] {
		case 'X':
			row ^= 1 << bitpos
		case 'Y':
			row ^= 1 << bitpos
			if bit == 0 {
				amp *= 1i
			} else {
				amp *= -1i
			}
		case 'Z':
			if bit == 1 {
				amp = -amp
			}
		}
	}
	return row, amp
}

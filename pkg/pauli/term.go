package pauli

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidLabel is returned when a Pauli label contains characters outside I, X, Y, Z
// or is empty.
var ErrInvalidLabel = errors.New("invalid pauli label")

// ErrShapeMismatch is returned when two terms (or a term and a state) disagree on qubit count.
var ErrShapeMismatch = errors.New("qubit count mismatch")

// Term is a tensor product of single-qubit Pauli operators, represented as a
// fixed-length label over the alphabet {I, X, Y, Z}. It is an immutable value type;
// equality and hashing follow the label.
type Term string

// NewTerm validates a label and returns it as a Term.
func NewTerm(label string) (Term, error) {
	if label == "" {
		return "", fmt.Errorf("%w: empty label", ErrInvalidLabel)
	}
	for i := 0; i < len(label); i++ {
		switch label[i] {
		case 'I', 'X', 'Y', 'Z':
		default:
			return "", fmt.Errorf("%w: %q at position %d", ErrInvalidLabel, label[i], i)
		}
	}
	return Term(label), nil
}

// Identity returns the n-qubit identity term.
func Identity(n int) Term {
	return Term(strings.Repeat("I", n))
}

// NQubits returns the number of qubits the term acts on.
func (t Term) NQubits() int { return len(t) }

// IsIdentity reports whether the term has empty support.
func (t Term) IsIdentity() bool {
	for i := 0; i < len(t); i++ {
		if t[i] != 'I' {
			return false
		}
	}
	return true
}

// Weight returns the number of non-identity factors.
func (t Term) Weight() int {
	w := 0
	for i := 0; i < len(t); i++ {
		if t[i] != 'I' {
			w++
		}
	}
	return w
}

// XYCount returns the number of X and Y factors. Unitary partitioning orders
// clique terms by this count.
func (t Term) XYCount() int {
	c := 0
	for i := 0; i < len(t); i++ {
		if t[i] == 'X' || t[i] == 'Y' {
			c++
		}
	}
	return c
}

// mulSingle multiplies two single-qubit Paulis, returning the resulting symbol
// and the accumulated phase (one of 1, i, -1, -i).
func mulSingle(a, b byte) (byte, complex128) {
	if a == 'I' {
		return b, 1
	}
	if b == 'I' {
		return a, 1
	}
	if a == b {
		return 'I', 1
	}
	// Cyclic products: XY=iZ, YZ=iX, ZX=iY; reversed order picks up -i.
	switch {
	case a == 'X' && b == 'Y':
		return 'Z', 1i
	case a == 'Y' && b == 'Z':
		return 'X', 1i
	case a == 'Z' && b == 'X':
		return 'Y', 1i
	case a == 'Y' && b == 'X':
		return 'Z', -1i
	case a == 'Z' && b == 'Y':
		return 'X', -1i
	default: // a == 'X' && b == 'Z'
		return 'Y', -1i
	}
}

// Mul multiplies two Pauli terms, tracking the global phase exactly.
// The returned coefficient is one of 1, i, -1, -i.
func Mul(a, b Term) (Term, complex128, error) {
	if len(a) != len(b) {
		return "", 0, fmt.Errorf("%w: %d vs %d", ErrShapeMismatch, len(a), len(b))
	}
	out := make([]byte, len(a))
	phase := complex128(1)
	for i := 0; i < len(a); i++ {
		s, p := mulSingle(a[i], b[i])
		out[i] = s
		phase *= p
	}
	return Term(out), phase, nil
}

// Commute reports whether two terms commute (mod phase). Two Pauli strings
// commute exactly when they anticommute on an even number of positions.
func Commute(a, b Term) bool {
	anti := 0
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != 'I' && b[i] != 'I' && a[i] != b[i] {
			anti++
		}
	}
	return anti%2 == 0
}

package pauli

import (
	"fmt"
	"math"
	"math/cmplx"
	"sort"
)

// Operator maps Pauli labels to (generally complex) coefficients. Every label has
// the same length, fixed at construction. Operators are functional values: the
// transformation methods return new Operators and never mutate the receiver.
type Operator struct {
	n      int
	coeffs map[Term]complex128
}

// NewOperator builds an Operator from a literal label->coefficient mapping.
// Labels are validated at this boundary; GF(2) and closure routines downstream
// assume well-formed input.
func NewOperator(terms map[string]complex128) (Operator, error) {
	if len(terms) == 0 {
		return Operator{}, fmt.Errorf("%w: operator has no terms", ErrInvalidLabel)
	}
	op := Operator{coeffs: make(map[Term]complex128, len(terms))}
	for label, coeff := range terms {
		t, err := NewTerm(label)
		if err != nil {
			return Operator{}, err
		}
		if op.n == 0 {
			op.n = t.NQubits()
		} else if t.NQubits() != op.n {
			return Operator{}, fmt.Errorf("%w: label %q has %d qubits, want %d",
				ErrShapeMismatch, label, t.NQubits(), op.n)
		}
		op.coeffs[t] = coeff
	}
	return op, nil
}

// NewOperatorReal builds an Operator from a real-valued coefficient mapping.
func NewOperatorReal(terms map[string]float64) (Operator, error) {
	c := make(map[string]complex128, len(terms))
	for label, coeff := range terms {
		c[label] = complex(coeff, 0)
	}
	return NewOperator(c)
}

// FromTerms builds an Operator from an already-validated term mapping.
// The map is copied.
func FromTerms(n int, coeffs map[Term]complex128) Operator {
	c := make(map[Term]complex128, len(coeffs))
	for t, v := range coeffs {
		c[t] = v
	}
	return Operator{n: n, coeffs: c}
}

// NQubits returns the qubit count shared by every term.
func (o Operator) NQubits() int { return o.n }

// Len returns the number of terms.
func (o Operator) Len() int { return len(o.coeffs) }

// Coeff returns the coefficient of a term, zero if absent.
func (o Operator) Coeff(t Term) complex128 { return o.coeffs[t] }

// Has reports whether the term appears with any coefficient.
func (o Operator) Has(t Term) bool {
	_, ok := o.coeffs[t]
	return ok
}

// Terms returns the labels in lexicographic order, so iteration is deterministic.
func (o Operator) Terms() []Term {
	out := make([]Term, 0, len(o.coeffs))
	for t := range o.coeffs {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Map returns a copy of the underlying label->coefficient mapping.
func (o Operator) Map() map[Term]complex128 {
	out := make(map[Term]complex128, len(o.coeffs))
	for t, c := range o.coeffs {
		out[t] = c
	}
	return out
}

// RealMap returns the coefficients as real numbers, discarding imaginary parts
// smaller than tol. Hermitian operators round-trip losslessly.
func (o Operator) RealMap(tol float64) (map[string]float64, error) {
	out := make(map[string]float64, len(o.coeffs))
	for t, c := range o.coeffs {
		if math.Abs(imag(c)) > tol {
			return nil, fmt.Errorf("term %s has imaginary coefficient %g", t, imag(c))
		}
		out[string(t)] = real(c)
	}
	return out, nil
}

// Restrict returns the Operator containing only the given labels (those present).
func (o Operator) Restrict(labels []Term) Operator {
	out := Operator{n: o.n, coeffs: make(map[Term]complex128, len(labels))}
	for _, t := range labels {
		if c, ok := o.coeffs[t]; ok {
			out.coeffs[t] = c
		}
	}
	return out
}

// Cleanup drops terms whose coefficient magnitude falls below threshold.
func (o Operator) Cleanup(threshold float64) Operator {
	out := Operator{n: o.n, coeffs: make(map[Term]complex128, len(o.coeffs))}
	for t, c := range o.coeffs {
		if cmplx.Abs(c) >= threshold {
			out.coeffs[t] = c
		}
	}
	return out
}

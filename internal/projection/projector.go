package projection

import (
	"errors"
	"fmt"
	"math"

	"github.com/quelllabs/quell/pkg/pauli"
)

// ErrUnrotatable is returned when no unused qubit can host a stabilizer's
// single-qubit image, which happens when stabilizers are dependent.
var ErrUnrotatable = errors.New("cannot rotate stabilizer onto an unused qubit")

// Projector maps an operator into the joint eigenspace of a stabilizer set.
// Construction derives one pivot qubit and a short Clifford sequence per
// stabilizer; projection then drops the pivot qubits, substituting the sector
// eigenvalue wherever a rotated term carries the target factor.
type Projector struct {
	nQubits   int
	target    byte
	pre       []Rotation
	cliffords []Rotation
	eigen     map[int]int
	free      []int
}

// New derives the stabilizer rotations. Stabilizers are given in the frame after
// the pre rotations have already acted (pre is applied to operators only, never
// to the stabilizers themselves). Each stabilizer k is assigned eigenvalue
// sector[k]; target is the single-qubit Pauli ('X' or 'Z') the stabilizers are
// rotated onto.
func New(n int, stabilizers []pauli.Term, sector []int, target byte, pre ...Rotation) (*Projector, error) {
	if len(stabilizers) != len(sector) {
		return nil, fmt.Errorf("%w: %d stabilizers, %d eigenvalues",
			pauli.ErrShapeMismatch, len(stabilizers), len(sector))
	}
	p := &Projector{
		nQubits: n,
		target:  target,
		pre:     append([]Rotation(nil), pre...),
		eigen:   make(map[int]int, len(stabilizers)),
	}

	used := make(map[int]bool, len(stabilizers))
	for k, s := range stabilizers {
		if s.NQubits() != n {
			return nil, fmt.Errorf("%w: stabilizer %s on %d qubits, want %d",
				pauli.ErrShapeMismatch, s, s.NQubits(), n)
		}
		if sector[k] != 1 && sector[k] != -1 {
			return nil, fmt.Errorf("eigenvalue for %s must be +1 or -1, got %d", s, sector[k])
		}

		t, sign, err := applyToTerm(s, 1, p.cliffords)
		if err != nil {
			return nil, err
		}

		pivot, err := p.rotateOntoPivot(t, &sign, used)
		if err != nil {
			return nil, fmt.Errorf("stabilizer %s: %w", s, err)
		}
		used[pivot] = true
		p.eigen[pivot] = sector[k] * int(sign)
	}

	for q := 0; q < n; q++ {
		if !used[q] {
			p.free = append(p.free, q)
		}
	}
	return p, nil
}

// rotateOntoPivot appends the Clifford rotations taking t to sign*target at a
// single unused qubit and returns that qubit.
func (p *Projector) rotateOntoPivot(t pauli.Term, sign *float64, used map[int]bool) (int, error) {
	if pivot, ok := singleTargetQubit(t, p.target); ok {
		if used[pivot] {
			return 0, fmt.Errorf("%w: qubit %d already consumed", ErrUnrotatable, pivot)
		}
		return pivot, nil
	}

	pivot := -1
	for q := 0; q < len(t); q++ {
		if t[q] != 'I' && t[q] != p.target && !used[q] {
			pivot = q
			break
		}
	}
	if pivot < 0 {
		// Every factor equals the target: spend one extra rotation turning the
		// first unused support qubit into a non-target factor.
		for q := 0; q < len(t); q++ {
			if t[q] == p.target && !used[q] {
				pivot = q
				break
			}
		}
		if pivot < 0 {
			return 0, ErrUnrotatable
		}
		t, *sign = p.addClifford(t, *sign, pivot, otherPauli(p.target, thirdPauli(p.target, 'I')))
	}

	t, *sign = p.addClifford(t, *sign, pivot, thirdPauli(t[pivot], p.target))
	if single, ok := singleTargetQubit(t, p.target); !ok || single != pivot {
		return 0, fmt.Errorf("%w: residual %s", ErrUnrotatable, t)
	}
	return pivot, nil
}

// addClifford appends the pi/2 rotation whose generator is t with the pivot
// factor replaced, applies it to (t, sign), and returns the image.
func (p *Projector) addClifford(t pauli.Term, sign float64, pivot int, factor byte) (pauli.Term, float64) {
	g := []byte(t)
	g[pivot] = factor
	rot := Rotation{Generator: pauli.Term(g), Angle: math.Pi / 2, Clifford: true}
	p.cliffords = append(p.cliffords, rot)

	out, outSign, err := applyToTerm(t, sign, []Rotation{rot})
	if err != nil {
		// Generator and t share a length by construction.
		panic(err)
	}
	return out, outSign
}

// Project rotates an operator into the stabilized frame and restricts it to the
// free qubits. Rotated terms carrying anything other than I or the target factor
// at a pivot qubit lie outside the eigenspace and are dropped; the target factor
// contributes its sector eigenvalue to the coefficient.
func (p *Projector) Project(op pauli.Operator) (pauli.Operator, error) {
	if op.NQubits() != p.nQubits {
		return pauli.Operator{}, fmt.Errorf("%w: operator on %d qubits, want %d",
			pauli.ErrShapeMismatch, op.NQubits(), p.nQubits)
	}
	rotated, err := Apply(op, p.Rotations())
	if err != nil {
		return pauli.Operator{}, err
	}

	out := make(map[pauli.Term]complex128, rotated.Len())
	reduced := make([]byte, len(p.free))
	for _, t := range rotated.Terms() {
		c := rotated.Coeff(t)
		keep := true
		for pivot, eigen := range p.eigen {
			switch t[pivot] {
			case 'I':
			case p.target:
				c *= complex(float64(eigen), 0)
			default:
				keep = false
			}
			if !keep {
				break
			}
		}
		if !keep {
			continue
		}
		for i, q := range p.free {
			reduced[i] = t[q]
		}
		out[pauli.Term(reduced)] += c
	}
	return pauli.FromTerms(len(p.free), out), nil
}

// Rotations returns the full rotation sequence, pre rotations first.
func (p *Projector) Rotations() []Rotation {
	out := make([]Rotation, 0, len(p.pre)+len(p.cliffords))
	out = append(out, p.pre...)
	return append(out, p.cliffords...)
}

// QubitEigenvalues returns the eigenvalue assigned to each pivot qubit, with
// rotation signs already folded in.
func (p *Projector) QubitEigenvalues() map[int]int {
	out := make(map[int]int, len(p.eigen))
	for q, v := range p.eigen {
		out[q] = v
	}
	return out
}

// FreeQubits returns the surviving qubit indices in ascending order.
func (p *Projector) FreeQubits() []int {
	return append([]int(nil), p.free...)
}

// singleTargetQubit reports whether t is exactly one target factor, and where.
func singleTargetQubit(t pauli.Term, target byte) (int, bool) {
	pivot := -1
	for q := 0; q < len(t); q++ {
		switch t[q] {
		case 'I':
		case target:
			if pivot >= 0 {
				return 0, false
			}
			pivot = q
		default:
			return 0, false
		}
	}
	return pivot, pivot >= 0
}

// thirdPauli returns the Pauli distinct from both arguments.
func thirdPauli(a, b byte) byte {
	for _, p := range []byte{'X', 'Y', 'Z'} {
		if p != a && p != b {
			return p
		}
	}
	return 'I'
}

// otherPauli returns the first of X, Z distinct from both arguments; it picks
// the replacement factor for the all-target stabilizer case.
func otherPauli(a, b byte) byte {
	for _, p := range []byte{'X', 'Z'} {
		if p != a && p != b {
			return p
		}
	}
	return 'Y'
}

package noncontextual

import (
	"errors"
	"fmt"
	"math"

	"github.com/quelllabs/quell/pkg/pauli"
)

// ErrTooManyCliques is returned when more than two clique representatives are
// present. The closed-form single-angle objective covers exactly the two-clique
// case; higher clique counts need a higher-dimensional unit-vector
// parametrization that is out of scope.
var ErrTooManyCliques = errors.New("objective supports at most two clique representatives")

// maxClosureGenerators caps the 2^m closure enumeration.
const maxClosureGenerators = 20

// ObjectiveTerm carries everything needed to evaluate one generator-closure
// element of the classical objective: the Hamiltonian coefficient of the element
// itself, the generator indices whose product yields it, and the coefficients of
// the element multiplied by each clique representative. Phases picked up during
// Pauli multiplication are folded into the coefficients, so the plain product of
// generator eigenvalues is always the correct expectation.
type ObjectiveTerm struct {
	Coeff   float64
	Indices []int
	Clique  [2]float64
}

// BuildObjective expands the multiplicative closure of the generator set over
// the Hamiltonian. Closure elements with no Hamiltonian support (direct or via a
// clique product) are discarded; labels absent from the Hamiltonian contribute
// coefficient zero. The ordered result is the sufficient statistic for
// evaluating the noncontextual energy at any eigenvalue assignment and angle.
func BuildObjective(h pauli.Operator, d Decomposition) ([]ObjectiveTerm, error) {
	m := len(d.Generators)
	if m > maxClosureGenerators {
		return nil, fmt.Errorf("closure of %d generators exceeds the %d-generator limit",
			m, maxClosureGenerators)
	}
	if len(d.Cliques) > 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooManyCliques, len(d.Cliques))
	}

	type element struct {
		label pauli.Term
		phase complex128
	}
	closure := make([]element, 1<<m)
	closure[0] = element{label: pauli.Identity(d.NQubits), phase: 1}
	for mask := 1; mask < 1<<m; mask++ {
		low := mask & (-mask)
		rest := closure[mask^low]
		idx := trailingBit(low)
		label, phase, err := pauli.Mul(rest.label, d.Generators[idx])
		if err != nil {
			return nil, err
		}
		closure[mask] = element{label: label, phase: rest.phase * phase}
	}

	var out []ObjectiveTerm
	// Nonempty subsets first, identity (empty index set) appended last, matching
	// the closure ordering the optimizer variables are named against.
	for mask := 1; mask <= 1<<m; mask++ {
		el := closure[mask%(1<<m)]
		phase := real(el.phase) // products of commuting Hermitian Paulis have phase +/-1

		term := ObjectiveTerm{Coeff: phase * real(h.Coeff(el.label))}
		for i := 0; i < m; i++ {
			if mask != 1<<m && mask&(1<<i) != 0 {
				term.Indices = append(term.Indices, i)
			}
		}

		for j, c := range d.Cliques {
			label, cliquePhase, err := pauli.Mul(el.label, c)
			if err != nil {
				return nil, err
			}
			term.Clique[j] = phase * real(cliquePhase) * real(h.Coeff(label))
		}

		if term.Coeff != 0 || term.Clique[0] != 0 || term.Clique[1] != 0 {
			out = append(out, term)
		}
	}
	return out, nil
}

// Energy evaluates the noncontextual objective at an eigenvalue assignment q
// (one +/-1 per generator) and clique angle theta:
//
//	energy(q, theta) = sum (h_G + sin(theta)*h_GC1 + cos(theta)*h_GC2) * prod q_i
//
// With a single clique the second coefficient is identically zero and theta
// degenerates to the sign of the clique contribution; with no cliques theta is
// ignored entirely.
func Energy(terms []ObjectiveTerm, q []int, theta float64) float64 {
	sin, cos := math.Sin(theta), math.Cos(theta)
	total := 0.0
	for _, t := range terms {
		prod := 1.0
		for _, i := range t.Indices {
			prod *= float64(q[i])
		}
		total += (t.Coeff + sin*t.Clique[0] + cos*t.Clique[1]) * prod
	}
	return total
}

// OptimalAngle minimizes the objective over theta for a fixed eigenvalue
// assignment. The angle dependence is A*sin(theta) + B*cos(theta), so the
// minimum is closed-form: -sqrt(A^2 + B^2) at atan2(-A, -B).
func OptimalAngle(terms []ObjectiveTerm, q []int) (float64, float64) {
	var base, a, b float64
	for _, t := range terms {
		prod := 1.0
		for _, i := range t.Indices {
			prod *= float64(q[i])
		}
		base += t.Coeff * prod
		a += t.Clique[0] * prod
		b += t.Clique[1] * prod
	}
	if a == 0 && b == 0 {
		return 0, base
	}
	theta := math.Atan2(-a, -b)
	return theta, base - math.Hypot(a, b)
}

func trailingBit(v int) int {
	n := 0
	for v > 1 {
		v >>= 1
		n++
	}
	return n
}

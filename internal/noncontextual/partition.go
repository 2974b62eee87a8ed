package noncontextual

import (
	"errors"
	"fmt"
	"math"

	"github.com/quelllabs/quell/pkg/pauli"
)

// ErrDegenerateClique is returned when a clique weight underflows to zero, which
// leaves the partitioning rotation undefined.
var ErrDegenerateClique = errors.New("degenerate clique: zero weight component")

// CliqueRotation is a single exponentiated-Pauli rotation exp(i*Angle/2 *
// Generator) that maps the weighted two-clique operator onto +Target.
type CliqueRotation struct {
	Generator pauli.Term
	Angle     float64
	Target    pauli.Term
}

// PartitioningRotation derives the unitary-partitioning rotation collapsing
// r[0]*cliques[0] + r[1]*cliques[1] onto the single representative of lower
// XY weight. r must be a unit vector with both components nonzero.
func PartitioningRotation(cliques []pauli.Term, r [2]float64) (CliqueRotation, error) {
	if len(cliques) != 2 {
		return CliqueRotation{}, fmt.Errorf("partitioning rotation needs exactly two cliques, got %d", len(cliques))
	}

	// The lower-XY-weight representative becomes the collapse target; keeping
	// it Z-heavy keeps the downstream stabilizer rotations short.
	a, b := r[0], r[1]
	first, second := cliques[0], cliques[1]
	if second.XYCount() < first.XYCount() {
		first, second = second, first
		a, b = b, a
	}
	if a == 0 || b == 0 {
		return CliqueRotation{}, fmt.Errorf("%w: weights (%g, %g)", ErrDegenerateClique, a, b)
	}

	q, c, err := pauli.Mul(first, second)
	if err != nil {
		return CliqueRotation{}, err
	}
	// Anticommuting Hermitian Paulis multiply to +/-i times a Hermitian Pauli.
	sign := real(1i * c)
	t := sign * math.Atan(-b/a)
	if math.Abs(a+math.Cos(t)) < 1e-15 {
		t += math.Pi
	}

	return CliqueRotation{Generator: q, Angle: t, Target: first}, nil
}

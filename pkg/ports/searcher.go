package ports

import (
	"context"
	"time"

	"github.com/quelllabs/quell/pkg/pauli"
)

// SetSearcher finds a noncontextual subset of a Hamiltonian's terms. The search
// is heuristic and bounded by a time budget; the returned candidate set is
// treated as opaque by the core (it is re-validated structurally by the
// decomposer). Criterion is term weight: searchers should prefer keeping the
// terms of largest coefficient magnitude.
type SetSearcher interface {
	FindNoncontextualSet(ctx context.Context, h pauli.Operator, budget time.Duration) ([]pauli.Term, error)
}

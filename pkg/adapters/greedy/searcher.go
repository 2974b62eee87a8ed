// Package greedy provides the reference SetSearcher: terms are considered in
// descending coefficient magnitude and kept whenever the running set stays
// noncontextual.
package greedy

import (
	"context"
	"math/cmplx"
	"sort"
	"time"

	"github.com/quelllabs/quell/pkg/pauli"
	"github.com/quelllabs/quell/pkg/ports"
)

// Searcher implements ports.SetSearcher.
type Searcher struct{}

var _ ports.SetSearcher = (*Searcher)(nil)

// New creates the greedy searcher.
func New() *Searcher { return &Searcher{} }

// FindNoncontextualSet grows a noncontextual subset greedily. A zero budget
// means no time limit; when the budget runs out the set grown so far is
// returned rather than an error, since any noncontextual subset is usable.
func (s *Searcher) FindNoncontextualSet(ctx context.Context, h pauli.Operator, budget time.Duration) ([]pauli.Term, error) {
	terms := h.Terms()
	sort.SliceStable(terms, func(i, j int) bool {
		wi, wj := cmplx.Abs(h.Coeff(terms[i])), cmplx.Abs(h.Coeff(terms[j]))
		if wi != wj {
			return wi > wj
		}
		return terms[i] < terms[j]
	})

	deadline := time.Time{}
	if budget > 0 {
		deadline = time.Now().Add(budget)
	}

	var set []pauli.Term
	for _, t := range terms {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			break
		}
		candidate := append(set, t)
		if pauli.IsNoncontextual(candidate) {
			set = candidate
		}
	}
	return set, nil
}

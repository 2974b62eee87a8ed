// Package noncontextual decomposes a noncontextual Hamiltonian term set into
// commuting symmetry generators plus anticommuting clique representatives, builds
// the classical objective function for the noncontextual ground state, and derives
// the unitary-partitioning rotation collapsing the clique operator.
package noncontextual

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"github.com/quelllabs/quell/internal/symmetry"
	"github.com/quelllabs/quell/pkg/pauli"
)

// ErrInvalidDecomposition is returned when the clique/generator invariants fail,
// which means the supplied term set was not noncontextual.
var ErrInvalidDecomposition = errors.New("term set does not decompose noncontextually")

// Decomposition is the noncontextual structure of a term set: an ordered,
// independent, mutually commuting Generator family and one representative per
// anticommuting clique. Index order of Generators fixes the eigenvalue and
// variable ordering everywhere downstream.
type Decomposition struct {
	NQubits    int
	Generators []pauli.Term
	Cliques    []pauli.Term
}

// Decompose extracts generators and clique representatives from a noncontextual
// term set. The generators come from the symmetry kernel; the reduced rows that
// fall outside the kernel are the anticommuting candidates, and candidates with
// identical anticommutation patterns belong to the same clique, so only one
// representative each survives.
func Decompose(set []pauli.Term) (Decomposition, error) {
	basis, err := symmetry.Extract(set)
	if err != nil {
		return Decomposition{}, err
	}

	// Kernel rows, re-encoded for row comparison against the reduced matrix.
	kernelRows := make(map[string]struct{}, len(basis.Generators))
	for _, g := range basis.Generators {
		kernelRows[string(pauli.Encode(g))] = struct{}{}
	}

	var candidates []pauli.Term
	for _, row := range basis.Reduced {
		t := symmetry.DecodeReducedRow(row)
		if _, inKernel := kernelRows[string(pauli.Encode(t))]; inKernel {
			continue
		}
		candidates = append(candidates, t)
	}

	cliques := dedupeCliques(candidates)

	for _, c := range cliques {
		for _, g := range basis.Generators {
			if !pauli.Commute(c, g) {
				return Decomposition{}, fmt.Errorf("%w: clique %s anticommutes with generator %s",
					ErrInvalidDecomposition, c, g)
			}
		}
	}
	for i := range cliques {
		for j := i + 1; j < len(cliques); j++ {
			if pauli.Commute(cliques[i], cliques[j]) {
				return Decomposition{}, fmt.Errorf("%w: representatives %s and %s commute",
					ErrInvalidDecomposition, cliques[i], cliques[j])
			}
		}
	}

	return Decomposition{
		NQubits:    basis.NQubits,
		Generators: basis.Generators,
		Cliques:    cliques,
	}, nil
}

// dedupeCliques keeps one representative per group of candidates sharing an
// anticommutation-pattern row. Rows are sorted lexicographically; a candidate is
// a duplicate exactly when its row differs from the previous sorted row by zero.
func dedupeCliques(candidates []pauli.Term) []pauli.Term {
	if len(candidates) < 2 {
		return candidates
	}
	adj := pauli.AdjacencyMatrix(candidates)

	order := make([]int, len(candidates))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return bytes.Compare(adj[order[a]], adj[order[b]]) < 0
	})

	var kept []pauli.Term
	for pos, idx := range order {
		if pos > 0 && bytes.Equal(adj[idx], adj[order[pos-1]]) {
			continue
		}
		kept = append(kept, candidates[idx])
	}
	return kept
}

package quell

import (
	"errors"

	"github.com/quelllabs/quell/internal/noncontextual"
	"github.com/quelllabs/quell/pkg/pauli"
	"github.com/quelllabs/quell/pkg/ports"
)

// Sentinel errors callers match on with errors.Is. Most originate in the
// packages that own the failing operation and are re-exported here so library
// consumers only need this package.
var (
	// ErrShapeMismatch reports operands disagreeing on qubit count.
	ErrShapeMismatch = pauli.ErrShapeMismatch

	// ErrInvalidLabel reports a Pauli label outside the IXYZ alphabet.
	ErrInvalidLabel = pauli.ErrInvalidLabel

	// ErrDegenerateClique reports a clique weight of exactly zero, leaving the
	// partitioning rotation undefined.
	ErrDegenerateClique = noncontextual.ErrDegenerateClique

	// ErrOptimizerFailure wraps optimizer errors, empty sample sets included.
	ErrOptimizerFailure = noncontextual.ErrOptimizerFailure

	// ErrNotNoncontextual reports a term set that does not decompose into
	// commuting generators plus anticommuting cliques.
	ErrNotNoncontextual = noncontextual.ErrInvalidDecomposition

	// ErrTooManyCliques reports more than two clique representatives.
	ErrTooManyCliques = noncontextual.ErrTooManyCliques

	// ErrNoSamples reports an optimizer run that evaluated nothing.
	ErrNoSamples = ports.ErrNoSamples

	// ErrAmbiguousSector reports a sector that cannot be measured from the
	// reference state because a symmetry generator has X or Y support. Explore
	// sectors explicitly instead.
	ErrAmbiguousSector = errors.New("sector is not measurable from the reference state")

	// ErrNotSolved reports access to solution-dependent state before Solve.
	ErrNotSolved = errors.New("contextual subspace has not been solved yet")
)

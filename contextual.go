package quell

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/quelllabs/quell/internal/logging"
	"github.com/quelllabs/quell/internal/noncontextual"
	"github.com/quelllabs/quell/internal/projection"
	"github.com/quelllabs/quell/internal/spectrum"
	"github.com/quelllabs/quell/pkg/adapters/exhaustive"
	"github.com/quelllabs/quell/pkg/adapters/greedy"
	"github.com/quelllabs/quell/pkg/observability"
	"github.com/quelllabs/quell/pkg/pauli"
	"github.com/quelllabs/quell/pkg/ports"
)

// ContextualSubspace reduces a Hamiltonian by projecting onto stabilizers of
// the noncontextual ground state of a noncontextual sub-Hamiltonian. The
// workflow is Solve first, then ReducedHamiltonian over a chosen stabilizer
// subset. Instances are immutable once solved; Resector returns a new one.
type ContextualSubspace struct {
	h         pauli.Operator
	set       []pauli.Term
	searcher  ports.SetSearcher
	budget    time.Duration
	optimizer ports.Optimizer
	target    byte
	logger    *slog.Logger
	metrics   *observability.Metrics
	store     ports.RunStore
	runID     string

	decomp   noncontextual.Decomposition
	objTerms []noncontextual.ObjectiveTerm
	sol      *noncontextual.Solution
	rotation *noncontextual.CliqueRotation
	lastRun  *ports.Run
}

// ContextualOption configures a ContextualSubspace.
type ContextualOption func(*ContextualSubspace)

// WithNoncontextualSet pins the noncontextual sub-Hamiltonian term set instead
// of searching for one.
func WithNoncontextualSet(set []pauli.Term) ContextualOption {
	return func(c *ContextualSubspace) {
		c.set = append([]pauli.Term(nil), set...)
	}
}

// WithSetSearcher injects the noncontextual-set search strategy.
func WithSetSearcher(s ports.SetSearcher) ContextualOption {
	return func(c *ContextualSubspace) {
		c.searcher = s
	}
}

// WithSearchBudget bounds the set search. Zero means unbounded.
func WithSearchBudget(d time.Duration) ContextualOption {
	return func(c *ContextualSubspace) {
		c.budget = d
	}
}

// WithOptimizer injects the classical objective optimizer.
func WithOptimizer(o ports.Optimizer) ContextualOption {
	return func(c *ContextualSubspace) {
		c.optimizer = o
	}
}

// WithTargetPauli sets the single-qubit Pauli stabilizers are rotated onto.
func WithTargetPauli(target byte) ContextualOption {
	return func(c *ContextualSubspace) {
		c.target = target
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) ContextualOption {
	return func(c *ContextualSubspace) {
		c.logger = logger
	}
}

// WithMetrics attaches Prometheus instrumentation.
func WithMetrics(m *observability.Metrics) ContextualOption {
	return func(c *ContextualSubspace) {
		c.metrics = m
	}
}

// WithRunStore persists each solved run under the given ID.
func WithRunStore(store ports.RunStore, id string) ContextualOption {
	return func(c *ContextualSubspace) {
		c.store = store
		c.runID = id
	}
}

// NewContextualSubspace prepares a reduction of h. Defaults: greedy set search,
// exhaustive reference optimizer, stabilizers rotated onto Z.
func NewContextualSubspace(h pauli.Operator, opts ...ContextualOption) (*ContextualSubspace, error) {
	c := &ContextualSubspace{
		h:         h,
		searcher:  greedy.New(),
		optimizer: exhaustive.New(),
		target:    'Z',
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	switch c.target {
	case 'X', 'Y', 'Z':
	default:
		return nil, fmt.Errorf("%w: target %q", ErrInvalidLabel, c.target)
	}
	for _, t := range c.set {
		if !h.Has(t) {
			return nil, fmt.Errorf("noncontextual set term %s is not in the Hamiltonian", t)
		}
	}
	return c, nil
}

// ContextualSolution is the outcome of the classical stage: the noncontextual
// ground energy, generator eigenvalues Nu, clique weights R at angle Theta, and
// the combined stabilizer list (collapsed clique operator first when cliques
// exist, then the generators in index order).
type ContextualSolution struct {
	Energy      float64
	Nu          []int
	Theta       float64
	R           [2]float64
	Stabilizers []pauli.Term
}

// Solve finds the noncontextual sub-Hamiltonian (unless pinned), decomposes it,
// and minimizes the classical objective with the injected optimizer.
func (c *ContextualSubspace) Solve(ctx context.Context) (ContextualSolution, error) {
	set := c.set
	if set == nil {
		found, err := c.searcher.FindNoncontextualSet(ctx, c.h, c.budget)
		if err != nil {
			return ContextualSolution{}, fmt.Errorf("noncontextual set search: %w", err)
		}
		set = found
	}
	if len(set) == 0 {
		return ContextualSolution{}, fmt.Errorf("%w: empty noncontextual set", ErrNotNoncontextual)
	}
	c.logger.Debug("noncontextual set fixed", "terms", len(set), "of", c.h.Len())

	decomp, err := noncontextual.Decompose(set)
	if err != nil {
		return ContextualSolution{}, err
	}

	objTerms, err := noncontextual.BuildObjective(c.h.Restrict(set), decomp)
	if err != nil {
		return ContextualSolution{}, err
	}

	start := time.Now()
	sol, err := noncontextual.Solve(ctx, objTerms, len(decomp.Generators),
		countingOptimizer{inner: c.optimizer, metrics: c.metrics})
	c.metrics.ObserveOptimizer(time.Since(start))
	if err != nil {
		return ContextualSolution{}, err
	}

	c.set = set
	c.decomp = decomp
	c.objTerms = objTerms
	c.sol = &sol
	c.rotation = nil
	if len(decomp.Cliques) == 2 {
		rot, err := noncontextual.PartitioningRotation(decomp.Cliques, sol.R)
		if err != nil {
			return ContextualSolution{}, err
		}
		c.rotation = &rot
	}
	c.logger.Info("noncontextual ground state found",
		"energy", sol.Energy, "generators", len(decomp.Generators), "cliques", len(decomp.Cliques))

	c.lastRun = &ports.Run{
		Space:     noncontextual.Space(len(decomp.Generators)),
		Samples:   sol.Samples,
		Energy:    sol.Energy,
		CreatedAt: time.Now().UTC(),
	}
	if c.store != nil {
		if err := c.store.Save(ctx, c.runID, c.lastRun); err != nil {
			return ContextualSolution{}, fmt.Errorf("failed to persist run: %w", err)
		}
	}
	return c.solution()
}

func (c *ContextualSubspace) solution() (ContextualSolution, error) {
	stabs, _, err := c.stabilizers()
	if err != nil {
		return ContextualSolution{}, err
	}
	return ContextualSolution{
		Energy:      c.sol.Energy,
		Nu:          append([]int(nil), c.sol.Nu...),
		Theta:       c.sol.Theta,
		R:           c.sol.R,
		Stabilizers: stabs,
	}, nil
}

// stabilizers returns the combined stabilizer list and eigenvalues. Index 0 is
// the collapsed clique operator when cliques exist.
func (c *ContextualSubspace) stabilizers() ([]pauli.Term, []int, error) {
	if c.sol == nil {
		return nil, nil, ErrNotSolved
	}
	var stabs []pauli.Term
	var sector []int
	switch len(c.decomp.Cliques) {
	case 0:
	case 1:
		// One clique: r degenerates to sin(theta) = +/-1 and the representative
		// itself is the stabilizer.
		sign := c.sol.R[0]
		if math.Abs(sign) < 1e-9 {
			return nil, nil, fmt.Errorf("%w: clique weight %g", ErrDegenerateClique, sign)
		}
		eigen := 1
		if sign < 0 {
			eigen = -1
		}
		stabs = append(stabs, c.decomp.Cliques[0])
		sector = append(sector, eigen)
	case 2:
		// The partitioning rotation collapses the clique operator onto +Target.
		stabs = append(stabs, c.rotation.Target)
		sector = append(sector, 1)
	}
	stabs = append(stabs, c.decomp.Generators...)
	sector = append(sector, c.sol.Nu...)
	return stabs, sector, nil
}

// NoncontextualEnergy returns the solved classical ground energy.
func (c *ContextualSubspace) NoncontextualEnergy() (float64, error) {
	if c.sol == nil {
		return 0, ErrNotSolved
	}
	return c.sol.Energy, nil
}

// LastRun returns the persisted-run record of the latest Solve, nil before.
func (c *ContextualSubspace) LastRun() *ports.Run {
	return c.lastRun
}

// ReducedHamiltonian projects the Hamiltonian onto the stabilizers at the given
// combined indices (all of them when none are given), removing one qubit per
// stabilizer.
func (c *ContextualSubspace) ReducedHamiltonian(indices ...int) (pauli.Operator, error) {
	return c.ReducedOperator(c.h, indices...)
}

// ReducedOperator projects an arbitrary operator with the same stabilizers and
// rotations. The unitary-partitioning rotation is applied exactly when index 0
// (the collapsed clique operator) is among the projected stabilizers.
func (c *ContextualSubspace) ReducedOperator(op pauli.Operator, indices ...int) (pauli.Operator, error) {
	p, err := c.projector(indices)
	if err != nil {
		return pauli.Operator{}, err
	}
	out, err := p.Project(op)
	if err != nil {
		return pauli.Operator{}, err
	}
	c.metrics.ObserveReduction(op.NQubits() - len(p.FreeQubits()))
	return out.Cleanup(cleanupThreshold), nil
}

// ReducedReference derives a computational-basis reference state on the
// surviving qubits from the stabilizers that were NOT projected: each one is
// pushed through the projection and, when it lands on a Z-type operator,
// constrains the basis state. Ambiguities resolve to the lexicographically
// smallest bitstring and are logged.
func (c *ContextualSubspace) ReducedReference(indices ...int) ([]int, error) {
	p, err := c.projector(indices)
	if err != nil {
		return nil, err
	}
	stabs, sector, err := c.stabilizers()
	if err != nil {
		return nil, err
	}

	selected := make(map[int]bool, len(indices))
	for _, i := range c.normalizeIndices(indices, len(stabs)) {
		selected[i] = true
	}

	var constraints []pauli.Term
	var values []int
	for k := range stabs {
		if selected[k] {
			continue
		}
		single, err := pauli.NewOperator(map[string]complex128{string(stabs[k]): 1})
		if err != nil {
			return nil, err
		}
		reduced, err := p.Project(single)
		if err != nil {
			return nil, err
		}
		reduced = reduced.Cleanup(cleanupThreshold)

		terms := reduced.Terms()
		if len(terms) != 1 {
			c.logger.Warn("stabilizer does not survive projection as a single term",
				"stabilizer", string(stabs[k]))
			continue
		}
		coeff := real(reduced.Coeff(terms[0]))
		if math.Abs(math.Abs(coeff)-1) > 1e-9 {
			c.logger.Warn("stabilizer lost weight under projection",
				"stabilizer", string(stabs[k]), "coefficient", coeff)
			continue
		}
		if terms[0].XYCount() > 0 {
			c.logger.Warn("stabilizer is not Z-type after projection, cannot constrain basis state",
				"stabilizer", string(stabs[k]), "image", string(terms[0]))
			continue
		}
		eigen := sector[k]
		if coeff < 0 {
			eigen = -eigen
		}
		constraints = append(constraints, terms[0])
		values = append(values, eigen)
	}

	nFree := len(p.FreeQubits())
	states, err := spectrum.SimultaneousEigenstates(nFree, constraints, values)
	if err != nil {
		return nil, err
	}
	if len(states) > 1 {
		c.logger.Warn("reference state is ambiguous, taking the lexicographically smallest",
			"candidates", len(states), "chosen", states[0])
	}
	return states[0], nil
}

// Resector returns a new instance pinned to a different generator eigenvalue
// assignment. The angle is re-optimized in closed form; the receiver is not
// modified.
func (c *ContextualSubspace) Resector(nu []int) (*ContextualSubspace, error) {
	if c.sol == nil {
		return nil, ErrNotSolved
	}
	if len(nu) != len(c.decomp.Generators) {
		return nil, fmt.Errorf("%w: assignment has %d values, %d generators",
			ErrShapeMismatch, len(nu), len(c.decomp.Generators))
	}
	for i, v := range nu {
		if v != 1 && v != -1 {
			return nil, fmt.Errorf("eigenvalue at index %d must be +1 or -1, got %d", i, v)
		}
	}

	theta, energy := noncontextual.OptimalAngle(c.objTerms, nu)
	clone := *c
	clone.sol = &noncontextual.Solution{
		Energy: energy,
		Nu:     append([]int(nil), nu...),
		Theta:  theta,
		R:      [2]float64{math.Sin(theta), math.Cos(theta)},
	}
	clone.rotation = nil
	clone.lastRun = nil
	if len(c.decomp.Cliques) == 2 {
		rot, err := noncontextual.PartitioningRotation(c.decomp.Cliques, clone.sol.R)
		if err != nil {
			return nil, err
		}
		clone.rotation = &rot
	}
	return &clone, nil
}

// Solution returns the solved classical stage summary.
func (c *ContextualSubspace) Solution() (ContextualSolution, error) {
	if c.sol == nil {
		return ContextualSolution{}, ErrNotSolved
	}
	return c.solution()
}

func (c *ContextualSubspace) projector(indices []int) (*projection.Projector, error) {
	stabs, sector, err := c.stabilizers()
	if err != nil {
		return nil, err
	}
	idx := c.normalizeIndices(indices, len(stabs))
	seen := make(map[int]bool, len(idx))
	var selStabs []pauli.Term
	var selSector []int
	var pre []projection.Rotation
	for _, i := range idx {
		if i < 0 || i >= len(stabs) {
			return nil, fmt.Errorf("stabilizer index %d out of range [0, %d)", i, len(stabs))
		}
		if seen[i] {
			return nil, fmt.Errorf("stabilizer index %d given twice", i)
		}
		seen[i] = true
		selStabs = append(selStabs, stabs[i])
		selSector = append(selSector, sector[i])
		if i == 0 && c.rotation != nil {
			pre = append(pre, projection.Rotation{
				Generator: c.rotation.Generator,
				Angle:     c.rotation.Angle,
			})
		}
	}
	return projection.New(c.h.NQubits(), selStabs, selSector, c.target, pre...)
}

// normalizeIndices treats an empty index list as "all stabilizers".
func (c *ContextualSubspace) normalizeIndices(indices []int, n int) []int {
	if len(indices) > 0 {
		return indices
	}
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// countingOptimizer reports each objective evaluation to the metrics.
type countingOptimizer struct {
	inner   ports.Optimizer
	metrics *observability.Metrics
}

func (c countingOptimizer) Minimize(ctx context.Context, space ports.SearchSpace, objective ports.Objective) ([]ports.Sample, error) {
	wrapped := func(a ports.Assignment) float64 {
		c.metrics.ObserveEvaluation()
		return objective(a)
	}
	return c.inner.Minimize(ctx, space, wrapped)
}

package quell

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/quelllabs/quell/internal/logging"
	"github.com/quelllabs/quell/internal/projection"
	"github.com/quelllabs/quell/internal/spectrum"
	"github.com/quelllabs/quell/internal/symmetry"
	"github.com/quelllabs/quell/pkg/observability"
	"github.com/quelllabs/quell/pkg/pauli"
)

// cleanupThreshold drops numerically dead terms after projection.
const cleanupThreshold = 1e-12

// Tapering removes qubits stabilized by the exact Z2 symmetries of a
// Hamiltonian. Instances are immutable after construction: re-sectoring
// produces a new instance.
type Tapering struct {
	h          pauli.Operator
	ref        []int
	generators []pauli.Term
	sector     []int
	target     byte
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// TaperingOption configures a Tapering instance.
type TaperingOption func(*Tapering)

// WithTaperingLogger sets the structured logger.
func WithTaperingLogger(logger *slog.Logger) TaperingOption {
	return func(t *Tapering) {
		t.logger = logger
	}
}

// WithTaperingMetrics attaches Prometheus instrumentation.
func WithTaperingMetrics(m *observability.Metrics) TaperingOption {
	return func(t *Tapering) {
		t.metrics = m
	}
}

// WithSector overrides the sector instead of measuring it from the reference.
func WithSector(sector []int) TaperingOption {
	return func(t *Tapering) {
		t.sector = append([]int(nil), sector...)
	}
}

// NewTapering extracts the symmetry generators of h. The reference state ref
// (one 0/1 per qubit) fixes the default sector; pass nil to rely on WithSector
// or SearchAllSectors.
func NewTapering(h pauli.Operator, ref []int, opts ...TaperingOption) (*Tapering, error) {
	if ref != nil && len(ref) != h.NQubits() {
		return nil, fmt.Errorf("%w: reference has %d bits, operator has %d qubits",
			ErrShapeMismatch, len(ref), h.NQubits())
	}

	basis, err := symmetry.Extract(h.Terms())
	if err != nil {
		return nil, err
	}

	t := &Tapering{
		h:          h,
		ref:        append([]int(nil), ref...),
		generators: basis.Generators,
		target:     'X',
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.sector != nil {
		if err := t.validateSector(t.sector); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Generators returns the independent commuting symmetry generators, in the
// order sectors are indexed by.
func (t *Tapering) Generators() []pauli.Term {
	return append([]pauli.Term(nil), t.generators...)
}

// Sector returns the stabilizer eigenvalues defining the projected subspace.
// Without an override it is measured from the reference state, which requires
// every generator to be Z-type; otherwise ErrAmbiguousSector is returned and
// the sector must be chosen explicitly.
func (t *Tapering) Sector() ([]int, error) {
	if t.sector != nil {
		return append([]int(nil), t.sector...), nil
	}
	if t.ref == nil {
		return nil, fmt.Errorf("%w: no reference state given", ErrAmbiguousSector)
	}
	sector := make([]int, len(t.generators))
	for i, g := range t.generators {
		val, err := pauli.MeasureBasis(g, t.ref)
		if err != nil {
			return nil, fmt.Errorf("%w: generator %s: %v", ErrAmbiguousSector, g, err)
		}
		sector[i] = val
	}
	return sector, nil
}

// Taper projects the Hamiltonian into the sector, dropping one qubit per
// generator.
func (t *Tapering) Taper() (pauli.Operator, error) {
	return t.TaperOperator(t.h)
}

// TaperOperator projects an arbitrary operator with the same rotations and
// sector as the Hamiltonian. Terms that leave the sector are dropped.
func (t *Tapering) TaperOperator(op pauli.Operator) (pauli.Operator, error) {
	sector, err := t.Sector()
	if err != nil {
		return pauli.Operator{}, err
	}
	p, err := t.projector(sector)
	if err != nil {
		return pauli.Operator{}, err
	}
	out, err := p.Project(op)
	if err != nil {
		return pauli.Operator{}, err
	}
	t.metrics.ObserveReduction(len(t.generators))
	return out.Cleanup(cleanupThreshold), nil
}

// TaperedReference returns the reference state restricted to the surviving
// qubits.
func (t *Tapering) TaperedReference() ([]int, error) {
	if t.ref == nil {
		return nil, fmt.Errorf("%w: no reference state given", ErrAmbiguousSector)
	}
	sector, err := t.Sector()
	if err != nil {
		return nil, err
	}
	p, err := t.projector(sector)
	if err != nil {
		return nil, err
	}
	free := p.FreeQubits()
	out := make([]int, len(free))
	for i, q := range free {
		out[i] = t.ref[q]
	}
	return out, nil
}

// SectorResult is one explored sector with its reduced Hamiltonian and exact
// ground energy.
type SectorResult struct {
	Sector      []int
	Energy      float64
	Hamiltonian pauli.Operator
}

// SearchAllSectors tapers every sector and diagonalizes each reduced
// Hamiltonian, returning results in ascending ground-energy order. The sweep is
// exponential in the generator count and meant for small symmetry groups.
func (t *Tapering) SearchAllSectors(ctx context.Context) ([]SectorResult, error) {
	k := len(t.generators)
	results := make([]SectorResult, 0, 1<<k)
	for mask := 0; mask < 1<<k; mask++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sector := make([]int, k)
		for i := range sector {
			if mask&(1<<i) != 0 {
				sector[i] = -1
			} else {
				sector[i] = 1
			}
		}

		p, err := t.projector(sector)
		if err != nil {
			return nil, err
		}
		reduced, err := p.Project(t.h)
		if err != nil {
			return nil, err
		}
		reduced = reduced.Cleanup(cleanupThreshold)

		energy, err := spectrum.GroundEnergy(reduced)
		if err != nil {
			return nil, fmt.Errorf("sector %v: %w", sector, err)
		}
		t.logger.Debug("sector explored", "sector", sector, "energy", energy)
		results = append(results, SectorResult{Sector: sector, Energy: energy, Hamiltonian: reduced})
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Energy < results[j].Energy })
	return results, nil
}

// Resector returns a new Tapering pinned to the given sector. The receiver is
// not modified.
func (t *Tapering) Resector(sector []int) (*Tapering, error) {
	if err := t.validateSector(sector); err != nil {
		return nil, err
	}
	clone := *t
	clone.sector = append([]int(nil), sector...)
	return &clone, nil
}

func (t *Tapering) validateSector(sector []int) error {
	if len(sector) != len(t.generators) {
		return fmt.Errorf("%w: sector has %d values, %d generators",
			ErrShapeMismatch, len(sector), len(t.generators))
	}
	for i, v := range sector {
		if v != 1 && v != -1 {
			return fmt.Errorf("sector value at index %d must be +1 or -1, got %d", i, v)
		}
	}
	return nil
}

func (t *Tapering) projector(sector []int) (*projection.Projector, error) {
	return projection.New(t.h.NQubits(), t.generators, sector, t.target)
}

package tui

import (
	"fmt"
	"strings"

	"github.com/quelllabs/quell"
	"github.com/quelllabs/quell/pkg/pauli"
)

// TaperMarkdown formats a tapering result as a markdown document.
func TaperMarkdown(generators []pauli.Term, sector []int, reduced pauli.Operator) string {
	var b strings.Builder
	b.WriteString("# Tapering\n\n")
	b.WriteString("| Generator | Eigenvalue |\n|---|---|\n")
	for i, g := range generators {
		fmt.Fprintf(&b, "| `%s` | %+d |\n", string(g), sector[i])
	}
	fmt.Fprintf(&b, "\nReduced to **%d** qubit(s).\n\n", reduced.NQubits())
	writeOperator(&b, reduced)
	return b.String()
}

// SectorsMarkdown formats a full sector sweep as a markdown table, one row per
// sector in the order given (ascending ground energy).
func SectorsMarkdown(results []quell.SectorResult) string {
	var b strings.Builder
	b.WriteString("# Symmetry sectors\n\n")
	b.WriteString("| Sector | Ground energy | Terms |\n|---|---|---|\n")
	for _, res := range results {
		fmt.Fprintf(&b, "| `%s` | %.9g | %d |\n",
			sectorLabel(res.Sector), res.Energy, res.Hamiltonian.Len())
	}
	return b.String()
}

// ContextualMarkdown formats a contextual-subspace solution and its reduced
// Hamiltonian as a markdown document.
func ContextualMarkdown(sol quell.ContextualSolution, reduced pauli.Operator) string {
	var b strings.Builder
	b.WriteString("# Contextual subspace\n\n")
	fmt.Fprintf(&b, "Noncontextual ground energy: **%.9g**\n\n", sol.Energy)
	b.WriteString("| Stabilizer | Role |\n|---|---|\n")
	cliques := len(sol.Stabilizers) - len(sol.Nu)
	for i, st := range sol.Stabilizers {
		role := "clique observable"
		if i >= cliques {
			role = fmt.Sprintf("generator (nu = %+d)", sol.Nu[i-cliques])
		}
		fmt.Fprintf(&b, "| `%s` | %s |\n", string(st), role)
	}
	fmt.Fprintf(&b, "\nReduced to **%d** qubit(s).\n\n", reduced.NQubits())
	writeOperator(&b, reduced)
	return b.String()
}

func writeOperator(b *strings.Builder, op pauli.Operator) {
	b.WriteString("| Pauli | Coefficient |\n|---|---|\n")
	for _, t := range op.Terms() {
		fmt.Fprintf(b, "| `%s` | %.9g |\n", string(t), real(op.Coeff(t)))
	}
}

func sectorLabel(sector []int) string {
	parts := make([]string, len(sector))
	for i, s := range sector {
		parts[i] = fmt.Sprintf("%+d", s)
	}
	return strings.Join(parts, " ")
}

package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quelllabs/quell"
	"github.com/quelllabs/quell/pkg/pauli"
)

func TestTaperMarkdown(t *testing.T) {
	reduced, err := pauli.NewOperatorReal(map[string]float64{"Z": 1.2, "X": -0.3})
	require.NoError(t, err)

	md := TaperMarkdown([]pauli.Term{"ZZ"}, []int{1}, reduced)

	assert.Contains(t, md, "| `ZZ` | +1 |")
	assert.Contains(t, md, "**1** qubit(s)")
	assert.Contains(t, md, "| `X` | -0.3 |")
}

func TestSectorsMarkdown(t *testing.T) {
	h, err := pauli.NewOperatorReal(map[string]float64{"I": 0.5})
	require.NoError(t, err)

	md := SectorsMarkdown([]quell.SectorResult{
		{Sector: []int{1, -1}, Energy: -2.5, Hamiltonian: h},
	})

	assert.Contains(t, md, "| `+1 -1` | -2.5 | 1 |")
}

func TestContextualMarkdownRoles(t *testing.T) {
	reduced, err := pauli.NewOperatorReal(map[string]float64{"Z": -1.0})
	require.NoError(t, err)

	sol := quell.ContextualSolution{
		Energy:      -1.5,
		Nu:          []int{1},
		Stabilizers: []pauli.Term{"ZI", "IZ"},
	}
	md := ContextualMarkdown(sol, reduced)

	assert.Contains(t, md, "| `ZI` | clique observable |")
	assert.Contains(t, md, "| `IZ` | generator (nu = +1) |")
}

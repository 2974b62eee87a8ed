package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRegisterAndCount(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveEvaluation()
	m.ObserveEvaluation()
	m.ObserveOptimizer(50 * time.Millisecond)
	m.ObserveReduction(3)

	assert.InDelta(t, 2, testutil.ToFloat64(m.objectiveEvaluations), 1e-12)
	assert.InDelta(t, 3, testutil.ToFloat64(m.qubitsTapered), 1e-12)

	count, err := testutil.GatherAndCount(reg,
		"quell_objective_evaluations_total",
		"quell_optimizer_duration_seconds",
		"quell_qubits_tapered")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.ObserveEvaluation()
	m.ObserveOptimizer(time.Second)
	m.ObserveReduction(1)
}

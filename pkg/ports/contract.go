package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunRunStoreContract runs a suite of tests verifying that a RunStore
// implementation adheres to the interface contract.
func RunRunStoreContract(t *testing.T, store RunStore) {
	ctx := context.Background()
	id := "contract-test-run-" + time.Now().Format("20060102150405")

	sample := func(obj, q0, theta float64) Sample {
		return Sample{Objective: obj, Values: Assignment{"q0": q0, "theta": theta}}
	}
	run := &Run{
		Space: SearchSpace{
			Objective:  "energy",
			Discrete:   []string{"q0"},
			Continuous: ContinuousVar{Name: "theta", Min: -3.14, Max: 3.14},
		},
		Samples:   []Sample{sample(-1.25, 1, 0.5), sample(-0.5, -1, 1.5)},
		Energy:    -1.25,
		CreatedAt: time.Now().UTC(),
	}

	t.Run("Save and Load", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, id, run))

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, run.Space.Discrete, loaded.Space.Discrete,
			"variable order must survive persistence exactly")
		assert.Equal(t, run.Space.Continuous.Name, loaded.Space.Continuous.Name)
		require.Len(t, loaded.Samples, 2)
		assert.InDelta(t, -1.25, loaded.Samples[0].Objective, 1e-12)
		assert.InDelta(t, 0.5, loaded.Samples[0].Values["theta"], 1e-12)
		assert.InDelta(t, run.Energy, loaded.Energy, 1e-12)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+id)
		assert.ErrorIs(t, err, ErrRunNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, id, run))
		require.NoError(t, store.Delete(ctx, id))
		_, err := store.Load(ctx, id)
		assert.ErrorIs(t, err, ErrRunNotFound)
	})

	t.Run("List", func(t *testing.T) {
		id1, id2 := id+"-1", id+"-2"
		require.NoError(t, store.Save(ctx, id1, run))
		require.NoError(t, store.Save(ctx, id2, run))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}

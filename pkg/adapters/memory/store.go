// Package memory provides an in-process RunStore, used as the default when no
// persistence backend is configured.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/quelllabs/quell/pkg/ports"
)

// Store implements ports.RunStore with a mutex-guarded map.
type Store struct {
	mu   sync.RWMutex
	runs map[string]ports.Run
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{runs: make(map[string]ports.Run)}
}

// Save stores a copy of the run, so later mutation of the caller's value does
// not leak into the store.
func (s *Store) Save(_ context.Context, id string, run *ports.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[id] = cloneRun(run)
	return nil
}

// Load retrieves a copy of a run.
func (s *Store) Load(_ context.Context, id string) (*ports.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	if !ok {
		return nil, ports.ErrRunNotFound
	}
	out := cloneRun(&run)
	return &out, nil
}

// Delete removes a run; deleting an unknown ID is a no-op.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.runs, id)
	return nil
}

// List returns the stored IDs in ascending order.
func (s *Store) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.runs))
	for id := range s.runs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func cloneRun(run *ports.Run) ports.Run {
	out := *run
	out.Space.Discrete = append([]string(nil), run.Space.Discrete...)
	out.Samples = make([]ports.Sample, len(run.Samples))
	for i, s := range run.Samples {
		values := make(ports.Assignment, len(s.Values))
		for k, v := range s.Values {
			values[k] = v
		}
		out.Samples[i] = ports.Sample{Objective: s.Objective, Values: values}
	}
	return out
}

package ports

import (
	"context"
	"errors"
	"time"
)

// ErrRunNotFound is returned when a run ID cannot be found in the store.
var ErrRunNotFound = errors.New("run not found")

// Run is a persisted ground-state-search record: the search space handed to the
// optimizer, every sample it evaluated, and the selected minimum.
type Run struct {
	Space     SearchSpace `json:"space"`
	Samples   []Sample    `json:"samples"`
	Energy    float64     `json:"energy"`
	CreatedAt time.Time   `json:"created_at"`
}

// RunStore persists completed search runs.
type RunStore interface {
	// Save persists the run under the given ID, overwriting any previous run.
	Save(ctx context.Context, id string, run *Run) error

	// Load retrieves a run by ID. Returns ErrRunNotFound if the ID is unknown.
	Load(ctx context.Context, id string) (*Run, error)

	// Delete removes a run.
	Delete(ctx context.Context, id string) error

	// List returns the stored run IDs.
	List(ctx context.Context) ([]string, error)
}

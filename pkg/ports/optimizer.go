package ports

import (
	"context"
	"errors"
)

// ErrNoSamples is returned when an optimizer produced no evaluated samples.
var ErrNoSamples = errors.New("optimizer returned no samples")

// ErrMalformedSample is returned when an optimizer sample is missing a variable
// declared in the search space.
var ErrMalformedSample = errors.New("optimizer sample is missing a variable")

// ContinuousVar describes a single bounded real-valued search variable.
type ContinuousVar struct {
	Name string  `yaml:"name" json:"name"`
	Min  float64 `yaml:"min" json:"min"`
	Max  float64 `yaml:"max" json:"max"`
}

// SearchSpace describes a mixed discrete/continuous optimization domain: one
// ordinal +/-1 variable per symmetry generator plus one bounded angle. The order
// of Discrete is significant: it is the generator index order, and every
// consumer must preserve the name-to-index correspondence exactly.
type SearchSpace struct {
	Objective  string        `yaml:"objective" json:"objective"`
	Discrete   []string      `yaml:"discrete" json:"discrete"`
	Continuous ContinuousVar `yaml:"continuous" json:"continuous"`
}

// Assignment maps variable names to values. Discrete variables take -1 or +1.
type Assignment map[string]float64

// Sample is one evaluated point of the search.
type Sample struct {
	Objective float64    `yaml:"objective" json:"objective"`
	Values    Assignment `yaml:"values" json:"values"`
}

// Objective evaluates the function being minimized at one assignment.
type Objective func(Assignment) float64

// Optimizer minimizes an objective over a mixed discrete/continuous domain.
// Implementations return every sample they evaluated, in evaluation order; the
// caller selects the minimum. The call blocks until the search finishes or ctx
// is cancelled; the core exposes no other cancellation hook.
type Optimizer interface {
	Minimize(ctx context.Context, space SearchSpace, objective Objective) ([]Sample, error)
}

// Validate checks that a sample assigns every variable of the space.
func (s Sample) Validate(space SearchSpace) error {
	for _, name := range space.Discrete {
		if _, ok := s.Values[name]; !ok {
			return ErrMalformedSample
		}
	}
	if _, ok := s.Values[space.Continuous.Name]; !ok {
		return ErrMalformedSample
	}
	return nil
}

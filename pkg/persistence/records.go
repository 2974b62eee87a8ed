// Package persistence writes optimizer search spaces and sample tables to disk:
// the space as YAML, the samples as CSV. Round-tripping preserves the
// variable-name-to-generator-index correspondence exactly, which downstream
// eigenvalue assignment depends on.
package persistence

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/quelllabs/quell/pkg/ports"
)

// WriteSpace writes the search space as a YAML document.
func WriteSpace(w io.Writer, space ports.SearchSpace) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(space); err != nil {
		return fmt.Errorf("failed to encode search space: %w", err)
	}
	return nil
}

// ReadSpace reads a YAML search space.
func ReadSpace(r io.Reader) (ports.SearchSpace, error) {
	var space ports.SearchSpace
	if err := yaml.NewDecoder(r).Decode(&space); err != nil {
		return ports.SearchSpace{}, fmt.Errorf("failed to decode search space: %w", err)
	}
	return space, nil
}

// WriteSamples writes the sample table as CSV. The header is the objective
// column followed by the space's variables in declaration order, so the file
// alone fixes the generator ordering.
func WriteSamples(w io.Writer, space ports.SearchSpace, samples []ports.Sample) error {
	cw := csv.NewWriter(w)

	header := append([]string{space.Objective}, space.Discrete...)
	header = append(header, space.Continuous.Name)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write sample header: %w", err)
	}

	row := make([]string, len(header))
	for i, s := range samples {
		if err := s.Validate(space); err != nil {
			return fmt.Errorf("sample %d: %w", i, err)
		}
		row[0] = formatFloat(s.Objective)
		for j, name := range space.Discrete {
			row[1+j] = formatFloat(s.Values[name])
		}
		row[len(row)-1] = formatFloat(s.Values[space.Continuous.Name])
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write sample %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadSamples reads a CSV sample table against its search space. The header
// must match the space's variable order exactly.
func ReadSamples(r io.Reader, space ports.SearchSpace) ([]ports.Sample, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read sample table: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty sample table", ports.ErrNoSamples)
	}

	want := append([]string{space.Objective}, space.Discrete...)
	want = append(want, space.Continuous.Name)
	if len(records[0]) != len(want) {
		return nil, fmt.Errorf("sample header has %d columns, want %d", len(records[0]), len(want))
	}
	for i, name := range want {
		if records[0][i] != name {
			return nil, fmt.Errorf("sample column %d is %q, want %q", i, records[0][i], name)
		}
	}

	samples := make([]ports.Sample, 0, len(records)-1)
	for line, rec := range records[1:] {
		values := make(ports.Assignment, len(want)-1)
		objective, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line+2, err)
		}
		for i, name := range want[1:] {
			v, err := strconv.ParseFloat(rec[1+i], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d, column %s: %w", line+2, name, err)
			}
			values[name] = v
		}
		samples = append(samples, ports.Sample{Objective: objective, Values: values})
	}
	return samples, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

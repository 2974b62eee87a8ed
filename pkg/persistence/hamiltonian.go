package persistence

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/quelllabs/quell/pkg/pauli"
)

// ReadHamiltonian reads a Pauli operator from a YAML mapping of labels to real
// coefficients.
func ReadHamiltonian(r io.Reader) (pauli.Operator, error) {
	var raw map[string]float64
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		return pauli.Operator{}, fmt.Errorf("failed to decode hamiltonian: %w", err)
	}
	return pauli.NewOperatorReal(raw)
}

// ReadHamiltonianFile reads a Pauli operator from a YAML file.
func ReadHamiltonianFile(path string) (pauli.Operator, error) {
	f, err := os.Open(path)
	if err != nil {
		return pauli.Operator{}, fmt.Errorf("failed to open hamiltonian file: %w", err)
	}
	defer f.Close()
	return ReadHamiltonian(f)
}

// WriteHamiltonian writes a Pauli operator as a YAML mapping. Coefficients with
// an imaginary part above tol are rejected.
func WriteHamiltonian(w io.Writer, op pauli.Operator, tol float64) error {
	raw, err := op.RealMap(tol)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(raw); err != nil {
		return fmt.Errorf("failed to encode hamiltonian: %w", err)
	}
	return nil
}

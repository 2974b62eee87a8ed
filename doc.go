// Package quell reduces the qubit count of Pauli-operator Hamiltonians.
//
// Two reductions are provided. Tapering removes qubits stabilized by the exact
// Z2 symmetries of the Hamiltonian, preserving the spectrum within a symmetry
// sector. ContextualSubspace goes further: it splits off a noncontextual
// sub-Hamiltonian, solves its ground state classically, and projects the full
// Hamiltonian onto stabilizers of that state, trading exactness for a tunable
// number of removed qubits.
//
// All Pauli arithmetic is exact: product phases are tracked as fourth roots of
// unity and the linear algebra is over GF(2), so reductions are reproducible
// bit for bit. Strategy interfaces (ports.Optimizer, ports.SetSearcher,
// ports.RunStore) are injected through functional options; reference adapters
// live under pkg/adapters.
package quell

// Version is the library version reported by the CLI and the MCP server.
const Version = "1.0.0"

package pauli

// SymplecticVector is the binary XZ encoding of a Pauli term: for n qubits it has
// length 2n, the first half flags X-support and the second half Z-support (Y sets
// both). The encoding drops the global phase; Decode reconstructs an equivalent
// phase-free term.
type SymplecticVector []byte

// Encode maps a term to its symplectic vector in XZ block order.
func Encode(t Term) SymplecticVector {
	n := t.NQubits()
	v := make(SymplecticVector, 2*n)
	for i := 0; i < n; i++ {
		switch t[i] {
		case 'X':
			v[i] = 1
		case 'Z':
			v[n+i] = 1
		case 'Y':
			v[i] = 1
			v[n+i] = 1
		}
	}
	return v
}

// Decode maps a symplectic vector back to a Pauli term.
func Decode(v SymplecticVector) Term {
	n := len(v) / 2
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		switch {
		case v[i] == 1 && v[n+i] == 1:
			out[i] = 'Y'
		case v[i] == 1:
			out[i] = 'X'
		case v[n+i] == 1:
			out[i] = 'Z'
		default:
			out[i] = 'I'
		}
	}
	return Term(out)
}

// AdjacencyMatrix returns the anticommutation pattern of a term list:
// entry [i][j] is 1 when terms i and j anticommute. The diagonal is zero.
func AdjacencyMatrix(terms []Term) [][]byte {
	m := make([][]byte, len(terms))
	for i := range terms {
		m[i] = make([]byte, len(terms))
	}
	for i := range terms {
		for j := i + 1; j < len(terms); j++ {
			if !Commute(terms[i], terms[j]) {
				m[i][j] = 1
				m[j][i] = 1
			}
		}
	}
	return m
}

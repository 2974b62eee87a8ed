// Package gf2 implements exact linear algebra over the two-element field.
// Everything is integer arithmetic on 0/1 bytes; floating point never enters,
// so independence and commutation invariants derived from these routines hold
// exactly.
package gf2

// Matrix is a dense 0/1 matrix, row major.
type Matrix [][]byte

// Clone returns a deep copy.
func (m Matrix) Clone() Matrix {
	out := make(Matrix, len(m))
	for i, row := range m {
		out[i] = append([]byte(nil), row...)
	}
	return out
}

// RREF reduces a matrix to reduced row-echelon form over GF(2) and discards
// all-zero rows. The input is not modified.
func RREF(m Matrix) Matrix {
	if len(m) == 0 {
		return nil
	}
	work := m.Clone()
	cols := len(work[0])
	pivotRow := 0
	for col := 0; col < cols && pivotRow < len(work); col++ {
		// Find a row at or below pivotRow with a 1 in this column.
		sel := -1
		for r := pivotRow; r < len(work); r++ {
			if work[r][col] == 1 {
				sel = r
				break
			}
		}
		if sel < 0 {
			continue
		}
		work[pivotRow], work[sel] = work[sel], work[pivotRow]
		// Eliminate the column everywhere else.
		for r := 0; r < len(work); r++ {
			if r != pivotRow && work[r][col] == 1 {
				for c := col; c < cols; c++ {
					work[r][c] ^= work[pivotRow][c]
				}
			}
		}
		pivotRow++
	}

	out := make(Matrix, 0, pivotRow)
	for _, row := range work {
		if !isZero(row) {
			out = append(out, row)
		}
	}
	return out
}

// Kernel computes a basis for the right null space of a matrix already in
// reduced row-echelon form: vectors v with m·v = 0. One basis vector is emitted
// per free column, so the result is linearly independent by construction and
// never contains the zero vector.
func Kernel(rref Matrix) Matrix {
	if len(rref) == 0 {
		return nil
	}
	cols := len(rref[0])

	pivotOfRow := make([]int, len(rref))
	isPivot := make([]bool, cols)
	for r, row := range rref {
		p := -1
		for c := 0; c < cols; c++ {
			if row[c] == 1 {
				p = c
				break
			}
		}
		pivotOfRow[r] = p
		if p >= 0 {
			isPivot[p] = true
		}
	}

	var basis Matrix
	for free := 0; free < cols; free++ {
		if isPivot[free] {
			continue
		}
		v := make([]byte, cols)
		v[free] = 1
		// Back-substitute: each pivot variable equals the free column entry of its row.
		for r, p := range pivotOfRow {
			if p >= 0 {
				v[p] = rref[r][free]
			}
		}
		basis = append(basis, v)
	}
	return basis
}

// Mul returns m·v over GF(2).
func Mul(m Matrix, v []byte) []byte {
	out := make([]byte, len(m))
	for i, row := range m {
		var acc byte
		for j := range row {
			acc ^= row[j] & v[j]
		}
		out[i] = acc
	}
	return out
}

func isZero(row []byte) bool {
	for _, b := range row {
		if b != 0 {
			return false
		}
	}
	return true
}

// SPDX-License-Identifier: MIT
package gf2

// Echelonize reduces m to reduced row-echelon form on columns [colStart,
// colEnd) using rows [pivotStart, Rows()) as pivot candidates, and returns
// the number of pivot rows found. Rows above pivotStart are never chosen as
// pivots, but like every other row they are cleared in each pivot column.
// Tie-break: for each column, the first candidate row (in index order) with
// a 1 bit is chosen as pivot.
func Echelonize(m MutableMatrix, colStart, colEnd, pivotStart int) (int, error) {
	if colStart < 0 || colEnd > m.stride*WordBits || colStart > colEnd || pivotStart < 0 || pivotStart > m.rows {
		return 0, opErrorf("Echelonize", ErrIndexOutOfBounds)
	}
	pivotRow := pivotStart
	for col := colStart; col < colEnd; col++ {
		sel := -1
		for r := pivotRow; r < m.rows; r++ {
			if m.At(r, col) {
				sel = r
				break
			}
		}
		if sel == -1 {
			continue
		}
		if sel != pivotRow {
			m.SwapRows(sel, pivotRow)
		}
		pivot := m.Row(pivotRow)
		for r := 0; r < m.rows; r++ {
			if r == pivotRow {
				continue
			}
			row := m.Row(r)
			if row.GetBit(col) {
				_ = VXorInto(row, pivot.View())
			}
		}
		pivotRow++
	}
	return pivotRow - pivotStart, nil
}

// EchelonizeColRev is the column-reverse analog of Echelonize: it reduces
// columns from colEnd-1 down to colStart, assigning pivot rows starting at
// pivotStart and incrementing upward. When run over the full column range
// this produces the anti-diagonal identity form required by HST (§3):
// pivot row pivotStart+i ends up as the unit vector at column colEnd-1-i.
func EchelonizeColRev(m MutableMatrix, colStart, colEnd, pivotStart int) (int, error) {
	if colStart < 0 || colEnd > m.stride*WordBits || colStart > colEnd || pivotStart < 0 || pivotStart > m.rows {
		return 0, opErrorf("EchelonizeColRev", ErrIndexOutOfBounds)
	}
	pivotRow := pivotStart
	for col := colEnd - 1; col >= colStart; col-- {
		sel := -1
		for r := pivotRow; r < m.rows; r++ {
			if m.At(r, col) {
				sel = r
				break
			}
		}
		if sel == -1 {
			continue
		}
		if sel != pivotRow {
			m.SwapRows(sel, pivotRow)
		}
		pivot := m.Row(pivotRow)
		for r := 0; r < m.rows; r++ {
			if r == pivotRow {
				continue
			}
			row := m.Row(r)
			if row.GetBit(col) {
				_ = VXorInto(row, pivot.View())
			}
		}
		pivotRow++
	}
	return pivotRow - pivotStart, nil
}

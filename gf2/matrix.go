// SPDX-License-Identifier: MIT
package gf2

// Matrix is a read-only borrowed view over a packed GF(2) matrix: a word
// slice, a column count, a row stride (in words), and a row count. Row r
// starts at word index r*Stride.
type Matrix struct {
	words  []uint64
	cols   int
	stride int
	rows   int
}

// NewMatrix wraps words as a read-only Matrix. stride must be at least
// ceil(cols/64) words, and words must be long enough for rows*stride words.
func NewMatrix(words []uint64, rows, cols, stride int) (Matrix, error) {
	if rows < 0 || cols < 0 {
		return Matrix{}, opErrorf("NewMatrix", ErrInvalidDimensions)
	}
	if stride < wordsFor(cols) {
		return Matrix{}, opErrorf("NewMatrix", ErrDimensionMismatch)
	}
	if len(words) < rows*stride {
		return Matrix{}, opErrorf("NewMatrix", ErrIndexOutOfBounds)
	}
	return Matrix{words: words, cols: cols, stride: stride, rows: rows}, nil
}

// Rows returns the row count.
func (m Matrix) Rows() int { return m.rows }

// Cols returns the column count.
func (m Matrix) Cols() int { return m.cols }

// Stride returns the row stride in words.
func (m Matrix) Stride() int { return m.stride }

// Words returns the backing word slice.
func (m Matrix) Words() []uint64 { return m.words }

// Row returns a read-only view of row r.
func (m Matrix) Row(r int) Vector {
	off := r * m.stride
	return Vector{words: m.words[off : off+m.stride], cols: m.cols}
}

// RowIter returns a VectorIter over the matrix's rows, starting at row 0.
func (m Matrix) RowIter() VectorIter {
	return VectorIter{words: m.words, cols: m.cols, stride: m.stride}
}

// At returns bit (r,c).
func (m Matrix) At(r, c int) bool {
	return m.Row(r).GetBit(c)
}

// Mutable returns a MutableMatrix over the same backing words.
func (m Matrix) Mutable() MutableMatrix {
	return MutableMatrix{words: m.words, cols: m.cols, stride: m.stride, rows: m.rows}
}

// Submatrix returns a sub-view of rows [rowOff, rowOff+nrows) and columns
// [colOff, colOff+ncols). colOff must be a multiple of 64 (§3 invariant);
// the returned view shares the same Stride as m since rows remain stride
// words apart in the backing array.
func (m Matrix) Submatrix(rowOff, nrows, colOff, ncols int) (Matrix, error) {
	mm, err := m.Mutable().Submatrix(rowOff, nrows, colOff, ncols)
	if err != nil {
		return Matrix{}, err
	}
	return mm.View(), nil
}

// MutableMatrix is a mutable borrowed view over a packed GF(2) matrix.
type MutableMatrix struct {
	words  []uint64
	cols   int
	stride int
	rows   int
}

// NewMutableMatrix wraps words as a mutable Matrix view.
func NewMutableMatrix(words []uint64, rows, cols, stride int) (MutableMatrix, error) {
	m, err := NewMatrix(words, rows, cols, stride)
	if err != nil {
		return MutableMatrix{}, err
	}
	return m.Mutable(), nil
}

// Rows returns the row count.
func (m MutableMatrix) Rows() int { return m.rows }

// Cols returns the column count.
func (m MutableMatrix) Cols() int { return m.cols }

// Stride returns the row stride in words.
func (m MutableMatrix) Stride() int { return m.stride }

// Words returns the backing word slice.
func (m MutableMatrix) Words() []uint64 { return m.words }

// View returns a read-only view over the same backing words.
func (m MutableMatrix) View() Matrix {
	return Matrix{words: m.words, cols: m.cols, stride: m.stride, rows: m.rows}
}

// Row returns a mutable view of row r.
func (m MutableMatrix) Row(r int) MutableVector {
	off := r * m.stride
	return MutableVector{words: m.words[off : off+m.stride], cols: m.cols}
}

// RowIter returns a VectorIter over the matrix's rows.
func (m MutableMatrix) RowIter() VectorIter {
	return VectorIter{words: m.words, cols: m.cols, stride: m.stride}
}

// At returns bit (r,c).
func (m MutableMatrix) At(r, c int) bool {
	return m.Row(r).GetBit(c)
}

// SwapRows exchanges the full backing storage (including padding) of rows r1
// and r2, matching HST[echelon_idx].swap(HST[...]) in the teacher's ISD form.
func (m MutableMatrix) SwapRows(r1, r2 int) {
	if r1 == r2 {
		return
	}
	row1 := m.words[r1*m.stride : r1*m.stride+m.stride]
	row2 := m.words[r2*m.stride : r2*m.stride+m.stride]
	for i := range row1 {
		row1[i], row2[i] = row2[i], row1[i]
	}
}

// Submatrix returns a mutable sub-view of rows [rowOff, rowOff+nrows) and
// columns [colOff, colOff+ncols). colOff must be a multiple of 64.
func (m MutableMatrix) Submatrix(rowOff, nrows, colOff, ncols int) (MutableMatrix, error) {
	if colOff%WordBits != 0 {
		return MutableMatrix{}, opErrorf("Submatrix", ErrUnalignedOffset)
	}
	if rowOff < 0 || nrows < 0 || rowOff+nrows > m.rows {
		return MutableMatrix{}, opErrorf("Submatrix", ErrIndexOutOfBounds)
	}
	colOffWords := colOff / WordBits
	if ncols < 0 || colOffWords+wordsFor(ncols) > m.stride {
		return MutableMatrix{}, opErrorf("Submatrix", ErrIndexOutOfBounds)
	}
	return MutableMatrix{
		words:  m.words[rowOff*m.stride+colOffWords:],
		cols:   ncols,
		stride: m.stride,
		rows:   nrows,
	}, nil
}

// OwnedMatrix owns its backing storage. Rows are allocated with a stride
// padded so each row begins aligned to DefaultBlockTag's block width.
type OwnedMatrix struct {
	words  []uint64
	cols   int
	stride int
	rows   int
}

// NewOwnedMatrix allocates a zeroed rows x cols owning matrix.
func NewOwnedMatrix(rows, cols int) (*OwnedMatrix, error) {
	if rows <= 0 || cols <= 0 {
		return nil, opErrorf("NewOwnedMatrix", ErrInvalidDimensions)
	}
	stride := wordsAligned(wordsFor(cols), DefaultBlockTag)
	return &OwnedMatrix{words: make([]uint64, rows*stride), cols: cols, stride: stride, rows: rows}, nil
}

// Rows returns the row count.
func (m *OwnedMatrix) Rows() int { return m.rows }

// Cols returns the column count.
func (m *OwnedMatrix) Cols() int { return m.cols }

// Stride returns the row stride in words.
func (m *OwnedMatrix) Stride() int { return m.stride }

// View returns a read-only view over the owning matrix's storage.
func (m *OwnedMatrix) View() Matrix {
	return Matrix{words: m.words, cols: m.cols, stride: m.stride, rows: m.rows}
}

// Mutable returns a mutable view over the owning matrix's storage.
func (m *OwnedMatrix) Mutable() MutableMatrix {
	return MutableMatrix{words: m.words, cols: m.cols, stride: m.stride, rows: m.rows}
}

// Clear zeroes every word of the owning matrix's storage, including padding.
func (m *OwnedMatrix) Clear() {
	for i := range m.words {
		m.words[i] = 0
	}
}

// Package isdform maintains the (H|S)^T information-set-decoding working
// form used by every sub-ISD enumerator.
//
// Given a parity-check matrix H and target syndrome S, Form brings
// (H|S)^T into the layout
//
//	HST = ( 0    | AI   )
//	      ( H2^T | H1^T )
//	      ( s2^T | s1^T )
//
// where AI is an (n-k-l)x(n-k-l) anti-diagonal identity block obtained by a
// random column permutation of H followed by reverse row reduction. The
// bottom ISD_rows rows (H2T/H1Trest/S2/S1rest) are the working rows the
// sub-ISD enumerators search over; Update exchanges rows between the
// echelon block and the ISD block to explore new information sets without
// re-permuting and re-echelonizing from scratch.
//
// H2T's columns are padded to a 64-bit boundary before H1Trest begins, so
// sub-ISD code that processes H2T in word-sized blocks never has to deal
// with a partial word straddling the H2T/H1T boundary.
package isdform

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/gf2decode/isd/gf2"
)

// UpdateType selects one of the eight row-selection strategies Update can
// apply when refreshing the working information set.
type UpdateType int

const (
	UpdateType1  UpdateType = 1
	UpdateType2  UpdateType = 2
	UpdateType3  UpdateType = 3
	UpdateType4  UpdateType = 4
	UpdateType10 UpdateType = 10
	UpdateType12 UpdateType = 12
	UpdateType13 UpdateType = 13
	UpdateType14 UpdateType = 14
)

// ErrBadIndex is returned by SwapEchelon/Update1 family on out-of-range row
// indices.
var ErrBadIndex = errors.New("isdform: bad row index")

// ErrNoPivot is returned when no ISD row with a set pivot bit can be found,
// which should not happen for a full-rank input matrix.
var ErrNoPivot = errors.New("isdform: cannot find pivot row")

// ErrUnknownUpdateType is returned by Update for an UpdateType it doesn't
// recognize.
var ErrUnknownUpdateType = errors.New("isdform: unknown update type")

const bitAlignment = gf2.WordBits

func alignUp(n int) int {
	return (n + bitAlignment - 1) &^ (bitAlignment - 1)
}

// Form holds the (H|S)^T working matrix and the bookkeeping needed to swap
// rows between its echelon and ISD blocks while preserving the anti-diagonal
// identity invariant.
type Form struct {
	hst *gf2.OwnedMatrix

	ht, htPadded     gf2.MutableMatrix
	h12t, h12tPadded gf2.MutableMatrix
	s, sPadded       gf2.MutableVector

	h2t, h2tPadded gf2.MutableMatrix
	s2, s2Padded   gf2.MutableVector

	h1Trest, h1TrestPadded gf2.MutableMatrix
	s1rest, s1restPadded   gf2.MutableVector

	perm []int

	htColumns, h1tColumns, h2tColumns, h2tColumnsPadded int
	echelonRows, isdRows, maxUpdateRows                 int
	echelonStart, curEchelonRow, curISDRow, rndISDRow    int

	echelonPerm, isdPerm []int

	rng *rand.Rand
}

// New allocates a Form and immediately resets it for H, S, l, and rng (see
// Reset).
func New(H gf2.Matrix, S gf2.Vector, l int, rng *rand.Rand) (*Form, error) {
	f := &Form{}
	if err := f.Reset(H, S, l, rng); err != nil {
		return nil, err
	}
	return f, nil
}

// Reset re-derives the working form from scratch for a (possibly new) H, S,
// and window size l: l is the number of ISD-form rows (H2T's column count)
// kept outside the echelon block. rng drives every random choice and is
// owned exclusively by this Form afterwards.
func (f *Form) Reset(H gf2.Matrix, S gf2.Vector, l int, rng *rand.Rand) error {
	if l >= H.Rows() {
		return fmt.Errorf("isdform.Reset: %w", ErrBadIndex)
	}
	if S.Cols() != H.Rows() {
		return fmt.Errorf("isdform.Reset: %w", ErrBadIndex)
	}
	f.rng = rng

	htRows := H.Cols()
	htCols := H.Rows()
	htColsPadded := alignUp(htCols)
	f.htColumns = htCols
	f.h2tColumns = l
	f.h2tColumnsPadded = alignUp(l)
	f.h1tColumns = htCols - l
	f.echelonRows = htCols - l
	f.isdRows = htRows - f.echelonRows
	f.maxUpdateRows = int(float64(f.echelonRows) * float64(f.isdRows) / float64(f.echelonRows+f.isdRows))

	hst, err := gf2.NewOwnedMatrix(htRows+1, htColsPadded)
	if err != nil {
		return err
	}
	f.hst = hst
	m := hst.Mutable()

	ht, err := m.Submatrix(0, htRows, 0, htCols)
	if err != nil {
		return err
	}
	f.ht = ht
	htPadded, err := m.Submatrix(0, htRows, 0, htColsPadded)
	if err != nil {
		return err
	}
	f.htPadded = htPadded

	h12t, err := m.Submatrix(f.echelonRows, f.isdRows, 0, htCols)
	if err != nil {
		return err
	}
	f.h12t = h12t
	h12tPadded, err := m.Submatrix(f.echelonRows, f.isdRows, 0, htColsPadded)
	if err != nil {
		return err
	}
	f.h12tPadded = h12tPadded

	sRow := m.Row(htRows)
	s, err := sRow.Subvector(0, htCols)
	if err != nil {
		return err
	}
	f.s = s
	f.sPadded = sRow

	h2t, err := m.Submatrix(f.echelonRows, f.isdRows, 0, f.h2tColumns)
	if err != nil {
		return err
	}
	f.h2t = h2t
	h2tPadded, err := m.Submatrix(f.echelonRows, f.isdRows, 0, f.h2tColumnsPadded)
	if err != nil {
		return err
	}
	f.h2tPadded = h2tPadded

	s2Padded, err := f.sPadded.Subvector(0, f.h2tColumnsPadded)
	if err != nil {
		return err
	}
	f.s2Padded = s2Padded
	s2, err := f.sPadded.Subvector(0, f.h2tColumns)
	if err != nil {
		return err
	}
	f.s2 = s2

	rest := htCols - f.h2tColumnsPadded
	if rest < 0 {
		rest = 0
	}
	h1Trest, err := m.Submatrix(f.echelonRows, f.isdRows, f.h2tColumnsPadded, rest)
	if err != nil {
		return err
	}
	f.h1Trest = h1Trest
	h1TrestPadded, err := m.Submatrix(f.echelonRows, f.isdRows, f.h2tColumnsPadded, htColsPadded-f.h2tColumnsPadded)
	if err != nil {
		return err
	}
	f.h1TrestPadded = h1TrestPadded

	s1rest, err := f.sPadded.Subvector(f.h2tColumnsPadded, rest)
	if err != nil {
		return err
	}
	f.s1rest = s1rest
	s1restPadded, err := f.sPadded.Subvector(f.h2tColumnsPadded, htColsPadded-f.h2tColumnsPadded)
	if err != nil {
		return err
	}
	f.s1restPadded = s1restPadded

	if err := gf2.MTranspose(f.ht, H); err != nil {
		return err
	}
	if err := gf2.VCopy(f.s, S); err != nil {
		return err
	}

	f.perm = make([]int, htRows)
	for i := range f.perm {
		f.perm[i] = i
	}
	f.echelonPerm = make([]int, f.echelonRows)
	for i := range f.echelonPerm {
		f.echelonPerm[i] = i
	}
	f.curEchelonRow = 0
	f.isdPerm = make([]int, f.isdRows)
	for i := range f.isdPerm {
		f.isdPerm[i] = i
	}
	f.curISDRow, f.rndISDRow = 0, 0

	for f.echelonStart = 0; f.echelonStart < f.echelonRows; f.echelonStart++ {
		pivotCol := f.htColumns - f.echelonStart - 1
		r := f.echelonStart + f.rng.Intn(htRows-f.echelonStart)
		for ; r < htRows && !f.ht.Row(r).GetBit(pivotCol); r++ {
		}
		if r == htRows {
			r = f.echelonStart
			for ; r < htRows && !f.ht.Row(r).GetBit(pivotCol); r++ {
			}
		}
		if r == htRows {
			return fmt.Errorf("isdform.Reset: %w", ErrNoPivot)
		}
		if err := f.SwapEchelon(f.echelonStart, r-f.echelonRows); err != nil {
			return err
		}
	}
	return nil
}

// Permutation returns the current column permutation applied to the
// original H: Permutation()[i] is the column of the original H whose
// transpose now sits at row i of HT.
func (f *Form) Permutation() []int { return f.perm }

// HT returns the (n x (n-k)) transpose-of-H view.
func (f *Form) HT() gf2.Matrix { return f.ht.View() }

// H12T returns the bottom isdRows x htColumns block (both H2T and H1Trest).
func (f *Form) H12T() gf2.Matrix { return f.h12t.View() }

// H2T returns the bottom-left isdRows x l block.
func (f *Form) H2T() gf2.Matrix { return f.h2t.View() }

// H1Trest returns the bottom-right block that starts at the first word
// boundary at or after column l: isdRows x (htColumns - l rounded up to a
// multiple of 64) columns, or no columns when that boundary is not below
// htColumns.
func (f *Form) H1Trest() gf2.Matrix { return f.h1Trest.View() }

// S returns the current syndrome row.
func (f *Form) S() gf2.Vector { return f.s.View() }

// S2 returns the H2T-aligned slice of the syndrome row.
func (f *Form) S2() gf2.Vector { return f.s2.View() }

// S1rest returns the H1Trest-aligned slice of the syndrome row.
func (f *Form) S1rest() gf2.Vector { return f.s1rest.View() }

// EchelonRows returns the number of rows kept in the echelon (anti-diagonal
// identity) block.
func (f *Form) EchelonRows() int { return f.echelonRows }

// ISDRows returns the number of rows in the searchable ISD block.
func (f *Form) ISDRows() int { return f.isdRows }

// SwapEchelon exchanges echelon row echelonIdx with row echelonRows+isdIdx
// (isdIdx is an offset from the start of the ISD block; Reset passes
// negative offsets to reach rows of the echelon block that are not pivots
// yet, and the row named must not lie before echelonIdx), then restores the
// anti-diagonal identity invariant by XOR-reducing every other row, the
// syndrome row included, against the new pivot row.
func (f *Form) SwapEchelon(echelonIdx, isdIdx int) error {
	if echelonIdx < 0 || echelonIdx >= f.echelonRows || f.echelonRows+isdIdx >= len(f.perm) || f.echelonRows+isdIdx < echelonIdx {
		return fmt.Errorf("isdform.SwapEchelon: %w", ErrBadIndex)
	}
	other := f.echelonRows + isdIdx
	f.perm[echelonIdx], f.perm[other] = f.perm[other], f.perm[echelonIdx]
	f.htPadded.SwapRows(echelonIdx, other)

	pivotCol := f.htColumns - echelonIdx - 1
	pivotRow := f.htPadded.Row(echelonIdx)
	pivotRow.ClearBit(pivotCol)
	hst := f.hst.Mutable()
	for r := f.echelonStart; r < hst.Rows(); r++ {
		if hst.Row(r).GetBit(pivotCol) {
			if err := gf2.VXorInto(hst.Row(r), pivotRow.View()); err != nil {
				return err
			}
		}
	}
	gf2.VClear(pivotRow)
	pivotRow.SetBit(pivotCol)
	return nil
}

// Update1 performs a single echelon-row refresh: echelonIdx is swapped with
// the first ISD row that has a set bit at the pivot column, scanning from a
// random start and wrapping around once.
func (f *Form) Update1(echelonIdx int) error {
	if echelonIdx < 0 || echelonIdx >= f.echelonRows {
		return fmt.Errorf("isdform.Update1: %w", ErrBadIndex)
	}
	pivotCol := f.htColumns - echelonIdx - 1
	isdIdx := f.rng.Intn(f.isdRows)
	for ; isdIdx < f.isdRows && !f.htPadded.Row(f.echelonRows+isdIdx).GetBit(pivotCol); isdIdx++ {
	}
	if isdIdx >= f.isdRows {
		isdIdx = 0
		for ; isdIdx < f.isdRows && !f.htPadded.Row(f.echelonRows+isdIdx).GetBit(pivotCol); isdIdx++ {
		}
	}
	if isdIdx >= f.isdRows {
		return fmt.Errorf("isdform.Update1: %w", ErrNoPivot)
	}
	return f.SwapEchelon(echelonIdx, isdIdx)
}

// Update1ISDSeq is like Update1 but scans the ISD block round-robin from
// where the previous call to Update1ISDSeq left off, instead of choosing a
// random start.
func (f *Form) Update1ISDSeq(echelonIdx int) error {
	if echelonIdx < 0 || echelonIdx >= f.echelonRows {
		return fmt.Errorf("isdform.Update1ISDSeq: %w", ErrBadIndex)
	}
	pivotCol := f.htColumns - echelonIdx - 1
	for {
		f.curISDRow = (f.curISDRow + 1) % f.isdRows
		if f.htPadded.Row(f.echelonRows + f.curISDRow).GetBit(pivotCol) {
			break
		}
	}
	return f.SwapEchelon(echelonIdx, f.curISDRow)
}

// Update1ISDPerm is like Update1 but draws the ISD row from a lazily
// generated random permutation, consuming at most maxUpdateRows entries
// before the permutation is regenerated.
func (f *Form) Update1ISDPerm(echelonIdx int) error {
	if echelonIdx < 0 || echelonIdx >= f.echelonRows {
		return fmt.Errorf("isdform.Update1ISDPerm: %w", ErrBadIndex)
	}
	pivotCol := f.htColumns - echelonIdx - 1
	var isdIdx int
	for {
		if f.curISDRow >= f.maxUpdateRows {
			f.curISDRow = 0
			f.rndISDRow = 0
		}
		for isdIdx = f.curISDRow; isdIdx < len(f.isdPerm); isdIdx++ {
			if isdIdx == f.rndISDRow {
				j := isdIdx + f.rng.Intn(f.isdRows-isdIdx)
				f.isdPerm[isdIdx], f.isdPerm[j] = f.isdPerm[j], f.isdPerm[isdIdx]
				f.rndISDRow++
			}
			if f.htPadded.Row(f.echelonRows + f.isdPerm[isdIdx]).GetBit(pivotCol) {
				break
			}
		}
		if isdIdx < len(f.isdPerm) {
			break
		}
		f.curISDRow = f.isdRows
	}
	f.isdPerm[f.curISDRow], f.isdPerm[isdIdx] = f.isdPerm[isdIdx], f.isdPerm[f.curISDRow]
	isdIdx = f.isdPerm[f.curISDRow]
	f.curISDRow++
	return f.SwapEchelon(echelonIdx, isdIdx)
}

func (f *Form) refreshEchelonPerm(count int) {
	for i := 0; i < count; i++ {
		j := f.rng.Intn(f.echelonRows)
		f.echelonPerm[i], f.echelonPerm[j] = f.echelonPerm[j], f.echelonPerm[i]
	}
}

func (f *Form) updateType1(rows int) error {
	for i := 0; i < rows; i++ {
		if err := f.Update1(f.rng.Intn(f.echelonRows)); err != nil {
			return err
		}
	}
	return nil
}

func (f *Form) updateType2(rows int) error {
	f.refreshEchelonPerm(rows)
	for i := 0; i < rows; i++ {
		if err := f.Update1(f.echelonPerm[i]); err != nil {
			return err
		}
	}
	return nil
}

func (f *Form) updateType3(rows int) error {
	f.curISDRow = f.isdRows
	f.refreshEchelonPerm(rows)
	for i := 0; i < rows; i++ {
		if err := f.Update1ISDPerm(f.echelonPerm[i]); err != nil {
			return err
		}
	}
	return nil
}

func (f *Form) updateType4(rows int) error {
	for i := 0; i < rows; i++ {
		if f.curEchelonRow >= f.maxUpdateRows {
			for j := 0; j < f.maxUpdateRows; j++ {
				k := f.rng.Intn(f.echelonRows)
				f.echelonPerm[j], f.echelonPerm[k] = f.echelonPerm[k], f.echelonPerm[j]
			}
			f.curEchelonRow = 0
		}
		if err := f.Update1ISDPerm(f.echelonPerm[f.curEchelonRow]); err != nil {
			return err
		}
		f.curEchelonRow++
	}
	return nil
}

func (f *Form) updateType10(rows int) error {
	for i := 0; i < rows; i++ {
		if err := f.Update1ISDSeq(f.curEchelonRow); err != nil {
			return err
		}
		f.curEchelonRow = (f.curEchelonRow + 1) % f.echelonRows
	}
	return nil
}

func (f *Form) updateType12(rows int) error {
	for i := 0; i < rows; i++ {
		if err := f.Update1(f.curEchelonRow); err != nil {
			return err
		}
		f.curEchelonRow = (f.curEchelonRow + 1) % f.echelonRows
	}
	return nil
}

func (f *Form) updateType13(rows int) error {
	f.curISDRow = f.isdRows
	for i := 0; i < rows; i++ {
		if err := f.Update1ISDPerm(f.curEchelonRow); err != nil {
			return err
		}
		f.curEchelonRow = (f.curEchelonRow + 1) % f.echelonRows
	}
	return nil
}

func (f *Form) updateType14(rows int) error {
	for i := 0; i < rows; i++ {
		if err := f.Update1ISDPerm(f.curEchelonRow); err != nil {
			return err
		}
		f.curEchelonRow = (f.curEchelonRow + 1) % f.echelonRows
	}
	return nil
}

// Update refreshes the working information set using the given strategy.
// rows selects how many rows to touch this call; a non-positive value uses
// maxUpdateRows, which is also the hard cap regardless of what's requested.
func (f *Form) Update(rows int, ut UpdateType) error {
	n := f.maxUpdateRows
	if rows > 0 && rows < n {
		n = rows
	}
	switch ut {
	case UpdateType1:
		return f.updateType1(n)
	case UpdateType2:
		return f.updateType2(n)
	case UpdateType3:
		return f.updateType3(n)
	case UpdateType4:
		return f.updateType4(n)
	case UpdateType10:
		return f.updateType10(n)
	case UpdateType12:
		return f.updateType12(n)
	case UpdateType13:
		return f.updateType13(n)
	case UpdateType14:
		return f.updateType14(n)
	default:
		return fmt.Errorf("isdform.Update: %w", ErrUnknownUpdateType)
	}
}

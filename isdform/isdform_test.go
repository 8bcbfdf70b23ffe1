package isdform_test

import (
	"math/rand"
	"testing"

	"github.com/gf2decode/isd/gf2"
	"github.com/gf2decode/isd/isdform"
	"github.com/stretchr/testify/require"
)

// randomFullRankH builds a rows x cols matrix guaranteed full row rank: an
// identity block in the first `rows` columns plus random remaining columns.
func randomFullRankH(t *testing.T, r *rand.Rand, rows, cols int) *gf2.OwnedMatrix {
	t.Helper()
	H, err := gf2.NewOwnedMatrix(rows, cols)
	require.NoError(t, err)
	hv := H.Mutable()
	for row := 0; row < rows; row++ {
		hv.Row(row).SetBit(row)
		for c := rows; c < cols; c++ {
			if r.Intn(2) == 1 {
				hv.Row(row).SetBit(c)
			}
		}
	}
	return H
}

func newTestForm(t *testing.T, seed int64, rows, cols, l int) *isdform.Form {
	t.Helper()
	r := rand.New(rand.NewSource(seed))
	H := randomFullRankH(t, r, rows, cols)
	S, err := gf2.NewOwnedVector(rows)
	require.NoError(t, err)
	for i := 0; i < rows; i++ {
		if r.Intn(2) == 1 {
			S.Mutable().SetBit(i)
		}
	}
	f, err := isdform.New(H.View(), S.View(), l, r)
	require.NoError(t, err)
	return f
}

func TestResetAntiDiagonalIdentity(t *testing.T) {
	f := newTestForm(t, 1, 128, 300, 5)
	echelonRows := f.EchelonRows()
	ht := f.HT()
	for row := 0; row < echelonRows; row++ {
		pivotCol := f.HT().Cols() - row - 1 // htColumns equals HT().Cols() here
		for c := 0; c < ht.Cols(); c++ {
			want := c == pivotCol
			require.Equal(t, want, ht.Row(row).GetBit(c), "row %d col %d", row, c)
		}
	}
}

func TestEchelonRowsAndISDRowsSumToHTRows(t *testing.T) {
	f := newTestForm(t, 2, 128, 300, 5)
	require.Equal(t, f.HT().Rows(), f.EchelonRows()+f.ISDRows())
}

func TestUpdatePreservesAntiDiagonalIdentity(t *testing.T) {
	for _, ut := range []isdform.UpdateType{
		isdform.UpdateType1, isdform.UpdateType2, isdform.UpdateType3, isdform.UpdateType4,
		isdform.UpdateType10, isdform.UpdateType12, isdform.UpdateType13, isdform.UpdateType14,
	} {
		f := newTestForm(t, int64(ut)+10, 128, 300, 6)
		require.NoError(t, f.Update(-1, ut))

		ht := f.HT()
		echelonRows := f.EchelonRows()
		for row := 0; row < echelonRows; row++ {
			pivotCol := ht.Cols() - row - 1
			for c := 0; c < ht.Cols(); c++ {
				want := c == pivotCol
				require.Equal(t, want, ht.Row(row).GetBit(c), "updatetype %d row %d col %d", ut, row, c)
			}
		}
	}
}

func TestUpdateUnknownType(t *testing.T) {
	f := newTestForm(t, 3, 128, 300, 5)
	err := f.Update(1, isdform.UpdateType(999))
	require.ErrorIs(t, err, isdform.ErrUnknownUpdateType)
}

func TestResetRejectsBadL(t *testing.T) {
	r := rand.New(rand.NewSource(4))
	H := randomFullRankH(t, r, 10, 20)
	S, err := gf2.NewOwnedVector(10)
	require.NoError(t, err)
	_, err = isdform.New(H.View(), S.View(), 10, r)
	require.ErrorIs(t, err, isdform.ErrBadIndex)
}

func TestH2TAndH1TrestColumnsPartitionH12T(t *testing.T) {
	f := newTestForm(t, 5, 128, 300, 5)
	require.Equal(t, 5, f.H2T().Cols())
	// H1Trest starts after H2T's columns padded up to a word boundary, not
	// immediately after H2T's l raw columns.
	require.Equal(t, f.H12T().Cols()-gf2.WordBits, f.H1Trest().Cols())
	require.Equal(t, f.H12T().Rows(), f.H2T().Rows())
	require.Equal(t, f.H12T().Rows(), f.H1Trest().Rows())
}

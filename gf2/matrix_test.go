package gf2_test

import (
	"math/rand"
	"testing"

	"github.com/gf2decode/isd/gf2"
	"github.com/stretchr/testify/require"
)

func randomOwnedMatrix(t *testing.T, r *rand.Rand, rows, cols int) *gf2.OwnedMatrix {
	t.Helper()
	m, err := gf2.NewOwnedMatrix(rows, cols)
	require.NoError(t, err)
	mv := m.Mutable()
	for row := 0; row < rows; row++ {
		for c := 0; c < cols; c++ {
			if r.Intn(2) == 1 {
				mv.Row(row).SetBit(c)
			}
		}
	}
	return m
}

// TestTransposeInvolution checks M == transpose(transpose(M)) for a range of
// dimensions, as required by §8's round-trip property.
func TestTransposeInvolution(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	dims := []struct{ rows, cols int }{
		{1, 1}, {1, 64}, {64, 1}, {63, 65}, {64, 64}, {100, 37}, {197, 197}, {130, 260},
	}
	for _, d := range dims {
		m := randomOwnedMatrix(t, r, d.rows, d.cols)

		tr, err := gf2.NewOwnedMatrix(d.cols, d.rows)
		require.NoError(t, err)
		require.NoError(t, gf2.MTranspose(tr.Mutable(), m.View()))

		back, err := gf2.NewOwnedMatrix(d.rows, d.cols)
		require.NoError(t, err)
		require.NoError(t, gf2.MTranspose(back.Mutable(), tr.View()))

		for row := 0; row < d.rows; row++ {
			for c := 0; c < d.cols; c++ {
				require.Equal(t, m.Mutable().Row(row).GetBit(c), back.Mutable().Row(row).GetBit(c),
					"mismatch at (%d,%d) for dims %v", row, c, d)
			}
		}
	}
}

// TestTransposeDimensionMismatch ensures shape validation fires before any writes.
func TestTransposeDimensionMismatch(t *testing.T) {
	m, err := gf2.NewOwnedMatrix(3, 5)
	require.NoError(t, err)
	dst, err := gf2.NewOwnedMatrix(3, 5)
	require.NoError(t, err)
	err = gf2.MTranspose(dst.Mutable(), m.View())
	require.ErrorIs(t, err, gf2.ErrDimensionMismatch)
}

// TestSwapColumnsInvolution checks swapcolumns(M,a,b); swapcolumns(M,a,b) == M.
func TestSwapColumnsInvolution(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	m := randomOwnedMatrix(t, r, 20, 140)

	snapshot, err := gf2.NewOwnedMatrix(20, 140)
	require.NoError(t, err)
	for row := 0; row < 20; row++ {
		require.NoError(t, gf2.VCopy(snapshot.Mutable().Row(row), m.Mutable().Row(row).View()))
	}

	require.NoError(t, gf2.MSwapColumns(m.Mutable(), 3, 101))
	require.NoError(t, gf2.MSwapColumns(m.Mutable(), 3, 101))

	for row := 0; row < 20; row++ {
		for c := 0; c < 140; c++ {
			require.Equal(t, snapshot.Mutable().Row(row).GetBit(c), m.Mutable().Row(row).GetBit(c))
		}
	}
}

// TestEchelonizeFullRank checks that a full-rank 64x128 matrix echelonizes
// to rank 64 with an identity on the left 64 columns.
func TestEchelonizeFullRank(t *testing.T) {
	r := rand.New(rand.NewSource(99))
	m, err := gf2.NewOwnedMatrix(64, 128)
	require.NoError(t, err)
	mv := m.Mutable()
	// left 64x64 block = identity, right block = random: guarantees full rank
	for row := 0; row < 64; row++ {
		mv.Row(row).SetBit(row)
		for c := 64; c < 128; c++ {
			if r.Intn(2) == 1 {
				mv.Row(row).SetBit(c)
			}
		}
	}
	rank, err := gf2.Echelonize(mv, 0, 128, 0)
	require.NoError(t, err)
	require.Equal(t, 64, rank)
	for row := 0; row < 64; row++ {
		for c := 0; c < 64; c++ {
			want := row == c
			require.Equal(t, want, mv.Row(row).GetBit(c))
		}
	}
}

// TestEchelonizeIdempotent checks echelonize(echelonize(M)) == echelonize(M).
func TestEchelonizeIdempotent(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	m := randomOwnedMatrix(t, r, 30, 50)
	_, err := gf2.Echelonize(m.Mutable(), 0, 50, 0)
	require.NoError(t, err)

	snapshot, err := gf2.NewOwnedMatrix(30, 50)
	require.NoError(t, err)
	for row := 0; row < 30; row++ {
		require.NoError(t, gf2.VCopy(snapshot.Mutable().Row(row), m.Mutable().Row(row).View()))
	}

	rank2, err := gf2.Echelonize(m.Mutable(), 0, 50, 0)
	require.NoError(t, err)
	rank1, err := gf2.Echelonize(snapshot.Mutable(), 0, 50, 0)
	require.NoError(t, err)
	require.Equal(t, rank1, rank2)
	for row := 0; row < 30; row++ {
		for c := 0; c < 50; c++ {
			require.Equal(t, snapshot.Mutable().Row(row).GetBit(c), m.Mutable().Row(row).GetBit(c))
		}
	}
}

// TestEchelonizeColRevAntiDiagonal checks the anti-diagonal identity property
// used by the ISD-form maintainer.
func TestEchelonizeColRevAntiDiagonal(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	m, err := gf2.NewOwnedMatrix(20, 40)
	require.NoError(t, err)
	mv := m.Mutable()
	// ensure a full-rank anti-diagonal-able block: identity reversed + random
	// bits only below each row's anti-diagonal bit, so the block is triangular
	for row := 0; row < 20; row++ {
		mv.Row(row).SetBit(39 - row)
		for c := 20; c < 39-row; c++ {
			if r.Intn(2) == 1 {
				mv.Row(row).SetBit(c)
			}
		}
	}
	rank, err := gf2.EchelonizeColRev(mv, 0, 40, 0)
	require.NoError(t, err)
	require.Equal(t, 20, rank)
	for row := 0; row < 20; row++ {
		for c := 20; c < 40; c++ {
			want := c == 39-row
			require.Equal(t, want, mv.Row(row).GetBit(c))
		}
	}
}

package isd_test

import (
	"math/rand"
	"testing"

	"github.com/gf2decode/isd/gf2"
	"github.com/gf2decode/isd/isd"
	"github.com/gf2decode/isd/subisd"
	"github.com/stretchr/testify/require"
)

// randomFullRankH builds a rows x cols parity-check matrix guaranteed full
// row rank: an identity block in the first `rows` columns plus random
// remaining columns, the same construction isdform's own tests use.
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

// randomWeightVector builds a length-cols vector with exactly `weight`
// distinct bits set at random positions.
func randomWeightVector(t *testing.T, r *rand.Rand, cols, weight int) *gf2.OwnedVector {
	t.Helper()
	v, err := gf2.NewOwnedVector(cols)
	require.NoError(t, err)
	mv := v.Mutable()
	set := make(map[int]bool, weight)
	for len(set) < weight {
		c := r.Intn(cols)
		if !set[c] {
			set[c] = true
			mv.SetBit(c)
		}
	}
	return v
}

// syndromeOf computes H*e^T as a length-H.Rows() vector.
func syndromeOf(t *testing.T, H gf2.Matrix, e gf2.Vector) *gf2.OwnedVector {
	t.Helper()
	s, err := gf2.NewOwnedVector(H.Rows())
	require.NoError(t, err)
	mv := s.Mutable()
	for row := 0; row < H.Rows(); row++ {
		parity := false
		for c := 0; c < H.Cols(); c++ {
			if H.Row(row).GetBit(c) && e.GetBit(c) {
				parity = !parity
			}
		}
		if parity {
			mv.SetBit(row)
		}
	}
	return s
}

// solveWithinBudget runs PrepareLoop then LoopNext up to maxIters times,
// returning true as soon as a solution is found. ISD is inherently
// randomized, so this bounds the search the way a real caller would rather
// than looping forever.
func solveWithinBudget[S subisd.SubISD](t *testing.T, d *isd.Driver[S], maxIters int) bool {
	t.Helper()
	require.NoError(t, d.PrepareLoop())
	for i := 0; i < maxIters; i++ {
		found, err := d.LoopNext()
		require.NoError(t, err)
		if found {
			return true
		}
	}
	return false
}

func TestDriverLeeBrickellFindsPlantedError(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	const n, k, l, w, p = 18, 12, 3, 3, 3
	H := randomFullRankH(t, r, n-k, n)
	e := randomWeightVector(t, r, n, w)
	S := syndromeOf(t, H.View(), e.View())

	d := isd.NewDriver[*subisd.LeeBrickell](subisd.NewLeeBrickell(p), rand.New(rand.NewSource(2)), isd.WithL(l))
	require.NoError(t, d.Initialize(H.View(), S.View(), w))
	require.True(t, solveWithinBudget(t, d, 2000), "expected LeeBrickell to recover a weight-%d error within budget", w)

	sol, err := d.GetSolution()
	require.NoError(t, err)
	require.Equal(t, w, gf2.VHammingWeight(sol))

	ok, err := d.CheckSolution()
	require.NoError(t, err)
	require.True(t, ok)
}

func TestDriverSternDumerFindsPlantedError(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	const n, k, l, w, p = 24, 16, 6, 4, 4
	H := randomFullRankH(t, r, n-k, n)
	e := randomWeightVector(t, r, n, w)
	S := syndromeOf(t, H.View(), e.View())

	d := isd.NewDriver[*subisd.SternDumer](subisd.NewSternDumer(p), rand.New(rand.NewSource(4)), isd.WithL(l))
	require.NoError(t, d.Initialize(H.View(), S.View(), w))
	require.True(t, solveWithinBudget(t, d, 2000), "expected Stern/Dumer to recover a weight-%d error within budget", w)

	sol, err := d.GetSolution()
	require.NoError(t, err)
	require.Equal(t, w, gf2.VHammingWeight(sol))
}

func TestDriverStateMachineRejectsOutOfOrderCalls(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	const n, k, l, w = 12, 8, 2, 1
	H := randomFullRankH(t, r, n-k, n)
	e := randomWeightVector(t, r, n, w)
	S := syndromeOf(t, H.View(), e.View())

	d := isd.NewDriver[*subisd.Prange](subisd.NewPrange(), rand.New(rand.NewSource(6)), isd.WithL(0))
	require.Equal(t, isd.StateFresh, d.State())

	_, err := d.LoopNext()
	require.ErrorIs(t, err, isd.ErrWrongState)

	require.NoError(t, d.Initialize(H.View(), S.View(), w))
	require.Equal(t, isd.StateInitialized, d.State())

	err = d.PrepareLoop()
	require.NoError(t, err)
	require.Equal(t, isd.StateLooping, d.State())

	_, err = d.GetSolution()
	require.ErrorIs(t, err, isd.ErrNoSolution)
}

func TestParseOptionsNegationOnlyAppliesToVerifySolution(t *testing.T) {
	_, err := isd.ParseOptions(map[string]string{"no-l": "4"})
	require.Error(t, err)

	opts, err := isd.ParseOptions(map[string]string{"no-verifysolution": ""})
	require.NoError(t, err)
	require.Len(t, opts, 1)
}

func TestParseOptionsRejectsUnknownKey(t *testing.T) {
	_, err := isd.ParseOptions(map[string]string{"bogus": "1"})
	require.Error(t, err)
}

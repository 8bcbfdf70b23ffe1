package bitfield_test

import (
	"testing"

	"github.com/gf2decode/isd/bitfield"
	"github.com/stretchr/testify/require"
)

func TestResizeRejectsSmallBitfield(t *testing.T) {
	b := bitfield.New(false, false)
	err := b.Resize(4, 0, 0)
	require.ErrorIs(t, err, bitfield.ErrAddressBitsTooSmall)
}

func TestResizeRejectsSmallFilter(t *testing.T) {
	b := bitfield.New(true, false)
	err := b.Resize(10, 4, 0)
	require.ErrorIs(t, err, bitfield.ErrFilterAddressBitsTooSmall)
}

func TestStagedCollisionRoundTrip(t *testing.T) {
	b := bitfield.New(true, true)
	require.NoError(t, b.Resize(20, 10, 10))

	l1vals := []uint64{5, 17, 900000, 123456}
	for _, v := range l1vals {
		b.Stage1(v)
	}

	// L2 values that collide with every L1 value, plus one that doesn't.
	for _, v := range l1vals {
		require.True(t, b.Stage2(v))
	}
	require.False(t, b.Stage2(999999999))

	for _, v := range l1vals {
		require.True(t, b.Stage3(v))
	}
	require.False(t, b.Stage3(42))
}

func TestClearResetsState(t *testing.T) {
	b := bitfield.New(false, false)
	require.NoError(t, b.Resize(10, 0, 0))
	b.Stage1(7)
	require.True(t, b.Stage2(7))
	b.Clear()
	require.False(t, b.Stage2(7))
}

func TestNoFiltersStillWork(t *testing.T) {
	b := bitfield.New(false, false)
	require.NoError(t, b.Resize(12, 0, 0))
	b.Stage1(3)
	require.True(t, b.Stage2(3))
	require.True(t, b.Stage3(3))
}

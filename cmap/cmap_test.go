package cmap_test

import (
	"testing"

	"github.com/gf2decode/isd/cmap"
	"github.com/stretchr/testify/require"
)

func TestInsertAndMatch(t *testing.T) {
	m := cmap.New(0, 0)
	require.NoError(t, m.Reserve(100, 0))

	for i := uint64(0); i < 50; i++ {
		require.True(t, m.Insert(i, i*10))
	}
	require.Equal(t, 50, m.Size())

	for i := uint64(0); i < 50; i++ {
		var got []uint64
		m.Match(i, func(v uint64) { got = append(got, v) })
		require.Equal(t, []uint64{i * 10}, got)
	}
}

func TestDuplicateKeysAllStored(t *testing.T) {
	m := cmap.New(0, 0)
	require.NoError(t, m.Reserve(20, 0))
	require.True(t, m.Insert(7, 1))
	require.True(t, m.Insert(7, 2))
	require.True(t, m.Insert(7, 3))

	var got []uint64
	m.Match(7, func(v uint64) { got = append(got, v) })
	require.ElementsMatch(t, []uint64{1, 2, 3}, got)
}

func TestMatchMissingKey(t *testing.T) {
	m := cmap.New(0, 0)
	require.NoError(t, m.Reserve(20, 0))
	require.True(t, m.Insert(1, 1))
	var got []uint64
	m.Match(999, func(v uint64) { got = append(got, v) })
	require.Empty(t, got)
}

func TestRehashPreservesContents(t *testing.T) {
	m := cmap.New(0, 0)
	require.NoError(t, m.Reserve(10, 0))
	for i := uint64(0); i < 10; i++ {
		require.True(t, m.Insert(i, i))
	}
	ok, err := m.Rehash(1000)
	require.NoError(t, err)
	require.True(t, ok)
	for i := uint64(0); i < 10; i++ {
		var got []uint64
		m.Match(i, func(v uint64) { got = append(got, v) })
		require.Equal(t, []uint64{i}, got)
	}
}

func TestClear(t *testing.T) {
	m := cmap.New(0, 0)
	require.NoError(t, m.Reserve(10, 0))
	m.Insert(1, 1)
	m.Clear()
	require.Equal(t, 0, m.Size())
	var got []uint64
	m.Match(1, func(v uint64) { got = append(got, v) })
	require.Empty(t, got)
}

// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package store_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/BoostyLabs/ord-index/internal/store"
)

func newBST() *store.BST {
	s := store.New(store.NewMemEngine())
	return store.NewBST(s.Root("/bst/"))
}

func TestBST_SeekAroundInsertedKeys(t *testing.T) {
	bst := newBST()

	keys := [][]byte{
		{0x01},
		{0x01, 0x02},
		{0x05},
		{0x05, 0x00, 0xFF},
		{0xFF},
	}
	for _, k := range keys {
		require.NoError(t, bst.Set(k, []byte{1}))
	}

	sorted := append([][]byte(nil), keys...)
	sort.Slice(sorted, func(i, j int) bool {
		return string(sorted[i]) < string(sorted[j])
	})

	for i, k := range sorted {
		t.Run(string(rune(i)), func(t *testing.T) {
			pred := predecessorProbe(k)
			got, ok := bst.SeekGreater(pred)
			require.True(t, ok)
			require.Equal(t, k, got)

			succ := successorProbe(k)
			got, ok = bst.SeekLower(succ)
			require.True(t, ok)
			require.Equal(t, k, got)
		})
	}
}

func TestBST_DeleteRemovesFromSeek(t *testing.T) {
	bst := newBST()

	require.NoError(t, bst.Set([]byte{0x10}, []byte{1}))
	require.NoError(t, bst.Set([]byte{0x20}, []byte{1}))

	require.NoError(t, bst.Delete([]byte{0x10}))

	got, ok := bst.SeekGreater([]byte{0x00})
	require.True(t, ok)
	require.Equal(t, []byte{0x20}, got)

	_, ok = bst.SeekLower([]byte{0x11})
	require.False(t, ok)
}

func TestBST_GetRoundTrip(t *testing.T) {
	bst := newBST()

	require.NoError(t, bst.Set([]byte("key"), []byte("value")))
	require.Equal(t, []byte("value"), bst.Get([]byte("key")))

	require.NoError(t, bst.Delete([]byte("key")))
	require.Nil(t, bst.Get([]byte("key")))
}

// predecessorProbe returns a byte string immediately preceding k in
// byte-lex order, suitable as a SeekGreater start.
func predecessorProbe(k []byte) []byte {
	if len(k) == 0 {
		return nil
	}

	pred := append([]byte(nil), k...)
	last := len(pred) - 1
	if pred[last] == 0 {
		return pred[:last]
	}

	pred[last]--
	return append(pred, 0xFF)
}

// successorProbe returns a byte string immediately following k in
// byte-lex order, suitable as a SeekLower start.
func successorProbe(k []byte) []byte {
	succ := append([]byte(nil), k...)
	return append(succ, 0x00)
}

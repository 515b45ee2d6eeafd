// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package store_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/BoostyLabs/ord-index/internal/store"
)

func TestPointer_SelectIsLengthPrefixed(t *testing.T) {
	s := store.New(store.NewMemEngine())
	root := s.Root("/root/")

	// Select("ab") and Select("a")+Keyword("b") collide if length is not
	// prefixed; the length prefix must make them distinct keys.
	require.NoError(t, root.Select([]byte("ab")).Set([]byte("v1")))
	require.NoError(t, root.Select([]byte("a")).Keyword("b").Set([]byte("v2")))

	require.Equal(t, []byte("v1"), root.Select([]byte("ab")).Get())
	require.Equal(t, []byte("v2"), root.Select([]byte("a")).Keyword("b").Get())
}

func TestPointer_GetAbsentIsEmpty(t *testing.T) {
	s := store.New(store.NewMemEngine())
	root := s.Root("/root/")

	require.Empty(t, root.Select([]byte("missing")).Get())
	require.False(t, root.Select([]byte("missing")).Exists())
}

func TestPointer_AppendAndGetList(t *testing.T) {
	s := store.New(store.NewMemEngine())
	ptr := s.Root("/list/").Select([]byte("k"))

	require.NoError(t, ptr.Append([]byte{1, 2, 3, 4}))
	require.NoError(t, ptr.Append([]byte{5, 6, 7, 8}))

	chunks := ptr.GetList(4)
	require.Equal(t, [][]byte{{1, 2, 3, 4}, {5, 6, 7, 8}}, chunks)
}

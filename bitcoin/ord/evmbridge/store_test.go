// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package evmbridge_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/BoostyLabs/ord-index/bitcoin/ord/evmbridge"
	"github.com/BoostyLabs/ord-index/internal/store"
	"github.com/BoostyLabs/ord-index/internal/tables"
)

func newEVMStore(t *testing.T) *evmbridge.Store {
	t.Helper()
	s := store.New(store.NewMemEngine())
	return evmbridge.NewStore(tables.New(s))
}

func TestStore_AccountRoundTrip(t *testing.T) {
	s := newEVMStore(t)

	addr := evmbridge.Address{0x01}
	info := &evmbridge.AccountInfo{Nonce: 3, Balance: []byte{0x0A}}
	require.NoError(t, s.SetAccount(addr, info))

	got, ok, err := s.Account(addr)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, info.Nonce, got.Nonce)
}

func TestStore_SelfdestructInvalidatesStorage(t *testing.T) {
	s := newEVMStore(t)

	addr := evmbridge.Address{0x02}
	slot := evmbridge.Hash{0x01}
	require.NoError(t, s.SetStorage(addr, slot, []byte{0xFF}))

	val, err := s.Storage(addr, slot)
	require.NoError(t, err)
	require.Equal(t, []byte{0xFF}, val)

	require.NoError(t, s.DeleteAccount(addr))

	val, err = s.Storage(addr, slot)
	require.NoError(t, err)
	require.Empty(t, val)

	_, ok, err := s.Account(addr)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestStore_BlockHashRoundTrip(t *testing.T) {
	s := newEVMStore(t)

	hash := evmbridge.Hash{0x01, 0x02}
	require.NoError(t, s.SetBlockHash(840000, hash))

	got, ok, err := s.BlockHash(840000)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, hash, got)
}

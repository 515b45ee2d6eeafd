// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package brc20_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/BoostyLabs/ord-index/bitcoin/ord/brc20"
	"github.com/BoostyLabs/ord-index/internal/store"
	"github.com/BoostyLabs/ord-index/internal/tables"
)

func newLedger(t *testing.T) *brc20.Ledger {
	t.Helper()
	s := store.New(store.NewMemEngine())
	catalog := tables.New(s)
	return brc20.NewLedger(catalog)
}

func TestLedger_DeployMintTransferClaim(t *testing.T) {
	ledger := newLedger(t)

	deploy := brc20.Operation{Kind: brc20.KindDeploy, Ticker: "ordi", MaxSupply: 1000, LimitPerMint: 100, Decimals: 18}
	require.NoError(t, ledger.Deploy(deploy, "i1"))

	mint := brc20.Operation{Kind: brc20.KindMint, Ticker: "ordi", Amount: 100}
	require.NoError(t, ledger.Mint(mint, "alice"))

	transfer := brc20.Operation{Kind: brc20.KindTransfer, Ticker: "ordi", Amount: 40}
	require.NoError(t, ledger.InscribeTransfer(transfer, "alice", "i2"))

	pending, ok, err := ledger.PendingTransfer("i2")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(40), pending.Amount)
	require.Equal(t, "alice", pending.Sender)

	require.NoError(t, ledger.ClaimTransfer("i2", "bob"))

	_, ok, err = ledger.PendingTransfer("i2")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestLedger_MintExceedingLimitIsNoOp(t *testing.T) {
	ledger := newLedger(t)

	deploy := brc20.Operation{Kind: brc20.KindDeploy, Ticker: "ordi", MaxSupply: 1000, LimitPerMint: 100, Decimals: 18}
	require.NoError(t, ledger.Deploy(deploy, "i1"))

	mint := brc20.Operation{Kind: brc20.KindMint, Ticker: "ordi", Amount: 101}
	require.NoError(t, ledger.Mint(mint, "alice"))
}

func TestLedger_TransferExceedingAvailableIsNoOp(t *testing.T) {
	ledger := newLedger(t)

	deploy := brc20.Operation{Kind: brc20.KindDeploy, Ticker: "ordi", MaxSupply: 1000, LimitPerMint: 100, Decimals: 18}
	require.NoError(t, ledger.Deploy(deploy, "i1"))
	mint := brc20.Operation{Kind: brc20.KindMint, Ticker: "ordi", Amount: 50}
	require.NoError(t, ledger.Mint(mint, "alice"))

	transfer := brc20.Operation{Kind: brc20.KindTransfer, Ticker: "ordi", Amount: 100}
	require.NoError(t, ledger.InscribeTransfer(transfer, "alice", "i2"))

	_, ok, err := ledger.PendingTransfer("i2")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestParseOperation(t *testing.T) {
	op, ok := brc20.ParseOperation([]byte(`{"p":"brc-20","op":"deploy","tick":"ordi","max":"1000","lim":"100"}`))
	require.True(t, ok)
	require.Equal(t, brc20.KindDeploy, op.Kind)
	require.Equal(t, uint64(1000), op.MaxSupply)
	require.Equal(t, uint64(100), op.LimitPerMint)
	require.Equal(t, uint8(18), op.Decimals)

	_, ok = brc20.ParseOperation([]byte(`not json`))
	require.False(t, ok)

	_, ok = brc20.ParseOperation([]byte(`{"p":"brc-20","op":"burn","tick":"ordi"}`))
	require.False(t, ok)
}

// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package satrange_test

import (
	"testing"

	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/require"

	"github.com/BoostyLabs/ord-index/bitcoin/ord/satrange"
	"github.com/BoostyLabs/ord-index/internal/store"
	"github.com/BoostyLabs/ord-index/internal/tables"
)

func newTracker(t *testing.T) *satrange.Tracker {
	t.Helper()
	s := store.New(store.NewMemEngine())
	return satrange.NewTracker(tables.New(s))
}

func TestSubsidy_Halvings(t *testing.T) {
	require.EqualValues(t, 50*100_000_000, satrange.Subsidy(0))
	require.EqualValues(t, 25*100_000_000, satrange.Subsidy(210_000))
	require.EqualValues(t, 0, satrange.Subsidy(210_000*64))
}

func TestFirstSatOfBlock_Genesis(t *testing.T) {
	require.EqualValues(t, 0, satrange.FirstSatOfBlock(0))
	require.EqualValues(t, satrange.Subsidy(0), satrange.FirstSatOfBlock(1))
}

func TestRange_BytesRoundTrip(t *testing.T) {
	r := satrange.Range{Start: 100, End: 250}
	got, err := satrange.RangeFromBytes(r.Bytes())
	require.NoError(t, err)
	require.Equal(t, r, got)
	require.EqualValues(t, 150, r.Size())
}

func TestTracker_ProcessCoinbaseThenSpend(t *testing.T) {
	tr := newTracker(t)

	coinbase := &wire.MsgTx{
		TxIn:  []*wire.TxIn{{PreviousOutPoint: wire.OutPoint{Index: 0xffffffff}}},
		TxOut: []*wire.TxOut{{Value: 50 * 100_000_000}},
	}
	require.NoError(t, tr.ProcessCoinbase(coinbase, 0, nil))

	coinbaseOut := wire.OutPoint{Hash: coinbase.TxHash(), Index: 0}
	sat, ok := tr.SatAt(coinbaseOut, 0)
	require.True(t, ok)
	require.EqualValues(t, 0, sat)

	spend := &wire.MsgTx{
		TxIn: []*wire.TxIn{{PreviousOutPoint: coinbaseOut}},
		TxOut: []*wire.TxOut{
			{Value: 100_000_000},
			{Value: 49 * 100_000_000},
		},
	}
	fees, err := tr.ProcessTransaction(spend)
	require.NoError(t, err)
	require.Empty(t, fees)

	firstOut := wire.OutPoint{Hash: spend.TxHash(), Index: 0}
	sat, ok = tr.SatAt(firstOut, 0)
	require.True(t, ok)
	require.EqualValues(t, 0, sat)

	secondOut := wire.OutPoint{Hash: spend.TxHash(), Index: 1}
	sat, ok = tr.SatAt(secondOut, 0)
	require.True(t, ok)
	require.EqualValues(t, 100_000_000, sat)

	_, ok = tr.SatAt(coinbaseOut, 0)
	require.False(t, ok)
}

func TestTracker_ProcessTransactionLeavesFeeRange(t *testing.T) {
	tr := newTracker(t)

	coinbase := &wire.MsgTx{
		TxIn:  []*wire.TxIn{{PreviousOutPoint: wire.OutPoint{Index: 0xffffffff}}},
		TxOut: []*wire.TxOut{{Value: 1000}},
	}
	require.NoError(t, tr.ProcessCoinbase(coinbase, 0, nil))

	in := wire.OutPoint{Hash: coinbase.TxHash(), Index: 0}
	spend := &wire.MsgTx{
		TxIn:  []*wire.TxIn{{PreviousOutPoint: in}},
		TxOut: []*wire.TxOut{{Value: 900}},
	}
	fees, err := tr.ProcessTransaction(spend)
	require.NoError(t, err)
	require.Len(t, fees, 1)
	require.EqualValues(t, 100, fees[0].Size())
}

// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

// Package satrange tracks which satoshis live in which output, across
// blocks, so inscriptions can be located by sat number rather than just
// by satpoint. This is the full sat-range assignment ord performs (new
// subsidy sats created by the coinbase, transaction fees recycled as
// coinbase sats, and every spend redistributing its inputs' ranges
// across its outputs by value) rather than the single-block, always-
// (0,0) placeholder the original indexer stubs out.
package satrange

import (
	"encoding/binary"
	"fmt"

	"github.com/btcsuite/btcd/wire"

	"github.com/BoostyLabs/ord-index/internal/store"
	"github.com/BoostyLabs/ord-index/internal/tables"
)

const (
	initialSubsidy   uint64 = 50 * 100_000_000
	blocksPerHalving uint32 = 210_000
	maxHalvings             = 64
)

// Subsidy returns the coinbase subsidy, in satoshis, paid at height.
func Subsidy(height uint32) uint64 {
	halvings := height / blocksPerHalving
	if halvings >= maxHalvings {
		return 0
	}

	return initialSubsidy >> halvings
}

// FirstSatOfBlock returns the ordinal number of the first sat minted at
// height: the cumulative subsidy of every block before it.
func FirstSatOfBlock(height uint32) uint64 {
	var total uint64

	halvings := height / blocksPerHalving
	for epoch := uint32(0); epoch < halvings; epoch++ {
		subsidy := initialSubsidy >> epoch
		if subsidy == 0 {
			break
		}
		total += subsidy * uint64(blocksPerHalving)
	}

	total += uint64(height%blocksPerHalving) * Subsidy(height)

	return total
}

// Range is a half-open interval [Start, End) of sat ordinals.
type Range struct {
	Start uint64
	End   uint64
}

// Size returns the number of sats in r.
func (r Range) Size() uint64 {
	return r.End - r.Start
}

const rangeByteLen = 16

// Bytes encodes r as its fixed 16-byte little-endian form.
func (r Range) Bytes() []byte {
	buf := make([]byte, rangeByteLen)
	binary.LittleEndian.PutUint64(buf[:8], r.Start)
	binary.LittleEndian.PutUint64(buf[8:], r.End)

	return buf
}

// RangeFromBytes decodes the form written by Range.Bytes.
func RangeFromBytes(data []byte) (Range, error) {
	if len(data) != rangeByteLen {
		return Range{}, fmt.Errorf("satrange: invalid range length %d", len(data))
	}

	return Range{
		Start: binary.LittleEndian.Uint64(data[:8]),
		End:   binary.LittleEndian.Uint64(data[8:]),
	}, nil
}

// Tracker persists, per unspent output, the list of sat ranges it
// holds, and redistributes them across outputs as each transaction
// spends its inputs.
type Tracker struct {
	outpointRanges store.Pointer
}

// NewTracker builds a Tracker over catalog's sat-range table.
func NewTracker(catalog *tables.Catalog) *Tracker {
	return &Tracker{outpointRanges: catalog.OutpointToRanges}
}

func outpointKey(op wire.OutPoint) []byte {
	key := make([]byte, 36)
	copy(key[:32], op.Hash[:])
	binary.LittleEndian.PutUint32(key[32:], op.Index)

	return key
}

func (t *Tracker) rangesFor(op wire.OutPoint) []Range {
	chunks := t.outpointRanges.Select(outpointKey(op)).GetList(rangeByteLen)
	ranges := make([]Range, 0, len(chunks))
	for _, chunk := range chunks {
		r, err := RangeFromBytes(chunk)
		if err != nil {
			continue
		}
		ranges = append(ranges, r)
	}

	return ranges
}

func (t *Tracker) setRanges(op wire.OutPoint, ranges []Range) error {
	buf := make([]byte, 0, len(ranges)*rangeByteLen)
	for _, r := range ranges {
		buf = append(buf, r.Bytes()...)
	}

	return t.outpointRanges.Select(outpointKey(op)).Set(buf)
}

func (t *Tracker) clearRanges(op wire.OutPoint) error {
	return t.outpointRanges.Select(outpointKey(op)).Delete()
}

// SatAt returns the sat ordinal riding at offset within op's currently
// held ranges, without consuming them. Call this before ProcessTransaction
// consumes op as an input: once spent, op's ranges are gone.
func (t *Tracker) SatAt(op wire.OutPoint, offset uint64) (uint64, bool) {
	var cumulative uint64
	for _, r := range t.rangesFor(op) {
		size := r.Size()
		if offset < cumulative+size {
			return r.Start + (offset - cumulative), true
		}
		cumulative += size
	}

	return 0, false
}

// distribute consumes pool (a flat, ordered list of sat ranges) across
// tx's outputs by value, persisting each output's assigned ranges, and
// returns whatever ranges were left over once every output was filled
// (representing a fee, when pool came from spent inputs, or miner-
// unclaimed — lost — sats, when pool is the coinbase's own issuance).
func distribute(pool []Range, txHash [32]byte, outputs []*wire.TxOut, save func(op wire.OutPoint, ranges []Range) error) ([]Range, error) {
	cursor := 0
	var posInCursor uint64

	for vout, out := range outputs {
		remaining := uint64(out.Value)
		var assigned []Range

		for remaining > 0 && cursor < len(pool) {
			cur := pool[cursor]
			avail := cur.Size() - posInCursor
			take := avail
			if take > remaining {
				take = remaining
			}

			assigned = append(assigned, Range{Start: cur.Start + posInCursor, End: cur.Start + posInCursor + take})
			posInCursor += take
			remaining -= take

			if posInCursor >= cur.Size() {
				cursor++
				posInCursor = 0
			}
		}

		if len(assigned) == 0 {
			continue
		}

		op := wire.OutPoint{Hash: txHash, Index: uint32(vout)}
		if err := save(op, assigned); err != nil {
			return nil, err
		}
	}

	var leftover []Range
	if cursor < len(pool) {
		if posInCursor > 0 {
			cur := pool[cursor]
			leftover = append(leftover, Range{Start: cur.Start + posInCursor, End: cur.End})
			cursor++
		}
		leftover = append(leftover, pool[cursor:]...)
	}

	return leftover, nil
}

// ProcessTransaction consumes tx's inputs' ranges and redistributes them
// across tx's outputs by value. The ranges left over once every output
// is filled are the transaction's fee, in sat-ordinal form, destined for
// the block's coinbase.
func (t *Tracker) ProcessTransaction(tx *wire.MsgTx) ([]Range, error) {
	var pool []Range
	for _, in := range tx.TxIn {
		pool = append(pool, t.rangesFor(in.PreviousOutPoint)...)
		if err := t.clearRanges(in.PreviousOutPoint); err != nil {
			return nil, err
		}
	}

	return distribute(pool, tx.TxHash(), tx.TxOut, t.setRanges)
}

// ProcessCoinbase assigns height's newly minted subsidy range, plus
// every fee range collected from the block's other transactions, across
// the coinbase transaction's outputs. Any sats left unclaimed once every
// output is filled are permanently lost.
func (t *Tracker) ProcessCoinbase(tx *wire.MsgTx, height uint32, feeRanges []Range) error {
	first := FirstSatOfBlock(height)
	pool := append([]Range{{Start: first, End: first + Subsidy(height)}}, feeRanges...)

	_, err := distribute(pool, tx.TxHash(), tx.TxOut, t.setRanges)

	return err
}

// ProcessBlock runs the full per-block assignment: every non-coinbase
// transaction first, collecting their fee ranges, then the coinbase
// transaction last, since its issuance depends on the total fees paid
// by every other transaction in the block.
func (t *Tracker) ProcessBlock(block *wire.MsgBlock, height uint32) error {
	if len(block.Transactions) == 0 {
		return nil
	}

	var feeRanges []Range
	for _, tx := range block.Transactions[1:] {
		fees, err := t.ProcessTransaction(tx)
		if err != nil {
			return err
		}
		feeRanges = append(feeRanges, fees...)
	}

	return t.ProcessCoinbase(block.Transactions[0], height, feeRanges)
}

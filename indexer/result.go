// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package indexer

import "github.com/BoostyLabs/ord-index/bitcoin/ord/inscriptions"

// InscriptionResult records one inscription created or mutated while
// applying a block.
type InscriptionResult struct {
	ID       inscriptions.ID
	Sequence uint32
	Number   int32
	Cursed   bool
	Charms   inscriptions.Charms
}

// TransactionResult records the per-transaction effects ApplyBlock
// produced: inscriptions created by its envelopes, and any BRC-20
// transfer claims settled by its inputs spending a pending-transfer
// inscription's sat.
type TransactionResult struct {
	Txid             string
	Inscriptions     []InscriptionResult
	ClaimedTransfers int
	Fee              uint64
}

// BlockResult summarizes everything ApplyBlock did for one block.
type BlockResult struct {
	Height       uint32
	Transactions []TransactionResult
}

// inscriptionCount returns the total number of inscriptions created in
// the block, used by the nineball-charm check (the 10th new inscription
// in a block, zero-indexed as the 9th, earns CharmNineball per ord's
// own convention).
func (r *BlockResult) inscriptionCount() int {
	total := 0
	for _, tx := range r.Transactions {
		total += len(tx.Inscriptions)
	}

	return total
}

// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package indexer

import (
	"encoding/binary"
	"errors"

	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"

	"github.com/BoostyLabs/ord-index/bitcoin/ord/brc20"
	"github.com/BoostyLabs/ord-index/bitcoin/ord/envelope"
	"github.com/BoostyLabs/ord-index/bitcoin/ord/inscriptions"
	"github.com/BoostyLabs/ord-index/bitcoin/ord/satrange"
)

func outpointKey(op wire.OutPoint) []byte {
	key := make([]byte, 36)
	copy(key[:32], op.Hash[:])
	binary.LittleEndian.PutUint32(key[32:], op.Index)

	return key
}

func sequenceBytes(seq uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], seq)

	return b[:]
}

// ApplyBlock indexes block at height, the six-step contract of
// original_source's index_block carried over in full: it records the
// block's own height/hash mapping, walks every transaction assigning
// and redistributing sat ranges, discovers and persists every
// inscription created by an ord envelope, settles any BRC-20 transfer
// claimed by a spend, updates the height-based inscription index, and
// finally persists the running sequence/blessed/cursed counters so the
// next block continues from where this one left off.
//
// prevOuts, when non-nil, supplies each input's previous output so a
// transaction's fee can be computed directly from value arithmetic;
// when nil, fee falls back to the sat-range tracker's own leftover-range
// accounting, which is exact as long as every spent input's range has
// been tracked since genesis.
func ApplyBlock(ctx *Context, block *wire.MsgBlock, height uint32, prevOuts txscript.PrevOutputFetcher) (*BlockResult, error) {
	blockHash := block.BlockHash()
	if err := ctx.Catalog.HeightToHash.Select(heightKey(height)).Set(blockHash[:]); err != nil {
		return nil, ErrDatabaseError
	}
	if err := ctx.Catalog.HashToHeight.Select(blockHash[:]).Set(heightKey(height)); err != nil {
		return nil, ErrDatabaseError
	}

	timestamp := uint32(block.Header.Timestamp.Unix())
	if err := ctx.Catalog.HeightToTimestamp.Select(heightKey(height)).Set(sequenceBytes(timestamp)); err != nil {
		return nil, ErrDatabaseError
	}

	state := loadState(ctx)
	result := &BlockResult{Height: height}

	var feeRanges []satrange.Range
	for txIndex, tx := range block.Transactions {
		if txIndex == 0 {
			// The coinbase's own sat redistribution is deferred until
			// every other transaction's fee is known, and it creates no
			// inscriptions of its own (original_source's is_cursed_by_context
			// only ever sees coinbase sats arrive already-minted, never
			// spent as an envelope-bearing input).
			continue
		}

		txResult, ranges, err := processTransaction(ctx, &state, tx, txIndex, height, timestamp, prevOuts, result.inscriptionCount())
		if err != nil {
			return nil, err
		}
		feeRanges = append(feeRanges, ranges...)
		result.Transactions = append(result.Transactions, *txResult)
	}

	if len(block.Transactions) > 0 {
		if err := ctx.Sats.ProcessCoinbase(block.Transactions[0], height, feeRanges); err != nil {
			return nil, ErrDatabaseError
		}
	}

	for _, txResult := range result.Transactions {
		for _, inc := range txResult.Inscriptions {
			if err := ctx.Catalog.HeightToInscriptions.Select(heightKey(height)).Append(sequenceBytes(inc.Sequence)); err != nil {
				return nil, ErrDatabaseError
			}
		}
	}

	if err := state.save(ctx); err != nil {
		return nil, ErrDatabaseError
	}

	return result, nil
}

func heightKey(height uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], height)

	return b[:]
}

// processTransaction handles one transaction's inscriptions, sat-range
// bookkeeping, and transfer claims. It returns the leftover ranges
// (the transaction's fee, in sat-ordinal form) for the caller to carry
// into the block's coinbase.
func processTransaction(ctx *Context, state *counters, tx *wire.MsgTx, txIndex int, height uint32, timestamp uint32, prevOuts txscript.PrevOutputFetcher, inscriptionsSoFar int) (*TransactionResult, []satrange.Range, error) {
	result := &TransactionResult{Txid: tx.TxHash().String()}

	claimed, err := applyTransfers(ctx, tx, height)
	if err != nil {
		return nil, nil, err
	}
	result.ClaimedTransfers = claimed

	var inputValue, outputValue uint64
	if prevOuts != nil {
		for _, in := range tx.TxIn {
			if out := prevOuts.FetchPrevOutput(in.PreviousOutPoint); out != nil {
				inputValue += uint64(out.Value)
			}
		}
		for _, out := range tx.TxOut {
			outputValue += uint64(out.Value)
		}
	}

	for inputIndex, in := range tx.TxIn {
		envelopes, err := envelope.ParseEnvelopes(flattenWitness(in.Witness), uint32(inputIndex))
		if err != nil {
			continue
		}
		for envIndex, env := range envelopes {
			inc, err := indexEnvelope(ctx, state, env, indexEnvelopeParams{
				tx:            tx,
				input:         in,
				inputIndex:    inputIndex,
				envelopeIndex: envIndex,
				height:        height,
				timestamp:     timestamp,
				blockOrdinal:  inscriptionsSoFar + len(result.Inscriptions),
			})
			if err != nil {
				if errors.Is(err, ErrDatabaseError) {
					return nil, nil, err
				}
				if ctx.skipLog.shouldLog(result.Txid, inputIndex, envIndex) {
					ctx.Log.Debugf("indexer: skipping envelope in %s input %d: %v", result.Txid, inputIndex, err)
				}
				continue
			}
			if inc != nil {
				result.Inscriptions = append(result.Inscriptions, *inc)
			}
		}
	}

	ranges, err := ctx.Sats.ProcessTransaction(tx)
	if err != nil {
		return nil, nil, ErrDatabaseError
	}

	if prevOuts != nil && inputValue >= outputValue {
		result.Fee = inputValue - outputValue
	} else {
		var total uint64
		for _, r := range ranges {
			total += r.Size()
		}
		result.Fee = total
	}

	return result, ranges, nil
}

// flattenWitness picks the witness element most likely to carry the
// reveal script out of a taproot script-path spend: the second-to-last
// element (the tapscript itself, sitting just before the control block),
// or the sole element if there is only one.
func flattenWitness(witness wire.TxWitness) []byte {
	if len(witness) >= 2 {
		return witness[len(witness)-2]
	}
	if len(witness) == 1 {
		return witness[0]
	}

	return nil
}

type indexEnvelopeParams struct {
	tx            *wire.MsgTx
	input         *wire.TxIn
	inputIndex    int
	envelopeIndex int
	height        uint32
	timestamp     uint32
	// blockOrdinal is which inscription this is within the whole block,
	// counting from 0: it decides the nineball charm.
	blockOrdinal int
}

// indexEnvelope turns one parsed envelope into a persisted inscription
// entry, mirroring original_source's process_inscription_envelope plus
// store_inscription.
func indexEnvelope(ctx *Context, state *counters, env envelope.Envelope, p indexEnvelopeParams) (*InscriptionResult, error) {
	txHash := p.tx.TxHash()
	id := inscriptions.ID{TxID: &txHash, Index: uint32(p.inputIndex)}

	idKey := []byte(id.String())
	if ctx.Catalog.IDToSequence.Select(idKey).Exists() {
		return nil, ErrDuplicateInscription
	}

	satpoint := inscriptions.SatPoint{Outpoint: wire.OutPoint{Hash: txHash, Index: 0}, Offset: 0}
	sat, satKnown := ctx.Sats.SatAt(p.input.PreviousOutPoint, 0)

	reinscription := false
	if satKnown {
		satKey := make([]byte, 8)
		binary.LittleEndian.PutUint64(satKey, sat)
		reinscription = ctx.Catalog.SatToSequence.Select(satKey).Exists()
	}

	contextual := p.inputIndex > 0 || p.envelopeIndex > 0 || env.Stutter
	cursed := env.Cursed() || env.Pushnum || contextual || reinscription
	prejubilee := p.height < ctx.JubileeHeight

	var number int32
	vindicated := false
	if cursed && prejubilee {
		number = state.nextCursed()
	} else {
		number = state.nextBlessed()
		if cursed {
			vindicated = true
		}
	}
	sequence := state.nextSequence()

	fee := uint64(0)
	entry := inscriptions.NewEntry(id, number, sequence, satpoint, p.height, fee, p.timestamp)
	if satKnown {
		entry.Sat = &sat
	}
	if value, ok := env.Value(inscriptions.TagContentType); ok {
		s := string(value)
		entry.ContentType = &s
	}
	if value, ok := env.Value(inscriptions.TagMetaprotocol); ok {
		s := string(value)
		entry.Metaprotocol = &s
	}
	if value, ok := env.Value(inscriptions.TagParent); ok {
		if parent, err := inscriptions.NewIDFromDataPush(value); err == nil {
			entry.Parent = parent
		}
	}
	if value, ok := env.Value(inscriptions.TagDelegate); ok {
		if delegate, err := inscriptions.NewIDFromDataPush(value); err == nil {
			entry.Delegate = delegate
		}
	}
	if value, ok := env.Value(inscriptions.TagPointer); ok {
		var ptr uint64
		for _, b := range value {
			ptr = ptr<<8 | uint64(b)
		}
		entry.Pointer = &ptr
	}
	if len(env.Body) > 0 {
		length := uint64(len(env.Body))
		entry.ContentLength = &length
	} else {
		entry.SetCharm(inscriptions.CharmUnbound)
	}

	if cursed && prejubilee {
		entry.SetCharm(inscriptions.CharmCursed)
	}
	if vindicated {
		entry.SetCharm(inscriptions.CharmVindicated)
	}
	if reinscription {
		entry.SetCharm(inscriptions.CharmReinscription)
	}
	if p.blockOrdinal == 9 {
		entry.SetCharm(inscriptions.CharmNineball)
	}
	if satKnown {
		if charm, ok := inscriptions.RarityFromSat(sat).Charm(); ok {
			entry.SetCharm(charm)
		}
	}

	var ownerScript []byte
	if len(p.tx.TxOut) > 0 {
		ownerScript = p.tx.TxOut[0].PkScript
	}
	metadata, _ := env.Value(inscriptions.TagMetadata)
	runeTag, hasRune := env.Value(inscriptions.TagRune)

	if err := persistEntry(ctx, entry, env.Body, metadata, ownerScript, runeTag, hasRune); err != nil {
		return nil, ErrDatabaseError
	}

	if len(p.tx.TxOut) > 0 {
		applyProtocols(ctx, env.Body, id, p.tx.TxOut[0].PkScript, p.height)
	}

	return &InscriptionResult{ID: id, Sequence: sequence, Number: number, Cursed: cursed, Charms: entry.Charms}, nil
}

// persistEntry writes every table store_inscription touches for a
// freshly created entry: the core seq-keyed mappings, the secondary
// content-type/metaprotocol/txid/address/rune indexes, and the raw
// content/metadata blobs the read API serves back verbatim.
func persistEntry(ctx *Context, entry *inscriptions.Entry, body, metadata, ownerScript, runeTag []byte, hasRune bool) error {
	seqBytes := sequenceBytes(entry.Sequence)
	idKey := []byte(entry.ID.String())

	if err := ctx.Catalog.IDToSequence.Select(idKey).Set(seqBytes); err != nil {
		return err
	}
	if err := ctx.Catalog.SequenceToEntry.Select(seqBytes).Set(entry.Bytes()); err != nil {
		return err
	}

	var numBytes [4]byte
	binary.LittleEndian.PutUint32(numBytes[:], uint32(entry.Number))
	if err := ctx.Catalog.NumberToSequence.Select(numBytes[:]).Set(seqBytes); err != nil {
		return err
	}

	if err := ctx.Catalog.SequenceToSatpoint.Select(seqBytes).Set(entry.SatPoint.Bytes()); err != nil {
		return err
	}

	if entry.Sat != nil {
		satKey := make([]byte, 8)
		binary.LittleEndian.PutUint64(satKey, *entry.Sat)
		if err := ctx.Catalog.SatToSequence.Select(satKey).Set(seqBytes); err != nil {
			return err
		}
		if err := ctx.Catalog.InscriptionToSat.Select(seqBytes).Set(satKey); err != nil {
			return err
		}
		if err := ctx.Catalog.SatToInscriptions.Select(satKey).Append(seqBytes); err != nil {
			return err
		}
	}

	if err := ctx.Catalog.OutpointToList.Select(outpointKey(entry.SatPoint.Outpoint)).Append(seqBytes); err != nil {
		return err
	}

	if entry.ContentType != nil {
		if err := ctx.Catalog.ContentType.Select([]byte(*entry.ContentType)).Append(seqBytes); err != nil {
			return err
		}
	}
	if entry.Metaprotocol != nil {
		if err := ctx.Catalog.Metaprotocol.Select([]byte(*entry.Metaprotocol)).Append(seqBytes); err != nil {
			return err
		}
	}

	txidKey := entry.ID.TxID[:]
	if err := ctx.Catalog.TxidToInscriptions.Select(txidKey).Append(seqBytes); err != nil {
		return err
	}
	if err := ctx.Catalog.InscriptionToTxid.Select(seqBytes).Set(txidKey); err != nil {
		return err
	}

	if len(ownerScript) > 0 {
		if addr, err := brc20.AddressFromPkScript(ownerScript, ctx.ChainParams); err == nil {
			addrKey := []byte(addr)
			if err := ctx.Catalog.AddressToInscriptions.Select(addrKey).Append(seqBytes); err != nil {
				return err
			}
			if err := ctx.Catalog.InscriptionToAddress.Select(seqBytes).Set(addrKey); err != nil {
				return err
			}
		}
	}

	if hasRune {
		if err := ctx.Catalog.RuneToInscriptions.Select(runeTag).Append(seqBytes); err != nil {
			return err
		}
		if err := ctx.Catalog.InscriptionToRune.Select(seqBytes).Set(runeTag); err != nil {
			return err
		}
	}

	if len(body) > 0 {
		if err := ctx.Catalog.Content.Select(seqBytes).Set(body); err != nil {
			return err
		}
	}
	if len(metadata) > 0 {
		if err := ctx.Catalog.Metadata.Select(seqBytes).Set(metadata); err != nil {
			return err
		}
	}

	if entry.Parent != nil {
		parentKey := []byte(entry.Parent.String())
		parentSeq := ctx.Catalog.IDToSequence.Select(parentKey).Get()
		if len(parentSeq) == 4 {
			if err := ctx.Catalog.SequenceToChildren.Select(parentSeq).Append(seqBytes); err != nil {
				return err
			}
			if err := ctx.Catalog.SequenceToParents.Select(seqBytes).Append(parentSeq); err != nil {
				return err
			}
		}
	}

	if entry.Delegate != nil {
		delegateKey := []byte(entry.Delegate.String())
		if err := ctx.Catalog.DelegateToInscriptions.Select(delegateKey).Append(seqBytes); err != nil {
			return err
		}
		if err := ctx.Catalog.InscriptionToDelegate.Select(seqBytes).Set(delegateKey); err != nil {
			return err
		}
	}

	if !ctx.Catalog.Home.Exists() {
		if err := ctx.Catalog.Home.Set(seqBytes); err != nil {
			return err
		}
	}

	return nil
}

// applyProtocols runs body through the BRC-20 ledger and, if wired, the
// programmable BRC-20/EVM bridge. Failures here never fail indexing of
// the inscription itself: a BRC-20/EVM error means this body simply had
// no protocol effect.
func applyProtocols(ctx *Context, body []byte, id inscriptions.ID, ownerScript []byte, height uint32) {
	if len(body) == 0 {
		return
	}

	if op, ok := brc20.ParseOperation(body); ok {
		owner, err := brc20.AddressFromPkScript(ownerScript, ctx.ChainParams)
		if err == nil {
			switch op.Kind {
			case brc20.KindDeploy:
				_ = ctx.Ledger.Deploy(op, id.String())
			case brc20.KindMint:
				_ = ctx.Ledger.Mint(op, owner)
			case brc20.KindTransfer:
				_ = ctx.Ledger.InscribeTransfer(op, owner, id.String())
			}
			_ = ctx.Events.Record(brc20.Event{
				Height:        height,
				Kind:          op.Kind,
				Ticker:        op.Ticker,
				Amount:        op.Amount,
				InscriptionID: id.String(),
				Owner:         owner,
			})
		}
	}

	if ctx.EVM != nil {
		_ = ctx.EVM.IndexBody(body, id.String())
	}
}

// applyTransfers settles any pending BRC-20 transfer inscription that
// rode one of tx's spent inputs: the sat it sits on is assumed, per the
// same offset-zero simplification used for new inscriptions, to land on
// tx's first output.
func applyTransfers(ctx *Context, tx *wire.MsgTx, height uint32) (int, error) {
	if len(tx.TxOut) == 0 {
		return 0, nil
	}

	claimed := 0
	for _, in := range tx.TxIn {
		seqs := ctx.Catalog.OutpointToList.Select(outpointKey(in.PreviousOutPoint)).GetList(4)
		for _, seqBytes := range seqs {
			entryBytes := ctx.Catalog.SequenceToEntry.Select(seqBytes).Get()
			if len(entryBytes) == 0 {
				continue
			}
			entry, err := inscriptions.EntryFromBytes(entryBytes)
			if err != nil {
				continue
			}

			idStr := entry.ID.String()
			info, pending, err := ctx.Ledger.PendingTransfer(idStr)
			if err != nil {
				return claimed, ErrDatabaseError
			}
			if !pending {
				continue
			}

			newOwner, err := brc20.AddressFromPkScript(tx.TxOut[0].PkScript, ctx.ChainParams)
			if err != nil {
				continue
			}
			if err := ctx.Ledger.ClaimTransfer(idStr, newOwner); err != nil {
				return claimed, ErrDatabaseError
			}
			claimed++
			_ = ctx.Events.Record(brc20.Event{
				Height:        height,
				Kind:          brc20.KindClaim,
				Ticker:        info.Ticker,
				Amount:        info.Amount,
				InscriptionID: idStr,
				Owner:         newOwner,
			})

			newOutpoint := wire.OutPoint{Hash: tx.TxHash(), Index: 0}
			entry.SatPoint = inscriptions.SatPoint{Outpoint: newOutpoint, Offset: 0}
			seqKey := sequenceBytes(entry.Sequence)
			if err := ctx.Catalog.SequenceToEntry.Select(seqKey).Set(entry.Bytes()); err != nil {
				return claimed, ErrDatabaseError
			}
			if err := ctx.Catalog.SequenceToSatpoint.Select(seqKey).Set(entry.SatPoint.Bytes()); err != nil {
				return claimed, ErrDatabaseError
			}
			if err := ctx.Catalog.OutpointToList.Select(outpointKey(newOutpoint)).Append(seqKey); err != nil {
				return claimed, ErrDatabaseError
			}
		}
	}

	return claimed, nil
}

// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package api

import (
	"encoding/binary"
	"errors"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"

	"github.com/BoostyLabs/ord-index/bitcoin/ord/brc20"
	"github.com/BoostyLabs/ord-index/bitcoin/ord/evmbridge"
	"github.com/BoostyLabs/ord-index/bitcoin/ord/inscriptions"
	"github.com/BoostyLabs/ord-index/internal/store"
	"github.com/BoostyLabs/ord-index/internal/tables"
)

// ErrNotFound is returned by every get_* method that looked up a single
// record by key and found nothing.
var ErrNotFound = errors.New("api: not found")

// Reader answers every read-only query the indexer supports, over the
// same table catalog ApplyBlock writes to. It never mutates state.
type Reader struct {
	catalog *tables.Catalog
	ledger  *brc20.Ledger
	events  *brc20.EventLog
	evm     *evmbridge.Indexer
}

// NewReader builds a Reader over catalog and its BRC-20/EVM companions.
// evm may be nil if the programmable BRC-20 bridge is not wired.
func NewReader(catalog *tables.Catalog, ledger *brc20.Ledger, events *brc20.EventLog, evm *evmbridge.Indexer) *Reader {
	return &Reader{catalog: catalog, ledger: ledger, events: events, evm: evm}
}

func sequenceBytes(seq uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], seq)

	return b[:]
}

func outpointKey(op wire.OutPoint) []byte {
	key := make([]byte, 36)
	copy(key[:32], op.Hash[:])
	binary.LittleEndian.PutUint32(key[32:], op.Index)

	return key
}

func heightKey(height uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], height)

	return b[:]
}

func readCounter(p store.Pointer) uint32 {
	data := p.Get()
	if len(data) != 4 {
		return 0
	}

	return binary.LittleEndian.Uint32(data)
}

func (r *Reader) entryBySequence(seqBytes []byte) (*inscriptions.Entry, bool, error) {
	data := r.catalog.SequenceToEntry.Select(seqBytes).Get()
	if len(data) == 0 {
		return nil, false, nil
	}

	entry, err := inscriptions.EntryFromBytes(data)
	if err != nil {
		return nil, false, err
	}

	return entry, true, nil
}

func (r *Reader) entriesBySequences(seqs [][]byte) ([]*inscriptions.Entry, error) {
	entries := make([]*inscriptions.Entry, 0, len(seqs))
	for _, seqBytes := range seqs {
		entry, ok, err := r.entryBySequence(seqBytes)
		if err != nil {
			return nil, err
		}
		if ok {
			entries = append(entries, entry)
		}
	}

	return entries, nil
}

func (r *Reader) idsBySequences(seqs [][]byte) ([]*inscriptions.ID, error) {
	ids := make([]*inscriptions.ID, 0, len(seqs))
	for _, seqBytes := range seqs {
		entry, ok, err := r.entryBySequence(seqBytes)
		if err != nil {
			return nil, err
		}
		if ok {
			ids = append(ids, &entry.ID)
		}
	}

	return ids, nil
}

// GetInscription looks up a full entry record by its inscription ID.
func (r *Reader) GetInscription(id *inscriptions.ID) (*inscriptions.Entry, error) {
	seqBytes := r.catalog.IDToSequence.Select([]byte(id.String())).Get()
	if len(seqBytes) != 4 {
		return nil, ErrNotFound
	}

	entry, ok, err := r.entryBySequence(seqBytes)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}

	return entry, nil
}

// GetInscriptionByNumber looks up a full entry record by its blessed
// (non-negative) or cursed (negative) number.
func (r *Reader) GetInscriptionByNumber(number int32) (*inscriptions.Entry, error) {
	var numBytes [4]byte
	binary.LittleEndian.PutUint32(numBytes[:], uint32(number))

	seqBytes := r.catalog.NumberToSequence.Select(numBytes[:]).Get()
	if len(seqBytes) != 4 {
		return nil, ErrNotFound
	}

	entry, ok, err := r.entryBySequence(seqBytes)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}

	return entry, nil
}

// InscriptionFilter narrows GetInscriptions to one secondary index.
// Only one of Height, ContentType, Metaprotocol should be set; Height
// takes priority if more than one is.
type InscriptionFilter struct {
	Height       *uint32
	ContentType  *string
	Metaprotocol *string
}

// GetInscriptions returns one page of entries matching filter, in the
// underlying index's append order (oldest first).
func (r *Reader) GetInscriptions(filter InscriptionFilter, limit, pageNum int) ([]*inscriptions.Entry, Page, error) {
	var seqs [][]byte
	switch {
	case filter.Height != nil:
		seqs = r.catalog.HeightToInscriptions.Select(heightKey(*filter.Height)).GetList(4)
	case filter.ContentType != nil:
		seqs = r.catalog.ContentType.Select([]byte(*filter.ContentType)).GetList(4)
	case filter.Metaprotocol != nil:
		seqs = r.catalog.Metaprotocol.Select([]byte(*filter.Metaprotocol)).GetList(4)
	default:
		// No filter: every sequence number ever assigned, in assignment
		// order. The catalog has no prefix-scan primitive, but sequences
		// are a dense 0..count-1 range, so they can be synthesized
		// directly instead of replayed from an index.
		count := readCounter(r.catalog.CounterSequence)
		seqs = make([][]byte, count)
		for i := uint32(0); i < count; i++ {
			seqs[i] = sequenceBytes(i)
		}
	}

	start, end, page := slicePage(len(seqs), limit, pageNum)
	entries, err := r.entriesBySequences(seqs[start:end])

	return entries, page, err
}

// GetChildren returns the inscription IDs of every child of parent.
func (r *Reader) GetChildren(parent *inscriptions.ID) ([]*inscriptions.ID, error) {
	parentSeq := r.catalog.IDToSequence.Select([]byte(parent.String())).Get()
	if len(parentSeq) != 4 {
		return nil, ErrNotFound
	}

	return r.idsBySequences(r.catalog.SequenceToChildren.Select(parentSeq).GetList(4))
}

// GetParents returns the inscription IDs of every parent of child.
func (r *Reader) GetParents(child *inscriptions.ID) ([]*inscriptions.ID, error) {
	childSeq := r.catalog.IDToSequence.Select([]byte(child.String())).Get()
	if len(childSeq) != 4 {
		return nil, ErrNotFound
	}

	return r.idsBySequences(r.catalog.SequenceToParents.Select(childSeq).GetList(4))
}

// GetChildInscriptions returns the full entry for every child of parent.
func (r *Reader) GetChildInscriptions(parent *inscriptions.ID) ([]*inscriptions.Entry, error) {
	parentSeq := r.catalog.IDToSequence.Select([]byte(parent.String())).Get()
	if len(parentSeq) != 4 {
		return nil, ErrNotFound
	}

	return r.entriesBySequences(r.catalog.SequenceToChildren.Select(parentSeq).GetList(4))
}

// GetParentInscriptions returns the full entry for every parent of child.
func (r *Reader) GetParentInscriptions(child *inscriptions.ID) ([]*inscriptions.Entry, error) {
	childSeq := r.catalog.IDToSequence.Select([]byte(child.String())).Get()
	if len(childSeq) != 4 {
		return nil, ErrNotFound
	}

	return r.entriesBySequences(r.catalog.SequenceToParents.Select(childSeq).GetList(4))
}

// GetContent returns id's content bytes and content type, following a
// delegate if one is set: a delegating inscription's own body is never
// returned by this method, only the delegate's.
func (r *Reader) GetContent(id *inscriptions.ID) ([]byte, string, error) {
	entry, err := r.GetInscription(id)
	if err != nil {
		return nil, "", err
	}

	if entry.Delegate != nil {
		return r.GetContent(entry.Delegate)
	}

	return r.undelegatedContent(entry)
}

// GetUndelegatedContent returns id's own stored body and content type,
// never following a delegate tag even if one is present.
func (r *Reader) GetUndelegatedContent(id *inscriptions.ID) ([]byte, string, error) {
	entry, err := r.GetInscription(id)
	if err != nil {
		return nil, "", err
	}

	return r.undelegatedContent(entry)
}

func (r *Reader) undelegatedContent(entry *inscriptions.Entry) ([]byte, string, error) {
	seqBytes := sequenceBytes(entry.Sequence)
	body := r.catalog.Content.Select(seqBytes).Get()

	var contentType string
	if entry.ContentType != nil {
		contentType = *entry.ContentType
	}

	return body, contentType, nil
}

// GetMetadata returns id's raw CBOR metadata bytes, if any.
func (r *Reader) GetMetadata(id *inscriptions.ID) ([]byte, error) {
	entry, err := r.GetInscription(id)
	if err != nil {
		return nil, err
	}

	return r.catalog.Metadata.Select(sequenceBytes(entry.Sequence)).Get(), nil
}

// SatInfo describes one satoshi's position in the issuance schedule and,
// if known, the first inscription ever made on it.
type SatInfo struct {
	Sat              uint64
	Rarity           string
	FirstInscription *inscriptions.ID
}

// GetSat returns sat's rarity and the ID of the first inscription made
// on it, if any.
func (r *Reader) GetSat(sat uint64) (SatInfo, error) {
	info := SatInfo{Sat: sat, Rarity: inscriptions.RarityFromSat(sat).String()}

	satKey := make([]byte, 8)
	binary.LittleEndian.PutUint64(satKey, sat)
	seqs := r.catalog.SatToInscriptions.Select(satKey).GetList(4)
	if len(seqs) == 0 {
		return info, nil
	}

	entry, ok, err := r.entryBySequence(seqs[0])
	if err != nil {
		return info, err
	}
	if ok {
		info.FirstInscription = &entry.ID
	}

	return info, nil
}

// GetSatInscriptions returns every inscription ever made on sat, in the
// order they were made.
func (r *Reader) GetSatInscriptions(sat uint64) ([]*inscriptions.Entry, error) {
	satKey := make([]byte, 8)
	binary.LittleEndian.PutUint64(satKey, sat)

	return r.entriesBySequences(r.catalog.SatToInscriptions.Select(satKey).GetList(4))
}

// GetSatInscription returns the first inscription made on sat.
func (r *Reader) GetSatInscription(sat uint64) (*inscriptions.Entry, error) {
	entries, err := r.GetSatInscriptions(sat)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrNotFound
	}

	return entries[0], nil
}

// GetUTXO returns the inscription IDs currently sitting on outpoint.
func (r *Reader) GetUTXO(outpoint wire.OutPoint) ([]*inscriptions.ID, error) {
	return r.idsBySequences(r.catalog.OutpointToList.Select(outpointKey(outpoint)).GetList(4))
}

// GetBlockHash returns the hash of the block at height. Named separately
// from GetBlockHashAtHeight to mirror the two distinct read-API entries
// spec.md lists, though both resolve the same way in this indexer.
func (r *Reader) GetBlockHash(height uint32) (chainhash.Hash, error) {
	return r.GetBlockHashAtHeight(height)
}

// GetBlockHashAtHeight returns the hash of the block at height.
func (r *Reader) GetBlockHashAtHeight(height uint32) (chainhash.Hash, error) {
	data := r.catalog.HeightToHash.Select(heightKey(height)).Get()
	if len(data) != chainhash.HashSize {
		return chainhash.Hash{}, ErrNotFound
	}

	var hash chainhash.Hash
	copy(hash[:], data)

	return hash, nil
}

// GetBlockHeight returns the height of the block with the given hash.
func (r *Reader) GetBlockHeight(hash chainhash.Hash) (uint32, error) {
	data := r.catalog.HashToHeight.Select(hash[:]).Get()
	if len(data) != 4 {
		return 0, ErrNotFound
	}

	return binary.BigEndian.Uint32(data), nil
}

// GetBlockTime returns the Unix timestamp of the block at height.
func (r *Reader) GetBlockTime(height uint32) (uint32, error) {
	data := r.catalog.HeightToTimestamp.Select(heightKey(height)).Get()
	if len(data) != 4 {
		return 0, ErrNotFound
	}

	return binary.LittleEndian.Uint32(data), nil
}

// BlockInfo bundles a block's header-derived fields.
type BlockInfo struct {
	Height    uint32
	Hash      chainhash.Hash
	Timestamp uint32
}

// GetBlockInfo returns hash and timestamp for the block at height.
func (r *Reader) GetBlockInfo(height uint32) (BlockInfo, error) {
	hash, err := r.GetBlockHashAtHeight(height)
	if err != nil {
		return BlockInfo{}, err
	}

	timestamp, err := r.GetBlockTime(height)
	if err != nil {
		return BlockInfo{}, err
	}

	return BlockInfo{Height: height, Hash: hash, Timestamp: timestamp}, nil
}

// GetTx returns the IDs of every inscription minted by txid's reveal.
func (r *Reader) GetTx(txid chainhash.Hash) ([]*inscriptions.ID, error) {
	return r.idsBySequences(r.catalog.TxidToInscriptions.Select(txid[:]).GetList(4))
}

// GetBalance returns address's BRC-20 balance for ticker.
func (r *Reader) GetBalance(address, ticker string) (brc20.Balance, error) {
	return r.ledger.Balance(address, ticker)
}

// GetBrc20Events returns every BRC-20 event recorded for heights in
// [from, to].
func (r *Reader) GetBrc20Events(from, to uint32) ([]brc20.Event, error) {
	return r.events.Between(from, to)
}

// ErrEVMNotWired is returned by Call when the reader has no EVM bridge.
var ErrEVMNotWired = errors.New("api: evm bridge not wired")

// Call invokes the EVM contract deployed by inscriptionID with calldata
// against the current snapshot. See evmbridge.Indexer.Call's own doc
// comment for why no return data is available.
func (r *Reader) Call(inscriptionID string, calldata []byte) error {
	if r.evm == nil {
		return ErrEVMNotWired
	}

	contract, ok := r.evm.ContractAddress(inscriptionID)
	if !ok {
		return ErrNotFound
	}

	return r.evm.Call(contract, calldata)
}

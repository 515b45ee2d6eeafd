// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

// Package evmbridge adapts the flat key-value store to the account,
// code, and storage model an EVM-compatible execution engine expects,
// so that "programmable BRC-20" inscriptions (brc20-prog deploy/call
// operations) can run against persisted contract state without the
// indexer depending on any particular EVM implementation directly.
package evmbridge

import (
	"encoding/binary"
	"encoding/json"

	"github.com/BoostyLabs/ord-index/internal/store"
	"github.com/BoostyLabs/ord-index/internal/tables"
)

// Address is a 20-byte EVM account address.
type Address [20]byte

// Hash is a 32-byte EVM word: a code hash, storage slot, or block hash.
type Hash [32]byte

// AccountInfo is the persisted state of one EVM account, independent of
// its storage trie (which is kept separately, keyed by address+slot).
type AccountInfo struct {
	Nonce    uint64 `json:"nonce"`
	Balance  []byte `json:"balance"` // big-endian, unsigned
	CodeHash Hash   `json:"code_hash"`
}

// AccountStore reads and writes per-address account records.
type AccountStore interface {
	Account(addr Address) (*AccountInfo, bool, error)
	SetAccount(addr Address, info *AccountInfo) error
	// DeleteAccount removes addr's account record and invalidates its
	// storage (selfdestruct).
	DeleteAccount(addr Address) error
}

// CodeStore reads and writes contract bytecode, addressed by its hash
// so identical bytecode deployed by multiple contracts is stored once.
type CodeStore interface {
	Code(hash Hash) ([]byte, error)
	SetCode(hash Hash, code []byte) error
}

// StorageStore reads and writes one account's 32-byte storage slots.
type StorageStore interface {
	Storage(addr Address, slot Hash) ([]byte, error)
	SetStorage(addr Address, slot Hash, value []byte) error
}

// BlockHashSource answers the EVM's BLOCKHASH opcode.
type BlockHashSource interface {
	BlockHash(height uint32) (Hash, bool, error)
	SetBlockHash(height uint32, hash Hash) error
}

// Committer is the full read/write surface an Engine needs against
// persisted EVM state.
type Committer interface {
	AccountStore
	CodeStore
	StorageStore
	BlockHashSource
}

// Engine executes EVM bytecode against a Committer. It stands in for
// whatever concrete EVM implementation is wired into the indexer; this
// package only adapts storage, never execution semantics.
type Engine interface {
	// Deploy creates a new contract from code, returning its assigned
	// address. ok is false if deployment reverted or otherwise failed.
	Deploy(db Committer, code []byte) (contract Address, ok bool, err error)
	// Call invokes contract with calldata.
	Call(db Committer, contract Address, calldata []byte) error
}

// Store is the Committer backed by the indexer's flat key-value store.
// Selfdestructed accounts are handled by incrementing a per-account
// epoch counter rather than deleting every storage key individually:
// DeleteAccount bumps the epoch, Storage/SetStorage fold the current
// epoch into their key, so every slot written under a prior epoch
// becomes permanently unreachable in O(1) without an enumeration pass.
type Store struct {
	accounts     store.Pointer
	storage      store.Pointer
	code         store.Pointer
	accountEpoch store.Pointer
	blockHashes  store.Pointer
}

// NewStore builds a Store over catalog's EVM bridge tables.
func NewStore(catalog *tables.Catalog) *Store {
	return &Store{
		accounts:     catalog.EVMAccounts,
		storage:      catalog.EVMStorage,
		code:         catalog.CodeHashToBytecode,
		accountEpoch: catalog.EVMAccountEpoch,
		blockHashes:  catalog.HeightToHash,
	}
}

func (s *Store) epoch(addr Address) uint32 {
	data := s.accountEpoch.Select(addr[:]).Get()
	if len(data) != 4 {
		return 0
	}

	return binary.BigEndian.Uint32(data)
}

// Account implements AccountStore.
func (s *Store) Account(addr Address) (*AccountInfo, bool, error) {
	data := s.accounts.Select(addr[:]).Get()
	if len(data) == 0 {
		return nil, false, nil
	}

	var info AccountInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, false, err
	}

	return &info, true, nil
}

// SetAccount implements AccountStore.
func (s *Store) SetAccount(addr Address, info *AccountInfo) error {
	data, err := json.Marshal(info)
	if err != nil {
		return err
	}

	return s.accounts.Select(addr[:]).Set(data)
}

// DeleteAccount implements AccountStore; see Store's doc comment for
// how selfdestruct's storage sweep is avoided.
func (s *Store) DeleteAccount(addr Address) error {
	if err := s.accounts.Select(addr[:]).Delete(); err != nil {
		return err
	}

	next := s.epoch(addr) + 1
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], next)

	return s.accountEpoch.Select(addr[:]).Set(buf[:])
}

// Code implements CodeStore.
func (s *Store) Code(hash Hash) ([]byte, error) {
	return s.code.Select(hash[:]).Get(), nil
}

// SetCode implements CodeStore.
func (s *Store) SetCode(hash Hash, code []byte) error {
	return s.code.Select(hash[:]).Set(code)
}

func (s *Store) storageKey(addr Address, slot Hash) []byte {
	key := make([]byte, 0, len(addr)+len(slot)+4)
	key = append(key, addr[:]...)
	key = append(key, slot[:]...)

	var epochBytes [4]byte
	binary.BigEndian.PutUint32(epochBytes[:], s.epoch(addr))

	return append(key, epochBytes[:]...)
}

// Storage implements StorageStore.
func (s *Store) Storage(addr Address, slot Hash) ([]byte, error) {
	return s.storage.Select(s.storageKey(addr, slot)).Get(), nil
}

// SetStorage implements StorageStore.
func (s *Store) SetStorage(addr Address, slot Hash, value []byte) error {
	return s.storage.Select(s.storageKey(addr, slot)).Set(value)
}

// BlockHash implements BlockHashSource.
func (s *Store) BlockHash(height uint32) (Hash, bool, error) {
	var h [4]byte
	binary.BigEndian.PutUint32(h[:], height)

	data := s.blockHashes.Select(h[:]).Get()
	if len(data) != 32 {
		return Hash{}, false, nil
	}

	var hash Hash
	copy(hash[:], data)

	return hash, true, nil
}

// SetBlockHash implements BlockHashSource.
func (s *Store) SetBlockHash(height uint32, hash Hash) error {
	var h [4]byte
	binary.BigEndian.PutUint32(h[:], height)

	return s.blockHashes.Select(h[:]).Set(hash[:])
}

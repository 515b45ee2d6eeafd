// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

// Package tables declares the set of named key prefixes shared by every
// component that reads or writes the store (component I of the spec).
package tables

import "github.com/BoostyLabs/ord-index/internal/store"

// Catalog holds one Pointer root per declared table. All components take
// a *Catalog instead of talking to store.Store directly, so every key
// prefix used anywhere in the indexer is declared in exactly one place.
type Catalog struct {
	// Core inscription mappings.
	IDToSequence        store.Pointer
	SequenceToEntry     store.Pointer
	NumberToSequence    store.Pointer
	SequenceToSatpoint  store.Pointer
	SatToSequence       store.Pointer
	OutpointToList      store.Pointer
	SequenceToChildren  store.Pointer
	SequenceToParents   store.Pointer

	// Block indexing.
	HeightToInscriptions store.Pointer
	HeightToHash         store.Pointer
	HashToHeight         store.Pointer
	HeightToTimestamp    store.Pointer

	// Secondary indexes.
	ContentType   store.Pointer
	Metaprotocol  store.Pointer

	// Counters.
	CounterSequence store.Pointer
	CounterBlessed  store.Pointer
	CounterCursed   store.Pointer

	// Special collections.
	Home        store.Pointer
	Collections store.Pointer

	// Sat tracking.
	SatToInscriptions store.Pointer
	InscriptionToSat  store.Pointer
	OutpointToRanges  store.Pointer

	// Transaction tracking.
	TxidToInscriptions store.Pointer
	InscriptionToTxid  store.Pointer

	// Address tracking.
	AddressToInscriptions store.Pointer
	InscriptionToAddress  store.Pointer

	// Rune tracking.
	RuneToInscriptions store.Pointer
	InscriptionToRune  store.Pointer

	// Content storage.
	Content  store.Pointer
	Metadata store.Pointer

	// Delegation tracking.
	DelegateToInscriptions store.Pointer
	InscriptionToDelegate  store.Pointer

	// BRC-20.
	Brc20Tickers       store.Pointer
	Brc20Balances      store.Pointer
	Brc20Transferable  store.Pointer
	Brc20Events        store.Pointer

	// Programmable BRC-20 / EVM bridge.
	EVMAccounts               store.Pointer
	EVMStorage                store.Pointer
	CodeHashToBytecode        store.Pointer
	ContractAddressToInscription store.Pointer
	InscriptionToContractAddress store.Pointer
	EVMAccountEpoch           store.Pointer
}

// New builds a Catalog over root, anchoring every table at the prefixes
// listed in the table catalog.
func New(root *store.Store) *Catalog {
	return &Catalog{
		IDToSequence:       root.Root("/inscriptions/id_to_seq/"),
		SequenceToEntry:    root.Root("/inscriptions/seq_to_entry/"),
		NumberToSequence:   root.Root("/inscriptions/num_to_seq/"),
		SequenceToSatpoint: root.Root("/inscriptions/seq_to_satpoint/"),
		SatToSequence:      root.Root("/inscriptions/sat_to_seq/"),
		OutpointToList:     root.Root("/inscriptions/outpoint_to_list/"),
		SequenceToChildren: root.Root("/inscriptions/seq_to_children/"),
		SequenceToParents:  root.Root("/inscriptions/seq_to_parents/"),

		HeightToInscriptions: root.Root("/inscriptions/height_to_list/"),
		HeightToHash:         root.Root("/inscriptions/height_to_hash/"),
		HashToHeight:         root.Root("/inscriptions/hash_to_height/"),
		HeightToTimestamp:    root.Root("/inscriptions/height_to_timestamp/"),

		ContentType:  root.Root("/inscriptions/content_type/"),
		Metaprotocol: root.Root("/inscriptions/metaprotocol/"),

		CounterSequence: root.Root("/inscriptions/counters/sequence"),
		CounterBlessed:  root.Root("/inscriptions/counters/blessed"),
		CounterCursed:   root.Root("/inscriptions/counters/cursed"),

		Home:        root.Root("/inscriptions/home/"),
		Collections: root.Root("/inscriptions/collections/"),

		SatToInscriptions: root.Root("/inscriptions/sat_to_inscriptions/"),
		InscriptionToSat:  root.Root("/inscriptions/inscription_to_sat/"),
		OutpointToRanges:  root.Root("/inscriptions/outpoint_to_ranges/"),

		TxidToInscriptions: root.Root("/inscriptions/txid_to_inscriptions/"),
		InscriptionToTxid:  root.Root("/inscriptions/inscription_to_txid/"),

		AddressToInscriptions: root.Root("/inscriptions/address_to_inscriptions/"),
		InscriptionToAddress:  root.Root("/inscriptions/inscription_to_address/"),

		RuneToInscriptions: root.Root("/inscriptions/rune_to_inscriptions/"),
		InscriptionToRune:  root.Root("/inscriptions/inscription_to_rune/"),

		Content:  root.Root("/inscriptions/content/"),
		Metadata: root.Root("/inscriptions/metadata/"),

		DelegateToInscriptions: root.Root("/inscriptions/delegate_to_inscriptions/"),
		InscriptionToDelegate:  root.Root("/inscriptions/inscription_to_delegate/"),

		Brc20Tickers:      root.Root("/brc20/tickers/"),
		Brc20Balances:     root.Root("/brc20/balances/"),
		Brc20Transferable: root.Root("/brc20/transferable/"),
		Brc20Events:       root.Root("/brc20/events/"),

		EVMAccounts:                   root.Root("/evm/accounts/"),
		EVMStorage:                    root.Root("/evm/storage/"),
		CodeHashToBytecode:            root.Root("/evm/code_hash_to_bytecode/"),
		ContractAddressToInscription:  root.Root("/evm/contract_to_inscription/"),
		InscriptionToContractAddress:  root.Root("/evm/inscription_to_contract/"),
		EVMAccountEpoch:               root.Root("/evm/account_epoch/"),
	}
}

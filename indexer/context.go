// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

// Package indexer implements the deterministic state machine (component
// E) that walks blocks in height order, discovers ord envelopes in each
// transaction's inputs, and updates every table in the catalog that
// depends on them: inscription entries, sat ranges and satpoints,
// BRC-20 balances, and the programmable BRC-20/EVM bridge.
package indexer

import (
	"github.com/btcsuite/btclog"
	"github.com/btcsuite/btcd/chaincfg"

	"github.com/BoostyLabs/ord-index/bitcoin/ord/brc20"
	"github.com/BoostyLabs/ord-index/bitcoin/ord/evmbridge"
	"github.com/BoostyLabs/ord-index/bitcoin/ord/satrange"
	"github.com/BoostyLabs/ord-index/internal/logctx"
	"github.com/BoostyLabs/ord-index/internal/store"
	"github.com/BoostyLabs/ord-index/internal/tables"
)

// jubileeHeight is the mainnet height at which ord stopped cursing
// inscriptions for shapes it used to reject (duplicate/incomplete
// fields, unrecognized even tags, multiple envelopes per input,
// pushnum, and stutter), per spec.md's "explicit jubilee height" and
// original_source/src/indexer.rs.
const jubileeHeight uint32 = 824544

// Context carries every dependency ApplyBlock needs: the table catalog,
// the BRC-20 ledger, the EVM bridge indexer, the sat-range tracker, the
// chain parameters used to derive BRC-20 owner addresses, and a logger.
// Bundling these into one struct is the "explicit IndexerContext"
// redesign spec.md asks for, in place of a package full of globals.
type Context struct {
	Catalog       *tables.Catalog
	Ledger        *brc20.Ledger
	Events        *brc20.EventLog
	EVM           *evmbridge.Indexer
	Sats          *satrange.Tracker
	ChainParams   *chaincfg.Params
	JubileeHeight uint32
	Log           btclog.Logger
	skipLog       *skipLogGate
}

// NewContext builds a Context over root, wiring every component package
// to the same table catalog. engine may be nil if the programmable
// BRC-20 bridge is not wanted; brc20-prog operations are then silently
// ignored, same as any other unrecognized protocol tag.
func NewContext(root *store.Store, engine evmbridge.Engine, chainParams *chaincfg.Params, log btclog.Logger) *Context {
	catalog := tables.New(root)

	var evm *evmbridge.Indexer
	if engine != nil {
		evm = evmbridge.NewIndexer(engine, catalog)
	}

	if log == nil {
		log = logctx.Disabled()
	}

	return &Context{
		Catalog:       catalog,
		Ledger:        brc20.NewLedger(catalog),
		Events:        brc20.NewEventLog(catalog),
		EVM:           evm,
		Sats:          satrange.NewTracker(catalog),
		ChainParams:   chainParams,
		JubileeHeight: jubileeHeight,
		Log:           log,
		skipLog:       newSkipLogGate(),
	}
}

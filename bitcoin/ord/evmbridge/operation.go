// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package evmbridge

import (
	"encoding/hex"
	"encoding/json"

	"github.com/BoostyLabs/ord-index/internal/store"
	"github.com/BoostyLabs/ord-index/internal/tables"
)

// protocolTag is the "p" field value that marks an inscription body as
// a programmable BRC-20 operation, as opposed to a plain BRC-20 one.
const protocolTag = "brc20-prog"

type envelopeHeader struct {
	Protocol string `json:"p"`
	Op       string `json:"op"`
}

type deployPayload struct {
	Bytecode string `json:"d"`
}

type callPayload struct {
	InscriptionID string `json:"i"`
	Calldata      string `json:"d"`
}

// Indexer applies brc20-prog inscription bodies to an Engine, recording
// the contract-address/inscription-id mapping each deploy creates.
type Indexer struct {
	engine                Engine
	store                 *Store
	contractToInscription store.Pointer
	inscriptionToContract store.Pointer
}

// NewIndexer builds an Indexer over catalog's EVM bridge tables and the
// supplied execution engine.
func NewIndexer(engine Engine, catalog *tables.Catalog) *Indexer {
	return &Indexer{
		engine:                engine,
		store:                 NewStore(catalog),
		contractToInscription: catalog.ContractAddressToInscription,
		inscriptionToContract: catalog.InscriptionToContractAddress,
	}
}

// IndexBody inspects content for a brc20-prog deploy or call operation
// and, if found, executes it against the bridge's persisted state.
// Content that is not brc20-prog JSON, or a brc20-prog op with an
// invalid payload, is silently ignored: it simply isn't a programmable
// BRC-20 inscription, not an indexing failure.
func (idx *Indexer) IndexBody(content []byte, inscriptionID string) error {
	var header envelopeHeader
	if err := json.Unmarshal(content, &header); err != nil {
		return nil
	}
	if header.Protocol != protocolTag {
		return nil
	}

	switch header.Op {
	case "deploy":
		var payload deployPayload
		if err := json.Unmarshal(content, &payload); err != nil {
			return nil
		}

		return idx.deploy(payload, inscriptionID)

	case "call":
		var payload callPayload
		if err := json.Unmarshal(content, &payload); err != nil {
			return nil
		}

		return idx.call(payload)

	default:
		return nil
	}
}

// ContractAddress resolves the EVM address inscriptionID deployed, if
// any, for the read API's "call" method to target.
func (idx *Indexer) ContractAddress(inscriptionID string) (Address, bool) {
	data := idx.inscriptionToContract.Select([]byte(inscriptionID)).Get()
	if len(data) != 20 {
		return Address{}, false
	}

	var addr Address
	copy(addr[:], data)

	return addr, true
}

// Call invokes contract directly with calldata, for the read API's
// view-only EVM call: the Engine interface has no separate staticcall
// entry point, so this still runs through the same Committer-backed
// execution path IndexBody's "call" op uses, and any state it writes is
// persisted like any other call — the same limitation spec.md's
// brc20-prog dispatch already accepts for on-chain calls ("the source
// does not surface return data").
func (idx *Indexer) Call(contract Address, calldata []byte) error {
	return idx.engine.Call(idx.store, contract, calldata)
}

func (idx *Indexer) deploy(payload deployPayload, inscriptionID string) error {
	code, err := hex.DecodeString(payload.Bytecode)
	if err != nil {
		return nil
	}

	contract, ok, err := idx.engine.Deploy(idx.store, code)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	idBytes := []byte(inscriptionID)
	if err := idx.contractToInscription.Select(contract[:]).Set(idBytes); err != nil {
		return err
	}

	return idx.inscriptionToContract.Select(idBytes).Set(contract[:])
}

func (idx *Indexer) call(payload callPayload) error {
	addrBytes := idx.inscriptionToContract.Select([]byte(payload.InscriptionID)).Get()
	if len(addrBytes) != 20 {
		return nil
	}

	var contract Address
	copy(contract[:], addrBytes)

	calldata, err := hex.DecodeString(payload.Calldata)
	if err != nil {
		return nil
	}

	return idx.engine.Call(idx.store, contract, calldata)
}

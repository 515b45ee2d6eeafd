// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package brc20

import (
	"errors"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
)

// ErrNoAddress defines that no address could be extracted from a
// pkScript (e.g. a bare multisig or OP_RETURN output).
var ErrNoAddress = errors.New("brc20: no address for pkscript")

// AddressFromPkScript returns the single address an output's pkScript
// pays to, for use as the owner/recipient key of a BRC-20 balance.
// Taproot outputs carry the inscription's envelope directly in their
// witness, so a single-address P2TR/P2WPKH/P2PKH output is the common
// case; anything else (bare multisig, OP_RETURN) has no ledger owner.
func AddressFromPkScript(pkScript []byte, chainParams *chaincfg.Params) (string, error) {
	_, addrs, _, err := txscript.ExtractPkScriptAddrs(pkScript, chainParams)
	if err != nil {
		return "", err
	}
	if len(addrs) != 1 {
		return "", ErrNoAddress
	}

	return addrs[0].EncodeAddress(), nil
}

// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package brc20

import (
	"encoding/json"
	"strconv"
)

// wireOperation mirrors the on-chain JSON shape exactly: every numeric
// field arrives as a decimal string, per the BRC-20 convention of
// keeping inscription bodies valid JSON without floating-point risk.
type wireOperation struct {
	Protocol string `json:"p"`
	Op       string `json:"op"`
	Ticker   string `json:"tick"`
	Max      string `json:"max"`
	Limit    string `json:"lim"`
	Decimals string `json:"dec"`
	Amount   string `json:"amt"`
}

// ParseOperation decodes content as a BRC-20 JSON inscription body. It
// returns ok=false, rather than an error, for content that is not valid
// BRC-20 JSON: malformed or unrecognized bodies are simply not BRC-20
// operations, not indexing failures.
func ParseOperation(content []byte) (Operation, bool) {
	var wire wireOperation
	if err := json.Unmarshal(content, &wire); err != nil {
		return Operation{}, false
	}

	if wire.Protocol != "brc-20" || wire.Ticker == "" {
		return Operation{}, false
	}

	switch wire.Op {
	case string(KindDeploy):
		maxSupply, err := strconv.ParseUint(wire.Max, 10, 64)
		if err != nil {
			return Operation{}, false
		}
		limitPerMint, err := strconv.ParseUint(wire.Limit, 10, 64)
		if err != nil {
			return Operation{}, false
		}
		decimals := defaultDecimals
		if wire.Decimals != "" {
			d, err := strconv.ParseUint(wire.Decimals, 10, 8)
			if err != nil {
				return Operation{}, false
			}
			decimals = uint8(d)
		}

		return Operation{
			Kind:         KindDeploy,
			Ticker:       wire.Ticker,
			MaxSupply:    maxSupply,
			LimitPerMint: limitPerMint,
			Decimals:     decimals,
		}, true

	case string(KindMint):
		amount, err := strconv.ParseUint(wire.Amount, 10, 64)
		if err != nil {
			return Operation{}, false
		}

		return Operation{Kind: KindMint, Ticker: wire.Ticker, Amount: amount}, true

	case string(KindTransfer):
		amount, err := strconv.ParseUint(wire.Amount, 10, 64)
		if err != nil {
			return Operation{}, false
		}

		return Operation{Kind: KindTransfer, Ticker: wire.Ticker, Amount: amount}, true

	default:
		return Operation{}, false
	}
}

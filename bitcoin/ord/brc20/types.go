// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

// Package brc20 implements the BRC-20 fungible-token metaprotocol
// layered on top of inscriptions: deploy/mint/transfer operations
// encoded as JSON inscription bodies, a per-ticker supply ledger, and
// per-address balances with the two-phase (inscribe, then spend)
// transfer semantics the protocol requires.
package brc20

// Operation is a decoded BRC-20 JSON inscription body.
type Operation struct {
	Kind       Kind
	Ticker     string
	MaxSupply  uint64
	LimitPerMint uint64
	Decimals   uint8
	Amount     uint64
}

// Kind discriminates the three BRC-20 operations.
type Kind string

const (
	KindDeploy   Kind = "deploy"
	KindMint     Kind = "mint"
	KindTransfer Kind = "transfer"
)

// defaultDecimals is used when a deploy operation omits "dec".
const defaultDecimals uint8 = 18

// Ticker is the persisted supply-side record for one deployed ticker.
type Ticker struct {
	Name                string `json:"name"`
	MaxSupply           uint64 `json:"max_supply"`
	CurrentSupply       uint64 `json:"current_supply"`
	LimitPerMint        uint64 `json:"limit_per_mint"`
	Decimals            uint8  `json:"decimals"`
	DeployInscriptionID string `json:"deploy_inscription_id"`
}

// Balance is the persisted per-address, per-ticker balance record.
// TotalBalance includes amounts currently locked in an outstanding
// transfer inscription; AvailableBalance excludes them.
type Balance struct {
	Ticker           string `json:"ticker"`
	TotalBalance     uint64 `json:"total_balance"`
	AvailableBalance uint64 `json:"available_balance"`
}

// NewBalance returns a zeroed balance record for ticker.
func NewBalance(ticker string) Balance {
	return Balance{Ticker: ticker}
}

// TransferInfo is the persisted record attached to an outstanding
// transfer inscription: the amount it has locked and who can still
// rescind it by spending the inscription back to themselves.
type TransferInfo struct {
	Ticker string `json:"ticker"`
	Amount uint64 `json:"amount"`
	Sender string `json:"sender"`
}

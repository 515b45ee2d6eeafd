// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package brc20

import (
	"encoding/json"
	"errors"

	"github.com/BoostyLabs/ord-index/internal/store"
	"github.com/BoostyLabs/ord-index/internal/tables"
)

// ErrTickerExists defines that a deploy named an already-deployed ticker.
var ErrTickerExists = errors.New("brc20: ticker already deployed")

// Ledger applies BRC-20 operations to the persisted ticker and balance
// tables. Every method is a no-op (and returns nil, not an error) for
// operations the protocol defines as simply ignored — exceeding a mint
// limit, transferring more than is available, deploying a ticker twice
// — since a malformed or invalid BRC-20 inscription is not an indexing
// failure, just an inscription with no ledger effect.
type Ledger struct {
	tickers       store.Pointer
	balances      store.Pointer
	transferable  store.Pointer
}

// NewLedger builds a Ledger over catalog's BRC-20 tables.
func NewLedger(catalog *tables.Catalog) *Ledger {
	return &Ledger{
		tickers:      catalog.Brc20Tickers,
		balances:     catalog.Brc20Balances,
		transferable: catalog.Brc20Transferable,
	}
}

func (l *Ledger) tickerKey(ticker string) store.Pointer {
	return l.tickers.Select([]byte(ticker))
}

func (l *Ledger) balanceKey(address, ticker string) store.Pointer {
	return l.balances.Select(addressShardKey(address)).Select([]byte(ticker))
}

func (l *Ledger) transferKey(inscriptionID string) store.Pointer {
	return l.transferable.Select([]byte(inscriptionID))
}

func (l *Ledger) loadTicker(ticker string) (*Ticker, bool, error) {
	key := l.tickerKey(ticker)
	if !key.Exists() {
		return nil, false, nil
	}

	var t Ticker
	if err := json.Unmarshal(key.Get(), &t); err != nil {
		return nil, false, err
	}

	return &t, true, nil
}

func (l *Ledger) loadBalance(address, ticker string) (Balance, error) {
	key := l.balanceKey(address, ticker)
	if !key.Exists() {
		return NewBalance(ticker), nil
	}

	var b Balance
	if err := json.Unmarshal(key.Get(), &b); err != nil {
		return Balance{}, err
	}

	return b, nil
}

func (l *Ledger) saveBalance(address string, balance Balance) error {
	data, err := json.Marshal(balance)
	if err != nil {
		return err
	}

	return l.balanceKey(address, balance.Ticker).Set(data)
}

// Deploy registers op's ticker if it has not already been deployed.
func (l *Ledger) Deploy(op Operation, inscriptionID string) error {
	_, exists, err := l.loadTicker(op.Ticker)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	t := Ticker{
		Name:                op.Ticker,
		MaxSupply:           op.MaxSupply,
		LimitPerMint:        op.LimitPerMint,
		Decimals:            op.Decimals,
		DeployInscriptionID: inscriptionID,
	}
	data, err := json.Marshal(t)
	if err != nil {
		return err
	}

	return l.tickerKey(op.Ticker).Set(data)
}

// Mint credits owner with op.Amount, provided the ticker is deployed,
// the amount does not exceed its per-mint limit, and minting it would
// not exceed its max supply.
func (l *Ledger) Mint(op Operation, owner string) error {
	t, exists, err := l.loadTicker(op.Ticker)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	if op.Amount > t.LimitPerMint || t.CurrentSupply+op.Amount > t.MaxSupply {
		return nil
	}

	t.CurrentSupply += op.Amount
	data, err := json.Marshal(t)
	if err != nil {
		return err
	}
	if err := l.tickerKey(op.Ticker).Set(data); err != nil {
		return err
	}

	balance, err := l.loadBalance(owner, op.Ticker)
	if err != nil {
		return err
	}
	balance.TotalBalance += op.Amount
	balance.AvailableBalance += op.Amount

	return l.saveBalance(owner, balance)
}

// InscribeTransfer locks op.Amount out of owner's available balance and
// records a TransferInfo for the newly inscribed transfer inscription,
// to be resolved by ClaimTransfer when that inscription's sat next
// moves. It is a no-op if owner has no balance, or an insufficient one.
func (l *Ledger) InscribeTransfer(op Operation, owner, inscriptionID string) error {
	balance, err := l.loadBalance(owner, op.Ticker)
	if err != nil {
		return err
	}
	if balance.AvailableBalance < op.Amount {
		return nil
	}

	balance.AvailableBalance -= op.Amount
	if err := l.saveBalance(owner, balance); err != nil {
		return err
	}

	info := TransferInfo{Ticker: op.Ticker, Amount: op.Amount, Sender: owner}
	data, err := json.Marshal(info)
	if err != nil {
		return err
	}

	return l.transferKey(inscriptionID).Set(data)
}

// Balance returns address's current balance for ticker, zeroed if
// address has never interacted with that ticker.
func (l *Ledger) Balance(address, ticker string) (Balance, error) {
	return l.loadBalance(address, ticker)
}

// PendingTransfer returns the TransferInfo recorded by InscribeTransfer
// for inscriptionID, if any.
func (l *Ledger) PendingTransfer(inscriptionID string) (*TransferInfo, bool, error) {
	key := l.transferKey(inscriptionID)
	if !key.Exists() {
		return nil, false, nil
	}

	var info TransferInfo
	if err := json.Unmarshal(key.Get(), &info); err != nil {
		return nil, false, err
	}

	return &info, true, nil
}

// ClaimTransfer settles a pending transfer inscription onto newOwner:
// it credits newOwner's total and available balance, debits sender's
// total balance (its available balance was already debited when the
// transfer was inscribed), and clears the pending record so the same
// inscription can never be claimed twice.
func (l *Ledger) ClaimTransfer(inscriptionID, newOwner string) error {
	info, exists, err := l.PendingTransfer(inscriptionID)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	newBalance, err := l.loadBalance(newOwner, info.Ticker)
	if err != nil {
		return err
	}
	newBalance.TotalBalance += info.Amount
	newBalance.AvailableBalance += info.Amount
	if err := l.saveBalance(newOwner, newBalance); err != nil {
		return err
	}

	senderBalance, err := l.loadBalance(info.Sender, info.Ticker)
	if err != nil {
		return err
	}
	if senderBalance.TotalBalance >= info.Amount {
		senderBalance.TotalBalance -= info.Amount
	} else {
		senderBalance.TotalBalance = 0
	}
	if err := l.saveBalance(info.Sender, senderBalance); err != nil {
		return err
	}

	return l.transferKey(inscriptionID).Delete()
}

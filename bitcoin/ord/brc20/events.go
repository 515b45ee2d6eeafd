// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package brc20

import (
	"encoding/binary"
	"encoding/json"

	"github.com/BoostyLabs/ord-index/internal/store"
	"github.com/BoostyLabs/ord-index/internal/tables"
)

// Event records one observed effect of a BRC-20 operation: a deploy,
// mint, transfer inscription, or a claimed transfer. The read API's
// get_brc20_events replays these per block height.
type Event struct {
	Height        uint32 `json:"height"`
	Kind          Kind   `json:"kind"`
	Ticker        string `json:"ticker"`
	Amount        uint64 `json:"amount"`
	InscriptionID string `json:"inscription_id"`
	Owner         string `json:"owner"`
}

// KindClaim marks a transfer inscription settling onto its new owner,
// distinct from the three on-chain operation kinds.
const KindClaim Kind = "claim"

// EventLog appends and replays BRC-20 events, one length-prefixed JSON
// record at a time under a per-height key, the same length-prefix
// pattern inscriptions.Entry.Bytes uses for its own variable-width
// fields.
type EventLog struct {
	byHeight store.Pointer
}

// NewEventLog builds an EventLog over catalog's BRC-20 event table.
func NewEventLog(catalog *tables.Catalog) *EventLog {
	return &EventLog{byHeight: catalog.Brc20Events}
}

func eventHeightKey(height uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], height)

	return b[:]
}

// Record appends event to its height's log.
func (l *EventLog) Record(event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	var lenPrefix [4]byte
	binary.LittleEndian.PutUint32(lenPrefix[:], uint32(len(data)))

	return l.byHeight.Select(eventHeightKey(event.Height)).Append(append(lenPrefix[:], data...))
}

// Between returns every event recorded for heights in the inclusive
// range [from, to].
func (l *EventLog) Between(from, to uint32) ([]Event, error) {
	var events []Event

	h := from
	for {
		blob := l.byHeight.Select(eventHeightKey(h)).Get()
		for len(blob) >= 4 {
			n := binary.LittleEndian.Uint32(blob[:4])
			blob = blob[4:]
			if uint32(len(blob)) < n {
				break
			}

			var e Event
			if err := json.Unmarshal(blob[:n], &e); err != nil {
				return nil, err
			}
			events = append(events, e)
			blob = blob[n:]
		}

		if h == to {
			break
		}
		h++
	}

	return events, nil
}

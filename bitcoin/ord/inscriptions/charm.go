// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package inscriptions

import (
	"fmt"

	"github.com/kkdai/bstream"
)

// Charm is a bit position in the 16-bit per-entry Charms flag set.
type Charm uint8

const (
	// CharmCoin marks an inscription inscribed on a coinbase output.
	CharmCoin Charm = iota
	// CharmCursed marks an inscription assigned a negative number.
	CharmCursed
	// CharmEpic marks an inscription riding an epic-rarity sat.
	CharmEpic
	// CharmLegendary marks an inscription riding a legendary-rarity sat.
	CharmLegendary
	// CharmLost marks an inscription whose sat was lost to fees.
	CharmLost
	// CharmNineball marks the inscription at zero-based position 9 within
	// its block, i.e. the 10th.
	CharmNineball
	// CharmRare marks an inscription riding a rare-rarity sat.
	CharmRare
	// CharmReinscription marks an inscription riding a sat that already
	// carried an earlier inscription.
	CharmReinscription
	// CharmUnbound marks an inscription whose payload carried no body.
	CharmUnbound
	// CharmUncommon marks an inscription riding an uncommon-rarity sat.
	CharmUncommon
	// CharmVindicated marks a cursed inscription indexed at or after the
	// jubilee height, which would have been cursed pre-jubilee.
	CharmVindicated
)

// Charms is the persisted 16-bit set of Charm bits for one entry.
type Charms uint16

// Set returns a copy of c with charm set.
func (c Charms) Set(charm Charm) Charms {
	return c | (1 << charm)
}

// Has reports whether charm is present in c.
func (c Charms) Has(charm Charm) bool {
	return c&(1<<charm) != 0
}

// Bytes encodes c as its 2-byte big-endian (MSB-first) bitstream form.
func (c Charms) Bytes() []byte {
	w := bstream.New()
	w.WriteBits(uint64(c), 16)

	return w.Bytes()
}

// CharmsFromBytes decodes the 2-byte form written by Bytes.
func CharmsFromBytes(data []byte) (Charms, error) {
	if len(data) != 2 {
		return 0, fmt.Errorf("invalid charms length: %d", len(data))
	}

	r := bstream.NewBReader(data)
	bits, err := r.ReadBits(16)
	if err != nil {
		return 0, err
	}

	return Charms(bits), nil
}

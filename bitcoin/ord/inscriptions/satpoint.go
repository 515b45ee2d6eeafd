// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package inscriptions

import (
	"encoding/binary"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// satPointByteLen is the fixed binary size of a SatPoint: 32-byte txid +
// 4-byte vout + 8-byte offset, all little-endian.
const satPointByteLen = chainhash.HashSize + 4 + 8

// SatPoint describes the location of an inscription: which output it
// rides, and its offset, counted in sats, within that output's sat ranges.
type SatPoint struct {
	Outpoint wire.OutPoint
	Offset   uint64
}

// NullSatPoint is the satpoint recorded when an inscription's sat was
// lost to fees: no output received it.
var NullSatPoint = SatPoint{Outpoint: wire.OutPoint{Index: ^uint32(0)}}

// IsNull reports whether sp is the null satpoint (fee-bound inscription).
func (sp SatPoint) IsNull() bool {
	return sp.Outpoint.Index == ^uint32(0) && sp.Outpoint.Hash == chainhash.Hash{}
}

// Bytes returns the 44-byte binary encoding of sp.
func (sp SatPoint) Bytes() []byte {
	buf := make([]byte, satPointByteLen)
	copy(buf[:chainhash.HashSize], sp.Outpoint.Hash[:])
	binary.LittleEndian.PutUint32(buf[chainhash.HashSize:], sp.Outpoint.Index)
	binary.LittleEndian.PutUint64(buf[chainhash.HashSize+4:], sp.Offset)

	return buf
}

// SatPointFromBytes parses a SatPoint encoded by Bytes.
func SatPointFromBytes(data []byte) (SatPoint, error) {
	if len(data) != satPointByteLen {
		return SatPoint{}, fmt.Errorf("invalid satpoint length: %d", len(data))
	}

	var sp SatPoint
	copy(sp.Outpoint.Hash[:], data[:chainhash.HashSize])
	sp.Outpoint.Index = binary.LittleEndian.Uint32(data[chainhash.HashSize:])
	sp.Offset = binary.LittleEndian.Uint64(data[chainhash.HashSize+4:])

	return sp, nil
}

// String returns the conventional "<txid>:<vout>:<offset>" form.
func (sp SatPoint) String() string {
	return fmt.Sprintf("%s:%d:%d", sp.Outpoint.Hash.String(), sp.Outpoint.Index, sp.Offset)
}

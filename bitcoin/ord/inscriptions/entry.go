// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package inscriptions

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// presence bits for InscriptionEntry's optional fields, in the order they
// are written after the fixed-width prefix.
const (
	presenceSat uint8 = 1 << iota
	presenceContentType
	presenceContentLength
	presenceParent
	presenceDelegate
	presenceMetaprotocol
	presencePointer
)

// Entry is the persisted record for one inscription: everything the
// indexer learned about it at the moment it was assigned a sequence
// number, plus whatever later processing (transfers, curses, charms)
// mutated.
type Entry struct {
	ID             ID
	Number         int32
	Sequence       uint32
	Sat            *uint64
	SatPoint       SatPoint
	Height         uint32
	Fee            uint64
	ContentType    *string
	ContentLength  *uint64
	Timestamp      uint32
	GenesisFee     uint64
	GenesisHeight  uint32
	Parent         *ID
	Delegate       *ID
	Metaprotocol   *string
	Pointer        *uint64
	Charms         Charms
}

// NewEntry builds the initial entry recorded at genesis for an
// inscription assigned sequence at height, before curse/charm
// classification or sat assignment.
func NewEntry(id ID, number int32, sequence uint32, satpoint SatPoint, height uint32, fee uint64, timestamp uint32) *Entry {
	return &Entry{
		ID:            id,
		Number:        number,
		Sequence:      sequence,
		SatPoint:      satpoint,
		Height:        height,
		Fee:           fee,
		Timestamp:     timestamp,
		GenesisFee:    fee,
		GenesisHeight: height,
	}
}

// IsCursed reports whether the entry was assigned a negative number.
func (e *Entry) IsCursed() bool {
	return e.Number < 0
}

// IsBlessed reports whether the entry was assigned a non-negative number.
func (e *Entry) IsBlessed() bool {
	return e.Number >= 0
}

// SetCharm sets charm on the entry's Charms bitfield.
func (e *Entry) SetCharm(charm Charm) {
	e.Charms = e.Charms.Set(charm)
}

// HasCharm reports whether charm is present on the entry.
func (e *Entry) HasCharm(charm Charm) bool {
	return e.Charms.Has(charm)
}

// Bytes encodes e into its persisted binary form: a fixed-width prefix
// of required fields, a presence bitmask, and the optional fields it
// marks present, each length-prefixed where variable-width.
func (e *Entry) Bytes() []byte {
	var buf bytes.Buffer

	buf.Write(e.ID.TxID[:])
	writeUint32(&buf, e.ID.Index)
	writeInt32(&buf, e.Number)
	writeUint32(&buf, e.Sequence)
	buf.Write(e.SatPoint.Bytes())
	writeUint32(&buf, e.Height)
	writeUint64(&buf, e.Fee)
	writeUint32(&buf, e.Timestamp)
	writeUint64(&buf, e.GenesisFee)
	writeUint32(&buf, e.GenesisHeight)
	writeUint16(&buf, uint16(e.Charms))

	var presence uint8
	if e.Sat != nil {
		presence |= presenceSat
	}
	if e.ContentType != nil {
		presence |= presenceContentType
	}
	if e.ContentLength != nil {
		presence |= presenceContentLength
	}
	if e.Parent != nil {
		presence |= presenceParent
	}
	if e.Delegate != nil {
		presence |= presenceDelegate
	}
	if e.Metaprotocol != nil {
		presence |= presenceMetaprotocol
	}
	if e.Pointer != nil {
		presence |= presencePointer
	}
	buf.WriteByte(presence)

	if e.Sat != nil {
		writeUint64(&buf, *e.Sat)
	}
	if e.ContentType != nil {
		writeString(&buf, *e.ContentType)
	}
	if e.ContentLength != nil {
		writeUint64(&buf, *e.ContentLength)
	}
	if e.Parent != nil {
		buf.Write(e.Parent.TxID[:])
		writeUint32(&buf, e.Parent.Index)
	}
	if e.Delegate != nil {
		buf.Write(e.Delegate.TxID[:])
		writeUint32(&buf, e.Delegate.Index)
	}
	if e.Metaprotocol != nil {
		writeString(&buf, *e.Metaprotocol)
	}
	if e.Pointer != nil {
		writeUint64(&buf, *e.Pointer)
	}

	return buf.Bytes()
}

// EntryFromBytes decodes the form written by Entry.Bytes.
func EntryFromBytes(data []byte) (*Entry, error) {
	r := bytes.NewReader(data)
	e := &Entry{}

	e.ID.TxID = &chainhash.Hash{}
	if _, err := readFull(r, e.ID.TxID[:]); err != nil {
		return nil, fmt.Errorf("entry: txid: %w", err)
	}

	index, err := readUint32(r)
	if err != nil {
		return nil, fmt.Errorf("entry: index: %w", err)
	}
	e.ID.Index = index

	number, err := readInt32(r)
	if err != nil {
		return nil, fmt.Errorf("entry: number: %w", err)
	}
	e.Number = number

	sequence, err := readUint32(r)
	if err != nil {
		return nil, fmt.Errorf("entry: sequence: %w", err)
	}
	e.Sequence = sequence

	spBytes := make([]byte, satPointByteLen)
	if _, err := readFull(r, spBytes); err != nil {
		return nil, fmt.Errorf("entry: satpoint: %w", err)
	}
	sp, err := SatPointFromBytes(spBytes)
	if err != nil {
		return nil, fmt.Errorf("entry: satpoint: %w", err)
	}
	e.SatPoint = sp

	height, err := readUint32(r)
	if err != nil {
		return nil, fmt.Errorf("entry: height: %w", err)
	}
	e.Height = height

	fee, err := readUint64(r)
	if err != nil {
		return nil, fmt.Errorf("entry: fee: %w", err)
	}
	e.Fee = fee

	timestamp, err := readUint32(r)
	if err != nil {
		return nil, fmt.Errorf("entry: timestamp: %w", err)
	}
	e.Timestamp = timestamp

	genesisFee, err := readUint64(r)
	if err != nil {
		return nil, fmt.Errorf("entry: genesis fee: %w", err)
	}
	e.GenesisFee = genesisFee

	genesisHeight, err := readUint32(r)
	if err != nil {
		return nil, fmt.Errorf("entry: genesis height: %w", err)
	}
	e.GenesisHeight = genesisHeight

	charms, err := readUint16(r)
	if err != nil {
		return nil, fmt.Errorf("entry: charms: %w", err)
	}
	e.Charms = Charms(charms)

	presence, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("entry: presence: %w", err)
	}

	if presence&presenceSat != 0 {
		v, err := readUint64(r)
		if err != nil {
			return nil, fmt.Errorf("entry: sat: %w", err)
		}
		e.Sat = &v
	}
	if presence&presenceContentType != 0 {
		v, err := readString(r)
		if err != nil {
			return nil, fmt.Errorf("entry: content type: %w", err)
		}
		e.ContentType = &v
	}
	if presence&presenceContentLength != 0 {
		v, err := readUint64(r)
		if err != nil {
			return nil, fmt.Errorf("entry: content length: %w", err)
		}
		e.ContentLength = &v
	}
	if presence&presenceParent != 0 {
		id := ID{TxID: &chainhash.Hash{}}
		if _, err := readFull(r, id.TxID[:]); err != nil {
			return nil, fmt.Errorf("entry: parent txid: %w", err)
		}
		idx, err := readUint32(r)
		if err != nil {
			return nil, fmt.Errorf("entry: parent index: %w", err)
		}
		id.Index = idx
		e.Parent = &id
	}
	if presence&presenceDelegate != 0 {
		id := ID{TxID: &chainhash.Hash{}}
		if _, err := readFull(r, id.TxID[:]); err != nil {
			return nil, fmt.Errorf("entry: delegate txid: %w", err)
		}
		idx, err := readUint32(r)
		if err != nil {
			return nil, fmt.Errorf("entry: delegate index: %w", err)
		}
		id.Index = idx
		e.Delegate = &id
	}
	if presence&presenceMetaprotocol != 0 {
		v, err := readString(r)
		if err != nil {
			return nil, fmt.Errorf("entry: metaprotocol: %w", err)
		}
		e.Metaprotocol = &v
	}
	if presence&presencePointer != 0 {
		v, err := readUint64(r)
		if err != nil {
			return nil, fmt.Errorf("entry: pointer: %w", err)
		}
		e.Pointer = &v
	}

	return e, nil
}

func writeUint16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeInt32(buf *bytes.Buffer, v int32) {
	writeUint32(buf, uint32(v))
}

func writeUint64(buf *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	buf.Write(b[:])
}

func writeString(buf *bytes.Buffer, s string) {
	writeUint32(buf, uint32(len(s)))
	buf.WriteString(s)
}

func readFull(r *bytes.Reader, dst []byte) (int, error) {
	n, err := r.Read(dst)
	if err != nil {
		return n, err
	}
	if n != len(dst) {
		return n, fmt.Errorf("short read: got %d want %d", n, len(dst))
	}
	return n, nil
}

func readUint16(r *bytes.Reader) (uint16, error) {
	var b [2]byte
	if _, err := readFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b[:]), nil
}

func readUint32(r *bytes.Reader) (uint32, error) {
	var b [4]byte
	if _, err := readFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func readInt32(r *bytes.Reader) (int32, error) {
	v, err := readUint32(r)
	return int32(v), err
}

func readUint64(r *bytes.Reader) (uint64, error) {
	var b [8]byte
	if _, err := readFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

func readString(r *bytes.Reader) (string, error) {
	length, err := readUint32(r)
	if err != nil {
		return "", err
	}
	b := make([]byte, length)
	if length > 0 {
		if _, err := readFull(r, b); err != nil {
			return "", err
		}
	}
	return string(b), nil
}

// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package main

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"

	"github.com/btcsuite/btcd/wire"
)

// errShortRecord is returned when a replay file's length prefix claims
// more bytes than the file actually has left.
var errShortRecord = errors.New("ord-indexd: truncated replay record")

// readReplayBlocks decodes r as a sequence of length-prefixed serialized
// blocks: a 4-byte little-endian length followed by that many bytes of
// wire.MsgBlock wire encoding, the same length-prefix framing
// brc20.EventLog uses for its own records, kept consistent across the
// repo rather than inventing a second framing convention for the one
// place a whole block needs to round-trip through a file.
func readReplayBlocks(r io.Reader) ([]*wire.MsgBlock, error) {
	var blocks []*wire.MsgBlock

	var lenPrefix [4]byte
	for {
		if _, err := io.ReadFull(r, lenPrefix[:]); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}

			return nil, err
		}

		size := binary.LittleEndian.Uint32(lenPrefix[:])
		raw := make([]byte, size)
		if _, err := io.ReadFull(r, raw); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, errShortRecord
			}

			return nil, err
		}

		block := &wire.MsgBlock{}
		if err := block.Deserialize(bytes.NewReader(raw)); err != nil {
			return nil, err
		}

		blocks = append(blocks, block)
	}

	return blocks, nil
}

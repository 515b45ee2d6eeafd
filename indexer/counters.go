// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package indexer

import (
	"encoding/binary"

	"github.com/BoostyLabs/ord-index/internal/store"
)

// counters holds the three running totals the original indexer persists
// across blocks: the next sequence number to assign (monotonic across
// both blessed and cursed inscriptions), the next blessed number
// (starts at 0, increments), and the next cursed number (starts at -1,
// decrements).
type counters struct {
	sequence uint32
	blessed  int32
	cursed   int32
}

func readUint32(p store.Pointer, fallback uint32) uint32 {
	data := p.Get()
	if len(data) != 4 {
		return fallback
	}

	return binary.LittleEndian.Uint32(data)
}

func writeUint32(p store.Pointer, v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)

	return p.Set(buf[:])
}

// nextSequence returns the next sequence number and advances the
// counter.
func (c *counters) nextSequence() uint32 {
	seq := c.sequence
	c.sequence++

	return seq
}

// nextBlessed returns the next blessed number and advances the counter.
func (c *counters) nextBlessed() int32 {
	n := c.blessed
	c.blessed++

	return n
}

// nextCursed returns the next cursed number and advances the counter.
func (c *counters) nextCursed() int32 {
	n := c.cursed
	c.cursed--

	return n
}

// save persists every counter back to ctx's catalog.
func (c counters) save(ctx *Context) error {
	if err := writeUint32(ctx.Catalog.CounterSequence, c.sequence); err != nil {
		return err
	}
	if err := writeUint32(ctx.Catalog.CounterBlessed, uint32(c.blessed)); err != nil {
		return err
	}

	return writeUint32(ctx.Catalog.CounterCursed, uint32(c.cursed))
}

// loadState reads ctx's persisted counters, defaulting to their genesis
// values (0, 0, -1) the first time the indexer runs.
func loadState(ctx *Context) counters {
	return counters{
		sequence: readUint32(ctx.Catalog.CounterSequence, 0),
		blessed:  int32(readUint32(ctx.Catalog.CounterBlessed, 0)),
		cursed:   int32(readUint32(ctx.Catalog.CounterCursed, uint32(int32(-1)))),
	}
}

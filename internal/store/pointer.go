// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package store

import "encoding/binary"

// Store is the root of every Pointer; it owns the Engine and hands out
// Pointers scoped under the table catalog's named roots.
type Store struct {
	engine Engine
}

// New is a constructor for Store.
func New(engine Engine) *Store {
	return &Store{engine: engine}
}

// Root returns a Pointer anchored at the given textual prefix, e.g.
// "/inscriptions/seq_to_entry/".
func (s *Store) Root(prefix string) Pointer {
	return Pointer{engine: s.engine, key: []byte(prefix)}
}

// Pointer is a handle naming a byte prefix in the underlying Engine.
// It is a value type: selecting or keywording a Pointer never mutates it,
// it returns a new Pointer scoped one level deeper.
type Pointer struct {
	engine Engine
	key    []byte
}

// Select returns a pointer at self‖len(key)‖key: a length-prefixed
// concatenation so that Select(a) and Select(b) are distinct keys
// whenever a != b regardless of their lengths.
func (p Pointer) Select(suffix []byte) Pointer {
	lenPrefix := make([]byte, 4)
	binary.BigEndian.PutUint32(lenPrefix, uint32(len(suffix)))

	next := make([]byte, 0, len(p.key)+len(lenPrefix)+len(suffix))
	next = append(next, p.key...)
	next = append(next, lenPrefix...)
	next = append(next, suffix...)

	return Pointer{engine: p.engine, key: next}
}

// Keyword returns a pointer at self‖suffix: a plain concatenation, used
// for fixed textual suffixes like "/mask".
func (p Pointer) Keyword(suffix string) Pointer {
	next := make([]byte, 0, len(p.key)+len(suffix))
	next = append(next, p.key...)
	next = append(next, suffix...)

	return Pointer{engine: p.engine, key: next}
}

// Key returns the raw byte key this pointer names. Exposed for callers
// that need to embed a pointer's identity into another key (rare; most
// callers should prefer Select/Keyword).
func (p Pointer) Key() []byte {
	return p.key
}

// Get returns the current value, or an empty slice if absent.
func (p Pointer) Get() []byte {
	value, ok := p.engine.Get(p.key)
	if !ok {
		return nil
	}

	return value
}

// Exists reports whether the pointer currently has a non-empty value.
func (p Pointer) Exists() bool {
	return len(p.Get()) > 0
}

// Set overwrites the pointer's value.
func (p Pointer) Set(value []byte) error {
	return p.engine.Set(p.key, value)
}

// Delete removes the pointer's value entirely.
func (p Pointer) Delete() error {
	return p.engine.Delete(p.key)
}

// Append atomically pushes value onto the list stored at this key. The
// list is the concatenation of fixed-width entries; width is known to
// the caller via GetList.
func (p Pointer) Append(value []byte) error {
	existing := p.Get()
	next := make([]byte, 0, len(existing)+len(value))
	next = append(next, existing...)
	next = append(next, value...)

	return p.Set(next)
}

// GetList splits the stored blob into width-sized chunks.
func (p Pointer) GetList(width int) [][]byte {
	data := p.Get()
	if len(data) == 0 || width <= 0 {
		return nil
	}

	chunks := make([][]byte, 0, len(data)/width)
	for offset := 0; offset+width <= len(data); offset += width {
		chunks = append(chunks, data[offset:offset+width])
	}

	return chunks
}

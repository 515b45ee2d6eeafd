// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

// Package store implements the flat keyed byte-blob store (component A)
// and the ordered-key bitmask tree layered over it (component B).
package store

import (
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

// Engine is the minimal flat bytes->bytes store every Pointer is built on.
// Reads never fail; an absent key returns an empty slice. Writes either
// fully apply or return an error — there is no partial-write state.
type Engine interface {
	Get(key []byte) ([]byte, bool)
	Set(key, value []byte) error
	Delete(key []byte) error
	// Batch applies all writes atomically; nil values delete the key.
	Batch(writes map[string][]byte) error
}

// LevelDB is an Engine backed by github.com/syndtr/goleveldb, the on-disk
// engine the indexer persists its tables to between apply_block calls.
type LevelDB struct {
	db *leveldb.DB
}

// OpenLevelDB opens (creating if absent) a goleveldb database at dir.
// Block compression defaults to snappy, goleveldb's built-in codec.
func OpenLevelDB(dir string) (*LevelDB, error) {
	db, err := leveldb.OpenFile(dir, &opt.Options{
		Compression: opt.SnappyCompression,
	})
	if err != nil {
		return nil, err
	}

	return &LevelDB{db: db}, nil
}

// Close releases the underlying database handle.
func (l *LevelDB) Close() error {
	return l.db.Close()
}

// Get implements Engine.
func (l *LevelDB) Get(key []byte) ([]byte, bool) {
	value, err := l.db.Get(key, nil)
	if err != nil {
		return nil, false
	}

	return value, true
}

// Set implements Engine.
func (l *LevelDB) Set(key, value []byte) error {
	return l.db.Put(key, value, nil)
}

// Delete implements Engine.
func (l *LevelDB) Delete(key []byte) error {
	return l.db.Delete(key, nil)
}

// Batch implements Engine.
func (l *LevelDB) Batch(writes map[string][]byte) error {
	batch := new(leveldb.Batch)
	for key, value := range writes {
		if value == nil {
			batch.Delete([]byte(key))
			continue
		}
		batch.Put([]byte(key), value)
	}

	return l.db.Write(batch, nil)
}

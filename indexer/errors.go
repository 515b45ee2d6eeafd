// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package indexer

import "errors"

// Hard errors abort indexing of the block that produced them; soft
// errors (logged at Debug, never returned from ApplyBlock) are folded
// into a skipped input/envelope instead.
var (
	// ErrInvalidData defines that a transaction or block carried data
	// the indexer cannot interpret at all (malformed witness, truncated
	// script).
	ErrInvalidData = errors.New("indexer: invalid data")
	// ErrDuplicateInscription defines that an inscription ID was already
	// assigned a sequence number; the envelope that produced it is
	// ignored rather than reprocessed.
	ErrDuplicateInscription = errors.New("indexer: duplicate inscription id")
	// ErrInvalidInput defines that a transaction referenced an input
	// index or previous outpoint the indexer has no record of.
	ErrInvalidInput = errors.New("indexer: invalid input")
	// ErrDatabaseError defines that a read or write against the
	// underlying store failed.
	ErrDatabaseError = errors.New("indexer: database error")
)

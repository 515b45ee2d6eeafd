// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

// Package logctx wires the indexer's components to a single
// btclog.Logger, the logging backend already pulled in transitively by
// the teacher's btcsuite dependency graph, rather than introducing a
// second logging library for application-level messages.
package logctx

import (
	"os"

	"github.com/btcsuite/btclog"
)

// New returns a Logger writing subsystem-tagged lines to stderr, at level.
// Subsystems (indexer, brc20, evmbridge, api) each get their own tag so
// a single backend can be filtered per-component in production.
func New(subsystem string, level btclog.Level) btclog.Logger {
	backend := btclog.NewBackend(os.Stderr)
	log := backend.Logger(subsystem)
	log.SetLevel(level)

	return log
}

// Disabled returns a Logger that discards every message, for tests and
// tools that don't want indexing noise on stderr.
func Disabled() btclog.Logger {
	return btclog.Disabled
}

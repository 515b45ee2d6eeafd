// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package indexer

import (
	"fmt"

	"github.com/decred/dcrd/lru"
)

// skipLogLimit bounds how many distinct skipped-envelope sites are
// remembered before the oldest is evicted, per lru.Cache's own
// least-recently-used eviction policy.
const skipLogLimit = 4096

// skipLogGate suppresses duplicate Debug-level "skipping envelope"
// log lines for the same (txid, input, envelope) site: a backfill or
// reorg replay that walks the same range of blocks more than once
// would otherwise emit the same warning on every pass.
type skipLogGate struct {
	seen *lru.Cache
}

func newSkipLogGate() *skipLogGate {
	return &skipLogGate{seen: lru.New(skipLogLimit)}
}

// shouldLog reports whether this is the first time site has been seen,
// recording it for next time either way.
func (g *skipLogGate) shouldLog(txid string, inputIndex, envIndex int) bool {
	site := fmt.Sprintf("%s:%d:%d", txid, inputIndex, envIndex)
	if g.seen.Contains(site) {
		return false
	}

	g.seen.Add(site)

	return true
}

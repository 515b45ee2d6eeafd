// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package indexer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSkipLogGate_SuppressesRepeats(t *testing.T) {
	gate := newSkipLogGate()

	require.True(t, gate.shouldLog("txid", 0, 0))
	require.False(t, gate.shouldLog("txid", 0, 0))
	require.True(t, gate.shouldLog("txid", 1, 0))
	require.True(t, gate.shouldLog("othertxid", 0, 0))
}

// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package brc20

import (
	"encoding/binary"

	"github.com/aead/siphash"
)

// shardKeySeed is a fixed, non-secret 16-byte siphash key. The balance
// table is keyed by address, not by anything requiring unpredictability;
// siphash is used here purely as a fast, well-distributed hash to turn
// variable-length addresses into a fixed 8-byte shard prefix, keeping
// the table's on-disk key width independent of address encoding length.
var shardKeySeed = [16]byte{
	0x62, 0x72, 0x63, 0x32, 0x30, 0x2d, 0x6c, 0x65,
	0x64, 0x67, 0x65, 0x72, 0x2d, 0x76, 0x31, 0x00,
}

// addressShardKey returns the 8-byte shard key derived from address,
// used as the first path segment under the balances table so that all
// of one address's ticker balances sort together.
func addressShardKey(address string) []byte {
	sum, err := siphash.Sum64([]byte(address), shardKeySeed[:])
	if err != nil {
		// Sum64 only errors on a malformed key, which shardKeySeed never is.
		panic(err)
	}

	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, sum)

	return key
}

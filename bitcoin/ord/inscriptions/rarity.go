// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package inscriptions

// Rarity classifies a satoshi by its position in the Bitcoin issuance
// schedule.
type Rarity uint8

const (
	RarityCommon Rarity = iota
	RarityUncommon
	RarityRare
	RarityEpic
	RarityLegendary
	RarityMythic
)

const (
	subsidyPerBlock     = 50 * 100_000_000
	blocksPerDifficulty = 2016
	blocksPerHalving    = 210_000
	halvingsPerCycle    = 6
)

// RarityFromSat classifies sat by divisibility: the genesis sat is
// mythic, and a sat that is a multiple of the sat count of a cycle,
// halving epoch, difficulty period, or block inherits the corresponding
// rarity, checked in that order. Those sat counts assume the first
// epoch's 50 BTC subsidy throughout, so boundaries after the first
// halving are not detected.
func RarityFromSat(sat uint64) Rarity {
	if sat == 0 {
		return RarityMythic
	}

	if sat%(blocksPerHalving*halvingsPerCycle*subsidyPerBlock) == 0 {
		return RarityLegendary
	}

	if sat%(blocksPerHalving*subsidyPerBlock) == 0 {
		return RarityEpic
	}

	if sat%(blocksPerDifficulty*subsidyPerBlock) == 0 {
		return RarityRare
	}

	if sat%subsidyPerBlock == 0 {
		return RarityUncommon
	}

	return RarityCommon
}

// String returns the lowercase rarity name used in the read API.
func (r Rarity) String() string {
	switch r {
	case RarityCommon:
		return "common"
	case RarityUncommon:
		return "uncommon"
	case RarityRare:
		return "rare"
	case RarityEpic:
		return "epic"
	case RarityLegendary:
		return "legendary"
	case RarityMythic:
		return "mythic"
	default:
		return "unknown"
	}
}

// Charm reports the Charm bit, if any, that corresponds to r. Common
// carries no charm.
func (r Rarity) Charm() (Charm, bool) {
	switch r {
	case RarityUncommon:
		return CharmUncommon, true
	case RarityRare:
		return CharmRare, true
	case RarityEpic:
		return CharmEpic, true
	case RarityLegendary:
		return CharmLegendary, true
	default:
		return 0, false
	}
}

package models

import "strings"

type Rarity string

const (
	RarityInvalid   Rarity = "INVALID"
	RarityFree      Rarity = "FREE"
	RarityCommon    Rarity = "COMMON"
	RarityRare      Rarity = "RARE"
	RarityEpic      Rarity = "EPIC"
	RarityLegendary Rarity = "LEGENDARY"
)

// ParseRarity maps a card-data rarity string to a Rarity.
// Unknown values map to RarityInvalid.
func ParseRarity(s string) Rarity {
	switch r := Rarity(strings.ToUpper(strings.TrimSpace(s))); r {
	case RarityFree, RarityCommon, RarityRare, RarityEpic, RarityLegendary:
		return r
	default:
		return RarityInvalid
	}
}

// DustCost is the crafting cost for a card of this rarity.
func (r Rarity) DustCost() int {
	switch r {
	case RarityCommon:
		return 40
	case RarityRare:
		return 100
	case RarityEpic:
		return 400
	case RarityLegendary:
		return 1600
	default:
		return 0
	}
}

// AllRarities returns every rarity that carries a dust value.
func AllRarities() []Rarity {
	return []Rarity{
		RarityCommon,
		RarityRare,
		RarityEpic,
		RarityLegendary,
	}
}

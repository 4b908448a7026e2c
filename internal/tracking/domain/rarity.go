package domain

import "errors"

// ErrInvalidRarity is returned when a rarity tag is outside the closed set.
// An unknown tag indicates a caller bug, never a value to default silently.
var ErrInvalidRarity = errors.New("invalid rarity")

// Rarity is the tier a user assigns to a task. It acts as a point multiplier.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityLegendary Rarity = "legendary"
)

// IsValid checks if the rarity is one of the four known tiers.
func (r Rarity) IsValid() bool {
	switch r {
	case RarityCommon, RarityUncommon, RarityRare, RarityLegendary:
		return true
	default:
		return false
	}
}

// String returns the string representation of the rarity.
func (r Rarity) String() string {
	return string(r)
}

// Multiplier returns the scoring multiplier for the rarity.
// The caller must have validated the rarity; unknown tiers return 0.
func (r Rarity) Multiplier() float64 {
	switch r {
	case RarityCommon:
		return 1.0
	case RarityUncommon:
		return 1.5
	case RarityRare:
		return 2.0
	case RarityLegendary:
		return 3.0
	default:
		return 0
	}
}

// ParseRarity converts a string into a Rarity, rejecting unknown tags.
func ParseRarity(s string) (Rarity, error) {
	r := Rarity(s)
	if !r.IsValid() {
		return "", ErrInvalidRarity
	}
	return r, nil
}

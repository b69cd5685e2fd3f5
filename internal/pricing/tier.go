package pricing

import (
	"errors"
	"fmt"
	"strings"
)

// Tier is a price bucket used to bulk-select models by input cost.
type Tier int

// Tier values, in the order the buttons are shown.
const (
	TierAll Tier = iota
	TierLow
	TierMid
	TierHigh
	numTiers
)

// Tier boundaries on input cost: low [0,1), mid [1,10), high [10,∞).
const (
	midTierFloor  = 1.0
	highTierFloor = 10.0
)

// ErrUnknownTier is returned by ParseTier for unrecognised names.
var ErrUnknownTier = errors.New("unknown price tier")

// Tiers returns every tier in display order.
func Tiers() []Tier {
	return []Tier{TierAll, TierLow, TierMid, TierHigh}
}

// String returns the lower-case tier name.
func (t Tier) String() string {
	switch t {
	case TierAll:
		return "all"
	case TierLow:
		return "low"
	case TierMid:
		return "mid"
	case TierHigh:
		return "high"
	default:
		return "unknown"
	}
}

// Next returns the following tier, wrapping after high.
func (t Tier) Next() Tier {
	return (t + 1) % numTiers
}

// Contains reports whether an input cost belongs to the tier.
// NaN belongs only to TierAll.
func (t Tier) Contains(inputCost float64) bool {
	switch t {
	case TierAll:
		return true
	case TierLow:
		return inputCost < midTierFloor
	case TierMid:
		return inputCost >= midTierFloor && inputCost < highTierFloor
	case TierHigh:
		return inputCost >= highTierFloor
	default:
		return false
	}
}

// ParseTier converts a tier name (case-insensitive) to a Tier.
// An empty string is treated as "all".
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return TierAll, nil
	case "low":
		return TierLow, nil
	case "mid":
		return TierMid, nil
	case "high":
		return TierHigh, nil
	default:
		return TierAll, fmt.Errorf("%w: %q (want all, low, mid or high)", ErrUnknownTier, s)
	}
}

// NamesInTier returns, in source order, the names of records whose input cost
// falls in the tier.
func NamesInTier(records []PriceRecord, t Tier) []string {
	names := []string{}
	for _, r := range records {
		if t.Contains(r.Input()) {
			names = append(names, r.Name)
		}
	}
	return names
}

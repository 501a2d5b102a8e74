package types

import "fmt"

// Tier is the overall risk classification of an assessment
type Tier string

const (
	TierLow      Tier = "Low"
	TierMedium   Tier = "Medium"
	TierHigh     Tier = "High"
	TierCritical Tier = "Critical"
)

// AllTiers returns all tiers in ascending order of risk
func AllTiers() []Tier {
	return []Tier{
		TierLow,
		TierMedium,
		TierHigh,
		TierCritical,
	}
}

// IsValid checks if the tier is one of the known values
func (t Tier) IsValid() bool {
	switch t {
	case TierLow,
		TierMedium,
		TierHigh,
		TierCritical:
		return true
	default:
		return false
	}
}

// Rank returns the position of the tier in ascending risk order, or -1 for unknown tiers
func (t Tier) Rank() int {
	for i, tier := range AllTiers() {
		if tier == t {
			return i
		}
	}
	return -1
}

// IsEscalated reports whether the tier requires governance escalation (High or Critical)
func (t Tier) IsEscalated() bool {
	return t == TierHigh || t == TierCritical
}

// String returns the string representation of the tier
func (t Tier) String() string {
	return string(t)
}

// ParseTier parses a string into a Tier
func ParseTier(s string) (Tier, error) {
	tier := Tier(s)
	if !tier.IsValid() {
		return "", fmt.Errorf("invalid tier: %s", s)
	}
	return tier, nil
}

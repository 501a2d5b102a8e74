package types

import "fmt"

// Dissemination is the intended disclosure scope of a paper
type Dissemination string

const (
	DisseminationInternal   Dissemination = "Internal only"
	DisseminationPreprint   Dissemination = "Preprint / arXiv only"
	DisseminationConference Dissemination = "Conference / journal"
	DisseminationOpenSource Dissemination = "Open-source code + weights"
)

// AllDisseminations returns all valid dissemination values
func AllDisseminations() []Dissemination {
	return []Dissemination{
		DisseminationInternal,
		DisseminationPreprint,
		DisseminationConference,
		DisseminationOpenSource,
	}
}

// IsValid checks if the dissemination is valid
func (d Dissemination) IsValid() bool {
	switch d {
	case DisseminationInternal,
		DisseminationPreprint,
		DisseminationConference,
		DisseminationOpenSource:
		return true
	default:
		return false
	}
}

// String returns the string representation of the dissemination
func (d Dissemination) String() string {
	return string(d)
}

// ParseDissemination parses a string into a Dissemination
func ParseDissemination(s string) (Dissemination, error) {
	d := Dissemination(s)
	if !d.IsValid() {
		return "", fmt.Errorf("invalid dissemination: %s", s)
	}
	return d, nil
}

package types

import "fmt"

// Audience is the intended reader population of a paper
type Audience string

const (
	AudienceGovernance    Audience = "Governance auditor"
	AudienceDevelopers    Audience = "Broad developer community"
	AudienceExportControl Audience = "Export control reviewer"
	AudienceExperts       Audience = "Domain experts only"
)

// AllAudiences returns all valid audience values
func AllAudiences() []Audience {
	return []Audience{
		AudienceGovernance,
		AudienceDevelopers,
		AudienceExportControl,
		AudienceExperts,
	}
}

// IsValid checks if the audience is valid
func (a Audience) IsValid() bool {
	switch a {
	case AudienceGovernance,
		AudienceDevelopers,
		AudienceExportControl,
		AudienceExperts:
		return true
	default:
		return false
	}
}

// String returns the string representation of the audience
func (a Audience) String() string {
	return string(a)
}

// ParseAudience parses a string into an Audience
func ParseAudience(s string) (Audience, error) {
	a := Audience(s)
	if !a.IsValid() {
		return "", fmt.Errorf("invalid audience: %s", s)
	}
	return a, nil
}

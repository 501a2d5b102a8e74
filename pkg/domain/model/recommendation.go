package model

import "github.com/secmon-lab/dualscope/pkg/domain/types"

var defaultRecommendations = map[types.Tier][]string{
	types.TierLow: {
		"Proceed with publication, no special review required.",
		"Standard internal documentation recommended.",
	},
	types.TierMedium: {
		"Record assessment in internal tracking system.",
		"Internal governance review recommended before public release.",
		"Consider limiting technical details in public version.",
	},
	types.TierHigh: {
		"Export-control / national-security review required before any external release.",
		"Default to internal-only preprint or limited distribution until reviewed.",
		"Consult with legal/compliance team on publication scope.",
		"Consider structured access controls for code/models.",
	},
	types.TierCritical: {
		"Default NO open release of code, weights, or detailed methods.",
		"Escalate immediately to governance / export-control committee.",
		"Consider red-teaming and structured risk mitigation before any publication.",
		"Evaluate if publication should proceed at all.",
		"If proceeding, implement staged/gated release with monitoring.",
	},
}

// DefaultRecommendations returns the static governance statements for a tier.
// The returned slice is a copy; unknown tiers yield nil.
func DefaultRecommendations(tier types.Tier) []string {
	recs, ok := defaultRecommendations[tier]
	if !ok {
		return nil
	}
	out := make([]string, len(recs))
	copy(out, recs)
	return out
}

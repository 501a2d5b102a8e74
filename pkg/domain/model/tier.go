package model

import "github.com/secmon-lab/dualscope/pkg/domain/types"

// ComputeTier derives the risk tier from the worst effective axis score and the
// disclosure context. One severe axis dominates regardless of the others.
//
// Broad access (open-source release or a developer audience) escalates a maximal
// score from High to Critical. An expert-only audience currently resolves to High,
// the same as every other non-broad audience.
func ComputeTier(scores RiskScores, ctx AssessmentContext) types.Tier {
	maxScore := scores.MaxEffectiveScore()

	broadAccess := ctx.Dissemination == types.DisseminationOpenSource ||
		ctx.Audience == types.AudienceDevelopers
	expertOnly := ctx.Audience == types.AudienceExperts

	switch {
	case maxScore <= 1:
		return types.TierLow
	case maxScore == 2:
		return types.TierMedium
	case maxScore == 3:
		if broadAccess {
			return types.TierCritical
		}
		if expertOnly {
			return types.TierHigh
		}
		return types.TierHigh
	}

	// unreachable while scores stay within the rubric
	return types.TierMedium
}

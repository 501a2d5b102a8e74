package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/secmon-lab/dualscope/pkg/domain/interfaces"
	"github.com/secmon-lab/dualscope/pkg/domain/model"
	"github.com/secmon-lab/dualscope/pkg/service/parser"
	"github.com/secmon-lab/dualscope/pkg/service/prompt"
	"github.com/secmon-lab/dualscope/pkg/utils/logging"
	"github.com/secmon-lab/dualscope/pkg/utils/metrics"
)

const stageRecommendation = "recommendation"

// RecommendationGenerator asks the LLM for governance recommendations and falls back to
// the static tier list whenever the call fails or yields nothing usable.
type RecommendationGenerator struct {
	generator interfaces.TextGenerator
	metrics   *metrics.Metrics
}

func NewRecommendationGenerator(generator interfaces.TextGenerator, m *metrics.Metrics) *RecommendationGenerator {
	return &RecommendationGenerator{
		generator: generator,
		metrics:   m,
	}
}

// Generate never returns an empty list
func (g *RecommendationGenerator) Generate(ctx context.Context, in prompt.RecommendationInput) []string {
	logger := logging.From(ctx)

	p, err := prompt.BuildRecommendationPrompt(in)
	if err != nil {
		logger.Error("failed to build recommendation prompt", slog.Any("error", err))
		return model.DefaultRecommendations(in.Tier)
	}

	started := time.Now()
	text, err := g.generator.Generate(ctx, p)
	g.metrics.LLMCall(stageRecommendation, time.Since(started), err)
	if err != nil {
		logger.Warn("LLM recommendation generation failed, using defaults",
			slog.String("tier", in.Tier.String()),
			slog.Any("error", err))
		return model.DefaultRecommendations(in.Tier)
	}

	recs := parser.ParseRecommendations(text)
	if len(recs) == 0 {
		logger.Warn("failed to parse LLM recommendations, using defaults",
			slog.String("tier", in.Tier.String()))
		return model.DefaultRecommendations(in.Tier)
	}

	logger.Debug("generated LLM recommendations", slog.Int("count", len(recs)))
	return recs
}

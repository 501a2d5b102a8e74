package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dualscope/pkg/domain/interfaces"
	"github.com/secmon-lab/dualscope/pkg/domain/model"
	"github.com/secmon-lab/dualscope/pkg/domain/types"
	"github.com/secmon-lab/dualscope/pkg/service/axis"
	"github.com/secmon-lab/dualscope/pkg/service/parser"
	"github.com/secmon-lab/dualscope/pkg/service/prompt"
	"github.com/secmon-lab/dualscope/pkg/utils/async"
	"github.com/secmon-lab/dualscope/pkg/utils/errutil"
	"github.com/secmon-lab/dualscope/pkg/utils/logging"
	"github.com/secmon-lab/dualscope/pkg/utils/metrics"
	"golang.org/x/sync/semaphore"
)

const (
	stageScoring  = "scoring"
	stageCategory = "category"
)

// AssessUseCase runs the scoring pipeline for one paper and stores the result
type AssessUseCase struct {
	repo        interfaces.Repository
	generator   interfaces.TextGenerator
	axes        AxisProvider
	recommender *RecommendationGenerator
	notifier    interfaces.Notifier
	metrics     *metrics.Metrics
	sem         *semaphore.Weighted
	background  *async.Group
}

type assessOption func(*AssessUseCase)

func withAssessNotifier(n interfaces.Notifier) assessOption {
	return func(uc *AssessUseCase) { uc.notifier = n }
}

func withAssessMetrics(m *metrics.Metrics) assessOption {
	return func(uc *AssessUseCase) { uc.metrics = m }
}

func withAssessSemaphore(sem *semaphore.Weighted) assessOption {
	return func(uc *AssessUseCase) { uc.sem = sem }
}

func withAssessBackground(g *async.Group) assessOption {
	return func(uc *AssessUseCase) { uc.background = g }
}

func NewAssessUseCase(repo interfaces.Repository, generator interfaces.TextGenerator, axes AxisProvider, recommender *RecommendationGenerator, opts ...assessOption) *AssessUseCase {
	uc := &AssessUseCase{
		repo:        repo,
		generator:   generator,
		axes:        axes,
		recommender: recommender,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Assess scores the paper, derives its tier and recommendations, and saves the assessment.
// Only invalid input and storage failures are errors; LLM failures degrade to defaults.
func (uc *AssessUseCase) Assess(ctx context.Context, req model.AssessRequest) (*model.Assessment, error) {
	if strings.TrimSpace(req.Abstract) == "" {
		return nil, goerr.Wrap(ErrAbstractRequired, "invalid assess request")
	}
	if !req.Dissemination.IsValid() {
		return nil, goerr.Wrap(ErrInvalidDissemination, "invalid assess request",
			goerr.V("dissemination", req.Dissemination))
	}
	if !req.Audience.IsValid() {
		return nil, goerr.Wrap(ErrInvalidAudience, "invalid assess request",
			goerr.V("audience", req.Audience))
	}

	if uc.sem != nil {
		if err := uc.sem.Acquire(ctx, 1); err != nil {
			return nil, goerr.Wrap(err, "assessment cancelled while waiting for an LLM slot")
		}
		defer uc.sem.Release(1)
	}

	registry := uc.axes.Registry(ctx)
	axes := registry.Axes()

	scores, category := uc.score(ctx, req, registry)
	tier := model.ComputeTier(scores, req.Context())

	recs := uc.recommender.Generate(ctx, prompt.RecommendationInput{
		Title:    req.Title,
		Abstract: req.Abstract,
		Category: category,
		Tier:     tier,
		Scores:   scores,
		Axes:     axes,
	})

	assessment := model.NewAssessment(req, category, scores, tier, recs, axes)

	if err := uc.repo.Assessment().Put(ctx, assessment); err != nil {
		return nil, goerr.Wrap(err, "failed to save assessment", goerr.V(AssessmentIDKey, assessment.ID))
	}

	logging.From(ctx).Info("assessment completed",
		slog.String("assessment_id", assessment.ID.String()),
		slog.String("tier", tier.String()),
		slog.String("category", assessment.CategoryLabel()))
	uc.metrics.AssessmentCompleted(tier.String())

	uc.notify(ctx, assessment)
	return assessment, nil
}

// score runs the scoring call and, when the reply names no recognized category, one
// narrow classification call
func (uc *AssessUseCase) score(ctx context.Context, req model.AssessRequest, registry *axis.Registry) (model.RiskScores, types.Category) {
	logger := logging.From(ctx)
	axes := registry.Axes()

	p, err := prompt.BuildScoringPrompt(prompt.ScoringInput{
		Title:    req.Title,
		Abstract: req.Abstract,
		Snippet:  req.Snippet,
		Axes:     axes,
		Sections: registry.Sections(),
		Rubric:   registry.Rubric(),
	})
	if err != nil {
		logger.Error("failed to build scoring prompt", slog.Any("error", err))
		return parser.DefaultScores(axes, "Prompt rendering failed: "+err.Error()), ""
	}

	started := time.Now()
	text, err := uc.generator.Generate(ctx, p)
	uc.metrics.LLMCall(stageScoring, time.Since(started), err)
	if err != nil {
		logger.Warn("LLM scoring call failed, using default scores", slog.Any("error", err))
		return parser.DefaultScores(axes, "LLM call failed: "+err.Error()), ""
	}

	result := parser.ParseScores(ctx, text, axes)
	uc.metrics.ScoresParsed(string(result.Strategy))
	logger.Debug("parsed scoring response",
		slog.String("strategy", string(result.Strategy)),
		slog.String("raw_category", result.RawCategory))

	if result.Category != "" {
		return result.Scores, result.Category
	}
	return result.Scores, uc.detectCategory(ctx, req)
}

func (uc *AssessUseCase) detectCategory(ctx context.Context, req model.AssessRequest) types.Category {
	logger := logging.From(ctx)

	p, err := prompt.BuildCategoryPrompt(req.Title, req.Abstract)
	if err != nil {
		logger.Error("failed to build category prompt", slog.Any("error", err))
		return ""
	}

	started := time.Now()
	text, err := uc.generator.Generate(ctx, p)
	uc.metrics.LLMCall(stageCategory, time.Since(started), err)
	if err != nil {
		logger.Warn("category detection failed", slog.Any("error", err))
		return ""
	}

	category, ok := types.FindCategory(text)
	if !ok {
		logger.Warn("could not detect category from response", slog.String("response", text))
		return ""
	}
	return category
}

// notify escalates High and Critical assessments. With a background group the post runs
// after the response is returned.
func (uc *AssessUseCase) notify(ctx context.Context, a *model.Assessment) {
	if uc.notifier == nil || !a.Tier.IsEscalated() {
		return
	}

	send := func(ctx context.Context) error {
		if err := uc.notifier.Notify(ctx, a); err != nil {
			uc.metrics.NotifyFailed()
			return goerr.Wrap(err, "failed to notify escalation", goerr.V(AssessmentIDKey, a.ID))
		}
		return nil
	}

	if uc.background != nil {
		uc.background.Dispatch(ctx, send)
		return
	}
	if err := send(ctx); err != nil {
		_ = errutil.Handle(ctx, err, "failed to notify escalation")
	}
}

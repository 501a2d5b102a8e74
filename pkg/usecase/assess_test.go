package usecase_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/secmon-lab/dualscope/pkg/domain/model"
	"github.com/secmon-lab/dualscope/pkg/domain/types"
	"github.com/secmon-lab/dualscope/pkg/repository/memory"
	"github.com/secmon-lab/dualscope/pkg/service/prompt"
	"github.com/secmon-lab/dualscope/pkg/usecase"
	"github.com/secmon-lab/dualscope/pkg/utils/async"
	"github.com/secmon-lab/dualscope/pkg/utils/metrics"
)

func newRequest(dissemination types.Dissemination, audience types.Audience) model.AssessRequest {
	return model.AssessRequest{
		Title:         "Enhanced pathogen transmissibility",
		Abstract:      "We identify mutations that increase airborne transmission.",
		Dissemination: dissemination,
		Audience:      audience,
	}
}

var criticalScores = map[string]int{"A1": 3, "B1": 0, "C1": 3, "D1": 0}

func TestAssess_Critical(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	gen := &mockGenerator{
		scoring:        replyWith(scoringReply("biomedical", criticalScores)),
		recommendation: replyWith(`["Restrict release under BWC review.", "Notify IBC before preprint."]`),
	}
	uc := usecase.New(repo, gen, usecase.WithAxisProvider(fixedAxes{}))

	a, err := uc.Assess.Assess(ctx, newRequest(types.DisseminationOpenSource, types.AudienceExperts))
	gt.NoError(t, err).Required()

	gt.Value(t, a.Tier).Equal(types.TierCritical)
	gt.Value(t, a.Input.Category).Equal(types.CategoryBiomedical)
	gt.Value(t, a.Recommendations).Equal([]string{"Restrict release under BWC review.", "Notify IBC before preprint."})
	gt.Value(t, a.Scores.Len()).Equal(4)
	gt.Array(t, a.AxesUsed).Length(4)
	gt.Bool(t, a.ID != "").True()
	gt.Bool(t, a.Timestamp.IsZero()).False()

	c1, ok := a.Scores.Get("C1")
	gt.Bool(t, ok).True()
	gt.Bool(t, c1.ReverseScored).True()
	gt.Value(t, c1.EffectiveScore()).Equal(0)

	gt.Value(t, gen.Calls()).Equal([]string{"scoring", "recommendation"})

	stored, err := repo.Assessment().Get(ctx, a.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, stored.Tier).Equal(types.TierCritical)
}

func TestAssess_RecommendationFailureUsesStaticList(t *testing.T) {
	gen := &mockGenerator{
		scoring:        replyWith(scoringReply("biomedical", criticalScores)),
		recommendation: failWith(errors.New("rate limited")),
	}
	uc := usecase.New(memory.New(), gen, usecase.WithAxisProvider(fixedAxes{}))

	a, err := uc.Assess.Assess(context.Background(), newRequest(types.DisseminationOpenSource, types.AudienceDevelopers))
	gt.NoError(t, err).Required()

	gt.Value(t, a.Tier).Equal(types.TierCritical)
	gt.Value(t, a.Recommendations).Equal([]string{
		"Default NO open release of code, weights, or detailed methods.",
		"Escalate immediately to governance / export-control committee.",
		"Consider red-teaming and structured risk mitigation before any publication.",
		"Evaluate if publication should proceed at all.",
		"If proceeding, implement staged/gated release with monitoring.",
	})
}

func TestAssess_ScoringFailureDegradesToDefaults(t *testing.T) {
	gen := &mockGenerator{
		scoring:  failWith(errors.New("connection refused")),
		category: replyWith("unsure"),
	}
	uc := usecase.New(memory.New(), gen, usecase.WithAxisProvider(fixedAxes{}))

	a, err := uc.Assess.Assess(context.Background(), newRequest(types.DisseminationInternal, types.AudienceGovernance))
	gt.NoError(t, err).Required()

	for _, id := range []string{"A1", "B1", "C1", "D1"} {
		s, ok := a.Scores.Get(id)
		gt.Bool(t, ok).Describef("axis %s", id).True()
		gt.Value(t, s.Score).Equal(0)
		gt.String(t, s.Rationale).Contains("LLM call failed: ")
		gt.String(t, s.Rationale).Contains("connection refused")
	}

	// score 0 on the reverse-scored C1 is maximal risk
	gt.Value(t, a.Tier).Equal(types.TierHigh)
	gt.Value(t, a.Input.Category).Equal(types.Category(""))
	gt.Value(t, a.CategoryLabel()).Equal(model.UnknownCategory)
	gt.Value(t, a.Recommendations).Equal(model.DefaultRecommendations(types.TierHigh))
}

func TestAssess_CategoryFallback(t *testing.T) {
	t.Run("second call detects category", func(t *testing.T) {
		gen := &mockGenerator{
			scoring:        replyWith(scoringReply("quantum", map[string]int{"C1": 3})),
			category:       replyWith("Cybersecurity."),
			recommendation: replyWith(`["Coordinate disclosure with CISA before publication."]`),
		}
		uc := usecase.New(memory.New(), gen, usecase.WithAxisProvider(fixedAxes{}))

		a, err := uc.Assess.Assess(context.Background(), newRequest(types.DisseminationConference, types.AudienceExperts))
		gt.NoError(t, err).Required()
		gt.Value(t, a.Input.Category).Equal(types.CategoryCybersecurity)
		gt.Value(t, a.Tier).Equal(types.TierLow)
		gt.Value(t, gen.Calls()).Equal([]string{"scoring", "category", "recommendation"})
	})

	t.Run("recognized category skips second call", func(t *testing.T) {
		gen := &mockGenerator{
			scoring:        replyWith(scoringReply("Life_Sciences", map[string]int{"A1": 2, "C1": 3})),
			recommendation: replyWith(`["Review with IBC."]`),
		}
		uc := usecase.New(memory.New(), gen, usecase.WithAxisProvider(fixedAxes{}))

		a, err := uc.Assess.Assess(context.Background(), newRequest(types.DisseminationConference, types.AudienceExperts))
		gt.NoError(t, err).Required()
		gt.Value(t, a.Input.Category).Equal(types.CategoryBiomedical)
		gt.Value(t, a.Tier).Equal(types.TierMedium)
		gt.Value(t, gen.Calls()).Equal([]string{"scoring", "recommendation"})
	})
}

func TestAssess_InvalidInput(t *testing.T) {
	testCases := []struct {
		name    string
		modify  func(r *model.AssessRequest)
		wantErr error
	}{
		{
			name:    "blank abstract",
			modify:  func(r *model.AssessRequest) { r.Abstract = "  \n\t" },
			wantErr: usecase.ErrAbstractRequired,
		},
		{
			name:    "unknown dissemination",
			modify:  func(r *model.AssessRequest) { r.Dissemination = "Tweet" },
			wantErr: usecase.ErrInvalidDissemination,
		},
		{
			name:    "unknown audience",
			modify:  func(r *model.AssessRequest) { r.Audience = "" },
			wantErr: usecase.ErrInvalidAudience,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gen := &mockGenerator{}
			repo := memory.New()
			uc := usecase.New(repo, gen, usecase.WithAxisProvider(fixedAxes{}))

			req := newRequest(types.DisseminationPreprint, types.AudienceExperts)
			tc.modify(&req)

			_, err := uc.Assess.Assess(context.Background(), req)
			gt.Error(t, err).Is(tc.wantErr)
			gt.Array(t, gen.Calls()).Length(0)

			list, err := repo.Assessment().List(context.Background())
			gt.NoError(t, err).Required()
			gt.Array(t, list).Length(0)
		})
	}
}

func TestAssess_SaveFailure(t *testing.T) {
	gen := &mockGenerator{
		scoring:        replyWith(scoringReply("nuclear", map[string]int{"C1": 3})),
		recommendation: replyWith(`["Proceed with standard review."]`),
	}
	uc := usecase.New(&failingRepository{}, gen, usecase.WithAxisProvider(fixedAxes{}))

	_, err := uc.Assess.Assess(context.Background(), newRequest(types.DisseminationPreprint, types.AudienceExperts))
	gt.Value(t, err).NotNil()
	gt.String(t, err.Error()).Contains("failed to save assessment")
}

func TestAssess_Notification(t *testing.T) {
	t.Run("escalated tier is notified", func(t *testing.T) {
		notifier := &mockNotifier{}
		gen := &mockGenerator{
			scoring:        replyWith(scoringReply("biomedical", criticalScores)),
			recommendation: replyWith(`["Escalate to the committee."]`),
		}
		uc := usecase.New(memory.New(), gen,
			usecase.WithAxisProvider(fixedAxes{}),
			usecase.WithNotifier(notifier),
		)

		a, err := uc.Assess.Assess(context.Background(), newRequest(types.DisseminationOpenSource, types.AudienceExperts))
		gt.NoError(t, err).Required()
		gt.Array(t, notifier.notified).Length(1)
		gt.Value(t, notifier.notified[0].ID).Equal(a.ID)
	})

	t.Run("low tier is not notified", func(t *testing.T) {
		notifier := &mockNotifier{}
		gen := &mockGenerator{
			scoring:        replyWith(scoringReply("chemistry", map[string]int{"C1": 3})),
			recommendation: replyWith(`["Proceed with publication."]`),
		}
		uc := usecase.New(memory.New(), gen,
			usecase.WithAxisProvider(fixedAxes{}),
			usecase.WithNotifier(notifier),
		)

		_, err := uc.Assess.Assess(context.Background(), newRequest(types.DisseminationPreprint, types.AudienceExperts))
		gt.NoError(t, err).Required()
		gt.Array(t, notifier.notified).Length(0)
	})

	t.Run("notifier failure does not fail the assessment", func(t *testing.T) {
		notifier := &mockNotifier{err: errors.New("webhook down")}
		m := metrics.New()
		gen := &mockGenerator{
			scoring:        replyWith(scoringReply("biomedical", criticalScores)),
			recommendation: replyWith(`["Escalate to the committee."]`),
		}
		uc := usecase.New(memory.New(), gen,
			usecase.WithAxisProvider(fixedAxes{}),
			usecase.WithNotifier(notifier),
			usecase.WithMetrics(m),
		)

		_, err := uc.Assess.Assess(context.Background(), newRequest(types.DisseminationOpenSource, types.AudienceExperts))
		gt.NoError(t, err)

		count, err := testutil.GatherAndCount(m.Registry(), "dualscope_notify_failures_total")
		gt.NoError(t, err).Required()
		gt.Value(t, count).Equal(1)
	})

	t.Run("background notification", func(t *testing.T) {
		notifier := &mockNotifier{}
		var group async.Group
		gen := &mockGenerator{
			scoring:        replyWith(scoringReply("biomedical", criticalScores)),
			recommendation: replyWith(`["Escalate to the committee."]`),
		}
		uc := usecase.New(memory.New(), gen,
			usecase.WithAxisProvider(fixedAxes{}),
			usecase.WithNotifier(notifier),
			usecase.WithBackgroundNotification(&group),
		)

		ctx, cancel := context.WithCancel(context.Background())
		a, err := uc.Assess.Assess(ctx, newRequest(types.DisseminationOpenSource, types.AudienceExperts))
		cancel()
		gt.NoError(t, err).Required()

		group.Wait()
		gt.Array(t, notifier.notified).Length(1)
		gt.Value(t, notifier.notified[0].ID).Equal(a.ID)
	})
}

func TestAssess_Concurrency(t *testing.T) {
	gen := &mockGenerator{
		scoring:        replyWith(scoringReply("ai_ml", map[string]int{"A1": 1, "C1": 3})),
		recommendation: replyWith(`["Document the model card before release."]`),
	}
	repo := memory.New()
	uc := usecase.New(repo, gen,
		usecase.WithAxisProvider(fixedAxes{}),
		usecase.WithConcurrency(2),
	)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Assess.Assess(context.Background(), newRequest(types.DisseminationPreprint, types.AudienceExperts))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		gt.NoError(t, err)
	}
	list, err := repo.Assessment().List(context.Background())
	gt.NoError(t, err).Required()
	gt.Array(t, list).Length(8)
}

func TestRecommendationGenerator(t *testing.T) {
	scores := model.NewRiskScores()
	scores.Scores["A1"] = model.AxisScore{Score: 3, Rationale: "direct weaponization pathway"}

	input := prompt.RecommendationInput{
		Title:    "Paper",
		Abstract: "Abstract",
		Category: types.CategoryNuclear,
		Tier:     types.TierCritical,
		Scores:   scores,
	}

	t.Run("uses parsed LLM output", func(t *testing.T) {
		var got string
		gen := &mockGenerator{recommendation: func(p string) (string, error) {
			got = p
			return "```json\n[\"Consult NRC under 10 CFR Part 810.\"]\n```", nil
		}}
		recs := usecase.NewRecommendationGenerator(gen, nil).Generate(context.Background(), input)
		gt.Value(t, recs).Equal([]string{"Consult NRC under 10 CFR Part 810."})
		gt.String(t, got).Contains("Critical")
	})

	t.Run("gateway failure returns the tier list verbatim", func(t *testing.T) {
		gen := &mockGenerator{recommendation: failWith(errors.New("timeout"))}
		recs := usecase.NewRecommendationGenerator(gen, nil).Generate(context.Background(), input)
		gt.Value(t, recs).Equal(model.DefaultRecommendations(types.TierCritical))
		gt.Array(t, recs).Length(5)
	})

	t.Run("unparseable reply returns the tier list", func(t *testing.T) {
		gen := &mockGenerator{recommendation: replyWith("no")}
		low := input
		low.Tier = types.TierLow
		recs := usecase.NewRecommendationGenerator(gen, nil).Generate(context.Background(), low)
		gt.Value(t, recs).Equal(model.DefaultRecommendations(types.TierLow))
		gt.Bool(t, strings.HasPrefix(recs[0], "Proceed with publication")).True()
	})
}

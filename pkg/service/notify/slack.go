package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dualscope/pkg/domain/model"
	"github.com/secmon-lab/dualscope/pkg/domain/types"
	"github.com/secmon-lab/dualscope/pkg/utils/logging"
	"github.com/slack-go/slack"
)

// PostFunc sends a webhook message. slack.PostWebhookContext satisfies it.
type PostFunc func(ctx context.Context, url string, msg *slack.WebhookMessage) error

// Slack posts escalated assessments to an incoming webhook
type Slack struct {
	webhookURL string
	minTier    types.Tier
	post       PostFunc
}

// Option is a functional option for Slack
type Option func(*Slack)

// WithMinTier sets the lowest tier that is posted. Defaults to High.
func WithMinTier(tier types.Tier) Option {
	return func(s *Slack) {
		s.minTier = tier
	}
}

// WithPostFunc replaces the webhook sender
func WithPostFunc(fn PostFunc) Option {
	return func(s *Slack) {
		s.post = fn
	}
}

// NewSlack creates a webhook notifier
func NewSlack(webhookURL string, opts ...Option) *Slack {
	s := &Slack{
		webhookURL: webhookURL,
		minTier:    types.TierHigh,
		post:       slack.PostWebhookContext,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Notify posts the assessment when its tier is at or above the configured minimum
func (s *Slack) Notify(ctx context.Context, a *model.Assessment) error {
	if a.Tier.Rank() < s.minTier.Rank() {
		return nil
	}

	if err := s.post(ctx, s.webhookURL, buildMessage(a)); err != nil {
		return goerr.Wrap(err, "failed to post Slack webhook",
			goerr.V("assessment_id", a.ID),
			goerr.V("tier", a.Tier))
	}

	logging.From(ctx).Info("escalation posted to Slack",
		slog.String("assessment_id", a.ID.String()),
		slog.String("tier", a.Tier.String()))
	return nil
}

var tierColors = map[types.Tier]string{
	types.TierLow:      "#2eb886",
	types.TierMedium:   "#daa038",
	types.TierHigh:     "#e8912d",
	types.TierCritical: "#a30200",
}

func buildMessage(a *model.Assessment) *slack.WebhookMessage {
	var recs strings.Builder
	for _, r := range a.Recommendations {
		fmt.Fprintf(&recs, "• %s\n", r)
	}

	return &slack.WebhookMessage{
		Text: fmt.Sprintf("[%s] dual-use risk assessment: %s", a.Tier, a.Input.Title),
		Attachments: []slack.Attachment{
			{
				Color: tierColors[a.Tier],
				Title: a.Input.Title,
				Fields: []slack.AttachmentField{
					{Title: "Tier", Value: a.Tier.String(), Short: true},
					{Title: "Category", Value: a.CategoryLabel(), Short: true},
					{Title: "Dissemination", Value: a.Input.Dissemination.String(), Short: true},
					{Title: "Audience", Value: a.Input.Audience.String(), Short: true},
					{Title: "Recommendations", Value: recs.String()},
				},
				Footer: "assessment " + a.ID.String(),
			},
		},
	}
}

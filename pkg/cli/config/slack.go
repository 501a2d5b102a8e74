package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dualscope/pkg/domain/interfaces"
	"github.com/secmon-lab/dualscope/pkg/domain/types"
	"github.com/secmon-lab/dualscope/pkg/service/notify"
	"github.com/urfave/cli/v3"
)

// Slack holds CLI flags for escalation notices. A webhook, a bot token with a channel,
// or both may be configured.
type Slack struct {
	webhookURL string
	botToken   string
	channel    string
	minTier    string
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-webhook-url",
			Usage:       "Slack incoming webhook URL for High/Critical assessments",
			Category:    "Slack",
			Destination: &x.webhookURL,
			Sources:     cli.EnvVars("DUALSCOPE_SLACK_WEBHOOK_URL"),
		},
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack bot token (chat:write, channels:read) for posting escalations",
			Category:    "Slack",
			Destination: &x.botToken,
			Sources:     cli.EnvVars("DUALSCOPE_SLACK_BOT_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-channel",
			Usage:       "Channel ID or #name the bot posts to",
			Category:    "Slack",
			Destination: &x.channel,
			Sources:     cli.EnvVars("DUALSCOPE_SLACK_CHANNEL"),
		},
		&cli.StringFlag{
			Name:        "slack-min-tier",
			Usage:       "Lowest tier posted to Slack [High|Critical]",
			Category:    "Slack",
			Value:       string(types.TierHigh),
			Destination: &x.minTier,
			Sources:     cli.EnvVars("DUALSCOPE_SLACK_MIN_TIER"),
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("webhook", x.webhookURL != ""),
		slog.Bool("bot", x.botToken != ""),
		slog.String("channel", x.channel),
		slog.String("min_tier", x.minTier),
	)
}

// Configure returns nil when neither a webhook nor a bot token is set
func (x *Slack) Configure() (interfaces.Notifier, error) {
	if x.webhookURL == "" && x.botToken == "" {
		return nil, nil
	}

	tier, err := types.ParseTier(x.minTier)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid slack-min-tier", goerr.V("min_tier", x.minTier))
	}
	if !tier.IsEscalated() {
		return nil, goerr.New("slack-min-tier must be High or Critical", goerr.V("min_tier", x.minTier))
	}

	var notifiers notify.Multi
	if x.webhookURL != "" {
		notifiers = append(notifiers, notify.NewSlack(x.webhookURL, notify.WithMinTier(tier)))
	}
	if x.botToken != "" {
		bot, err := notify.NewBot(x.botToken, x.channel, notify.WithBotMinTier(tier))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to configure Slack bot", goerr.V("channel", x.channel))
		}
		notifiers = append(notifiers, bot)
	}

	if len(notifiers) == 1 {
		return notifiers[0], nil
	}
	return notifiers, nil
}

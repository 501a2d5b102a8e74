package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dualscope/pkg/domain/model"
	"github.com/secmon-lab/dualscope/pkg/domain/types"
	"github.com/secmon-lab/dualscope/pkg/utils/logging"
	"github.com/slack-go/slack"
)

// DefaultChannelCacheTTL is how long a resolved channel name stays cached
const DefaultChannelCacheTTL = 10 * time.Minute

// BotAPI is the part of the Slack Web API the bot notifier uses. *slack.Client satisfies it.
type BotAPI interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
	GetConversationsContext(ctx context.Context, params *slack.GetConversationsParameters) ([]slack.Channel, string, error)
}

type channelEntry struct {
	id        string
	expiresAt time.Time
}

// Bot posts escalated assessments as Block Kit messages with a bot token. The channel
// may be given as an ID (C0123...) or as a #name the bot has joined.
type Bot struct {
	api      BotAPI
	channel  string
	minTier  types.Tier
	cacheTTL time.Duration

	mu    sync.RWMutex
	cache map[string]channelEntry
}

// BotOption is a functional option for Bot
type BotOption func(*Bot)

// WithBotMinTier sets the lowest tier that is posted. Defaults to High.
func WithBotMinTier(tier types.Tier) BotOption {
	return func(b *Bot) {
		b.minTier = tier
	}
}

// WithBotAPI replaces the Slack Web API client
func WithBotAPI(api BotAPI) BotOption {
	return func(b *Bot) {
		b.api = api
	}
}

// WithChannelCacheTTL sets the TTL of resolved channel names
func WithChannelCacheTTL(ttl time.Duration) BotOption {
	return func(b *Bot) {
		b.cacheTTL = ttl
	}
}

// NewBot creates a bot-token notifier
func NewBot(token, channel string, opts ...BotOption) (*Bot, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}
	if strings.TrimLeft(channel, "#") == "" {
		return nil, goerr.New("Slack channel is required")
	}

	b := &Bot{
		api:      slack.New(token),
		channel:  channel,
		minTier:  types.TierHigh,
		cacheTTL: DefaultChannelCacheTTL,
		cache:    make(map[string]channelEntry),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Notify posts the assessment when its tier is at or above the configured minimum
func (b *Bot) Notify(ctx context.Context, a *model.Assessment) error {
	if a.Tier.Rank() < b.minTier.Rank() {
		return nil
	}

	channelID, err := b.resolveChannel(ctx)
	if err != nil {
		return err
	}

	_, ts, err := b.api.PostMessageContext(ctx, channelID,
		slack.MsgOptionText(headline(a), false),
		slack.MsgOptionBlocks(buildBlocks(a)...),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post Slack message",
			goerr.V("channel", b.channel),
			goerr.V("assessment_id", a.ID),
			goerr.V("tier", a.Tier))
	}

	logging.From(ctx).Info("escalation posted to Slack",
		slog.String("assessment_id", a.ID.String()),
		slog.String("tier", a.Tier.String()),
		slog.String("channel", channelID),
		slog.String("ts", ts))
	return nil
}

func (b *Bot) resolveChannel(ctx context.Context) (string, error) {
	name, ok := strings.CutPrefix(b.channel, "#")
	if !ok {
		return b.channel, nil
	}

	now := time.Now()
	b.mu.RLock()
	entry, hit := b.cache[name]
	b.mu.RUnlock()
	if hit && entry.expiresAt.After(now) {
		return entry.id, nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	// Double-check after acquiring the write lock
	if entry, ok := b.cache[name]; ok && entry.expiresAt.After(now) {
		return entry.id, nil
	}

	var cursor string
	for {
		convs, next, err := b.api.GetConversationsContext(ctx, &slack.GetConversationsParameters{
			Types:           []string{"public_channel", "private_channel"},
			ExcludeArchived: true,
			Limit:           200,
			Cursor:          cursor,
		})
		if err != nil {
			return "", goerr.Wrap(err, "failed to list Slack conversations")
		}

		for _, conv := range convs {
			if conv.Name == name && conv.IsMember {
				b.cache[name] = channelEntry{id: conv.ID, expiresAt: now.Add(b.cacheTTL)}
				return conv.ID, nil
			}
		}

		if next == "" {
			break
		}
		cursor = next
	}

	return "", goerr.New("Slack channel not found or bot is not a member", goerr.V("channel", b.channel))
}

func headline(a *model.Assessment) string {
	return fmt.Sprintf("[%s] dual-use risk assessment: %s", a.Tier, a.Input.Title)
}

var tierEmoji = map[types.Tier]string{
	types.TierLow:      ":large_green_circle:",
	types.TierMedium:   ":large_yellow_circle:",
	types.TierHigh:     ":large_orange_circle:",
	types.TierCritical: ":red_circle:",
}

// buildBlocks renders the same content as the webhook attachment in Block Kit
func buildBlocks(a *model.Assessment) []slack.Block {
	header := slack.NewHeaderBlock(
		slack.NewTextBlockObject(slack.PlainTextType, truncate(a.Input.Title, 150), false, false),
	)

	fields := []*slack.TextBlockObject{
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Tier*\n%s %s", tierEmoji[a.Tier], a.Tier), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, "*Category*\n"+a.CategoryLabel(), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, "*Dissemination*\n"+a.Input.Dissemination.String(), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, "*Audience*\n"+a.Input.Audience.String(), false, false),
	}
	summary := slack.NewSectionBlock(nil, fields, nil)

	var recs strings.Builder
	recs.WriteString("*Recommendations*\n")
	for _, r := range a.Recommendations {
		fmt.Fprintf(&recs, "• %s\n", r)
	}
	recommendations := slack.NewSectionBlock(
		slack.NewTextBlockObject(slack.MarkdownType, truncate(recs.String(), 3000), false, false),
		nil, nil,
	)

	footer := slack.NewContextBlock("",
		slack.NewTextBlockObject(slack.MarkdownType, "assessment `"+a.ID.String()+"`", false, false),
	)

	return []slack.Block{header, summary, recommendations, footer}
}

// truncate cuts s to at most limit runes
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/secmon-lab/dualscope/pkg/domain/model"
	"github.com/secmon-lab/dualscope/pkg/domain/types"
	"github.com/secmon-lab/dualscope/pkg/utils/logging"
)

// Strategy names the parsing stage that produced a result
type Strategy string

const (
	StrategyDirect  Strategy = "direct"
	StrategyBracket Strategy = "bracket"
	StrategyRegex   Strategy = "regex"
	StrategyNone    Strategy = "none"
)

const (
	// NoJSONReason is the rationale given to every axis when the reply holds no object at all
	NoJSONReason = "No valid JSON found in LLM response"

	noRationale   = "No rationale provided"
	scoreWindow   = 50
	rationaleKey  = `"rationale"`
	logPreviewLen = 500
)

var categoryPattern = regexp.MustCompile(`"category"\s*:\s*"([^"]+)"`)
var scorePattern = regexp.MustCompile(`"score"\s*:\s*(\d)`)

// ScoreResult is the outcome of parsing a scoring reply
type ScoreResult struct {
	Scores model.RiskScores
	// Category is the canonical category, empty when none was recognized
	Category types.Category
	// RawCategory is the category string exactly as the model wrote it
	RawCategory string
	Strategy    Strategy
}

// extraction is the per-axis data recovered by one strategy, before score building
type extraction struct {
	category string
	fields   map[string]any
}

type strategy struct {
	name  Strategy
	parse func(text string, axisIDs []string) (*extraction, bool)
}

var strategies = []strategy{
	{name: StrategyDirect, parse: parseDirect},
	{name: StrategyBracket, parse: parseBracket},
	{name: StrategyRegex, parse: parseRegex},
}

// ParseScores turns a raw scoring reply into one AxisScore per axis. It never fails: when no
// structure can be recovered every axis gets score 0 and an explanatory rationale.
func ParseScores(ctx context.Context, raw string, axes []model.RiskAxis) ScoreResult {
	logger := logging.From(ctx)
	logger.Debug("parsing scoring response", slog.String("preview", preview(raw)))

	text := stripFence(raw)
	axisIDs := model.AxisIDs(axes)

	for _, s := range strategies {
		ext, ok := s.parse(text, axisIDs)
		if !ok {
			logger.Debug("parse strategy did not match", slog.String("strategy", string(s.name)))
			continue
		}

		category, _ := types.NormalizeCategory(ext.category)
		return ScoreResult{
			Scores:      buildScores(ctx, ext.fields, axes),
			Category:    category,
			RawCategory: ext.category,
			Strategy:    s.name,
		}
	}

	logger.Warn("no JSON found in scoring response", slog.String("preview", preview(raw)))
	return ScoreResult{
		Scores:   DefaultScores(axes, NoJSONReason),
		Strategy: StrategyNone,
	}
}

// DefaultScores returns score 0 for every axis with reason as the rationale
func DefaultScores(axes []model.RiskAxis, reason string) model.RiskScores {
	scores := model.NewRiskScores()
	for _, a := range axes {
		scores.Scores[a.ID] = model.AxisScore{
			Score:         0,
			Rationale:     reason,
			ReverseScored: a.ReverseScored,
		}
	}
	return scores
}

func parseDirect(text string, _ []string) (*extraction, bool) {
	return decodeObject(text)
}

func parseBracket(text string, _ []string) (*extraction, bool) {
	span, ok := objectSpan(text)
	if !ok {
		return nil, false
	}
	return decodeObject(stripControl(span))
}

// parseRegex recovers fields from an object that does not decode. It only requires that
// some {...} span exists; axes whose block cannot be found are reported per axis.
func parseRegex(text string, axisIDs []string) (*extraction, bool) {
	span, ok := objectSpan(text)
	if !ok {
		return nil, false
	}
	span = stripControl(span)

	ext := &extraction{fields: make(map[string]any, len(axisIDs))}
	if m := categoryPattern.FindStringSubmatch(span); m != nil {
		ext.category = m[1]
	}

	for _, id := range axisIDs {
		ext.fields[id] = extractAxis(span, id)
	}
	return ext, true
}

func extractAxis(span, id string) map[string]any {
	blockPattern := regexp.MustCompile(`"` + regexp.QuoteMeta(id) + `"\s*:\s*\{`)
	loc := blockPattern.FindStringIndex(span)
	if loc == nil {
		return map[string]any{
			"score":     0,
			"rationale": fmt.Sprintf("Could not find %s in response", id),
		}
	}
	start := loc[1]

	score := 0
	window := span[start:min(len(span), start+scoreWindow)]
	if m := scorePattern.FindStringSubmatch(window); m != nil {
		score, _ = strconv.Atoi(m[1])
	}

	return map[string]any{
		"score":     score,
		"rationale": extractRationale(span, start),
	}
}

// extractRationale walks from the rationale key to the closing unescaped quote
func extractRationale(span string, from int) string {
	keyPos := strings.Index(span[from:], rationaleKey)
	if keyPos == -1 {
		return "Could not find rationale"
	}
	keyEnd := from + keyPos + len(rationaleKey) + 1
	if keyEnd > len(span) {
		return "Could not parse rationale"
	}

	quoteRel := strings.IndexByte(span[keyEnd:], '"')
	if quoteRel == -1 {
		return "Could not parse rationale"
	}
	open := keyEnd + quoteRel

	end := open + 1
	for end < len(span) {
		if span[end] == '"' && span[end-1] != '\\' {
			break
		}
		end++
	}

	r := span[open+1 : end]
	r = strings.ReplaceAll(r, `\"`, `"`)
	r = strings.ReplaceAll(r, `\n`, " ")
	r = strings.ReplaceAll(r, `\t`, " ")
	return r
}

func objectSpan(text string) (string, bool) {
	first := strings.IndexByte(text, '{')
	last := strings.LastIndexByte(text, '}')
	if first == -1 || last < first {
		return "", false
	}
	return text[first : last+1], true
}

func decodeObject(text string) (*extraction, bool) {
	var fields map[string]any
	if err := json.Unmarshal([]byte(text), &fields); err != nil || fields == nil {
		return nil, false
	}

	ext := &extraction{fields: fields}
	if c, ok := fields["category"].(string); ok {
		ext.category = c
	}
	delete(fields, "category")
	return ext, true
}

// buildScores produces exactly one AxisScore per axis, in registry terms. ReverseScored is
// always taken from the axis, never from the reply.
func buildScores(ctx context.Context, fields map[string]any, axes []model.RiskAxis) model.RiskScores {
	scores := model.NewRiskScores()

	for _, a := range axes {
		value, ok := fields[a.ID]
		if !ok {
			scores.Scores[a.ID] = model.AxisScore{
				Score:         0,
				Rationale:     fmt.Sprintf("Missing %s from response", a.ID),
				ReverseScored: a.ReverseScored,
			}
			continue
		}

		obj, _ := value.(map[string]any)
		scores.Scores[a.ID] = model.AxisScore{
			Score:         clampScore(ctx, a.ID, toScore(obj["score"])),
			Rationale:     toRationale(obj),
			ReverseScored: a.ReverseScored,
		}
	}

	return scores
}

func toScore(v any) int {
	switch s := v.(type) {
	case float64:
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return 0
		}
		return int(s)
	case int:
		return s
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0
		}
		return int(f)
	default:
		return 0
	}
}

func toRationale(obj map[string]any) string {
	v, ok := obj["rationale"]
	if !ok || v == nil {
		return noRationale
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func clampScore(ctx context.Context, axisID string, score int) int {
	clamped := max(0, min(score, model.MaxAxisScore))
	if clamped != score {
		logging.From(ctx).Warn("axis score out of range, clamped",
			slog.String("axis", axisID),
			slog.Int("score", score),
			slog.Int("clamped", clamped))
	}
	return clamped
}

func preview(s string) string {
	r := []rune(s)
	if len(r) <= logPreviewLen {
		return s
	}
	return string(r[:logPreviewLen])
}

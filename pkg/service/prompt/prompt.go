package prompt

import (
	"bytes"
	_ "embed"
	"fmt"
	"slices"
	"strings"
	"text/template"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dualscope/pkg/domain/model"
	"github.com/secmon-lab/dualscope/pkg/domain/types"
)

var (
	//go:embed templates/scoring.md
	scoringTmplText string
	//go:embed templates/recommendation.md
	recommendationTmplText string
	//go:embed templates/category.md
	categoryTmplText string
)

var (
	scoringTmpl        = template.Must(template.New("scoring").Parse(scoringTmplText))
	recommendationTmpl = template.Must(template.New("recommendation").Parse(recommendationTmplText))
	categoryTmpl       = template.Must(template.New("category").Parse(categoryTmplText))
)

const (
	recommendationAbstractLimit = 500
	categoryAbstractLimit       = 1000
	rationaleLimit              = 100
	maxHighRiskAxes             = 3
	maxSafeguardGaps            = 2
	highSignalScore             = 2
)

type categoryEntry struct {
	ID     types.Category
	Label  string
	Topics string
}

var categoryEntries = []categoryEntry{
	{types.CategoryBiomedical, "Biomedical / Life Sciences", "CRISPR, gene editing, drug discovery, pathogens"},
	{types.CategorySemiconductor, "Semiconductor / AI Hardware", "chip design, EDA, accelerators"},
	{types.CategoryAIML, "AI / Machine Learning", "LLMs, training methods, model architectures"},
	{types.CategoryCybersecurity, "Cybersecurity / AI Security", "vulnerabilities, exploits, adversarial attacks"},
	{types.CategoryChemistry, "Chemistry / Materials Science", "synthesis, energetic materials, novel compounds"},
	{types.CategoryNuclear, "Nuclear / Radiological", "reactors, fuel cycles, radiation"},
}

var defaultRubric = map[string]string{
	"0": "Not relevant / clearly benign / strong controls in place",
	"1": "Weak signal, indirect concern, or minor gap",
	"2": "Meaningful concern but mitigated by context or expertise requirements",
	"3": "Strong, direct concern that substantially raises risk profile",
}

// ScoringInput is the paper content rendered into the scoring prompt
type ScoringInput struct {
	Title    string
	Abstract string
	Snippet  string
	Axes     []model.RiskAxis
	// Sections maps section codes to display names
	Sections map[string]string
	// Rubric overrides the default 0-3 rubric text per score
	Rubric map[string]string
}

type rubricLine struct {
	Score string
	Text  string
}

type axisLine struct {
	model.RiskAxis
	SectionHeader bool
	SectionName   string
	Reverse       bool
}

// BuildScoringPrompt renders the prompt that asks for a category and one {score, rationale}
// object per axis. The JSON contract is generated from in.Axes.
func BuildScoringPrompt(in ScoringInput) (string, error) {
	rubric := make([]rubricLine, 0, model.MaxAxisScore+1)
	for score := 0; score <= model.MaxAxisScore; score++ {
		key := fmt.Sprint(score)
		text := defaultRubric[key]
		if custom, ok := in.Rubric[key]; ok && custom != "" {
			text = custom
		}
		rubric = append(rubric, rubricLine{Score: key, Text: text})
	}

	var lines []axisLine
	currentSection := ""
	for _, a := range in.Axes {
		line := axisLine{RiskAxis: a, Reverse: a.ReverseScored}
		if a.Section != "" && a.Section != currentSection {
			line.SectionHeader = true
			line.SectionName = a.Section
			if name, ok := in.Sections[a.Section]; ok {
				line.SectionName = name
			}
			currentSection = a.Section
		}
		lines = append(lines, line)
	}

	entries := make([]string, len(in.Axes))
	for i, a := range in.Axes {
		entries[i] = fmt.Sprintf(`"%s": {"score": <0-3>, "rationale": "<explanation>"}`, a.ID)
	}

	data := struct {
		Categories   []categoryEntry
		Rubric       []rubricLine
		Axes         []axisLine
		Title        string
		Abstract     string
		Snippet      string
		JSONTemplate string
	}{
		Categories:   categoryEntries,
		Rubric:       rubric,
		Axes:         lines,
		Title:        in.Title,
		Abstract:     in.Abstract,
		Snippet:      in.Snippet,
		JSONTemplate: strings.Join(entries, ",\n    "),
	}

	var buf bytes.Buffer
	if err := scoringTmpl.Execute(&buf, data); err != nil {
		return "", goerr.Wrap(err, "failed to execute scoring prompt template")
	}
	return buf.String(), nil
}

// RecommendationInput is the assessment state rendered into the recommendation prompt
type RecommendationInput struct {
	Title    string
	Abstract string
	Category types.Category
	Tier     types.Tier
	Scores   model.RiskScores
	// Axes orders the scores; ids not listed follow in lexical order
	Axes []model.RiskAxis
}

// BuildRecommendationPrompt renders the prompt that asks for 2-3 governance recommendations
// citing the regulatory frameworks of the detected category.
func BuildRecommendationPrompt(in RecommendationInput) (string, error) {
	var highRisk, gaps []string
	for _, id := range orderedScoreIDs(in.Scores, in.Axes) {
		s, _ := in.Scores.Get(id)
		entry := id + ": " + truncate(s.Rationale, rationaleLimit)
		if s.ReverseScored {
			if s.EffectiveScore() >= highSignalScore {
				gaps = append(gaps, entry)
			}
		} else if s.Score >= highSignalScore {
			highRisk = append(highRisk, entry)
		}
	}

	var summary strings.Builder
	if len(highRisk) > 0 {
		summary.WriteString("High-risk axes:\n")
		summary.WriteString(bulletList(highRisk[:min(len(highRisk), maxHighRiskAxes)]))
	}
	if len(gaps) > 0 {
		summary.WriteString("\n\nSafeguard gaps:\n")
		summary.WriteString(bulletList(gaps[:min(len(gaps), maxSafeguardGaps)]))
	}

	categoryLabel := "General AI/Technology"
	scope := "this research"
	if in.Category != "" {
		categoryLabel = in.Category.String()
		scope = in.Category.String()
	}

	data := struct {
		Title          string
		Abstract       string
		CategoryLabel  string
		Tier           types.Tier
		RiskSummary    string
		FrameworkScope string
		Frameworks     []string
	}{
		Title:          in.Title,
		Abstract:       truncate(in.Abstract, recommendationAbstractLimit),
		CategoryLabel:  categoryLabel,
		Tier:           in.Tier,
		RiskSummary:    summary.String(),
		FrameworkScope: scope,
		Frameworks:     RegulatoryFrameworks(in.Category),
	}

	var buf bytes.Buffer
	if err := recommendationTmpl.Execute(&buf, data); err != nil {
		return "", goerr.Wrap(err, "failed to execute recommendation prompt template")
	}
	return buf.String(), nil
}

// BuildCategoryPrompt renders the narrow prompt asking only for a bare category id
func BuildCategoryPrompt(title, abstract string) (string, error) {
	data := struct {
		Categories []categoryEntry
		Title      string
		Abstract   string
	}{
		Categories: categoryEntries,
		Title:      title,
		Abstract:   truncate(abstract, categoryAbstractLimit),
	}

	var buf bytes.Buffer
	if err := categoryTmpl.Execute(&buf, data); err != nil {
		return "", goerr.Wrap(err, "failed to execute category prompt template")
	}
	return buf.String(), nil
}

func orderedScoreIDs(scores model.RiskScores, axes []model.RiskAxis) []string {
	ids := make([]string, 0, scores.Len())
	listed := make(map[string]struct{}, len(axes))
	for _, a := range axes {
		if _, ok := scores.Get(a.ID); ok {
			ids = append(ids, a.ID)
			listed[a.ID] = struct{}{}
		}
	}

	var rest []string
	for id := range scores.Scores {
		if _, ok := listed[id]; !ok {
			rest = append(rest, id)
		}
	}
	slices.Sort(rest)
	return append(ids, rest...)
}

func bulletList(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "- " + item
	}
	return strings.Join(lines, "\n")
}

// truncate cuts s to at most n runes
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

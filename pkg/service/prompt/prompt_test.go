package prompt_test

import (
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/dualscope/pkg/domain/model"
	"github.com/secmon-lab/dualscope/pkg/domain/types"
	"github.com/secmon-lab/dualscope/pkg/service/prompt"
)

var testAxes = []model.RiskAxis{
	{ID: "A1", Name: "Dangerous Capability Focus", Question: "Does it enable weapons?", Section: "A"},
	{ID: "A2", Name: "Operationalization of Harm", Question: "Is it step-by-step?", Section: "A"},
	{ID: "C1", Name: "Built-in Technical Safeguards", Question: "Are there safeguards?", Section: "C", ReverseScored: true},
	{ID: "Z9", Name: "Unsectioned", Question: "Anything else?"},
}

func TestBuildScoringPrompt(t *testing.T) {
	p, err := prompt.BuildScoringPrompt(prompt.ScoringInput{
		Title:    "Gain of function study",
		Abstract: "We enhance transmissibility.",
		Snippet:  "Serial passage in ferrets.",
		Axes:     testAxes,
		Sections: map[string]string{"A": "Capability and Domain", "C": "Safeguards and Governance"},
	})
	gt.NoError(t, err).Required()

	t.Run("lists every category", func(t *testing.T) {
		for _, c := range types.AllCategories() {
			gt.String(t, p).Contains("**" + c.String() + "**")
		}
	})

	t.Run("states the rubric", func(t *testing.T) {
		gt.String(t, p).Contains("- **0** - Not relevant / clearly benign / strong controls in place")
		gt.String(t, p).Contains("- **3** - Strong, direct concern that substantially raises risk profile")
	})

	t.Run("groups axes by section", func(t *testing.T) {
		gt.Value(t, strings.Count(p, "### Section A: Capability and Domain")).Equal(1)
		gt.Value(t, strings.Count(p, "### Section C: Safeguards and Governance")).Equal(1)
		gt.String(t, p).Contains("- **A1 - Dangerous Capability Focus**: Does it enable weapons?\n")
		gt.String(t, p).Contains("- **Z9 - Unsectioned**: Anything else?\n")
	})

	t.Run("marks reverse-scored axes only", func(t *testing.T) {
		gt.String(t, p).Contains("Are there safeguards? [NOTE: Higher score = BETTER safeguards = LOWER risk]")
		gt.Value(t, strings.Count(p, "[NOTE: Higher score = BETTER safeguards = LOWER risk]")).Equal(1)
	})

	t.Run("embeds content", func(t *testing.T) {
		gt.String(t, p).Contains("**Title:** Gain of function study")
		gt.String(t, p).Contains("**Abstract:** We enhance transmissibility.")
		gt.String(t, p).Contains("**Methods/Contributions Snippet:** Serial passage in ferrets.")
	})

	t.Run("generates the JSON contract from the axes", func(t *testing.T) {
		gt.String(t, p).Contains(`"category": "<category_id>",`)
		for _, a := range testAxes {
			gt.String(t, p).Contains(`"` + a.ID + `": {"score": <0-3>, "rationale": "<explanation>"}`)
		}
	})
}

func TestBuildScoringPrompt_NoSnippet(t *testing.T) {
	p, err := prompt.BuildScoringPrompt(prompt.ScoringInput{
		Title:    "t",
		Abstract: "a",
		Axes:     testAxes[:1],
	})
	gt.NoError(t, err).Required()
	gt.Bool(t, strings.Contains(p, "Snippet")).False()
	// unknown section names fall back to the code
	gt.String(t, p).Contains("### Section A: A")
}

func TestBuildScoringPrompt_CustomRubric(t *testing.T) {
	p, err := prompt.BuildScoringPrompt(prompt.ScoringInput{
		Title:    "t",
		Abstract: "a",
		Axes:     testAxes,
		Rubric:   map[string]string{"2": "Custom two"},
	})
	gt.NoError(t, err).Required()
	gt.String(t, p).Contains("- **2** - Custom two")
	gt.String(t, p).Contains("- **1** - Weak signal, indirect concern, or minor gap")
}

func TestBuildRecommendationPrompt(t *testing.T) {
	longRationale := strings.Repeat("x", 150)
	scores := model.RiskScores{Scores: map[string]model.AxisScore{
		"A1": {Score: 3, Rationale: longRationale},
		"A2": {Score: 2, Rationale: "step-by-step"},
		"B1": {Score: 2, Rationale: "open weights"},
		"B2": {Score: 3, Rationale: "low skill"},
		"D1": {Score: 1, Rationale: "minor"},
		"C1": {Score: 0, Rationale: "no safeguards", ReverseScored: true},
		"C2": {Score: 1, Rationale: "no plan", ReverseScored: true},
		"F2": {Score: 3, Rationale: "aligned", ReverseScored: true},
	}}
	axes := []model.RiskAxis{
		{ID: "A1"}, {ID: "A2"}, {ID: "B1"}, {ID: "B2"}, {ID: "C1", ReverseScored: true},
		{ID: "C2", ReverseScored: true}, {ID: "D1"}, {ID: "F2", ReverseScored: true},
	}

	p, err := prompt.BuildRecommendationPrompt(prompt.RecommendationInput{
		Title:    "Paper",
		Abstract: strings.Repeat("a", 600),
		Category: types.CategoryBiomedical,
		Tier:     types.TierHigh,
		Scores:   scores,
		Axes:     axes,
	})
	gt.NoError(t, err).Required()

	t.Run("truncates the abstract", func(t *testing.T) {
		gt.String(t, p).Contains("**Abstract:** " + strings.Repeat("a", 500) + "...\n")
		gt.Bool(t, strings.Contains(p, strings.Repeat("a", 501))).False()
	})

	t.Run("caps high-risk axes at three in axis order", func(t *testing.T) {
		gt.String(t, p).Contains("High-risk axes:\n- A1: " + strings.Repeat("x", 100) + "\n- A2: step-by-step\n- B1: open weights")
		gt.Bool(t, strings.Contains(p, "B2: low skill")).False()
		gt.Bool(t, strings.Contains(p, strings.Repeat("x", 101))).False()
		gt.Bool(t, strings.Contains(p, "D1: minor")).False()
	})

	t.Run("lists safeguard gaps by effective score", func(t *testing.T) {
		gt.String(t, p).Contains("Safeguard gaps:\n- C1: no safeguards\n- C2: no plan")
		gt.Bool(t, strings.Contains(p, "F2: aligned")).False()
	})

	t.Run("cites category frameworks", func(t *testing.T) {
		gt.String(t, p).Contains("**Category:** biomedical")
		gt.String(t, p).Contains("## Relevant Regulatory Frameworks for biomedical:")
		gt.String(t, p).Contains("- Select Agent Regulations (42 CFR Part 73)")
		gt.String(t, p).Contains("appropriate for the High risk level")
	})
}

func TestBuildRecommendationPrompt_UnknownCategory(t *testing.T) {
	p, err := prompt.BuildRecommendationPrompt(prompt.RecommendationInput{
		Title:    "Paper",
		Abstract: "short",
		Tier:     types.TierLow,
		Scores:   model.NewRiskScores(),
	})
	gt.NoError(t, err).Required()
	gt.String(t, p).Contains("**Category:** General AI/Technology")
	gt.String(t, p).Contains("## Relevant Regulatory Frameworks for this research:")
	gt.String(t, p).Contains("- NIST AI Risk Management Framework (AI RMF 1.0)")
	gt.Bool(t, strings.Contains(p, "High-risk axes")).False()
}

func TestBuildCategoryPrompt(t *testing.T) {
	p, err := prompt.BuildCategoryPrompt("Title", strings.Repeat("b", 1200))
	gt.NoError(t, err).Required()
	gt.String(t, p).Contains("Paper Title: Title")
	gt.String(t, p).Contains("Paper Abstract: " + strings.Repeat("b", 1000) + "\n")
	gt.Bool(t, strings.Contains(p, strings.Repeat("b", 1001))).False()
	gt.String(t, p).Contains("- ai_ml (AI / Machine Learning: LLMs, training methods, model architectures)")
	gt.String(t, p).Contains("Category ID:")
}

func TestRegulatoryFrameworks(t *testing.T) {
	for _, c := range types.AllCategories() {
		frameworks := prompt.RegulatoryFrameworks(c)
		gt.Bool(t, len(frameworks) >= 4 && len(frameworks) <= 5).Describef("category %s", c).True()
	}

	gt.Value(t, prompt.RegulatoryFrameworks("astrology")).Equal(prompt.RegulatoryFrameworks(types.CategoryAIML))

	got := prompt.RegulatoryFrameworks(types.CategoryNuclear)
	got[0] = "changed"
	gt.Value(t, prompt.RegulatoryFrameworks(types.CategoryNuclear)[0]).NotEqual("changed")
}

package model

import (
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"
)

// MaxAxisScore is the upper bound of the 0-3 rubric
const MaxAxisScore = 3

// AxisScore is the model's answer for a single axis
type AxisScore struct {
	Score         int    `json:"score"`
	Rationale     string `json:"rationale"`
	ReverseScored bool   `json:"reverse_scored"`
}

// EffectiveScore returns the score oriented so that higher always means more risk.
// Reverse-scored axes (higher = better safeguard) are inverted.
func (s AxisScore) EffectiveScore() int {
	if s.ReverseScored {
		return MaxAxisScore - s.Score
	}
	return s.Score
}

// RiskScores holds one AxisScore per axis id. It serializes as a flat
// {axis_id: {score, rationale, reverse_scored}} object.
type RiskScores struct {
	Scores map[string]AxisScore
}

// MarshalJSON encodes the scores as a flat object keyed by axis id
func (r RiskScores) MarshalJSON() ([]byte, error) {
	scores := r.Scores
	if scores == nil {
		scores = map[string]AxisScore{}
	}
	return json.Marshal(scores)
}

// UnmarshalJSON accepts the flat form and the legacy {"scores": {...}} wrapper
func (r *RiskScores) UnmarshalJSON(data []byte) error {
	var wrapped struct {
		Scores map[string]AxisScore `json:"scores"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Scores != nil {
		r.Scores = wrapped.Scores
		return nil
	}

	var flat map[string]AxisScore
	if err := json.Unmarshal(data, &flat); err != nil {
		return goerr.Wrap(err, "failed to decode risk scores")
	}
	if flat == nil {
		flat = map[string]AxisScore{}
	}
	r.Scores = flat
	return nil
}

// NewRiskScores creates an empty score set
func NewRiskScores() RiskScores {
	return RiskScores{Scores: make(map[string]AxisScore)}
}

// Get returns the score for an axis id
func (r RiskScores) Get(axisID string) (AxisScore, bool) {
	s, ok := r.Scores[axisID]
	return s, ok
}

// Len returns the number of scored axes
func (r RiskScores) Len() int {
	return len(r.Scores)
}

// EffectiveScores returns effective scores keyed by axis id
func (r RiskScores) EffectiveScores() map[string]int {
	effective := make(map[string]int, len(r.Scores))
	for id, s := range r.Scores {
		effective[id] = s.EffectiveScore()
	}
	return effective
}

// MaxEffectiveScore returns the highest effective score, or 0 when there are no scores
func (r RiskScores) MaxEffectiveScore() int {
	maxScore := 0
	for _, s := range r.Scores {
		if e := s.EffectiveScore(); e > maxScore {
			maxScore = e
		}
	}
	return maxScore
}

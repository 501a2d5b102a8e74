package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/secmon-lab/dualscope/pkg/domain/types"
)

// AssessmentID is the globally unique identifier of an assessment
type AssessmentID string

// NewAssessmentID generates a time-ordered unique id
func NewAssessmentID() AssessmentID {
	return AssessmentID(uuid.Must(uuid.NewV7()).String())
}

// String returns the string representation of the id
func (id AssessmentID) String() string {
	return string(id)
}

// AssessmentContext carries the caller-supplied disclosure signals used for tiering
type AssessmentContext struct {
	Dissemination types.Dissemination
	Audience      types.Audience
}

// AssessRequest is the caller input for a single assessment
type AssessRequest struct {
	Title         string              `json:"title"`
	Abstract      string              `json:"abstract"`
	Snippet       string              `json:"snippet,omitempty"`
	SourceURL     string              `json:"source_url,omitempty"`
	Dissemination types.Dissemination `json:"dissemination"`
	Audience      types.Audience      `json:"audience"`
}

// Context returns the tiering context of the request
func (r AssessRequest) Context() AssessmentContext {
	return AssessmentContext{
		Dissemination: r.Dissemination,
		Audience:      r.Audience,
	}
}

// ResearchInput is the request as recorded on the assessment, plus the detected category
type ResearchInput struct {
	Title         string              `json:"title"`
	Abstract      string              `json:"abstract"`
	Snippet       string              `json:"snippet,omitempty"`
	SourceURL     string              `json:"source_url,omitempty"`
	Dissemination types.Dissemination `json:"dissemination"`
	Audience      types.Audience      `json:"audience"`
	Category      types.Category      `json:"category,omitempty"`
}

// Assessment is the immutable result of one assessment request
type Assessment struct {
	ID              AssessmentID  `json:"id"`
	Timestamp       time.Time     `json:"timestamp"`
	Input           ResearchInput `json:"input"`
	Scores          RiskScores    `json:"scores"`
	Tier            types.Tier    `json:"tier"`
	Recommendations []string      `json:"recommendations"`
	AxesUsed        []AxisInfo    `json:"axes_used,omitempty"`
}

// NewAssessment builds an assessment with a fresh id and UTC timestamp
func NewAssessment(req AssessRequest, category types.Category, scores RiskScores, tier types.Tier, recommendations []string, axes []RiskAxis) *Assessment {
	return &Assessment{
		ID:        NewAssessmentID(),
		Timestamp: time.Now().UTC(),
		Input: ResearchInput{
			Title:         req.Title,
			Abstract:      req.Abstract,
			Snippet:       req.Snippet,
			SourceURL:     req.SourceURL,
			Dissemination: req.Dissemination,
			Audience:      req.Audience,
			Category:      category,
		},
		Scores:          scores,
		Tier:            tier,
		Recommendations: recommendations,
		AxesUsed:        AxisInfos(axes),
	}
}

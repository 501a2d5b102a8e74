package model

import (
	"time"

	"github.com/secmon-lab/dualscope/pkg/domain/types"
)

// UnknownCategory labels assessments whose category could not be detected
const UnknownCategory = "unknown"

// StatsFilter narrows the assessments aggregated by the dashboard. Zero fields do not filter.
type StatsFilter struct {
	// DateFrom is inclusive
	DateFrom *time.Time
	// DateTo is inclusive of the whole day
	DateTo        *time.Time
	Category      string
	Tier          types.Tier
	Dissemination types.Dissemination
	Audience      types.Audience
}

// Match reports whether the assessment passes every set filter
func (f StatsFilter) Match(a *Assessment) bool {
	if f.DateFrom != nil && a.Timestamp.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && !a.Timestamp.Before(f.DateTo.AddDate(0, 0, 1)) {
		return false
	}
	if f.Category != "" && a.Input.Category.String() != f.Category {
		return false
	}
	if f.Tier != "" && a.Tier != f.Tier {
		return false
	}
	if f.Dissemination != "" && a.Input.Dissemination != f.Dissemination {
		return false
	}
	if f.Audience != "" && a.Input.Audience != f.Audience {
		return false
	}
	return true
}

// CategoryCount is a category with its assessment count
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// StressedAxis is the axis with the highest average effective score
type StressedAxis struct {
	Axis    *string `json:"axis"`
	Average float64 `json:"average"`
}

// AssessmentSummary is the dashboard row of an assessment
type AssessmentSummary struct {
	ID        AssessmentID `json:"id"`
	Title     string       `json:"title"`
	Tier      types.Tier   `json:"tier"`
	Category  string       `json:"category"`
	Timestamp time.Time    `json:"timestamp"`
}

// TrendPoint counts assessments on one UTC day
type TrendPoint struct {
	Date         string `json:"date"`
	Total        int    `json:"total"`
	HighCritical int    `json:"high_critical"`
}

// DashboardStats is the aggregate view over the filtered assessments
type DashboardStats struct {
	TotalAssessed          int                `json:"total_assessed"`
	RiskDistribution       map[types.Tier]int `json:"risk_distribution"`
	HighCriticalCount      int                `json:"high_critical_count"`
	HighCriticalPercentage float64            `json:"high_critical_percentage"`
	CategoryDistribution   map[string]int     `json:"category_distribution"`
	TopCategories          []CategoryCount    `json:"top_categories"`
	TopHighRiskCategory    *string            `json:"top_high_risk_category"`
	AxisAverages           map[string]float64 `json:"axis_averages"`
	SectionAverages        map[string]float64 `json:"section_averages"`
	MostStressedAxis       StressedAxis       `json:"most_stressed_axis"`
	CapabilityIndex        float64            `json:"capability_index"`
	SafeguardIndex         float64            `json:"safeguard_index"`
	GovernanceGap          float64            `json:"governance_gap"`
	RecentHighRisk         *AssessmentSummary `json:"recent_high_risk"`
	TrendData              []TrendPoint       `json:"trend_data"`
	FilteredCount          int                `json:"filtered_count"`
}

// AssessmentPage is one page of filtered assessments, newest first
type AssessmentPage struct {
	Total       int           `json:"total"`
	Limit       int           `json:"limit"`
	Offset      int           `json:"offset"`
	Assessments []*Assessment `json:"assessments"`
}

// CategoryLabel returns the category for display, UnknownCategory when not detected
func (a *Assessment) CategoryLabel() string {
	if a.Input.Category == "" {
		return UnknownCategory
	}
	return a.Input.Category.String()
}

// Summary returns the dashboard row of the assessment
func (a *Assessment) Summary() AssessmentSummary {
	return AssessmentSummary{
		ID:        a.ID,
		Title:     a.Input.Title,
		Tier:      a.Tier,
		Category:  a.CategoryLabel(),
		Timestamp: a.Timestamp,
	}
}

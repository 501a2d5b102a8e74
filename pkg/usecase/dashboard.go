package usecase

import (
	"context"
	"math"
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dualscope/pkg/domain/interfaces"
	"github.com/secmon-lab/dualscope/pkg/domain/model"
	"github.com/secmon-lab/dualscope/pkg/domain/types"
)

const (
	topCategoryCount = 3
	trendDays        = 30

	DefaultPageLimit = 50
	MaxPageLimit     = 1000
)

var (
	capabilityAxes  = []string{"A1", "A2", "D1", "D2"}
	safeguardAxes   = []string{"C1", "C2", "F1", "F2"}
	defaultSections = []string{"A", "B", "C", "D", "E", "F"}
)

type DashboardUseCase struct {
	repo interfaces.Repository
}

func NewDashboardUseCase(repo interfaces.Repository) *DashboardUseCase {
	return &DashboardUseCase{repo: repo}
}

func (uc *DashboardUseCase) filtered(ctx context.Context, filter model.StatsFilter) ([]*model.Assessment, error) {
	var all []*model.Assessment
	var err error
	if lister, ok := uc.repo.Assessment().(interfaces.AssessmentFilterLister); ok {
		all, err = lister.ListFiltered(ctx, filter)
	} else {
		all, err = uc.repo.Assessment().List(ctx)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list assessments")
	}

	matched := make([]*model.Assessment, 0, len(all))
	for _, a := range all {
		if filter.Match(a) {
			matched = append(matched, a)
		}
	}
	return matched, nil
}

// Assessments returns one page of filtered assessments, newest first. The limit is
// clamped to [1, MaxPageLimit] and a negative offset is treated as zero.
func (uc *DashboardUseCase) Assessments(ctx context.Context, filter model.StatsFilter, limit, offset int) (*model.AssessmentPage, error) {
	switch {
	case limit <= 0:
		limit = DefaultPageLimit
	case limit > MaxPageLimit:
		limit = MaxPageLimit
	}
	offset = max(offset, 0)

	matched, err := uc.filtered(ctx, filter)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})

	page := &model.AssessmentPage{
		Total:       len(matched),
		Limit:       limit,
		Offset:      offset,
		Assessments: []*model.Assessment{},
	}
	if offset < len(matched) {
		end := min(offset+limit, len(matched))
		page.Assessments = matched[offset:end]
	}
	return page, nil
}

// Stats aggregates the filtered assessments for the dashboard
func (uc *DashboardUseCase) Stats(ctx context.Context, filter model.StatsFilter) (*model.DashboardStats, error) {
	matched, err := uc.filtered(ctx, filter)
	if err != nil {
		return nil, err
	}
	return computeStats(matched), nil
}

func computeStats(assessments []*model.Assessment) *model.DashboardStats {
	total := len(assessments)
	stats := &model.DashboardStats{
		TotalAssessed:        total,
		FilteredCount:        total,
		RiskDistribution:     make(map[types.Tier]int),
		CategoryDistribution: make(map[string]int),
		TopCategories:        []model.CategoryCount{},
		TrendData:            []model.TrendPoint{},
	}
	for _, tier := range types.AllTiers() {
		stats.RiskDistribution[tier] = 0
	}

	var (
		categoryOrder  []string
		highRiskCounts = make(map[string]int)
		highRiskOrder  []string
		axisSums       = make(map[string]int)
		axisCounts     = make(map[string]int)
		trend          = make(map[string]*model.TrendPoint)
	)

	for _, a := range assessments {
		stats.RiskDistribution[a.Tier]++

		category := a.CategoryLabel()
		if _, seen := stats.CategoryDistribution[category]; !seen {
			categoryOrder = append(categoryOrder, category)
		}
		stats.CategoryDistribution[category]++

		day := a.Timestamp.UTC().Format("2006-01-02")
		point, ok := trend[day]
		if !ok {
			point = &model.TrendPoint{Date: day}
			trend[day] = point
		}
		point.Total++

		if a.Tier.IsEscalated() {
			stats.HighCriticalCount++
			point.HighCritical++
			if _, seen := highRiskCounts[category]; !seen {
				highRiskOrder = append(highRiskOrder, category)
			}
			highRiskCounts[category]++

			if stats.RecentHighRisk == nil || a.Timestamp.After(stats.RecentHighRisk.Timestamp) {
				summary := a.Summary()
				stats.RecentHighRisk = &summary
			}
		}

		for id, score := range a.Scores.Scores {
			axisSums[id] += score.EffectiveScore()
			axisCounts[id]++
		}
	}

	if total > 0 {
		stats.HighCriticalPercentage = round(float64(stats.HighCriticalCount)/float64(total)*100, 1)
	}

	stats.TopCategories = topCategories(categoryOrder, stats.CategoryDistribution, topCategoryCount)
	if top := topCategories(highRiskOrder, highRiskCounts, 1); len(top) > 0 {
		stats.TopHighRiskCategory = &top[0].Category
	}

	stats.AxisAverages = make(map[string]float64, len(axisSums))
	for id, sum := range axisSums {
		stats.AxisAverages[id] = round(float64(sum)/float64(axisCounts[id]), 2)
	}
	stats.MostStressedAxis = mostStressed(stats.AxisAverages)
	stats.SectionAverages = sectionAverages(stats.AxisAverages)

	stats.CapabilityIndex = meanOf(stats.AxisAverages, capabilityAxes)
	stats.SafeguardIndex = meanOf(stats.AxisAverages, safeguardAxes)
	stats.GovernanceGap = round(stats.CapabilityIndex-stats.SafeguardIndex, 2)

	days := make([]string, 0, len(trend))
	for day := range trend {
		days = append(days, day)
	}
	sort.Strings(days)
	if len(days) > trendDays {
		days = days[len(days)-trendDays:]
	}
	for _, day := range days {
		stats.TrendData = append(stats.TrendData, *trend[day])
	}

	return stats
}

// topCategories orders by count descending; ties keep first-seen order
func topCategories(order []string, counts map[string]int, n int) []model.CategoryCount {
	out := make([]model.CategoryCount, 0, len(order))
	for _, c := range order {
		out = append(out, model.CategoryCount{Category: c, Count: counts[c]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func mostStressed(averages map[string]float64) model.StressedAxis {
	var result model.StressedAxis
	for id, avg := range averages {
		if result.Axis == nil || avg > result.Average || (avg == result.Average && id < *result.Axis) {
			axisID := id
			result = model.StressedAxis{Axis: &axisID, Average: avg}
		}
	}
	return result
}

// sectionAverages groups axes by the section letter leading their id
func sectionAverages(averages map[string]float64) map[string]float64 {
	members := make(map[string][]string)
	for _, s := range defaultSections {
		members[s] = nil
	}
	for id := range averages {
		if id == "" {
			continue
		}
		section := id[:1]
		members[section] = append(members[section], id)
	}

	out := make(map[string]float64, len(members))
	for section, ids := range members {
		out[section] = meanOf(averages, ids)
	}
	return out
}

// meanOf averages the listed axes that are present; zero when none are
func meanOf(averages map[string]float64, ids []string) float64 {
	var sum float64
	var n int
	for _, id := range ids {
		if v, ok := averages[id]; ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return round(sum/float64(n), 2)
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

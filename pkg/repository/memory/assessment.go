package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dualscope/pkg/domain/model"
)

type assessmentRepository struct {
	mu          sync.RWMutex
	assessments map[model.AssessmentID]*model.Assessment
}

func newAssessmentRepository() *assessmentRepository {
	return &assessmentRepository{
		assessments: make(map[model.AssessmentID]*model.Assessment),
	}
}

func copyAssessment(a *model.Assessment) *model.Assessment {
	copied := *a

	copied.Scores = model.NewRiskScores()
	for id, s := range a.Scores.Scores {
		copied.Scores.Scores[id] = s
	}
	if a.Recommendations != nil {
		copied.Recommendations = make([]string, len(a.Recommendations))
		copy(copied.Recommendations, a.Recommendations)
	}
	if a.AxesUsed != nil {
		copied.AxesUsed = make([]model.AxisInfo, len(a.AxesUsed))
		copy(copied.AxesUsed, a.AxesUsed)
	}
	return &copied
}

func (r *assessmentRepository) Put(ctx context.Context, assessment *model.Assessment) error {
	if assessment == nil || assessment.ID == "" {
		return goerr.New("assessment id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.assessments[assessment.ID] = copyAssessment(assessment)
	return nil
}

func (r *assessmentRepository) Get(ctx context.Context, id model.AssessmentID) (*model.Assessment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, exists := r.assessments[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "assessment not found", goerr.V("id", id))
	}

	// Return a copy to prevent external modification
	return copyAssessment(a), nil
}

func (r *assessmentRepository) List(ctx context.Context) ([]*model.Assessment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	assessments := make([]*model.Assessment, 0, len(r.assessments))
	for _, a := range r.assessments {
		assessments = append(assessments, copyAssessment(a))
	}

	sort.Slice(assessments, func(i, j int) bool {
		if assessments[i].Timestamp.Equal(assessments[j].Timestamp) {
			return assessments[i].ID > assessments[j].ID
		}
		return assessments[i].Timestamp.After(assessments[j].Timestamp)
	})

	return assessments, nil
}

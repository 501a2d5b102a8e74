package interfaces

import (
	"context"

	"github.com/secmon-lab/dualscope/pkg/domain/model"
)

type AssessmentRepository interface {
	// Put stores a new assessment. Assessments are never updated in place.
	Put(ctx context.Context, assessment *model.Assessment) error

	// Get retrieves an assessment by ID
	Get(ctx context.Context, id model.AssessmentID) (*model.Assessment, error)

	// List retrieves all assessments, most recent first
	List(ctx context.Context) ([]*model.Assessment, error)
}

// AssessmentFilterLister is implemented by backends that can apply a StatsFilter
// server-side. Results are most recent first.
type AssessmentFilterLister interface {
	ListFiltered(ctx context.Context, filter model.StatsFilter) ([]*model.Assessment, error)
}

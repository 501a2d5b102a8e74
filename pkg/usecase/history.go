package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dualscope/pkg/domain/interfaces"
	"github.com/secmon-lab/dualscope/pkg/domain/model"
)

type HistoryUseCase struct {
	repo interfaces.Repository
}

func NewHistoryUseCase(repo interfaces.Repository) *HistoryUseCase {
	return &HistoryUseCase{repo: repo}
}

// List returns every stored assessment, most recent first
func (uc *HistoryUseCase) List(ctx context.Context) ([]*model.Assessment, error) {
	assessments, err := uc.repo.Assessment().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list assessments")
	}
	if assessments == nil {
		assessments = []*model.Assessment{}
	}
	return assessments, nil
}

func (uc *HistoryUseCase) Get(ctx context.Context, id model.AssessmentID) (*model.Assessment, error) {
	if id == "" {
		return nil, goerr.Wrap(ErrAssessmentIDRequired, "invalid history request")
	}

	assessment, err := uc.repo.Assessment().Get(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrAssessmentNotFound, "failed to get assessment", goerr.V(AssessmentIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get assessment", goerr.V(AssessmentIDKey, id))
	}
	return assessment, nil
}

package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dualscope/pkg/domain/model"
	"github.com/secmon-lab/dualscope/pkg/utils/logging"
)

type PaperUseCase struct {
	fetcher PaperFetcher
}

func NewPaperUseCase(fetcher PaperFetcher) *PaperUseCase {
	return &PaperUseCase{fetcher: fetcher}
}

// FetchURL extracts title and abstract from a paper page. Extraction failures are
// reported in the result, not as an error.
func (uc *PaperUseCase) FetchURL(ctx context.Context, url string) (model.FetchResult, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return model.FetchResult{}, goerr.Wrap(ErrURLRequired, "invalid fetch request")
	}
	if uc.fetcher == nil {
		return model.FetchResult{}, goerr.Wrap(ErrFetchNotConfigured, "failed to fetch paper")
	}

	result := uc.fetcher.Fetch(ctx, url)
	if !result.Success {
		logging.From(ctx).Warn("paper fetch failed",
			slog.String("url", url),
			slog.String("error", result.Error))
	}
	return result, nil
}

package cli

import (
	"context"

	"github.com/secmon-lab/dualscope/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

var (
	GetIndexConfig = getIndexConfig
	AxisOrder      = axisOrder
)

func BuildAssessRequestForTest(ctx context.Context, title, abstract, abstractFile, url string, fetch func(context.Context, string) (model.FetchResult, error)) (model.AssessRequest, error) {
	in := &assessInput{
		title:         title,
		abstract:      abstract,
		abstractFile:  abstractFile,
		url:           url,
		dissemination: "Preprint / arXiv only",
		audience:      "Broad developer community",
	}
	return in.request(ctx, &cli.Command{}, fetch)
}

package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dualscope/pkg/cli/config"
	"github.com/secmon-lab/dualscope/pkg/domain/model"
	"github.com/secmon-lab/dualscope/pkg/usecase"
	"github.com/secmon-lab/dualscope/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdHistory() *cli.Command {
	var repoCfg config.Repository
	var limit int
	var asJSON bool

	withHistory := func(ctx context.Context, fn func(*usecase.HistoryUseCase) error) error {
		repo, err := openRepository(ctx, &repoCfg)
		if err != nil {
			return err
		}
		defer func() {
			if err := repo.Close(); err != nil {
				logging.Default().Error("failed to close repository", "error", err.Error())
			}
		}()
		return fn(usecase.NewHistoryUseCase(repo))
	}

	return &cli.Command{
		Name:    "history",
		Aliases: []string{"h"},
		Usage:   "Show stored assessments",
		Flags:   repoCfg.Flags(),
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List assessments, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:        "limit",
						Aliases:     []string{"n"},
						Usage:       "Maximum number of rows (0 = all)",
						Value:       20,
						Destination: &limit,
					},
					jsonFlag(&asJSON),
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return withHistory(ctx, func(uc *usecase.HistoryUseCase) error {
						assessments, err := uc.List(ctx)
						if err != nil {
							return err
						}
						if limit > 0 && len(assessments) > limit {
							assessments = assessments[:limit]
						}

						w := writerOf(c)
						if asJSON {
							return printJSON(w, assessments)
						}
						for _, a := range assessments {
							printAssessmentRow(w, a)
						}
						return nil
					})
				},
			},
			{
				Name:      "show",
				Usage:     "Show one assessment in detail",
				ArgsUsage: "<assessment-id>",
				Flags:     []cli.Flag{jsonFlag(&asJSON)},
				Action: func(ctx context.Context, c *cli.Command) error {
					if c.Args().Len() != 1 {
						return goerr.New("exactly one assessment id is required")
					}
					id := model.AssessmentID(c.Args().First())

					return withHistory(ctx, func(uc *usecase.HistoryUseCase) error {
						a, err := uc.Get(ctx, id)
						if err != nil {
							return err
						}

						w := writerOf(c)
						if asJSON {
							return printJSON(w, a)
						}
						printAssessment(w, a)
						return nil
					})
				},
			},
		},
	}
}

package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dualscope/pkg/cli/config"
	"github.com/secmon-lab/dualscope/pkg/domain/interfaces"
	"github.com/secmon-lab/dualscope/pkg/service/fetch"
	"github.com/secmon-lab/dualscope/pkg/usecase"
	"github.com/secmon-lab/dualscope/pkg/utils/logging"
	"github.com/secmon-lab/dualscope/pkg/utils/metrics"
	"github.com/urfave/cli/v3"
)

// pipelineConfig groups the configuration every assessing command needs
type pipelineConfig struct {
	llm   config.LLM
	axis  config.Axis
	repo  config.Repository
	slack config.Slack

	maxConcurrency int64
}

func (x *pipelineConfig) Flags() []cli.Flag {
	var flags []cli.Flag
	flags = append(flags, x.llm.Flags()...)
	flags = append(flags, x.axis.Flags()...)
	flags = append(flags, x.repo.Flags()...)
	flags = append(flags, x.slack.Flags()...)
	flags = append(flags, &cli.Int64Flag{
		Name:        "max-concurrency",
		Usage:       "Maximum assessments calling the LLM at once (0 = unlimited)",
		Category:    "LLM",
		Sources:     cli.EnvVars("DUALSCOPE_MAX_CONCURRENCY"),
		Destination: &x.maxConcurrency,
	})
	return flags
}

// build wires the repository, LLM backend, axis loader and notifier into use cases. The
// returned cleanup closes everything that was opened.
func (x *pipelineConfig) build(ctx context.Context, m *metrics.Metrics, extra ...usecase.Option) (*usecase.UseCases, func(), error) {
	logger := logging.Default()
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	generator, err := x.llm.Configure(ctx)
	if err != nil {
		return nil, nil, err
	}

	repo, err := x.repo.Configure(ctx)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to initialize repository")
	}
	cleanups = append(cleanups, func() {
		if err := repo.Close(); err != nil {
			logger.Error("failed to close repository", "error", err.Error())
		}
	})

	loader, closeAxis, err := x.axis.Configure(ctx)
	if err != nil {
		cleanup()
		return nil, nil, goerr.Wrap(err, "failed to configure axes")
	}
	cleanups = append(cleanups, closeAxis)

	notifier, err := x.slack.Configure()
	if err != nil {
		cleanup()
		return nil, nil, goerr.Wrap(err, "failed to configure slack")
	}

	opts := []usecase.Option{
		usecase.WithAxisProvider(loader),
		usecase.WithFetcher(fetch.New()),
		usecase.WithMetrics(m),
		usecase.WithConcurrency(x.maxConcurrency),
	}
	if notifier != nil {
		opts = append(opts, usecase.WithNotifier(notifier))
		logger.Info("Slack escalation enabled", "slack", x.slack)
	}

	opts = append(opts, extra...)

	logger.Info("Pipeline configured",
		"llm", x.llm,
		"axes", x.axis,
		"repository", x.repo,
		"max_concurrency", x.maxConcurrency,
	)

	return usecase.New(repo, generator, opts...), cleanup, nil
}

// openRepository is used by commands that only read stored assessments
func openRepository(ctx context.Context, cfg *config.Repository) (interfaces.Repository, error) {
	repo, err := cfg.Configure(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize repository")
	}
	return repo, nil
}

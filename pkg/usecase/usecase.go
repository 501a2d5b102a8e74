package usecase

import (
	"context"

	"github.com/secmon-lab/dualscope/pkg/domain/interfaces"
	"github.com/secmon-lab/dualscope/pkg/domain/model"
	"github.com/secmon-lab/dualscope/pkg/service/axis"
	"github.com/secmon-lab/dualscope/pkg/utils/async"
	"github.com/secmon-lab/dualscope/pkg/utils/metrics"
	"golang.org/x/sync/semaphore"
)

// AxisProvider hands out the axis registry for a request
type AxisProvider interface {
	Registry(ctx context.Context) *axis.Registry
}

// PaperFetcher extracts paper metadata from a URL
type PaperFetcher interface {
	Fetch(ctx context.Context, url string) model.FetchResult
}

type UseCases struct {
	repo        interfaces.Repository
	generator   interfaces.TextGenerator
	axes        AxisProvider
	notifier    interfaces.Notifier
	fetcher     PaperFetcher
	metrics     *metrics.Metrics
	concurrency int64
	background  *async.Group

	Assess    *AssessUseCase
	History   *HistoryUseCase
	Dashboard *DashboardUseCase
	Paper     *PaperUseCase
}

type Option func(*UseCases)

// WithAxisProvider replaces the built-in twelve-axis configuration
func WithAxisProvider(p AxisProvider) Option {
	return func(uc *UseCases) {
		uc.axes = p
	}
}

// WithNotifier escalates High and Critical assessments
func WithNotifier(n interfaces.Notifier) Option {
	return func(uc *UseCases) {
		uc.notifier = n
	}
}

// WithFetcher enables paper URL extraction
func WithFetcher(f PaperFetcher) Option {
	return func(uc *UseCases) {
		uc.fetcher = f
	}
}

// WithMetrics records pipeline metrics
func WithMetrics(m *metrics.Metrics) Option {
	return func(uc *UseCases) {
		uc.metrics = m
	}
}

// WithConcurrency limits how many assessments call the LLM at once. Zero means unlimited.
func WithConcurrency(n int64) Option {
	return func(uc *UseCases) {
		uc.concurrency = n
	}
}

// WithBackgroundNotification sends escalations from g instead of inline. The owner of g
// waits on it before shutting down.
func WithBackgroundNotification(g *async.Group) Option {
	return func(uc *UseCases) {
		uc.background = g
	}
}

func New(repo interfaces.Repository, generator interfaces.TextGenerator, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:      repo,
		generator: generator,
	}

	for _, opt := range opts {
		opt(uc)
	}

	if uc.axes == nil {
		uc.axes = axis.NewLoader(axis.EmbeddedSource{}, false)
	}

	var sem *semaphore.Weighted
	if uc.concurrency > 0 {
		sem = semaphore.NewWeighted(uc.concurrency)
	}

	recommender := NewRecommendationGenerator(generator, uc.metrics)
	uc.Assess = NewAssessUseCase(repo, generator, uc.axes, recommender,
		withAssessNotifier(uc.notifier),
		withAssessMetrics(uc.metrics),
		withAssessSemaphore(sem),
		withAssessBackground(uc.background),
	)
	uc.History = NewHistoryUseCase(repo)
	uc.Dashboard = NewDashboardUseCase(repo)
	uc.Paper = NewPaperUseCase(uc.fetcher)

	return uc
}

// Axes returns the axis registry a new assessment would use
func (uc *UseCases) Axes(ctx context.Context) *axis.Registry {
	return uc.axes.Registry(ctx)
}

package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dualscope"

// Metrics holds the assessment pipeline collectors. A nil *Metrics records nothing.
type Metrics struct {
	registry      *prometheus.Registry
	assessments   *prometheus.CounterVec
	parseResults  *prometheus.CounterVec
	llmFailures   *prometheus.CounterVec
	llmDuration   *prometheus.HistogramVec
	notifyFailure prometheus.Counter
}

// New creates collectors on a dedicated registry, along with Go runtime and process collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		assessments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assessments_total",
			Help:      "Completed assessments by risk tier.",
		}, []string{"tier"}),
		parseResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "score_parse_total",
			Help:      "Scoring replies by the parser strategy that recovered them.",
		}, []string{"strategy"}),
		llmFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_failures_total",
			Help:      "Failed LLM calls by pipeline stage.",
		}, []string{"stage"}),
		llmDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "llm_call_duration_seconds",
			Help:      "LLM call latency by pipeline stage.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
		}, []string{"stage"}),
		notifyFailure: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notify_failures_total",
			Help:      "Failed escalation notifications.",
		}),
	}

	m.registry.MustRegister(
		m.assessments,
		m.parseResults,
		m.llmFailures,
		m.llmDuration,
		m.notifyFailure,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) AssessmentCompleted(tier string) {
	if m == nil {
		return
	}
	m.assessments.WithLabelValues(tier).Inc()
}

func (m *Metrics) ScoresParsed(strategy string) {
	if m == nil {
		return
	}
	m.parseResults.WithLabelValues(strategy).Inc()
}

func (m *Metrics) LLMCall(stage string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.llmDuration.WithLabelValues(stage).Observe(elapsed.Seconds())
	if err != nil {
		m.llmFailures.WithLabelValues(stage).Inc()
	}
}

func (m *Metrics) NotifyFailed() {
	if m == nil {
		return
	}
	m.notifyFailure.Inc()
}

package usecase_test

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/secmon-lab/dualscope/pkg/domain/interfaces"
	"github.com/secmon-lab/dualscope/pkg/domain/model"
	"github.com/secmon-lab/dualscope/pkg/service/axis"
)

// mockGenerator routes prompts to per-stage handlers
type mockGenerator struct {
	mu             sync.Mutex
	scoring        func(prompt string) (string, error)
	recommendation func(prompt string) (string, error)
	category       func(prompt string) (string, error)
	calls          []string
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	var stage string
	var fn func(string) (string, error)
	switch {
	case strings.HasPrefix(prompt, "You are a dual-use risk assessor"):
		stage, fn = "scoring", m.scoring
	case strings.HasPrefix(prompt, "You are an AI governance expert"):
		stage, fn = "recommendation", m.recommendation
	case strings.HasPrefix(prompt, "Classify this research paper"):
		stage, fn = "category", m.category
	default:
		return "", fmt.Errorf("unexpected prompt: %.40s", prompt)
	}

	m.mu.Lock()
	m.calls = append(m.calls, stage)
	m.mu.Unlock()

	if fn == nil {
		return "", fmt.Errorf("%s not mocked", stage)
	}
	return fn(prompt)
}

func (m *mockGenerator) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

var _ interfaces.TextGenerator = &mockGenerator{}

// fixedAxes always serves the four fallback axes (A1, B1, C1 reverse-scored, D1)
type fixedAxes struct{}

func (fixedAxes) Registry(ctx context.Context) *axis.Registry {
	return axis.FallbackRegistry()
}

// scoringReply renders a well-formed scoring reply
func scoringReply(category string, scores map[string]int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "{\n  \"category\": %q", category)
	for _, id := range []string{"A1", "B1", "C1", "D1"} {
		fmt.Fprintf(&b, ",\n  %q: {\"score\": %d, \"rationale\": \"reason for %s\"}", id, scores[id], id)
	}
	b.WriteString("\n}")
	return b.String()
}

func replyWith(s string) func(string) (string, error) {
	return func(string) (string, error) { return s, nil }
}

func failWith(err error) func(string) (string, error) {
	return func(string) (string, error) { return "", err }
}

type mockNotifier struct {
	mu       sync.Mutex
	notified []*model.Assessment
	err      error
}

func (n *mockNotifier) Notify(ctx context.Context, a *model.Assessment) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notified = append(n.notified, a)
	return n.err
}

// failingRepository fails every write
type failingRepository struct {
	interfaces.AssessmentRepository
}

func (r *failingRepository) Assessment() interfaces.AssessmentRepository { return r }
func (r *failingRepository) Close() error                                { return nil }

func (r *failingRepository) Put(ctx context.Context, a *model.Assessment) error {
	return fmt.Errorf("disk full")
}

type mockFetcher struct {
	result model.FetchResult
	urls   []string
}

func (f *mockFetcher) Fetch(ctx context.Context, url string) model.FetchResult {
	f.urls = append(f.urls, url)
	return f.result
}

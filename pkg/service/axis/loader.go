package axis

import (
	"context"
	"log/slog"
	"sync"

	"github.com/secmon-lab/dualscope/pkg/utils/logging"
)

// Load reads and decodes the configuration from src. It never fails: an unreadable or
// undecodable source, a non-universal configuration, or an empty axis list all yield
// FallbackRegistry().
func Load(ctx context.Context, src Source) *Registry {
	logger := logging.From(ctx).With(slog.String("source", src.Name()))

	data, err := src.Read(ctx)
	if err != nil {
		logger.Warn("axis config unavailable, using fallback axes", slog.Any("error", err))
		return FallbackRegistry()
	}

	cfg, err := Decode(src.Name(), data)
	if err != nil {
		logger.Warn("axis config is invalid, using fallback axes", slog.Any("error", err))
		return FallbackRegistry()
	}

	if !cfg.Universal {
		logger.Warn("axis config is not universal, using fallback axes")
		return FallbackRegistry()
	}
	if len(cfg.Axes) == 0 {
		logger.Warn("axis config has no axes, using fallback axes")
		return FallbackRegistry()
	}

	return NewRegistry(cfg)
}

// Loader hands out the registry for each request. With reload enabled the source is
// read on every call, otherwise the first result is cached.
type Loader struct {
	src    Source
	reload bool

	mu     sync.Mutex
	cached *Registry
}

// NewLoader creates a loader over src
func NewLoader(src Source, reload bool) *Loader {
	return &Loader{src: src, reload: reload}
}

// Registry returns the current axis registry
func (l *Loader) Registry(ctx context.Context) *Registry {
	if l.reload {
		return Load(ctx, l.src)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cached == nil {
		l.cached = Load(ctx, l.src)
	}
	return l.cached
}

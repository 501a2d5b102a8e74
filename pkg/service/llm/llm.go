package llm

import (
	"context"
	"errors"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem/llm/claude"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/m-mizutani/gollem/llm/openai"
	"github.com/secmon-lab/dualscope/pkg/domain/interfaces"
)

// maxOutputTokens bounds every completion. Untyped so each backend option accepts it.
const maxOutputTokens = 2048

var (
	ErrMissingCredential   = errors.New("no credential configured for LLM provider")
	ErrUnsupportedProvider = errors.New("unsupported LLM provider")
)

// Provider identifies a text-generation backend
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderGemini    Provider = "gemini"
	ProviderGoogle    Provider = "google"
	ProviderGroq      Provider = "groq"
	ProviderTogether  Provider = "together"
)

const (
	groqBaseURL     = "https://api.groq.com/openai/v1"
	togetherBaseURL = "https://api.together.xyz/v1"
)

// AllProviders returns the supported providers
func AllProviders() []Provider {
	return []Provider{
		ProviderOpenAI,
		ProviderAnthropic,
		ProviderGemini,
		ProviderGoogle,
		ProviderGroq,
		ProviderTogether,
	}
}

// Config selects and authenticates one backend
type Config struct {
	Provider Provider
	Model    string
	// APIKey is used by every provider except gemini
	APIKey string `masq:"secret"`
	// ProjectID and Location address Vertex AI for the gemini provider
	ProjectID string
	Location  string
}

// LogAttrs returns log attributes without credentials
func (c Config) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("provider", string(c.Provider)),
		slog.String("model", c.Model),
		slog.Bool("has_api_key", c.APIKey != ""),
		slog.String("project_id", c.ProjectID),
		slog.String("location", c.Location),
	}
}

// New resolves the configured provider to a TextGenerator. The credential check happens
// here, before any call is attempted.
func New(ctx context.Context, cfg Config) (interfaces.TextGenerator, error) {
	switch cfg.Provider {
	case ProviderGemini:
		if cfg.ProjectID == "" {
			return nil, goerr.Wrap(ErrMissingCredential, "gemini requires a Google Cloud project",
				goerr.V("provider", cfg.Provider))
		}
	case ProviderOpenAI, ProviderAnthropic, ProviderGoogle, ProviderGroq, ProviderTogether:
		if cfg.APIKey == "" {
			return nil, goerr.Wrap(ErrMissingCredential, "API key is required",
				goerr.V("provider", cfg.Provider))
		}
	default:
		return nil, goerr.Wrap(ErrUnsupportedProvider, "unknown provider", goerr.V("provider", cfg.Provider))
	}

	switch cfg.Provider {
	case ProviderOpenAI:
		return newOpenAI(ctx, cfg, "")
	case ProviderGroq:
		return newOpenAI(ctx, cfg, groqBaseURL)
	case ProviderTogether:
		return newOpenAI(ctx, cfg, togetherBaseURL)

	case ProviderAnthropic:
		opts := []claude.Option{claude.WithMaxTokens(maxOutputTokens)}
		if cfg.Model != "" {
			opts = append(opts, claude.WithModel(cfg.Model))
		}
		client, err := claude.New(ctx, cfg.APIKey, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create Anthropic client")
		}
		return NewGollem(client), nil

	case ProviderGemini:
		opts := []gemini.Option{gemini.WithMaxTokens(maxOutputTokens)}
		if cfg.Model != "" {
			opts = append(opts, gemini.WithModel(cfg.Model))
		}
		client, err := gemini.New(ctx, cfg.ProjectID, cfg.Location, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create Gemini client",
				goerr.V("project_id", cfg.ProjectID),
				goerr.V("location", cfg.Location))
		}
		return NewGollem(client), nil

	case ProviderGoogle:
		return NewGenAI(ctx, cfg.APIKey, cfg.Model)
	}

	return nil, goerr.Wrap(ErrUnsupportedProvider, "unknown provider", goerr.V("provider", cfg.Provider))
}

func newOpenAI(ctx context.Context, cfg Config, baseURL string) (interfaces.TextGenerator, error) {
	opts := []openai.Option{openai.WithMaxTokens(maxOutputTokens)}
	if cfg.Model != "" {
		opts = append(opts, openai.WithModel(cfg.Model))
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}

	client, err := openai.New(ctx, cfg.APIKey, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create OpenAI-compatible client",
			goerr.V("provider", cfg.Provider),
			goerr.V("base_url", baseURL))
	}
	return NewGollem(client), nil
}

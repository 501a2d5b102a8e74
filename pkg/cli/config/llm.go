package config

import (
	"context"
	"log/slog"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dualscope/pkg/domain/interfaces"
	"github.com/secmon-lab/dualscope/pkg/service/llm"
	"github.com/urfave/cli/v3"
)

const (
	defaultProvider      = "together"
	defaultTogetherModel = "meta-llama/Llama-3.3-70B-Instruct-Turbo"
	defaultGeminiRegion  = "us-central1"
)

// LLM holds CLI flags selecting the text-generation backend
type LLM struct {
	provider string
	model    string

	openaiKey    string
	anthropicKey string
	googleKey    string
	groqKey      string
	togetherKey  string

	geminiProject  string
	geminiLocation string
}

func (x *LLM) Flags() []cli.Flag {
	providers := make([]string, 0, len(llm.AllProviders()))
	for _, p := range llm.AllProviders() {
		providers = append(providers, string(p))
	}

	return []cli.Flag{
		&cli.StringFlag{
			Name:        "llm-provider",
			Usage:       "LLM provider [" + strings.Join(providers, "|") + "]",
			Category:    "LLM",
			Value:       defaultProvider,
			Sources:     cli.EnvVars("DUALSCOPE_LLM_PROVIDER"),
			Destination: &x.provider,
		},
		&cli.StringFlag{
			Name:        "llm-model",
			Usage:       "Model name (provider default when empty)",
			Category:    "LLM",
			Sources:     cli.EnvVars("DUALSCOPE_LLM_MODEL"),
			Destination: &x.model,
		},
		&cli.StringFlag{
			Name:        "openai-api-key",
			Usage:       "OpenAI API key",
			Category:    "LLM",
			Sources:     cli.EnvVars("DUALSCOPE_OPENAI_API_KEY", "OPENAI_API_KEY"),
			Destination: &x.openaiKey,
		},
		&cli.StringFlag{
			Name:        "anthropic-api-key",
			Usage:       "Anthropic API key",
			Category:    "LLM",
			Sources:     cli.EnvVars("DUALSCOPE_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY"),
			Destination: &x.anthropicKey,
		},
		&cli.StringFlag{
			Name:        "google-api-key",
			Usage:       "Gemini API key (google provider)",
			Category:    "LLM",
			Sources:     cli.EnvVars("DUALSCOPE_GOOGLE_API_KEY", "GOOGLE_API_KEY"),
			Destination: &x.googleKey,
		},
		&cli.StringFlag{
			Name:        "groq-api-key",
			Usage:       "Groq API key",
			Category:    "LLM",
			Sources:     cli.EnvVars("DUALSCOPE_GROQ_API_KEY", "GROQ_API_KEY"),
			Destination: &x.groqKey,
		},
		&cli.StringFlag{
			Name:        "together-api-key",
			Usage:       "Together AI API key",
			Category:    "LLM",
			Sources:     cli.EnvVars("DUALSCOPE_TOGETHER_API_KEY", "TOGETHER_API_KEY"),
			Destination: &x.togetherKey,
		},
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini on Vertex AI (gemini provider)",
			Category:    "LLM",
			Sources:     cli.EnvVars("DUALSCOPE_GEMINI_PROJECT"),
			Destination: &x.geminiProject,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini on Vertex AI",
			Category:    "LLM",
			Value:       defaultGeminiRegion,
			Sources:     cli.EnvVars("DUALSCOPE_GEMINI_LOCATION"),
			Destination: &x.geminiLocation,
		},
	}
}

func (x LLM) LogValue() slog.Value {
	cfg := x.Config()
	return slog.GroupValue(cfg.LogAttrs()...)
}

// Config returns the backend configuration for the selected provider. Only the key
// belonging to that provider is carried.
func (x *LLM) Config() llm.Config {
	provider := llm.Provider(strings.ToLower(strings.TrimSpace(x.provider)))

	cfg := llm.Config{
		Provider: provider,
		Model:    x.model,
	}

	switch provider {
	case llm.ProviderOpenAI:
		cfg.APIKey = x.openaiKey
	case llm.ProviderAnthropic:
		cfg.APIKey = x.anthropicKey
	case llm.ProviderGoogle:
		cfg.APIKey = x.googleKey
	case llm.ProviderGroq:
		cfg.APIKey = x.groqKey
	case llm.ProviderTogether:
		cfg.APIKey = x.togetherKey
		if cfg.Model == "" {
			cfg.Model = defaultTogetherModel
		}
	case llm.ProviderGemini:
		cfg.ProjectID = x.geminiProject
		cfg.Location = x.geminiLocation
	}

	return cfg
}

// Configure resolves the selected provider once. A missing credential is reported here,
// before any assessment is attempted.
func (x *LLM) Configure(ctx context.Context) (interfaces.TextGenerator, error) {
	cfg := x.Config()
	gen, err := llm.New(ctx, cfg)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to configure LLM backend")
	}
	return gen, nil
}

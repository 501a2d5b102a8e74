package llm

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/genai"
)

const defaultGoogleModel = "gemini-2.0-flash"

// contentGenerator is the subset of *genai.Models used here
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GenAI generates text through the Gemini Developer API with an API key
type GenAI struct {
	models contentGenerator
	model  string
}

// NewGenAI creates a Gemini Developer API backend
func NewGenAI(ctx context.Context, apiKey, model string) (*GenAI, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GenAI client")
	}

	if model == "" {
		model = defaultGoogleModel
	}
	return &GenAI{models: client.Models, model: model}, nil
}

// Generate sends prompt as a single user turn
func (g *GenAI) Generate(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	resp, err := g.models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		MaxOutputTokens: maxOutputTokens,
	})
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate content from GenAI", goerr.V("model", g.model))
	}

	text := resp.Text()
	if text == "" {
		return "", goerr.New("GenAI returned no text", goerr.V("model", g.model))
	}
	return text, nil
}

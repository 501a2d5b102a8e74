package llm

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

// Gollem generates text through a gollem LLM client with one fresh session per prompt
type Gollem struct {
	client gollem.LLMClient
}

// NewGollem wraps client
func NewGollem(client gollem.LLMClient) *Gollem {
	return &Gollem{client: client}
}

// Generate sends prompt as a single user turn and returns the concatenated reply text
func (g *Gollem) Generate(ctx context.Context, prompt string) (string, error) {
	session, err := g.client.NewSession(ctx)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.Generate(ctx, []gollem.Input{gollem.Text(prompt)})
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate content from LLM")
	}
	if resp == nil || len(resp.Texts) == 0 {
		return "", goerr.New("LLM returned no text")
	}

	return strings.Join(resp.Texts, ""), nil
}

package interfaces

import "context"

// TextGenerator is a text-generation backend: one prompt in, one completion out.
// Implementations hold only configuration and are safe for concurrent use.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

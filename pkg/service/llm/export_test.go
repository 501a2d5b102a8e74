package llm

// ContentGenerator exposes the GenAI model interface to external tests
type ContentGenerator = contentGenerator

// NewGenAIForTest creates a GenAI backend over a stub content generator
func NewGenAIForTest(models ContentGenerator, model string) *GenAI {
	return &GenAI{models: models, model: model}
}

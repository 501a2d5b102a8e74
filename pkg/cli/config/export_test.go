package config

// NewLLMForTest creates an LLM config with explicit values for testing
func NewLLMForTest(provider, model, apiKey, geminiProject string) *LLM {
	return &LLM{
		provider:       provider,
		model:          model,
		openaiKey:      apiKey,
		anthropicKey:   apiKey,
		googleKey:      apiKey,
		groqKey:        apiKey,
		togetherKey:    apiKey,
		geminiProject:  geminiProject,
		geminiLocation: defaultGeminiRegion,
	}
}

// NewRepositoryForTest creates a Repository config with explicit values for testing
func NewRepositoryForTest(backend, filePath, projectID string) *Repository {
	return &Repository{
		backend:   backend,
		filePath:  filePath,
		projectID: projectID,
	}
}

// NewSlackForTest creates a Slack config with explicit values for testing
func NewSlackForTest(webhookURL, minTier string) *Slack {
	return &Slack{
		webhookURL: webhookURL,
		minTier:    minTier,
	}
}

// NewSlackBotForTest creates a bot-token Slack config for testing
func NewSlackBotForTest(webhookURL, botToken, channel string) *Slack {
	return &Slack{
		webhookURL: webhookURL,
		botToken:   botToken,
		channel:    channel,
		minTier:    "High",
	}
}

// NewAxisForTest creates an Axis config with explicit values for testing
func NewAxisForTest(location string, reload bool) *Axis {
	return &Axis{
		location: location,
		reload:   reload,
	}
}

// NewLoggerForTest creates a Logger config with explicit values for testing
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{
		level:  level,
		format: format,
		output: output,
	}
}

// DefaultTogetherModel is exported for testing
const DefaultTogetherModel = defaultTogetherModel

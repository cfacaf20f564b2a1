package llm

import (
	"context"
	"fmt"
	"strings"
)

// NewProvider creates an LLM provider based on configuration. A nil
// provider with a nil error means generative features are disabled,
// either because no provider was selected or because the selected one
// has no API key.
func NewProvider(ctx context.Context, config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "gemini":
		if config.APIKey == "" {
			return nil, nil
		}
		return NewGeminiProvider(ctx, config)

	case "openai":
		if config.APIKey == "" {
			return nil, nil
		}
		return NewOpenAIProvider(config)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown llm provider: %s (supported: gemini, openai)", config.Provider)
	}
}

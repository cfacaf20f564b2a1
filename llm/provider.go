package llm

import (
	"context"
	"errors"
	"strings"
)

// ErrNotConfigured is returned by callers holding a nil provider. The
// server starts without an API key; generative features degrade to
// this error instead of failing at boot.
var ErrNotConfigured = errors.New("llm provider not configured")

// Provider defines the interface for LLM providers. One prompt string
// in, one text reply out; no retries, no streaming. Callers truncate
// their prompts before handing them over.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete sends a single prompt and returns the model's reply text
	Complete(ctx context.Context, prompt string) (string, error)
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "gemini", "openai", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for the selected provider
	APIKey string

	// BaseURL for OpenAI-compatible endpoints
	BaseURL string

	// Timeout for API requests, in seconds
	Timeout int
}

// StripCodeFences removes markdown code fences from a model reply so
// the JSON payload underneath can be decoded.
func StripCodeFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiProvider implements the Provider interface for Google Gemini
type GeminiProvider struct {
	client *genai.Client
	config Config
}

// NewGeminiProvider creates a new Gemini provider
func NewGeminiProvider(ctx context.Context, config Config) (*GeminiProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(config.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gemini client: %w", err)
	}

	return &GeminiProvider{
		client: client,
		config: config,
	}, nil
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// Complete sends a single prompt and returns the reply text
func (p *GeminiProvider) Complete(ctx context.Context, prompt string) (string, error) {
	if p.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(p.config.Timeout)*time.Second)
		defer cancel()
	}

	modelName := p.config.Model
	if modelName == "" {
		modelName = defaultGeminiModel
	}

	resp, err := p.client.GenerativeModel(modelName).GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	if sb.Len() == 0 {
		return "", fmt.Errorf("gemini returned no text content")
	}

	return sb.String(), nil
}

package llm

import (
	"context"
	"fmt"

	"mizan/internal/config"
)

// NewFromConfig returns the Client for the configured provider.
func NewFromConfig(ctx context.Context, cfg config.LLMConfig) (Client, error) {
	switch cfg.Provider {
	case "", "gemini":
		return NewGeminiClient(ctx, cfg)
	case "ollama":
		return NewOllamaClient(cfg)
	default:
		return nil, fmt.Errorf("unknown llm provider %q (supported: gemini, ollama)", cfg.Provider)
	}
}

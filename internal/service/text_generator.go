package service

import (
	"context"
	"strings"

	"github.com/fadilmartias/candidate-screener/internal/config"
)

type GenerationOptions struct {
	Temperature     float32
	MaxOutputTokens int
}

// TextGenerator sends one prompt to a generative text API and returns the
// model's text. Non-success replies surface as *util.UpstreamError.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, opts GenerationOptions) (string, error)
	Provider() string
}

// NewTextGenerator picks the provider named by cfg.Provider.
func NewTextGenerator(cfg *config.LLMConfig) TextGenerator {
	switch cfg.Provider {
	case config.ProviderOpenRouter:
		return NewOpenRouterService(cfg)
	case config.ProviderGeminiSDK:
		return NewGeminiService(cfg)
	default:
		return NewGeminiRESTService(cfg)
	}
}

func joinParts(parts []string) string {
	return strings.TrimSpace(strings.Join(parts, ""))
}

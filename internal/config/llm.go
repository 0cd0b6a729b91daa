package config

import (
	"log"
	"os"
	"sync"
	"time"
)

const (
	ProviderGemini     = "gemini"
	ProviderGeminiSDK  = "gemini-sdk"
	ProviderOpenRouter = "openrouter"
)

// LLMConfig is handed to the scoring evaluator. APIKey may be empty; the
// evaluator reports that as a configuration error per request.
type LLMConfig struct {
	Provider string
	Model    string
	BaseURL  string
	APIKey   string
	Timeout  time.Duration
}

// ProviderKeys holds the API key of every provider; only the selected one is used.
type ProviderKeys struct {
	Gemini     string
	OpenRouter string
}

var (
	llmConfig *LLMConfig
	llmOnce   sync.Once
)

func LoadLLMConfig() *LLMConfig {
	llmOnce.Do(func() {
		llmConfig = newLLMConfig(ProviderKeys{
			Gemini:     os.Getenv("GEMINI_API_KEY"),
			OpenRouter: os.Getenv("OPENROUTER_API_KEY"),
		})
	})
	return llmConfig
}

func newLLMConfig(keys ProviderKeys) *LLMConfig {
	cfg := &LLMConfig{
		Provider: os.Getenv("LLM_PROVIDER"),
		Model:    os.Getenv("LLM_MODEL"),
		BaseURL:  os.Getenv("LLM_BASE_URL"),
		Timeout:  60 * time.Second,
	}

	switch cfg.Provider {
	case ProviderOpenRouter:
		cfg.APIKey = keys.OpenRouter
		if cfg.Model == "" {
			cfg.Model = "openai/gpt-4o-mini"
		}
		if cfg.BaseURL == "" {
			cfg.BaseURL = "https://openrouter.ai/api/v1"
		}
	case ProviderGemini, ProviderGeminiSDK:
		cfg.APIKey = keys.Gemini
	default:
		if cfg.Provider != "" {
			log.Printf("Warning: unknown LLM_PROVIDER %q, falling back to %s", cfg.Provider, ProviderGemini)
		}
		cfg.Provider = ProviderGemini
		cfg.APIKey = keys.Gemini
	}

	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}
	if cfg.BaseURL == "" && cfg.Provider == ProviderGemini {
		cfg.BaseURL = "https://generativelanguage.googleapis.com"
	}

	if raw := os.Getenv("LLM_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			cfg.Timeout = d
		} else {
			log.Printf("Warning: invalid LLM_TIMEOUT %q, keeping %s", raw, cfg.Timeout)
		}
	}
	return cfg
}

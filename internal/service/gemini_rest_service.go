package service

import (
	"context"
	"fmt"

	"github.com/fadilmartias/candidate-screener/internal/config"
	"github.com/fadilmartias/candidate-screener/internal/util"
	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

// GeminiRESTService calls the Gemini generateContent endpoint directly.
type GeminiRESTService struct {
	cfg    *config.LLMConfig
	client *resty.Client
}

func NewGeminiRESTService(cfg *config.LLMConfig) *GeminiRESTService {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("Content-Type", "application/json")
	return &GeminiRESTService{cfg: cfg, client: client}
}

func (s *GeminiRESTService) Provider() string {
	return config.ProviderGemini
}

func (s *GeminiRESTService) GenerateText(ctx context.Context, prompt string, opts GenerationOptions) (string, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("x-goog-api-key", s.cfg.APIKey).
		SetPathParam("model", s.cfg.Model).
		SetBody(map[string]any{
			"contents": []map[string]any{
				{"parts": []map[string]string{{"text": prompt}}},
			},
			"generationConfig": map[string]any{
				"temperature":     opts.Temperature,
				"maxOutputTokens": opts.MaxOutputTokens,
			},
		}).
		Post("/v1beta/models/{model}:generateContent")
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	if !resp.IsSuccess() {
		return "", &util.UpstreamError{
			Provider:   s.Provider(),
			StatusCode: resp.StatusCode(),
			Body:       resp.String(),
		}
	}

	var parts []string
	for _, part := range gjson.Get(resp.String(), "candidates.0.content.parts.#.text").Array() {
		parts = append(parts, part.String())
	}
	text := joinParts(parts)
	if text == "" {
		return "", &util.ParseError{Message: "no text in gemini response", Raw: resp.String()}
	}
	return text, nil
}

package service

import (
	"context"
	"fmt"

	"github.com/fadilmartias/candidate-screener/internal/config"
	"github.com/fadilmartias/candidate-screener/internal/util"
	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

type OpenRouterService struct {
	cfg    *config.LLMConfig
	client *resty.Client
}

func NewOpenRouterService(cfg *config.LLMConfig) *OpenRouterService {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("Content-Type", "application/json")
	return &OpenRouterService{cfg: cfg, client: client}
}

func (s *OpenRouterService) Provider() string {
	return config.ProviderOpenRouter
}

func (s *OpenRouterService) GenerateText(ctx context.Context, prompt string, opts GenerationOptions) (string, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetAuthToken(s.cfg.APIKey).
		SetBody(map[string]any{
			"model": s.cfg.Model,
			"messages": []map[string]string{
				{"role": "system", "content": "You are an expert technical interviewer evaluating job applicants."},
				{"role": "user", "content": prompt},
			},
			"temperature": opts.Temperature,
			"max_tokens":  opts.MaxOutputTokens,
		}).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("openrouter request: %w", err)
	}
	if !resp.IsSuccess() {
		return "", &util.UpstreamError{
			Provider:   s.Provider(),
			StatusCode: resp.StatusCode(),
			Body:       resp.String(),
		}
	}

	text := joinParts([]string{gjson.Get(resp.String(), "choices.0.message.content").String()})
	if text == "" {
		return "", &util.ParseError{Message: "no text in openrouter response", Raw: resp.String()}
	}
	return text, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/fadilmartias/candidate-screener/internal/config"
	"github.com/fadilmartias/candidate-screener/internal/util"
	"google.golang.org/genai"
)

// GeminiService generates through the official genai SDK. The client is
// created on first use so a missing key only fails the request that needs it.
type GeminiService struct {
	cfg *config.LLMConfig

	mu     sync.Mutex
	client *genai.Client
}

func NewGeminiService(cfg *config.LLMConfig) *GeminiService {
	return &GeminiService{cfg: cfg}
}

func (s *GeminiService) Provider() string {
	return config.ProviderGeminiSDK
}

func (s *GeminiService) getClient(ctx context.Context) (*genai.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		return s.client, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  s.cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	s.client = client
	return client, nil
}

func (s *GeminiService) GenerateText(ctx context.Context, prompt string, opts GenerationOptions) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("prompt cannot be empty")
	}
	client, err := s.getClient(ctx)
	if err != nil {
		return "", err
	}

	result, err := client.Models.GenerateContent(
		ctx,
		s.cfg.Model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			Temperature:     genai.Ptr(opts.Temperature),
			MaxOutputTokens: int32(opts.MaxOutputTokens),
		},
	)
	if err != nil {
		return "", s.wrapError(err)
	}
	if err := validateGenerateResponse(result); err != nil {
		return "", &util.ParseError{Message: "invalid gemini response", Err: err}
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", &util.ParseError{Message: "no text in gemini response"}
	}
	return text, nil
}

func (s *GeminiService) wrapError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &util.UpstreamError{Provider: s.Provider(), StatusCode: apiErr.Code, Body: apiErr.Message}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return &util.UpstreamError{Provider: s.Provider(), StatusCode: apiErrPtr.Code, Body: apiErrPtr.Message}
	}
	return fmt.Errorf("gemini generate content: %w", err)
}

func validateGenerateResponse(resp *genai.GenerateContentResponse) error {
	if resp == nil {
		return fmt.Errorf("response is nil")
	}
	if len(resp.Candidates) == 0 {
		return fmt.Errorf("no candidates in response")
	}
	if resp.Candidates[0].Content == nil {
		return fmt.Errorf("candidate content is nil")
	}
	if len(resp.Candidates[0].Content.Parts) == 0 {
		return fmt.Errorf("no parts in content")
	}
	return nil
}

package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/fadilmartias/candidate-screener/internal/config"
	"github.com/fadilmartias/candidate-screener/internal/model"
	"github.com/fadilmartias/candidate-screener/internal/util"
	"github.com/tidwall/gjson"
)

const (
	scoringTemperature     = 0.3
	scoringMaxOutputTokens = 500

	noAnswerPlaceholder   = "No answer provided"
	noFeedbackPlaceholder = "No feedback provided"
)

type EvaluationInput struct {
	Questions  []model.Question
	Answers    map[int]string
	Position   string
	ResumeText string
}

type Evaluation struct {
	Score    int
	Feedback string
}

type ScoringServiceInterface interface {
	Evaluate(ctx context.Context, input EvaluationInput) (*Evaluation, error)
	Ping(ctx context.Context) (string, error)
}

// ScoringService turns a questionnaire transcript into a 0-20 score using a
// generative text API.
type ScoringService struct {
	cfg       *config.LLMConfig
	generator TextGenerator
}

func NewScoringService(cfg *config.LLMConfig, generator TextGenerator) *ScoringService {
	return &ScoringService{cfg: cfg, generator: generator}
}

func (s *ScoringService) Evaluate(ctx context.Context, input EvaluationInput) (*Evaluation, error) {
	if err := s.checkConfig(); err != nil {
		return nil, err
	}

	prompt := BuildEvaluationPrompt(input)

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	log.Printf("Evaluating %d answers with %s (%s)", len(input.Questions), s.generator.Provider(), s.cfg.Model)
	text, err := s.generator.GenerateText(ctx, prompt, GenerationOptions{
		Temperature:     scoringTemperature,
		MaxOutputTokens: scoringMaxOutputTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate answers: %w", err)
	}

	evaluation, err := ParseEvaluation(text)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate answers: %w", err)
	}
	return evaluation, nil
}

// Ping performs a minimal generation to confirm the provider is reachable
// with the configured key and model.
func (s *ScoringService) Ping(ctx context.Context) (string, error) {
	if err := s.checkConfig(); err != nil {
		return "", err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	return s.generator.GenerateText(ctx, "Reply with the single word OK.", GenerationOptions{
		Temperature:     0,
		MaxOutputTokens: 10,
	})
}

func (s *ScoringService) Provider() string {
	return s.generator.Provider()
}

func (s *ScoringService) Model() string {
	return s.cfg.Model
}

func (s *ScoringService) checkConfig() error {
	if s.cfg == nil || s.cfg.APIKey == "" {
		return &util.ConfigurationError{
			Message: fmt.Sprintf("%s is not set; add it to the service environment", apiKeyEnv(s.cfg)),
		}
	}
	return nil
}

func (s *ScoringService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.cfg.Timeout)
}

func apiKeyEnv(cfg *config.LLMConfig) string {
	if cfg != nil && cfg.Provider == config.ProviderOpenRouter {
		return "OPENROUTER_API_KEY"
	}
	return "GEMINI_API_KEY"
}

// BuildEvaluationPrompt renders every question exactly once, in order, with a
// placeholder where the candidate left no answer.
func BuildEvaluationPrompt(input EvaluationInput) string {
	transcript := make([]string, 0, len(input.Questions))
	for i, q := range input.Questions {
		answer := strings.TrimSpace(input.Answers[q.ID])
		if answer == "" {
			answer = noAnswerPlaceholder
		}
		transcript = append(transcript, fmt.Sprintf("Question %d: %s\nAnswer: %s", i+1, q.Question, answer))
	}

	return fmt.Sprintf(`You are an expert technical interviewer. Evaluate the following candidate's answers for the position of "%s".

Candidate Resume Summary:
%s

Interview Questions and Answers:
%s

Scoring Guidelines:
- Each question is worth equal points
- Total score must be out of %d
- Consider relevance, technical accuracy, depth of knowledge, clarity and practical experience
- Be objective and fair

Respond with ONLY valid JSON, no markdown, in exactly this format:
{
  "score": <number between 0-%d>,
  "feedback": "<brief overall feedback about the candidate's performance>"
}`, input.Position, input.ResumeText, strings.Join(transcript, "\n\n"), model.MaxScore, model.MaxScore)
}

// StripCodeFence removes a surrounding ```json or ``` markdown fence.
func StripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

// ParseEvaluation reads {"score", "feedback"} from model output. The score is
// rounded half-up and clamped to [0, MaxScore].
func ParseEvaluation(text string) (*Evaluation, error) {
	raw := StripCodeFence(text)
	if !gjson.Valid(raw) || !gjson.Parse(raw).IsObject() {
		return nil, &util.ParseError{Message: "evaluation is not a JSON object", Raw: text}
	}

	field := gjson.Get(raw, "score")
	var score float64
	switch field.Type {
	case gjson.Number:
		score = field.Float()
	case gjson.String:
		v, err := strconv.ParseFloat(strings.TrimSpace(field.Str), 64)
		if err != nil {
			return nil, &util.ParseError{Message: "score is not numeric", Raw: text, Err: err}
		}
		score = v
	default:
		return nil, &util.ParseError{Message: "evaluation has no numeric score", Raw: text}
	}
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return nil, &util.ParseError{Message: "score is not finite", Raw: text}
	}

	feedback := strings.TrimSpace(gjson.Get(raw, "feedback").String())
	if feedback == "" {
		feedback = noFeedbackPlaceholder
	}

	return &Evaluation{Score: ClampScore(score), Feedback: feedback}, nil
}

func ClampScore(score float64) int {
	rounded := math.Floor(score + 0.5)
	return int(math.Min(model.MaxScore, math.Max(0, rounded)))
}

package usecase

import (
	"context"

	"github.com/fadilmartias/candidate-screener/internal/service"
)

type EvaluatorStatus struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Reply    string `json:"reply"`
}

type DiagnosticsUsecase struct {
	scorer *service.ScoringService
}

func NewDiagnosticsUsecase(scorer *service.ScoringService) *DiagnosticsUsecase {
	return &DiagnosticsUsecase{scorer: scorer}
}

// EvaluatorStatus round-trips a tiny prompt through the configured provider.
func (uc *DiagnosticsUsecase) EvaluatorStatus(ctx context.Context) (*EvaluatorStatus, error) {
	reply, err := uc.scorer.Ping(ctx)
	if err != nil {
		return nil, err
	}
	return &EvaluatorStatus{Provider: uc.scorer.Provider(), Model: uc.scorer.Model(), Reply: reply}, nil
}

package usecase

import (
	"context"
	"log"
	"time"

	"github.com/fadilmartias/candidate-screener/internal/dto"
	"github.com/fadilmartias/candidate-screener/internal/model"
	"github.com/fadilmartias/candidate-screener/internal/repository"
	"github.com/fadilmartias/candidate-screener/internal/service"
	"github.com/fadilmartias/candidate-screener/internal/util"
)

type QuestionnaireUsecase struct {
	repo   *repository.CandidateRepository
	scorer service.ScoringServiceInterface
	now    func() time.Time
}

func NewQuestionnaireUsecase(repo *repository.CandidateRepository, scorer service.ScoringServiceInterface) *QuestionnaireUsecase {
	return &QuestionnaireUsecase{repo: repo, scorer: scorer, now: time.Now}
}

// GetQuestionnaire returns the candidate-facing view of a questionnaire. For a
// completed questionnaire it returns the terminal view together with an
// *util.AlreadyCompletedError.
func (uc *QuestionnaireUsecase) GetQuestionnaire(ctx context.Context, accessCode string) (*dto.QuestionnaireView, error) {
	c, err := uc.findByCode(ctx, accessCode)
	if err != nil {
		return nil, err
	}

	switch c.QuestionnaireStatus {
	case model.QuestionnaireWaiting:
		return nil, &util.NotReadyError{AccessCode: c.AccessCode}
	case model.QuestionnaireCompleted:
		return &dto.QuestionnaireView{
			CandidateName:  c.CandidateName,
			CandidateEmail: c.CandidateEmail,
			Position:       c.Position,
			Questions:      []model.Question{},
			Status:         model.QuestionnaireCompleted,
		}, &util.AlreadyCompletedError{Key: c.Key}
	}

	questions := c.Questions
	if questions == nil {
		questions = []model.Question{}
	}
	return &dto.QuestionnaireView{
		CandidateName:  c.CandidateName,
		CandidateEmail: c.CandidateEmail,
		Position:       c.Position,
		Questions:      questions,
		Status:         c.QuestionnaireStatus,
	}, nil
}

// SubmitAnswers scores the answers and completes the questionnaire in a
// single conditional write. Whoever loses a concurrent submission gets
// *util.AlreadyCompletedError.
func (uc *QuestionnaireUsecase) SubmitAnswers(ctx context.Context, accessCode string, req dto.SubmitAnswersRequest) (*dto.SubmitAnswersResult, error) {
	if err := util.ValidateStruct(req); err != nil {
		return nil, err
	}
	c, err := uc.findByCode(ctx, accessCode)
	if err != nil {
		return nil, err
	}
	if c.IsCompleted() {
		return nil, &util.AlreadyCompletedError{Key: c.Key}
	}
	if c.QuestionnaireStatus == model.QuestionnaireWaiting {
		return nil, &util.NotReadyError{AccessCode: c.AccessCode}
	}

	answers := req.ByQuestionID()
	evaluation, err := uc.scorer.Evaluate(ctx, service.EvaluationInput{
		Questions:  c.Questions,
		Answers:    answers,
		Position:   c.Position,
		ResumeText: c.ResumeText,
	})
	if err != nil {
		return nil, err
	}

	status := model.StatusForScore(evaluation.Score)
	completedAt := uc.now().UTC()
	_, err = uc.repo.Update(ctx, c.Key, func(cur *model.Candidate) error {
		if cur.IsCompleted() {
			return &util.AlreadyCompletedError{Key: cur.Key}
		}
		score := evaluation.Score
		cur.Answers = answers
		cur.Score = &score
		cur.Feedback = evaluation.Feedback
		cur.Status = status
		cur.QuestionnaireStatus = model.QuestionnaireCompleted
		cur.CompletedAt = &completedAt
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Candidate %s scored %d/%d - %s", c.CandidateEmail, evaluation.Score, model.MaxScore, status)
	return &dto.SubmitAnswersResult{Score: evaluation.Score, Status: status, Feedback: evaluation.Feedback}, nil
}

func (uc *QuestionnaireUsecase) findByCode(ctx context.Context, accessCode string) (*model.Candidate, error) {
	code := util.NormalizeAccessCode(accessCode)
	c, _, err := uc.repo.FindByAccessCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, &util.NotFoundError{Resource: "questionnaire", Key: code, Message: "Invalid access code"}
	}
	return c, nil
}

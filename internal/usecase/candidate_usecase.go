package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/fadilmartias/candidate-screener/internal/dto"
	"github.com/fadilmartias/candidate-screener/internal/model"
	"github.com/fadilmartias/candidate-screener/internal/repository"
	"github.com/fadilmartias/candidate-screener/internal/util"
)

const maxAccessCodeAttempts = 5

type CandidateUsecase struct {
	repo    *repository.CandidateRepository
	now     func() time.Time
	newCode func() (string, error)
}

func NewCandidateUsecase(repo *repository.CandidateRepository) *CandidateUsecase {
	return &CandidateUsecase{repo: repo, now: time.Now, newCode: util.GenerateAccessCode}
}

// CreateCandidate stores a new application. A resubmission with the same
// timestamp and email lands on the same key and replaces the earlier record.
func (uc *CandidateUsecase) CreateCandidate(ctx context.Context, req dto.CreateCandidateRequest) (*dto.CreateCandidateResult, error) {
	payload, timestamp := req.Payload()
	email := strings.TrimSpace(payload.CandidateEmail)
	if email == "" {
		return nil, &util.ValidationError{Message: "Missing candidateEmail"}
	}
	if timestamp == "" {
		timestamp = model.FormatTimestamp(uc.now())
	}
	key := model.CandidateKey(timestamp, email)

	questions, err := normalizeQuestions(payload.Questions)
	if err != nil {
		return nil, err
	}

	accessCode, err := uc.resolveAccessCode(ctx, key, payload.AccessCode)
	if err != nil {
		return nil, err
	}

	questionnaireStatus := model.QuestionnaireWaiting
	if len(questions) > 0 {
		questionnaireStatus = model.QuestionnaireReady
	}

	candidate := &model.Candidate{
		Key:                 key,
		CandidateName:       payload.CandidateName,
		CandidateEmail:      email,
		Position:            payload.Position,
		ResumeText:          payload.ResumeText,
		SubmittedAt:         timestamp,
		AccessCode:          accessCode,
		Questions:           questions,
		QuestionnaireStatus: questionnaireStatus,
		Status:              model.StatusPending,
	}
	if err := uc.repo.Save(ctx, candidate); err != nil {
		return nil, fmt.Errorf("store candidate: %w", err)
	}

	log.Printf("Stored candidate %s (questionnaire %s)", key, questionnaireStatus)
	return &dto.CreateCandidateResult{Key: key, AccessCode: accessCode}, nil
}

func (uc *CandidateUsecase) resolveAccessCode(ctx context.Context, key, supplied string) (string, error) {
	if supplied != "" {
		code := util.NormalizeAccessCode(supplied)
		if !util.IsValidAccessCode(code) {
			return "", &util.ValidationError{
				Message: fmt.Sprintf("accessCode must be %d characters of A-Z and 0-9", util.AccessCodeLength),
			}
		}
		holder, _, err := uc.repo.FindByAccessCode(ctx, code)
		if err != nil {
			return "", err
		}
		if holder != nil && holder.Key != key {
			return "", &util.ValidationError{Message: "accessCode is already assigned to another candidate"}
		}
		return code, nil
	}

	for attempt := 0; attempt < maxAccessCodeAttempts; attempt++ {
		code, err := uc.newCode()
		if err != nil {
			return "", err
		}
		holder, _, err := uc.repo.FindByAccessCode(ctx, code)
		if err != nil {
			return "", err
		}
		if holder == nil {
			return code, nil
		}
		log.Printf("Access code collision on attempt %d, regenerating", attempt+1)
	}
	return "", fmt.Errorf("could not generate a unique access code after %d attempts", maxAccessCodeAttempts)
}

func (uc *CandidateUsecase) ListCandidates(ctx context.Context) ([]model.Candidate, error) {
	return uc.repo.List(ctx)
}

func (uc *CandidateUsecase) Stats(ctx context.Context) (*dto.CandidateStats, error) {
	candidates, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	stats := &dto.CandidateStats{Total: len(candidates)}
	for _, c := range candidates {
		switch c.Status {
		case model.StatusShortlisted:
			stats.Shortlisted++
		case model.StatusRejected:
			stats.Rejected++
		}
		if c.IsCompleted() {
			stats.Completed++
		}
	}
	return stats, nil
}

// PatchCandidateStatus merges only the supplied fields into the newest record for email.
func (uc *CandidateUsecase) PatchCandidateStatus(ctx context.Context, email string, req dto.PatchCandidateRequest) (*model.Candidate, error) {
	if req.Status != nil && *req.Status == "" {
		req.Status = nil
	}
	if err := util.ValidateStruct(req); err != nil {
		return nil, err
	}
	if v := req.Score.Value; v != nil && (*v < 0 || *v > model.MaxScore) {
		return nil, &util.ValidationError{
			Message: fmt.Sprintf("score must be between 0 and %d", model.MaxScore),
			Fields:  map[string]string{"score": "out of range"},
		}
	}

	updated, err := uc.updateByEmail(ctx, email, func(c *model.Candidate) error {
		if req.Status != nil {
			c.Status = model.CandidateStatus(*req.Status)
		}
		if req.Score.Set {
			if req.Score.Value == nil {
				c.Score = nil
			} else {
				score := *req.Score.Value
				c.Score = &score
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Updated candidate %s: status=%s", email, updated.Status)
	return updated, nil
}

// AttachQuestions replaces the question set and opens the questionnaire.
// A completed questionnaire is never reopened.
func (uc *CandidateUsecase) AttachQuestions(ctx context.Context, email string, req dto.AttachQuestionsRequest) (*dto.AttachQuestionsResult, error) {
	if err := util.ValidateStruct(req); err != nil {
		return nil, err
	}
	questions, err := normalizeQuestions(req.Questions)
	if err != nil {
		return nil, err
	}

	updated, err := uc.updateByEmail(ctx, email, func(c *model.Candidate) error {
		if c.IsCompleted() {
			return &util.AlreadyCompletedError{Key: c.Key}
		}
		c.Questions = questions
		c.QuestionnaireStatus = model.QuestionnaireReady
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Stored %d questions for candidate %s", len(questions), email)
	return &dto.AttachQuestionsResult{AccessCode: updated.AccessCode, QuestionCount: len(questions)}, nil
}

// RecordNotification flips the notification flags on. Each timestamp is
// written on the first transition only.
func (uc *CandidateUsecase) RecordNotification(ctx context.Context, email string, req dto.NotificationRequest) (*model.Candidate, error) {
	if req.EmailSent == nil && req.RecruiterNotified == nil {
		return nil, &util.ValidationError{Message: "email_sent or recruiter_notified is required"}
	}

	return uc.updateByEmail(ctx, email, func(c *model.Candidate) error {
		now := uc.now().UTC()
		if req.EmailSent != nil && *req.EmailSent && !c.EmailSent {
			c.EmailSent = true
			c.EmailSentAt = &now
		}
		if req.RecruiterNotified != nil && *req.RecruiterNotified && !c.RecruiterNotified {
			c.RecruiterNotified = true
			c.RecruiterNotifiedAt = &now
		}
		return nil
	})
}

func (uc *CandidateUsecase) updateByEmail(ctx context.Context, email string, fn func(*model.Candidate) error) (*model.Candidate, error) {
	found, _, err := uc.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, &util.NotFoundError{Resource: "candidate", Key: email, Message: "Candidate not found"}
	}
	return uc.repo.Update(ctx, found.Key, fn)
}

func normalizeQuestions(in []dto.QuestionInput) ([]model.Question, error) {
	questions := dto.NormalizeQuestions(in)
	for _, q := range questions {
		if q.Question == "" {
			return nil, &util.ValidationError{Message: fmt.Sprintf("question %d has no text", q.ID)}
		}
	}
	if len(questions) == 0 {
		return nil, nil
	}
	return questions, nil
}

package usecase

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/fadilmartias/candidate-screener/internal/dto"
	"github.com/fadilmartias/candidate-screener/internal/model"
	"github.com/fadilmartias/candidate-screener/internal/repository"
	"github.com/fadilmartias/candidate-screener/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 4, 5, 6, 7, 890_000_000, time.UTC)

func newCandidateUsecase() (*CandidateUsecase, *repository.CandidateRepository) {
	repo := repository.NewCandidateRepository(repository.NewMemoryKVStore())
	uc := NewCandidateUsecase(repo)
	uc.now = func() time.Time { return fixedNow }
	return uc, repo
}

func createRequest(t *testing.T, body string) dto.CreateCandidateRequest {
	t.Helper()
	var req dto.CreateCandidateRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	return req
}

func TestCreateCandidate_Defaults(t *testing.T) {
	ctx := context.Background()
	uc, repo := newCandidateUsecase()

	result, err := uc.CreateCandidate(ctx, createRequest(t, `{"candidateName":"Jane","candidateEmail":"jane@x.io","position":"Go Dev"}`))
	require.NoError(t, err)

	assert.Equal(t, "candidate:2025-03-04T05:06:07.890Z:jane@x.io", result.Key)
	assert.True(t, util.IsValidAccessCode(result.AccessCode))

	stored, _, err := repo.Get(ctx, result.Key)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, model.QuestionnaireWaiting, stored.QuestionnaireStatus)
	assert.Equal(t, model.StatusPending, stored.Status)
	assert.Nil(t, stored.Score)
	assert.Equal(t, "2025-03-04T05:06:07.890Z", stored.SubmittedAt)
}

func TestCreateCandidate_LegacyEnvelopeWithQuestions(t *testing.T) {
	ctx := context.Background()
	uc, repo := newCandidateUsecase()

	result, err := uc.CreateCandidate(ctx, createRequest(t,
		`{"candidateData":{"candidateEmail":"bob@x.io","accessCode":"abcd1234","questions":["Q1",{"question":"Q2","points":5}]},"timestamp":1700000000000}`))
	require.NoError(t, err)
	assert.Equal(t, "candidate:1700000000000:bob@x.io", result.Key)
	assert.Equal(t, "ABCD1234", result.AccessCode)

	stored, _, err := repo.Get(ctx, result.Key)
	require.NoError(t, err)
	assert.Equal(t, model.QuestionnaireReady, stored.QuestionnaireStatus)
	assert.Equal(t, []model.Question{{ID: 1, Question: "Q1"}, {ID: 2, Question: "Q2", Points: 5}}, stored.Questions)
}

func TestCreateCandidate_MissingEmail(t *testing.T) {
	uc, repo := newCandidateUsecase()

	_, err := uc.CreateCandidate(context.Background(), createRequest(t, `{"candidateName":"Nobody","candidateEmail":"  "}`))
	var validationErr *util.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "Missing candidateEmail", validationErr.Message)

	candidates, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestCreateCandidate_AccessCodeRules(t *testing.T) {
	ctx := context.Background()
	uc, _ := newCandidateUsecase()

	_, err := uc.CreateCandidate(ctx, createRequest(t, `{"candidateEmail":"a@x.io","accessCode":"short"}`))
	var validationErr *util.ValidationError
	assert.ErrorAs(t, err, &validationErr)

	_, err = uc.CreateCandidate(ctx, createRequest(t, `{"candidateEmail":"a@x.io","submittedAt":"1","accessCode":"SAMECODE"}`))
	require.NoError(t, err)

	_, err = uc.CreateCandidate(ctx, createRequest(t, `{"candidateEmail":"b@x.io","submittedAt":"2","accessCode":"SAMECODE"}`))
	assert.ErrorAs(t, err, &validationErr)

	// Resubmitting the same key may keep its own code.
	_, err = uc.CreateCandidate(ctx, createRequest(t, `{"candidateEmail":"a@x.io","submittedAt":"1","accessCode":"samecode"}`))
	assert.NoError(t, err)
}

func TestCreateCandidate_RegeneratesCollidingCode(t *testing.T) {
	ctx := context.Background()
	uc, _ := newCandidateUsecase()

	_, err := uc.CreateCandidate(ctx, createRequest(t, `{"candidateEmail":"a@x.io","submittedAt":"1","accessCode":"TAKEN000"}`))
	require.NoError(t, err)

	codes := []string{"TAKEN000", "FRESH111"}
	uc.newCode = func() (string, error) {
		code := codes[0]
		codes = codes[1:]
		return code, nil
	}

	result, err := uc.CreateCandidate(ctx, createRequest(t, `{"candidateEmail":"b@x.io","submittedAt":"2"}`))
	require.NoError(t, err)
	assert.Equal(t, "FRESH111", result.AccessCode)
}

func TestCreateCandidate_SameKeyOverwrites(t *testing.T) {
	ctx := context.Background()
	uc, _ := newCandidateUsecase()

	_, err := uc.CreateCandidate(ctx, createRequest(t, `{"candidateEmail":"a@x.io","submittedAt":"5","position":"first"}`))
	require.NoError(t, err)
	_, err = uc.CreateCandidate(ctx, createRequest(t, `{"candidateEmail":"a@x.io","submittedAt":"5","position":"second"}`))
	require.NoError(t, err)

	candidates, err := uc.ListCandidates(ctx)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "second", candidates[0].Position)
}

func TestPatchCandidateStatus(t *testing.T) {
	ctx := context.Background()
	uc, _ := newCandidateUsecase()

	_, err := uc.CreateCandidate(ctx, createRequest(t, `{"candidateEmail":"a@x.io","submittedAt":"1","position":"old"}`))
	require.NoError(t, err)
	_, err = uc.CreateCandidate(ctx, createRequest(t, `{"candidateEmail":"a@x.io","submittedAt":"2","position":"new"}`))
	require.NoError(t, err)

	status := "shortlisted"
	updated, err := uc.PatchCandidateStatus(ctx, "a@x.io", dto.PatchCandidateRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Position)
	assert.Equal(t, model.StatusShortlisted, updated.Status)
	assert.Nil(t, updated.Score)

	score := 14
	updated, err = uc.PatchCandidateStatus(ctx, "a@x.io", dto.PatchCandidateRequest{Score: dto.NullableInt{Set: true, Value: &score}})
	require.NoError(t, err)
	assert.Equal(t, model.StatusShortlisted, updated.Status)
	require.NotNil(t, updated.Score)
	assert.Equal(t, 14, *updated.Score)

	bad := "hired"
	_, err = uc.PatchCandidateStatus(ctx, "a@x.io", dto.PatchCandidateRequest{Status: &bad})
	var validationErr *util.ValidationError
	assert.ErrorAs(t, err, &validationErr)

	tooHigh := 21
	_, err = uc.PatchCandidateStatus(ctx, "a@x.io", dto.PatchCandidateRequest{Score: dto.NullableInt{Set: true, Value: &tooHigh}})
	assert.ErrorAs(t, err, &validationErr)

	updated, err = uc.PatchCandidateStatus(ctx, "a@x.io", dto.PatchCandidateRequest{Score: dto.NullableInt{Set: true}})
	require.NoError(t, err)
	assert.Nil(t, updated.Score)
	assert.Equal(t, model.StatusShortlisted, updated.Status)

	_, err = uc.PatchCandidateStatus(ctx, "ghost@x.io", dto.PatchCandidateRequest{Status: &status})
	assert.True(t, util.IsNotFound(err))
}

func TestAttachQuestions(t *testing.T) {
	ctx := context.Background()
	uc, repo := newCandidateUsecase()

	created, err := uc.CreateCandidate(ctx, createRequest(t, `{"candidateEmail":"a@x.io","submittedAt":"1"}`))
	require.NoError(t, err)

	var req dto.AttachQuestionsRequest
	require.NoError(t, json.Unmarshal([]byte(`{"questions":["One?",{"id":7,"question":"Two?","points":2}]}`), &req))

	result, err := uc.AttachQuestions(ctx, "a@x.io", req)
	require.NoError(t, err)
	assert.Equal(t, created.AccessCode, result.AccessCode)
	assert.Equal(t, 2, result.QuestionCount)

	stored, _, err := repo.Get(ctx, created.Key)
	require.NoError(t, err)
	assert.Equal(t, model.QuestionnaireReady, stored.QuestionnaireStatus)
	assert.Equal(t, 2, stored.Questions[1].ID)

	_, err = uc.AttachQuestions(ctx, "a@x.io", dto.AttachQuestionsRequest{})
	var validationErr *util.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "Questions is required", validationErr.Message)

	_, err = uc.AttachQuestions(ctx, "a@x.io", dto.AttachQuestionsRequest{Questions: []dto.QuestionInput{}})
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "Questions must be at least 1", validationErr.Message)

	_, err = uc.AttachQuestions(ctx, "ghost@x.io", req)
	assert.True(t, util.IsNotFound(err))
}

func TestAttachQuestions_CompletedRecordUnchanged(t *testing.T) {
	ctx := context.Background()
	uc, repo := newCandidateUsecase()

	created, err := uc.CreateCandidate(ctx, createRequest(t, `{"candidateEmail":"a@x.io","submittedAt":"1","questions":["Old?"]}`))
	require.NoError(t, err)
	_, err = repo.Update(ctx, created.Key, func(c *model.Candidate) error {
		c.QuestionnaireStatus = model.QuestionnaireCompleted
		return nil
	})
	require.NoError(t, err)

	_, err = uc.AttachQuestions(ctx, "a@x.io", dto.AttachQuestionsRequest{Questions: []dto.QuestionInput{{Question: "New?"}}})
	assert.True(t, util.IsAlreadyCompleted(err))

	stored, _, err := repo.Get(ctx, created.Key)
	require.NoError(t, err)
	assert.Equal(t, model.QuestionnaireCompleted, stored.QuestionnaireStatus)
	assert.Equal(t, "Old?", stored.Questions[0].Question)
}

func TestRecordNotification_TimestampsSetOnce(t *testing.T) {
	ctx := context.Background()
	uc, _ := newCandidateUsecase()

	_, err := uc.CreateCandidate(ctx, createRequest(t, `{"candidateEmail":"a@x.io","submittedAt":"1"}`))
	require.NoError(t, err)

	yes := true
	updated, err := uc.RecordNotification(ctx, "a@x.io", dto.NotificationRequest{EmailSent: &yes})
	require.NoError(t, err)
	assert.True(t, updated.EmailSent)
	require.NotNil(t, updated.EmailSentAt)
	assert.True(t, fixedNow.Equal(*updated.EmailSentAt))
	assert.False(t, updated.RecruiterNotified)

	later := fixedNow.Add(time.Hour)
	uc.now = func() time.Time { return later }
	updated, err = uc.RecordNotification(ctx, "a@x.io", dto.NotificationRequest{EmailSent: &yes, RecruiterNotified: &yes})
	require.NoError(t, err)
	assert.True(t, fixedNow.Equal(*updated.EmailSentAt))
	require.NotNil(t, updated.RecruiterNotifiedAt)
	assert.True(t, later.Equal(*updated.RecruiterNotifiedAt))

	_, err = uc.RecordNotification(ctx, "a@x.io", dto.NotificationRequest{})
	var validationErr *util.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	uc, repo := newCandidateUsecase()

	for i, status := range []model.CandidateStatus{model.StatusShortlisted, model.StatusRejected, model.StatusPending} {
		score := 10
		c := &model.Candidate{
			Key:                 model.CandidateKey(string(rune('1'+i)), "x@x.io"),
			CandidateEmail:      "x@x.io",
			Status:              status,
			QuestionnaireStatus: model.QuestionnaireCompleted,
			Score:               &score,
		}
		if status == model.StatusPending {
			c.QuestionnaireStatus = model.QuestionnaireReady
			c.Score = nil
		}
		require.NoError(t, repo.Save(ctx, c))
	}

	stats, err := uc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, &dto.CandidateStats{Total: 3, Shortlisted: 1, Rejected: 1, Completed: 2}, stats)
}

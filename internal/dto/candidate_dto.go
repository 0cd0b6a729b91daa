package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/fadilmartias/candidate-screener/internal/model"
)

// QuestionInput accepts either a bare question string or {"question", "points"}.
type QuestionInput struct {
	Question string
	Points   float64
}

func (q *QuestionInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &q.Question)
	}
	var obj struct {
		Question string   `json:"question"`
		Points   *float64 `json:"points"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("question must be a string or an object: %w", err)
	}
	q.Question = obj.Question
	if obj.Points != nil {
		q.Points = *obj.Points
	}
	return nil
}

// NormalizeQuestions assigns 1-based ids in input order. Caller ids are ignored.
func NormalizeQuestions(in []QuestionInput) []model.Question {
	out := make([]model.Question, len(in))
	for i, q := range in {
		out[i] = model.Question{ID: i + 1, Question: strings.TrimSpace(q.Question), Points: q.Points}
	}
	return out
}

// CandidatePayload is the set of candidate fields callers may submit.
type CandidatePayload struct {
	CandidateName  string          `json:"candidateName"`
	CandidateEmail string          `json:"candidateEmail" validate:"required"`
	Position       string          `json:"position"`
	ResumeText     string          `json:"resumeText"`
	AccessCode     string          `json:"accessCode"`
	SubmittedAt    string          `json:"submittedAt"`
	Questions      []QuestionInput `json:"questions"`
}

// CreateCandidateRequest is either the legacy {candidateData, timestamp}
// envelope or the candidate fields at the top level.
type CreateCandidateRequest struct {
	CandidatePayload
	CandidateData *CandidatePayload `json:"candidateData"`
	Timestamp     json.RawMessage   `json:"timestamp"`
}

// Payload returns the candidate fields and the timestamp that goes into the
// key, empty when the caller supplied none.
func (r *CreateCandidateRequest) Payload() (CandidatePayload, string) {
	if r.CandidateData != nil {
		return *r.CandidateData, rawTimestamp(r.Timestamp)
	}
	return r.CandidatePayload, r.SubmittedAt
}

func rawTimestamp(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if i, err := n.Int64(); err == nil {
			return strconv.FormatInt(i, 10)
		}
		return n.String()
	}
	return ""
}

// ReceivedFields lists the top-level field names of the candidate object in
// body, sorted, for the "missing candidateEmail" diagnostics.
func ReceivedFields(body []byte) []string {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return []string{}
	}
	if inner, ok := top["candidateData"]; ok {
		var data map[string]json.RawMessage
		if err := json.Unmarshal(inner, &data); err == nil && data != nil {
			top = data
		}
	}
	fields := make([]string, 0, len(top))
	for k := range top {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	return fields
}

type CreateCandidateResult struct {
	Key        string `json:"key"`
	AccessCode string `json:"accessCode"`
}

// NullableInt tells an absent field apart from an explicit null.
type NullableInt struct {
	Set   bool
	Value *int
}

func (n *NullableInt) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(bytes.TrimSpace(data)) == "null" {
		n.Value = nil
		return nil
	}
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("score must be an integer or null: %w", err)
	}
	n.Value = &v
	return nil
}

// PatchCandidateRequest merges only the fields present in the body. An
// explicit "score": null clears the score.
type PatchCandidateRequest struct {
	Status *string     `json:"status" validate:"omitempty,oneof=pending shortlisted rejected"`
	Score  NullableInt `json:"score"`
}

type AttachQuestionsRequest struct {
	Questions []QuestionInput `json:"questions" validate:"required,min=1,dive"`
}

type AttachQuestionsResult struct {
	AccessCode    string `json:"accessCode"`
	QuestionCount int    `json:"questionCount"`
}

type NotificationRequest struct {
	EmailSent         *bool `json:"email_sent"`
	RecruiterNotified *bool `json:"recruiter_notified"`
}

type CandidateStats struct {
	Total       int `json:"total"`
	Shortlisted int `json:"shortlisted"`
	Rejected    int `json:"rejected"`
	Completed   int `json:"completed"`
}

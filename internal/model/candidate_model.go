package model

import (
	"strconv"
	"strings"
	"time"
)

const CandidateKeyPrefix = "candidate:"

type QuestionnaireStatus string

const (
	QuestionnaireWaiting   QuestionnaireStatus = "waiting_for_questions"
	QuestionnaireReady     QuestionnaireStatus = "ready"
	QuestionnaireCompleted QuestionnaireStatus = "completed"
)

type CandidateStatus string

const (
	StatusPending     CandidateStatus = "pending"
	StatusShortlisted CandidateStatus = "shortlisted"
	StatusRejected    CandidateStatus = "rejected"
)

func (s CandidateStatus) Valid() bool {
	switch s {
	case StatusPending, StatusShortlisted, StatusRejected:
		return true
	}
	return false
}

// ShortlistThreshold is the minimum score (out of MaxScore) to be shortlisted.
const (
	ShortlistThreshold = 12
	MaxScore           = 20
)

func StatusForScore(score int) CandidateStatus {
	if score >= ShortlistThreshold {
		return StatusShortlisted
	}
	return StatusRejected
}

type Question struct {
	ID       int     `json:"id"`
	Question string  `json:"question"`
	Points   float64 `json:"points"`
}

// Candidate is the JSON document stored under a candidate:<submittedAt>:<email> key.
type Candidate struct {
	Key                 string              `json:"key"`
	CandidateName       string              `json:"candidateName"`
	CandidateEmail      string              `json:"candidateEmail"`
	Position            string              `json:"position"`
	ResumeText          string              `json:"resumeText"`
	SubmittedAt         string              `json:"submittedAt"`
	AccessCode          string              `json:"accessCode"`
	Questions           []Question          `json:"questions,omitempty"`
	QuestionnaireStatus QuestionnaireStatus `json:"questionnaireStatus"`
	Status              CandidateStatus     `json:"status"`
	Answers             map[int]string      `json:"answers,omitempty"`
	Score               *int                `json:"score"`
	Feedback            string              `json:"feedback,omitempty"`
	CompletedAt         *time.Time          `json:"completedAt,omitempty"`
	EmailSent           bool                `json:"email_sent"`
	EmailSentAt         *time.Time          `json:"email_sent_at"`
	RecruiterNotified   bool                `json:"recruiter_notified"`
	RecruiterNotifiedAt *time.Time          `json:"recruiter_notified_at"`
}

func (c *Candidate) IsCompleted() bool {
	return c.QuestionnaireStatus == QuestionnaireCompleted
}

func CandidateKey(submittedAt, email string) string {
	return CandidateKeyPrefix + submittedAt + ":" + email
}

// KeyTimestamp returns the submission time embedded in a candidate key as
// Unix milliseconds. Both epoch-millisecond and ISO-8601 segments are
// understood; anything else yields 0.
func KeyTimestamp(key string) int64 {
	rest, ok := strings.CutPrefix(key, CandidateKeyPrefix)
	if !ok {
		return 0
	}
	// Emails carry no colon, ISO timestamps do: the email starts after the last one.
	idx := strings.LastIndex(rest, ":")
	if idx < 0 {
		return 0
	}
	segment := rest[:idx]
	if ms, err := strconv.ParseInt(segment, 10, 64); err == nil {
		return ms
	}
	if t, err := time.Parse(time.RFC3339Nano, segment); err == nil {
		return t.UnixMilli()
	}
	return 0
}

// FormatTimestamp renders t the way browsers render Date.toISOString().
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

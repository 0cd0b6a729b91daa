package dto

import (
	"strconv"
	"strings"

	"github.com/fadilmartias/candidate-screener/internal/model"
)

type QuestionnaireView struct {
	CandidateName  string                    `json:"candidateName"`
	CandidateEmail string                    `json:"candidateEmail"`
	Position       string                    `json:"position"`
	Questions      []model.Question          `json:"questions"`
	Status         model.QuestionnaireStatus `json:"status"`
}

// SubmitAnswersRequest carries answers keyed by question id as JSON object keys.
type SubmitAnswersRequest struct {
	Answers map[string]string `json:"answers" validate:"required"`
}

// ByQuestionID keeps the answers whose key is a question id. Other keys
// cannot match a question and are dropped.
func (r SubmitAnswersRequest) ByQuestionID() map[int]string {
	out := make(map[int]string, len(r.Answers))
	for k, v := range r.Answers {
		id, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil {
			continue
		}
		out[id] = v
	}
	return out
}

type SubmitAnswersResult struct {
	Score    int                   `json:"score"`
	Status   model.CandidateStatus `json:"status"`
	Feedback string                `json:"feedback"`
}

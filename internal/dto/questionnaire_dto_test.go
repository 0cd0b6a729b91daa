package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitAnswersRequest_ByQuestionID(t *testing.T) {
	var req SubmitAnswersRequest
	require.NoError(t, json.Unmarshal([]byte(`{"answers":{"1":"first","q2":"stray"," 3 ":"third"}}`), &req))

	assert.Equal(t, map[int]string{1: "first", 3: "third"}, req.ByQuestionID())
}

package schema

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validDoc = `{
	"metadata": {"entry_question_id": "q1"},
	"pillars": [{"id": "GOV", "name": "Governance", "weight": 1.5}],
	"questions": {
		"q1": {"text": "Policy?", "pillar_id": "GOV", "options": [
			{"id": "a", "label": "Yes", "score": 4},
			{"id": "b", "label": "No", "score": 0, "tags": ["GOV_none"]}
		]}
	},
	"levels": {
		"pillar": [{"id": "low", "min_score": 0, "max_score": 100}],
		"global": [{"id": "low", "min_score": 0, "max_score": 100}]
	}
}`

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestValidateDocument_Valid(t *testing.T) {
	assert.NoError(t, ValidateDocument(decode(t, validDoc)))
}

func TestValidateDocument_ReportsEveryFailure(t *testing.T) {
	doc := strings.Replace(validDoc, `"score": 4`, `"score": 7`, 1)
	doc = strings.Replace(doc, `"weight": 1.5`, `"weight": -1`, 1)

	err := ValidateDocument(decode(t, doc))
	require.Error(t, err)

	errs := ValidationErrors(err)
	require.Len(t, errs, 2, "got: %v", err)

	keys := []string{}
	for _, e := range errs {
		var ve *ValidationError
		require.True(t, errors.As(e, &ve))
		keys = append(keys, ve.Key)
	}
	assert.Contains(t, keys, "questions.q1.options[0].score")
	assert.Contains(t, keys, "pillars[0].weight")
}

func TestValidateDocument_MissingSections(t *testing.T) {
	err := ValidateDocument(decode(t, `{"metadata": {"entry_question_id": "q1"}}`))
	require.Error(t, err)
	assert.NotEmpty(t, ValidationErrors(err))
}

func TestAggregateError_Unwrap(t *testing.T) {
	sentinel := errors.New("boom")
	aggr := &AggregateError{Errors: []error{sentinel}}

	assert.ErrorIs(t, aggr, sentinel)
	assert.Nil(t, (&AggregateError{}).ErrOrNil())
	assert.Equal(t, "boom", aggr.Error())
}

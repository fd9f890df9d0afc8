package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/maturity/internal/compiler"
	"github.com/aretw0/maturity/pkg/adapters/memory"
	"github.com/aretw0/maturity/pkg/domain"
	"github.com/aretw0/maturity/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const doc = `{
	"metadata": {"entry_question_id": "q1"},
	"pillars": [{"id": "GOV", "name": "Governance", "weight": 1}],
	"questions": {
		"q1": {"text": "Is there a policy?", "pillar_id": "GOV", "options": [
			{"id": "yes", "label": "Yes", "score": 4, "next_question_id": "q2"},
			{"id": "no", "label": "No", "score": 0}
		]},
		"q2": {"text": "Is it reviewed?", "pillar_id": "GOV", "options": [
			{"id": "yes", "label": "Yes", "score": 4}
		]}
	},
	"levels": {
		"pillar": [{"id": "low", "min_score": 0, "max_score": 100}],
		"global": [{"id": "beginner", "min_score": 0, "max_score": 100}]
	}
}`

func TestLoader_Contract(t *testing.T) {
	loader, err := memory.NewFromDocument([]byte(doc), compiler.FormatJSON)
	require.NoError(t, err)
	ports.RunLoaderContract(t, loader, "q1", 2)
}

func TestLoader_RejectsInvalidDocument(t *testing.T) {
	_, err := memory.NewFromDocument([]byte(`{"metadata": {}}`), compiler.FormatJSON)
	assert.Error(t, err)
}

func TestLoader_ValidatesOnLoad(t *testing.T) {
	ctx := context.Background()

	_, err := memory.NewLoader(nil).Load(ctx)
	assert.ErrorIs(t, err, domain.ErrQuestionnaireInvalid)

	broken := &domain.Questionnaire{Metadata: domain.Metadata{EntryQuestionID: "ghost"}}
	_, err = memory.NewLoader(broken).Load(ctx)
	assert.ErrorIs(t, err, domain.ErrQuestionnaireInvalid)
}

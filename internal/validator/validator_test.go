package validator

import (
	"errors"
	"testing"

	"github.com/aretw0/maturity/pkg/domain"
	"github.com/aretw0/maturity/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bands = []domain.LevelBand{
	{ID: "low", Label: "Low", MinScore: 0, MaxScore: 49},
	{ID: "high", Label: "High", MinScore: 50, MaxScore: 100},
}

// fixture is start -> a -> b, with "a" also offering a terminal option.
func fixture() *domain.Questionnaire {
	return &domain.Questionnaire{
		Metadata: domain.Metadata{EntryQuestionID: "start"},
		Pillars:  []domain.Pillar{{ID: "GOV", Name: "Governance", Weight: 1}},
		Questions: map[domain.QuestionID]*domain.Question{
			"start": {ID: "start", PillarID: "GOV", Options: []domain.Option{{ID: "y", Score: 4, NextQuestionID: "a"}}},
			"a": {ID: "a", PillarID: "GOV", Options: []domain.Option{
				{ID: "y", Score: 4, NextQuestionID: "b"},
				{ID: "n", Score: 0},
			}},
			"b": {ID: "b", PillarID: "GOV", Options: []domain.Option{{ID: "y", Score: 2}}},
		},
		Order:  []domain.QuestionID{"start", "a", "b"},
		Levels: domain.Levels{Pillar: bands, Global: bands},
		Recommendations: domain.Recommendations{
			ByPillarLevel: map[domain.PillarID]map[domain.LevelID][]string{"GOV": {"low": {"Write a policy."}}},
			ByTag:         map[string][]string{},
		},
	}
}

func keys(t *testing.T, err error) []string {
	t.Helper()
	var out []string
	for _, e := range schema.ValidationErrors(err) {
		var ve *schema.ValidationError
		require.True(t, errors.As(e, &ve))
		out = append(out, ve.Key)
	}
	return out
}

func TestValidate_Valid(t *testing.T) {
	report := Check(fixture())
	assert.NoError(t, report.Err())
	assert.Empty(t, report.Warnings)
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(q *domain.Questionnaire)
		key    string
	}{
		{
			name:   "unknown entry",
			mutate: func(q *domain.Questionnaire) { q.Metadata.EntryQuestionID = "ghost" },
			key:    "metadata.entry_question_id",
		},
		{
			name:   "broken link",
			mutate: func(q *domain.Questionnaire) { q.Questions["b"].Options[0].NextQuestionID = "ghost" },
			key:    "questions.b.options[0].next_question_id",
		},
		{
			name:   "unknown pillar",
			mutate: func(q *domain.Questionnaire) { q.Questions["a"].PillarID = "DATA" },
			key:    "questions.a.pillar_id",
		},
		{
			name:   "score out of scale",
			mutate: func(q *domain.Questionnaire) { q.Questions["b"].Options[0].Score = 5 },
			key:    "questions.b.options[0].score",
		},
		{
			name: "duplicate option",
			mutate: func(q *domain.Questionnaire) {
				q.Questions["a"].Options[1].ID = "y"
			},
			key: "questions.a.options[1].id",
		},
		{
			name:   "no options",
			mutate: func(q *domain.Questionnaire) { q.Questions["b"].Options = nil },
			key:    "questions.b.options",
		},
		{
			name:   "duplicate pillar",
			mutate: func(q *domain.Questionnaire) { q.Pillars = append(q.Pillars, q.Pillars[0]) },
			key:    "pillars[1].id",
		},
		{
			name:   "negative weight",
			mutate: func(q *domain.Questionnaire) { q.Pillars[0].Weight = -1 },
			key:    "pillars[0].weight",
		},
		{
			name:   "no global bands",
			mutate: func(q *domain.Questionnaire) { q.Levels.Global = nil },
			key:    "levels.global",
		},
		{
			name: "inverted band",
			mutate: func(q *domain.Questionnaire) {
				q.Levels.Pillar = []domain.LevelBand{{ID: "x", MinScore: 80, MaxScore: 20}}
				q.Recommendations.ByPillarLevel = nil
			},
			key: "levels.pillar[0]",
		},
		{
			name: "recommendation for unknown level",
			mutate: func(q *domain.Questionnaire) {
				q.Recommendations.ByPillarLevel["GOV"]["mid"] = []string{"x"}
			},
			key: "recommendations.by_pillar_level.GOV.mid",
		},
		{
			name: "tag attributed to unknown pillar",
			mutate: func(q *domain.Questionnaire) {
				q.Recommendations.TagPillars = map[string]domain.PillarID{"quick_win": "APPS"}
			},
			key: "recommendations.tag_pillars.quick_win",
		},
		{
			name:   "cycle",
			mutate: func(q *domain.Questionnaire) { q.Questions["b"].Options[0].NextQuestionID = "a" },
			key:    "questions.b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := fixture()
			tt.mutate(q)

			err := Validate(q)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrQuestionnaireInvalid)
			assert.Contains(t, keys(t, err), tt.key)
		})
	}
}

func TestValidate_ReportsEveryError(t *testing.T) {
	q := fixture()
	q.Questions["a"].PillarID = "DATA"
	q.Questions["b"].Options[0].Score = 9

	assert.ElementsMatch(t,
		[]string{"questions.a.pillar_id", "questions.b.options[0].score"},
		keys(t, Validate(q)))
}

func TestCheck_Warnings(t *testing.T) {
	// 1. An orphan question is reachable from nowhere
	q := fixture()
	q.Questions["orphan"] = &domain.Question{ID: "orphan", PillarID: "GOV", Options: []domain.Option{{ID: "y"}}}
	q.Order = append(q.Order, "orphan")

	// 2. Bands leave 50-59 uncovered
	q.Levels.Global = []domain.LevelBand{
		{ID: "low", MinScore: 0, MaxScore: 49},
		{ID: "high", MinScore: 60, MaxScore: 100},
	}

	report := Check(q)
	require.NoError(t, report.Err())
	assert.Equal(t, []string{
		`levels.global does not cover 50-59; the lowest band is used there`,
		`question "orphan" is unreachable from "start"`,
	}, report.Warnings)
}

func TestReachable(t *testing.T) {
	q := fixture()
	assert.Equal(t, map[domain.QuestionID]bool{"start": true, "a": true, "b": true}, Reachable(q))
	assert.Empty(t, Unreachable(q))
}

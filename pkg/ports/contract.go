package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/maturity/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStateStoreContract runs a suite of tests to verify that a StateStore implementation
// adheres to the defined interface contract.
func RunStateStoreContract(t *testing.T, store StateStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		// 1. Create a state with an answer
		state := domain.NewState(sessionID, "q1")
		state.Answers["q1"] = domain.AnswerRecord{
			QuestionID: "q1",
			OptionID:   "a",
			Score:      3,
			Tags:       []string{"GOV_policy"},
			PillarID:   "GOV",
		}

		// 2. Save
		err := store.Save(ctx, sessionID, state)
		require.NoError(t, err, "Save should not return error")

		// 3. Load
		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, state.CurrentQuestionID, loaded.CurrentQuestionID)
		assert.Equal(t, state.History, loaded.History)
		assert.Equal(t, state.Answers["q1"], loaded.Answers["q1"])
		assert.Equal(t, domain.StatusActive, loaded.Status)
	})

	t.Run("Load Returns Independent Copy", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sessionID, domain.NewState(sessionID, "q1")))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		loaded.History = append(loaded.History, "q2")

		again, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Len(t, again.History, 1, "mutating a loaded state must not leak into the store")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		// Setup
		err := store.Save(ctx, sessionID, domain.NewState(sessionID, "q1"))
		require.NoError(t, err)

		// Delete
		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		// Verify gone
		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		// Setup: Create 2 sessions
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, domain.NewState(id1, "q1"))
		_ = store.Save(ctx, id2, domain.NewState(id2, "q1"))

		// Ensure cleanup
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		// List
		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}

// RunLoaderContract verifies that a QuestionnaireLoader returns a usable questionnaire.
func RunLoaderContract(t *testing.T, loader QuestionnaireLoader, wantEntry domain.QuestionID, wantQuestions int) {
	t.Helper()
	ctx := context.Background()

	q, err := loader.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, q)

	assert.Equal(t, wantEntry, q.Metadata.EntryQuestionID)
	assert.Len(t, q.Questions, wantQuestions)
	assert.Len(t, q.Order, wantQuestions, "declaration order must list every question")

	_, ok := q.Question(wantEntry)
	assert.True(t, ok, "entry question must be declared")

	for _, p := range q.Pillars {
		assert.GreaterOrEqual(t, p.Weight, 0.0, "pillar %s weight", p.ID)
	}
}

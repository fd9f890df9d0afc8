package runner_test

import (
	"context"
	"testing"

	"github.com/aretw0/maturity/pkg/domain"
	"github.com/aretw0/maturity/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplay(t *testing.T) {
	engine := newEngine(t)
	ctx := context.Background()

	t.Run("Complete Path", func(t *testing.T) {
		state, err := runner.Replay(ctx, engine, "r1", []runner.Answer{
			{QuestionID: "q1", OptionID: "agree"},
			{QuestionID: "q2", OptionID: "partly"},
		})
		require.NoError(t, err)
		assert.True(t, state.IsCompleted())
		assert.Equal(t, "r1", state.SessionID)
	})

	t.Run("Partial Path", func(t *testing.T) {
		state, err := runner.Replay(ctx, engine, "r2", []runner.Answer{{QuestionID: "q1", OptionID: "agree"}})
		require.NoError(t, err)
		assert.False(t, state.IsCompleted())
		assert.Equal(t, domain.QuestionID("q2"), state.CurrentQuestionID)
	})

	t.Run("Off Path", func(t *testing.T) {
		_, err := runner.Replay(ctx, engine, "r3", []runner.Answer{{QuestionID: "q2", OptionID: "agree"}})
		assert.ErrorIs(t, err, domain.ErrNotCurrentQuestion)
	})

	t.Run("Answers After Completion", func(t *testing.T) {
		_, err := runner.Replay(ctx, engine, "r4", []runner.Answer{
			{QuestionID: "q1", OptionID: "disagree"},
			{QuestionID: "q2", OptionID: "agree"},
		})
		assert.ErrorIs(t, err, domain.ErrSessionCompleted)
	})
}

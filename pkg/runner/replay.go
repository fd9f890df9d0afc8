package runner

import (
	"context"
	"fmt"

	"github.com/aretw0/maturity/pkg/domain"
)

// Answer is one recorded choice, as read from a score file.
type Answer struct {
	QuestionID domain.QuestionID `json:"question_id"`
	OptionID   domain.OptionID   `json:"option_id"`
}

// Replay starts a session and feeds answers through the navigator in order,
// advancing after each one. The answers must follow the path their own choices
// select; an answer for a question other than the current one fails with
// domain.ErrNotCurrentQuestion. Replay stops early when the session completes
// and rejects leftover answers with domain.ErrSessionCompleted.
func Replay(ctx context.Context, engine Engine, sessionID string, answers []Answer) (*domain.State, error) {
	state, err := engine.Start(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	for i, a := range answers {
		if state.IsCompleted() {
			return state, fmt.Errorf("answer %d (%s): %w", i+1, a.QuestionID, domain.ErrSessionCompleted)
		}
		if state, err = engine.RecordAnswer(ctx, state, a.QuestionID, a.OptionID); err != nil {
			return nil, fmt.Errorf("answer %d (%s): %w", i+1, a.QuestionID, err)
		}
		if state, err = engine.Advance(ctx, state); err != nil {
			return nil, fmt.Errorf("answer %d (%s): %w", i+1, a.QuestionID, err)
		}
	}
	return state, nil
}

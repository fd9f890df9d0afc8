package ports

import (
	"context"

	"github.com/aretw0/maturity/pkg/domain"
)

// Navigator is the stateless engine surface used by adapters (HTTP, MCP, terminal).
// Every mutating call takes a state and returns a new one; the input is never modified.
type Navigator interface {
	// Start creates a fresh state positioned on the entry question.
	Start(ctx context.Context, sessionID string) (*domain.State, error)

	// RecordAnswer selects an option for the current question.
	RecordAnswer(ctx context.Context, state *domain.State, questionID domain.QuestionID, optionID domain.OptionID) (*domain.State, error)

	// Advance moves past the answered current question, completing the session on a terminal option.
	Advance(ctx context.Context, state *domain.State) (*domain.State, error)

	// GoBack pops the current question and discards its answer.
	// atStart is true when there was nothing to pop.
	GoBack(ctx context.Context, state *domain.State) (next *domain.State, atStart bool, err error)

	// View renders the presentation model of the state.
	View(ctx context.Context, state *domain.State) (*domain.View, error)

	// Results scores the answers recorded in the state.
	Results(ctx context.Context, state *domain.State) (*domain.Results, error)

	// Inspect returns the loaded questionnaire for introspection.
	Inspect() (*domain.Questionnaire, error)
}

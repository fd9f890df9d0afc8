package runtime

import (
	"context"

	"github.com/aretw0/maturity/pkg/domain"
	"github.com/aretw0/maturity/pkg/scoring"
)

// View builds the presentation model of a state.
// It is recomputed on every call so it always reflects the latest answers.
func (e *Engine) View(ctx context.Context, state *domain.State) (*domain.View, error) {
	question, err := e.current(state)
	if err != nil {
		return nil, err
	}

	answer, answered := state.Answers[question.ID]
	pillar, _ := e.q.Pillar(question.PillarID)

	v := &domain.View{
		SessionID:  state.SessionID,
		Status:     state.Status,
		QuestionID: question.ID,
		Text:       question.Text,
		Help:       question.Help,
		Pillar:     pillar,
		Options:    make([]domain.OptionView, 0, len(question.Options)),
		Position:   len(state.History),
		Total:      e.q.QuestionCount(),
		Progress:   scoring.Progress(e.q, len(state.Answers)),
	}

	for _, o := range question.Options {
		selected := answered && answer.OptionID == o.ID
		v.Options = append(v.Options, domain.OptionView{
			ID:       o.ID,
			Label:    o.Label,
			Selected: selected,
			Terminal: o.IsTerminal(),
		})
		if selected && !state.IsCompleted() {
			v.CanAdvance = !o.IsTerminal()
			v.CanFinish = o.IsTerminal()
		}
	}
	v.CanGoBack = !state.IsCompleted() && len(state.History) > 1
	v.PillarProgress = scoring.PillarProgress(e.q, state.OrderedAnswers())

	return v, nil
}

// Results scores the answers recorded so far, in history order.
func (e *Engine) Results(ctx context.Context, state *domain.State) (*domain.Results, error) {
	return e.scorer.Compute(e.q, state.OrderedAnswers()), nil
}

// Inspect returns the questionnaire for introspection.
func (e *Engine) Inspect() (*domain.Questionnaire, error) {
	return e.q, nil
}

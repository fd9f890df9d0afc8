package runtime

import (
	"context"

	"github.com/aretw0/maturity/pkg/domain"
)

func (e *Engine) base(t domain.EventType, state *domain.State) domain.EventBase {
	return domain.EventBase{
		Timestamp: e.now(),
		Type:      t,
		SessionID: state.SessionID,
	}
}

func (e *Engine) questionEvent(t domain.EventType, state *domain.State, id domain.QuestionID) *domain.QuestionEvent {
	ev := &domain.QuestionEvent{EventBase: e.base(t, state), QuestionID: id}
	if q, ok := e.q.Question(id); ok {
		ev.PillarID = q.PillarID
	}
	return ev
}

func (e *Engine) emitStart(ctx context.Context, state *domain.State) {
	if e.hooks.OnStart != nil {
		e.hooks.OnStart(ctx, e.questionEvent(domain.EventStart, state, state.CurrentQuestionID))
	}
}

func (e *Engine) emitQuestionEnter(ctx context.Context, state *domain.State) {
	if e.hooks.OnQuestionEnter != nil {
		e.hooks.OnQuestionEnter(ctx, e.questionEvent(domain.EventQuestionEnter, state, state.CurrentQuestionID))
	}
}

func (e *Engine) emitQuestionLeave(ctx context.Context, state *domain.State, id domain.QuestionID) {
	if e.hooks.OnQuestionLeave != nil {
		e.hooks.OnQuestionLeave(ctx, e.questionEvent(domain.EventQuestionLeave, state, id))
	}
}

func (e *Engine) emitAnswer(ctx context.Context, state *domain.State, a domain.AnswerRecord) {
	if e.hooks.OnAnswer != nil {
		e.hooks.OnAnswer(ctx, &domain.AnswerEvent{EventBase: e.base(domain.EventAnswer, state), Answer: a})
	}
}

func (e *Engine) emitBack(ctx context.Context, state *domain.State, left domain.QuestionID) {
	if e.hooks.OnBack != nil {
		e.hooks.OnBack(ctx, e.questionEvent(domain.EventBack, state, left))
	}
}

func (e *Engine) emitComplete(ctx context.Context, state *domain.State) {
	if e.hooks.OnComplete != nil {
		e.hooks.OnComplete(ctx, &domain.CompleteEvent{
			EventBase:     e.base(domain.EventComplete, state),
			AnsweredCount: len(state.Answers),
		})
	}
}

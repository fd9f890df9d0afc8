package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/maturity/pkg/domain"
)

// LoggingHooks logs every lifecycle event at debug level, completions at info.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	question := func(msg string) func(context.Context, *domain.QuestionEvent) {
		return func(ctx context.Context, e *domain.QuestionEvent) {
			logger.DebugContext(ctx, msg,
				"session_id", e.SessionID,
				"question_id", e.QuestionID,
				"pillar_id", e.PillarID,
			)
		}
	}
	return domain.LifecycleHooks{
		OnStart:         question("session_start"),
		OnQuestionEnter: question("question_enter"),
		OnQuestionLeave: question("question_leave"),
		OnBack:          question("back"),
		OnAnswer: func(ctx context.Context, e *domain.AnswerEvent) {
			logger.DebugContext(ctx, "answer",
				"session_id", e.SessionID,
				"question_id", e.Answer.QuestionID,
				"option_id", e.Answer.OptionID,
				"score", e.Answer.Score,
			)
		},
		OnComplete: func(ctx context.Context, e *domain.CompleteEvent) {
			logger.InfoContext(ctx, "session_complete",
				"session_id", e.SessionID,
				"answered", e.AnsweredCount,
			)
		},
	}
}

// Combine fans every event out to each set of hooks, in order.
func Combine(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range sets {
		out.OnStart = chain(out.OnStart, h.OnStart)
		out.OnQuestionEnter = chain(out.OnQuestionEnter, h.OnQuestionEnter)
		out.OnQuestionLeave = chain(out.OnQuestionLeave, h.OnQuestionLeave)
		out.OnAnswer = chain(out.OnAnswer, h.OnAnswer)
		out.OnBack = chain(out.OnBack, h.OnBack)
		out.OnComplete = chain(out.OnComplete, h.OnComplete)
	}
	return out
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}

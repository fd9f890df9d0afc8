package runtime

import (
	"context"
	"fmt"

	"github.com/aretw0/maturity/pkg/domain"
)

// Start creates a fresh state on the entry question with an empty answer set.
func (e *Engine) Start(ctx context.Context, sessionID string) (*domain.State, error) {
	entry := e.q.Metadata.EntryQuestionID
	if _, ok := e.q.Question(entry); !ok {
		return nil, fmt.Errorf("%w: entry %s", domain.ErrUnknownQuestion, entry)
	}

	state := domain.NewState(sessionID, entry)
	state.UpdatedAt = e.now()

	e.logger.Debug("session started", "session_id", sessionID, "question", entry)
	e.emitStart(ctx, state)
	e.emitQuestionEnter(ctx, state)
	return state, nil
}

// Restart discards the state and starts again under the same session id.
func (e *Engine) Restart(ctx context.Context, state *domain.State) (*domain.State, error) {
	return e.Start(ctx, state.SessionID)
}

// RecordAnswer upserts the answer of the current question.
// Re-answering replaces the previous record and leaves everything else untouched.
func (e *Engine) RecordAnswer(ctx context.Context, state *domain.State, questionID domain.QuestionID, optionID domain.OptionID) (*domain.State, error) {
	if state.IsCompleted() {
		return nil, domain.ErrSessionCompleted
	}

	question, ok := e.q.Question(questionID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownQuestion, questionID)
	}
	if questionID != state.CurrentQuestionID {
		return nil, fmt.Errorf("%w: %s (current is %s)", domain.ErrNotCurrentQuestion, questionID, state.CurrentQuestionID)
	}

	option, ok := question.Option(optionID)
	if !ok {
		return nil, fmt.Errorf("%w: %s on question %s", domain.ErrUnknownOption, optionID, questionID)
	}

	next := e.cloneState(state)
	if prev, exists := state.Answers[questionID]; exists && prev.OptionID == optionID {
		return next, nil
	}

	record := domain.AnswerRecord{
		QuestionID: questionID,
		OptionID:   optionID,
		Score:      option.Score,
		Tags:       append([]string(nil), option.Tags...),
		PillarID:   question.PillarID,
	}
	next.Answers[questionID] = record

	e.logger.Debug("answer recorded", "session_id", state.SessionID, "question", questionID, "option", optionID, "score", option.Score)
	e.emitAnswer(ctx, next, record)
	return next, nil
}

// Advance follows the answered option of the current question.
// A terminal option completes the session; the caller should then score it.
func (e *Engine) Advance(ctx context.Context, state *domain.State) (*domain.State, error) {
	if state.IsCompleted() {
		return nil, domain.ErrSessionCompleted
	}

	question, err := e.current(state)
	if err != nil {
		return nil, err
	}

	answer, ok := state.Answers[question.ID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoAnswer, question.ID)
	}

	option, ok := question.Option(answer.OptionID)
	if !ok {
		return nil, fmt.Errorf("%w: %s on question %s", domain.ErrUnknownOption, answer.OptionID, question.ID)
	}

	next := e.cloneState(state)
	e.emitQuestionLeave(ctx, next, question.ID)

	if option.IsTerminal() {
		next.Status = domain.StatusCompleted
		e.logger.Debug("session completed", "session_id", state.SessionID, "answered", len(next.Answers))
		e.emitComplete(ctx, next)
		return next, nil
	}

	if _, ok := e.q.Question(option.NextQuestionID); !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownQuestion, option.NextQuestionID)
	}

	next.CurrentQuestionID = option.NextQuestionID
	next.History = append(next.History, option.NextQuestionID)

	e.logger.Debug("advanced", "session_id", state.SessionID, "from", question.ID, "to", option.NextQuestionID)
	e.emitQuestionEnter(ctx, next)
	return next, nil
}

// GoBack pops the current question and discards its answer.
// At the entry question it is a no-op and reports atStart.
func (e *Engine) GoBack(ctx context.Context, state *domain.State) (*domain.State, bool, error) {
	if state.IsCompleted() {
		return nil, false, domain.ErrSessionCompleted
	}

	next := e.cloneState(state)
	if len(next.History) <= 1 {
		return next, true, nil
	}

	left := next.History[len(next.History)-1]
	next.History = next.History[:len(next.History)-1]
	delete(next.Answers, left)
	next.CurrentQuestionID = next.History[len(next.History)-1]

	e.logger.Debug("went back", "session_id", state.SessionID, "from", left, "to", next.CurrentQuestionID)
	e.emitBack(ctx, next, left)
	e.emitQuestionEnter(ctx, next)
	return next, false, nil
}

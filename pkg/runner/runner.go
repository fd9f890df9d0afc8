package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/maturity/internal/logging"
	"github.com/aretw0/maturity/pkg/domain"
	"github.com/aretw0/maturity/pkg/ports"
)

// Engine is the navigator surface the runner drives.
type Engine interface {
	ports.Navigator
	Restart(ctx context.Context, state *domain.State) (*domain.State, error)
}

// Runner handles the interaction loop of an assessment session.
// It uses an IOHandler strategy to abstract the interaction mode (Text vs JSON).
type Runner struct {
	Handler IOHandler
	Logger  *slog.Logger

	// Store is the persistence adapter for resumable sessions.
	// If nil, sessions are ephemeral.
	Store     ports.StateStore
	SessionID string

	// AutoAdvance moves to the next question as soon as an option is chosen.
	AutoAdvance bool
}

// NewRunner creates a Runner on Stdin/Stdout with auto-advance enabled.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Logger:      logging.NewNop(),
		AutoAdvance: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.Handler == nil {
		r.Handler = NewTextHandler(os.Stdin, os.Stdout)
	}
	return r
}

// Run executes the interaction loop until the session completes, the respondent
// quits, or the input ends. It returns the last committed state.
// A cancelled ctx stops the loop with ctx.Err().
func (r *Runner) Run(ctx context.Context, engine Engine) (*domain.State, error) {
	state, err := r.resolveInitialState(ctx, engine)
	if err != nil {
		return nil, err
	}

	for !state.IsCompleted() {
		view, err := engine.View(ctx, state)
		if err != nil {
			return state, fmt.Errorf("render error: %w", err)
		}
		if err := r.Handler.ShowQuestion(ctx, view); err != nil {
			return state, fmt.Errorf("output error: %w", err)
		}

		next, quit, err := r.step(ctx, engine, state, view)
		if err != nil {
			if errors.Is(err, io.EOF) {
				r.Logger.Debug("input closed", "session_id", state.SessionID)
				return state, nil
			}
			return state, err
		}
		if quit {
			return state, nil
		}
		if next == nil {
			continue
		}

		if err := r.saveState(ctx, next); err != nil {
			return state, fmt.Errorf("critical persistence error: %w", err)
		}
		state = next
	}

	results, err := engine.Results(ctx, state)
	if err != nil {
		return state, fmt.Errorf("scoring error: %w", err)
	}
	r.defaultTitle(engine)
	if err := r.Handler.ShowResults(ctx, results); err != nil {
		return state, fmt.Errorf("output error: %w", err)
	}
	return state, nil
}

// step reads one line and applies it. A nil state with no error means nothing changed.
func (r *Runner) step(ctx context.Context, engine Engine, state *domain.State, view *domain.View) (*domain.State, bool, error) {
	input, err := r.Handler.Input(ctx)
	if err != nil {
		return nil, false, err
	}

	cmd, err := ParseCommand(input, view)
	if err != nil {
		return nil, false, r.notify(ctx, fmt.Sprintf("%v. %s", err, HelpText))
	}

	var next *domain.State
	switch cmd.Kind {
	case CommandQuit:
		return nil, true, nil
	case CommandHelp:
		return nil, false, r.notify(ctx, HelpText)
	case CommandBack:
		var atStart bool
		next, atStart, err = engine.GoBack(ctx, state)
		if err == nil && atStart {
			return nil, false, r.notify(ctx, "Already at the first question.")
		}
	case CommandRestart:
		next, err = engine.Restart(ctx, state)
	case CommandAdvance:
		next, err = engine.Advance(ctx, state)
		if errors.Is(err, domain.ErrNoAnswer) {
			return nil, false, r.notify(ctx, "Select an option first.")
		}
	case CommandAnswer:
		next, err = engine.RecordAnswer(ctx, state, view.QuestionID, cmd.OptionID)
		if err == nil && r.AutoAdvance {
			next, err = engine.Advance(ctx, next)
		}
	}

	if err != nil {
		r.Logger.Warn("command rejected", "session_id", state.SessionID, "err", err)
		return nil, false, r.notify(ctx, err.Error())
	}
	return next, false, nil
}

func (r *Runner) notify(ctx context.Context, msg string) error {
	if err := r.Handler.SystemOutput(ctx, msg); err != nil {
		return fmt.Errorf("output error: %w", err)
	}
	return nil
}

func (r *Runner) saveState(ctx context.Context, state *domain.State) error {
	if r.Store == nil || r.SessionID == "" {
		return nil
	}
	if err := r.Store.Save(ctx, r.SessionID, state); err != nil {
		return err
	}
	r.Logger.Debug("state saved", "session_id", r.SessionID, "question_id", state.CurrentQuestionID)
	return nil
}

// resolveInitialState resumes the stored session of SessionID or starts a new one.
func (r *Runner) resolveInitialState(ctx context.Context, engine Engine) (*domain.State, error) {
	if r.Store != nil && r.SessionID != "" {
		state, err := r.Store.Load(ctx, r.SessionID)
		if err == nil {
			r.Logger.Info("session resumed", "session_id", r.SessionID, "question_id", state.CurrentQuestionID)
			if err := r.notify(ctx, fmt.Sprintf("Resuming session %s.", r.SessionID)); err != nil {
				return nil, err
			}
			return state, nil
		}
		if !errors.Is(err, domain.ErrSessionNotFound) {
			return nil, fmt.Errorf("failed to load session %s: %w", r.SessionID, err)
		}
	}

	state, err := engine.Start(ctx, r.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to create initial state: %w", err)
	}
	if err := r.saveState(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to initialize session %s: %w", r.SessionID, err)
	}
	return state, nil
}

// titled is implemented by handlers that print a report title.
type titled interface {
	defaultTitle(title string)
}

// defaultTitle hands the questionnaire title to handlers that have none set.
func (r *Runner) defaultTitle(engine Engine) {
	h, ok := r.Handler.(titled)
	if !ok {
		return
	}
	inspector, ok := engine.(interface {
		Inspect() (*domain.Questionnaire, error)
	})
	if !ok {
		return
	}
	if q, err := inspector.Inspect(); err == nil && q != nil {
		h.defaultTitle(q.Metadata.Title)
	}
}

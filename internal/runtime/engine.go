package runtime

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/maturity/internal/logging"
	"github.com/aretw0/maturity/pkg/domain"
	"github.com/aretw0/maturity/pkg/ports"
	"github.com/aretw0/maturity/pkg/scoring"
)

// Engine is the questionnaire navigator.
// It holds no session data: every operation takes a state and returns a new one.
type Engine struct {
	q      *domain.Questionnaire
	scorer *scoring.Scorer
	logger *slog.Logger
	hooks  domain.LifecycleHooks
	now    func() time.Time
}

var _ ports.Navigator = (*Engine)(nil)

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithScorer overrides the default scorer.
func WithScorer(s *scoring.Scorer) EngineOption {
	return func(e *Engine) {
		if s != nil {
			e.scorer = s
		}
	}
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates a navigator over a validated questionnaire.
func NewEngine(q *domain.Questionnaire, opts ...EngineOption) *Engine {
	e := &Engine{
		q:      q,
		scorer: scoring.New(),
		logger: logging.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Questionnaire returns the questionnaire the engine navigates.
func (e *Engine) Questionnaire() *domain.Questionnaire {
	return e.q
}

func (e *Engine) cloneState(s *domain.State) *domain.State {
	next := s.Clone()
	next.UpdatedAt = e.now()
	return next
}

// current resolves the question a state points at.
func (e *Engine) current(state *domain.State) (*domain.Question, error) {
	if state == nil {
		return nil, fmt.Errorf("nil state")
	}
	q, ok := e.q.Question(state.CurrentQuestionID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownQuestion, state.CurrentQuestionID)
	}
	return q, nil
}

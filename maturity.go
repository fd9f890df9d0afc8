package maturity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aretw0/loam"
	"github.com/aretw0/maturity/internal/logging"
	"github.com/aretw0/maturity/internal/runtime"
	"github.com/aretw0/maturity/pkg/adapters/file"
	loamAdapter "github.com/aretw0/maturity/pkg/adapters/loam"
	"github.com/aretw0/maturity/pkg/domain"
	"github.com/aretw0/maturity/pkg/ports"
	"github.com/aretw0/maturity/pkg/scoring"
	"github.com/google/uuid"
)

// ErrNotWatchable is returned by Watch when the loader cannot observe changes.
var ErrNotWatchable = errors.New("current loader does not support watching")

// Engine is the high-level entry point for the maturity library.
// It wraps the internal runtime and provides a simplified API for consumers.
// The loaded questionnaire can be swapped at runtime with Reload.
type Engine struct {
	mu      sync.RWMutex
	runtime *runtime.Engine

	loader ports.QuestionnaireLoader
	hooks  domain.LifecycleHooks
	scorer *scoring.Scorer
	logger *slog.Logger
	Name   string
}

var _ ports.Navigator = (*Engine)(nil)

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLoader injects a custom QuestionnaireLoader, bypassing path detection.
func WithLoader(l ports.QuestionnaireLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithScorer replaces the default scoring policy.
func WithScorer(s *scoring.Scorer) Option {
	return func(e *Engine) {
		e.scorer = s
	}
}

// New initializes a new Engine.
// path is either a questionnaire document (.json, .yaml, .yml, .toml) or a
// directory authored as a Loam repository. If WithLoader is provided, path
// is only used as a descriptive name and may be empty.
func New(path string, opts ...Option) (*Engine, error) {
	eng := &Engine{}

	// Apply Options first to check if a loader is provided
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	if eng.loader == nil {
		if path == "" {
			return nil, fmt.Errorf("path is required when no custom loader is provided")
		}
		loader, err := loaderFor(path, eng.logger)
		if err != nil {
			return nil, err
		}
		eng.loader = loader
	}

	if path != "" {
		eng.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		eng.logger = eng.logger.With("questionnaire", eng.Name)
	}

	if err := eng.Reload(context.Background()); err != nil {
		return nil, err
	}
	return eng, nil
}

func loaderFor(path string, logger *slog.Logger) (ports.QuestionnaireLoader, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("questionnaire not found: %w", err)
	}
	if !info.IsDir() {
		return file.New(absPath, file.WithLogger(logger))
	}

	// The engine never writes questionnaire documents.
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return loamAdapter.New(loam.NewTypedRepository[loamAdapter.DocumentMetadata](repo)), nil
}

// Reload loads the questionnaire again and swaps the runtime. On failure the
// previous questionnaire stays active.
func (e *Engine) Reload(ctx context.Context) error {
	q, err := e.loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load questionnaire: %w", err)
	}

	runtimeOpts := []runtime.EngineOption{
		runtime.WithLifecycleHooks(e.hooks),
		runtime.WithLogger(e.logger),
	}
	if e.scorer != nil {
		runtimeOpts = append(runtimeOpts, runtime.WithScorer(e.scorer))
	}

	e.mu.Lock()
	e.runtime = runtime.NewEngine(q, runtimeOpts...)
	e.mu.Unlock()
	return nil
}

func (e *Engine) current() *runtime.Engine {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.runtime
}

// Start creates the initial state. An empty sessionID gets a random one.
func (e *Engine) Start(ctx context.Context, sessionID string) (*domain.State, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	return e.current().Start(ctx, sessionID)
}

// Restart discards all answers and returns to the entry question.
func (e *Engine) Restart(ctx context.Context, state *domain.State) (*domain.State, error) {
	return e.current().Restart(ctx, state)
}

// RecordAnswer selects an option for the current question.
func (e *Engine) RecordAnswer(ctx context.Context, state *domain.State, questionID domain.QuestionID, optionID domain.OptionID) (*domain.State, error) {
	return e.current().RecordAnswer(ctx, state, questionID, optionID)
}

// Advance moves to the next question, or completes the session on a terminal option.
func (e *Engine) Advance(ctx context.Context, state *domain.State) (*domain.State, error) {
	return e.current().Advance(ctx, state)
}

// GoBack returns to the previous question, discarding the current answer.
func (e *Engine) GoBack(ctx context.Context, state *domain.State) (*domain.State, bool, error) {
	return e.current().GoBack(ctx, state)
}

// View renders the presentation model for the state.
func (e *Engine) View(ctx context.Context, state *domain.State) (*domain.View, error) {
	return e.current().View(ctx, state)
}

// Results scores the answers recorded so far.
func (e *Engine) Results(ctx context.Context, state *domain.State) (*domain.Results, error) {
	return e.current().Results(ctx, state)
}

// Inspect returns the loaded questionnaire for visualization or introspection tools.
func (e *Engine) Inspect() (*domain.Questionnaire, error) {
	return e.current().Inspect()
}

// Watch returns a channel that signals when the underlying questionnaire changes.
func (e *Engine) Watch(ctx context.Context) (<-chan struct{}, error) {
	if w, ok := e.loader.(ports.Watchable); ok {
		return w.Watch(ctx)
	}
	return nil, ErrNotWatchable
}

// WatchAndReload reloads the questionnaire on every change until ctx is done.
// Reload failures are logged and the previous questionnaire is kept.
func (e *Engine) WatchAndReload(ctx context.Context) error {
	changes, err := e.Watch(ctx)
	if err != nil {
		return err
	}
	go func() {
		for range changes {
			if err := e.Reload(ctx); err != nil {
				e.logger.Warn("questionnaire reload failed", "err", err)
				continue
			}
			e.logger.Info("questionnaire reloaded")
		}
	}()
	return nil
}

// Loader returns the underlying QuestionnaireLoader used by the engine.
func (e *Engine) Loader() ports.QuestionnaireLoader {
	return e.loader
}

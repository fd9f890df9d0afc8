package runner

import (
	"log/slog"

	"github.com/aretw0/maturity/pkg/ports"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithStore configures the StateStore for persistence.
func WithStore(store ports.StateStore) Option {
	return func(r *Runner) {
		r.Store = store
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithInputHandler configures a custom IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithSessionID sets the session ID. With a store, an existing session of that id is resumed.
func WithSessionID(id string) Option {
	return func(r *Runner) {
		r.SessionID = id
	}
}

// WithManualAdvance keeps the respondent on a question after answering;
// an empty line (or "next") moves on.
func WithManualAdvance() Option {
	return func(r *Runner) {
		r.AutoAdvance = false
	}
}

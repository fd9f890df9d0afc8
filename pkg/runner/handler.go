package runner

import (
	"context"

	"github.com/aretw0/maturity/pkg/domain"
)

// IOHandler defines the strategy for interacting with the respondent.
// This allows switching between Text (CLI/TUI) and JSON (Structured) modes.
type IOHandler interface {
	// ShowQuestion presents the current question and its options.
	ShowQuestion(ctx context.Context, view *domain.View) error

	// ShowResults presents the final scores and recommendations.
	ShowResults(ctx context.Context, results *domain.Results) error

	// Input reads one line of response. io.EOF ends the session without completing it.
	Input(ctx context.Context) (string, error)

	// SystemOutput presents a meta-message (hints, rejected input, resume notices).
	SystemOutput(ctx context.Context, msg string) error
}

// ContentRenderer is a function that transforms markdown before outputting it.
// This allows for TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)

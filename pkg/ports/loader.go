package ports

import (
	"context"

	"github.com/aretw0/maturity/pkg/domain"
)

// QuestionnaireLoader defines how the engine retrieves its configuration document.
// This allows the source (single file, Loam directory, memory) to be decoupled.
type QuestionnaireLoader interface {
	// Load reads, decodes and validates the questionnaire.
	// Invalid documents fail with an error wrapping domain.ErrQuestionnaireInvalid.
	Load(ctx context.Context) (*domain.Questionnaire, error)
}

// Watchable defines an interface for loaders that can notify about backend changes.
// This is typically used for hot-reload or dev-mode functionality.
type Watchable interface {
	// Watch returns a channel that is signaled when the underlying document changes.
	// It abstracts away the specific event details, signaling only that a reload is required.
	Watch(ctx context.Context) (<-chan struct{}, error)
}

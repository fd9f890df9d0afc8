package ports

import (
	"context"

	"github.com/aretw0/maturity/pkg/domain"
)

// StateStore defines where session state lives between requests.
// Implementations are session-scoped caches: entries may expire, nothing survives
// beyond the session lifetime.
type StateStore interface {
	// Save stores the state for a given session ID.
	Save(ctx context.Context, sessionID string, state *domain.State) error

	// Load retrieves the state for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.State, error)

	// Delete removes the state for a given session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of the live sessions.
	List(ctx context.Context) ([]string, error)
}

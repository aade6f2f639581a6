package ports

import (
	"context"

	"github.com/aretw0/roomread/pkg/domain"
)

// SessionStore holds runner sessions between requests.
// Sessions are ephemeral: stores may expire them, and nothing about a learner
// outlives the session except the progress token the caller carries.
type SessionStore interface {
	// Save persists the state for a given session ID.
	Save(ctx context.Context, sessionID string, state *domain.RunnerState) error

	// Load retrieves the state for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.RunnerState, error)

	// Delete removes the state for a given session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of the sessions currently held.
	List(ctx context.Context) ([]string, error)
}

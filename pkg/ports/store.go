package ports

import (
	"context"

	"github.com/aretw0/turing/pkg/domain"
)

// RunStore defines the interface for persisting server-held sessions.
// This allows a run to be stepped across requests without the client round-tripping its state.
type RunStore interface {
	// Save persists the session under its ID.
	Save(ctx context.Context, session *domain.Session) error

	// Load retrieves the session for a given ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.Session, error)

	// Delete removes the session for a given ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of stored sessions.
	List(ctx context.Context) ([]string, error)
}

package domain

import (
	"context"
	"errors"

	"github.com/disgoorg/snowflake/v2"
)

// SessionRepository defines the interface for storing and retrieving sessions.
type SessionRepository interface {
	// Get returns a snapshot of the session, or error if not exists.
	Get(ctx context.Context, id snowflake.ID) (SessionSnapshot, error)

	// Save stores a new session, replacing any session with the same ID.
	Save(ctx context.Context, session *Session) error

	// GetOrCreate stores session unless a session with the same ID already
	// exists, and returns a snapshot of whichever session is stored.
	GetOrCreate(ctx context.Context, session *Session) (SessionSnapshot, error)

	// Update runs fn with exclusive access to the session.
	// Returns error if the session does not exist or fn fails.
	Update(ctx context.Context, id snowflake.ID, fn func(*Session) error) error

	// Delete removes the session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id snowflake.ID) error
}

// ErrSessionNotFound is returned by repositories when no session has the given ID.
var ErrSessionNotFound = errors.New("session not found")

package infrastructure

import (
	"context"
	"sync"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/sgrtune/internal/modules/playback/domain"
)

// sessionEntry guards a single session so that sessions do not contend with each other.
type sessionEntry struct {
	mu      sync.Mutex
	session *domain.Session
	deleted bool
}

// MemoryRepository is an in-memory implementation of SessionRepository.
type MemoryRepository struct {
	mu      sync.RWMutex
	entries map[snowflake.ID]*sessionEntry
}

// NewMemoryRepository creates a new MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		entries: make(map[snowflake.ID]*sessionEntry),
	}
}

func (r *MemoryRepository) entry(id snowflake.ID) (*sessionEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[id]
	return e, ok
}

// Get returns a snapshot of the session, or error if not exists.
func (r *MemoryRepository) Get(_ context.Context, id snowflake.ID) (domain.SessionSnapshot, error) {
	e, ok := r.entry(id)
	if !ok {
		return domain.SessionSnapshot{}, domain.ErrSessionNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.deleted {
		return domain.SessionSnapshot{}, domain.ErrSessionNotFound
	}
	return e.session.Snapshot(), nil
}

// Save stores the session, replacing any session with the same ID.
func (r *MemoryRepository) Save(_ context.Context, session *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.entries[session.ID()]; ok {
		old.mu.Lock()
		old.deleted = true
		old.mu.Unlock()
	}
	r.entries[session.ID()] = &sessionEntry{session: session}
	return nil
}

// GetOrCreate stores the session unless one with the same ID exists.
// The check and the insert happen under the map lock.
func (r *MemoryRepository) GetOrCreate(
	_ context.Context,
	session *domain.Session,
) (domain.SessionSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[session.ID()]; ok {
		e.mu.Lock()
		defer e.mu.Unlock()
		if !e.deleted {
			return e.session.Snapshot(), nil
		}
	}

	r.entries[session.ID()] = &sessionEntry{session: session}
	return session.Snapshot(), nil
}

// Update runs fn with exclusive access to the session.
func (r *MemoryRepository) Update(
	ctx context.Context,
	id snowflake.ID,
	fn func(*domain.Session) error,
) error {
	e, ok := r.entry(id)
	if !ok {
		return domain.ErrSessionNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.deleted {
		return domain.ErrSessionNotFound
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(e.session)
}

// Delete removes the session.
func (r *MemoryRepository) Delete(_ context.Context, id snowflake.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[id]; ok {
		e.mu.Lock()
		e.deleted = true
		e.mu.Unlock()
		delete(r.entries, id)
	}
	return nil
}

// Count returns the number of sessions (for testing/monitoring).
func (r *MemoryRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entries)
}

// Ensure MemoryRepository implements SessionRepository.
var _ domain.SessionRepository = (*MemoryRepository)(nil)

package usecases

import (
	"context"
	"fmt"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/sgrtune/internal/modules/playback/application/ports"
	"github.com/sglre6355/sgrtune/internal/modules/playback/domain"
)

// DefaultRecentPlaysLimit is the number of persisted plays returned when no limit is given.
const DefaultRecentPlaysLimit = 50

// OpenSessionInput contains the input for the Open use case.
type OpenSessionInput struct {
	// Token is an optional bearer credential. When set, the session belongs to
	// the authenticated user; otherwise it is a guest session.
	Token string
	// OwnerID binds the session to a user that was authenticated by the calling
	// surface (e.g., a Discord member). Ignored when Token is set.
	OwnerID string
}

// EnsureSessionInput contains the input for the Ensure use case.
type EnsureSessionInput struct {
	SessionID snowflake.ID
	OwnerID   string // Optional: owner used only when the session is created
}

// RecentPlaysInput contains the input for the RecentPlays use case.
type RecentPlaysInput struct {
	SessionID snowflake.ID
	Limit     int // Optional: defaults to DefaultRecentPlaysLimit
}

// SessionService handles the lifecycle of playback sessions.
type SessionService struct {
	repo         domain.SessionRepository
	ids          ports.IDGenerator
	auth         ports.AuthProvider
	recorder     ports.HistoryRecorder
	publisher    ports.EventPublisher
	historyLimit int
}

// NewSessionService creates a new SessionService.
// auth and recorder may be nil when authentication or persistence is not configured.
func NewSessionService(
	repo domain.SessionRepository,
	ids ports.IDGenerator,
	auth ports.AuthProvider,
	recorder ports.HistoryRecorder,
	publisher ports.EventPublisher,
	historyLimit int,
) *SessionService {
	return &SessionService{
		repo:         repo,
		ids:          ids,
		auth:         auth,
		recorder:     recorder,
		publisher:    publisher,
		historyLimit: historyLimit,
	}
}

// Open creates a new session with empty collections and a paused transport.
func (s *SessionService) Open(
	ctx context.Context,
	input OpenSessionInput,
) (domain.SessionSnapshot, error) {
	ownerID := input.OwnerID
	if input.Token != "" {
		identity, err := s.Authenticate(ctx, input.Token)
		if err != nil {
			return domain.SessionSnapshot{}, err
		}
		ownerID = identity.UserID
	}

	session := domain.NewSession(s.ids.NewID(), ownerID, s.historyLimit)
	if err := s.repo.Save(ctx, session); err != nil {
		return domain.SessionSnapshot{}, fmt.Errorf("failed to save session: %w", err)
	}

	return session.Snapshot(), nil
}

// Ensure returns the session with the given ID, creating it if needed.
// Surfaces whose sessions are keyed by an external ID (a Discord guild) use this.
func (s *SessionService) Ensure(
	ctx context.Context,
	input EnsureSessionInput,
) (domain.SessionSnapshot, error) {
	session := domain.NewSession(input.SessionID, input.OwnerID, s.historyLimit)
	snapshot, err := s.repo.GetOrCreate(ctx, session)
	if err != nil {
		return domain.SessionSnapshot{}, fmt.Errorf("failed to ensure session: %w", err)
	}

	return snapshot, nil
}

// Get returns a snapshot of the session.
func (s *SessionService) Get(ctx context.Context, id snowflake.ID) (domain.SessionSnapshot, error) {
	return s.repo.Get(ctx, id)
}

// Close discards the session.
func (s *SessionService) Close(ctx context.Context, id snowflake.ID) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	publishAll(s.publisher, domain.SessionClosedEvent{SessionID: id})

	return nil
}

// Authenticate resolves a bearer credential to an identity.
func (s *SessionService) Authenticate(ctx context.Context, token string) (*ports.Identity, error) {
	if s.auth == nil || token == "" {
		return nil, ErrUnauthenticated
	}

	identity, err := s.auth.Authenticate(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	return identity, nil
}

// Authorize returns the session if the bearer credential may act on it.
// Guest sessions accept any caller; owned sessions accept only their owner.
func (s *SessionService) Authorize(
	ctx context.Context,
	id snowflake.ID,
	token string,
) (domain.SessionSnapshot, error) {
	snapshot, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.SessionSnapshot{}, err
	}
	if snapshot.OwnerID == "" {
		return snapshot, nil
	}

	identity, err := s.Authenticate(ctx, token)
	if err != nil {
		return domain.SessionSnapshot{}, err
	}
	if identity.UserID != snapshot.OwnerID {
		return domain.SessionSnapshot{}, ErrNotSessionOwner
	}

	return snapshot, nil
}

// RecentPlays returns the persisted listening history of the session owner.
// Guest sessions have no persisted history.
func (s *SessionService) RecentPlays(
	ctx context.Context,
	input RecentPlaysInput,
) ([]ports.PlayRecord, error) {
	snapshot, err := s.repo.Get(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}
	if snapshot.OwnerID == "" {
		return nil, ErrGuestNotPermitted
	}
	if s.recorder == nil {
		return nil, ErrHistoryUnavailable
	}

	limit := input.Limit
	if limit <= 0 {
		limit = DefaultRecentPlaysLimit
	}

	records, err := s.recorder.RecentPlays(ctx, snapshot.OwnerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent plays: %w", err)
	}

	return records, nil
}

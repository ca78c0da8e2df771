package usecases

import (
	"context"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/sgrtune/internal/modules/playback/application/ports"
	"github.com/sglre6355/sgrtune/internal/modules/playback/domain"
)

func mockTrack(id string) domain.Track {
	return domain.Track{
		ID:       domain.TrackID(id),
		Title:    "Track " + id,
		Artist:   "Artist",
		Duration: 3 * time.Minute,
	}
}

type mockRepository struct {
	mu       sync.Mutex
	sessions map[snowflake.ID]*domain.Session
	deleted  []snowflake.ID
	saveErr  error
	updates  int
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		sessions: make(map[snowflake.ID]*domain.Session),
	}
}

func (m *mockRepository) Get(_ context.Context, id snowflake.ID) (domain.SessionSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[id]
	if !ok {
		return domain.SessionSnapshot{}, domain.ErrSessionNotFound
	}
	return session.Snapshot(), nil
}

func (m *mockRepository) Save(_ context.Context, session *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saveErr != nil {
		return m.saveErr
	}
	m.sessions[session.ID()] = session
	return nil
}

func (m *mockRepository) GetOrCreate(_ context.Context, session *domain.Session) (domain.SessionSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.sessions[session.ID()]; ok {
		return existing.Snapshot(), nil
	}
	if m.saveErr != nil {
		return domain.SessionSnapshot{}, m.saveErr
	}
	m.sessions[session.ID()] = session
	return session.Snapshot(), nil
}

func (m *mockRepository) Update(
	_ context.Context,
	id snowflake.ID,
	fn func(*domain.Session) error,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.updates++
	session, ok := m.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	return fn(session)
}

func (m *mockRepository) Delete(_ context.Context, id snowflake.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.deleted = append(m.deleted, id)
	delete(m.sessions, id)
	return nil
}

// createSession creates a session and saves it to the mock repository.
// Returns the session for further setup (e.g., playing tracks).
func (m *mockRepository) createSession(id snowflake.ID, ownerID string) *domain.Session {
	session := domain.NewSession(id, ownerID, 0)
	m.sessions[id] = session
	return session
}

type mockEventPublisher struct {
	mu         sync.Mutex
	events     []domain.Event
	publishErr error
}

func (m *mockEventPublisher) Publish(event domain.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.publishErr != nil {
		return m.publishErr
	}
	m.events = append(m.events, event)
	return nil
}

func (m *mockEventPublisher) published() []domain.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Event(nil), m.events...)
}

// lastEvent returns the most recent event, or nil.
func (m *mockEventPublisher) lastEvent() domain.Event {
	events := m.published()
	if len(events) == 0 {
		return nil
	}
	return events[len(events)-1]
}

type mockIDGenerator struct {
	next snowflake.ID
}

func (m *mockIDGenerator) NewID() snowflake.ID {
	m.next++
	return m.next
}

type mockAuthProvider struct {
	users map[string]string // token -> userID
}

func (m *mockAuthProvider) Authenticate(_ context.Context, token string) (*ports.Identity, error) {
	user, ok := m.users[token]
	if !ok {
		return nil, errUnknownToken
	}
	return &ports.Identity{UserID: user, DisplayName: user}, nil
}

type mockHistoryRecorder struct {
	records   []ports.PlayRecord
	listErr   error
	lastUser  string
	lastLimit int
}

func (m *mockHistoryRecorder) RecordPlay(
	_ context.Context,
	userID string,
	track domain.Track,
	playedAt time.Time,
) error {
	m.records = append(m.records, ports.PlayRecord{UserID: userID, Track: track, PlayedAt: playedAt})
	return nil
}

func (m *mockHistoryRecorder) RecentPlays(_ context.Context, userID string, limit int) ([]ports.PlayRecord, error) {
	m.lastUser = userID
	m.lastLimit = limit
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.records, nil
}

type mockTrackResolver struct {
	mu         sync.Mutex
	queries    []string
	loadErr    error
	loadResult *ports.LoadResult
	loadFunc   func(ctx context.Context, query string) (*ports.LoadResult, error)
}

func (m *mockTrackResolver) LoadTracks(ctx context.Context, query string) (*ports.LoadResult, error) {
	m.mu.Lock()
	m.queries = append(m.queries, query)
	loadFunc := m.loadFunc
	m.mu.Unlock()

	if loadFunc != nil {
		return loadFunc(ctx, query)
	}
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.loadResult, nil
}

func searchResult(ids ...string) *ports.LoadResult {
	tracks := make([]*ports.TrackInfo, len(ids))
	for i, id := range ids {
		tracks[i] = &ports.TrackInfo{
			Identifier: id,
			Title:      "Track " + id,
			Artist:     "Artist",
			SourceName: "youtube",
		}
	}
	return &ports.LoadResult{Type: ports.LoadTypeSearch, Tracks: tracks}
}

func trackIDs(tracks []domain.Track) []domain.TrackID {
	ids := make([]domain.TrackID, len(tracks))
	for i, t := range tracks {
		ids[i] = t.ID
	}
	return ids
}

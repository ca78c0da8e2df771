package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
	"github.com/sglre6355/sgrtune/internal/modules/playback/application/ports"
	"github.com/sglre6355/sgrtune/internal/modules/playback/domain"
)

// DefaultSearchLimit is the number of results returned when no limit is given.
const DefaultSearchLimit = 10

// SearchInput contains the input for the Search use case.
type SearchInput struct {
	SessionID snowflake.ID
	// RequesterID separates concurrent searchers of one shared session
	// (members of a Discord guild). Empty means the session searches as one.
	RequesterID string
	Query       string
	Limit       int // Optional: defaults to DefaultSearchLimit
}

// SearchOutput contains the result of the Search use case.
type SearchOutput struct {
	RequestID string
	Tracks    []domain.Track
}

// searchKey identifies one last-request-wins stream of searches.
type searchKey struct {
	sessionID   snowflake.ID
	requesterID string
}

// searchRequest is the in-flight search of one searcher.
type searchRequest struct {
	id     string
	cancel context.CancelFunc
}

// SearchService resolves queries to tracks. Searches of the same session and
// requester follow a last-request-wins policy: starting a search cancels the
// previous one, and a result that arrives after a newer search started is
// discarded.
type SearchService struct {
	resolver ports.TrackResolver
	source   domain.SearchSource

	mu       sync.Mutex
	inflight map[searchKey]*searchRequest
}

// NewSearchService creates a new SearchService. resolver may be nil, in which
// case every search fails with ErrSearchUnavailable.
func NewSearchService(resolver ports.TrackResolver, source domain.SearchSource) *SearchService {
	return &SearchService{
		resolver: resolver,
		source:   source,
		inflight: make(map[searchKey]*searchRequest),
	}
}

// Search finds tracks matching the query.
func (s *SearchService) Search(ctx context.Context, input SearchInput) (*SearchOutput, error) {
	if s.resolver == nil {
		return nil, ErrSearchUnavailable
	}

	query := domain.NewSearchQuery(input.Query, s.source)
	if !query.IsValid() {
		return nil, ErrEmptyQuery
	}

	key := searchKey{sessionID: input.SessionID, requesterID: input.RequesterID}
	ctx, req := s.begin(ctx, key)
	defer req.cancel()

	result, err := s.resolver.LoadTracks(ctx, query.LavalinkQuery())

	if !s.finish(key, req) {
		slog.Debug("discarded superseded search",
			"session", input.SessionID,
			"requester", input.RequesterID,
			"request", req.id,
		)
		return nil, ErrSuperseded
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	limit := input.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	return &SearchOutput{
		RequestID: req.id,
		Tracks:    tracksFromResult(result, limit),
	}, nil
}

// LoadTrack resolves the query and returns the first matching track.
// It does not take part in the last-request-wins bookkeeping.
func (s *SearchService) LoadTrack(ctx context.Context, input string) (domain.Track, error) {
	if s.resolver == nil {
		return domain.Track{}, ErrSearchUnavailable
	}

	query := domain.NewSearchQuery(input, s.source)
	if !query.IsValid() {
		return domain.Track{}, ErrEmptyQuery
	}

	result, err := s.resolver.LoadTracks(ctx, query.LavalinkQuery())
	if err != nil {
		return domain.Track{}, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	tracks := tracksFromResult(result, 1)
	if len(tracks) == 0 {
		return domain.Track{}, ErrNoResults
	}

	return tracks[0], nil
}

// begin registers a new search under key and cancels the previous one.
func (s *SearchService) begin(
	ctx context.Context,
	key searchKey,
) (context.Context, *searchRequest) {
	ctx, cancel := context.WithCancel(ctx)
	req := &searchRequest{
		id:     uuid.NewString(),
		cancel: cancel,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if previous, ok := s.inflight[key]; ok {
		previous.cancel()
	}
	s.inflight[key] = req

	return ctx, req
}

// finish unregisters the search and reports whether it is still the latest one.
func (s *SearchService) finish(key searchKey, req *searchRequest) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inflight[key] != req {
		return false
	}
	delete(s.inflight, key)
	return true
}

// Forget drops the bookkeeping of a session, cancelling every in-flight
// search made in it.
func (s *SearchService) Forget(sessionID snowflake.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, req := range s.inflight {
		if key.sessionID == sessionID {
			req.cancel()
			delete(s.inflight, key)
		}
	}
}

func tracksFromResult(result *ports.LoadResult, limit int) []domain.Track {
	if result == nil || result.Type == ports.LoadTypeEmpty || result.Type == ports.LoadTypeError {
		return nil
	}

	infos := result.Tracks
	if limit > 0 && limit < len(infos) {
		infos = infos[:limit]
	}

	tracks := make([]domain.Track, 0, len(infos))
	for _, info := range infos {
		if info == nil {
			continue
		}
		tracks = append(tracks, trackFromInfo(info))
	}
	return tracks
}

// IsSuperseded reports whether err means the result of a search must be discarded.
func IsSuperseded(err error) bool {
	return errors.Is(err, ErrSuperseded)
}

package usecases

import (
	"context"
	"slices"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/sgrtune/internal/modules/playback/application/ports"
	"github.com/sglre6355/sgrtune/internal/modules/playback/domain"
)

// ToggleLikeInput contains the input for the ToggleLike use case.
type ToggleLikeInput struct {
	SessionID snowflake.ID
	Track     domain.Track
}

// ToggleLikeOutput contains the result of the ToggleLike use case.
type ToggleLikeOutput struct {
	Liked bool
}

// LikeService handles liked-track operations.
type LikeService struct {
	repo      domain.SessionRepository
	publisher ports.EventPublisher
}

// NewLikeService creates a new LikeService.
func NewLikeService(repo domain.SessionRepository, publisher ports.EventPublisher) *LikeService {
	return &LikeService{
		repo:      repo,
		publisher: publisher,
	}
}

// Toggle flips the liked state of the track.
func (l *LikeService) Toggle(ctx context.Context, input ToggleLikeInput) (*ToggleLikeOutput, error) {
	if input.Track.ID == "" {
		return nil, ErrInvalidTrack
	}

	var output ToggleLikeOutput
	err := l.repo.Update(ctx, input.SessionID, func(s *domain.Session) error {
		output.Liked = s.ToggleLike(input.Track)
		publishAll(l.publisher, domain.TrackLikeToggledEvent{
			SessionID: s.ID(),
			Track:     input.Track,
			Liked:     output.Liked,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &output, nil
}

// IsLiked reports whether the track is liked in the session.
func (l *LikeService) IsLiked(
	ctx context.Context,
	sessionID snowflake.ID,
	trackID domain.TrackID,
) (bool, error) {
	snapshot, err := l.repo.Get(ctx, sessionID)
	if err != nil {
		return false, err
	}

	// LikedTrackIDs is sorted.
	_, liked := slices.BinarySearch(snapshot.LikedTrackIDs, trackID)
	return liked, nil
}

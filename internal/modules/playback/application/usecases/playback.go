package usecases

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/sgrtune/internal/modules/playback/application/ports"
	"github.com/sglre6355/sgrtune/internal/modules/playback/domain"
)

// PlayInput contains the input for the Play use case.
type PlayInput struct {
	SessionID snowflake.ID
	Track     domain.Track
}

// PlaybackOutput contains the result of every transport use case.
type PlaybackOutput struct {
	// Changed is false when the operation was a defined no-op
	// (pausing while paused, receding with no history, ...).
	Changed  bool
	Snapshot domain.SessionSnapshot
}

// PlaybackService handles transport operations: play, pause, resume, next and previous.
type PlaybackService struct {
	repo      domain.SessionRepository
	publisher ports.EventPublisher
}

// NewPlaybackService creates a new PlaybackService.
func NewPlaybackService(
	repo domain.SessionRepository,
	publisher ports.EventPublisher,
) *PlaybackService {
	return &PlaybackService{
		repo:      repo,
		publisher: publisher,
	}
}

// Play loads the track and starts playback, moving the previous track to history.
func (p *PlaybackService) Play(ctx context.Context, input PlayInput) (*PlaybackOutput, error) {
	if !input.Track.IsValid() {
		return nil, ErrInvalidTrack
	}

	return p.mutate(ctx, input.SessionID, func(s *domain.Session) (bool, []domain.Event) {
		previous := s.PlayTrack(input.Track)
		return true, []domain.Event{domain.TrackStartedEvent{
			SessionID: s.ID(),
			Track:     input.Track,
			Previous:  previous,
		}}
	})
}

// Pause pauses playback. Pausing while paused or with nothing loaded is a no-op.
func (p *PlaybackService) Pause(ctx context.Context, sessionID snowflake.ID) (*PlaybackOutput, error) {
	return p.mutate(ctx, sessionID, func(s *domain.Session) (bool, []domain.Event) {
		if !s.Pause() {
			return false, nil
		}
		return true, []domain.Event{domain.PlaybackPausedEvent{SessionID: s.ID()}}
	})
}

// Resume resumes playback if a track is loaded.
func (p *PlaybackService) Resume(ctx context.Context, sessionID snowflake.ID) (*PlaybackOutput, error) {
	return p.mutate(ctx, sessionID, func(s *domain.Session) (bool, []domain.Event) {
		if !s.Resume() {
			return false, nil
		}
		return true, []domain.Event{domain.PlaybackResumedEvent{SessionID: s.ID()}}
	})
}

// Next plays the head of the queue. With an empty queue, playback stops on the
// current track.
func (p *PlaybackService) Next(ctx context.Context, sessionID snowflake.ID) (*PlaybackOutput, error) {
	return p.mutate(ctx, sessionID, func(s *domain.Session) (bool, []domain.Event) {
		previous := s.Current()
		wasPlaying := s.IsPlaying()

		next := s.Advance()
		if next == nil {
			return wasPlaying, []domain.Event{domain.PlaybackStoppedEvent{
				SessionID: s.ID(),
				LastTrack: previous,
			}}
		}

		return true, []domain.Event{domain.TrackStartedEvent{
			SessionID: s.ID(),
			Track:     *next,
			Previous:  previous,
		}}
	})
}

// Previous returns to the most recently played track. No-op with an empty history.
func (p *PlaybackService) Previous(ctx context.Context, sessionID snowflake.ID) (*PlaybackOutput, error) {
	return p.mutate(ctx, sessionID, func(s *domain.Session) (bool, []domain.Event) {
		displaced := s.Current()

		previous := s.Recede()
		if previous == nil {
			return false, nil
		}

		return true, []domain.Event{domain.TrackStartedEvent{
			SessionID: s.ID(),
			Track:     *previous,
			Previous:  displaced,
		}}
	})
}

// mutate applies fn under exclusive access to the session and publishes the
// resulting events while still holding it, so subscribers observe events in
// the same order the mutations happened.
func (p *PlaybackService) mutate(
	ctx context.Context,
	sessionID snowflake.ID,
	fn func(*domain.Session) (bool, []domain.Event),
) (*PlaybackOutput, error) {
	var output PlaybackOutput

	err := p.repo.Update(ctx, sessionID, func(s *domain.Session) error {
		changed, events := fn(s)
		publishAll(p.publisher, events...)

		output.Changed = changed
		output.Snapshot = s.Snapshot()
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &output, nil
}

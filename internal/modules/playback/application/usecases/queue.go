package usecases

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/sgrtune/internal/modules/playback/application/ports"
	"github.com/sglre6355/sgrtune/internal/modules/playback/domain"
)

const DefaultPageSize = 10

// QueueAddInput contains the input for the QueueAdd use case.
type QueueAddInput struct {
	SessionID snowflake.ID
	Track     domain.Track
}

// QueueAddOutput contains the result of the QueueAdd use case.
type QueueAddOutput struct {
	Added    bool // false if the track was already queued
	Position int  // 0-indexed position of the track in the queue
}

// QueueListInput contains the input for the QueueList use case.
type QueueListInput struct {
	SessionID snowflake.ID
	Page      int // 1-indexed page number
	PageSize  int // Items per page (optional, defaults to 10)
}

// QueueListOutput contains the result of the QueueList use case.
type QueueListOutput struct {
	CurrentTrack *domain.Track
	IsPlaying    bool
	Tracks       []domain.Track
	TotalTracks  int
	CurrentPage  int
	TotalPages   int
	PageSize     int
}

// QueueRemoveInput contains the input for the QueueRemove use case.
type QueueRemoveInput struct {
	SessionID snowflake.ID
	TrackID   domain.TrackID
}

// QueueRemoveOutput contains the result of the QueueRemove use case.
type QueueRemoveOutput struct {
	RemovedTrack *domain.Track // nil if the track was not queued
}

// QueueClearOutput contains the result of the QueueClear use case.
type QueueClearOutput struct {
	ClearedCount int
}

// QueueService handles queue operations.
type QueueService struct {
	repo            domain.SessionRepository
	publisher       ports.EventPublisher
	allowGuestQueue bool
}

// NewQueueService creates a new QueueService.
// When allowGuestQueue is false, guest sessions cannot add to their queue.
func NewQueueService(
	repo domain.SessionRepository,
	publisher ports.EventPublisher,
	allowGuestQueue bool,
) *QueueService {
	return &QueueService{
		repo:            repo,
		publisher:       publisher,
		allowGuestQueue: allowGuestQueue,
	}
}

// Add appends a track to the queue. Adding an already queued track is a no-op
// that still publishes a notification event.
func (q *QueueService) Add(ctx context.Context, input QueueAddInput) (*QueueAddOutput, error) {
	if !input.Track.IsValid() {
		return nil, ErrInvalidTrack
	}

	var output QueueAddOutput
	err := q.repo.Update(ctx, input.SessionID, func(s *domain.Session) error {
		if s.IsGuest() && !q.allowGuestQueue {
			return ErrGuestNotPermitted
		}

		if !s.Enqueue(input.Track) {
			output.Position = s.QueuePosition(input.Track.ID)
			publishAll(q.publisher, domain.TrackAlreadyQueuedEvent{
				SessionID: s.ID(),
				Track:     input.Track,
			})
			return nil
		}

		output.Added = true
		output.Position = s.QueueLen() - 1
		publishAll(q.publisher, domain.TrackEnqueuedEvent{
			SessionID: s.ID(),
			Track:     input.Track,
			Position:  output.Position,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &output, nil
}

// List returns the current queue with pagination.
func (q *QueueService) List(ctx context.Context, input QueueListInput) (*QueueListOutput, error) {
	snapshot, err := q.repo.Get(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	// Validate and set defaults
	pageSize := input.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	page := input.Page
	if page <= 0 {
		page = 1
	}

	totalTracks := len(snapshot.Queue)
	totalPages := (totalTracks + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}

	// Clamp page to valid range
	page = min(page, totalPages)

	start := (page - 1) * pageSize
	end := min(start+pageSize, totalTracks)

	var pageTracks []domain.Track
	if start < totalTracks {
		pageTracks = snapshot.Queue[start:end]
	}

	return &QueueListOutput{
		CurrentTrack: snapshot.Current,
		IsPlaying:    snapshot.IsPlaying,
		Tracks:       pageTracks,
		TotalTracks:  totalTracks,
		CurrentPage:  page,
		TotalPages:   totalPages,
		PageSize:     pageSize,
	}, nil
}

// Remove removes a track from the queue by ID. Removing an absent track is a no-op.
func (q *QueueService) Remove(ctx context.Context, input QueueRemoveInput) (*QueueRemoveOutput, error) {
	var output QueueRemoveOutput
	err := q.repo.Update(ctx, input.SessionID, func(s *domain.Session) error {
		output.RemovedTrack = s.Dequeue(input.TrackID)
		if output.RemovedTrack != nil {
			publishAll(q.publisher, domain.TrackDequeuedEvent{
				SessionID: s.ID(),
				Track:     *output.RemovedTrack,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &output, nil
}

// Clear empties the queue. The current track keeps playing.
func (q *QueueService) Clear(ctx context.Context, sessionID snowflake.ID) (*QueueClearOutput, error) {
	var output QueueClearOutput
	err := q.repo.Update(ctx, sessionID, func(s *domain.Session) error {
		output.ClearedCount = s.ClearQueue()
		publishAll(q.publisher, domain.QueueClearedEvent{
			SessionID:    s.ID(),
			ClearedCount: output.ClearedCount,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &output, nil
}

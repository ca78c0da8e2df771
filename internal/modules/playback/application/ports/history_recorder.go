package ports

import (
	"context"
	"time"

	"github.com/sglre6355/sgrtune/internal/modules/playback/domain"
)

// PlayRecord is one persisted play of a track.
type PlayRecord struct {
	ID       string
	UserID   string
	Track    domain.Track
	PlayedAt time.Time
}

// HistoryRecorder defines the interface for persisting listening history
// of authenticated users.
type HistoryRecorder interface {
	// RecordPlay stores that the user started playing the track.
	RecordPlay(ctx context.Context, userID string, track domain.Track, playedAt time.Time) error

	// RecentPlays returns the user's latest plays, most recent first.
	RecentPlays(ctx context.Context, userID string, limit int) ([]PlayRecord, error)
}

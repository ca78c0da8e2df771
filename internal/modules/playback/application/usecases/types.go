package usecases

import (
	"log/slog"

	"github.com/sglre6355/sgrtune/internal/modules/playback/application/ports"
	"github.com/sglre6355/sgrtune/internal/modules/playback/domain"
)

// Re-export domain types for presentation layer use.
// This allows presentation to depend only on usecases without importing domain directly.

// Track is an alias for domain.Track.
type Track = domain.Track

// TrackID is an alias for domain.TrackID.
type TrackID = domain.TrackID

// SessionSnapshot is an alias for domain.SessionSnapshot.
type SessionSnapshot = domain.SessionSnapshot

// SessionRepository is an alias for domain.SessionRepository.
type SessionRepository = domain.SessionRepository

// PlayRecord is an alias for ports.PlayRecord.
type PlayRecord = ports.PlayRecord

// Identity is an alias for ports.Identity.
type Identity = ports.Identity

// publishAll publishes events in order. Publishing failures never fail the
// operation that produced the events; they are logged and dropped.
func publishAll(publisher ports.EventPublisher, events ...domain.Event) {
	if publisher == nil {
		return
	}
	for _, event := range events {
		if err := publisher.Publish(event); err != nil {
			slog.Warn("failed to publish event", "event", event, "error", err)
		}
	}
}

// trackFromInfo converts resolver output to a domain track.
func trackFromInfo(info *ports.TrackInfo) domain.Track {
	return domain.NewTrack(
		domain.TrackID(info.Identifier),
		info.Title,
		info.Artist,
		info.Album,
		info.ArtworkURL,
		info.Duration,
		info.URI,
		info.SourceName,
		info.IsStream,
	)
}

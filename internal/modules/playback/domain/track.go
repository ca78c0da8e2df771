package domain

import (
	"strconv"
	"time"
)

// TrackID is a unique identifier for a track on its source platform.
type TrackID string

// Track represents a playable unit of music metadata.
// Tracks are values: a re-fetched track replaces the old one wholesale.
type Track struct {
	ID         TrackID
	Title      string
	Artist     string
	Album      string        // optional
	ArtworkURL string        // optional
	Duration   time.Duration // zero when unknown
	URI        string        // optional
	SourceName string        // e.g., "youtube", "spotify", "soundcloud"
	IsStream   bool
}

// NewTrack creates a new Track with the given parameters.
func NewTrack(
	id TrackID,
	title string,
	artist string,
	album string,
	artworkURL string,
	duration time.Duration,
	uri string,
	sourceName string,
	isStream bool,
) Track {
	return Track{
		ID:         id,
		Title:      title,
		Artist:     artist,
		Album:      album,
		ArtworkURL: artworkURL,
		Duration:   duration,
		URI:        uri,
		SourceName: sourceName,
		IsStream:   isStream,
	}
}

// Source returns the parsed TrackSource for this track.
func (t Track) Source() TrackSource {
	return ParseTrackSource(t.SourceName)
}

// IsValid returns true if the track has the minimum required fields.
func (t Track) IsValid() bool {
	return t.ID != "" && t.Title != ""
}

// FormattedDuration returns the duration as a human-readable string (mm:ss or hh:mm:ss).
func (t Track) FormattedDuration() string {
	if t.IsStream {
		return "LIVE"
	}
	if t.Duration <= 0 {
		return "--:--"
	}

	totalSeconds := int(t.Duration.Seconds())
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	if hours > 0 {
		return pad(hours) + ":" + pad(minutes) + ":" + pad(seconds)
	}
	return pad(minutes) + ":" + pad(seconds)
}

func pad(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

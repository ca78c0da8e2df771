package ports

import (
	"time"
)

// LoadResult represents the result of loading tracks.
type LoadResult struct {
	Type       LoadType
	Tracks     []*TrackInfo
	PlaylistID string
}

// LoadType represents the type of load result.
type LoadType string

const (
	LoadTypeTrack    LoadType = "track"
	LoadTypePlaylist LoadType = "playlist"
	LoadTypeSearch   LoadType = "search"
	LoadTypeEmpty    LoadType = "empty"
	LoadTypeError    LoadType = "error"
)

// TrackInfo contains information about a loaded track.
type TrackInfo struct {
	Identifier string // Unique identifier on the source platform
	Title      string
	Artist     string
	Album      string
	Duration   time.Duration
	URI        string
	ArtworkURL string
	SourceName string // e.g., "youtube", "spotify", "soundcloud"
	IsStream   bool
}

// NotificationLevel is the visual weight of a notification.
type NotificationLevel string

const (
	NotificationInfo    NotificationLevel = "info"
	NotificationSuccess NotificationLevel = "success"
	NotificationWarning NotificationLevel = "warning"
)

// Notification is a short user-facing message, rendered as a toast or embed.
type Notification struct {
	Level      NotificationLevel
	Title      string
	Message    string
	ArtworkURL string // optional
}

package web

import (
	"time"

	"github.com/sglre6355/sgrtune/internal/modules/playback/application/usecases"
)

// TrackDTO is the JSON form of a track.
type TrackDTO struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	Album      string `json:"album,omitempty"`
	ArtworkURL string `json:"artwork_url,omitempty"`
	DurationMS int64  `json:"duration_ms,omitempty"`
	URI        string `json:"uri,omitempty"`
	Source     string `json:"source,omitempty"`
	IsStream   bool   `json:"is_stream,omitempty"`
}

// SessionDTO is the JSON form of a session snapshot. It is returned by the
// transport endpoints and pushed to WebSocket subscribers as "state" events.
type SessionDTO struct {
	ID            string     `json:"id"`
	OwnerID       string     `json:"owner_id,omitempty"`
	Guest         bool       `json:"guest"`
	CurrentTrack  *TrackDTO  `json:"current_track"`
	IsPlaying     bool       `json:"is_playing"`
	Queue         []TrackDTO `json:"queue"`
	History       []TrackDTO `json:"history"`
	LikedTrackIDs []string   `json:"liked_track_ids"`
}

type trackRequest struct {
	TrackDTO
	// Query is resolved to a track when no track ID is given.
	Query string `json:"query,omitempty"`
}

type queueResponse struct {
	CurrentTrack *TrackDTO  `json:"current_track"`
	IsPlaying    bool       `json:"is_playing"`
	Tracks       []TrackDTO `json:"tracks"`
	TotalTracks  int        `json:"total_tracks"`
	Page         int        `json:"page"`
	TotalPages   int        `json:"total_pages"`
	PageSize     int        `json:"page_size"`
}

type queueAddResponse struct {
	Added    bool     `json:"added"`
	Position int      `json:"position"`
	Track    TrackDTO `json:"track"`
}

type searchResponse struct {
	RequestID string     `json:"request_id"`
	Tracks    []TrackDTO `json:"tracks"`
}

type playRecordDTO struct {
	ID       string    `json:"id"`
	Track    TrackDTO  `json:"track"`
	PlayedAt time.Time `json:"played_at"`
}

func newTrackDTO(t usecases.Track) TrackDTO {
	return TrackDTO{
		ID:         string(t.ID),
		Title:      t.Title,
		Artist:     t.Artist,
		Album:      t.Album,
		ArtworkURL: t.ArtworkURL,
		DurationMS: t.Duration.Milliseconds(),
		URI:        t.URI,
		Source:     string(t.Source()),
		IsStream:   t.IsStream,
	}
}

func newTrackDTOs(tracks []usecases.Track) []TrackDTO {
	dtos := make([]TrackDTO, len(tracks))
	for i, t := range tracks {
		dtos[i] = newTrackDTO(t)
	}
	return dtos
}

func (d TrackDTO) toTrack() usecases.Track {
	return usecases.Track{
		ID:         usecases.TrackID(d.ID),
		Title:      d.Title,
		Artist:     d.Artist,
		Album:      d.Album,
		ArtworkURL: d.ArtworkURL,
		Duration:   time.Duration(d.DurationMS) * time.Millisecond,
		URI:        d.URI,
		SourceName: d.Source,
		IsStream:   d.IsStream,
	}
}

// RenderSnapshot converts a session snapshot to its JSON form.
func RenderSnapshot(snapshot usecases.SessionSnapshot) any {
	return newSessionDTO(snapshot)
}

func newSessionDTO(snapshot usecases.SessionSnapshot) SessionDTO {
	dto := SessionDTO{
		ID:            snapshot.SessionID.String(),
		OwnerID:       snapshot.OwnerID,
		Guest:         snapshot.OwnerID == "",
		IsPlaying:     snapshot.IsPlaying,
		Queue:         newTrackDTOs(snapshot.Queue),
		History:       newTrackDTOs(snapshot.History),
		LikedTrackIDs: make([]string, len(snapshot.LikedTrackIDs)),
	}
	if snapshot.Current != nil {
		current := newTrackDTO(*snapshot.Current)
		dto.CurrentTrack = &current
	}
	for i, id := range snapshot.LikedTrackIDs {
		dto.LikedTrackIDs[i] = string(id)
	}
	return dto
}

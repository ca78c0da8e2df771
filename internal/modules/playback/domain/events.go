package domain

import (
	"github.com/disgoorg/snowflake/v2"
)

// Event is implemented by every event published by the playback module.
type Event interface {
	// EventSessionID returns the session the event belongs to.
	EventSessionID() snowflake.ID
}

// TrackStartedEvent is published when a track is loaded and starts playing,
// whether directly, by advancing the queue, or by going back in history.
type TrackStartedEvent struct {
	SessionID snowflake.ID
	Track     Track
	Previous  *Track // track displaced by this one, nil if none
}

// PlaybackPausedEvent is published when the transport is paused.
type PlaybackPausedEvent struct {
	SessionID snowflake.ID
}

// PlaybackResumedEvent is published when the transport is resumed.
type PlaybackResumedEvent struct {
	SessionID snowflake.ID
}

// PlaybackStoppedEvent is published when advancing finds an empty queue.
type PlaybackStoppedEvent struct {
	SessionID snowflake.ID
	LastTrack *Track // still loaded, nil if nothing was ever played
}

// TrackEnqueuedEvent is published when a track is appended to the queue.
type TrackEnqueuedEvent struct {
	SessionID snowflake.ID
	Track     Track
	Position  int // 0-indexed position in the queue
}

// TrackAlreadyQueuedEvent is published when enqueueing a track that is already queued.
type TrackAlreadyQueuedEvent struct {
	SessionID snowflake.ID
	Track     Track
}

// TrackDequeuedEvent is published when a track is removed from the queue.
type TrackDequeuedEvent struct {
	SessionID snowflake.ID
	Track     Track
}

// QueueClearedEvent is published whenever the queue is cleared, even if it was empty.
type QueueClearedEvent struct {
	SessionID    snowflake.ID
	ClearedCount int
}

// TrackLikeToggledEvent is published when a track is liked or unliked.
type TrackLikeToggledEvent struct {
	SessionID snowflake.ID
	Track     Track
	Liked     bool
}

// SessionClosedEvent is published when a session is discarded.
type SessionClosedEvent struct {
	SessionID snowflake.ID
}

func (e TrackStartedEvent) EventSessionID() snowflake.ID       { return e.SessionID }
func (e PlaybackPausedEvent) EventSessionID() snowflake.ID     { return e.SessionID }
func (e PlaybackResumedEvent) EventSessionID() snowflake.ID    { return e.SessionID }
func (e PlaybackStoppedEvent) EventSessionID() snowflake.ID    { return e.SessionID }
func (e TrackEnqueuedEvent) EventSessionID() snowflake.ID      { return e.SessionID }
func (e TrackAlreadyQueuedEvent) EventSessionID() snowflake.ID { return e.SessionID }
func (e TrackDequeuedEvent) EventSessionID() snowflake.ID      { return e.SessionID }
func (e QueueClearedEvent) EventSessionID() snowflake.ID       { return e.SessionID }
func (e TrackLikeToggledEvent) EventSessionID() snowflake.ID   { return e.SessionID }
func (e SessionClosedEvent) EventSessionID() snowflake.ID      { return e.SessionID }

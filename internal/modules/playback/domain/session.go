package domain

import (
	"slices"

	"github.com/disgoorg/snowflake/v2"
)

// Session is the playback state of a single listener surface: what is playing,
// what is queued, what was played before, and which tracks are liked.
// Session is not safe for concurrent use; callers serialise access through
// SessionRepository.Update.
type Session struct {
	id        snowflake.ID
	ownerID   string // authenticated user, empty for guests
	current   *Track
	isPlaying bool
	queue     Queue
	history   History
	likes     LikedSet
}

// NewSession creates an idle Session with empty collections.
func NewSession(id snowflake.ID, ownerID string, historyLimit int) *Session {
	return &Session{
		id:      id,
		ownerID: ownerID,
		queue:   NewQueue(),
		history: NewHistory(historyLimit),
		likes:   NewLikedSet(),
	}
}

// ID returns the session ID.
func (s *Session) ID() snowflake.ID {
	// No mutex: id must not be modified after initialization
	return s.id
}

// OwnerID returns the authenticated owner, or "" for a guest session.
func (s *Session) OwnerID() string {
	return s.ownerID
}

// IsGuest returns true if no authenticated user owns the session.
func (s *Session) IsGuest() bool {
	return s.ownerID == ""
}

// Current returns a copy of the loaded track, or nil if nothing is loaded.
func (s *Session) Current() *Track {
	if s.current == nil {
		return nil
	}
	current := *s.current
	return &current
}

// IsPlaying returns the transport state.
func (s *Session) IsPlaying() bool {
	return s.isPlaying
}

// PlayTrack loads the track and starts playback.
// The previously loaded track, if any, is pushed onto the history.
// Returns the displaced track.
func (s *Session) PlayTrack(track Track) *Track {
	previous := s.Current()
	if previous != nil {
		s.history.Push(*previous)
	}
	s.current = &track
	s.isPlaying = true
	return previous
}

// Pause stops the transport. Returns false if nothing changed.
func (s *Session) Pause() bool {
	if s.current == nil || !s.isPlaying {
		return false
	}
	s.isPlaying = false
	return true
}

// Resume restarts the transport if a track is loaded. Returns false if nothing changed.
func (s *Session) Resume() bool {
	if s.current == nil || s.isPlaying {
		return false
	}
	s.isPlaying = true
	return true
}

// Enqueue appends the track to the queue.
// Returns false if a track with the same ID is already queued.
func (s *Session) Enqueue(track Track) bool {
	return s.queue.Append(track)
}

// Dequeue removes the queued track with the given ID and returns it, or nil if absent.
func (s *Session) Dequeue(id TrackID) *Track {
	return s.queue.Remove(id)
}

// ClearQueue empties the queue and returns how many tracks were removed.
func (s *Session) ClearQueue() int {
	return s.queue.Clear()
}

// Advance plays the head of the queue.
// With an empty queue the transport stops and the current track stays loaded;
// nil is returned in that case.
func (s *Session) Advance() *Track {
	next := s.queue.Pop()
	if next == nil {
		s.isPlaying = false
		return nil
	}
	s.PlayTrack(*next)
	return next
}

// Recede returns to the most recently played track.
// The current track goes back to the head of the queue so it can be reached again.
// Returns nil without changing anything if the history is empty.
func (s *Session) Recede() *Track {
	previous := s.history.Pop()
	if previous == nil {
		return nil
	}
	if s.current != nil {
		s.queue.Prepend(*s.current)
	}
	s.current = previous
	s.isPlaying = true
	return s.Current()
}

// QueueLen returns the number of queued tracks.
func (s *Session) QueueLen() int {
	return s.queue.Len()
}

// QueuePosition returns the zero-based position of the queued track, or -1 if
// it is not queued.
func (s *Session) QueuePosition(id TrackID) int {
	return s.queue.IndexOf(id)
}

// ToggleLike flips the liked state of the track and returns the new state.
func (s *Session) ToggleLike(track Track) bool {
	return s.likes.Toggle(track.ID)
}

// IsLiked reports whether the track ID is liked.
func (s *Session) IsLiked(id TrackID) bool {
	return s.likes.Contains(id)
}

// Snapshot returns a copy of the session state suitable for rendering.
func (s *Session) Snapshot() SessionSnapshot {
	liked := s.likes.IDs()
	slices.Sort(liked)

	return SessionSnapshot{
		SessionID:     s.id,
		OwnerID:       s.ownerID,
		Current:       s.Current(),
		IsPlaying:     s.isPlaying,
		Queue:         s.queue.List(),
		History:       s.history.List(),
		LikedTrackIDs: liked,
	}
}

// SessionSnapshot is an immutable copy of a Session.
type SessionSnapshot struct {
	SessionID     snowflake.ID
	OwnerID       string
	Current       *Track
	IsPlaying     bool
	Queue         []Track
	History       []Track
	LikedTrackIDs []TrackID
}

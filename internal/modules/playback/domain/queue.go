package domain

// Queue is a FIFO of pending tracks.
// A track ID appears at most once; insertion order is preserved.
type Queue struct {
	tracks []Track
}

// NewQueue creates a new empty Queue.
func NewQueue() Queue {
	return Queue{
		tracks: make([]Track, 0),
	}
}

// IsEmpty returns true if the queue has no tracks.
func (q *Queue) IsEmpty() bool {
	return q.Len() == 0
}

// Len returns the number of queued tracks.
func (q *Queue) Len() int {
	return len(q.tracks)
}

// Contains reports whether a track with the given ID is queued.
func (q *Queue) Contains(id TrackID) bool {
	return q.IndexOf(id) >= 0
}

// IndexOf returns the position of the track with the given ID, or -1.
func (q *Queue) IndexOf(id TrackID) int {
	for i, track := range q.tracks {
		if track.ID == id {
			return i
		}
	}
	return -1
}

// Peek returns the head of the queue without removing it, or nil if empty.
func (q *Queue) Peek() *Track {
	if q.IsEmpty() {
		return nil
	}
	head := q.tracks[0]
	return &head
}

// List returns a copy of all queued tracks in order.
func (q *Queue) List() []Track {
	result := make([]Track, q.Len())
	copy(result, q.tracks)
	return result
}

// Append adds the track to the tail of the queue.
// Returns false without modifying the queue if the track ID is already queued.
func (q *Queue) Append(track Track) bool {
	if q.Contains(track.ID) {
		return false
	}
	q.tracks = append(q.tracks, track)
	return true
}

// Prepend adds the track to the head of the queue.
// An existing entry with the same ID is moved to the head.
func (q *Queue) Prepend(track Track) {
	if i := q.IndexOf(track.ID); i >= 0 {
		q.tracks = append(q.tracks[:i], q.tracks[i+1:]...)
	}
	q.tracks = append([]Track{track}, q.tracks...)
}

// Pop removes and returns the head of the queue, or nil if empty.
func (q *Queue) Pop() *Track {
	if q.IsEmpty() {
		return nil
	}
	head := q.tracks[0]
	q.tracks = q.tracks[1:]
	return &head
}

// Remove removes the track with the given ID and returns it.
// Returns nil if no such track is queued.
func (q *Queue) Remove(id TrackID) *Track {
	i := q.IndexOf(id)
	if i < 0 {
		return nil
	}
	track := q.tracks[i]
	q.tracks = append(q.tracks[:i], q.tracks[i+1:]...)
	return &track
}

// Clear removes all tracks and returns how many were removed.
func (q *Queue) Clear() int {
	count := q.Len()
	q.tracks = make([]Track, 0)
	return count
}

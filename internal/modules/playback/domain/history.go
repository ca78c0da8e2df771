package domain

// DefaultHistoryLimit is the number of previously played tracks kept per session.
const DefaultHistoryLimit = 20

// History is a bounded, most-recent-first list of previously played tracks.
type History struct {
	tracks []Track
	limit  int
}

// NewHistory creates an empty History holding at most limit tracks.
// A non-positive limit falls back to DefaultHistoryLimit.
func NewHistory(limit int) History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return History{
		tracks: make([]Track, 0, limit),
		limit:  limit,
	}
}

// Len returns the number of tracks in the history.
func (h *History) Len() int {
	return len(h.tracks)
}

// Limit returns the maximum number of tracks kept.
func (h *History) Limit() int {
	return h.limit
}

// IsEmpty returns true if nothing has been played before the current track.
func (h *History) IsEmpty() bool {
	return h.Len() == 0
}

// Push adds the track to the front, dropping the oldest entries past the limit.
func (h *History) Push(track Track) {
	h.tracks = append([]Track{track}, h.tracks...)
	if len(h.tracks) > h.limit {
		h.tracks = h.tracks[:h.limit]
	}
}

// Pop removes and returns the most recent track, or nil if empty.
func (h *History) Pop() *Track {
	if h.IsEmpty() {
		return nil
	}
	latest := h.tracks[0]
	h.tracks = h.tracks[1:]
	return &latest
}

// List returns a copy of the history, most recent first.
func (h *History) List() []Track {
	result := make([]Track, h.Len())
	copy(result, h.tracks)
	return result
}

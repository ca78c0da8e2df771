package domain

// LikedSet holds the IDs of tracks the listener has marked as liked.
type LikedSet struct {
	ids map[TrackID]struct{}
}

// NewLikedSet creates an empty LikedSet.
func NewLikedSet() LikedSet {
	return LikedSet{ids: make(map[TrackID]struct{})}
}

// Contains reports whether the track ID is liked.
func (s *LikedSet) Contains(id TrackID) bool {
	_, ok := s.ids[id]
	return ok
}

// Toggle flips membership of the ID and returns the new membership.
func (s *LikedSet) Toggle(id TrackID) bool {
	if s.Contains(id) {
		delete(s.ids, id)
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

// Len returns the number of liked tracks.
func (s *LikedSet) Len() int {
	return len(s.ids)
}

// IDs returns the liked track IDs in no particular order.
func (s *LikedSet) IDs() []TrackID {
	result := make([]TrackID, 0, len(s.ids))
	for id := range s.ids {
		result = append(result, id)
	}
	return result
}

package ports

import "context"

// TrackResolver turns a search query or URL into track metadata.
// Implementations must honour ctx cancellation: superseded searches are
// cancelled through it.
type TrackResolver interface {
	LoadTracks(ctx context.Context, query string) (*LoadResult, error)
}

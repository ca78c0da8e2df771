package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgolink/v3/disgolink"
	"github.com/disgoorg/disgolink/v3/lavalink"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/sgrtune/internal/modules/playback/application/ports"
)

// ErrNoLavalinkNode is returned when no Lavalink node is available.
var ErrNoLavalinkNode = errors.New("no available Lavalink node")

// LavalinkConfig contains Lavalink connection configuration.
type LavalinkConfig struct {
	Address  string
	Password string
	Secure   bool
	UserID   snowflake.ID // Discord user the node sessions belong to
}

// LavalinkResolver resolves search queries and URLs to track metadata through
// a Lavalink node's REST API.
type LavalinkResolver struct {
	link disgolink.Client
}

// NewLavalinkResolver creates a new LavalinkResolver and connects to the node.
func NewLavalinkResolver(ctx context.Context, config LavalinkConfig) (*LavalinkResolver, error) {
	link := disgolink.New(config.UserID)

	node, err := link.AddNode(ctx, disgolink.NodeConfig{
		Name:     "main",
		Address:  config.Address,
		Password: config.Password,
		Secure:   config.Secure,
	})
	if err != nil {
		link.Close()
		return nil, fmt.Errorf("failed to add Lavalink node: %w", err)
	}

	slog.Info("connected to Lavalink", "node", node.Config().Name, "address", config.Address)

	return &LavalinkResolver{link: link}, nil
}

// LoadTracks loads tracks from Lavalink.
func (r *LavalinkResolver) LoadTracks(ctx context.Context, query string) (*ports.LoadResult, error) {
	node := r.link.BestNode()
	if node == nil {
		return nil, ErrNoLavalinkNode
	}

	result, err := node.LoadTracks(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load tracks: %w", err)
	}

	return convertLoadResult(result), nil
}

// Close disconnects from every Lavalink node.
func (r *LavalinkResolver) Close() {
	r.link.Close()
}

// convertLoadResult converts Lavalink result to ports result.
func convertLoadResult(result *lavalink.LoadResult) *ports.LoadResult {
	switch data := result.Data.(type) {
	case lavalink.Track:
		return &ports.LoadResult{
			Type:   ports.LoadTypeTrack,
			Tracks: []*ports.TrackInfo{convertTrack(data)},
		}

	case lavalink.Playlist:
		tracks := make([]*ports.TrackInfo, len(data.Tracks))
		for i, track := range data.Tracks {
			tracks[i] = convertTrack(track)
		}
		return &ports.LoadResult{
			Type:       ports.LoadTypePlaylist,
			Tracks:     tracks,
			PlaylistID: data.Info.Name,
		}

	case lavalink.Search:
		tracks := make([]*ports.TrackInfo, len(data))
		for i, track := range data {
			tracks[i] = convertTrack(track)
		}
		return &ports.LoadResult{
			Type:   ports.LoadTypeSearch,
			Tracks: tracks,
		}

	case lavalink.Exception:
		slog.Warn("lavalink failed to load tracks", "error", data.Message)
		return &ports.LoadResult{
			Type: ports.LoadTypeError,
		}

	default:
		return &ports.LoadResult{
			Type: ports.LoadTypeEmpty,
		}
	}
}

// convertTrack converts a Lavalink track to TrackInfo.
func convertTrack(track lavalink.Track) *ports.TrackInfo {
	info := track.Info

	return &ports.TrackInfo{
		Identifier: info.Identifier,
		Title:      info.Title,
		Artist:     info.Author,
		Duration:   time.Duration(info.Length) * time.Millisecond,
		URI:        derefString(info.URI),
		ArtworkURL: derefString(info.ArtworkURL),
		SourceName: info.SourceName,
		IsStream:   info.IsStream,
	}
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var _ ports.TrackResolver = (*LavalinkResolver)(nil)

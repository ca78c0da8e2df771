package infrastructure

import (
	"context"
	"testing"
	"time"

	"github.com/disgoorg/disgolink/v3/lavalink"
	"github.com/sglre6355/sgrtune/internal/modules/playback/application/ports"
)

// mockResolver is a test double for ports.TrackResolver.
type mockResolver struct {
	calls int
}

func (m *mockResolver) LoadTracks(_ context.Context, _ string) (*ports.LoadResult, error) {
	m.calls++
	return &ports.LoadResult{Type: ports.LoadTypeEmpty}, nil
}

func TestRateLimitedResolver_Delegates(t *testing.T) {
	next := &mockResolver{}
	resolver := NewRateLimitedResolver(next, 1000, 10)

	for range 3 {
		if _, err := resolver.LoadTracks(context.Background(), "q"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if next.calls != 3 {
		t.Errorf("expected 3 delegated calls, got %d", next.calls)
	}
}

func TestRateLimitedResolver_CancelledWhileWaiting(t *testing.T) {
	next := &mockResolver{}
	resolver := NewRateLimitedResolver(next, 0.001, 1)

	// Consume the only token
	if _, err := resolver.LoadTracks(context.Background(), "q"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := resolver.LoadTracks(ctx, "q"); err == nil {
		t.Fatal("expected error when the wait cannot complete")
	}
	if next.calls != 1 {
		t.Errorf("expected resolver not to be called again, got %d calls", next.calls)
	}
}

func TestConvertLoadResult(t *testing.T) {
	uri := "https://youtu.be/abc"
	artwork := "https://i.ytimg.com/vi/abc/hq.jpg"
	track := lavalink.Track{
		Info: lavalink.TrackInfo{
			Identifier: "abc",
			Title:      "Song",
			Author:     "Band",
			Length:     lavalink.Duration(185000),
			URI:        &uri,
			ArtworkURL: &artwork,
			SourceName: "youtube",
		},
	}

	t.Run("track", func(t *testing.T) {
		result := convertLoadResult(&lavalink.LoadResult{LoadType: lavalink.LoadTypeTrack, Data: track})
		if result.Type != ports.LoadTypeTrack || len(result.Tracks) != 1 {
			t.Fatalf("unexpected result: %+v", result)
		}
		got := result.Tracks[0]
		if got.Identifier != "abc" || got.Artist != "Band" || got.URI != uri || got.ArtworkURL != artwork {
			t.Errorf("unexpected track info: %+v", got)
		}
		if got.Duration != 185*time.Second {
			t.Errorf("expected 3m5s, got %v", got.Duration)
		}
	})

	t.Run("search", func(t *testing.T) {
		result := convertLoadResult(&lavalink.LoadResult{
			LoadType: lavalink.LoadTypeSearch,
			Data:     lavalink.Search{track, track},
		})
		if result.Type != ports.LoadTypeSearch || len(result.Tracks) != 2 {
			t.Errorf("unexpected result: %+v", result)
		}
	})

	t.Run("empty", func(t *testing.T) {
		result := convertLoadResult(&lavalink.LoadResult{LoadType: lavalink.LoadTypeEmpty, Data: lavalink.Empty{}})
		if result.Type != ports.LoadTypeEmpty {
			t.Errorf("expected empty, got %s", result.Type)
		}
	})

	t.Run("exception", func(t *testing.T) {
		result := convertLoadResult(&lavalink.LoadResult{
			LoadType: lavalink.LoadTypeError,
			Data:     lavalink.Exception{Message: "blocked"},
		})
		if result.Type != ports.LoadTypeError {
			t.Errorf("expected error, got %s", result.Type)
		}
	})
}

func TestDerefString(t *testing.T) {
	s := "x"
	if derefString(&s) != "x" {
		t.Error("expected pointed-to value")
	}
	if derefString(nil) != "" {
		t.Error("expected empty string for nil")
	}
}


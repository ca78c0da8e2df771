package usecases

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/sgrtune/internal/modules/playback/domain"
)

func TestPlaybackService_Play(t *testing.T) {
	ctx := context.Background()
	sessionID := snowflake.ID(1)

	t.Run("plays and moves previous to history", func(t *testing.T) {
		repo := newMockRepository()
		publisher := &mockEventPublisher{}
		repo.createSession(sessionID, "")
		svc := NewPlaybackService(repo, publisher)

		if _, err := svc.Play(ctx, PlayInput{SessionID: sessionID, Track: mockTrack("a")}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output, err := svc.Play(ctx, PlayInput{SessionID: sessionID, Track: mockTrack("b")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !output.Changed {
			t.Error("expected Changed")
		}
		if output.Snapshot.Current == nil || output.Snapshot.Current.ID != "b" {
			t.Errorf("expected current b, got %+v", output.Snapshot.Current)
		}
		if !output.Snapshot.IsPlaying {
			t.Error("expected playing")
		}
		if got := trackIDs(output.Snapshot.History); !slices.Equal(got, []domain.TrackID{"a"}) {
			t.Errorf("expected history [a], got %v", got)
		}

		event, ok := publisher.lastEvent().(domain.TrackStartedEvent)
		if !ok {
			t.Fatalf("expected TrackStartedEvent, got %#v", publisher.lastEvent())
		}
		if event.Track.ID != "b" || event.Previous == nil || event.Previous.ID != "a" {
			t.Errorf("unexpected event: %+v", event)
		}
	})

	t.Run("invalid track", func(t *testing.T) {
		repo := newMockRepository()
		repo.createSession(sessionID, "")
		svc := NewPlaybackService(repo, &mockEventPublisher{})

		_, err := svc.Play(ctx, PlayInput{SessionID: sessionID, Track: domain.Track{ID: "x"}})
		if !errors.Is(err, ErrInvalidTrack) {
			t.Errorf("expected ErrInvalidTrack, got %v", err)
		}
	})

	t.Run("unknown session", func(t *testing.T) {
		svc := NewPlaybackService(newMockRepository(), &mockEventPublisher{})

		_, err := svc.Play(ctx, PlayInput{SessionID: sessionID, Track: mockTrack("a")})
		if !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("publish failure does not fail the operation", func(t *testing.T) {
		repo := newMockRepository()
		repo.createSession(sessionID, "")
		svc := NewPlaybackService(repo, &mockEventPublisher{publishErr: errors.New("bus closed")})

		output, err := svc.Play(ctx, PlayInput{SessionID: sessionID, Track: mockTrack("a")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.Snapshot.Current == nil {
			t.Error("expected state to change despite publish failure")
		}
	})
}

func TestPlaybackService_PauseResume(t *testing.T) {
	ctx := context.Background()
	sessionID := snowflake.ID(1)

	tests := []struct {
		name        string
		setup       func(*domain.Session)
		op          func(*PlaybackService) (*PlaybackOutput, error)
		wantChanged bool
		wantPlaying bool
		wantEvent   domain.Event
	}{
		{
			name:        "pause while playing",
			setup:       func(s *domain.Session) { s.PlayTrack(mockTrack("a")) },
			op:          func(p *PlaybackService) (*PlaybackOutput, error) { return p.Pause(ctx, sessionID) },
			wantChanged: true,
			wantPlaying: false,
			wantEvent:   domain.PlaybackPausedEvent{SessionID: sessionID},
		},
		{
			name: "pause while paused",
			setup: func(s *domain.Session) {
				s.PlayTrack(mockTrack("a"))
				s.Pause()
			},
			op:          func(p *PlaybackService) (*PlaybackOutput, error) { return p.Pause(ctx, sessionID) },
			wantChanged: false,
			wantPlaying: false,
		},
		{
			name:        "pause with nothing loaded",
			setup:       func(*domain.Session) {},
			op:          func(p *PlaybackService) (*PlaybackOutput, error) { return p.Pause(ctx, sessionID) },
			wantChanged: false,
			wantPlaying: false,
		},
		{
			name: "resume while paused",
			setup: func(s *domain.Session) {
				s.PlayTrack(mockTrack("a"))
				s.Pause()
			},
			op:          func(p *PlaybackService) (*PlaybackOutput, error) { return p.Resume(ctx, sessionID) },
			wantChanged: true,
			wantPlaying: true,
			wantEvent:   domain.PlaybackResumedEvent{SessionID: sessionID},
		},
		{
			name:        "resume with nothing loaded",
			setup:       func(*domain.Session) {},
			op:          func(p *PlaybackService) (*PlaybackOutput, error) { return p.Resume(ctx, sessionID) },
			wantChanged: false,
			wantPlaying: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockRepository()
			publisher := &mockEventPublisher{}
			tt.setup(repo.createSession(sessionID, ""))
			svc := NewPlaybackService(repo, publisher)

			output, err := tt.op(svc)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if output.Changed != tt.wantChanged {
				t.Errorf("expected Changed=%v, got %v", tt.wantChanged, output.Changed)
			}
			if output.Snapshot.IsPlaying != tt.wantPlaying {
				t.Errorf("expected IsPlaying=%v, got %v", tt.wantPlaying, output.Snapshot.IsPlaying)
			}
			if got := publisher.lastEvent(); got != tt.wantEvent {
				t.Errorf("expected event %#v, got %#v", tt.wantEvent, got)
			}
		})
	}
}

func TestPlaybackService_Next(t *testing.T) {
	ctx := context.Background()
	sessionID := snowflake.ID(1)

	t.Run("plays head of queue", func(t *testing.T) {
		repo := newMockRepository()
		publisher := &mockEventPublisher{}
		session := repo.createSession(sessionID, "")
		session.PlayTrack(mockTrack("a"))
		session.Enqueue(mockTrack("b"))
		session.Enqueue(mockTrack("c"))
		svc := NewPlaybackService(repo, publisher)

		output, err := svc.Next(ctx, sessionID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.Snapshot.Current.ID != "b" {
			t.Errorf("expected current b, got %s", output.Snapshot.Current.ID)
		}
		if got := trackIDs(output.Snapshot.Queue); !slices.Equal(got, []domain.TrackID{"c"}) {
			t.Errorf("expected queue [c], got %v", got)
		}
		if got := trackIDs(output.Snapshot.History); !slices.Equal(got, []domain.TrackID{"a"}) {
			t.Errorf("expected history [a], got %v", got)
		}
		if _, ok := publisher.lastEvent().(domain.TrackStartedEvent); !ok {
			t.Errorf("expected TrackStartedEvent, got %#v", publisher.lastEvent())
		}
	})

	t.Run("empty queue stops on current track", func(t *testing.T) {
		repo := newMockRepository()
		publisher := &mockEventPublisher{}
		session := repo.createSession(sessionID, "")
		session.PlayTrack(mockTrack("a"))
		svc := NewPlaybackService(repo, publisher)

		output, err := svc.Next(ctx, sessionID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.Snapshot.Current == nil || output.Snapshot.Current.ID != "a" {
			t.Errorf("expected current to stay a, got %+v", output.Snapshot.Current)
		}
		if output.Snapshot.IsPlaying {
			t.Error("expected playback stopped")
		}
		if !output.Changed {
			t.Error("expected Changed when stopping a playing session")
		}

		event, ok := publisher.lastEvent().(domain.PlaybackStoppedEvent)
		if !ok {
			t.Fatalf("expected PlaybackStoppedEvent, got %#v", publisher.lastEvent())
		}
		if event.LastTrack == nil || event.LastTrack.ID != "a" {
			t.Errorf("expected last track a, got %+v", event.LastTrack)
		}
	})
}

func TestPlaybackService_Previous(t *testing.T) {
	ctx := context.Background()
	sessionID := snowflake.ID(1)

	t.Run("returns to history head", func(t *testing.T) {
		repo := newMockRepository()
		publisher := &mockEventPublisher{}
		session := repo.createSession(sessionID, "")
		session.PlayTrack(mockTrack("a"))
		session.PlayTrack(mockTrack("b"))
		session.Pause()
		svc := NewPlaybackService(repo, publisher)

		output, err := svc.Previous(ctx, sessionID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.Snapshot.Current.ID != "a" {
			t.Errorf("expected current a, got %s", output.Snapshot.Current.ID)
		}
		if got := trackIDs(output.Snapshot.Queue); !slices.Equal(got, []domain.TrackID{"b"}) {
			t.Errorf("expected queue [b], got %v", got)
		}
		if len(output.Snapshot.History) != 0 {
			t.Errorf("expected empty history, got %v", trackIDs(output.Snapshot.History))
		}
		if !output.Snapshot.IsPlaying {
			t.Error("expected playing")
		}

		event, ok := publisher.lastEvent().(domain.TrackStartedEvent)
		if !ok {
			t.Fatalf("expected TrackStartedEvent, got %#v", publisher.lastEvent())
		}
		if event.Previous == nil || event.Previous.ID != "b" {
			t.Errorf("expected displaced track b, got %+v", event.Previous)
		}
	})

	t.Run("empty history is a no-op", func(t *testing.T) {
		repo := newMockRepository()
		publisher := &mockEventPublisher{}
		session := repo.createSession(sessionID, "")
		session.PlayTrack(mockTrack("a"))
		session.Pause()
		svc := NewPlaybackService(repo, publisher)

		before := len(publisher.published())
		output, err := svc.Previous(ctx, sessionID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.Changed {
			t.Error("expected no change")
		}
		if output.Snapshot.Current.ID != "a" || output.Snapshot.IsPlaying {
			t.Errorf("expected state untouched, got %+v", output.Snapshot)
		}
		if len(publisher.published()) != before {
			t.Error("expected no events")
		}
	})
}

package infrastructure

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/sgrtune/internal/modules/playback/domain"
)

func testTrack(id string) domain.Track {
	return domain.NewTrack(domain.TrackID(id), "Title "+id, "Artist "+id, "", "", 0, "", "youtube", false)
}

func TestMemoryRepository_Get(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	sessionID := snowflake.ID(123)

	// Get should fail if the session doesn't exist
	if _, err := repo.Get(ctx, sessionID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}

	if err := repo.Save(ctx, domain.NewSession(sessionID, "alice", 0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snapshot, err := repo.Get(ctx, sessionID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snapshot.SessionID != sessionID {
		t.Errorf("expected session %d, got %d", sessionID, snapshot.SessionID)
	}
	if snapshot.OwnerID != "alice" {
		t.Errorf("expected owner alice, got %q", snapshot.OwnerID)
	}

	// Different session should not be found
	if _, err := repo.Get(ctx, snowflake.ID(456)); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound for other session, got %v", err)
	}
}

func TestMemoryRepository_Save(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	sessionID := snowflake.ID(123)

	_ = repo.Save(ctx, domain.NewSession(sessionID, "alice", 0))

	// Save again should overwrite
	_ = repo.Save(ctx, domain.NewSession(sessionID, "bob", 0))

	snapshot, err := repo.Get(ctx, sessionID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snapshot.OwnerID != "bob" {
		t.Errorf("expected overwritten owner bob, got %q", snapshot.OwnerID)
	}
	if repo.Count() != 1 {
		t.Errorf("expected 1 session, got %d", repo.Count())
	}
}

func TestMemoryRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	sessionID := snowflake.ID(123)
	_ = repo.Save(ctx, domain.NewSession(sessionID, "", 0))

	err := repo.Update(ctx, sessionID, func(s *domain.Session) error {
		s.PlayTrack(testTrack("a"))
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snapshot, _ := repo.Get(ctx, sessionID)
	if snapshot.Current == nil || snapshot.Current.ID != "a" {
		t.Errorf("expected current track a, got %+v", snapshot.Current)
	}

	t.Run("propagates callback error", func(t *testing.T) {
		want := errors.New("boom")
		err := repo.Update(ctx, sessionID, func(*domain.Session) error { return want })
		if !errors.Is(err, want) {
			t.Errorf("expected callback error, got %v", err)
		}
	})

	t.Run("missing session", func(t *testing.T) {
		err := repo.Update(ctx, snowflake.ID(999), func(*domain.Session) error {
			t.Error("callback must not run for a missing session")
			return nil
		})
		if !errors.Is(err, domain.ErrSessionNotFound) {
			t.Errorf("expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		err := repo.Update(cancelled, sessionID, func(*domain.Session) error {
			t.Error("callback must not run with a cancelled context")
			return nil
		})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestMemoryRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	sessionID := snowflake.ID(123)
	_ = repo.Save(ctx, domain.NewSession(sessionID, "", 0))

	if err := repo.Delete(ctx, sessionID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := repo.Get(ctx, sessionID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound after delete, got %v", err)
	}

	// Delete non-existent should not panic
	if err := repo.Delete(ctx, snowflake.ID(999)); err != nil {
		t.Errorf("unexpected error deleting missing session: %v", err)
	}
}

func TestMemoryRepository_ConcurrentUpdates(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	sessionID := snowflake.ID(123)
	_ = repo.Save(ctx, domain.NewSession(sessionID, "", 0))

	const workers = 50

	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = repo.Update(ctx, sessionID, func(s *domain.Session) error {
				s.Enqueue(testTrack(string(rune('A' + i))))
				return nil
			})
		}(i)
	}
	wg.Wait()

	snapshot, _ := repo.Get(ctx, sessionID)
	if len(snapshot.Queue) != workers {
		t.Errorf("expected %d queued tracks, got %d", workers, len(snapshot.Queue))
	}
}

func TestMemoryRepository_GetOrCreate(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	sessionID := snowflake.ID(123)

	snapshot, err := repo.GetOrCreate(ctx, domain.NewSession(sessionID, "alice", 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snapshot.OwnerID != "alice" {
		t.Errorf("expected owner alice, got %q", snapshot.OwnerID)
	}

	_ = repo.Update(ctx, sessionID, func(s *domain.Session) error {
		s.PlayTrack(testTrack("a"))
		return nil
	})

	// An existing session is returned untouched
	snapshot, err = repo.GetOrCreate(ctx, domain.NewSession(sessionID, "bob", 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snapshot.OwnerID != "alice" {
		t.Errorf("expected owner alice to be kept, got %q", snapshot.OwnerID)
	}
	if snapshot.Current == nil || snapshot.Current.ID != "a" {
		t.Errorf("expected current track a to be kept, got %+v", snapshot.Current)
	}

	// A deleted session is replaced
	_ = repo.Delete(ctx, sessionID)
	snapshot, _ = repo.GetOrCreate(ctx, domain.NewSession(sessionID, "bob", 0))
	if snapshot.OwnerID != "bob" || snapshot.Current != nil {
		t.Errorf("expected fresh session for bob, got %+v", snapshot)
	}
}

func TestMemoryRepository_ConcurrentGetOrCreate(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	sessionID := snowflake.ID(123)

	const workers = 50

	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = repo.GetOrCreate(ctx, domain.NewSession(sessionID, "", 0))
			_ = repo.Update(ctx, sessionID, func(s *domain.Session) error {
				s.Enqueue(testTrack(string(rune('A' + i))))
				return nil
			})
		}(i)
	}
	wg.Wait()

	snapshot, _ := repo.Get(ctx, sessionID)
	if len(snapshot.Queue) != workers {
		t.Errorf("expected %d queued tracks, got %d", workers, len(snapshot.Queue))
	}
	if repo.Count() != 1 {
		t.Errorf("expected a single session, got %d", repo.Count())
	}
}

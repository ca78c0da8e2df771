package playback

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/go-chi/chi/v5"
	"github.com/sglre6355/sgrtune/internal/modules/playback/domain"
	"github.com/sglre6355/sgrtune/internal/server"
)

func TestPlaybackModule_LoadConfig(t *testing.T) {
	t.Setenv("PLAYBACK_HISTORY_LIMIT", "5")
	t.Setenv("PLAYBACK_GUEST_QUEUE", "false")
	t.Setenv("PLAYBACK_SEARCH_SOURCE", "soundcloud")

	m := &PlaybackModule{}
	if err := m.LoadConfig(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if m.config.HistoryLimit != 5 {
		t.Errorf("expected history limit 5, got %d", m.config.HistoryLimit)
	}
	if m.config.GuestQueue {
		t.Error("expected guest queue disabled")
	}
	if m.config.Source() != domain.SourceSoundCloud {
		t.Errorf("expected soundcloud source, got %q", m.config.Source())
	}
	if m.config.SearchRate != 5 {
		t.Errorf("expected default search rate 5, got %v", m.config.SearchRate)
	}
	if m.config.SearchEnabled() {
		t.Error("expected search disabled without LAVALINK_ADDRESS")
	}
}

func TestPlaybackModule_LoadConfig_Invalid(t *testing.T) {
	t.Setenv("PLAYBACK_HISTORY_LIMIT", "many")

	m := &PlaybackModule{}
	if err := m.LoadConfig(); err == nil {
		t.Error("expected error for malformed PLAYBACK_HISTORY_LIMIT")
	}
}

func TestPlaybackModule_InitWithoutDiscord(t *testing.T) {
	m := &PlaybackModule{config: &Config{
		HistoryLimit: 20,
		GuestQueue:   true,
		HistoryDB:    filepath.Join(t.TempDir(), "history.db"),
		AuthTokens:   "secret:alice",
	}}

	if err := m.Init(server.ModuleDependencies{Config: &server.Config{}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() {
		if err := m.Shutdown(); err != nil {
			t.Errorf("unexpected shutdown error: %v", err)
		}
	})

	if m.recorder == nil {
		t.Error("expected history recorder to be opened")
	}

	r := chi.NewRouter()
	m.Routes(r)

	req := httptest.NewRequest(http.MethodPost, "/api/sessions", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	for _, name := range []string{"play", "pause", "resume", "next", "previous", "like", "queue"} {
		if _, ok := m.CommandHandlers()[name]; !ok {
			t.Errorf("expected handler for /%s", name)
		}
	}
	if len(m.Commands()) != len(m.CommandHandlers()) {
		t.Errorf("expected a handler per command, got %d commands and %d handlers",
			len(m.Commands()), len(m.CommandHandlers()))
	}
}

func TestPlaybackModule_InitRejectsMalformedTokens(t *testing.T) {
	m := &PlaybackModule{config: &Config{
		HistoryLimit: 20,
		HistoryDB:    filepath.Join(t.TempDir(), "history.db"),
		AuthTokens:   "no-separator",
	}}

	if err := m.Init(server.ModuleDependencies{Config: &server.Config{}}); err == nil {
		t.Fatal("expected error for malformed AUTH_TOKENS")
	}

	// The history database opened before the failure is released
	if m.recorder != nil || m.eventBus != nil || m.hub != nil || m.resolver != nil {
		t.Errorf("expected resources to be released, got recorder=%v bus=%v hub=%v resolver=%v",
			m.recorder != nil, m.eventBus != nil, m.hub != nil, m.resolver != nil)
	}
	if err := m.Shutdown(); err != nil {
		t.Errorf("expected shutdown after failed init to succeed, got %v", err)
	}
}

func TestLavalinkUserID(t *testing.T) {
	withUser := &discordgo.Session{State: discordgo.NewState()}
	withUser.State.User = &discordgo.User{ID: "123456789012345678"}

	tests := []struct {
		name    string
		cfg     *Config
		session *discordgo.Session
		want    string
		wantErr bool
	}{
		{name: "from session", cfg: &Config{LavalinkUserID: "1"}, session: withUser, want: "123456789012345678"},
		{name: "from config", cfg: &Config{LavalinkUserID: "987654321"}, want: "987654321"},
		{name: "missing", cfg: &Config{}, wantErr: true},
		{name: "malformed", cfg: &Config{LavalinkUserID: "bot"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := lavalinkUserID(tt.cfg, tt.session)
			if (err != nil) != tt.wantErr {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if !tt.wantErr && got.String() != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

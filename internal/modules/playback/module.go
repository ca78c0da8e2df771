package playback

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/caarlos0/env/v11"
	"github.com/disgoorg/snowflake/v2"
	"github.com/go-chi/chi/v5"
	"github.com/sglre6355/sgrtune/internal/modules/playback/application"
	"github.com/sglre6355/sgrtune/internal/modules/playback/application/ports"
	"github.com/sglre6355/sgrtune/internal/modules/playback/application/usecases"
	"github.com/sglre6355/sgrtune/internal/modules/playback/infrastructure"
	"github.com/sglre6355/sgrtune/internal/modules/playback/presentation/discord"
	"github.com/sglre6355/sgrtune/internal/modules/playback/presentation/web"
	"github.com/sglre6355/sgrtune/internal/server"
)

func init() {
	server.Register(&PlaybackModule{})
}

// Compile-time interface checks.
var _ server.ConfigurableModule = (*PlaybackModule)(nil)

// PlaybackModule hosts playback sessions and the surfaces that drive them.
type PlaybackModule struct {
	config *Config

	webHandlers     *web.Handlers
	commandHandlers *discord.CommandHandlers
	autocomplete    *discord.AutocompleteHandler

	eventBus *infrastructure.ChannelEventBus
	hub      *infrastructure.WebSocketHub
	resolver *infrastructure.LavalinkResolver
	recorder *infrastructure.SQLiteHistoryRecorder
}

// Name returns the module name.
func (m *PlaybackModule) Name() string {
	return "playback"
}

// LoadConfig loads module-specific configuration from environment variables.
func (m *PlaybackModule) LoadConfig() error {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return err
	}
	m.config = cfg
	return nil
}

// Routes mounts the JSON and WebSocket API.
func (m *PlaybackModule) Routes(r chi.Router) {
	m.webHandlers.Routes(r)
}

// Commands returns the slash commands for this module.
func (m *PlaybackModule) Commands() []*discordgo.ApplicationCommand {
	return discord.Commands()
}

// CommandHandlers returns the command handlers for this module.
func (m *PlaybackModule) CommandHandlers() map[string]server.InteractionHandler {
	return map[string]server.InteractionHandler{
		"play":     m.commandHandlers.HandlePlay,
		"pause":    m.commandHandlers.HandlePause,
		"resume":   m.commandHandlers.HandleResume,
		"next":     m.commandHandlers.HandleNext,
		"previous": m.commandHandlers.HandlePrevious,
		"like":     m.commandHandlers.HandleLike,
		"queue":    m.commandHandlers.HandleQueue,
	}
}

// EventHandlers returns the event handlers for this module.
func (m *PlaybackModule) EventHandlers() []server.EventHandler {
	return []server.EventHandler{
		func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			m.handleAutocomplete(s, i)
		},
	}
}

// Init initializes the module. Resources opened before a failure are released.
func (m *PlaybackModule) Init(deps server.ModuleDependencies) (err error) {
	if m.config == nil {
		m.config = &Config{HistoryLimit: 20, GuestQueue: true}
	}

	ctx := context.Background()

	defer func() {
		if err != nil {
			if releaseErr := m.release(); releaseErr != nil {
				slog.Warn("failed to release playback resources", "error", releaseErr)
			}
		}
	}()

	resolver, err := m.initResolver(ctx, deps.Session)
	if err != nil {
		return err
	}

	var recorder ports.HistoryRecorder
	if m.config.HistoryDB != "" {
		m.recorder, err = infrastructure.OpenSQLiteHistoryRecorder(ctx, m.config.HistoryDB)
		if err != nil {
			return err
		}
		recorder = m.recorder
	}

	var auth ports.AuthProvider
	if m.config.AuthTokens != "" {
		tokens, err := infrastructure.ParseAuthTokens(m.config.AuthTokens)
		if err != nil {
			return err
		}
		auth = infrastructure.NewTokenAuthProvider(tokens)
	}

	repo := infrastructure.NewMemoryRepository()
	m.eventBus = infrastructure.NewChannelEventBus(infrastructure.DefaultEventBufferSize)
	m.hub = infrastructure.NewWebSocketHub(web.RenderSnapshot)

	// Create services with event bus
	sessions := usecases.NewSessionService(
		repo,
		infrastructure.NewSnowflakeGenerator(),
		auth,
		recorder,
		m.eventBus,
		m.config.HistoryLimit,
	)
	playback := usecases.NewPlaybackService(repo, m.eventBus)
	queue := usecases.NewQueueService(repo, m.eventBus, m.config.GuestQueue)
	likes := usecases.NewLikeService(repo, m.eventBus)
	search := usecases.NewSearchService(resolver, m.config.Source())

	notifiers := infrastructure.MultiNotifier{m.hub}
	forgetters := []application.SessionForgetter{m.hub, search}

	var channels discord.ChannelBinder
	if deps.Session != nil {
		discordNotifier := infrastructure.NewDiscordNotifier(deps.Session)
		notifiers = append(notifiers, discordNotifier)
		forgetters = append(forgetters, discordNotifier)
		channels = discordNotifier
	}

	// Register application event handlers
	starters := []interface{ Start() error }{
		application.NewNotificationEventHandler(m.eventBus, notifiers),
		application.NewStateEventHandler(repo, m.eventBus, m.hub),
		application.NewLifecycleEventHandler(m.eventBus, forgetters...),
	}
	if recorder != nil {
		starters = append(starters, application.NewHistoryEventHandler(repo, m.eventBus, recorder))
	}
	for _, h := range starters {
		if err := h.Start(); err != nil {
			return err
		}
	}

	// Create presentation handlers
	m.webHandlers = web.NewHandlers(sessions, playback, queue, likes, search, m.hub)
	m.commandHandlers = discord.NewCommandHandlers(sessions, playback, queue, likes, search, channels)
	m.autocomplete = discord.NewAutocompleteHandler(search)

	slog.Info("playback module initialized",
		"search", resolver != nil,
		"history", recorder != nil,
		"auth", auth != nil,
		"discord", deps.Session != nil,
	)

	return nil
}

// initResolver connects to Lavalink when configured. A nil resolver disables search.
func (m *PlaybackModule) initResolver(
	ctx context.Context,
	session *discordgo.Session,
) (ports.TrackResolver, error) {
	if !m.config.SearchEnabled() {
		slog.Warn("LAVALINK_ADDRESS not set, search disabled")
		return nil, nil
	}

	userID, err := lavalinkUserID(m.config, session)
	if err != nil {
		return nil, err
	}

	m.resolver, err = infrastructure.NewLavalinkResolver(ctx, infrastructure.LavalinkConfig{
		Address:  m.config.LavalinkAddress,
		Password: m.config.LavalinkPassword,
		Secure:   m.config.LavalinkSecure,
		UserID:   userID,
	})
	if err != nil {
		return nil, err
	}

	return infrastructure.NewRateLimitedResolver(m.resolver, m.config.SearchRate, m.config.SearchBurst), nil
}

// lavalinkUserID prefers the connected bot user over LAVALINK_USER_ID.
func lavalinkUserID(cfg *Config, session *discordgo.Session) (snowflake.ID, error) {
	if session != nil && session.State != nil && session.State.User != nil {
		return snowflake.Parse(session.State.User.ID)
	}
	if cfg.LavalinkUserID == "" {
		return 0, fmt.Errorf("LAVALINK_USER_ID is required when DISCORD_TOKEN is not set")
	}

	id, err := snowflake.Parse(cfg.LavalinkUserID)
	if err != nil {
		return 0, fmt.Errorf("invalid LAVALINK_USER_ID: %w", err)
	}
	return id, nil
}

// Shutdown cleans up module resources.
func (m *PlaybackModule) Shutdown() error {
	return m.release()
}

func (m *PlaybackModule) release() error {
	if m.hub != nil {
		m.hub.Close()
		m.hub = nil
	}

	// Close event bus
	if m.eventBus != nil {
		m.eventBus.Close()
		m.eventBus = nil
	}

	if m.resolver != nil {
		m.resolver.Close()
		m.resolver = nil
	}

	if m.recorder != nil {
		err := m.recorder.Close()
		m.recorder = nil
		return err
	}

	return nil
}

func (m *PlaybackModule) handleAutocomplete(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommandAutocomplete {
		return
	}

	responder := server.NewDiscordResponder(s, i.Interaction)
	if err := m.autocomplete.HandleQuery(i, responder); err != nil {
		slog.Error("failed to respond to autocomplete", "command", i.ApplicationCommandData().Name, "error", err)
	}
}

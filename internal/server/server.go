package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server manages the process lifecycle and module coordination. It always
// serves HTTP; the Discord gateway session is opened only when a token is set.
type Server struct {
	config     *Config
	session    *discordgo.Session
	modules    []Module
	handlers   map[string]InteractionHandler
	router     chi.Router
	httpServer *http.Server
	listener   net.Listener
	serveErr   chan error
}

// NewServer creates a new Server instance with the given configuration.
func NewServer(cfg *Config) *Server {
	return &Server{
		config:   cfg,
		modules:  make([]Module, 0),
		handlers: make(map[string]InteractionHandler),
		serveErr: make(chan error, 1),
	}
}

// LoadModules loads modules from the global registry.
func (s *Server) LoadModules() {
	s.modules = Modules()
}

// Start initializes modules, connects to Discord if enabled, and starts serving HTTP.
func (s *Server) Start(ctx context.Context) error {
	if err := s.loadModuleConfigs(); err != nil {
		return err
	}

	if s.config.DiscordEnabled() {
		session, err := discordgo.New("Bot " + s.config.DiscordToken)
		if err != nil {
			return fmt.Errorf("failed to create Discord session: %w", err)
		}
		s.session = session

		// Modules read the bot user from session state during Init
		if err := s.session.Open(); err != nil {
			return fmt.Errorf("failed to open Discord connection: %w", err)
		}
	}

	if err := s.initModules(); err != nil {
		return fmt.Errorf("failed to initialize modules: %w", err)
	}

	if s.session != nil {
		s.buildHandlerMap()
		s.session.AddHandler(s.handleInteraction)
		s.registerEventHandlers()

		if err := s.registerCommands(); err != nil {
			return fmt.Errorf("failed to register commands: %w", err)
		}

		slog.Info("connected to Discord",
			"user_id", s.session.State.User.ID,
			"username", s.session.State.User.Username,
		)
	}

	s.router = s.buildRouter()

	listener, err := (&net.ListenConfig{}).Listen(ctx, "tcp", s.config.HTTPAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.HTTPAddr, err)
	}
	s.listener = listener
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.serveErr <- err
		}
		close(s.serveErr)
	}()

	slog.Info("started HTTP server", "addr", listener.Addr().String())

	return nil
}

// Addr returns the address the HTTP server listens on.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Errors reports a failure of the HTTP server after Start returned.
// The channel is closed when the server stops.
func (s *Server) Errors() <-chan error {
	return s.serveErr
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	var errs []error

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown HTTP server: %w", err))
		}
	}

	for _, mod := range s.modules {
		if err := mod.Shutdown(); err != nil {
			slog.Warn("failed to shutdown module", "module", mod.Name(), "error", err)
		}
	}

	if s.session != nil {
		if err := s.session.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Discord session: %w", err))
		}
	}

	return errors.Join(errs...)
}

// loadModuleConfigs loads the configuration of every configurable module.
func (s *Server) loadModuleConfigs() error {
	for _, mod := range s.modules {
		configurable, ok := mod.(ConfigurableModule)
		if !ok {
			continue
		}
		if err := configurable.LoadConfig(); err != nil {
			return fmt.Errorf("failed to load %s module config: %w", mod.Name(), err)
		}
	}
	return nil
}

// initModules initializes all loaded modules.
func (s *Server) initModules() error {
	deps := ModuleDependencies{
		Config:  s.config,
		Session: s.session,
	}

	for _, mod := range s.modules {
		if err := mod.Init(deps); err != nil {
			return fmt.Errorf("failed to initialize %s module: %w", mod.Name(), err)
		}
		slog.Debug("initialized module", "module", mod.Name())
	}

	moduleNames := make([]string, len(s.modules))
	for i, mod := range s.modules {
		moduleNames[i] = mod.Name()
	}
	slog.Info("initialized modules", "modules", moduleNames)

	return nil
}

// buildRouter mounts every module's routes behind the shared middleware stack.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	for _, mod := range s.modules {
		mod.Routes(r)
	}

	return r
}

// requestLogger logs each request with its chi request ID.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		slog.Debug("handled request",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
		)
	})
}

// buildHandlerMap builds the command name to handler mapping.
func (s *Server) buildHandlerMap() {
	for _, mod := range s.modules {
		maps.Copy(s.handlers, mod.CommandHandlers())
	}
}

// registerEventHandlers registers all module event handlers with the session.
func (s *Server) registerEventHandlers() {
	for _, mod := range s.modules {
		for _, handler := range mod.EventHandlers() {
			s.session.AddHandler(handler)
		}
	}
}

// collectCommands gathers all commands from loaded modules.
func (s *Server) collectCommands() []*discordgo.ApplicationCommand {
	var commands []*discordgo.ApplicationCommand
	for _, mod := range s.modules {
		commands = append(commands, mod.Commands()...)
	}
	return commands
}

// registerCommands registers all module commands with Discord.
func (s *Server) registerCommands() error {
	for _, cmd := range s.collectCommands() {
		_, err := s.session.ApplicationCommandCreate(
			s.session.State.User.ID,
			"", // Empty string registers commands globally
			cmd,
		)
		if err != nil {
			return fmt.Errorf("failed to register command %s: %w", cmd.Name, err)
		}
		slog.Debug("registered command", "command", cmd.Name)
	}

	return nil
}

// Embed colors for responses.
const (
	colorYellow = 0xFFFF00
	colorRed    = 0xFF0000
)

// handleInteraction routes incoming interactions to the appropriate handler.
func (s *Server) handleInteraction(session *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	cmdName := i.ApplicationCommandData().Name
	responder := NewDiscordResponder(session, i.Interaction)

	if err := s.dispatch(session, i, cmdName, responder); err != nil {
		slog.Error("failed to handle command", "command", cmdName, "error", err)
	}
}

// dispatch runs the handler for cmdName, answering with an error embed when
// the command is unknown or the handler fails.
func (s *Server) dispatch(
	session *discordgo.Session,
	i *discordgo.InteractionCreate,
	cmdName string,
	r Responder,
) error {
	handler, ok := s.handlers[cmdName]
	if !ok {
		slog.Warn("found no handler for command", "command", cmdName)
		return respondWithEmbed(r, "Unknown Command", "This command is not recognized.", colorYellow)
	}

	if err := handler(session, i, r); err != nil {
		if respondErr := respondWithEmbed(r, "Error", "An error occurred while processing your command.", colorRed); respondErr != nil {
			slog.Error("failed to send embed response", "error", respondErr)
		}
		return err
	}

	return nil
}

// respondWithEmbed sends an embed response to an interaction.
func respondWithEmbed(r Responder, title, description string, color int) error {
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				{
					Title:       title,
					Description: description,
					Color:       color,
				},
			},
		},
	})
}

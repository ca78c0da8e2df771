package server

import (
	"github.com/bwmarrin/discordgo"
	"github.com/go-chi/chi/v5"
)

// InteractionHandler answers one slash command through r.
type InteractionHandler func(s *discordgo.Session, i *discordgo.InteractionCreate, r Responder) error

// EventHandler is any function accepted by (*discordgo.Session).AddHandler,
// for example func(*discordgo.Session, *discordgo.InteractionCreate).
type EventHandler any

// ModuleDependencies is what the server hands to every module in Init.
type ModuleDependencies struct {
	Config *Config

	// Session is nil when the Discord surface is disabled.
	Session *discordgo.Session
}

// Module is a feature hosted by the server. A module may expose HTTP routes,
// Discord commands, or both; Routes and Commands may be empty.
type Module interface {
	Name() string

	// Routes mounts the module's HTTP handlers. It is called after Init.
	Routes(r chi.Router)

	// Commands and CommandHandlers are only used when Discord is enabled.
	Commands() []*discordgo.ApplicationCommand
	CommandHandlers() map[string]InteractionHandler

	// EventHandlers are added to the Discord session after Init.
	EventHandlers() []EventHandler

	Init(deps ModuleDependencies) error
	Shutdown() error
}

// ConfigurableModule is implemented by modules that read their own
// environment. LoadConfig runs before Init and fails startup on error.
type ConfigurableModule interface {
	LoadConfig() error
}

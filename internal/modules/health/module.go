package health

import (
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/go-chi/chi/v5"
	"github.com/sglre6355/sgrtune/internal/modules/health/application"
	"github.com/sglre6355/sgrtune/internal/modules/health/presentation"
	"github.com/sglre6355/sgrtune/internal/server"
)

func init() {
	server.Register(&HealthModule{startedAt: time.Now()})
}

// HealthModule exposes liveness checks over HTTP and the /ping command.
type HealthModule struct {
	startedAt     time.Time
	pingHandler   *presentation.PingHandler
	healthHandler *presentation.HealthHandler
}

var _ server.Module = (*HealthModule)(nil)

// Name returns the module name.
func (m *HealthModule) Name() string {
	return "health"
}

// Routes mounts GET /healthz.
func (m *HealthModule) Routes(r chi.Router) {
	r.Method(http.MethodGet, "/healthz", m.healthHandler)
}

// Commands returns the slash commands for this module.
func (m *HealthModule) Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "ping",
			Description: "Replies with Pong! and the server uptime",
		},
	}
}

// CommandHandlers returns the command handlers for this module.
func (m *HealthModule) CommandHandlers() map[string]server.InteractionHandler {
	return map[string]server.InteractionHandler{
		"ping": m.pingHandler.Handle,
	}
}

// EventHandlers returns the event handlers for this module.
func (m *HealthModule) EventHandlers() []server.EventHandler {
	return nil
}

// Init initializes the module.
func (m *HealthModule) Init(deps server.ModuleDependencies) error {
	interactor := application.NewStatusInteractor(m.startedAt, time.Now)
	m.pingHandler = presentation.NewPingHandler(interactor)
	m.healthHandler = presentation.NewHealthHandler(interactor)
	return nil
}

// Shutdown cleans up module resources.
func (m *HealthModule) Shutdown() error {
	return nil
}

package presentation

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/sgrtune/internal/modules/health/application"
	"github.com/sglre6355/sgrtune/internal/server"
)

// PingHandler handles the /ping command.
type PingHandler struct {
	interactor *application.StatusInteractor
}

// NewPingHandler creates a new PingHandler.
func NewPingHandler(interactor *application.StatusInteractor) *PingHandler {
	return &PingHandler{interactor: interactor}
}

// Handle processes the ping command and sends the response.
func (h *PingHandler) Handle(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r server.Responder,
) error {
	status := h.interactor.Execute()

	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: status.PingReply(),
		},
	})
}

type healthResponse struct {
	Status        string  `json:"status"`
	StartedAt     string  `json:"started_at"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// HealthHandler serves GET /healthz.
type HealthHandler struct {
	interactor *application.StatusInteractor
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(interactor *application.StatusInteractor) *HealthHandler {
	return &HealthHandler{interactor: interactor}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	status := h.interactor.Execute()

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	err := json.NewEncoder(w).Encode(healthResponse{
		Status:        status.Status,
		StartedAt:     status.StartedAt.UTC().Format(time.RFC3339),
		UptimeSeconds: status.Uptime.Seconds(),
	})
	if err != nil {
		slog.Warn("failed to write health response", "error", err)
	}
}

package server

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// Responder answers a Discord interaction. Command handlers depend on it
// instead of the session so they can be tested without a gateway.
type Responder interface {
	Respond(response *discordgo.InteractionResponse) error
}

// DiscordResponder answers through a live Discord session.
type DiscordResponder struct {
	session     *discordgo.Session
	interaction *discordgo.Interaction
}

// NewDiscordResponder creates a Responder for interaction i.
func NewDiscordResponder(s *discordgo.Session, i *discordgo.Interaction) *DiscordResponder {
	return &DiscordResponder{session: s, interaction: i}
}

// Respond implements Responder.
func (r *DiscordResponder) Respond(response *discordgo.InteractionResponse) error {
	if err := r.session.InteractionRespond(r.interaction, response); err != nil {
		return fmt.Errorf("failed to respond to interaction %s: %w", r.interaction.ID, err)
	}
	return nil
}

// MockResponder records responses for tests. Err, when set, is returned from
// every Respond call.
type MockResponder struct {
	Responses    []*discordgo.InteractionResponse
	LastResponse *discordgo.InteractionResponse
	Err          error
}

// Respond implements Responder.
func (m *MockResponder) Respond(response *discordgo.InteractionResponse) error {
	m.Responses = append(m.Responses, response)
	m.LastResponse = response
	return m.Err
}

package discord

import (
	"context"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/sgrtune/internal/modules/playback/application/usecases"
	"github.com/sglre6355/sgrtune/internal/server"
)

// Discord limits on autocomplete choices.
const (
	maxChoices           = 25
	maxChoiceNameLength  = 100
	maxChoiceValueLength = 100
)

// AutocompleteHandler suggests tracks while a query is being typed.
type AutocompleteHandler struct {
	search *usecases.SearchService
}

// NewAutocompleteHandler creates a new AutocompleteHandler.
func NewAutocompleteHandler(search *usecases.SearchService) *AutocompleteHandler {
	return &AutocompleteHandler{search: search}
}

// HandleQuery answers autocomplete for any focused "query" option. Every
// keystroke starts a new search for the member in that guild, so a slower
// earlier search is discarded instead of answering with stale choices.
func (h *AutocompleteHandler) HandleQuery(i *discordgo.InteractionCreate, r server.Responder) error {
	query := focusedQuery(i.ApplicationCommandData().Options)

	// Don't search for very short queries
	if utf8.RuneCountInString(query) < 2 {
		return respondChoices(r, nil)
	}

	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondChoices(r, nil)
	}

	output, err := h.search.Search(context.Background(), usecases.SearchInput{
		SessionID:   guildID,
		RequesterID: interactionUserID(i),
		Query:       query,
		Limit:       maxChoices,
	})
	if usecases.IsSuperseded(err) {
		return nil
	}
	if err != nil {
		slog.Debug("failed to search for autocomplete", "guild", guildID, "error", err)
		return respondChoices(r, nil)
	}

	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(output.Tracks))
	for _, track := range output.Tracks {
		value, ok := choiceValue(track.URI, query)
		if !ok {
			continue
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  truncate(fmt.Sprintf("🎵 %s - %s", track.Title, track.Artist), maxChoiceNameLength),
			Value: value,
		})
	}

	return respondChoices(r, choices)
}

// choiceValue picks the first candidate Discord accepts as a choice value.
// Discord rejects the whole response if any value is too long.
func choiceValue(candidates ...string) (string, bool) {
	for _, c := range candidates {
		if c != "" && utf8.RuneCountInString(c) <= maxChoiceValueLength {
			return c, true
		}
	}
	return "", false
}

func interactionUserID(i *discordgo.InteractionCreate) string {
	switch {
	case i.Member != nil && i.Member.User != nil:
		return i.Member.User.ID
	case i.User != nil:
		return i.User.ID
	default:
		return ""
	}
}

// focusedQuery finds the focused option, looking inside subcommands.
func focusedQuery(options []*discordgo.ApplicationCommandInteractionDataOption) string {
	for _, opt := range options {
		if opt.Type == discordgo.ApplicationCommandOptionSubCommand {
			if q := focusedQuery(opt.Options); q != "" {
				return q
			}
			continue
		}
		if opt.Focused && opt.Type == discordgo.ApplicationCommandOptionString {
			return opt.StringValue()
		}
	}
	return ""
}

func respondChoices(r server.Responder, choices []*discordgo.ApplicationCommandOptionChoice) error {
	if choices == nil {
		choices = []*discordgo.ApplicationCommandOptionChoice{}
	}
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{
			Choices: choices,
		},
	})
}

func truncate(s string, maxRunes int) string {
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxRunes-1]) + "…"
}

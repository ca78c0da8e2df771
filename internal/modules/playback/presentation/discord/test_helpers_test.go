package discord

import (
	"context"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/sgrtune/internal/modules/playback/application/ports"
	"github.com/sglre6355/sgrtune/internal/modules/playback/application/usecases"
	"github.com/sglre6355/sgrtune/internal/modules/playback/domain"
	"github.com/sglre6355/sgrtune/internal/modules/playback/infrastructure"
	"github.com/sglre6355/sgrtune/internal/server"
)

const (
	testGuildID   = "111111111111111111"
	testChannelID = "222222222222222222"
)

// mockResolver resolves "<source>:<id>" queries to a track with that ID.
type mockResolver struct {
	loadFunc func(ctx context.Context, query string) (*ports.LoadResult, error)
}

func (m *mockResolver) LoadTracks(ctx context.Context, query string) (*ports.LoadResult, error) {
	if m.loadFunc != nil {
		return m.loadFunc(ctx, query)
	}

	_, id, _ := strings.Cut(query, ":")
	if id == "" || id == "nothing" {
		return &ports.LoadResult{Type: ports.LoadTypeEmpty}, nil
	}
	return &ports.LoadResult{
		Type: ports.LoadTypeSearch,
		Tracks: []*ports.TrackInfo{{
			Identifier: id,
			Title:      "Title " + id,
			Artist:     "Artist " + id,
			URI:        "https://example.com/" + id,
		}},
	}, nil
}

// mockBinder records channel bindings.
type mockBinder struct {
	bindings map[snowflake.ID]snowflake.ID
}

func (m *mockBinder) Bind(sessionID, channelID snowflake.ID) {
	if m.bindings == nil {
		m.bindings = make(map[snowflake.ID]snowflake.ID)
	}
	m.bindings[sessionID] = channelID
}

type testEnv struct {
	handlers *CommandHandlers
	sessions *usecases.SessionService
	binder   *mockBinder
}

func newTestEnv(t *testing.T, allowGuestQueue bool) *testEnv {
	t.Helper()

	repo := infrastructure.NewMemoryRepository()
	sessions := usecases.NewSessionService(repo, infrastructure.NewSnowflakeGenerator(), nil, nil, nil, 20)
	binder := &mockBinder{}

	return &testEnv{
		handlers: NewCommandHandlers(
			sessions,
			usecases.NewPlaybackService(repo, nil),
			usecases.NewQueueService(repo, nil, allowGuestQueue),
			usecases.NewLikeService(repo, nil),
			usecases.NewSearchService(&mockResolver{}, domain.SourceYouTube),
			binder,
		),
		sessions: sessions,
		binder:   binder,
	}
}

func (e *testEnv) snapshot(t *testing.T) usecases.SessionSnapshot {
	t.Helper()

	snapshot, err := e.sessions.Get(context.Background(), snowflake.MustParse(testGuildID))
	if err != nil {
		t.Fatalf("failed to get session: %v", err)
	}
	return snapshot
}

func command(name string, options ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type:      discordgo.InteractionApplicationCommand,
			GuildID:   testGuildID,
			ChannelID: testChannelID,
			Data: discordgo.ApplicationCommandInteractionData{
				Name:    name,
				Options: options,
			},
		},
	}
}

func stringOpt(name, value string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionString,
		Value: value,
	}
}

func intOpt(name string, value int) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionInteger,
		Value: float64(value),
	}
}

func subcommand(name string, options ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:    name,
		Type:    discordgo.ApplicationCommandOptionSubCommand,
		Options: options,
	}
}

// run invokes handler and returns the single embed it responded with.
func run(
	t *testing.T,
	handler server.InteractionHandler,
	i *discordgo.InteractionCreate,
) *discordgo.MessageEmbed {
	t.Helper()

	responder := &server.MockResponder{}
	if err := handler(nil, i, responder); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if responder.LastResponse == nil || responder.LastResponse.Data == nil {
		t.Fatal("expected response, got nil")
	}
	if len(responder.LastResponse.Data.Embeds) != 1 {
		t.Fatalf("expected 1 embed, got %d", len(responder.LastResponse.Data.Embeds))
	}
	return responder.LastResponse.Data.Embeds[0]
}

func expectError(t *testing.T, embed *discordgo.MessageEmbed, contains string) {
	t.Helper()

	if embed.Color != colorError {
		t.Errorf("expected error embed, got %+v", embed)
	}
	if !strings.Contains(embed.Description, contains) {
		t.Errorf("expected description containing %q, got %q", contains, embed.Description)
	}
}

func expectSuccess(t *testing.T, embed *discordgo.MessageEmbed, contains string) {
	t.Helper()

	if embed.Color != colorSuccess {
		t.Errorf("expected success embed, got %+v", embed)
	}
	if !strings.Contains(embed.Description, contains) {
		t.Errorf("expected description containing %q, got %q", contains, embed.Description)
	}
}

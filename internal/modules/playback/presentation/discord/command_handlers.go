package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/sgrtune/internal/modules/playback/application/usecases"
	"github.com/sglre6355/sgrtune/internal/server"
)

// Embed colors.
const (
	colorSuccess = 0x08c404
	colorError   = 0xE74C3C
)

// ChannelBinder routes a session's notifications to a text channel.
type ChannelBinder interface {
	Bind(sessionID, channelID snowflake.ID)
}

// CommandHandlers holds all the command handlers.
type CommandHandlers struct {
	sessions *usecases.SessionService
	playback *usecases.PlaybackService
	queue    *usecases.QueueService
	likes    *usecases.LikeService
	search   *usecases.SearchService
	channels ChannelBinder
}

// NewCommandHandlers creates new CommandHandlers. channels may be nil.
func NewCommandHandlers(
	sessions *usecases.SessionService,
	playback *usecases.PlaybackService,
	queue *usecases.QueueService,
	likes *usecases.LikeService,
	search *usecases.SearchService,
	channels ChannelBinder,
) *CommandHandlers {
	return &CommandHandlers{
		sessions: sessions,
		playback: playback,
		queue:    queue,
		likes:    likes,
		search:   search,
		channels: channels,
	}
}

// GuildOwnerID is the owner recorded for the shared session of a guild.
func GuildOwnerID(guildID snowflake.ID) string {
	return "discord:" + guildID.String()
}

// session returns the guild's session, creating it on first use, and binds
// notifications to the channel the command was issued in.
func (h *CommandHandlers) session(
	ctx context.Context,
	i *discordgo.InteractionCreate,
) (snowflake.ID, error) {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return 0, errInvalidGuild
	}

	if _, err := h.sessions.Ensure(ctx, usecases.EnsureSessionInput{
		SessionID: guildID,
		OwnerID:   GuildOwnerID(guildID),
	}); err != nil {
		return 0, err
	}

	if channelID, err := snowflake.Parse(i.ChannelID); err == nil && h.channels != nil {
		h.channels.Bind(guildID, channelID)
	}

	return guildID, nil
}

var errInvalidGuild = errors.New("this command can only be used in a server")

// HandlePlay handles the /play command.
func (h *CommandHandlers) HandlePlay(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r server.Responder,
) error {
	ctx := context.Background()

	sessionID, err := h.session(ctx, i)
	if err != nil {
		return respondError(r, err.Error())
	}

	query := stringOption(i.ApplicationCommandData().Options, "query")

	track, err := h.search.LoadTrack(ctx, query)
	if err != nil {
		return respondError(r, err.Error())
	}

	if _, err := h.playback.Play(ctx, usecases.PlayInput{
		SessionID: sessionID,
		Track:     track,
	}); err != nil {
		return respondError(r, err.Error())
	}

	return respondSuccess(r, "Now playing "+trackLink(track)+".")
}

// HandlePause handles the /pause command.
func (h *CommandHandlers) HandlePause(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r server.Responder,
) error {
	return h.handleTransport(i, r, h.playback.Pause, func(output *usecases.PlaybackOutput) string {
		if !output.Changed {
			return "Nothing is playing."
		}
		return "Paused playback."
	})
}

// HandleResume handles the /resume command.
func (h *CommandHandlers) HandleResume(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r server.Responder,
) error {
	return h.handleTransport(i, r, h.playback.Resume, func(output *usecases.PlaybackOutput) string {
		switch {
		case output.Snapshot.Current == nil:
			return "Nothing to resume."
		case !output.Changed:
			return "Already playing."
		default:
			return "Resumed playback."
		}
	})
}

// HandleNext handles the /next command.
func (h *CommandHandlers) HandleNext(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r server.Responder,
) error {
	return h.handleTransport(i, r, h.playback.Next, func(output *usecases.PlaybackOutput) string {
		if !output.Snapshot.IsPlaying || output.Snapshot.Current == nil {
			return "Reached the end of the queue."
		}
		return "Skipped to " + trackLink(*output.Snapshot.Current) + "."
	})
}

// HandlePrevious handles the /previous command.
func (h *CommandHandlers) HandlePrevious(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r server.Responder,
) error {
	return h.handleTransport(i, r, h.playback.Previous, func(output *usecases.PlaybackOutput) string {
		if !output.Changed {
			return "There is no previous track."
		}
		return "Went back to " + trackLink(*output.Snapshot.Current) + "."
	})
}

func (h *CommandHandlers) handleTransport(
	i *discordgo.InteractionCreate,
	r server.Responder,
	op func(context.Context, snowflake.ID) (*usecases.PlaybackOutput, error),
	describe func(*usecases.PlaybackOutput) string,
) error {
	ctx := context.Background()

	sessionID, err := h.session(ctx, i)
	if err != nil {
		return respondError(r, err.Error())
	}

	output, err := op(ctx, sessionID)
	if err != nil {
		return respondError(r, err.Error())
	}

	return respondSuccess(r, describe(output))
}

// HandleLike handles the /like command.
func (h *CommandHandlers) HandleLike(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r server.Responder,
) error {
	ctx := context.Background()

	sessionID, err := h.session(ctx, i)
	if err != nil {
		return respondError(r, err.Error())
	}

	snapshot, err := h.sessions.Get(ctx, sessionID)
	if err != nil {
		return respondError(r, err.Error())
	}
	if snapshot.Current == nil {
		return respondError(r, "Nothing is playing.")
	}

	output, err := h.likes.Toggle(ctx, usecases.ToggleLikeInput{
		SessionID: sessionID,
		Track:     *snapshot.Current,
	})
	if err != nil {
		return respondError(r, err.Error())
	}

	if output.Liked {
		return respondSuccess(r, "Liked "+trackLink(*snapshot.Current)+".")
	}
	return respondSuccess(r, "Removed "+trackLink(*snapshot.Current)+" from your likes.")
}

// HandleQueue handles the /queue command and its subcommands.
func (h *CommandHandlers) HandleQueue(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r server.Responder,
) error {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return respondError(r, "No subcommand specified")
	}

	subCmd := options[0]
	switch subCmd.Name {
	case "list":
		return h.handleQueueList(i, r, subCmd.Options)
	case "add":
		return h.handleQueueAdd(i, r, subCmd.Options)
	case "remove":
		return h.handleQueueRemove(i, r, subCmd.Options)
	case "clear":
		return h.handleQueueClear(i, r)
	default:
		return respondError(r, "Unknown subcommand")
	}
}

func (h *CommandHandlers) handleQueueList(
	i *discordgo.InteractionCreate,
	r server.Responder,
	options []*discordgo.ApplicationCommandInteractionDataOption,
) error {
	ctx := context.Background()

	sessionID, err := h.session(ctx, i)
	if err != nil {
		return respondError(r, err.Error())
	}

	output, err := h.queue.List(ctx, usecases.QueueListInput{
		SessionID: sessionID,
		Page:      int(intOption(options, "page")),
	})
	if err != nil {
		return respondError(r, err.Error())
	}

	return respondQueueList(r, output)
}

func (h *CommandHandlers) handleQueueAdd(
	i *discordgo.InteractionCreate,
	r server.Responder,
	options []*discordgo.ApplicationCommandInteractionDataOption,
) error {
	ctx := context.Background()

	sessionID, err := h.session(ctx, i)
	if err != nil {
		return respondError(r, err.Error())
	}

	track, err := h.search.LoadTrack(ctx, stringOption(options, "query"))
	if err != nil {
		return respondError(r, err.Error())
	}

	output, err := h.queue.Add(ctx, usecases.QueueAddInput{
		SessionID: sessionID,
		Track:     track,
	})
	if err != nil {
		return respondError(r, err.Error())
	}

	if !output.Added {
		return respondSuccess(r, fmt.Sprintf("%s is already queued at position %d.", trackLink(track), output.Position+1))
	}
	return respondSuccess(r, fmt.Sprintf("Added %s to the queue.", trackLink(track)))
}

func (h *CommandHandlers) handleQueueRemove(
	i *discordgo.InteractionCreate,
	r server.Responder,
	options []*discordgo.ApplicationCommandInteractionDataOption,
) error {
	ctx := context.Background()

	sessionID, err := h.session(ctx, i)
	if err != nil {
		return respondError(r, err.Error())
	}

	snapshot, err := h.sessions.Get(ctx, sessionID)
	if err != nil {
		return respondError(r, err.Error())
	}

	position := int(intOption(options, "position"))
	if position < 1 || position > len(snapshot.Queue) {
		return respondError(r, fmt.Sprintf("Position must be between 1 and %d.", len(snapshot.Queue)))
	}

	output, err := h.queue.Remove(ctx, usecases.QueueRemoveInput{
		SessionID: sessionID,
		TrackID:   snapshot.Queue[position-1].ID,
	})
	if err != nil {
		return respondError(r, err.Error())
	}
	if output.RemovedTrack == nil {
		return respondError(r, "That track is no longer in the queue.")
	}

	return respondSuccess(r, "Removed "+trackLink(*output.RemovedTrack)+".")
}

func (h *CommandHandlers) handleQueueClear(
	i *discordgo.InteractionCreate,
	r server.Responder,
) error {
	ctx := context.Background()

	sessionID, err := h.session(ctx, i)
	if err != nil {
		return respondError(r, err.Error())
	}

	if _, err := h.queue.Clear(ctx, sessionID); err != nil {
		return respondError(r, err.Error())
	}

	return respondSuccess(r, "Cleared the queue.")
}

func stringOption(options []*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	for _, opt := range options {
		if opt.Name == name && opt.Type == discordgo.ApplicationCommandOptionString {
			return opt.StringValue()
		}
	}
	return ""
}

func intOption(options []*discordgo.ApplicationCommandInteractionDataOption, name string) int64 {
	for _, opt := range options {
		if opt.Name == name && opt.Type == discordgo.ApplicationCommandOptionInteger {
			return opt.IntValue()
		}
	}
	return 0
}

func trackLink(track usecases.Track) string {
	if track.URI != "" {
		return fmt.Sprintf("[%s](%s)", track.Title, track.URI)
	}
	return "**" + track.Title + "**"
}

func respondError(r server.Responder, message string) error {
	return respondEmbed(r, &discordgo.MessageEmbed{
		Title:       "Error",
		Description: message,
		Color:       colorError,
	}, discordgo.MessageFlagsEphemeral)
}

func respondSuccess(r server.Responder, description string) error {
	return respondEmbed(r, &discordgo.MessageEmbed{
		Description: description,
		Color:       colorSuccess,
	}, 0)
}

func respondEmbed(r server.Responder, embed *discordgo.MessageEmbed, flags discordgo.MessageFlags) error {
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  flags,
		},
	})
}

func respondQueueList(r server.Responder, output *usecases.QueueListOutput) error {
	embed := &discordgo.MessageEmbed{
		Title: "Queue",
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Page %d/%d", output.CurrentPage, output.TotalPages),
		},
	}

	var sb strings.Builder
	if output.CurrentTrack != nil {
		state := "Paused"
		if output.IsPlaying {
			state = "Now Playing"
		}
		fmt.Fprintf(&sb, "### %s\n", state)
		writeTrackLine(&sb, 0, *output.CurrentTrack)
	}

	if output.TotalTracks == 0 {
		sb.WriteString("Queue is empty.")
	} else {
		sb.WriteString("### Up Next\n")
		start := (output.CurrentPage - 1) * output.PageSize
		for idx, track := range output.Tracks {
			writeTrackLine(&sb, start+idx+1, track)
		}
	}

	embed.Description = sb.String()

	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
}

// writeTrackLine writes one queue line. Index 0 omits the number.
// The period is escaped to prevent Discord markdown list formatting.
func writeTrackLine(sb *strings.Builder, index int, track usecases.Track) {
	if index > 0 {
		fmt.Fprintf(sb, "%d\\. ", index)
	}
	fmt.Fprintf(sb, "%s - %s `%s`\n", trackLink(track), track.Artist, track.FormattedDuration())
}

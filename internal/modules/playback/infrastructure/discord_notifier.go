package infrastructure

import (
	"context"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/sgrtune/internal/modules/playback/application/ports"
)

// Embed colors.
const (
	colorInfo    = 0x3498DB
	colorSuccess = 0x08c404
	colorWarning = 0xF1C40F
)

// EmbedSender is the part of *discordgo.Session used to post embeds.
type EmbedSender interface {
	ChannelMessageSendEmbed(
		channelID string,
		embed *discordgo.MessageEmbed,
		options ...discordgo.RequestOption,
	) (*discordgo.Message, error)
}

// DiscordNotifier posts session notifications as embeds to the text channel
// bound to the session. Sessions without a bound channel are skipped.
type DiscordNotifier struct {
	sender EmbedSender

	mu       sync.RWMutex
	channels map[snowflake.ID]snowflake.ID
}

// NewDiscordNotifier creates a new DiscordNotifier.
func NewDiscordNotifier(sender EmbedSender) *DiscordNotifier {
	return &DiscordNotifier{
		sender:   sender,
		channels: make(map[snowflake.ID]snowflake.ID),
	}
}

// Bind sets the channel notifications of the session are posted to.
func (n *DiscordNotifier) Bind(sessionID, channelID snowflake.ID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.channels[sessionID] = channelID
}

// Channel returns the channel bound to the session.
func (n *DiscordNotifier) Channel(sessionID snowflake.ID) (snowflake.ID, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	channelID, ok := n.channels[sessionID]
	return channelID, ok
}

// Forget unbinds the session's channel.
func (n *DiscordNotifier) Forget(sessionID snowflake.ID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.channels, sessionID)
}

// Notify implements ports.NotificationSender.
func (n *DiscordNotifier) Notify(_ context.Context, sessionID snowflake.ID, notification ports.Notification) error {
	channelID, ok := n.Channel(sessionID)
	if !ok {
		return nil
	}

	_, err := n.sender.ChannelMessageSendEmbed(channelID.String(), notificationEmbed(notification))
	return err
}

func notificationEmbed(notification ports.Notification) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       notification.Title,
		Description: notification.Message,
		Color:       levelColor(notification.Level),
	}
	if notification.ArtworkURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{
			URL: notification.ArtworkURL,
		}
	}
	return embed
}

func levelColor(level ports.NotificationLevel) int {
	switch level {
	case ports.NotificationSuccess:
		return colorSuccess
	case ports.NotificationWarning:
		return colorWarning
	default:
		return colorInfo
	}
}

var _ ports.NotificationSender = (*DiscordNotifier)(nil)

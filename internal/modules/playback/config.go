package playback

import (
	"github.com/sglre6355/sgrtune/internal/modules/playback/domain"
)

// Config holds the playback module configuration.
type Config struct {
	LavalinkAddress  string `env:"LAVALINK_ADDRESS"`
	LavalinkPassword string `env:"LAVALINK_PASSWORD"`
	LavalinkSecure   bool   `env:"LAVALINK_SECURE"`
	// LavalinkUserID is required when no Discord session provides the bot user.
	LavalinkUserID string `env:"LAVALINK_USER_ID"`

	HistoryLimit int     `env:"PLAYBACK_HISTORY_LIMIT" envDefault:"20"`
	GuestQueue   bool    `env:"PLAYBACK_GUEST_QUEUE" envDefault:"true"`
	SearchSource string  `env:"PLAYBACK_SEARCH_SOURCE" envDefault:"ytmsearch"`
	SearchRate   float64 `env:"PLAYBACK_SEARCH_RATE" envDefault:"5"`
	SearchBurst  int     `env:"PLAYBACK_SEARCH_BURST" envDefault:"10"`

	// HistoryDB is the SQLite database listening history is persisted to.
	// Empty disables persistence.
	HistoryDB string `env:"PLAYBACK_HISTORY_DB"`

	// AuthTokens maps bearer tokens to users, formatted "token:user,...".
	AuthTokens string `env:"AUTH_TOKENS"`
}

// SearchEnabled reports whether a Lavalink node is configured.
func (c *Config) SearchEnabled() bool {
	return c.LavalinkAddress != ""
}

// Source returns the configured search source.
func (c *Config) Source() domain.SearchSource {
	return domain.ParseSearchSource(c.SearchSource)
}

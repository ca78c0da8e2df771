package domain

import (
	"strings"
)

// SearchSource is the Lavalink search prefix used for free-text queries.
type SearchSource string

const (
	SourceYouTube      SearchSource = "ytsearch"
	SourceYouTubeMusic SearchSource = "ytmsearch"
	SourceSoundCloud   SearchSource = "scsearch"
	SourceSpotify      SearchSource = "spsearch" // requires the LavaSrc plugin
	// SourceDirect indicates a direct URL (no search prefix).
	SourceDirect SearchSource = ""
)

// DefaultSearchSource is used when no source is configured.
const DefaultSearchSource = SourceYouTubeMusic

// ParseSearchSource converts a configured source name to a SearchSource.
// Unknown names fall back to DefaultSearchSource.
func ParseSearchSource(name string) SearchSource {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "ytsearch", "youtube":
		return SourceYouTube
	case "scsearch", "soundcloud":
		return SourceSoundCloud
	case "spsearch", "spotify":
		return SourceSpotify
	default:
		return DefaultSearchSource
	}
}

// SearchQuery is a user-entered search term or URL.
type SearchQuery struct {
	Query  string
	Source SearchSource
	IsURL  bool
}

// NewSearchQuery creates a SearchQuery from user input.
// URLs are passed through untouched; anything else is searched on source.
func NewSearchQuery(input string, source SearchSource) SearchQuery {
	input = strings.TrimSpace(input)

	if isURL(input) {
		return SearchQuery{
			Query:  input,
			Source: SourceDirect,
			IsURL:  true,
		}
	}

	if source == SourceDirect {
		source = DefaultSearchSource
	}

	return SearchQuery{
		Query:  input,
		Source: source,
	}
}

// LavalinkQuery returns the query string formatted for Lavalink.
func (q SearchQuery) LavalinkQuery() string {
	if q.IsURL {
		return q.Query
	}
	return string(q.Source) + ":" + q.Query
}

// IsValid returns true if the query is not empty.
func (q SearchQuery) IsValid() bool {
	return q.Query != ""
}

func isURL(input string) bool {
	return strings.HasPrefix(input, "http://") ||
		strings.HasPrefix(input, "https://") ||
		strings.HasPrefix(input, "www.")
}

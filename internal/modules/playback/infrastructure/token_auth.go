package infrastructure

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/sglre6355/sgrtune/internal/modules/playback/application/ports"
)

// ErrUnknownToken is returned when a token is not registered.
var ErrUnknownToken = errors.New("unknown token")

// TokenAuthProvider authenticates static bearer tokens mapped to user IDs.
type TokenAuthProvider struct {
	tokens map[string]string
}

// ParseAuthTokens parses a "token:user,token:user" list.
func ParseAuthTokens(list string) (map[string]string, error) {
	tokens := make(map[string]string)
	for _, pair := range strings.Split(list, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		token, user, ok := strings.Cut(pair, ":")
		token = strings.TrimSpace(token)
		user = strings.TrimSpace(user)
		if !ok || token == "" || user == "" {
			return nil, fmt.Errorf("invalid auth token entry %q", pair)
		}
		tokens[token] = user
	}
	return tokens, nil
}

// NewTokenAuthProvider creates a new TokenAuthProvider.
func NewTokenAuthProvider(tokens map[string]string) *TokenAuthProvider {
	copied := make(map[string]string, len(tokens))
	for token, user := range tokens {
		copied[token] = user
	}
	return &TokenAuthProvider{tokens: copied}
}

// Authenticate implements ports.AuthProvider.
func (p *TokenAuthProvider) Authenticate(_ context.Context, token string) (*ports.Identity, error) {
	for known, user := range p.tokens {
		if subtle.ConstantTimeCompare([]byte(known), []byte(token)) == 1 {
			return &ports.Identity{UserID: user, DisplayName: user}, nil
		}
	}
	return nil, ErrUnknownToken
}

var _ ports.AuthProvider = (*TokenAuthProvider)(nil)

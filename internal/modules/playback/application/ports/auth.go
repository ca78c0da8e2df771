package ports

import "context"

// Identity is an authenticated listener.
type Identity struct {
	UserID      string
	DisplayName string
}

// AuthProvider defines the interface for resolving a bearer credential to a user.
type AuthProvider interface {
	// Authenticate returns the identity for the token, or error if the token is unknown.
	Authenticate(ctx context.Context, token string) (*Identity, error)
}

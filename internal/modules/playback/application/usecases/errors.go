package usecases

import (
	"errors"

	"github.com/sglre6355/sgrtune/internal/modules/playback/domain"
)

// Application errors for the playback module.
var (
	// ErrSessionNotFound is returned when an operation names an unknown session.
	ErrSessionNotFound = domain.ErrSessionNotFound

	// ErrInvalidTrack is returned when a supplied track lacks an ID or title.
	ErrInvalidTrack = errors.New("track must have an id and a title")

	// ErrUnauthenticated is returned when a bearer credential is rejected.
	ErrUnauthenticated = errors.New("invalid credentials")

	// ErrNotSessionOwner is returned when an authenticated user acts on a
	// session owned by someone else.
	ErrNotSessionOwner = errors.New("session belongs to another user")

	// ErrGuestNotPermitted is returned when a guest session attempts a gated action.
	ErrGuestNotPermitted = errors.New("sign in to use this feature")

	// ErrHistoryUnavailable is returned when no history recorder is configured.
	ErrHistoryUnavailable = errors.New("listening history is not available")

	// ErrSearchUnavailable is returned when no track resolver is configured.
	ErrSearchUnavailable = errors.New("search is not available")

	// ErrEmptyQuery is returned when a search query is blank.
	ErrEmptyQuery = errors.New("search query is empty")

	// ErrNoResults is returned when a search yields no results.
	ErrNoResults = errors.New("no results found")

	// ErrSuperseded is returned when a newer search for the same session
	// replaced this one before it completed. The result must be discarded.
	ErrSuperseded = errors.New("search superseded by a newer request")

	// ErrLoadFailed is returned when loading tracks fails.
	ErrLoadFailed = errors.New("failed to load tracks")
)

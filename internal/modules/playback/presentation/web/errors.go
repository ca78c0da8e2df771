package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sglre6355/sgrtune/internal/modules/playback/application/usecases"
)

// Request errors.
var (
	ErrInvalidSessionID = errors.New("invalid session id")
	ErrInvalidBody      = errors.New("invalid request body")
	ErrInvalidParameter = errors.New("invalid query parameter")
)

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps an error to the HTTP status reported to the client.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrInvalidSessionID),
		errors.Is(err, ErrInvalidBody),
		errors.Is(err, ErrInvalidParameter),
		errors.Is(err, usecases.ErrInvalidTrack),
		errors.Is(err, usecases.ErrEmptyQuery):
		return http.StatusBadRequest
	case errors.Is(err, usecases.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, usecases.ErrGuestNotPermitted), errors.Is(err, usecases.ErrNotSessionOwner):
		return http.StatusForbidden
	case errors.Is(err, usecases.ErrSessionNotFound), errors.Is(err, usecases.ErrNoResults):
		return http.StatusNotFound
	case errors.Is(err, usecases.ErrSuperseded):
		return http.StatusConflict
	case errors.Is(err, usecases.ErrLoadFailed):
		return http.StatusBadGateway
	case errors.Is(err, usecases.ErrSearchUnavailable), errors.Is(err, usecases.ErrHistoryUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		message = http.StatusText(status)
	}
	writeJSON(w, status, errorResponse{Error: message})
}

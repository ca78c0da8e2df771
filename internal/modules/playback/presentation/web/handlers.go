package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/disgoorg/snowflake/v2"
	"github.com/go-chi/chi/v5"
	"github.com/sglre6355/sgrtune/internal/modules/playback/application/usecases"
)

const maxBodyBytes = 64 << 10

// SessionStreamer upgrades a request to a stream of session events.
type SessionStreamer interface {
	ServeSession(w http.ResponseWriter, r *http.Request, sessionID snowflake.ID)
}

// Handlers serves the JSON API used by the web front end.
type Handlers struct {
	sessions *usecases.SessionService
	playback *usecases.PlaybackService
	queue    *usecases.QueueService
	likes    *usecases.LikeService
	search   *usecases.SearchService
	stream   SessionStreamer
}

// NewHandlers creates new Handlers. stream may be nil, in which case the
// WebSocket endpoint is not mounted.
func NewHandlers(
	sessions *usecases.SessionService,
	playback *usecases.PlaybackService,
	queue *usecases.QueueService,
	likes *usecases.LikeService,
	search *usecases.SearchService,
	stream SessionStreamer,
) *Handlers {
	return &Handlers{
		sessions: sessions,
		playback: playback,
		queue:    queue,
		likes:    likes,
		search:   search,
		stream:   stream,
	}
}

// Routes mounts the API under /api.
func (h *Handlers) Routes(r chi.Router) {
	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", h.handleOpen)

		r.Route("/{sessionID}", func(r chi.Router) {
			r.Use(h.requireAccess)

			r.Get("/", h.handleGet)
			r.Delete("/", h.handleClose)

			r.Post("/play", h.handlePlay)
			r.Post("/pause", h.transport(h.playback.Pause))
			r.Post("/resume", h.transport(h.playback.Resume))
			r.Post("/next", h.transport(h.playback.Next))
			r.Post("/previous", h.transport(h.playback.Previous))

			r.Get("/queue", h.handleQueueList)
			r.Post("/queue", h.handleQueueAdd)
			r.Delete("/queue", h.handleQueueClear)
			r.Delete("/queue/{trackID}", h.handleQueueRemove)

			r.Post("/likes", h.handleToggleLike)
			r.Get("/likes/{trackID}", h.handleIsLiked)

			r.Get("/search", h.handleSearch)
			r.Get("/history", h.handleHistory)

			if h.stream != nil {
				r.Get("/ws", h.handleStream)
			}
		})
	})
}

// requireAccess rejects requests for unknown sessions, and requests for an
// owned session that do not carry the owner's bearer token.
func (h *Handlers) requireAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := sessionIDParam(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		if _, err := h.sessions.Authorize(r.Context(), sessionID, bearerToken(r)); err != nil {
			writeError(w, r, err)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (h *Handlers) handleOpen(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.sessions.Open(r.Context(), usecases.OpenSessionInput{
		Token: bearerToken(r),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, newSessionDTO(snapshot))
}

func (h *Handlers) handleGet(w http.ResponseWriter, r *http.Request) {
	sessionID, err := sessionIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	snapshot, err := h.sessions.Get(r.Context(), sessionID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newSessionDTO(snapshot))
}

func (h *Handlers) handleClose(w http.ResponseWriter, r *http.Request) {
	sessionID, err := sessionIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.sessions.Close(r.Context(), sessionID); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) handlePlay(w http.ResponseWriter, r *http.Request) {
	sessionID, err := sessionIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	track, err := h.decodeTrack(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	output, err := h.playback.Play(r.Context(), usecases.PlayInput{
		SessionID: sessionID,
		Track:     track,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newSessionDTO(output.Snapshot))
}

// transport adapts a parameterless transport operation to a handler.
func (h *Handlers) transport(
	op func(context.Context, snowflake.ID) (*usecases.PlaybackOutput, error),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := sessionIDParam(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		output, err := op(r.Context(), sessionID)
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, newSessionDTO(output.Snapshot))
	}
}

func (h *Handlers) handleQueueList(w http.ResponseWriter, r *http.Request) {
	sessionID, err := sessionIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	page, err := intParam(r, "page")
	if err != nil {
		writeError(w, r, err)
		return
	}
	pageSize, err := intParam(r, "page_size")
	if err != nil {
		writeError(w, r, err)
		return
	}

	output, err := h.queue.List(r.Context(), usecases.QueueListInput{
		SessionID: sessionID,
		Page:      page,
		PageSize:  pageSize,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := queueResponse{
		IsPlaying:   output.IsPlaying,
		Tracks:      newTrackDTOs(output.Tracks),
		TotalTracks: output.TotalTracks,
		Page:        output.CurrentPage,
		TotalPages:  output.TotalPages,
		PageSize:    output.PageSize,
	}
	if output.CurrentTrack != nil {
		current := newTrackDTO(*output.CurrentTrack)
		resp.CurrentTrack = &current
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) handleQueueAdd(w http.ResponseWriter, r *http.Request) {
	sessionID, err := sessionIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	track, err := h.decodeTrack(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	output, err := h.queue.Add(r.Context(), usecases.QueueAddInput{
		SessionID: sessionID,
		Track:     track,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	status := http.StatusCreated
	if !output.Added {
		status = http.StatusOK
	}
	writeJSON(w, status, queueAddResponse{
		Added:    output.Added,
		Position: output.Position,
		Track:    newTrackDTO(track),
	})
}

func (h *Handlers) handleQueueClear(w http.ResponseWriter, r *http.Request) {
	sessionID, err := sessionIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	output, err := h.queue.Clear(r.Context(), sessionID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"cleared": output.ClearedCount})
}

func (h *Handlers) handleQueueRemove(w http.ResponseWriter, r *http.Request) {
	sessionID, err := sessionIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	output, err := h.queue.Remove(r.Context(), usecases.QueueRemoveInput{
		SessionID: sessionID,
		TrackID:   usecases.TrackID(chi.URLParam(r, "trackID")),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"removed": output.RemovedTrack != nil})
}

func (h *Handlers) handleToggleLike(w http.ResponseWriter, r *http.Request) {
	sessionID, err := sessionIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	track, err := h.decodeTrack(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	output, err := h.likes.Toggle(r.Context(), usecases.ToggleLikeInput{
		SessionID: sessionID,
		Track:     track,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"liked": output.Liked})
}

func (h *Handlers) handleIsLiked(w http.ResponseWriter, r *http.Request) {
	sessionID, err := sessionIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	liked, err := h.likes.IsLiked(r.Context(), sessionID, usecases.TrackID(chi.URLParam(r, "trackID")))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"liked": liked})
}

func (h *Handlers) handleSearch(w http.ResponseWriter, r *http.Request) {
	sessionID, err := sessionIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	limit, err := intParam(r, "limit")
	if err != nil {
		writeError(w, r, err)
		return
	}

	output, err := h.search.Search(r.Context(), usecases.SearchInput{
		SessionID: sessionID,
		Query:     r.URL.Query().Get("q"),
		Limit:     limit,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{
		RequestID: output.RequestID,
		Tracks:    newTrackDTOs(output.Tracks),
	})
}

func (h *Handlers) handleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID, err := sessionIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	limit, err := intParam(r, "limit")
	if err != nil {
		writeError(w, r, err)
		return
	}

	records, err := h.sessions.RecentPlays(r.Context(), usecases.RecentPlaysInput{
		SessionID: sessionID,
		Limit:     limit,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	plays := make([]playRecordDTO, len(records))
	for i, record := range records {
		plays[i] = playRecordDTO{
			ID:       record.ID,
			Track:    newTrackDTO(record.Track),
			PlayedAt: record.PlayedAt,
		}
	}

	writeJSON(w, http.StatusOK, map[string][]playRecordDTO{"plays": plays})
}

func (h *Handlers) handleStream(w http.ResponseWriter, r *http.Request) {
	sessionID, err := sessionIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.stream.ServeSession(w, r, sessionID)
}

// decodeTrack reads a track from the request body. A body carrying only a
// query is resolved through search.
func (h *Handlers) decodeTrack(w http.ResponseWriter, r *http.Request) (usecases.Track, error) {
	var req trackRequest
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return usecases.Track{}, fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}

	if req.ID == "" && strings.TrimSpace(req.Query) != "" {
		return h.search.LoadTrack(r.Context(), req.Query)
	}

	return req.toTrack(), nil
}

func sessionIDParam(r *http.Request) (snowflake.ID, error) {
	id, err := snowflake.Parse(chi.URLParam(r, "sessionID"))
	if err != nil || id == 0 {
		return 0, ErrInvalidSessionID
	}
	return id, nil
}

func intParam(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s", ErrInvalidParameter, name)
	}
	return n, nil
}

// bearerToken reads the Authorization header, falling back to the
// access_token query parameter for clients that cannot set headers
// (browser WebSockets).
func bearerToken(r *http.Request) string {
	if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return r.URL.Query().Get("access_token")
}

package application

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/sgrtune/internal/modules/playback/application/ports"
	"github.com/sglre6355/sgrtune/internal/modules/playback/domain"
)

// subscribe registers handler for every given event type.
func subscribe(
	subscriber ports.EventSubscriber,
	handler func(context.Context, domain.Event),
	eventTypes ...reflect.Type,
) error {
	for _, eventType := range eventTypes {
		if err := subscriber.Subscribe(eventType, handler); err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", eventType.Name(), err)
		}
	}
	return nil
}

// NotificationEventHandler turns playback events into user-visible notifications.
type NotificationEventHandler struct {
	subscriber ports.EventSubscriber
	notifier   ports.NotificationSender
}

// NewNotificationEventHandler creates a new NotificationEventHandler.
func NewNotificationEventHandler(
	subscriber ports.EventSubscriber,
	notifier ports.NotificationSender,
) *NotificationEventHandler {
	return &NotificationEventHandler{
		subscriber: subscriber,
		notifier:   notifier,
	}
}

// Start registers event handlers with the subscriber.
func (h *NotificationEventHandler) Start() error {
	err := subscribe(h.subscriber, h.handle,
		reflect.TypeFor[domain.TrackStartedEvent](),
		reflect.TypeFor[domain.PlaybackStoppedEvent](),
		reflect.TypeFor[domain.TrackEnqueuedEvent](),
		reflect.TypeFor[domain.TrackAlreadyQueuedEvent](),
		reflect.TypeFor[domain.TrackDequeuedEvent](),
		reflect.TypeFor[domain.QueueClearedEvent](),
		reflect.TypeFor[domain.TrackLikeToggledEvent](),
	)
	if err != nil {
		return err
	}

	slog.Debug("notification event handlers properly registered")

	return nil
}

func (h *NotificationEventHandler) handle(ctx context.Context, event domain.Event) {
	notification, ok := NotificationFor(event)
	if !ok {
		return
	}

	if err := h.notifier.Notify(ctx, event.EventSessionID(), notification); err != nil {
		slog.Warn(
			"failed to send notification",
			"session", event.EventSessionID(),
			"title", notification.Title,
			"error", err,
		)
	}
}

// NotificationFor builds the notification shown for an event.
// Returns false for events that are not announced.
func NotificationFor(event domain.Event) (ports.Notification, bool) {
	switch e := event.(type) {
	case domain.TrackStartedEvent:
		return ports.Notification{
			Level:      ports.NotificationSuccess,
			Title:      "Now Playing",
			Message:    describe(e.Track),
			ArtworkURL: e.Track.ArtworkURL,
		}, true

	case domain.PlaybackStoppedEvent:
		return ports.Notification{
			Level:   ports.NotificationInfo,
			Title:   "Playback Stopped",
			Message: "Reached the end of the queue.",
		}, true

	case domain.TrackEnqueuedEvent:
		return ports.Notification{
			Level:      ports.NotificationSuccess,
			Title:      "Added to Queue",
			Message:    describe(e.Track),
			ArtworkURL: e.Track.ArtworkURL,
		}, true

	case domain.TrackAlreadyQueuedEvent:
		return ports.Notification{
			Level:   ports.NotificationWarning,
			Title:   "Already Queued",
			Message: fmt.Sprintf("%s is already in the queue.", e.Track.Title),
		}, true

	case domain.TrackDequeuedEvent:
		return ports.Notification{
			Level:   ports.NotificationInfo,
			Title:   "Removed from Queue",
			Message: describe(e.Track),
		}, true

	case domain.QueueClearedEvent:
		return ports.Notification{
			Level:   ports.NotificationInfo,
			Title:   "Queue Cleared",
			Message: fmt.Sprintf("Removed %d track(s) from the queue.", e.ClearedCount),
		}, true

	case domain.TrackLikeToggledEvent:
		title := "Removed from Liked Tracks"
		if e.Liked {
			title = "Added to Liked Tracks"
		}
		return ports.Notification{
			Level:   ports.NotificationSuccess,
			Title:   title,
			Message: describe(e.Track),
		}, true

	default:
		return ports.Notification{}, false
	}
}

func describe(track domain.Track) string {
	if track.Artist == "" {
		return track.Title
	}
	return fmt.Sprintf("%s by %s", track.Title, track.Artist)
}

// StateEventHandler pushes a fresh session snapshot to subscribers after every
// state-changing event.
type StateEventHandler struct {
	sessions   domain.SessionRepository
	subscriber ports.EventSubscriber
	publisher  ports.StatePublisher
}

// NewStateEventHandler creates a new StateEventHandler.
func NewStateEventHandler(
	sessions domain.SessionRepository,
	subscriber ports.EventSubscriber,
	publisher ports.StatePublisher,
) *StateEventHandler {
	return &StateEventHandler{
		sessions:   sessions,
		subscriber: subscriber,
		publisher:  publisher,
	}
}

// Start registers event handlers with the subscriber.
func (h *StateEventHandler) Start() error {
	err := subscribe(h.subscriber, h.handle,
		reflect.TypeFor[domain.TrackStartedEvent](),
		reflect.TypeFor[domain.PlaybackPausedEvent](),
		reflect.TypeFor[domain.PlaybackResumedEvent](),
		reflect.TypeFor[domain.PlaybackStoppedEvent](),
		reflect.TypeFor[domain.TrackEnqueuedEvent](),
		reflect.TypeFor[domain.TrackDequeuedEvent](),
		reflect.TypeFor[domain.QueueClearedEvent](),
		reflect.TypeFor[domain.TrackLikeToggledEvent](),
	)
	if err != nil {
		return err
	}

	slog.Debug("state event handlers properly registered")

	return nil
}

func (h *StateEventHandler) handle(ctx context.Context, event domain.Event) {
	snapshot, err := h.sessions.Get(ctx, event.EventSessionID())
	if err != nil {
		slog.Debug(
			"session gone before state push, skipping",
			"session", event.EventSessionID(),
		)
		return
	}

	if err := h.publisher.PublishState(ctx, snapshot); err != nil {
		slog.Warn(
			"failed to publish session state",
			"session", event.EventSessionID(),
			"error", err,
		)
	}
}

// HistoryEventHandler persists plays of authenticated sessions.
// Guest sessions play locally only.
type HistoryEventHandler struct {
	sessions   domain.SessionRepository
	subscriber ports.EventSubscriber
	recorder   ports.HistoryRecorder
	now        func() time.Time
}

// NewHistoryEventHandler creates a new HistoryEventHandler.
func NewHistoryEventHandler(
	sessions domain.SessionRepository,
	subscriber ports.EventSubscriber,
	recorder ports.HistoryRecorder,
) *HistoryEventHandler {
	return &HistoryEventHandler{
		sessions:   sessions,
		subscriber: subscriber,
		recorder:   recorder,
		now:        time.Now,
	}
}

// Start registers event handlers with the subscriber.
func (h *HistoryEventHandler) Start() error {
	err := subscribe(h.subscriber, h.handle, reflect.TypeFor[domain.TrackStartedEvent]())
	if err != nil {
		return err
	}

	slog.Debug("history event handlers properly registered")

	return nil
}

func (h *HistoryEventHandler) handle(ctx context.Context, e domain.Event) {
	event, ok := e.(domain.TrackStartedEvent)
	if !ok {
		return
	}

	snapshot, err := h.sessions.Get(ctx, event.SessionID)
	if err != nil {
		slog.Warn("track started but session not found", "session", event.SessionID)
		return
	}
	if snapshot.OwnerID == "" {
		return
	}

	if err := h.recorder.RecordPlay(ctx, snapshot.OwnerID, event.Track, h.now().UTC()); err != nil {
		slog.Error(
			"failed to record play",
			"session", event.SessionID,
			"track", event.Track.ID,
			"error", err,
		)
	}
}

// SessionForgetter is implemented by components holding per-session resources.
type SessionForgetter interface {
	Forget(sessionID snowflake.ID)
}

// LifecycleEventHandler releases per-session resources when a session closes.
type LifecycleEventHandler struct {
	subscriber ports.EventSubscriber
	forgetters []SessionForgetter
}

// NewLifecycleEventHandler creates a new LifecycleEventHandler.
func NewLifecycleEventHandler(
	subscriber ports.EventSubscriber,
	forgetters ...SessionForgetter,
) *LifecycleEventHandler {
	return &LifecycleEventHandler{
		subscriber: subscriber,
		forgetters: forgetters,
	}
}

// Start registers event handlers with the subscriber.
func (h *LifecycleEventHandler) Start() error {
	return subscribe(h.subscriber, h.handle, reflect.TypeFor[domain.SessionClosedEvent]())
}

func (h *LifecycleEventHandler) handle(_ context.Context, event domain.Event) {
	for _, f := range h.forgetters {
		f.Forget(event.EventSessionID())
	}
	slog.Debug("released session resources", "session", event.EventSessionID())
}

package ports

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/sgrtune/internal/modules/playback/domain"
)

// NotificationSender defines the interface for user-visible toasts.
type NotificationSender interface {
	// Notify delivers the notification to every surface showing the session.
	Notify(ctx context.Context, sessionID snowflake.ID, notification Notification) error
}

// StatePublisher defines the interface for pushing session changes to subscribers
// so they can re-render.
type StatePublisher interface {
	PublishState(ctx context.Context, snapshot domain.SessionSnapshot) error
}

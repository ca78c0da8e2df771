package infrastructure

import (
	"context"
	"errors"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/sgrtune/internal/modules/playback/application/ports"
)

// MultiNotifier delivers every notification to all of its senders.
type MultiNotifier []ports.NotificationSender

// Notify implements ports.NotificationSender. A failing sender does not stop
// delivery to the others; all failures are returned joined.
func (m MultiNotifier) Notify(ctx context.Context, sessionID snowflake.ID, notification ports.Notification) error {
	var errs []error
	for _, sender := range m {
		if err := sender.Notify(ctx, sessionID, notification); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var _ ports.NotificationSender = MultiNotifier(nil)

package ports

import (
	"context"
	"reflect"

	"github.com/sglre6355/sgrtune/internal/modules/playback/domain"
)

// EventSubscriber registers handlers per concrete event type. Handlers of one
// bus run sequentially in publish order.
type EventSubscriber interface {
	Subscribe(eventType reflect.Type, handler func(context.Context, domain.Event)) error
}

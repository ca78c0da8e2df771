package ports

import "github.com/sglre6355/sgrtune/internal/modules/playback/domain"

// EventPublisher hands domain events to the bus. Publish must not block on
// subscribers: it is called while a session is locked.
type EventPublisher interface {
	Publish(event domain.Event) error
}

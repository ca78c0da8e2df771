package application

import (
	"time"

	"github.com/sglre6355/sgrtune/internal/modules/health/domain"
)

// StatusInteractor reports process liveness.
type StatusInteractor struct {
	startedAt time.Time
	now       func() time.Time
}

// NewStatusInteractor creates a StatusInteractor for a process started at startedAt.
func NewStatusInteractor(startedAt time.Time, now func() time.Time) *StatusInteractor {
	if now == nil {
		now = time.Now
	}
	return &StatusInteractor{startedAt: startedAt, now: now}
}

// Execute returns the current status.
func (s *StatusInteractor) Execute() *domain.Status {
	return domain.NewStatus(s.startedAt, s.now())
}

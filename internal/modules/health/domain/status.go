package domain

import "time"

// StatusOK is reported while the process is serving requests.
const StatusOK = "ok"

// Status describes the liveness of the running process.
type Status struct {
	Status    string
	StartedAt time.Time
	Uptime    time.Duration
}

// NewStatus creates a Status for a process started at startedAt, observed at now.
func NewStatus(startedAt, now time.Time) *Status {
	uptime := now.Sub(startedAt)
	if uptime < 0 {
		uptime = 0
	}

	return &Status{
		Status:    StatusOK,
		StartedAt: startedAt,
		Uptime:    uptime,
	}
}

// PingReply is the message returned by the /ping command.
func (s *Status) PingReply() string {
	return "Pong! (up " + s.Uptime.Truncate(time.Second).String() + ")"
}

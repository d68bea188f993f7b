package domain

import "time"

// ActivityType distinguishes synthesized feed events.
type ActivityType string

const (
	ActivityCreated  ActivityType = "created"
	ActivityResolved ActivityType = "resolved"
)

// ActivityEvent is a synthesized, human-readable feed entry derived from
// escalation state. It is never persisted; the feed is recomputed from the
// escalation set on demand.
type ActivityEvent struct {
	ID           string
	Type         ActivityType
	EscalationID string
	TicketNumber string
	Title        string
	ReporterName string
	Timestamp    time.Time
}

package events

import (
	"time"

	"github.com/scholarlift/escalation-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventEscalationCreated       EventType = "escalation_created"
	EventEscalationAssigned      EventType = "escalation_assigned"
	EventEscalationStatusChanged EventType = "escalation_status_changed"
	EventEscalationResolved      EventType = "escalation_resolved"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID           string      `json:"id"`
	Type         EventType   `json:"type"`
	EscalationID string      `json:"escalation_id"`
	ActorID      string      `json:"actor_id"`
	Timestamp    time.Time   `json:"timestamp"`
	Payload      interface{} `json:"payload"`
}

// EscalationCreatedPayload payload.
type EscalationCreatedPayload struct {
	TicketNumber string                    `json:"ticket_number"`
	Category     domain.EscalationCategory `json:"category"`
	Priority     domain.EscalationPriority `json:"priority"`
	Title        string                    `json:"title"`
	SchoolID     *string                   `json:"school_id,omitempty"`
	TeamID       *string                   `json:"team_id,omitempty"`
}

// EscalationAssignedPayload payload.
type EscalationAssignedPayload struct {
	AssigneeID string `json:"assignee_id"`
}

// EscalationStatusChangedPayload payload.
type EscalationStatusChangedPayload struct {
	OldStatus domain.EscalationStatus `json:"old_status"`
	NewStatus domain.EscalationStatus `json:"new_status"`
}

// EscalationResolvedPayload payload.
type EscalationResolvedPayload struct {
	ResolutionTimeHours float64 `json:"resolution_time_hours"`
	Satisfaction        *int    `json:"satisfaction,omitempty"`
}

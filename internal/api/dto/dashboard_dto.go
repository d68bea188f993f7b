package dto

import (
	"time"

	"github.com/scholarlift/escalation-service/internal/domain"
)

// SLAMetricsResponse is the KPI envelope for a region dashboard.
type SLAMetricsResponse struct {
	Region             string  `json:"region"`
	Total              int     `json:"total"`
	Open               int     `json:"open"`
	ResolvedThisMonth  int     `json:"resolved_this_month"`
	AvgResolutionHours float64 `json:"avg_resolution_hours"`
}

// ActivityEventResponse is one synthesized feed entry.
type ActivityEventResponse struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	EscalationID string    `json:"escalation_id"`
	TicketNumber string    `json:"ticket_number"`
	Title        string    `json:"title"`
	ReporterName string    `json:"reporter_name,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// FromActivityEvent maps a feed entry to its wire shape.
func FromActivityEvent(event domain.ActivityEvent) ActivityEventResponse {
	return ActivityEventResponse{
		ID:           event.ID,
		Type:         string(event.Type),
		EscalationID: event.EscalationID,
		TicketNumber: event.TicketNumber,
		Title:        event.Title,
		ReporterName: event.ReporterName,
		Timestamp:    event.Timestamp,
	}
}

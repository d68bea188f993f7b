package dto

import (
	"time"

	"github.com/scholarlift/escalation-service/internal/domain"
)

// CreateEscalationRequest payload.
type CreateEscalationRequest struct {
	Category    domain.EscalationCategory `json:"category"`
	Priority    domain.EscalationPriority `json:"priority"`
	Urgency     string                    `json:"urgency"`
	Impact      string                    `json:"impact"`
	Title       string                    `json:"title"`
	Description string                    `json:"description"`
	SchoolID    *string                   `json:"school_id"`
	TeamID      *string                   `json:"team_id"`
	MultiRegion bool                      `json:"multi_region"`
	DueDate     *time.Time                `json:"due_date"`
	Tags        []string                  `json:"tags"`
	Watchers    []string                  `json:"watchers"`
	Attachments []string                  `json:"attachments"`
}

// UpdateEscalationRequest carries a partial update.
type UpdateEscalationRequest struct {
	Title       *string                    `json:"title"`
	Description *string                    `json:"description"`
	Category    *domain.EscalationCategory `json:"category"`
	Priority    *domain.EscalationPriority `json:"priority"`
	Urgency     *string                    `json:"urgency"`
	Impact      *string                    `json:"impact"`
	Status      *domain.EscalationStatus   `json:"status"`
	DueDate     *time.Time                 `json:"due_date"`
	Tags        []string                   `json:"tags"`
	Watchers    []string                   `json:"watchers"`
	Attachments []string                   `json:"attachments"`
}

// AssignEscalationRequest payload.
type AssignEscalationRequest struct {
	AssigneeID string `json:"assignee_id"`
}

// ResolveEscalationRequest payload.
type ResolveEscalationRequest struct {
	ResolutionNotes string `json:"resolution_notes"`
	Satisfaction    *int   `json:"satisfaction"`
}

// EscalationResponse is the full wire representation.
type EscalationResponse struct {
	ID                  string                    `json:"id"`
	TicketNumber        string                    `json:"ticket_number"`
	Category            domain.EscalationCategory `json:"category"`
	Priority            domain.EscalationPriority `json:"priority"`
	Urgency             string                    `json:"urgency,omitempty"`
	Impact              string                    `json:"impact,omitempty"`
	Status              domain.EscalationStatus   `json:"status"`
	ReporterID          string                    `json:"reporter_id"`
	ReporterName        *string                   `json:"reporter_name,omitempty"`
	AssigneeID          *string                   `json:"assignee_id,omitempty"`
	SchoolID            *string                   `json:"school_id,omitempty"`
	TeamID              *string                   `json:"team_id,omitempty"`
	MultiRegion         bool                      `json:"multi_region"`
	Title               string                    `json:"title"`
	Description         string                    `json:"description"`
	ResolutionNotes     *string                   `json:"resolution_notes,omitempty"`
	Satisfaction        *int                      `json:"satisfaction,omitempty"`
	Tags                []string                  `json:"tags,omitempty"`
	Watchers            []string                  `json:"watchers,omitempty"`
	Attachments         []string                  `json:"attachments,omitempty"`
	CreatedAt           time.Time                 `json:"created_at"`
	UpdatedAt           time.Time                 `json:"updated_at"`
	DueDate             *time.Time                `json:"due_date,omitempty"`
	AssignedAt          *time.Time                `json:"assigned_at,omitempty"`
	ResolvedAt          *time.Time                `json:"resolved_at,omitempty"`
	ClosedAt            *time.Time                `json:"closed_at,omitempty"`
	ResolutionTimeHours *float64                  `json:"resolution_time_hours,omitempty"`
	Overdue             bool                      `json:"overdue"`
}

// FromEscalation maps the domain record to its wire shape.
func FromEscalation(e *domain.Escalation, now time.Time) EscalationResponse {
	return EscalationResponse{
		ID:                  e.ID,
		TicketNumber:        e.TicketNumber,
		Category:            e.Category,
		Priority:            e.Priority,
		Urgency:             e.Urgency,
		Impact:              e.Impact,
		Status:              e.Status,
		ReporterID:          e.ReporterID,
		ReporterName:        e.ReporterName,
		AssigneeID:          e.AssigneeID,
		SchoolID:            e.SchoolID,
		TeamID:              e.TeamID,
		MultiRegion:         e.MultiRegion,
		Title:               e.Title,
		Description:         e.Description,
		ResolutionNotes:     e.ResolutionNotes,
		Satisfaction:        e.Satisfaction,
		Tags:                e.Tags,
		Watchers:            e.Watchers,
		Attachments:         e.Attachments,
		CreatedAt:           e.CreatedAt,
		UpdatedAt:           e.UpdatedAt,
		DueDate:             e.DueDate,
		AssignedAt:          e.AssignedAt,
		ResolvedAt:          e.ResolvedAt,
		ClosedAt:            e.ClosedAt,
		ResolutionTimeHours: e.ResolutionTimeHours,
		Overdue:             e.IsOverdue(now),
	}
}

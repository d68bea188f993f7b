package domain

import (
	"math"
	"time"
)

// EscalationStatus is the lifecycle state of an escalation record.
type EscalationStatus string

const (
	EscalationStatusOpen       EscalationStatus = "OPEN"
	EscalationStatusAssigned   EscalationStatus = "ASSIGNED"
	EscalationStatusInProgress EscalationStatus = "IN_PROGRESS"
	EscalationStatusPending    EscalationStatus = "PENDING"
	EscalationStatusResolved   EscalationStatus = "RESOLVED"
	EscalationStatusClosed     EscalationStatus = "CLOSED"
	EscalationStatusReopened   EscalationStatus = "REOPENED"
)

// EscalationPriority orders escalations for triage.
type EscalationPriority string

const (
	EscalationPriorityLow      EscalationPriority = "Low"
	EscalationPriorityMedium   EscalationPriority = "Medium"
	EscalationPriorityHigh     EscalationPriority = "High"
	EscalationPriorityCritical EscalationPriority = "Critical"
)

// EscalationCategory classifies what an escalation is about.
type EscalationCategory string

const (
	CategorySchoolIssue     EscalationCategory = "school_issue"
	CategoryAmbassadorIssue EscalationCategory = "ambassador_issue"
	CategoryTechnical       EscalationCategory = "technical"
	CategoryCompliance      EscalationCategory = "compliance"
	CategoryFinance         EscalationCategory = "finance"
	CategoryPartnership     EscalationCategory = "partnership"
	CategoryTraining        EscalationCategory = "training"
)

// RegionMulti is the dashboard pseudo-region that matches only records
// explicitly flagged as spanning multiple countries.
const RegionMulti = "multi-country"

// Escalation is the central record of the lifecycle engine. Reporter,
// school and team regions are denormalized at read time so region
// membership can be decided without extra lookups.
type Escalation struct {
	ID           string
	TicketNumber string
	Category     EscalationCategory
	Priority     EscalationPriority
	Urgency      string
	Impact       string
	Status       EscalationStatus

	ReporterID string
	AssigneeID *string
	SchoolID   *string
	TeamID     *string

	ReporterName   *string
	ReporterRegion *string
	SchoolRegion   *string
	TeamRegion     *string
	MultiRegion    bool

	Title           string
	Description     string
	ResolutionNotes *string
	Satisfaction    *int
	Tags            []string
	Watchers        []string
	Attachments     []string

	CreatedAt           time.Time
	UpdatedAt           time.Time
	DueDate             *time.Time
	AssignedAt          *time.Time
	ResolvedAt          *time.Time
	ClosedAt            *time.Time
	ResolutionTimeHours *float64

	// Revision guards concurrent writers, bumped on every update.
	Revision int64
}

// InRegion reports whether the escalation belongs to the given region.
// Membership holds when the reporter, the linked school, or the linked
// team sits in that region. The multi-country pseudo-region matches the
// explicit marker only, never the relation regions.
func (e *Escalation) InRegion(region string) bool {
	if region == RegionMulti {
		return e.MultiRegion
	}
	return regionMatches(e.ReporterRegion, region) ||
		regionMatches(e.SchoolRegion, region) ||
		regionMatches(e.TeamRegion, region)
}

func regionMatches(have *string, want string) bool {
	return have != nil && *have == want
}

// OpenStatuses are the states counted as active work.
var OpenStatuses = []EscalationStatus{
	EscalationStatusOpen,
	EscalationStatusAssigned,
	EscalationStatusInProgress,
	EscalationStatusPending,
}

// AssignableStatuses are the states from which an assignee may be set.
var AssignableStatuses = []EscalationStatus{
	EscalationStatusOpen,
	EscalationStatusPending,
	EscalationStatusReopened,
}

// ResolvableStatuses are the states from which resolution is allowed.
var ResolvableStatuses = []EscalationStatus{
	EscalationStatusOpen,
	EscalationStatusAssigned,
	EscalationStatusInProgress,
	EscalationStatusPending,
	EscalationStatusReopened,
}

// allowedTransitions encodes the full lifecycle state machine. A status
// missing from the map is terminal except where listed as a source of
// REOPENED.
var allowedTransitions = map[EscalationStatus][]EscalationStatus{
	EscalationStatusOpen:       {EscalationStatusAssigned, EscalationStatusInProgress, EscalationStatusPending, EscalationStatusResolved},
	EscalationStatusAssigned:   {EscalationStatusInProgress, EscalationStatusPending, EscalationStatusResolved},
	EscalationStatusInProgress: {EscalationStatusPending, EscalationStatusResolved},
	EscalationStatusPending:    {EscalationStatusAssigned, EscalationStatusInProgress, EscalationStatusResolved},
	EscalationStatusResolved:   {EscalationStatusClosed, EscalationStatusReopened},
	EscalationStatusClosed:     {EscalationStatusReopened},
	EscalationStatusReopened:   {EscalationStatusAssigned, EscalationStatusInProgress, EscalationStatusPending, EscalationStatusResolved},
}

// IsValidTransition reports whether the lifecycle allows moving from
// one status to another.
func IsValidTransition(from, to EscalationStatus) bool {
	return StatusAllowed(to, allowedTransitions[from])
}

// StatusAllowed reports whether status is a member of the given set.
func StatusAllowed(status EscalationStatus, set []EscalationStatus) bool {
	for _, s := range set {
		if s == status {
			return true
		}
	}
	return false
}

// IsOpen reports whether the escalation counts as active work.
func (e *Escalation) IsOpen() bool {
	return StatusAllowed(e.Status, OpenStatuses)
}

// IsTerminal reports whether the escalation reached a resting state.
func (e *Escalation) IsTerminal() bool {
	return e.Status == EscalationStatusResolved || e.Status == EscalationStatusClosed
}

// IsOverdue reports whether an active escalation passed its due date.
func (e *Escalation) IsOverdue(now time.Time) bool {
	return e.IsOpen() && e.DueDate != nil && e.DueDate.Before(now)
}

// ResolutionHours is the elapsed creation-to-resolution time, rounded
// to the nearest whole hour.
func ResolutionHours(createdAt, resolvedAt time.Time) float64 {
	return math.Round(resolvedAt.Sub(createdAt).Hours())
}

// ValidStatus reports whether the value is a known lifecycle status.
func ValidStatus(s EscalationStatus) bool {
	switch s {
	case EscalationStatusOpen, EscalationStatusAssigned, EscalationStatusInProgress,
		EscalationStatusPending, EscalationStatusResolved, EscalationStatusClosed,
		EscalationStatusReopened:
		return true
	}
	return false
}

// ValidPriority reports whether the value is a known priority.
func ValidPriority(p EscalationPriority) bool {
	switch p {
	case EscalationPriorityLow, EscalationPriorityMedium, EscalationPriorityHigh, EscalationPriorityCritical:
		return true
	}
	return false
}

// ValidCategory reports whether the value is a known category.
func ValidCategory(c EscalationCategory) bool {
	switch c {
	case CategorySchoolIssue, CategoryAmbassadorIssue, CategoryTechnical,
		CategoryCompliance, CategoryFinance, CategoryPartnership, CategoryTraining:
		return true
	}
	return false
}

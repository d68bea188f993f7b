package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/scholarlift/escalation-service/internal/domain"
	"github.com/scholarlift/escalation-service/internal/events"
	"github.com/scholarlift/escalation-service/internal/repository"
	apperrors "github.com/scholarlift/escalation-service/pkg/util/errorutil"
)

// casAttempts bounds the reload-and-revalidate loop on a lost revision
// race. After exhaustion the caller gets a CONFLICT.
const casAttempts = 3

// EscalationService drives the escalation lifecycle: create, assign,
// resolve and field updates, all validated against the transition table
// and written through the revision-checked store.
type EscalationService struct {
	escalations repository.EscalationRepository
	users       repository.UserRepository
	schools     repository.SchoolRepository
	teams       repository.TeamRepository
	dispatcher  events.Dispatcher

	now func() time.Time
}

// EscalationDependencies bundles collaborators for the service.
type EscalationDependencies struct {
	EscalationRepo repository.EscalationRepository
	UserRepo       repository.UserRepository
	SchoolRepo     repository.SchoolRepository
	TeamRepo       repository.TeamRepository
	Dispatcher     events.Dispatcher
}

// EscalationCreateInput describes the creation payload.
type EscalationCreateInput struct {
	Category    domain.EscalationCategory
	Priority    domain.EscalationPriority
	Urgency     string
	Impact      string
	Title       string
	Description string
	SchoolID    *string
	TeamID      *string
	MultiRegion bool
	DueDate     *time.Time
	Tags        []string
	Watchers    []string
	Attachments []string
}

// EscalationUpdateInput carries a partial update; nil fields are left
// untouched. A status change is validated against the transition table.
type EscalationUpdateInput struct {
	Title       *string
	Description *string
	Category    *domain.EscalationCategory
	Priority    *domain.EscalationPriority
	Urgency     *string
	Impact      *string
	Status      *domain.EscalationStatus
	DueDate     *time.Time
	Tags        []string
	Watchers    []string
	Attachments []string
}

// NewEscalationService constructs the service.
func NewEscalationService(deps EscalationDependencies) *EscalationService {
	return &EscalationService{
		escalations: deps.EscalationRepo,
		users:       deps.UserRepo,
		schools:     deps.SchoolRepo,
		teams:       deps.TeamRepo,
		dispatcher:  deps.Dispatcher,
		now:         time.Now,
	}
}

// Create opens a new escalation for the reporter. Status is forced to
// OPEN regardless of input.
func (s *EscalationService) Create(ctx context.Context, reporterID string, input EscalationCreateInput) (*domain.Escalation, error) {
	if strings.TrimSpace(reporterID) == "" {
		return nil, apperrors.NewValidationError("reporter required", nil)
	}
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" {
		return nil, apperrors.NewValidationError("title and description required", nil)
	}
	if !domain.ValidCategory(input.Category) {
		return nil, apperrors.NewValidationError("unknown category", map[string]any{"category": input.Category})
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.EscalationPriorityMedium
	}
	if !domain.ValidPriority(priority) {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": input.Priority})
	}

	reporter, err := s.users.GetByID(ctx, reporterID)
	if err != nil {
		return nil, s.storeError(err, "reporter", reporterID)
	}
	if !reporter.IsActive {
		return nil, apperrors.NewConflict("reporter inactive", map[string]any{"user_id": reporterID})
	}
	if input.SchoolID != nil {
		if _, err := s.schools.GetByID(ctx, *input.SchoolID); err != nil {
			return nil, s.storeError(err, "school", *input.SchoolID)
		}
	}
	if input.TeamID != nil {
		if _, err := s.teams.GetByID(ctx, *input.TeamID); err != nil {
			return nil, s.storeError(err, "team", *input.TeamID)
		}
	}

	now := s.now()
	escalation := &domain.Escalation{
		ID:          uuid.NewString(),
		Category:    input.Category,
		Priority:    priority,
		Urgency:     input.Urgency,
		Impact:      input.Impact,
		Status:      domain.EscalationStatusOpen,
		ReporterID:  reporter.ID,
		SchoolID:    input.SchoolID,
		TeamID:      input.TeamID,
		MultiRegion: input.MultiRegion,
		Title:       title,
		Description: description,
		Tags:        input.Tags,
		Watchers:    input.Watchers,
		Attachments: input.Attachments,
		CreatedAt:   now,
		UpdatedAt:   now,
		DueDate:     input.DueDate,
	}

	if err := s.escalations.Create(ctx, escalation); err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}
	name := reporter.FullName
	region := reporter.Region
	escalation.ReporterName = &name
	escalation.ReporterRegion = &region

	s.publishEvent(ctx, events.Event{
		Type:         events.EventEscalationCreated,
		EscalationID: escalation.ID,
		ActorID:      reporter.ID,
		Payload: events.EscalationCreatedPayload{
			TicketNumber: escalation.TicketNumber,
			Category:     escalation.Category,
			Priority:     escalation.Priority,
			Title:        escalation.Title,
			SchoolID:     escalation.SchoolID,
			TeamID:       escalation.TeamID,
		},
	})
	return escalation, nil
}

// Get fetches a single escalation.
func (s *EscalationService) Get(ctx context.Context, id string) (*domain.Escalation, error) {
	escalation, err := s.escalations.GetByID(ctx, id)
	if err != nil {
		return nil, s.storeError(err, "escalation", id)
	}
	return escalation, nil
}

// Assign moves an escalation to ASSIGNED and stamps the assignee. Only
// OPEN, PENDING and REOPENED records accept assignment.
func (s *EscalationService) Assign(ctx context.Context, actorID, id, assigneeID string) (*domain.Escalation, error) {
	if strings.TrimSpace(assigneeID) == "" {
		return nil, apperrors.NewValidationError("assignee required", nil)
	}
	assignee, err := s.users.GetByID(ctx, assigneeID)
	if err != nil {
		return nil, s.storeError(err, "assignee", assigneeID)
	}
	if !assignee.IsActive {
		return nil, apperrors.NewConflict("assignee inactive", map[string]any{"user_id": assigneeID})
	}

	return s.transition(ctx, id, func(escalation *domain.Escalation) error {
		if !domain.StatusAllowed(escalation.Status, domain.AssignableStatuses) {
			return apperrors.NewInvalidTransition(string(escalation.Status), string(domain.EscalationStatusAssigned), map[string]any{"escalation_id": id})
		}
		now := s.now()
		escalation.Status = domain.EscalationStatusAssigned
		escalation.AssigneeID = &assignee.ID
		if escalation.AssignedAt == nil {
			escalation.AssignedAt = &now
		}
		escalation.UpdatedAt = now
		return nil
	}, func(escalation *domain.Escalation) {
		s.publishEvent(ctx, events.Event{
			Type:         events.EventEscalationAssigned,
			EscalationID: escalation.ID,
			ActorID:      actorID,
			Payload:      events.EscalationAssignedPayload{AssigneeID: assignee.ID},
		})
	})
}

// Resolve finalizes an escalation. Resolution and closure are coupled:
// resolved_at and closed_at are stamped in the same write, together with
// the computed resolution duration.
func (s *EscalationService) Resolve(ctx context.Context, actorID, id, resolutionNotes string, satisfaction *int) (*domain.Escalation, error) {
	notes := strings.TrimSpace(resolutionNotes)
	if notes == "" {
		return nil, apperrors.NewValidationError("resolution notes required", nil)
	}
	if satisfaction != nil && (*satisfaction < 1 || *satisfaction > 5) {
		return nil, apperrors.NewValidationError("satisfaction must be between 1 and 5", map[string]any{"satisfaction": *satisfaction})
	}

	return s.transition(ctx, id, func(escalation *domain.Escalation) error {
		if !domain.StatusAllowed(escalation.Status, domain.ResolvableStatuses) {
			return apperrors.NewInvalidTransition(string(escalation.Status), string(domain.EscalationStatusResolved), map[string]any{"escalation_id": id})
		}
		now := s.now()
		hours := domain.ResolutionHours(escalation.CreatedAt, now)
		escalation.Status = domain.EscalationStatusResolved
		escalation.ResolutionNotes = &notes
		escalation.Satisfaction = satisfaction
		escalation.ResolvedAt = &now
		escalation.ClosedAt = &now
		escalation.ResolutionTimeHours = &hours
		escalation.UpdatedAt = now
		return nil
	}, func(escalation *domain.Escalation) {
		s.publishEvent(ctx, events.Event{
			Type:         events.EventEscalationResolved,
			EscalationID: escalation.ID,
			ActorID:      actorID,
			Payload: events.EscalationResolvedPayload{
				ResolutionTimeHours: *escalation.ResolutionTimeHours,
				Satisfaction:        satisfaction,
			},
		})
	})
}

// Update applies a partial field update. A status change rides along only
// when the transition table allows it; RESOLVED and CLOSED are reachable
// solely through Resolve. Reopening a finalized record keeps its
// resolution timestamps.
func (s *EscalationService) Update(ctx context.Context, actorID, id string, input EscalationUpdateInput) (*domain.Escalation, error) {
	if input.Status != nil {
		if !domain.ValidStatus(*input.Status) {
			return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": *input.Status})
		}
	}
	if input.Category != nil && !domain.ValidCategory(*input.Category) {
		return nil, apperrors.NewValidationError("unknown category", map[string]any{"category": *input.Category})
	}
	if input.Priority != nil && !domain.ValidPriority(*input.Priority) {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": *input.Priority})
	}

	var oldStatus domain.EscalationStatus
	statusChanged := false

	result, err := s.transition(ctx, id, func(escalation *domain.Escalation) error {
		oldStatus = escalation.Status
		statusChanged = false
		requested := escalation.Status
		if input.Status != nil {
			requested = *input.Status
		}

		if escalation.IsTerminal() && requested != domain.EscalationStatusReopened {
			return apperrors.NewInvalidTransition(string(escalation.Status), string(requested), map[string]any{"escalation_id": id})
		}
		if requested != escalation.Status {
			if requested == domain.EscalationStatusResolved || requested == domain.EscalationStatusClosed {
				return apperrors.NewInvalidTransition(string(escalation.Status), string(requested), map[string]any{"escalation_id": id})
			}
			if !domain.IsValidTransition(escalation.Status, requested) {
				return apperrors.NewInvalidTransition(string(escalation.Status), string(requested), map[string]any{"escalation_id": id})
			}
			escalation.Status = requested
			statusChanged = true
		}

		if input.Title != nil {
			title := strings.TrimSpace(*input.Title)
			if title == "" {
				return apperrors.NewValidationError("title cannot be empty", nil)
			}
			escalation.Title = title
		}
		if input.Description != nil {
			description := strings.TrimSpace(*input.Description)
			if description == "" {
				return apperrors.NewValidationError("description cannot be empty", nil)
			}
			escalation.Description = description
		}
		if input.Category != nil {
			escalation.Category = *input.Category
		}
		if input.Priority != nil {
			escalation.Priority = *input.Priority
		}
		if input.Urgency != nil {
			escalation.Urgency = *input.Urgency
		}
		if input.Impact != nil {
			escalation.Impact = *input.Impact
		}
		if input.DueDate != nil {
			escalation.DueDate = input.DueDate
		}
		if input.Tags != nil {
			escalation.Tags = input.Tags
		}
		if input.Watchers != nil {
			escalation.Watchers = input.Watchers
		}
		if input.Attachments != nil {
			escalation.Attachments = input.Attachments
		}

		escalation.UpdatedAt = s.now()
		return nil
	}, func(escalation *domain.Escalation) {
		if !statusChanged {
			return
		}
		s.publishEvent(ctx, events.Event{
			Type:         events.EventEscalationStatusChanged,
			EscalationID: escalation.ID,
			ActorID:      actorID,
			Payload: events.EscalationStatusChangedPayload{
				OldStatus: oldStatus,
				NewStatus: escalation.Status,
			},
		})
	})
	return result, err
}

// transition runs the get/mutate/CAS cycle. mutate must either fully
// populate the derived fields or fail; no partial state ever reaches the
// store. On a lost revision race the record is reloaded and revalidated.
func (s *EscalationService) transition(ctx context.Context, id string, mutate func(*domain.Escalation) error, after func(*domain.Escalation)) (*domain.Escalation, error) {
	for attempt := 0; attempt < casAttempts; attempt++ {
		escalation, err := s.escalations.GetByID(ctx, id)
		if err != nil {
			return nil, s.storeError(err, "escalation", id)
		}
		if err := mutate(escalation); err != nil {
			return nil, err
		}
		err = s.escalations.UpdateWithRevision(ctx, escalation, escalation.Revision)
		if err == nil {
			if after != nil {
				after(escalation)
			}
			return escalation, nil
		}
		if errors.Is(err, repository.ErrRevisionConflict) {
			continue
		}
		return nil, s.storeError(err, "escalation", id)
	}
	return nil, apperrors.NewConflict("escalation is being modified concurrently", map[string]any{"escalation_id": id})
}

func (s *EscalationService) storeError(err error, resource, id string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound(resource, map[string]any{"id": id})
	}
	return apperrors.NewStoreUnavailable(err)
}

func (s *EscalationService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

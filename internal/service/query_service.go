package service

import (
	"context"
	"strings"

	"github.com/scholarlift/escalation-service/internal/domain"
	"github.com/scholarlift/escalation-service/internal/repository"
	apperrors "github.com/scholarlift/escalation-service/pkg/util/errorutil"
)

// FilterAll is the sentinel that skips a predicate entirely.
const FilterAll = "all"

// Dashboard tabs group statuses; the open tab covers every status still
// counting toward the open KPI.
const (
	TabAll      = "all"
	TabOpen     = "open"
	TabResolved = "resolved"
	TabClosed   = "closed"
)

// EscalationFilter describes a dashboard query. Region scoping applies
// first, then the remaining predicates conjunctively. Empty or "all"
// values skip their predicate.
type EscalationFilter struct {
	Region   string
	Category string
	Priority string
	Status   string
	Tab      string
	Search   string
}

// QueryService produces filtered views over the escalation set.
type QueryService struct {
	escalations repository.EscalationRepository
}

// NewQueryService constructs the service.
func NewQueryService(escalations repository.EscalationRepository) *QueryService {
	return &QueryService{escalations: escalations}
}

// Query returns the escalations matching the filter. An empty result is
// a valid outcome, never an error.
func (s *QueryService) Query(ctx context.Context, filter EscalationFilter) ([]domain.Escalation, error) {
	all, err := s.escalations.List(ctx)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}
	return ApplyFilter(all, filter), nil
}

// ApplyFilter evaluates the filter over an in-memory record set. Kept
// separate from the store round-trip so the predicate composition stays
// deterministic and testable on its own.
func ApplyFilter(escalations []domain.Escalation, filter EscalationFilter) []domain.Escalation {
	result := make([]domain.Escalation, 0, len(escalations))
	for i := range escalations {
		if matchesFilter(&escalations[i], filter) {
			result = append(result, escalations[i])
		}
	}
	return result
}

func matchesFilter(e *domain.Escalation, filter EscalationFilter) bool {
	if isSet(filter.Region) && !e.InRegion(filter.Region) {
		return false
	}
	if isSet(filter.Category) && string(e.Category) != filter.Category {
		return false
	}
	if isSet(filter.Priority) && !strings.EqualFold(string(e.Priority), filter.Priority) {
		return false
	}
	if isSet(filter.Status) && !strings.EqualFold(string(e.Status), filter.Status) {
		return false
	}
	if isSet(filter.Tab) && !matchesTab(e, filter.Tab) {
		return false
	}
	if search := strings.TrimSpace(filter.Search); search != "" && !matchesSearch(e, search) {
		return false
	}
	return true
}

func matchesTab(e *domain.Escalation, tab string) bool {
	switch strings.ToLower(tab) {
	case TabOpen:
		return e.IsOpen()
	case TabResolved:
		return e.Status == domain.EscalationStatusResolved
	case TabClosed:
		return e.Status == domain.EscalationStatusClosed
	default:
		return true
	}
}

// matchesSearch performs a case-insensitive substring match across the
// title, description and reporter display name.
func matchesSearch(e *domain.Escalation, search string) bool {
	needle := strings.ToLower(search)
	if strings.Contains(strings.ToLower(e.Title), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(e.Description), needle) {
		return true
	}
	if e.ReporterName != nil && strings.Contains(strings.ToLower(*e.ReporterName), needle) {
		return true
	}
	return false
}

func isSet(value string) bool {
	trimmed := strings.TrimSpace(value)
	return trimmed != "" && !strings.EqualFold(trimmed, FilterAll)
}

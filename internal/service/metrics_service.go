package service

import (
	"context"
	"time"

	"github.com/scholarlift/escalation-service/internal/domain"
	"github.com/scholarlift/escalation-service/internal/repository"
)

// MetricsService computes the headline SLA KPIs over a region-scoped
// escalation set.
type MetricsService struct {
	query *QueryService
	cache repository.MetricsCache

	now func() time.Time
}

// NewMetricsService constructs the aggregator. cache may be nil.
func NewMetricsService(query *QueryService, cache repository.MetricsCache) *MetricsService {
	return &MetricsService{query: query, cache: cache, now: time.Now}
}

// Aggregate returns total, open, resolved-this-month and the average
// resolution time in hours for the region. All four come from a single
// store read. An empty set yields zeroes, never an error.
func (s *MetricsService) Aggregate(ctx context.Context, region string) (*domain.SLAMetrics, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, region); ok {
			return cached, nil
		}
	}

	scoped, err := s.query.Query(ctx, EscalationFilter{Region: region})
	if err != nil {
		return nil, err
	}

	metrics := ComputeSLAMetrics(scoped, s.now())

	if s.cache != nil {
		s.cache.Set(ctx, region, metrics)
	}
	return metrics, nil
}

// ComputeSLAMetrics derives the KPIs from an already-scoped record set.
func ComputeSLAMetrics(escalations []domain.Escalation, now time.Time) *domain.SLAMetrics {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	metrics := &domain.SLAMetrics{Total: len(escalations)}
	var hoursSum float64
	var hoursCount int

	for i := range escalations {
		e := &escalations[i]
		if e.IsOpen() {
			metrics.Open++
		}
		if e.Status == domain.EscalationStatusResolved && e.ResolvedAt != nil &&
			!e.ResolvedAt.Before(monthStart) && !e.ResolvedAt.After(now) {
			metrics.ResolvedThisMonth++
		}
		if e.ResolutionTimeHours != nil {
			hoursSum += *e.ResolutionTimeHours
			hoursCount++
		}
	}

	// defined as 0 over a set with no resolved records
	if hoursCount > 0 {
		metrics.AvgResolutionHours = hoursSum / float64(hoursCount)
	}
	return metrics
}

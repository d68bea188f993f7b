package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarlift/escalation-service/internal/domain"
)

func float64Ptr(f float64) *float64 { return &f }

func TestComputeSLAMetrics_HeadlineScenario(t *testing.T) {
	now := time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)
	resolvedAt := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)

	set := []domain.Escalation{
		{ID: "esc-1", Status: domain.EscalationStatusOpen},
		{ID: "esc-2", Status: domain.EscalationStatusInProgress},
		{ID: "esc-3", Status: domain.EscalationStatusResolved, ResolvedAt: &resolvedAt, ResolutionTimeHours: float64Ptr(48)},
	}

	metrics := ComputeSLAMetrics(set, now)
	assert.Equal(t, 3, metrics.Total)
	assert.Equal(t, 2, metrics.Open)
	assert.Equal(t, 1, metrics.ResolvedThisMonth)
	assert.Equal(t, 48.0, metrics.AvgResolutionHours)
}

func TestComputeSLAMetrics_ResolvedLastMonthNotCounted(t *testing.T) {
	now := time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)
	lastMonth := time.Date(2024, 4, 28, 9, 0, 0, 0, time.UTC)

	set := []domain.Escalation{
		{ID: "esc-1", Status: domain.EscalationStatusResolved, ResolvedAt: &lastMonth, ResolutionTimeHours: float64Ptr(10)},
	}

	metrics := ComputeSLAMetrics(set, now)
	assert.Equal(t, 0, metrics.ResolvedThisMonth)
	// the average still covers every resolved record
	assert.Equal(t, 10.0, metrics.AvgResolutionHours)
}

func TestComputeSLAMetrics_AverageOverMultiple(t *testing.T) {
	now := time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)
	resolvedAt := now.Add(-time.Hour)

	set := []domain.Escalation{
		{ID: "esc-1", Status: domain.EscalationStatusResolved, ResolvedAt: &resolvedAt, ResolutionTimeHours: float64Ptr(24)},
		{ID: "esc-2", Status: domain.EscalationStatusResolved, ResolvedAt: &resolvedAt, ResolutionTimeHours: float64Ptr(72)},
		{ID: "esc-3", Status: domain.EscalationStatusOpen},
	}

	metrics := ComputeSLAMetrics(set, now)
	assert.Equal(t, 48.0, metrics.AvgResolutionHours)
}

func TestComputeSLAMetrics_EmptyAndUnresolvedSets(t *testing.T) {
	now := time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)

	empty := ComputeSLAMetrics(nil, now)
	assert.Equal(t, 0, empty.Total)
	assert.Equal(t, 0.0, empty.AvgResolutionHours)

	unresolved := ComputeSLAMetrics([]domain.Escalation{
		{ID: "esc-1", Status: domain.EscalationStatusOpen},
	}, now)
	assert.Equal(t, 0.0, unresolved.AvgResolutionHours)
}

func TestAggregate_RegionScopedAndCached(t *testing.T) {
	repo := newMockEscalationRepo()
	now := time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)
	resolvedAt := now.Add(-48 * time.Hour)

	records := []domain.Escalation{
		{ID: "esc-1", Status: domain.EscalationStatusOpen, ReporterRegion: strPtr("KE"), CreatedAt: now.Add(-72 * time.Hour)},
		{ID: "esc-2", Status: domain.EscalationStatusResolved, TeamRegion: strPtr("KE"), ResolvedAt: &resolvedAt, ResolutionTimeHours: float64Ptr(24), CreatedAt: now.Add(-96 * time.Hour)},
		{ID: "esc-3", Status: domain.EscalationStatusOpen, ReporterRegion: strPtr("UG"), CreatedAt: now.Add(-24 * time.Hour)},
	}
	for i := range records {
		clone := records[i]
		repo.records[clone.ID] = &clone
	}

	cache := newFakeMetricsCache()
	svc := NewMetricsService(NewQueryService(repo), cache)
	svc.now = fixedClock(now)

	metrics, err := svc.Aggregate(context.Background(), "KE")
	require.NoError(t, err)
	assert.Equal(t, 2, metrics.Total)
	assert.Equal(t, 1, metrics.Open)
	assert.Equal(t, 1, metrics.ResolvedThisMonth)
	assert.Equal(t, 24.0, metrics.AvgResolutionHours)
	assert.Equal(t, 1, cache.sets)

	// second call is served from the cache
	again, err := svc.Aggregate(context.Background(), "KE")
	require.NoError(t, err)
	assert.Equal(t, metrics, again)
	assert.Equal(t, 1, cache.hits)
	assert.Equal(t, 1, cache.sets)
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarlift/escalation-service/internal/domain"
	apperrors "github.com/scholarlift/escalation-service/pkg/util/errorutil"
)

func strPtr(s string) *string { return &s }

func fixtureSet() []domain.Escalation {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	return []domain.Escalation{
		{
			ID: "esc-1", Status: domain.EscalationStatusOpen,
			Category: domain.CategoryTechnical, Priority: domain.EscalationPriorityHigh,
			Title: "Portal login failures", Description: "ambassadors cannot sign in",
			ReporterName: strPtr("Amina Said"), ReporterRegion: strPtr("KE"),
			CreatedAt: base,
		},
		{
			ID: "esc-2", Status: domain.EscalationStatusAssigned,
			Category: domain.CategorySchoolIssue, Priority: domain.EscalationPriorityHigh,
			Title: "Missing stipend", Description: "March stipend not received",
			TeamRegion: strPtr("KE"),
			CreatedAt:  base.Add(time.Hour),
		},
		{
			ID: "esc-3", Status: domain.EscalationStatusResolved,
			Category: domain.CategoryTechnical, Priority: domain.EscalationPriorityLow,
			Title: "Broken dashboard chart", Description: "chart renders blank",
			SchoolRegion: strPtr("UG"),
			CreatedAt:    base.Add(2 * time.Hour),
		},
		{
			ID: "esc-4", Status: domain.EscalationStatusPending,
			Category: domain.CategoryCompliance, Priority: domain.EscalationPriorityCritical,
			Title: "Partner agreement audit", Description: "spans several countries",
			MultiRegion: true,
			CreatedAt:   base.Add(3 * time.Hour),
		},
	}
}

func idsOf(escalations []domain.Escalation) []string {
	ids := make([]string, 0, len(escalations))
	for _, e := range escalations {
		ids = append(ids, e.ID)
	}
	return ids
}

func TestApplyFilter_RegionScoping(t *testing.T) {
	set := fixtureSet()

	// team region alone is sufficient
	assert.Equal(t, []string{"esc-1", "esc-2"}, idsOf(ApplyFilter(set, EscalationFilter{Region: "KE"})))
	assert.Equal(t, []string{"esc-3"}, idsOf(ApplyFilter(set, EscalationFilter{Region: "UG"})))
	assert.Equal(t, []string{"esc-4"}, idsOf(ApplyFilter(set, EscalationFilter{Region: domain.RegionMulti})))
	assert.Empty(t, ApplyFilter(set, EscalationFilter{Region: "NG"}))
}

func TestApplyFilter_ConjunctiveComposition(t *testing.T) {
	set := fixtureSet()

	got := ApplyFilter(set, EscalationFilter{
		Category: string(domain.CategoryTechnical),
		Priority: string(domain.EscalationPriorityHigh),
	})
	require.Len(t, got, 1)
	assert.Equal(t, "esc-1", got[0].ID)
}

func TestApplyFilter_TabStatusSets(t *testing.T) {
	set := fixtureSet()

	open := ApplyFilter(set, EscalationFilter{Tab: TabOpen})
	assert.Equal(t, []string{"esc-1", "esc-2", "esc-4"}, idsOf(open))

	resolved := ApplyFilter(set, EscalationFilter{Tab: TabResolved})
	assert.Equal(t, []string{"esc-3"}, idsOf(resolved))
}

func TestApplyFilter_Search(t *testing.T) {
	set := fixtureSet()

	assert.Equal(t, []string{"esc-1"}, idsOf(ApplyFilter(set, EscalationFilter{Search: "LOGIN"})))
	assert.Equal(t, []string{"esc-2"}, idsOf(ApplyFilter(set, EscalationFilter{Search: "stipend not"})))
	// reporter display name participates in search
	assert.Equal(t, []string{"esc-1"}, idsOf(ApplyFilter(set, EscalationFilter{Search: "amina"})))
	assert.Empty(t, ApplyFilter(set, EscalationFilter{Search: "no such text"}))
}

func TestApplyFilter_SentinelAllSkipsPredicates(t *testing.T) {
	set := fixtureSet()

	got := ApplyFilter(set, EscalationFilter{
		Region:   FilterAll,
		Category: "all",
		Priority: "ALL",
		Status:   "",
		Tab:      TabAll,
	})
	assert.Len(t, got, len(set))
}

func TestQuery_StoreFailure(t *testing.T) {
	repo := newMockEscalationRepo()
	repo.listErr = errors.New("connection refused")
	svc := NewQueryService(repo)

	_, err := svc.Query(context.Background(), EscalationFilter{Region: "KE"})
	assert.True(t, apperrors.IsCode(err, "STORE_UNAVAILABLE"))
}

func TestQuery_EmptyResultIsNotAnError(t *testing.T) {
	repo := newMockEscalationRepo()
	svc := NewQueryService(repo)

	got, err := svc.Query(context.Background(), EscalationFilter{Region: "KE"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

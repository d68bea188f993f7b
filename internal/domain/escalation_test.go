package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestInRegion_EachRelationIsSufficient(t *testing.T) {
	cases := []struct {
		name       string
		escalation Escalation
		target     string
		want       bool
	}{
		{"reporter only", Escalation{ReporterRegion: strPtr("KE")}, "KE", true},
		{"school only", Escalation{SchoolRegion: strPtr("KE")}, "KE", true},
		{"team only", Escalation{TeamRegion: strPtr("KE")}, "KE", true},
		{"no relations", Escalation{}, "KE", false},
		{"wrong region", Escalation{ReporterRegion: strPtr("UG"), SchoolRegion: strPtr("TZ")}, "KE", false},
		{"mixed regions", Escalation{ReporterRegion: strPtr("UG"), TeamRegion: strPtr("KE")}, "KE", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.escalation.InRegion(tc.target))
		})
	}
}

func TestInRegion_MultiCountryMarker(t *testing.T) {
	flagged := Escalation{MultiRegion: true}
	assert.True(t, flagged.InRegion(RegionMulti))

	// the marker bypasses the relation check entirely
	unflagged := Escalation{ReporterRegion: strPtr("KE"), SchoolRegion: strPtr("UG"), TeamRegion: strPtr("TZ")}
	assert.False(t, unflagged.InRegion(RegionMulti))
}

func TestIsValidTransition(t *testing.T) {
	assert.True(t, IsValidTransition(EscalationStatusOpen, EscalationStatusAssigned))
	assert.True(t, IsValidTransition(EscalationStatusOpen, EscalationStatusInProgress))
	assert.True(t, IsValidTransition(EscalationStatusPending, EscalationStatusInProgress))
	assert.True(t, IsValidTransition(EscalationStatusResolved, EscalationStatusReopened))
	assert.True(t, IsValidTransition(EscalationStatusClosed, EscalationStatusReopened))
	assert.True(t, IsValidTransition(EscalationStatusReopened, EscalationStatusAssigned))

	assert.False(t, IsValidTransition(EscalationStatusResolved, EscalationStatusAssigned))
	assert.False(t, IsValidTransition(EscalationStatusClosed, EscalationStatusInProgress))
	assert.False(t, IsValidTransition(EscalationStatusInProgress, EscalationStatusOpen))
	assert.False(t, IsValidTransition(EscalationStatusOpen, EscalationStatusClosed))
}

func TestResolutionHours(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	resolved := time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 60.0, ResolutionHours(created, resolved))

	// rounds to the nearest whole hour
	assert.Equal(t, 1.0, ResolutionHours(created, created.Add(61*time.Minute)))
	assert.Equal(t, 0.0, ResolutionHours(created, created.Add(10*time.Minute)))
}

func TestIsOpen(t *testing.T) {
	for _, status := range OpenStatuses {
		assert.True(t, (&Escalation{Status: status}).IsOpen(), string(status))
	}
	for _, status := range []EscalationStatus{EscalationStatusResolved, EscalationStatusClosed, EscalationStatusReopened} {
		assert.False(t, (&Escalation{Status: status}).IsOpen(), string(status))
	}
}

func TestIsTerminal(t *testing.T) {
	for _, status := range []EscalationStatus{EscalationStatusResolved, EscalationStatusClosed} {
		assert.True(t, (&Escalation{Status: status}).IsTerminal(), string(status))
	}
	for _, status := range []EscalationStatus{EscalationStatusOpen, EscalationStatusAssigned, EscalationStatusInProgress, EscalationStatusPending, EscalationStatusReopened} {
		assert.False(t, (&Escalation{Status: status}).IsTerminal(), string(status))
	}
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	assert.True(t, (&Escalation{Status: EscalationStatusOpen, DueDate: &past}).IsOverdue(now))
	assert.False(t, (&Escalation{Status: EscalationStatusOpen, DueDate: &future}).IsOverdue(now))
	assert.False(t, (&Escalation{Status: EscalationStatusOpen}).IsOverdue(now))
	// resolved records are never overdue
	assert.False(t, (&Escalation{Status: EscalationStatusResolved, DueDate: &past}).IsOverdue(now))
}

func TestTaxonomyValidation(t *testing.T) {
	assert.True(t, ValidCategory(CategorySchoolIssue))
	assert.True(t, ValidCategory(CategoryTraining))
	assert.False(t, ValidCategory("billing"))

	assert.True(t, ValidPriority(EscalationPriorityCritical))
	assert.False(t, ValidPriority("URGENT"))

	assert.True(t, ValidStatus(EscalationStatusReopened))
	assert.False(t, ValidStatus("CANCELLED"))
}

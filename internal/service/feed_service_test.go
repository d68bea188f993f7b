package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarlift/escalation-service/internal/domain"
)

func feedFixture() []domain.Escalation {
	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	resolvedB := base.Add(50 * time.Hour)
	return []domain.Escalation{
		{
			ID: "esc-a", TicketNumber: "ESC-000001", Title: "Portal login failures",
			Status: domain.EscalationStatusOpen, ReporterName: strPtr("Amina Said"),
			ReporterRegion: strPtr("KE"), CreatedAt: base,
		},
		{
			ID: "esc-b", TicketNumber: "ESC-000002", Title: "Missing stipend",
			Status: domain.EscalationStatusResolved, ReporterName: strPtr("Joseph Mwangi"),
			ReporterRegion: strPtr("KE"), CreatedAt: base.Add(2 * time.Hour), ResolvedAt: &resolvedB,
		},
	}
}

func TestSynthesizeFeed_Cardinality(t *testing.T) {
	feed := SynthesizeFeed(feedFixture(), 100)

	// one created event each plus one resolved event for the resolved record
	require.Len(t, feed, 3)

	created, resolved := 0, 0
	for _, event := range feed {
		switch event.Type {
		case domain.ActivityCreated:
			created++
		case domain.ActivityResolved:
			resolved++
		}
	}
	assert.Equal(t, 2, created)
	assert.Equal(t, 1, resolved)
}

func TestSynthesizeFeed_OrderAndIDs(t *testing.T) {
	feed := SynthesizeFeed(feedFixture(), 100)
	require.Len(t, feed, 3)

	assert.Equal(t, "resolved-esc-b", feed[0].ID)
	assert.Equal(t, "created-esc-b", feed[1].ID)
	assert.Equal(t, "created-esc-a", feed[2].ID)

	for i := 1; i < len(feed); i++ {
		assert.False(t, feed[i].Timestamp.After(feed[i-1].Timestamp), "feed must be non-increasing by timestamp")
	}

	assert.Equal(t, "New escalation: Missing stipend", feed[1].Title)
	assert.Equal(t, "Escalation resolved: Missing stipend", feed[0].Title)
	assert.Equal(t, "Joseph Mwangi", feed[0].ReporterName)
	assert.Equal(t, "esc-b", feed[0].EscalationID)
}

func TestSynthesizeFeed_LimitEnforced(t *testing.T) {
	feed := SynthesizeFeed(feedFixture(), 2)
	require.Len(t, feed, 2)
	assert.Equal(t, "resolved-esc-b", feed[0].ID)
	assert.Equal(t, "created-esc-b", feed[1].ID)

	assert.Empty(t, SynthesizeFeed(feedFixture(), 0))
}

func TestSynthesizeFeed_DeterministicTieBreak(t *testing.T) {
	ts := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	set := []domain.Escalation{
		{ID: "esc-2", TicketNumber: "ESC-000002", Title: "B", Status: domain.EscalationStatusOpen, CreatedAt: ts},
		{ID: "esc-1", TicketNumber: "ESC-000001", Title: "A", Status: domain.EscalationStatusOpen, CreatedAt: ts},
	}

	first := SynthesizeFeed(set, 10)
	second := SynthesizeFeed([]domain.Escalation{set[1], set[0]}, 10)
	assert.Equal(t, first, second)
	assert.Equal(t, "created-esc-1", first[0].ID)
}

func TestFeed_RegionScoped(t *testing.T) {
	repo := newMockEscalationRepo()
	for _, record := range feedFixture() {
		clone := record
		repo.records[clone.ID] = &clone
	}
	other := domain.Escalation{
		ID: "esc-c", TicketNumber: "ESC-000003", Title: "Elsewhere",
		Status: domain.EscalationStatusOpen, ReporterRegion: strPtr("UG"),
		CreatedAt: time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC),
	}
	repo.records[other.ID] = &other

	svc := NewFeedService(NewQueryService(repo))
	feed, err := svc.Feed(context.Background(), "KE", 10)
	require.NoError(t, err)
	require.Len(t, feed, 3)
	for _, event := range feed {
		assert.NotEqual(t, "esc-c", event.EscalationID)
	}
}

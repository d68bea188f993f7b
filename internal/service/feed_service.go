package service

import (
	"context"
	"sort"

	"github.com/scholarlift/escalation-service/internal/domain"
)

// FeedService synthesizes the time-ordered activity feed from escalation
// state. Feed entries are derived, never stored.
type FeedService struct {
	query *QueryService
}

// NewFeedService constructs the synthesizer.
func NewFeedService(query *QueryService) *FeedService {
	return &FeedService{query: query}
}

// Feed returns at most limit events for the region, newest first. Each
// escalation contributes one created event plus, when resolved, one
// resolved event.
func (s *FeedService) Feed(ctx context.Context, region string, limit int) ([]domain.ActivityEvent, error) {
	scoped, err := s.query.Query(ctx, EscalationFilter{Region: region})
	if err != nil {
		return nil, err
	}
	return SynthesizeFeed(scoped, limit), nil
}

// SynthesizeFeed builds the feed from an already-scoped record set.
func SynthesizeFeed(escalations []domain.Escalation, limit int) []domain.ActivityEvent {
	if limit <= 0 {
		return []domain.ActivityEvent{}
	}

	feed := make([]domain.ActivityEvent, 0, len(escalations)*2)
	for i := range escalations {
		e := &escalations[i]
		reporter := ""
		if e.ReporterName != nil {
			reporter = *e.ReporterName
		}
		feed = append(feed, domain.ActivityEvent{
			ID:           "created-" + e.ID,
			Type:         domain.ActivityCreated,
			EscalationID: e.ID,
			TicketNumber: e.TicketNumber,
			Title:        "New escalation: " + e.Title,
			ReporterName: reporter,
			Timestamp:    e.CreatedAt,
		})
		if e.ResolvedAt != nil {
			feed = append(feed, domain.ActivityEvent{
				ID:           "resolved-" + e.ID,
				Type:         domain.ActivityResolved,
				EscalationID: e.ID,
				TicketNumber: e.TicketNumber,
				Title:        "Escalation resolved: " + e.Title,
				ReporterName: reporter,
				Timestamp:    *e.ResolvedAt,
			})
		}
	}

	// newest first; equal timestamps fall back to the escalation id so the
	// order stays deterministic for a fixed input set
	sort.Slice(feed, func(i, j int) bool {
		if feed[i].Timestamp.Equal(feed[j].Timestamp) {
			if feed[i].EscalationID == feed[j].EscalationID {
				return feed[i].ID < feed[j].ID
			}
			return feed[i].EscalationID < feed[j].EscalationID
		}
		return feed[i].Timestamp.After(feed[j].Timestamp)
	})

	if len(feed) > limit {
		feed = feed[:limit]
	}
	return feed
}

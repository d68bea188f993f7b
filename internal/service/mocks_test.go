package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/scholarlift/escalation-service/internal/domain"
	"github.com/scholarlift/escalation-service/internal/repository"
)

// mockEscalationRepo is a map-backed repository honoring the revision
// contract, so transition tests exercise the same get/mutate/CAS cycle
// as the Postgres implementation.
type mockEscalationRepo struct {
	records map[string]*domain.Escalation
	seq     int

	// forceConflicts makes the next N updates fail with a revision
	// conflict to simulate concurrent writers.
	forceConflicts int
	listErr        error
	getErr         error
}

func newMockEscalationRepo() *mockEscalationRepo {
	return &mockEscalationRepo{records: map[string]*domain.Escalation{}}
}

func (m *mockEscalationRepo) Create(ctx context.Context, escalation *domain.Escalation) error {
	m.seq++
	escalation.TicketNumber = fmt.Sprintf("ESC-%06d", m.seq)
	escalation.Revision = 1
	clone := *escalation
	m.records[escalation.ID] = &clone
	return nil
}

func (m *mockEscalationRepo) GetByID(ctx context.Context, id string) (*domain.Escalation, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	record, ok := m.records[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *record
	return &clone, nil
}

func (m *mockEscalationRepo) UpdateWithRevision(ctx context.Context, escalation *domain.Escalation, expectedRevision int64) error {
	record, ok := m.records[escalation.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if m.forceConflicts > 0 {
		m.forceConflicts--
		// the concurrent writer bumped the stored revision
		record.Revision++
		return repository.ErrRevisionConflict
	}
	if record.Revision != expectedRevision {
		return repository.ErrRevisionConflict
	}
	clone := *escalation
	clone.Revision = expectedRevision + 1
	m.records[escalation.ID] = &clone
	escalation.Revision = clone.Revision
	return nil
}

func (m *mockEscalationRepo) List(ctx context.Context) ([]domain.Escalation, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	result := make([]domain.Escalation, 0, len(m.records))
	for _, record := range m.records {
		result = append(result, *record)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

type stubUserRepo struct {
	users map[string]*domain.User
}

func newStubUserRepo(users ...*domain.User) *stubUserRepo {
	repo := &stubUserRepo{users: map[string]*domain.User{}}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (s *stubUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return user, nil
}

func (s *stubUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, repository.ErrNotFound
}

type stubSchoolRepo struct {
	schools map[string]*domain.School
}

func (s *stubSchoolRepo) GetByID(ctx context.Context, id string) (*domain.School, error) {
	school, ok := s.schools[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return school, nil
}

type stubTeamRepo struct {
	teams map[string]*domain.Team
}

func (s *stubTeamRepo) GetByID(ctx context.Context, id string) (*domain.Team, error) {
	team, ok := s.teams[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return team, nil
}

type fakeMetricsCache struct {
	entries map[string]*domain.SLAMetrics
	hits    int
	sets    int
}

func newFakeMetricsCache() *fakeMetricsCache {
	return &fakeMetricsCache{entries: map[string]*domain.SLAMetrics{}}
}

func (c *fakeMetricsCache) Get(ctx context.Context, region string) (*domain.SLAMetrics, bool) {
	metrics, ok := c.entries[region]
	if ok {
		c.hits++
	}
	return metrics, ok
}

func (c *fakeMetricsCache) Set(ctx context.Context, region string, metrics *domain.SLAMetrics) {
	c.sets++
	c.entries[region] = metrics
}

func activeUser(id, name, region string) *domain.User {
	return &domain.User{
		ID:       id,
		FullName: name,
		Email:    id + "@example.org",
		Role:     domain.UserRoleAmbassador,
		Region:   region,
		IsActive: true,
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

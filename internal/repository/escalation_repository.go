package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scholarlift/escalation-service/internal/domain"
)

// ErrNotFound signals an unknown record id.
var ErrNotFound = errors.New("record not found")

// ErrRevisionConflict signals a lost optimistic-concurrency race: the
// record changed between read and write.
var ErrRevisionConflict = errors.New("revision conflict")

// EscalationRepository encapsulates escalation persistence. Updates are
// guarded by the record revision so concurrent transitions on the same id
// can never interleave partial writes.
type EscalationRepository interface {
	Create(ctx context.Context, escalation *domain.Escalation) error
	GetByID(ctx context.Context, id string) (*domain.Escalation, error)
	UpdateWithRevision(ctx context.Context, escalation *domain.Escalation, expectedRevision int64) error
	List(ctx context.Context) ([]domain.Escalation, error)
}

type escalationRepository struct {
	pool        *pgxpool.Pool
	callTimeout time.Duration
}

// NewEscalationRepository instantiates the Postgres-backed repository.
// Every call is bounded by callTimeout so a stalled store surfaces as an
// error instead of a hang.
func NewEscalationRepository(pool *pgxpool.Pool, callTimeout time.Duration) EscalationRepository {
	if callTimeout <= 0 {
		callTimeout = 5 * time.Second
	}
	return &escalationRepository{pool: pool, callTimeout: callTimeout}
}

func (r *escalationRepository) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.callTimeout)
}

func (r *escalationRepository) Create(ctx context.Context, escalation *domain.Escalation) error {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	const query = `
        INSERT INTO escalations (id, ticket_number, category, priority, urgency, impact, status,
            reporter_id, assignee_id, school_id, team_id, multi_region,
            title, description, tags, watchers, attachments,
            created_at, updated_at, due_date)
        VALUES ($1, 'ESC-' || LPAD(nextval('escalation_ticket_seq')::text, 6, '0'),
            $2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
        RETURNING ticket_number, revision`
	return r.pool.QueryRow(ctx, query,
		escalation.ID,
		escalation.Category,
		escalation.Priority,
		escalation.Urgency,
		escalation.Impact,
		escalation.Status,
		escalation.ReporterID,
		escalation.AssigneeID,
		escalation.SchoolID,
		escalation.TeamID,
		escalation.MultiRegion,
		escalation.Title,
		escalation.Description,
		escalation.Tags,
		escalation.Watchers,
		escalation.Attachments,
		escalation.CreatedAt,
		escalation.UpdatedAt,
		escalation.DueDate,
	).Scan(&escalation.TicketNumber, &escalation.Revision)
}

const escalationColumns = `
        e.id, e.ticket_number, e.category, e.priority, e.urgency, e.impact, e.status,
        e.reporter_id, e.assignee_id, e.school_id, e.team_id, e.multi_region,
        u.full_name, u.region, s.region, t.region,
        e.title, e.description, e.resolution_notes, e.satisfaction,
        e.tags, e.watchers, e.attachments,
        e.created_at, e.updated_at, e.due_date, e.assigned_at, e.resolved_at, e.closed_at,
        e.resolution_time_hours, e.revision`

const escalationJoins = `
        FROM escalations e
        LEFT JOIN users u ON u.id = e.reporter_id
        LEFT JOIN schools s ON s.id = e.school_id
        LEFT JOIN teams t ON t.id = e.team_id`

func (r *escalationRepository) GetByID(ctx context.Context, id string) (*domain.Escalation, error) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	query := `SELECT` + escalationColumns + escalationJoins + ` WHERE e.id=$1`
	var escalation domain.Escalation
	if err := scanEscalation(r.pool.QueryRow(ctx, query, id), &escalation); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &escalation, nil
}

func (r *escalationRepository) UpdateWithRevision(ctx context.Context, escalation *domain.Escalation, expectedRevision int64) error {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	const query = `
        UPDATE escalations SET category=$1, priority=$2, urgency=$3, impact=$4, status=$5,
            assignee_id=$6, school_id=$7, team_id=$8, multi_region=$9,
            title=$10, description=$11, resolution_notes=$12, satisfaction=$13,
            tags=$14, watchers=$15, attachments=$16,
            updated_at=$17, due_date=$18, assigned_at=$19, resolved_at=$20, closed_at=$21,
            resolution_time_hours=$22, revision=revision+1
        WHERE id=$23 AND revision=$24
        RETURNING revision`
	err := r.pool.QueryRow(ctx, query,
		escalation.Category,
		escalation.Priority,
		escalation.Urgency,
		escalation.Impact,
		escalation.Status,
		escalation.AssigneeID,
		escalation.SchoolID,
		escalation.TeamID,
		escalation.MultiRegion,
		escalation.Title,
		escalation.Description,
		escalation.ResolutionNotes,
		escalation.Satisfaction,
		escalation.Tags,
		escalation.Watchers,
		escalation.Attachments,
		escalation.UpdatedAt,
		escalation.DueDate,
		escalation.AssignedAt,
		escalation.ResolvedAt,
		escalation.ClosedAt,
		escalation.ResolutionTimeHours,
		escalation.ID,
		expectedRevision,
	).Scan(&escalation.Revision)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	// zero rows: either the id is unknown or the revision moved underneath us
	var exists bool
	if checkErr := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM escalations WHERE id=$1)`, escalation.ID).Scan(&exists); checkErr != nil {
		return checkErr
	}
	if !exists {
		return ErrNotFound
	}
	return ErrRevisionConflict
}

func (r *escalationRepository) List(ctx context.Context) ([]domain.Escalation, error) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	query := `SELECT` + escalationColumns + escalationJoins + ` ORDER BY e.created_at DESC, e.id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEscalations(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEscalation(row rowScanner, escalation *domain.Escalation) error {
	return row.Scan(
		&escalation.ID,
		&escalation.TicketNumber,
		&escalation.Category,
		&escalation.Priority,
		&escalation.Urgency,
		&escalation.Impact,
		&escalation.Status,
		&escalation.ReporterID,
		&escalation.AssigneeID,
		&escalation.SchoolID,
		&escalation.TeamID,
		&escalation.MultiRegion,
		&escalation.ReporterName,
		&escalation.ReporterRegion,
		&escalation.SchoolRegion,
		&escalation.TeamRegion,
		&escalation.Title,
		&escalation.Description,
		&escalation.ResolutionNotes,
		&escalation.Satisfaction,
		&escalation.Tags,
		&escalation.Watchers,
		&escalation.Attachments,
		&escalation.CreatedAt,
		&escalation.UpdatedAt,
		&escalation.DueDate,
		&escalation.AssignedAt,
		&escalation.ResolvedAt,
		&escalation.ClosedAt,
		&escalation.ResolutionTimeHours,
		&escalation.Revision,
	)
}

func scanEscalations(rows pgx.Rows) ([]domain.Escalation, error) {
	var result []domain.Escalation
	for rows.Next() {
		var escalation domain.Escalation
		if err := scanEscalation(rows, &escalation); err != nil {
			return nil, err
		}
		result = append(result, escalation)
	}
	return result, rows.Err()
}

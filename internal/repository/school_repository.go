package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scholarlift/escalation-service/internal/domain"
)

// SchoolRepository encapsulates school persistence.
type SchoolRepository interface {
	GetByID(ctx context.Context, id string) (*domain.School, error)
}

type schoolRepository struct {
	pool *pgxpool.Pool
}

// NewSchoolRepository instantiates repository.
func NewSchoolRepository(pool *pgxpool.Pool) SchoolRepository {
	return &schoolRepository{pool: pool}
}

func (r *schoolRepository) GetByID(ctx context.Context, id string) (*domain.School, error) {
	const query = `SELECT id, name, region, is_active, created_at, updated_at FROM schools WHERE id=$1`
	var school domain.School
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&school.ID,
		&school.Name,
		&school.Region,
		&school.IsActive,
		&school.CreatedAt,
		&school.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &school, nil
}

package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/armonia-platform/pqr-service/internal/domain"
)

// SLARepository stores resolution windows keyed by (category, priority).
type SLARepository interface {
	Create(ctx context.Context, def *domain.SLADefinition) error
	Update(ctx context.Context, def *domain.SLADefinition) error
	Delete(ctx context.Context, id string) error
	GetByCategoryPriority(ctx context.Context, category domain.PQRCategory, priority domain.PQRPriority) (*domain.SLADefinition, error)
	List(ctx context.Context) ([]domain.SLADefinition, error)
}

type slaRepository struct {
	pool *pgxpool.Pool
}

// NewSLARepository instantiates repository.
func NewSLARepository(pool *pgxpool.Pool) SLARepository {
	return &slaRepository{pool: pool}
}

const slaColumns = `id, category, priority, resolution_minutes, business_hours_only, active,
       created_at, updated_at`

func (r *slaRepository) Create(ctx context.Context, def *domain.SLADefinition) error {
	const query = `
        INSERT INTO sla_definitions (category, priority, resolution_minutes, business_hours_only, active)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		def.Category,
		def.Priority,
		def.ResolutionMinutes,
		def.BusinessHoursOnly,
		def.Active,
	).Scan(&def.ID, &def.CreatedAt, &def.UpdatedAt)
}

func (r *slaRepository) Update(ctx context.Context, def *domain.SLADefinition) error {
	const query = `
        UPDATE sla_definitions SET category=$1, priority=$2, resolution_minutes=$3,
            business_hours_only=$4, active=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		def.Category,
		def.Priority,
		def.ResolutionMinutes,
		def.BusinessHoursOnly,
		def.Active,
		def.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *slaRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM sla_definitions WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *slaRepository) GetByCategoryPriority(ctx context.Context, category domain.PQRCategory, priority domain.PQRPriority) (*domain.SLADefinition, error) {
	query := `SELECT ` + slaColumns + ` FROM sla_definitions
        WHERE category=$1 AND priority=$2 AND active LIMIT 1`
	var def domain.SLADefinition
	if err := r.pool.QueryRow(ctx, query, category, priority).Scan(
		&def.ID,
		&def.Category,
		&def.Priority,
		&def.ResolutionMinutes,
		&def.BusinessHoursOnly,
		&def.Active,
		&def.CreatedAt,
		&def.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &def, nil
}

func (r *slaRepository) List(ctx context.Context) ([]domain.SLADefinition, error) {
	query := `SELECT ` + slaColumns + ` FROM sla_definitions ORDER BY category, priority`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.SLADefinition
	for rows.Next() {
		var def domain.SLADefinition
		if err := rows.Scan(
			&def.ID,
			&def.Category,
			&def.Priority,
			&def.ResolutionMinutes,
			&def.BusinessHoursOnly,
			&def.Active,
			&def.CreatedAt,
			&def.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, def)
	}
	return result, rows.Err()
}

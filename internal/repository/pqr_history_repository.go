package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/armonia-platform/pqr-service/internal/domain"
)

// PQRHistoryRepository stores the immutable change audit trail.
type PQRHistoryRepository interface {
	Create(ctx context.Context, entry *domain.PQRHistory) error
	ListByPQR(ctx context.Context, pqrID string, limit, offset int) ([]domain.PQRHistory, error)
}

type pqrHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewPQRHistoryRepository instantiates repository.
func NewPQRHistoryRepository(pool *pgxpool.Pool) PQRHistoryRepository {
	return &pqrHistoryRepository{pool: pool}
}

func (r *pqrHistoryRepository) Create(ctx context.Context, entry *domain.PQRHistory) error {
	oldValue, err := json.Marshal(entry.OldValue)
	if err != nil {
		return err
	}
	newValue, err := json.Marshal(entry.NewValue)
	if err != nil {
		return err
	}
	const query = `
        INSERT INTO pqr_history (pqr_id, changed_by_id, change_type, old_value, new_value)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		entry.PQRID,
		entry.ChangedByID,
		entry.ChangeType,
		oldValue,
		newValue,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *pqrHistoryRepository) ListByPQR(ctx context.Context, pqrID string, limit, offset int) ([]domain.PQRHistory, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT id, pqr_id, changed_by_id, change_type, old_value, new_value, created_at
        FROM pqr_history WHERE pqr_id=$1
        ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, pqrID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.PQRHistory
	for rows.Next() {
		var entry domain.PQRHistory
		var oldValue, newValue []byte
		if err := rows.Scan(
			&entry.ID,
			&entry.PQRID,
			&entry.ChangedByID,
			&entry.ChangeType,
			&oldValue,
			&newValue,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		if len(oldValue) > 0 {
			if err := json.Unmarshal(oldValue, &entry.OldValue); err != nil {
				return nil, err
			}
		}
		if len(newValue) > 0 {
			if err := json.Unmarshal(newValue, &entry.NewValue); err != nil {
				return nil, err
			}
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/armonia-platform/pqr-service/internal/domain"
)

// NotificationLogRepository is the append-only delivery audit trail.
// There is intentionally no Update: entries are never mutated and never
// drive automatic retries.
type NotificationLogRepository interface {
	Append(ctx context.Context, entry *domain.NotificationLogEntry) error
	ListByPQR(ctx context.Context, pqrID string, limit, offset int) ([]domain.NotificationLogEntry, error)
}

type notificationLogRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationLogRepository instantiates repository.
func NewNotificationLogRepository(pool *pgxpool.Pool) NotificationLogRepository {
	return &notificationLogRepository{pool: pool}
}

func (r *notificationLogRepository) Append(ctx context.Context, entry *domain.NotificationLogEntry) error {
	const query = `
        INSERT INTO notification_log (pqr_id, kind, recipient_id, channel, success, error)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		entry.PQRID,
		entry.Kind,
		entry.RecipientID,
		entry.Channel,
		entry.Success,
		entry.Error,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *notificationLogRepository) ListByPQR(ctx context.Context, pqrID string, limit, offset int) ([]domain.NotificationLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT id, pqr_id, kind, recipient_id, channel, success, error, created_at
        FROM notification_log WHERE pqr_id=$1
        ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, pqrID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.NotificationLogEntry
	for rows.Next() {
		var entry domain.NotificationLogEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.PQRID,
			&entry.Kind,
			&entry.RecipientID,
			&entry.Channel,
			&entry.Success,
			&entry.Error,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/armonia-platform/pqr-service/internal/domain"
)

// PQRFilter captures search parameters for listings.
type PQRFilter struct {
	ReporterID  *string
	AssigneeID  *string
	TeamID      *string
	Statuses    []domain.PQRStatus
	Categories  []domain.PQRCategory
	Priorities  []domain.PQRPriority
	SearchTerm  *string
	DueBefore   *time.Time
	DueAfter    *time.Time
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

// PQRRepository encapsulates ticket persistence. Update performs a
// single-row write, which is the per-ticket serialization point.
type PQRRepository interface {
	Create(ctx context.Context, pqr *domain.PQR) error
	Update(ctx context.Context, pqr *domain.PQR) error
	GetByID(ctx context.Context, id string) (*domain.PQR, error)
	GetByTicketNumber(ctx context.Context, number string) (*domain.PQR, error)
	ListWithFilter(ctx context.Context, filter PQRFilter) ([]domain.PQR, error)
	CountByStatus(ctx context.Context) (map[domain.PQRStatus]int, error)
}

type pqrRepository struct {
	pool *pgxpool.Pool
}

// NewPQRRepository instantiates repository.
func NewPQRRepository(pool *pgxpool.Pool) PQRRepository {
	return &pqrRepository{pool: pool}
}

const pqrColumns = `id, ticket_number, pqr_type, category, subcategory, status, priority,
       reporter_id, assignee_id, team_id, title, description, response, attachments,
       created_at, updated_at, due_date, resolved_at, closed_at`

func (r *pqrRepository) Create(ctx context.Context, pqr *domain.PQR) error {
	const query = `
        INSERT INTO pqrs (ticket_number, pqr_type, category, subcategory, status, priority,
            reporter_id, assignee_id, team_id, title, description, response, attachments,
            due_date, resolved_at, closed_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		pqr.TicketNumber,
		pqr.Type,
		pqr.Category,
		pqr.Subcategory,
		pqr.Status,
		nullIfEmptyPriority(pqr.Priority),
		pqr.ReporterID,
		pqr.AssigneeID,
		pqr.TeamID,
		pqr.Title,
		pqr.Description,
		pqr.Response,
		pqr.Attachments,
		pqr.DueDate,
		pqr.ResolvedAt,
		pqr.ClosedAt,
	).Scan(&pqr.ID, &pqr.CreatedAt, &pqr.UpdatedAt)
}

func (r *pqrRepository) Update(ctx context.Context, pqr *domain.PQR) error {
	const query = `
        UPDATE pqrs SET category=$1, subcategory=$2, status=$3, priority=$4, assignee_id=$5,
            team_id=$6, title=$7, description=$8, response=$9, attachments=$10,
            due_date=$11, resolved_at=$12, closed_at=$13, updated_at=NOW()
        WHERE id=$14
        RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		pqr.Category,
		pqr.Subcategory,
		pqr.Status,
		nullIfEmptyPriority(pqr.Priority),
		pqr.AssigneeID,
		pqr.TeamID,
		pqr.Title,
		pqr.Description,
		pqr.Response,
		pqr.Attachments,
		pqr.DueDate,
		pqr.ResolvedAt,
		pqr.ClosedAt,
		pqr.ID,
	).Scan(&pqr.UpdatedAt)
	if err == pgx.ErrNoRows {
		return pgx.ErrNoRows
	}
	return err
}

func (r *pqrRepository) GetByID(ctx context.Context, id string) (*domain.PQR, error) {
	query := `SELECT ` + pqrColumns + ` FROM pqrs WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *pqrRepository) GetByTicketNumber(ctx context.Context, number string) (*domain.PQR, error) {
	query := `SELECT ` + pqrColumns + ` FROM pqrs WHERE ticket_number=$1`
	return r.fetchSingle(ctx, query, number)
}

func (r *pqrRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.PQR, error) {
	var pqr domain.PQR
	var priority *string
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&pqr.ID,
		&pqr.TicketNumber,
		&pqr.Type,
		&pqr.Category,
		&pqr.Subcategory,
		&pqr.Status,
		&priority,
		&pqr.ReporterID,
		&pqr.AssigneeID,
		&pqr.TeamID,
		&pqr.Title,
		&pqr.Description,
		&pqr.Response,
		&pqr.Attachments,
		&pqr.CreatedAt,
		&pqr.UpdatedAt,
		&pqr.DueDate,
		&pqr.ResolvedAt,
		&pqr.ClosedAt,
	); err != nil {
		return nil, err
	}
	if priority != nil {
		pqr.Priority = domain.PQRPriority(*priority)
	}
	return &pqr, nil
}

func (r *pqrRepository) ListWithFilter(ctx context.Context, filter PQRFilter) ([]domain.PQR, error) {
	base := `SELECT ` + pqrColumns + ` FROM pqrs`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.ReporterID != nil {
		args = append(args, *filter.ReporterID)
		clauses = append(clauses, fmt.Sprintf("reporter_id=$%d", len(args)))
	}
	if filter.AssigneeID != nil {
		args = append(args, *filter.AssigneeID)
		clauses = append(clauses, fmt.Sprintf("assignee_id=$%d", len(args)))
	}
	if filter.TeamID != nil {
		args = append(args, *filter.TeamID)
		clauses = append(clauses, fmt.Sprintf("team_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Categories) > 0 {
		placeholders := make([]string, len(filter.Categories))
		for i, cat := range filter.Categories {
			args = append(args, cat)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("category IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Priorities) > 0 {
		placeholders := make([]string, len(filter.Priorities))
		for i, pr := range filter.Priorities {
			args = append(args, pr)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("priority IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.DueBefore != nil {
		args = append(args, *filter.DueBefore)
		clauses = append(clauses, fmt.Sprintf("due_date IS NOT NULL AND due_date <= $%d", len(args)))
	}
	if filter.DueAfter != nil {
		args = append(args, *filter.DueAfter)
		clauses = append(clauses, fmt.Sprintf("due_date IS NOT NULL AND due_date >= $%d", len(args)))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(title) LIKE %s OR LOWER(description) LIKE %s)", placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY updated_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPQRs(rows)
}

func (r *pqrRepository) CountByStatus(ctx context.Context) (map[domain.PQRStatus]int, error) {
	const query = `SELECT status, COUNT(*) FROM pqrs GROUP BY status`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.PQRStatus]int)
	for rows.Next() {
		var status domain.PQRStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func scanPQRs(rows pgx.Rows) ([]domain.PQR, error) {
	var result []domain.PQR
	for rows.Next() {
		var pqr domain.PQR
		var priority *string
		if err := rows.Scan(
			&pqr.ID,
			&pqr.TicketNumber,
			&pqr.Type,
			&pqr.Category,
			&pqr.Subcategory,
			&pqr.Status,
			&priority,
			&pqr.ReporterID,
			&pqr.AssigneeID,
			&pqr.TeamID,
			&pqr.Title,
			&pqr.Description,
			&pqr.Response,
			&pqr.Attachments,
			&pqr.CreatedAt,
			&pqr.UpdatedAt,
			&pqr.DueDate,
			&pqr.ResolvedAt,
			&pqr.ClosedAt,
		); err != nil {
			return nil, err
		}
		if priority != nil {
			pqr.Priority = domain.PQRPriority(*priority)
		}
		result = append(result, pqr)
	}
	return result, rows.Err()
}

func nullIfEmptyPriority(p domain.PQRPriority) *string {
	if p == "" {
		return nil
	}
	s := string(p)
	return &s
}

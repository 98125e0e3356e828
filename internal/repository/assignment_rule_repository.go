package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/armonia-platform/pqr-service/internal/domain"
)

// AssignmentRuleRepository stores the ordered rule table.
type AssignmentRuleRepository interface {
	Create(ctx context.Context, rule *domain.AssignmentRule) error
	Update(ctx context.Context, rule *domain.AssignmentRule) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.AssignmentRule, error)
	ListActive(ctx context.Context) ([]domain.AssignmentRule, error)
	List(ctx context.Context) ([]domain.AssignmentRule, error)
}

type assignmentRuleRepository struct {
	pool *pgxpool.Pool
}

// NewAssignmentRuleRepository instantiates repository.
func NewAssignmentRuleRepository(pool *pgxpool.Pool) AssignmentRuleRepository {
	return &assignmentRuleRepository{pool: pool}
}

const ruleColumns = `id, name, sort_order, active, categories, keywords, set_priority,
       team_id, user_id, created_at, updated_at`

func (r *assignmentRuleRepository) Create(ctx context.Context, rule *domain.AssignmentRule) error {
	const query = `
        INSERT INTO assignment_rules (name, sort_order, active, categories, keywords,
            set_priority, team_id, user_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		rule.Name,
		rule.SortOrder,
		rule.Active,
		categoryStrings(rule.Categories),
		rule.Keywords,
		rule.SetPriority,
		rule.TeamID,
		rule.UserID,
	).Scan(&rule.ID, &rule.CreatedAt, &rule.UpdatedAt)
}

func (r *assignmentRuleRepository) Update(ctx context.Context, rule *domain.AssignmentRule) error {
	const query = `
        UPDATE assignment_rules SET name=$1, sort_order=$2, active=$3, categories=$4,
            keywords=$5, set_priority=$6, team_id=$7, user_id=$8, updated_at=NOW()
        WHERE id=$9`
	cmd, err := r.pool.Exec(ctx, query,
		rule.Name,
		rule.SortOrder,
		rule.Active,
		categoryStrings(rule.Categories),
		rule.Keywords,
		rule.SetPriority,
		rule.TeamID,
		rule.UserID,
		rule.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *assignmentRuleRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM assignment_rules WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *assignmentRuleRepository) GetByID(ctx context.Context, id string) (*domain.AssignmentRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM assignment_rules WHERE id=$1`
	row := r.pool.QueryRow(ctx, query, id)
	return scanRule(row)
}

func (r *assignmentRuleRepository) ListActive(ctx context.Context) ([]domain.AssignmentRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM assignment_rules WHERE active ORDER BY sort_order ASC`
	return r.list(ctx, query)
}

func (r *assignmentRuleRepository) List(ctx context.Context) ([]domain.AssignmentRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM assignment_rules ORDER BY sort_order ASC`
	return r.list(ctx, query)
}

func (r *assignmentRuleRepository) list(ctx context.Context, query string) ([]domain.AssignmentRule, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AssignmentRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *rule)
	}
	return result, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRule(row rowScanner) (*domain.AssignmentRule, error) {
	var rule domain.AssignmentRule
	var categories []string
	var setPriority *string
	if err := row.Scan(
		&rule.ID,
		&rule.Name,
		&rule.SortOrder,
		&rule.Active,
		&categories,
		&rule.Keywords,
		&setPriority,
		&rule.TeamID,
		&rule.UserID,
		&rule.CreatedAt,
		&rule.UpdatedAt,
	); err != nil {
		return nil, err
	}
	rule.Categories = make([]domain.PQRCategory, 0, len(categories))
	for _, c := range categories {
		rule.Categories = append(rule.Categories, domain.PQRCategory(c))
	}
	if setPriority != nil {
		p := domain.PQRPriority(*setPriority)
		rule.SetPriority = &p
	}
	return &rule, nil
}

func categoryStrings(categories []domain.PQRCategory) []string {
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		out = append(out, string(c))
	}
	return out
}

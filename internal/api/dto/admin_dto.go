package dto

import (
	"time"

	"github.com/armonia-platform/pqr-service/internal/domain"
)

// AssignmentRuleRequest payload for create/update.
type AssignmentRuleRequest struct {
	Name        string               `json:"name"`
	SortOrder   int                  `json:"sort_order"`
	Active      bool                 `json:"active"`
	Categories  []domain.PQRCategory `json:"categories"`
	Keywords    []string             `json:"keywords"`
	SetPriority *domain.PQRPriority  `json:"set_priority"`
	TeamID      *string              `json:"team_id"`
	UserID      *string              `json:"user_id"`
}

// AssignmentRuleResponse response.
type AssignmentRuleResponse struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	SortOrder   int                  `json:"sort_order"`
	Active      bool                 `json:"active"`
	Categories  []domain.PQRCategory `json:"categories"`
	Keywords    []string             `json:"keywords"`
	SetPriority *domain.PQRPriority  `json:"set_priority,omitempty"`
	TeamID      *string              `json:"team_id,omitempty"`
	UserID      *string              `json:"user_id,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// SLADefinitionRequest payload for create/update.
type SLADefinitionRequest struct {
	Category          domain.PQRCategory `json:"category"`
	Priority          domain.PQRPriority `json:"priority"`
	ResolutionMinutes int                `json:"resolution_minutes"`
	BusinessHoursOnly bool               `json:"business_hours_only"`
	Active            bool               `json:"active"`
}

// SLADefinitionResponse response.
type SLADefinitionResponse struct {
	ID                string             `json:"id"`
	Category          domain.PQRCategory `json:"category"`
	Priority          domain.PQRPriority `json:"priority"`
	ResolutionMinutes int                `json:"resolution_minutes"`
	BusinessHoursOnly bool               `json:"business_hours_only"`
	Active            bool               `json:"active"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

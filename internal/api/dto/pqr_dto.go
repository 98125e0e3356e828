package dto

import (
	"time"

	"github.com/armonia-platform/pqr-service/internal/domain"
)

// CreatePQRRequest payload.
type CreatePQRRequest struct {
	Type        domain.PQRType     `json:"pqr_type"`
	Category    domain.PQRCategory `json:"category"`
	Subcategory *string            `json:"subcategory"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Attachments []string           `json:"attachments"`
	Draft       bool               `json:"draft"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status  domain.PQRStatus `json:"status"`
	Comment string           `json:"comment"`
}

// AssignRequest payload.
type AssignRequest struct {
	TeamID     *string             `json:"team_id"`
	AssigneeID *string             `json:"assignee_id"`
	Priority   *domain.PQRPriority `json:"priority"`
}

// RespondRequest payload.
type RespondRequest struct {
	Response string `json:"response"`
}

// ReopenRequest payload.
type ReopenRequest struct {
	Comment string `json:"comment"`
}

// PQRSummary response.
type PQRSummary struct {
	ID           string             `json:"id"`
	TicketNumber string             `json:"ticket_number"`
	Type         domain.PQRType     `json:"pqr_type"`
	Category     domain.PQRCategory `json:"category"`
	Status       domain.PQRStatus   `json:"status"`
	Priority     domain.PQRPriority `json:"priority,omitempty"`
	Title        string             `json:"title"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
	DueDate      *time.Time         `json:"due_date,omitempty"`
}

// PQRDetail response.
type PQRDetail struct {
	ID           string             `json:"id"`
	TicketNumber string             `json:"ticket_number"`
	Type         domain.PQRType     `json:"pqr_type"`
	Category     domain.PQRCategory `json:"category"`
	Subcategory  *string            `json:"subcategory,omitempty"`
	Status       domain.PQRStatus   `json:"status"`
	Priority     domain.PQRPriority `json:"priority,omitempty"`
	ReporterID   string             `json:"reporter_id"`
	AssigneeID   *string            `json:"assignee_id,omitempty"`
	TeamID       *string            `json:"team_id,omitempty"`
	Title        string             `json:"title"`
	Description  string             `json:"description"`
	Response     string             `json:"response,omitempty"`
	Attachments  []string           `json:"attachments,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
	DueDate      *time.Time         `json:"due_date,omitempty"`
	ResolvedAt   *time.Time         `json:"resolved_at,omitempty"`
	ClosedAt     *time.Time         `json:"closed_at,omitempty"`
}

// HistoryEntry response.
type HistoryEntry struct {
	ID          string               `json:"id"`
	ChangedByID *string              `json:"changed_by_id,omitempty"`
	ChangeType  domain.PQRChangeType `json:"change_type"`
	OldValue    map[string]any       `json:"old_value"`
	NewValue    map[string]any       `json:"new_value"`
	CreatedAt   time.Time            `json:"created_at"`
}

// NotificationLogEntryResponse response.
type NotificationLogEntryResponse struct {
	ID          string                  `json:"id"`
	Kind        domain.NotificationKind `json:"kind"`
	RecipientID string                  `json:"recipient_id"`
	Channel     domain.Channel          `json:"channel"`
	Success     bool                    `json:"success"`
	Error       string                  `json:"error,omitempty"`
	CreatedAt   time.Time               `json:"created_at"`
}

// SummaryResponse is the admin dashboard payload.
type SummaryResponse struct {
	CountsByStatus map[domain.PQRStatus]int `json:"counts_by_status"`
	Recent         []PQRSummary             `json:"recent"`
	DueSoon        []PQRSummary             `json:"due_soon"`
}

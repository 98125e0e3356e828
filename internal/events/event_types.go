package events

import (
	"time"

	"github.com/armonia-platform/pqr-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventPQRCreated       EventType = "pqr_created"
	EventPQRStatusChanged EventType = "pqr_status_changed"
	EventPQRAssigned      EventType = "pqr_assigned"
	EventPQRDueSoon       EventType = "pqr_due_soon"
	EventPQREscalated     EventType = "pqr_escalated"
	EventPQRSurvey        EventType = "pqr_survey"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	PQRID     string      `json:"pqr_id"`
	ActorID   *string     `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// PQRCreatedPayload payload.
type PQRCreatedPayload struct {
	TicketNumber string             `json:"ticket_number"`
	Category     domain.PQRCategory `json:"category"`
	Type         domain.PQRType     `json:"pqr_type"`
	Title        string             `json:"title"`
}

// PQRStatusChangedPayload payload.
type PQRStatusChangedPayload struct {
	OldStatus domain.PQRStatus `json:"old_status"`
	NewStatus domain.PQRStatus `json:"new_status"`
	Comment   string           `json:"comment,omitempty"`
}

// PQRAssignedPayload payload.
type PQRAssignedPayload struct {
	AssigneeID *string            `json:"assignee_id,omitempty"`
	TeamID     *string            `json:"team_id,omitempty"`
	Priority   domain.PQRPriority `json:"priority"`
	DueDate    *time.Time         `json:"due_date,omitempty"`
}

// PQRDueSoonPayload payload.
type PQRDueSoonPayload struct {
	DueDate time.Time `json:"due_date"`
}

// PQRSurveyPayload payload.
type PQRSurveyPayload struct {
	TicketNumber string `json:"ticket_number"`
	Delivered    int    `json:"delivered"`
}

// PQREscalatedPayload payload.
type PQREscalatedPayload struct {
	DueDate        time.Time `json:"due_date"`
	OverdueMinutes int       `json:"overdue_minutes"`
}

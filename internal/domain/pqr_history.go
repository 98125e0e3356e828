package domain

import "time"

// PQRChangeType captures what changed in a history entry.
type PQRChangeType string

const (
	ChangeTypeStatus   PQRChangeType = "STATUS_CHANGE"
	ChangeTypeAssignee PQRChangeType = "ASSIGNEE_CHANGE"
	ChangeTypePriority PQRChangeType = "PRIORITY_CHANGE"
	ChangeTypeTeam     PQRChangeType = "TEAM_CHANGE"
	ChangeTypeResponse PQRChangeType = "RESPONSE_CHANGE"
)

// PQRHistory is an immutable audit trail entry.
type PQRHistory struct {
	ID          string
	PQRID       string
	ChangedByID *string
	ChangeType  PQRChangeType
	OldValue    map[string]any
	NewValue    map[string]any
	CreatedAt   time.Time
}

package domain

import "time"

// AssignmentRule maps ticket content to a priority and an owning target.
//
// Rules are evaluated in ascending SortOrder; the first active match wins.
// TeamID and UserID are mutually exclusive targets.
type AssignmentRule struct {
	ID          string
	Name        string
	SortOrder   int
	Active      bool
	Categories  []PQRCategory
	Keywords    []string
	SetPriority *PQRPriority
	TeamID      *string
	UserID      *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

package domain

import "time"

// SLADefinition fixes the resolution window for a (category, priority) pair.
type SLADefinition struct {
	ID                string
	Category          PQRCategory
	Priority          PQRPriority
	ResolutionMinutes int
	BusinessHoursOnly bool
	Active            bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

package domain

import "time"

// PQRStatus enumerates lifecycle states for PQR tickets.
type PQRStatus string

const (
	StatusDraft       PQRStatus = "DRAFT"
	StatusSubmitted   PQRStatus = "SUBMITTED"
	StatusInReview    PQRStatus = "IN_REVIEW"
	StatusAssigned    PQRStatus = "ASSIGNED"
	StatusInProgress  PQRStatus = "IN_PROGRESS"
	StatusWaitingInfo PQRStatus = "WAITING_INFO"
	StatusResolved    PQRStatus = "RESOLVED"
	StatusClosed      PQRStatus = "CLOSED"
	StatusReopened    PQRStatus = "REOPENED"
	StatusCancelled   PQRStatus = "CANCELLED"
	StatusRejected    PQRStatus = "REJECTED"
)

// PQRCategory classifies what a ticket is about.
type PQRCategory string

const (
	CategoryMaintenance    PQRCategory = "MAINTENANCE"
	CategorySecurity       PQRCategory = "SECURITY"
	CategoryNoise          PQRCategory = "NOISE"
	CategoryPayments       PQRCategory = "PAYMENTS"
	CategoryServices       PQRCategory = "SERVICES"
	CategoryCommonAreas    PQRCategory = "COMMON_AREAS"
	CategoryAdministration PQRCategory = "ADMINISTRATION"
	CategoryNeighbors      PQRCategory = "NEIGHBORS"
	CategoryPets           PQRCategory = "PETS"
	CategoryParking        PQRCategory = "PARKING"
	CategoryOther          PQRCategory = "OTHER"
)

// PQRPriority enumerates SLA urgency.
type PQRPriority string

const (
	PriorityLow    PQRPriority = "LOW"
	PriorityMedium PQRPriority = "MEDIUM"
	PriorityHigh   PQRPriority = "HIGH"
	PriorityUrgent PQRPriority = "URGENT"
)

// PQRType distinguishes petitions, complaints, claims and suggestions.
type PQRType string

const (
	TypePetition   PQRType = "PETITION"
	TypeComplaint  PQRType = "COMPLAINT"
	TypeClaim      PQRType = "CLAIM"
	TypeSuggestion PQRType = "SUGGESTION"
)

// PQR is the aggregate for resident requests.
//
// DueDate is always derived from (priority, category) at the moment the
// priority is set or changed; it is never edited on its own.
type PQR struct {
	ID           string
	TicketNumber string
	Type         PQRType
	Category     PQRCategory
	Subcategory  *string
	Status       PQRStatus
	Priority     PQRPriority
	ReporterID   string
	AssigneeID   *string
	TeamID       *string
	Title        string
	Description  string
	Response     string
	Attachments  []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DueDate      *time.Time
	ResolvedAt   *time.Time
	ClosedAt     *time.Time
}

// IsTerminal reports whether a status ends the SLA window.
func (s PQRStatus) IsTerminal() bool {
	switch s {
	case StatusResolved, StatusClosed, StatusCancelled, StatusRejected:
		return true
	}
	return false
}

// Valid reports whether s is a known status.
func (s PQRStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusInReview, StatusAssigned,
		StatusInProgress, StatusWaitingInfo, StatusResolved, StatusClosed,
		StatusReopened, StatusCancelled, StatusRejected:
		return true
	}
	return false
}

// Valid reports whether c is a known category.
func (c PQRCategory) Valid() bool {
	switch c {
	case CategoryMaintenance, CategorySecurity, CategoryNoise, CategoryPayments,
		CategoryServices, CategoryCommonAreas, CategoryAdministration,
		CategoryNeighbors, CategoryPets, CategoryParking, CategoryOther:
		return true
	}
	return false
}

// Valid reports whether p is a known priority.
func (p PQRPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Valid reports whether t is a known type.
func (t PQRType) Valid() bool {
	switch t {
	case TypePetition, TypeComplaint, TypeClaim, TypeSuggestion:
		return true
	}
	return false
}

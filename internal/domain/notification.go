package domain

import "time"

// NotificationKind identifies the lifecycle moment a notification covers.
type NotificationKind string

const (
	NotifyStatusChange NotificationKind = "STATUS_CHANGE"
	NotifyAssigned     NotificationKind = "ASSIGNED"
	NotifyDueSoon      NotificationKind = "DUE_SOON"
	NotifyEscalated    NotificationKind = "ESCALATED"
	NotifySurvey       NotificationKind = "SURVEY"
)

// Channel is a delivery transport for notifications.
type Channel string

const (
	ChannelEmail Channel = "EMAIL"
	ChannelPush  Channel = "PUSH"
	ChannelSMS   Channel = "SMS"
)

// DeliveryResult is the outcome of one send attempt.
type DeliveryResult struct {
	RecipientID string
	Channel     Channel
	Success     bool
	Error       string
}

// NotificationLogEntry is an append-only audit record of a dispatch attempt.
// Entries are never mutated after creation and never drive retries.
type NotificationLogEntry struct {
	ID          string
	PQRID       string
	Kind        NotificationKind
	RecipientID string
	Channel     Channel
	Success     bool
	Error       string
	CreatedAt   time.Time
}

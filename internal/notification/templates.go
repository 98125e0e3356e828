// Package notification holds the template catalogue for lifecycle
// notifications. Templates are selected by (event kind, ticket status)
// with a per-kind DEFAULT fallback.
package notification

import (
	"github.com/armonia-platform/pqr-service/internal/domain"
	"github.com/armonia-platform/pqr-service/internal/template"
)

type templateKey struct {
	Kind   domain.NotificationKind
	Status domain.PQRStatus
}

// defaultStatus selects the per-kind fallback template.
const defaultStatus = domain.PQRStatus("DEFAULT")

var catalogue = map[templateKey]template.Template{
	{Kind: domain.NotifyStatusChange, Status: domain.StatusSubmitted}: {
		Subject: "PQR received: {{ticketNumber}}",
		Body: "Dear {{recipientName}},\n\n" +
			"Your request {{ticketNumber}} \"{{title}}\" has been received and " +
			"will be reviewed shortly. You can follow its progress on the platform.",
	},
	{Kind: domain.NotifyStatusChange, Status: domain.StatusInReview}: {
		Subject: "PQR in review: {{ticketNumber}}",
		Body: "Dear {{recipientName}},\n\n" +
			"Request {{ticketNumber}} \"{{title}}\" is being reviewed and will be " +
			"categorized and prioritized shortly.",
	},
	{Kind: domain.NotifyStatusChange, Status: domain.StatusAssigned}: {
		Subject: "PQR assigned: {{ticketNumber}}",
		Body: "Dear {{recipientName}},\n\n" +
			"Request {{ticketNumber}} \"{{title}}\" has been assigned for attention." +
			"{{#if dueDate}}\nExpected resolution by {{dueDate}}.{{/if}}",
	},
	{Kind: domain.NotifyStatusChange, Status: domain.StatusInProgress}: {
		Subject: "PQR in progress: {{ticketNumber}}",
		Body: "Dear {{recipientName}},\n\n" +
			"Request {{ticketNumber}} \"{{title}}\" is being worked on. " +
			"We will let you know as soon as there is news.",
	},
	{Kind: domain.NotifyStatusChange, Status: domain.StatusWaitingInfo}: {
		Subject: "PQR waiting for information: {{ticketNumber}}",
		Body: "Dear {{recipientName}},\n\n" +
			"Request {{ticketNumber}} \"{{title}}\" is on hold pending additional " +
			"information.{{#if comment}}\n{{comment}}{{/if}}",
	},
	{Kind: domain.NotifyStatusChange, Status: domain.StatusResolved}: {
		Subject: "PQR resolved: {{ticketNumber}}",
		Body: "Dear {{recipientName}},\n\n" +
			"Request {{ticketNumber}} \"{{title}}\" has been resolved." +
			"{{#if comment}}\nResolution: {{comment}}{{/if}}\n" +
			"If you consider it unresolved you can reopen it on the platform.",
	},
	{Kind: domain.NotifyStatusChange, Status: domain.StatusClosed}: {
		Subject: "PQR closed: {{ticketNumber}}",
		Body: "Dear {{recipientName}},\n\n" +
			"Request {{ticketNumber}} \"{{title}}\" has been closed. " +
			"Thank you for using the PQR system.",
	},
	{Kind: domain.NotifyStatusChange, Status: domain.StatusReopened}: {
		Subject: "PQR reopened: {{ticketNumber}}",
		Body: "Dear {{recipientName}},\n\n" +
			"Request {{ticketNumber}} \"{{title}}\" has been reopened." +
			"{{#if comment}}\nReason: {{comment}}{{/if}}\n" +
			"It will be reviewed again shortly.",
	},
	{Kind: domain.NotifyStatusChange, Status: domain.StatusCancelled}: {
		Subject: "PQR cancelled: {{ticketNumber}}",
		Body: "Dear {{recipientName}},\n\n" +
			"Request {{ticketNumber}} \"{{title}}\" has been cancelled." +
			"{{#if comment}}\n{{comment}}{{/if}}",
	},
	{Kind: domain.NotifyStatusChange, Status: domain.StatusRejected}: {
		Subject: "PQR rejected: {{ticketNumber}}",
		Body: "Dear {{recipientName}},\n\n" +
			"Request {{ticketNumber}} \"{{title}}\" has been rejected." +
			"{{#if comment}}\nReason: {{comment}}{{/if}}",
	},
	{Kind: domain.NotifyStatusChange, Status: defaultStatus}: {
		Subject: "PQR update: {{ticketNumber}}",
		Body: "Dear {{recipientName}},\n\n" +
			"Request {{ticketNumber}} \"{{title}}\" changed from {{previousStatus}} " +
			"to {{status}}.{{#if comment}}\n{{comment}}{{/if}}",
	},
	{Kind: domain.NotifyAssigned, Status: defaultStatus}: {
		Subject: "PQR assigned to you: {{ticketNumber}}",
		Body: "Dear {{recipientName}},\n\n" +
			"Request {{ticketNumber}} \"{{title}}\" was assigned to you." +
			"{{#if dueDate}}\nDue by {{dueDate}}.{{/if}}",
	},
	{Kind: domain.NotifyDueSoon, Status: defaultStatus}: {
		Subject: "Reminder: PQR {{ticketNumber}} is due soon",
		Body: "Dear {{recipientName}},\n\n" +
			"Request {{ticketNumber}} \"{{title}}\" is approaching its due date " +
			"({{dueDate}}). Current status: {{status}}. Please take the necessary " +
			"actions before the deadline.",
	},
	{Kind: domain.NotifyEscalated, Status: defaultStatus}: {
		Subject: "Escalation: PQR {{ticketNumber}} is overdue",
		Body: "Dear {{recipientName}},\n\n" +
			"Request {{ticketNumber}} \"{{title}}\" passed its due date " +
			"({{dueDate}}) and is still {{status}}. It has been escalated.",
	},
	{Kind: domain.NotifySurvey, Status: defaultStatus}: {
		Subject: "How did we do? PQR {{ticketNumber}}",
		Body: "Dear {{recipientName}},\n\n" +
			"Your request {{ticketNumber}} \"{{title}}\" has been resolved. " +
			"We would like to know how satisfied you are with the attention " +
			"received. Please rate your experience on the platform.",
	},
}

// Lookup returns the template for (kind, status), falling back to the
// kind's DEFAULT entry.
func Lookup(kind domain.NotificationKind, status domain.PQRStatus) template.Template {
	if tpl, ok := catalogue[templateKey{Kind: kind, Status: status}]; ok {
		return tpl
	}
	return catalogue[templateKey{Kind: kind, Status: defaultStatus}]
}

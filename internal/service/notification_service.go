package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/armonia-platform/pqr-service/internal/domain"
	"github.com/armonia-platform/pqr-service/internal/events"
	"github.com/armonia-platform/pqr-service/internal/notification"
	"github.com/armonia-platform/pqr-service/internal/notifier"
	"github.com/armonia-platform/pqr-service/internal/observability"
	"github.com/armonia-platform/pqr-service/internal/persistence"
	"github.com/armonia-platform/pqr-service/internal/repository"
	"github.com/armonia-platform/pqr-service/internal/template"
	"github.com/armonia-platform/pqr-service/pkg/util"
)

// NotificationService fans lifecycle events out to recipients. Delivery
// failures are recorded in the audit log and logged, never returned to
// the code that triggered the event.
type NotificationService struct {
	pqrs       repository.PQRRepository
	users      repository.UserRepository
	log        repository.NotificationLogRepository
	dispatcher events.Dispatcher
	sender     notifier.Notifier
	markers    persistence.MarkerStore
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NotificationDependencies bundles collaborators for dispatch.
type NotificationDependencies struct {
	PQRRepo    repository.PQRRepository
	UserRepo   repository.UserRepository
	LogRepo    repository.NotificationLogRepository
	Dispatcher events.Dispatcher
	Sender     notifier.Notifier
	Markers    persistence.MarkerStore
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(deps NotificationDependencies) *NotificationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		pqrs:       deps.PQRRepo,
		users:      deps.UserRepo,
		log:        deps.LogRepo,
		dispatcher: deps.Dispatcher,
		sender:     deps.Sender,
		markers:    deps.Markers,
		metrics:    deps.Metrics,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to lifecycle events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventPQRCreated, n.handleCreated)
	n.dispatcher.Subscribe(events.EventPQRStatusChanged, n.handleStatusChanged)
	n.dispatcher.Subscribe(events.EventPQRAssigned, n.handleAssigned)
	n.dispatcher.Subscribe(events.EventPQRDueSoon, n.handleDueSoon)
	n.dispatcher.Subscribe(events.EventPQREscalated, n.handleEscalated)
}

func (n *NotificationService) handleCreated(ctx context.Context, event events.Event) error {
	pqr, err := n.pqrs.GetByID(ctx, event.PQRID)
	if err != nil {
		n.logger.Warn("notification skipped, ticket fetch failed",
			zap.String("pqr_id", event.PQRID), zap.Error(err))
		return nil
	}
	// Drafts are silent until the reporter submits them.
	if pqr.Status == domain.StatusDraft {
		return nil
	}
	recipients := n.recipients(ctx, pqr, pqr.Status)
	n.fanOut(ctx, pqr, domain.NotifyStatusChange, pqr.Status, recipients, n.templateData(pqr))
	return nil
}

func (n *NotificationService) handleStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PQRStatusChangedPayload)
	if !ok {
		return nil
	}
	pqr, err := n.pqrs.GetByID(ctx, event.PQRID)
	if err != nil {
		n.logger.Warn("notification skipped, ticket fetch failed",
			zap.String("pqr_id", event.PQRID), zap.Error(err))
		return nil
	}
	recipients := n.recipients(ctx, pqr, payload.NewStatus)
	data := n.templateData(pqr)
	data["previousStatus"] = string(payload.OldStatus)
	data["comment"] = payload.Comment
	n.fanOut(ctx, pqr, domain.NotifyStatusChange, pqr.Status, recipients, data)

	if payload.NewStatus == domain.StatusResolved {
		n.SendSatisfactionSurvey(ctx, pqr.ID)
	}
	return nil
}

func (n *NotificationService) handleAssigned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PQRAssignedPayload)
	if !ok || payload.AssigneeID == nil {
		return nil
	}
	pqr, err := n.pqrs.GetByID(ctx, event.PQRID)
	if err != nil {
		n.logger.Warn("notification skipped, ticket fetch failed",
			zap.String("pqr_id", event.PQRID), zap.Error(err))
		return nil
	}
	assignee, err := n.users.GetByID(ctx, *payload.AssigneeID)
	if err != nil {
		n.logger.Warn("notification skipped, assignee fetch failed",
			zap.String("user_id", *payload.AssigneeID), zap.Error(err))
		return nil
	}
	n.fanOut(ctx, pqr, domain.NotifyAssigned, pqr.Status, []domain.User{*assignee}, n.templateData(pqr))
	return nil
}

func (n *NotificationService) handleDueSoon(ctx context.Context, event events.Event) error {
	return n.notifyWorkers(ctx, event.PQRID, domain.NotifyDueSoon)
}

func (n *NotificationService) handleEscalated(ctx context.Context, event events.Event) error {
	return n.notifyWorkers(ctx, event.PQRID, domain.NotifyEscalated)
}

// notifyWorkers targets the assignee plus complex admins, which covers
// both reminders and escalations.
func (n *NotificationService) notifyWorkers(ctx context.Context, pqrID string, kind domain.NotificationKind) error {
	pqr, err := n.pqrs.GetByID(ctx, pqrID)
	if err != nil {
		n.logger.Warn("notification skipped, ticket fetch failed",
			zap.String("pqr_id", pqrID), zap.Error(err))
		return nil
	}
	recipients := make([]domain.User, 0, 4)
	if pqr.AssigneeID != nil {
		if assignee, err := n.users.GetByID(ctx, *pqr.AssigneeID); err == nil {
			recipients = append(recipients, *assignee)
		}
	}
	recipients = n.appendAdmins(ctx, recipients)
	n.fanOut(ctx, pqr, kind, pqr.Status, recipients, n.templateData(pqr))
	return nil
}

// SendSatisfactionSurvey sends the one-shot survey to the reporter of a
// RESOLVED ticket. The Redis marker keeps repeat resolutions from
// producing a second survey.
func (n *NotificationService) SendSatisfactionSurvey(ctx context.Context, pqrID string) {
	pqr, err := n.pqrs.GetByID(ctx, pqrID)
	if err != nil {
		n.logger.Warn("survey skipped, ticket fetch failed",
			zap.String("pqr_id", pqrID), zap.Error(err))
		return
	}
	if pqr.Status != domain.StatusResolved {
		return
	}
	fresh, err := n.markers.Claim(ctx, "survey", pqr.ID)
	if err != nil {
		n.logger.Warn("survey skipped, marker claim failed",
			zap.String("pqr_id", pqr.ID), zap.Error(err))
		return
	}
	if !fresh {
		return
	}
	reporter, err := n.users.GetByID(ctx, pqr.ReporterID)
	if err != nil {
		n.logger.Warn("survey skipped, reporter fetch failed",
			zap.String("user_id", pqr.ReporterID), zap.Error(err))
		return
	}
	deliveries := n.fanOut(ctx, pqr, domain.NotifySurvey, pqr.Status, []domain.User{*reporter}, n.templateData(pqr))
	delivered := 0
	for _, d := range deliveries {
		if d.Success {
			delivered++
		}
	}
	n.publishEvent(ctx, events.Event{
		Type:  events.EventPQRSurvey,
		PQRID: pqr.ID,
		Payload: events.PQRSurveyPayload{
			TicketNumber: pqr.TicketNumber,
			Delivered:    delivered,
		},
	})
}

func (n *NotificationService) publishEvent(ctx context.Context, event events.Event) {
	if n.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = n.dispatcher.Publish(ctx, event)
}

// recipients resolves reporter plus assignee, deduplicated. SUBMITTED
// and REOPENED also reach the complex administrators.
func (n *NotificationService) recipients(ctx context.Context, pqr *domain.PQR, status domain.PQRStatus) []domain.User {
	out := make([]domain.User, 0, 4)
	if reporter, err := n.users.GetByID(ctx, pqr.ReporterID); err == nil {
		out = append(out, *reporter)
	} else {
		n.logger.Warn("reporter fetch failed",
			zap.String("user_id", pqr.ReporterID), zap.Error(err))
	}
	if pqr.AssigneeID != nil && *pqr.AssigneeID != pqr.ReporterID {
		if assignee, err := n.users.GetByID(ctx, *pqr.AssigneeID); err == nil {
			out = append(out, *assignee)
		}
	}
	if status == domain.StatusSubmitted || status == domain.StatusReopened {
		out = n.appendAdmins(ctx, out)
	}
	return out
}

func (n *NotificationService) appendAdmins(ctx context.Context, out []domain.User) []domain.User {
	admins, err := n.users.ListByRole(ctx, domain.RoleComplexAdmin)
	if err != nil {
		n.logger.Warn("admin listing failed", zap.Error(err))
		return out
	}
	for _, admin := range admins {
		seen := false
		for _, existing := range out {
			if existing.ID == admin.ID {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, admin)
		}
	}
	return out
}

// fanOut renders the template per recipient and sends over each enabled
// channel, appending an audit entry per attempt. Returns the outcome of
// every attempt; a failure never stops the remaining sends.
func (n *NotificationService) fanOut(ctx context.Context, pqr *domain.PQR, kind domain.NotificationKind, status domain.PQRStatus, recipients []domain.User, data map[string]string) []domain.DeliveryResult {
	tpl := notification.Lookup(kind, status)
	deliveries := make([]domain.DeliveryResult, 0, len(recipients))
	for _, recipient := range recipients {
		data["recipientName"] = recipient.Name
		rendered := template.Render(tpl, data)
		for _, channel := range recipient.NotificationChannels() {
			address := recipient.AddressFor(channel)
			result := n.sender.Send(ctx, channel, address, rendered.Subject, rendered.Body)
			n.metrics.RecordDispatch(string(channel), result.Success)
			if !result.Success {
				n.logger.Warn("notification delivery failed",
					zap.String("pqr_id", pqr.ID),
					zap.String("kind", string(kind)),
					zap.String("recipient_id", recipient.ID),
					zap.String("channel", string(channel)),
					zap.String("error", result.Error))
			}
			deliveries = append(deliveries, domain.DeliveryResult{
				RecipientID: recipient.ID,
				Channel:     channel,
				Success:     result.Success,
				Error:       result.Error,
			})
			n.appendLog(ctx, &domain.NotificationLogEntry{
				PQRID:       pqr.ID,
				Kind:        kind,
				RecipientID: recipient.ID,
				Channel:     channel,
				Success:     result.Success,
				Error:       result.Error,
			})
		}
	}
	return deliveries
}

// ListLog returns the audit log of a ticket.
func (n *NotificationService) ListLog(ctx context.Context, pqrID string, limit, offset int) ([]domain.NotificationLogEntry, error) {
	if _, err := n.pqrs.GetByID(ctx, pqrID); err != nil {
		return nil, util.MapError(err)
	}
	return n.log.ListByPQR(ctx, pqrID, limit, offset)
}

func (n *NotificationService) templateData(pqr *domain.PQR) map[string]string {
	data := map[string]string{
		"ticketNumber": pqr.TicketNumber,
		"title":        pqr.Title,
		"status":       string(pqr.Status),
	}
	if pqr.DueDate != nil {
		data["dueDate"] = pqr.DueDate.Format(time.RFC1123)
	}
	return data
}

func (n *NotificationService) appendLog(ctx context.Context, entry *domain.NotificationLogEntry) {
	if n.log == nil {
		return
	}
	if err := n.log.Append(ctx, entry); err != nil {
		n.logger.Warn("notification log append failed",
			zap.String("pqr_id", entry.PQRID), zap.Error(err))
	}
}

package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/armonia-platform/pqr-service/internal/domain"
	"github.com/armonia-platform/pqr-service/internal/events"
	"github.com/armonia-platform/pqr-service/internal/observability"
)

type notifyFixture struct {
	svc        *NotificationService
	repo       *fakePQRRepo
	users      *fakeUserRepo
	log        *fakeLogRepo
	sender     *fakeNotifier
	markers    *fakeMarkers
	dispatcher events.Dispatcher
}

func newNotifyFixture(t *testing.T, users ...domain.User) *notifyFixture {
	t.Helper()
	repo := newFakePQRRepo()
	userRepo := newFakeUserRepo(users...)
	log := &fakeLogRepo{}
	sender := &fakeNotifier{failChannels: map[domain.Channel]bool{}}
	markers := newFakeMarkers()
	dispatcher := events.NewInMemoryDispatcher()

	svc := NewNotificationService(NotificationDependencies{
		PQRRepo:    repo,
		UserRepo:   userRepo,
		LogRepo:    log,
		Dispatcher: dispatcher,
		Sender:     sender,
		Markers:    markers,
		Metrics:    observability.NewMetrics(),
	})
	svc.RegisterHandlers()
	return &notifyFixture{
		svc: svc, repo: repo, users: userRepo, log: log,
		sender: sender, markers: markers, dispatcher: dispatcher,
	}
}

func (f *notifyFixture) seedPQR(t *testing.T, pqr domain.PQR) *domain.PQR {
	t.Helper()
	if err := f.repo.Create(context.Background(), &pqr); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return &pqr
}

func reporter() domain.User {
	return domain.User{ID: "resident-1", Name: "Ana", Email: "ana@example.com", Role: domain.RoleResident, Active: true}
}

func assigneeUser() domain.User {
	return domain.User{
		ID: "staff-1", Name: "Luis", Email: "luis@example.com", Phone: "+570000",
		Role: domain.RoleStaff, Active: true,
		Channels: []domain.Channel{domain.ChannelEmail, domain.ChannelSMS},
	}
}

func adminUser() domain.User {
	return domain.User{ID: "admin-1", Name: "Marta", Email: "marta@example.com", Role: domain.RoleComplexAdmin, Active: true}
}

func TestCreatedEventNotifiesReporterAndAdmins(t *testing.T) {
	f := newNotifyFixture(t, reporter(), adminUser())
	pqr := f.seedPQR(t, domain.PQR{
		TicketNumber: "PQR-TEST0010",
		Title:        "Noisy neighbours",
		Status:       domain.StatusSubmitted,
		ReporterID:   "resident-1",
	})

	err := f.dispatcher.Publish(context.Background(), events.Event{
		Type:  events.EventPQRCreated,
		PQRID: pqr.ID,
		Payload: events.PQRCreatedPayload{
			TicketNumber: pqr.TicketNumber,
			Category:     pqr.Category,
			Type:         pqr.Type,
			Title:        pqr.Title,
		},
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	if len(f.sender.sent) != 2 {
		t.Fatalf("expected reporter and admin messages, got %d", len(f.sender.sent))
	}
	for _, msg := range f.sender.sent {
		if !strings.Contains(msg.Subject, "PQR received") {
			t.Errorf("expected confirmation subject, got %q", msg.Subject)
		}
	}
}

func TestCreatedEventIgnoresDrafts(t *testing.T) {
	f := newNotifyFixture(t, reporter())
	pqr := f.seedPQR(t, domain.PQR{
		TicketNumber: "PQR-TEST0011",
		Title:        "Half-written request",
		Status:       domain.StatusDraft,
		ReporterID:   "resident-1",
	})

	err := f.dispatcher.Publish(context.Background(), events.Event{
		Type:    events.EventPQRCreated,
		PQRID:   pqr.ID,
		Payload: events.PQRCreatedPayload{TicketNumber: pqr.TicketNumber},
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(f.sender.sent) != 0 {
		t.Fatalf("draft creation should stay silent, got %d sends", len(f.sender.sent))
	}
}

func TestStatusChangeNotifiesReporterAndAssignee(t *testing.T) {
	f := newNotifyFixture(t, reporter(), assigneeUser())
	pqr := f.seedPQR(t, domain.PQR{
		TicketNumber: "PQR-TEST0001",
		Title:        "Broken gate",
		Status:       domain.StatusInProgress,
		ReporterID:   "resident-1",
		AssigneeID:   strPtr("staff-1"),
	})

	err := f.dispatcher.Publish(context.Background(), events.Event{
		Type:  events.EventPQRStatusChanged,
		PQRID: pqr.ID,
		Payload: events.PQRStatusChangedPayload{
			OldStatus: domain.StatusAssigned,
			NewStatus: domain.StatusInProgress,
		},
	})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}

	// Reporter gets email; assignee gets email + SMS.
	if len(f.sender.sent) != 3 {
		t.Fatalf("sent = %d messages, want 3: %+v", len(f.sender.sent), f.sender.sent)
	}
	if f.sender.sent[0].Address != "ana@example.com" {
		t.Errorf("first recipient = %s", f.sender.sent[0].Address)
	}
	for _, msg := range f.sender.sent {
		if !strings.Contains(msg.Subject, "PQR-TEST0001") {
			t.Errorf("subject %q missing ticket number", msg.Subject)
		}
	}
	if len(f.log.entries) != 3 {
		t.Fatalf("log entries = %d, want 3", len(f.log.entries))
	}
}

func TestStatusChangeDeduplicatesReporterAssignee(t *testing.T) {
	self := reporter()
	f := newNotifyFixture(t, self)
	pqr := f.seedPQR(t, domain.PQR{
		TicketNumber: "PQR-TEST0002",
		Title:        "Self-assigned",
		Status:       domain.StatusInProgress,
		ReporterID:   self.ID,
		AssigneeID:   &self.ID,
	})

	_ = f.dispatcher.Publish(context.Background(), events.Event{
		Type:    events.EventPQRStatusChanged,
		PQRID:   pqr.ID,
		Payload: events.PQRStatusChangedPayload{OldStatus: domain.StatusAssigned, NewStatus: domain.StatusInProgress},
	})
	if len(f.sender.sent) != 1 {
		t.Fatalf("sent = %d, want 1 when reporter is assignee", len(f.sender.sent))
	}
}

func TestSubmittedReachesAdmins(t *testing.T) {
	f := newNotifyFixture(t, reporter(), adminUser())
	pqr := f.seedPQR(t, domain.PQR{
		TicketNumber: "PQR-TEST0003",
		Title:        "New complaint",
		Status:       domain.StatusSubmitted,
		ReporterID:   "resident-1",
	})

	_ = f.dispatcher.Publish(context.Background(), events.Event{
		Type:    events.EventPQRStatusChanged,
		PQRID:   pqr.ID,
		Payload: events.PQRStatusChangedPayload{OldStatus: domain.StatusDraft, NewStatus: domain.StatusSubmitted},
	})

	addresses := map[string]bool{}
	for _, msg := range f.sender.sent {
		addresses[msg.Address] = true
	}
	if !addresses["ana@example.com"] || !addresses["marta@example.com"] {
		t.Fatalf("recipients = %v, want reporter and admin", addresses)
	}
}

func TestDeliveryFailureIsLoggedNotFatal(t *testing.T) {
	f := newNotifyFixture(t, reporter(), assigneeUser())
	f.sender.failChannels[domain.ChannelSMS] = true
	pqr := f.seedPQR(t, domain.PQR{
		TicketNumber: "PQR-TEST0004",
		Title:        "Noise",
		Status:       domain.StatusInProgress,
		ReporterID:   "resident-1",
		AssigneeID:   strPtr("staff-1"),
	})

	err := f.dispatcher.Publish(context.Background(), events.Event{
		Type:    events.EventPQRStatusChanged,
		PQRID:   pqr.ID,
		Payload: events.PQRStatusChangedPayload{OldStatus: domain.StatusAssigned, NewStatus: domain.StatusInProgress},
	})
	if err != nil {
		t.Fatalf("Publish must not surface delivery failures: %v", err)
	}
	if len(f.log.entries) != 3 {
		t.Fatalf("log entries = %d, want every attempt recorded", len(f.log.entries))
	}
	var failed int
	for _, entry := range f.log.entries {
		if !entry.Success {
			failed++
			if entry.Channel != domain.ChannelSMS || entry.Error == "" {
				t.Errorf("failure entry = %+v", entry)
			}
		}
	}
	if failed != 1 {
		t.Fatalf("failed entries = %d, want 1", failed)
	}
}

func TestSurveyIsOneShot(t *testing.T) {
	f := newNotifyFixture(t, reporter())
	now := time.Now()
	pqr := f.seedPQR(t, domain.PQR{
		TicketNumber: "PQR-TEST0005",
		Title:        "Leak",
		Status:       domain.StatusResolved,
		ReporterID:   "resident-1",
		ResolvedAt:   &now,
	})
	captured := &capturedEvents{}
	f.dispatcher.Subscribe(events.EventPQRSurvey, captured.record)

	f.svc.SendSatisfactionSurvey(context.Background(), pqr.ID)
	f.svc.SendSatisfactionSurvey(context.Background(), pqr.ID)

	if len(f.sender.sent) != 1 {
		t.Fatalf("sent = %d, want exactly one survey", len(f.sender.sent))
	}
	if !strings.Contains(f.sender.sent[0].Subject, "How did we do?") {
		t.Errorf("subject = %q", f.sender.sent[0].Subject)
	}
	if len(f.log.entries) != 1 || f.log.entries[0].Kind != domain.NotifySurvey {
		t.Fatalf("log = %+v", f.log.entries)
	}
	if len(captured.events) != 1 {
		t.Fatalf("survey events = %d, want exactly one", len(captured.events))
	}
	payload, ok := captured.events[0].Payload.(events.PQRSurveyPayload)
	if !ok {
		t.Fatalf("payload = %T", captured.events[0].Payload)
	}
	if payload.TicketNumber != pqr.TicketNumber || payload.Delivered != 1 {
		t.Errorf("payload = %+v, want one delivery for %s", payload, pqr.TicketNumber)
	}
}

func TestSurveyOnlyForResolved(t *testing.T) {
	f := newNotifyFixture(t, reporter())
	pqr := f.seedPQR(t, domain.PQR{
		TicketNumber: "PQR-TEST0006",
		Title:        "Still open",
		Status:       domain.StatusInProgress,
		ReporterID:   "resident-1",
	})

	f.svc.SendSatisfactionSurvey(context.Background(), pqr.ID)
	if len(f.sender.sent) != 0 {
		t.Fatalf("no survey expected for non-resolved ticket")
	}
}

func TestResolvedStatusTriggersSurvey(t *testing.T) {
	f := newNotifyFixture(t, reporter())
	pqr := f.seedPQR(t, domain.PQR{
		TicketNumber: "PQR-TEST0007",
		Title:        "Done",
		Status:       domain.StatusResolved,
		ReporterID:   "resident-1",
	})

	_ = f.dispatcher.Publish(context.Background(), events.Event{
		Type:    events.EventPQRStatusChanged,
		PQRID:   pqr.ID,
		Payload: events.PQRStatusChangedPayload{OldStatus: domain.StatusInProgress, NewStatus: domain.StatusResolved},
	})

	var kinds []domain.NotificationKind
	for _, entry := range f.log.entries {
		kinds = append(kinds, entry.Kind)
	}
	var sawStatus, sawSurvey bool
	for _, kind := range kinds {
		if kind == domain.NotifyStatusChange {
			sawStatus = true
		}
		if kind == domain.NotifySurvey {
			sawSurvey = true
		}
	}
	if !sawStatus || !sawSurvey {
		t.Fatalf("kinds = %v, want status change and survey", kinds)
	}
}

func TestDueSoonNotifiesAssigneeAndAdmins(t *testing.T) {
	f := newNotifyFixture(t, reporter(), assigneeUser(), adminUser())
	due := time.Now().Add(2 * time.Hour)
	pqr := f.seedPQR(t, domain.PQR{
		TicketNumber: "PQR-TEST0008",
		Title:        "Due soon",
		Status:       domain.StatusInProgress,
		ReporterID:   "resident-1",
		AssigneeID:   strPtr("staff-1"),
		DueDate:      &due,
	})

	_ = f.dispatcher.Publish(context.Background(), events.Event{
		Type:    events.EventPQRDueSoon,
		PQRID:   pqr.ID,
		Payload: events.PQRDueSoonPayload{DueDate: due},
	})

	addresses := map[string]bool{}
	for _, msg := range f.sender.sent {
		addresses[msg.Address] = true
	}
	if addresses["ana@example.com"] {
		t.Errorf("reporter must not receive reminders")
	}
	if !addresses["luis@example.com"] || !addresses["marta@example.com"] {
		t.Fatalf("recipients = %v, want assignee and admin", addresses)
	}
}

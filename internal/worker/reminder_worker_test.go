package worker

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/armonia-platform/pqr-service/internal/config"
	"github.com/armonia-platform/pqr-service/internal/domain"
	"github.com/armonia-platform/pqr-service/internal/events"
	"github.com/armonia-platform/pqr-service/internal/repository"
	"github.com/armonia-platform/pqr-service/internal/schedule"
	"github.com/armonia-platform/pqr-service/internal/service"
)

type staticPQRRepo struct {
	pqrs []domain.PQR
}

func (r *staticPQRRepo) Create(context.Context, *domain.PQR) error { return nil }
func (r *staticPQRRepo) Update(context.Context, *domain.PQR) error { return nil }

func (r *staticPQRRepo) GetByID(_ context.Context, id string) (*domain.PQR, error) {
	for i := range r.pqrs {
		if r.pqrs[i].ID == id {
			return &r.pqrs[i], nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *staticPQRRepo) GetByTicketNumber(context.Context, string) (*domain.PQR, error) {
	return nil, pgx.ErrNoRows
}

func (r *staticPQRRepo) ListWithFilter(_ context.Context, filter repository.PQRFilter) ([]domain.PQR, error) {
	out := []domain.PQR{}
	for _, pqr := range r.pqrs {
		if filter.DueBefore != nil && (pqr.DueDate == nil || pqr.DueDate.After(*filter.DueBefore)) {
			continue
		}
		out = append(out, pqr)
	}
	return out, nil
}

func (r *staticPQRRepo) CountByStatus(context.Context) (map[domain.PQRStatus]int, error) {
	return map[domain.PQRStatus]int{}, nil
}

type memMarkers struct {
	claimed map[string]bool
}

func (m *memMarkers) Claim(_ context.Context, kind, pqrID string) (bool, error) {
	if m.claimed == nil {
		m.claimed = map[string]bool{}
	}
	key := kind + ":" + pqrID
	if m.claimed[key] {
		return false, nil
	}
	m.claimed[key] = true
	return true, nil
}

type eventSink struct {
	events []events.Event
}

func (s *eventSink) record(_ context.Context, event events.Event) error {
	s.events = append(s.events, event)
	return nil
}

type fakeSLAStore struct{}

func (fakeSLAStore) Create(context.Context, *domain.SLADefinition) error { return nil }
func (fakeSLAStore) Update(context.Context, *domain.SLADefinition) error { return nil }
func (fakeSLAStore) Delete(context.Context, string) error                { return nil }
func (fakeSLAStore) List(context.Context) ([]domain.SLADefinition, error) {
	return nil, nil
}
func (fakeSLAStore) GetByCategoryPriority(context.Context, domain.PQRCategory, domain.PQRPriority) (*domain.SLADefinition, error) {
	return nil, pgx.ErrNoRows
}

func newTestWorker(repo *staticPQRRepo, sink *eventSink, now time.Time) *ReminderWorker {
	dispatcher := events.NewInMemoryDispatcher()
	dispatcher.Subscribe(events.EventPQRDueSoon, sink.record)
	dispatcher.Subscribe(events.EventPQREscalated, sink.record)
	sla := service.NewSLAService(fakeSLAStore{}, schedule.DefaultCalendar(), 120)
	w := NewReminderWorker(config.WorkerConfig{
		IntervalSeconds:     60,
		ReminderLeadMinutes: 24 * 60,
	}, repo, sla, &memMarkers{}, dispatcher, nil)
	w.now = func() time.Time { return now }
	return w
}

func TestScanPublishesReminder(t *testing.T) {
	now := time.Date(2026, time.August, 24, 12, 0, 0, 0, time.UTC)
	due := now.Add(3 * time.Hour)
	repo := &staticPQRRepo{pqrs: []domain.PQR{{
		ID:           "pqr-1",
		TicketNumber: "PQR-AAAA0001",
		Status:       domain.StatusInProgress,
		DueDate:      &due,
	}}}
	sink := &eventSink{}
	w := newTestWorker(repo, sink, now)

	w.ScanOnce(context.Background())
	if len(sink.events) != 1 || sink.events[0].Type != events.EventPQRDueSoon {
		t.Fatalf("events = %+v, want one pqr_due_soon", sink.events)
	}

	// Second scan is deduplicated by the marker.
	w.ScanOnce(context.Background())
	if len(sink.events) != 1 {
		t.Fatalf("events after second scan = %d, want 1", len(sink.events))
	}
}

func TestScanEscalatesOverdue(t *testing.T) {
	now := time.Date(2026, time.August, 24, 12, 0, 0, 0, time.UTC)
	due := now.Add(-90 * time.Minute)
	repo := &staticPQRRepo{pqrs: []domain.PQR{{
		ID:           "pqr-2",
		TicketNumber: "PQR-AAAA0002",
		Status:       domain.StatusAssigned,
		DueDate:      &due,
	}}}
	sink := &eventSink{}
	w := newTestWorker(repo, sink, now)

	w.ScanOnce(context.Background())
	if len(sink.events) != 1 || sink.events[0].Type != events.EventPQREscalated {
		t.Fatalf("events = %+v, want one pqr_escalated", sink.events)
	}
	payload, ok := sink.events[0].Payload.(events.PQREscalatedPayload)
	if !ok || payload.OverdueMinutes != 90 {
		t.Fatalf("payload = %+v, want 90 overdue minutes", sink.events[0].Payload)
	}
}

func TestScanSkipsTerminal(t *testing.T) {
	now := time.Date(2026, time.August, 24, 12, 0, 0, 0, time.UTC)
	due := now.Add(-time.Hour)
	repo := &staticPQRRepo{pqrs: []domain.PQR{{
		ID:      "pqr-3",
		Status:  domain.StatusResolved,
		DueDate: &due,
	}}}
	sink := &eventSink{}
	w := newTestWorker(repo, sink, now)

	w.ScanOnce(context.Background())
	if len(sink.events) != 0 {
		t.Fatalf("terminal tickets must not produce events: %+v", sink.events)
	}
}

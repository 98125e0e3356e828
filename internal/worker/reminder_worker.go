// Package worker runs the periodic due-date scans: reminders for tickets
// approaching their deadline and escalations for tickets past it.
package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/armonia-platform/pqr-service/internal/config"
	"github.com/armonia-platform/pqr-service/internal/domain"
	"github.com/armonia-platform/pqr-service/internal/events"
	"github.com/armonia-platform/pqr-service/internal/persistence"
	"github.com/armonia-platform/pqr-service/internal/repository"
	"github.com/armonia-platform/pqr-service/internal/service"
)

// ReminderWorker periodically scans for due-soon and overdue tickets and
// publishes one event per ticket, deduplicated across restarts by the
// marker store.
type ReminderWorker struct {
	pqrs       repository.PQRRepository
	sla        *service.SLAService
	markers    persistence.MarkerStore
	dispatcher events.Dispatcher
	logger     *zap.Logger
	interval   time.Duration
	lead       time.Duration
	now        func() time.Time
}

// NewReminderWorker builds the worker from config.
func NewReminderWorker(cfg config.WorkerConfig, pqrs repository.PQRRepository, sla *service.SLAService, markers persistence.MarkerStore, dispatcher events.Dispatcher, logger *zap.Logger) *ReminderWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReminderWorker{
		pqrs:       pqrs,
		sla:        sla,
		markers:    markers,
		dispatcher: dispatcher,
		logger:     logger,
		interval:   cfg.Interval(),
		lead:       cfg.ReminderLead(),
		now:        time.Now,
	}
}

// Run blocks until ctx is cancelled, scanning once per interval.
func (w *ReminderWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("reminder worker started",
		zap.Duration("interval", w.interval),
		zap.Duration("lead", w.lead))
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("reminder worker stopped")
			return
		case <-ticker.C:
			w.ScanOnce(ctx)
		}
	}
}

// ScanOnce runs a single reminder plus escalation pass.
func (w *ReminderWorker) ScanOnce(ctx context.Context) {
	now := w.now()
	horizon := now.Add(w.lead)
	candidates, err := w.pqrs.ListWithFilter(ctx, repository.PQRFilter{
		DueBefore: &horizon,
		Limit:     500,
	})
	if err != nil {
		w.logger.Warn("due-date scan failed", zap.Error(err))
		return
	}

	for pqr := range w.sla.DueReminders(candidates, now, w.lead) {
		if w.sla.IsOverdue(&pqr, now) {
			w.escalate(ctx, pqr, now)
			continue
		}
		w.remind(ctx, pqr)
	}
}

func (w *ReminderWorker) remind(ctx context.Context, pqr domain.PQR) {
	fresh, err := w.markers.Claim(ctx, "reminder", pqr.ID)
	if err != nil {
		w.logger.Warn("reminder marker claim failed",
			zap.String("pqr_id", pqr.ID), zap.Error(err))
		return
	}
	if !fresh {
		return
	}
	w.publish(ctx, events.Event{
		Type:    events.EventPQRDueSoon,
		PQRID:   pqr.ID,
		Payload: events.PQRDueSoonPayload{DueDate: *pqr.DueDate},
	})
	w.logger.Info("due-soon reminder published",
		zap.String("pqr_id", pqr.ID),
		zap.String("ticket_number", pqr.TicketNumber),
		zap.Time("due_date", *pqr.DueDate))
}

func (w *ReminderWorker) escalate(ctx context.Context, pqr domain.PQR, now time.Time) {
	fresh, err := w.markers.Claim(ctx, "escalation", pqr.ID)
	if err != nil {
		w.logger.Warn("escalation marker claim failed",
			zap.String("pqr_id", pqr.ID), zap.Error(err))
		return
	}
	if !fresh {
		return
	}
	overdue := int(now.Sub(*pqr.DueDate) / time.Minute)
	w.publish(ctx, events.Event{
		Type:  events.EventPQREscalated,
		PQRID: pqr.ID,
		Payload: events.PQREscalatedPayload{
			DueDate:        *pqr.DueDate,
			OverdueMinutes: overdue,
		},
	})
	w.logger.Warn("ticket escalated",
		zap.String("pqr_id", pqr.ID),
		zap.String("ticket_number", pqr.TicketNumber),
		zap.Int("overdue_minutes", overdue))
}

func (w *ReminderWorker) publish(ctx context.Context, event events.Event) {
	if w.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = w.now()
	_ = w.dispatcher.Publish(ctx, event)
}

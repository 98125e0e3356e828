package service

import (
	"context"
	"errors"
	"iter"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/armonia-platform/pqr-service/internal/domain"
	"github.com/armonia-platform/pqr-service/internal/repository"
	"github.com/armonia-platform/pqr-service/internal/schedule"
)

// priorityFallbackMinutes applies when no SLA entry covers a
// (category, priority) pair: 4h, 24h, 3 days, 7 days.
var priorityFallbackMinutes = map[domain.PQRPriority]int{
	domain.PriorityUrgent: 4 * 60,
	domain.PriorityHigh:   24 * 60,
	domain.PriorityMedium: 3 * 24 * 60,
	domain.PriorityLow:    7 * 24 * 60,
}

// SLAService is the clock for resolution deadlines.
type SLAService struct {
	slas           repository.SLARepository
	calendar       *schedule.Calendar
	defaultMinutes int
}

// NewSLAService constructs the service. defaultMinutes covers pairs with
// neither an SLA entry nor a known priority.
func NewSLAService(slas repository.SLARepository, calendar *schedule.Calendar, defaultMinutes int) *SLAService {
	if calendar == nil {
		calendar = schedule.DefaultCalendar()
	}
	if defaultMinutes <= 0 {
		defaultMinutes = 120
	}
	return &SLAService{slas: slas, calendar: calendar, defaultMinutes: defaultMinutes}
}

// ComputeDueDate resolves the deadline for a (category, priority) pair
// starting at from. Business-hours entries advance only across the weekly
// calendar; everything else is wall-clock.
func (s *SLAService) ComputeDueDate(ctx context.Context, category domain.PQRCategory, priority domain.PQRPriority, from time.Time) (time.Time, error) {
	def, err := s.slas.GetByCategoryPriority(ctx, category, priority)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, err
		}
		return from.Add(time.Duration(s.fallbackMinutes(priority)) * time.Minute), nil
	}
	if def.BusinessHoursOnly {
		return s.calendar.AddMinutes(from, def.ResolutionMinutes), nil
	}
	return from.Add(time.Duration(def.ResolutionMinutes) * time.Minute), nil
}

func (s *SLAService) fallbackMinutes(priority domain.PQRPriority) int {
	if minutes, ok := priorityFallbackMinutes[priority]; ok {
		return minutes
	}
	return s.defaultMinutes
}

// IsOverdue reports whether a ticket has blown past its deadline while
// still active. Terminal tickets are never overdue.
func (s *SLAService) IsOverdue(pqr *domain.PQR, now time.Time) bool {
	if pqr.DueDate == nil || pqr.Status.IsTerminal() {
		return false
	}
	return now.After(*pqr.DueDate)
}

// DueReminders yields the non-terminal tickets whose deadline falls within
// lead of now. The sequence is lazy and restartable; reminder-sent
// deduplication is the caller's concern.
func (s *SLAService) DueReminders(pqrs []domain.PQR, now time.Time, lead time.Duration) iter.Seq[domain.PQR] {
	return func(yield func(domain.PQR) bool) {
		for _, pqr := range pqrs {
			if pqr.DueDate == nil || pqr.Status.IsTerminal() {
				continue
			}
			if pqr.DueDate.Sub(now) > lead {
				continue
			}
			if !yield(pqr) {
				return
			}
		}
	}
}

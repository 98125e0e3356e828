package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/armonia-platform/pqr-service/internal/domain"
	"github.com/armonia-platform/pqr-service/internal/events"
	"github.com/armonia-platform/pqr-service/internal/observability"
	"github.com/armonia-platform/pqr-service/internal/repository"
	"github.com/armonia-platform/pqr-service/pkg/util"
)

// PQRService coordinates the ticket lifecycle.
type PQRService struct {
	pqrs       repository.PQRRepository
	history    repository.PQRHistoryRepository
	assignment *AssignmentService
	sla        *SLAService
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	now        func() time.Time
}

// PQRDependencies bundles collaborators for the lifecycle service.
type PQRDependencies struct {
	PQRRepo     repository.PQRRepository
	HistoryRepo repository.PQRHistoryRepository
	Assignment  *AssignmentService
	SLA         *SLAService
	Dispatcher  events.Dispatcher
	Metrics     *observability.Metrics
	Now         func() time.Time
}

// PQRCreateInput describes ticket creation payload.
type PQRCreateInput struct {
	Type        domain.PQRType
	Category    domain.PQRCategory
	Subcategory *string
	Title       string
	Description string
	Attachments []string
	Draft       bool
}

// NewPQRService constructs the service.
func NewPQRService(deps PQRDependencies) *PQRService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &PQRService{
		pqrs:       deps.PQRRepo,
		history:    deps.HistoryRepo,
		assignment: deps.Assignment,
		sla:        deps.SLA,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		now:        now,
	}
}

// Create registers a new ticket for a reporter. Tickets start in
// SUBMITTED unless the reporter keeps a draft.
func (s *PQRService) Create(ctx context.Context, reporterID string, input PQRCreateInput) (*domain.PQR, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" || reporterID == "" {
		return nil, util.NewValidationError("title, description and reporter are required", map[string]any{
			"title":       title != "",
			"description": description != "",
			"reporter_id": reporterID != "",
		})
	}
	if !input.Category.Valid() {
		return nil, util.NewValidationError("unknown category", map[string]any{"category": string(input.Category)})
	}
	if !input.Type.Valid() {
		return nil, util.NewValidationError("unknown pqr type", map[string]any{"pqr_type": string(input.Type)})
	}

	status := domain.StatusSubmitted
	if input.Draft {
		status = domain.StatusDraft
	}
	pqr := &domain.PQR{
		TicketNumber: generateTicketNumber(),
		Type:         input.Type,
		Category:     input.Category,
		Subcategory:  input.Subcategory,
		Status:       status,
		ReporterID:   reporterID,
		Title:        title,
		Description:  description,
		Attachments:  input.Attachments,
	}
	if err := s.pqrs.Create(ctx, pqr); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:    events.EventPQRCreated,
		PQRID:   pqr.ID,
		ActorID: &reporterID,
		Payload: events.PQRCreatedPayload{
			TicketNumber: pqr.TicketNumber,
			Category:     pqr.Category,
			Type:         pqr.Type,
			Title:        pqr.Title,
		},
	})
	return pqr, nil
}

// Transition moves a ticket to newStatus along the legal graph.
//
// Calling with the current status is a no-op: nothing is persisted and
// nothing is notified. Entering ASSIGNED without a priority or target
// runs the assignment engine first so an ASSIGNED ticket always carries
// a target and due date.
func (s *PQRService) Transition(ctx context.Context, actorID *string, pqrID string, newStatus domain.PQRStatus, comment string) (*domain.PQR, error) {
	if !newStatus.Valid() {
		return nil, util.NewValidationError("unknown status", map[string]any{"status": string(newStatus)})
	}
	pqr, err := s.pqrs.GetByID(ctx, pqrID)
	if err != nil {
		return nil, util.MapError(err)
	}
	if pqr.Status == newStatus {
		return pqr, nil
	}
	if !isValidTransition(pqr.Status, newStatus) {
		return nil, util.NewIllegalTransition(string(pqr.Status), string(newStatus))
	}

	oldStatus := pqr.Status
	var assigned *AssignmentResult
	if newStatus == domain.StatusAssigned && needsAssignment(pqr) {
		assigned, err = s.assignment.Assign(ctx, pqr, s.now())
		if err != nil {
			return nil, err
		}
		applyAssignment(pqr, assigned)
	}

	switch newStatus {
	case domain.StatusResolved:
		now := s.now()
		pqr.ResolvedAt = &now
	case domain.StatusClosed:
		now := s.now()
		pqr.ClosedAt = &now
	case domain.StatusReopened:
		pqr.ResolvedAt = nil
		pqr.ClosedAt = nil
	}
	pqr.Status = newStatus

	if err := s.pqrs.Update(ctx, pqr); err != nil {
		return nil, err
	}
	s.metrics.RecordTransition(string(oldStatus), string(newStatus))
	s.recordHistory(ctx, actorID, pqr.ID, domain.ChangeTypeStatus,
		map[string]any{"status": string(oldStatus)},
		map[string]any{"status": string(newStatus), "comment": comment})
	if assigned != nil {
		s.recordHistory(ctx, actorID, pqr.ID, domain.ChangeTypeAssignee,
			map[string]any{},
			assignmentValues(assigned))
		s.publishEvent(ctx, events.Event{
			Type:    events.EventPQRAssigned,
			PQRID:   pqr.ID,
			ActorID: actorID,
			Payload: events.PQRAssignedPayload{
				AssigneeID: pqr.AssigneeID,
				TeamID:     pqr.TeamID,
				Priority:   pqr.Priority,
				DueDate:    pqr.DueDate,
			},
		})
	}
	s.publishEvent(ctx, events.Event{
		Type:    events.EventPQRStatusChanged,
		PQRID:   pqr.ID,
		ActorID: actorID,
		Payload: events.PQRStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
			Comment:   comment,
		},
	})
	return pqr, nil
}

// AssignManual sets the target and optional priority chosen by an
// operator, recomputing the due date whenever the priority changes. The
// ticket moves to ASSIGNED when it is not there already.
func (s *PQRService) AssignManual(ctx context.Context, actorID *string, pqrID string, teamID, userID *string, priority *domain.PQRPriority) (*domain.PQR, error) {
	if teamID == nil && userID == nil {
		return nil, util.NewValidationError("team or assignee required", nil)
	}
	pqr, err := s.pqrs.GetByID(ctx, pqrID)
	if err != nil {
		return nil, util.MapError(err)
	}
	if pqr.Status != domain.StatusAssigned && !isValidTransition(pqr.Status, domain.StatusAssigned) {
		return nil, util.NewIllegalTransition(string(pqr.Status), string(domain.StatusAssigned))
	}

	old := assignmentSnapshot(pqr)
	pqr.TeamID = teamID
	pqr.AssigneeID = userID
	if priority != nil && *priority != pqr.Priority {
		if !priority.Valid() {
			return nil, util.NewValidationError("unknown priority", map[string]any{"priority": string(*priority)})
		}
		pqr.Priority = *priority
		dueDate, err := s.sla.ComputeDueDate(ctx, pqr.Category, pqr.Priority, s.now())
		if err != nil {
			return nil, err
		}
		pqr.DueDate = &dueDate
	}
	if pqr.Priority == "" {
		pqr.Priority = domain.PriorityMedium
		pqr.DueDate = nil
	}
	// An assigned ticket always carries a deadline for its priority.
	if pqr.DueDate == nil {
		dueDate, err := s.sla.ComputeDueDate(ctx, pqr.Category, pqr.Priority, s.now())
		if err != nil {
			return nil, err
		}
		pqr.DueDate = &dueDate
	}

	oldStatus := pqr.Status
	pqr.Status = domain.StatusAssigned
	if err := s.pqrs.Update(ctx, pqr); err != nil {
		return nil, err
	}
	if oldStatus != pqr.Status {
		s.metrics.RecordTransition(string(oldStatus), string(pqr.Status))
		s.recordHistory(ctx, actorID, pqr.ID, domain.ChangeTypeStatus,
			map[string]any{"status": string(oldStatus)},
			map[string]any{"status": string(pqr.Status)})
	}
	s.recordHistory(ctx, actorID, pqr.ID, domain.ChangeTypeAssignee, old, assignmentSnapshot(pqr))
	s.publishEvent(ctx, events.Event{
		Type:    events.EventPQRAssigned,
		PQRID:   pqr.ID,
		ActorID: actorID,
		Payload: events.PQRAssignedPayload{
			AssigneeID: pqr.AssigneeID,
			TeamID:     pqr.TeamID,
			Priority:   pqr.Priority,
			DueDate:    pqr.DueDate,
		},
	})
	if oldStatus != pqr.Status {
		s.publishEvent(ctx, events.Event{
			Type:    events.EventPQRStatusChanged,
			PQRID:   pqr.ID,
			ActorID: actorID,
			Payload: events.PQRStatusChangedPayload{
				OldStatus: oldStatus,
				NewStatus: pqr.Status,
			},
		})
	}
	return pqr, nil
}

// Respond records the official answer on the ticket.
func (s *PQRService) Respond(ctx context.Context, actorID *string, pqrID, response string) (*domain.PQR, error) {
	response = strings.TrimSpace(response)
	if response == "" {
		return nil, util.NewValidationError("response is required", nil)
	}
	pqr, err := s.pqrs.GetByID(ctx, pqrID)
	if err != nil {
		return nil, util.MapError(err)
	}
	old := pqr.Response
	pqr.Response = response
	if err := s.pqrs.Update(ctx, pqr); err != nil {
		return nil, err
	}
	s.recordHistory(ctx, actorID, pqr.ID, domain.ChangeTypeResponse,
		map[string]any{"response": old},
		map[string]any{"response": response})
	return pqr, nil
}

// GetByID fetches one ticket.
func (s *PQRService) GetByID(ctx context.Context, pqrID string) (*domain.PQR, error) {
	pqr, err := s.pqrs.GetByID(ctx, pqrID)
	if err != nil {
		return nil, util.MapError(err)
	}
	return pqr, nil
}

// GetByTicketNumber fetches one ticket by its human-facing number.
func (s *PQRService) GetByTicketNumber(ctx context.Context, number string) (*domain.PQR, error) {
	pqr, err := s.pqrs.GetByTicketNumber(ctx, number)
	if err != nil {
		return nil, util.MapError(err)
	}
	return pqr, nil
}

// List returns tickets matching the filter.
func (s *PQRService) List(ctx context.Context, filter repository.PQRFilter) ([]domain.PQR, error) {
	return s.pqrs.ListWithFilter(ctx, filter)
}

// ListHistory returns the audit trail of a ticket.
func (s *PQRService) ListHistory(ctx context.Context, pqrID string, limit, offset int) ([]domain.PQRHistory, error) {
	if _, err := s.pqrs.GetByID(ctx, pqrID); err != nil {
		return nil, util.MapError(err)
	}
	return s.history.ListByPQR(ctx, pqrID, limit, offset)
}

// DashboardSummary is the admin overview of the ticket population.
type DashboardSummary struct {
	CountsByStatus map[domain.PQRStatus]int
	Recent         []domain.PQR
	DueSoon        []domain.PQR
}

// Summary aggregates counts by status, the most recent tickets and the
// tickets whose due date falls inside the lead window.
func (s *PQRService) Summary(ctx context.Context, lead time.Duration) (*DashboardSummary, error) {
	counts, err := s.pqrs.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.pqrs.ListWithFilter(ctx, repository.PQRFilter{Limit: 10})
	if err != nil {
		return nil, err
	}
	now := s.now()
	horizon := now.Add(lead)
	candidates, err := s.pqrs.ListWithFilter(ctx, repository.PQRFilter{DueBefore: &horizon, Limit: 50})
	if err != nil {
		return nil, err
	}
	dueSoon := make([]domain.PQR, 0, len(candidates))
	for p := range s.sla.DueReminders(candidates, now, lead) {
		dueSoon = append(dueSoon, p)
	}
	return &DashboardSummary{
		CountsByStatus: counts,
		Recent:         recent,
		DueSoon:        dueSoon,
	}, nil
}

func needsAssignment(pqr *domain.PQR) bool {
	return pqr.Priority == "" || (pqr.TeamID == nil && pqr.AssigneeID == nil)
}

// applyAssignment copies the evaluation outcome onto the ticket. The
// result's priority is the effective one (rule override or the ticket's
// own), and the due date was computed from it, so both are taken as-is.
func applyAssignment(pqr *domain.PQR, result *AssignmentResult) {
	pqr.Priority = result.Priority
	if pqr.TeamID == nil && pqr.AssigneeID == nil {
		pqr.TeamID = result.TeamID
		pqr.AssigneeID = result.UserID
	}
	pqr.DueDate = &result.DueDate
}

func assignmentSnapshot(pqr *domain.PQR) map[string]any {
	values := map[string]any{"priority": string(pqr.Priority)}
	if pqr.TeamID != nil {
		values["team_id"] = *pqr.TeamID
	}
	if pqr.AssigneeID != nil {
		values["assignee_id"] = *pqr.AssigneeID
	}
	return values
}

func assignmentValues(result *AssignmentResult) map[string]any {
	values := map[string]any{"priority": string(result.Priority)}
	if result.TeamID != nil {
		values["team_id"] = *result.TeamID
	}
	if result.UserID != nil {
		values["assignee_id"] = *result.UserID
	}
	return values
}

func generateTicketNumber() string {
	return "PQR-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func (s *PQRService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func (s *PQRService) recordHistory(ctx context.Context, actorID *string, pqrID string, changeType domain.PQRChangeType, oldValue, newValue map[string]any) {
	if s.history == nil {
		return
	}
	_ = s.history.Create(ctx, &domain.PQRHistory{
		PQRID:       pqrID,
		ChangedByID: actorID,
		ChangeType:  changeType,
		OldValue:    oldValue,
		NewValue:    newValue,
	})
}

var allowedTransitions = map[domain.PQRStatus][]domain.PQRStatus{
	domain.StatusDraft:       {domain.StatusSubmitted, domain.StatusCancelled, domain.StatusRejected},
	domain.StatusSubmitted:   {domain.StatusInReview, domain.StatusAssigned, domain.StatusCancelled, domain.StatusRejected},
	domain.StatusInReview:    {domain.StatusAssigned, domain.StatusCancelled, domain.StatusRejected},
	domain.StatusAssigned:    {domain.StatusInProgress, domain.StatusCancelled, domain.StatusRejected},
	domain.StatusInProgress:  {domain.StatusWaitingInfo, domain.StatusResolved, domain.StatusCancelled, domain.StatusRejected},
	domain.StatusWaitingInfo: {domain.StatusInProgress, domain.StatusCancelled, domain.StatusRejected},
	domain.StatusResolved:    {domain.StatusClosed, domain.StatusReopened},
	domain.StatusClosed:      {domain.StatusReopened},
	domain.StatusReopened:    {domain.StatusInProgress},
	domain.StatusCancelled:   {},
	domain.StatusRejected:    {},
}

func isValidTransition(current, next domain.PQRStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

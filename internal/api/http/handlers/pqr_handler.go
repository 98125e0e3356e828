package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/armonia-platform/pqr-service/internal/api/dto"
	"github.com/armonia-platform/pqr-service/internal/auth"
	"github.com/armonia-platform/pqr-service/internal/domain"
	"github.com/armonia-platform/pqr-service/internal/repository"
	"github.com/armonia-platform/pqr-service/internal/service"
	"github.com/armonia-platform/pqr-service/pkg/util"
)

// PQRHandler manages resident-facing ticket endpoints.
type PQRHandler struct {
	pqrs *service.PQRService
}

// NewPQRHandler constructs handler.
func NewPQRHandler(pqrService *service.PQRService) *PQRHandler {
	return &PQRHandler{pqrs: pqrService}
}

// Create POST /pqr.
func (h *PQRHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	var req dto.CreatePQRRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	pqr, err := h.pqrs.Create(c.Context(), principal.User.ID, service.PQRCreateInput{
		Type:        req.Type,
		Category:    req.Category,
		Subcategory: req.Subcategory,
		Title:       req.Title,
		Description: req.Description,
		Attachments: req.Attachments,
		Draft:       req.Draft,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": pqrDetail(pqr)})
}

// List GET /pqr. Residents see their own tickets; staff see everything
// the query selects.
func (h *PQRHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	filter := parsePQRQuery(c)
	if principal.Role == domain.RoleResident {
		filter.ReporterID = &principal.User.ID
	}
	pqrs, err := h.pqrs.List(c.Context(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.PQRSummary, 0, len(pqrs))
	for i := range pqrs {
		items = append(items, pqrSummary(&pqrs[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /pqr/:id.
func (h *PQRHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	pqr, err := h.pqrs.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	if principal.Role == domain.RoleResident && pqr.ReporterID != principal.User.ID {
		return util.NewForbidden("not your ticket")
	}
	return c.JSON(fiber.Map{"data": pqrDetail(pqr)})
}

// History GET /pqr/:id/history.
func (h *PQRHandler) History(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	pqr, err := h.pqrs.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	if principal.Role == domain.RoleResident && pqr.ReporterID != principal.User.ID {
		return util.NewForbidden("not your ticket")
	}
	limit, offset := parsePagination(c)
	entries, err := h.pqrs.ListHistory(c.Context(), pqr.ID, limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.HistoryEntry, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.HistoryEntry{
			ID:          entry.ID,
			ChangedByID: entry.ChangedByID,
			ChangeType:  entry.ChangeType,
			OldValue:    entry.OldValue,
			NewValue:    entry.NewValue,
			CreatedAt:   entry.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// Reopen POST /pqr/:id/reopen. Reporters may reopen their own resolved
// or closed tickets.
func (h *PQRHandler) Reopen(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	pqr, err := h.pqrs.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	if principal.Role == domain.RoleResident && pqr.ReporterID != principal.User.ID {
		return util.NewForbidden("not your ticket")
	}
	var req dto.ReopenRequest
	_ = c.BodyParser(&req)
	updated, err := h.pqrs.Transition(c.Context(), &principal.User.ID, pqr.ID, domain.StatusReopened, req.Comment)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": pqrDetail(updated)})
}

// Cancel POST /pqr/:id/cancel.
func (h *PQRHandler) Cancel(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	pqr, err := h.pqrs.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	if principal.Role == domain.RoleResident && pqr.ReporterID != principal.User.ID {
		return util.NewForbidden("not your ticket")
	}
	updated, err := h.pqrs.Transition(c.Context(), &principal.User.ID, pqr.ID, domain.StatusCancelled, "cancelled by reporter")
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": pqrDetail(updated)})
}

func parsePQRQuery(c *fiber.Ctx) repository.PQRFilter {
	filter := repository.PQRFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.PQRStatus(strings.TrimSpace(part)))
		}
	}
	if categoryStr := c.Query("category"); categoryStr != "" {
		for _, part := range strings.Split(categoryStr, ",") {
			filter.Categories = append(filter.Categories, domain.PQRCategory(strings.TrimSpace(part)))
		}
	}
	if priorityStr := c.Query("priority"); priorityStr != "" {
		for _, part := range strings.Split(priorityStr, ",") {
			filter.Priorities = append(filter.Priorities, domain.PQRPriority(strings.TrimSpace(part)))
		}
	}
	if search := c.Query("q"); search != "" {
		filter.SearchTerm = &search
	}
	if from := parseTime(c.Query("created_from")); from != nil {
		filter.CreatedFrom = from
	}
	if to := parseTime(c.Query("created_to")); to != nil {
		filter.CreatedTo = to
	}
	filter.Limit, filter.Offset = parsePagination(c)
	return filter
}

func parsePagination(c *fiber.Ctx) (int, int) {
	limit := 50
	offset := 0
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= 200 {
		limit = v
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}

func parseTime(value string) *time.Time {
	if value == "" {
		return nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil
	}
	return &parsed
}

func pqrSummary(pqr *domain.PQR) dto.PQRSummary {
	return dto.PQRSummary{
		ID:           pqr.ID,
		TicketNumber: pqr.TicketNumber,
		Type:         pqr.Type,
		Category:     pqr.Category,
		Status:       pqr.Status,
		Priority:     pqr.Priority,
		Title:        pqr.Title,
		CreatedAt:    pqr.CreatedAt,
		UpdatedAt:    pqr.UpdatedAt,
		DueDate:      pqr.DueDate,
	}
}

func pqrDetail(pqr *domain.PQR) dto.PQRDetail {
	return dto.PQRDetail{
		ID:           pqr.ID,
		TicketNumber: pqr.TicketNumber,
		Type:         pqr.Type,
		Category:     pqr.Category,
		Subcategory:  pqr.Subcategory,
		Status:       pqr.Status,
		Priority:     pqr.Priority,
		ReporterID:   pqr.ReporterID,
		AssigneeID:   pqr.AssigneeID,
		TeamID:       pqr.TeamID,
		Title:        pqr.Title,
		Description:  pqr.Description,
		Response:     pqr.Response,
		Attachments:  pqr.Attachments,
		CreatedAt:    pqr.CreatedAt,
		UpdatedAt:    pqr.UpdatedAt,
		DueDate:      pqr.DueDate,
		ResolvedAt:   pqr.ResolvedAt,
		ClosedAt:     pqr.ClosedAt,
	}
}

package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/armonia-platform/pqr-service/internal/api/dto"
	"github.com/armonia-platform/pqr-service/internal/auth"
	"github.com/armonia-platform/pqr-service/internal/service"
	"github.com/armonia-platform/pqr-service/pkg/util"
)

// summaryLead is the due-soon window shown on the dashboard.
const summaryLead = 24 * time.Hour

// AdminPQRHandler exposes staff operations on tickets.
type AdminPQRHandler struct {
	pqrs          *service.PQRService
	notifications *service.NotificationService
}

// NewAdminPQRHandler constructs handler.
func NewAdminPQRHandler(pqrService *service.PQRService, notificationService *service.NotificationService) *AdminPQRHandler {
	return &AdminPQRHandler{pqrs: pqrService, notifications: notificationService}
}

// UpdateStatus PUT /pqr/:id/status.
func (h *AdminPQRHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	pqr, err := h.pqrs.Transition(c.Context(), &principal.User.ID, c.Params("id"), req.Status, req.Comment)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": pqrDetail(pqr)})
}

// Assign PUT /pqr/:id/assign.
func (h *AdminPQRHandler) Assign(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	pqr, err := h.pqrs.AssignManual(c.Context(), &principal.User.ID, c.Params("id"), req.TeamID, req.AssigneeID, req.Priority)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": pqrDetail(pqr)})
}

// Respond PUT /pqr/:id/response.
func (h *AdminPQRHandler) Respond(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	var req dto.RespondRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	pqr, err := h.pqrs.Respond(c.Context(), &principal.User.ID, c.Params("id"), req.Response)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": pqrDetail(pqr)})
}

// NotificationLog GET /pqr/:id/notifications.
func (h *AdminPQRHandler) NotificationLog(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)
	entries, err := h.notifications.ListLog(c.Context(), c.Params("id"), limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.NotificationLogEntryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.NotificationLogEntryResponse{
			ID:          entry.ID,
			Kind:        entry.Kind,
			RecipientID: entry.RecipientID,
			Channel:     entry.Channel,
			Success:     entry.Success,
			Error:       entry.Error,
			CreatedAt:   entry.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// Summary GET /admin/pqr/summary.
func (h *AdminPQRHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.pqrs.Summary(c.Context(), summaryLead)
	if err != nil {
		return err
	}
	recent := make([]dto.PQRSummary, 0, len(summary.Recent))
	for i := range summary.Recent {
		recent = append(recent, pqrSummary(&summary.Recent[i]))
	}
	dueSoon := make([]dto.PQRSummary, 0, len(summary.DueSoon))
	for i := range summary.DueSoon {
		dueSoon = append(dueSoon, pqrSummary(&summary.DueSoon[i]))
	}
	return c.JSON(fiber.Map{"data": dto.SummaryResponse{
		CountsByStatus: summary.CountsByStatus,
		Recent:         recent,
		DueSoon:        dueSoon,
	}})
}

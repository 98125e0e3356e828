package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/armonia-platform/pqr-service/internal/api/dto"
	"github.com/armonia-platform/pqr-service/internal/domain"
	"github.com/armonia-platform/pqr-service/internal/service"
	"github.com/armonia-platform/pqr-service/pkg/util"
)

// RulesHandler administers assignment rules and SLA definitions.
type RulesHandler struct {
	admin *service.AdminService
}

// NewRulesHandler constructs handler.
func NewRulesHandler(adminService *service.AdminService) *RulesHandler {
	return &RulesHandler{admin: adminService}
}

// ListRules GET /admin/rules.
func (h *RulesHandler) ListRules(c *fiber.Ctx) error {
	rules, err := h.admin.ListRules(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.AssignmentRuleResponse, 0, len(rules))
	for i := range rules {
		items = append(items, ruleResponse(&rules[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateRule POST /admin/rules.
func (h *RulesHandler) CreateRule(c *fiber.Ctx) error {
	var req dto.AssignmentRuleRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	rule, err := h.admin.CreateRule(c.Context(), ruleFromRequest("", req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ruleResponse(rule)})
}

// UpdateRule PUT /admin/rules/:id.
func (h *RulesHandler) UpdateRule(c *fiber.Ctx) error {
	var req dto.AssignmentRuleRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	rule, err := h.admin.UpdateRule(c.Context(), ruleFromRequest(c.Params("id"), req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ruleResponse(rule)})
}

// DeleteRule DELETE /admin/rules/:id.
func (h *RulesHandler) DeleteRule(c *fiber.Ctx) error {
	if err := h.admin.DeleteRule(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListSLAs GET /admin/slas.
func (h *RulesHandler) ListSLAs(c *fiber.Ctx) error {
	defs, err := h.admin.ListSLAs(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.SLADefinitionResponse, 0, len(defs))
	for i := range defs {
		items = append(items, slaResponse(&defs[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateSLA POST /admin/slas.
func (h *RulesHandler) CreateSLA(c *fiber.Ctx) error {
	var req dto.SLADefinitionRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	def, err := h.admin.CreateSLA(c.Context(), slaFromRequest("", req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": slaResponse(def)})
}

// UpdateSLA PUT /admin/slas/:id.
func (h *RulesHandler) UpdateSLA(c *fiber.Ctx) error {
	var req dto.SLADefinitionRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	def, err := h.admin.UpdateSLA(c.Context(), slaFromRequest(c.Params("id"), req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": slaResponse(def)})
}

// DeleteSLA DELETE /admin/slas/:id.
func (h *RulesHandler) DeleteSLA(c *fiber.Ctx) error {
	if err := h.admin.DeleteSLA(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func ruleFromRequest(id string, req dto.AssignmentRuleRequest) *domain.AssignmentRule {
	return &domain.AssignmentRule{
		ID:          id,
		Name:        req.Name,
		SortOrder:   req.SortOrder,
		Active:      req.Active,
		Categories:  req.Categories,
		Keywords:    req.Keywords,
		SetPriority: req.SetPriority,
		TeamID:      req.TeamID,
		UserID:      req.UserID,
	}
}

func ruleResponse(rule *domain.AssignmentRule) dto.AssignmentRuleResponse {
	return dto.AssignmentRuleResponse{
		ID:          rule.ID,
		Name:        rule.Name,
		SortOrder:   rule.SortOrder,
		Active:      rule.Active,
		Categories:  rule.Categories,
		Keywords:    rule.Keywords,
		SetPriority: rule.SetPriority,
		TeamID:      rule.TeamID,
		UserID:      rule.UserID,
		CreatedAt:   rule.CreatedAt,
		UpdatedAt:   rule.UpdatedAt,
	}
}

func slaFromRequest(id string, req dto.SLADefinitionRequest) *domain.SLADefinition {
	return &domain.SLADefinition{
		ID:                id,
		Category:          req.Category,
		Priority:          req.Priority,
		ResolutionMinutes: req.ResolutionMinutes,
		BusinessHoursOnly: req.BusinessHoursOnly,
		Active:            req.Active,
	}
}

func slaResponse(def *domain.SLADefinition) dto.SLADefinitionResponse {
	return dto.SLADefinitionResponse{
		ID:                def.ID,
		Category:          def.Category,
		Priority:          def.Priority,
		ResolutionMinutes: def.ResolutionMinutes,
		BusinessHoursOnly: def.BusinessHoursOnly,
		Active:            def.Active,
		CreatedAt:         def.CreatedAt,
		UpdatedAt:         def.UpdatedAt,
	}
}

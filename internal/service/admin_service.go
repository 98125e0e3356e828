package service

import (
	"context"
	"strings"

	"github.com/armonia-platform/pqr-service/internal/domain"
	"github.com/armonia-platform/pqr-service/internal/repository"
	"github.com/armonia-platform/pqr-service/pkg/util"
)

// AdminService manages the assignment rule table and SLA catalogue.
type AdminService struct {
	rules repository.AssignmentRuleRepository
	slas  repository.SLARepository
	teams repository.TeamRepository
}

// NewAdminService builds the service.
func NewAdminService(rules repository.AssignmentRuleRepository, slas repository.SLARepository, teams repository.TeamRepository) *AdminService {
	return &AdminService{rules: rules, slas: slas, teams: teams}
}

// CreateRule validates and stores a rule.
func (s *AdminService) CreateRule(ctx context.Context, rule *domain.AssignmentRule) (*domain.AssignmentRule, error) {
	if err := validateRule(rule); err != nil {
		return nil, err
	}
	if err := s.rules.Create(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

// UpdateRule validates and replaces a rule.
func (s *AdminService) UpdateRule(ctx context.Context, rule *domain.AssignmentRule) (*domain.AssignmentRule, error) {
	if err := validateRule(rule); err != nil {
		return nil, err
	}
	if _, err := s.rules.GetByID(ctx, rule.ID); err != nil {
		return nil, util.MapError(err)
	}
	if err := s.rules.Update(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

// DeleteRule removes a rule.
func (s *AdminService) DeleteRule(ctx context.Context, id string) error {
	if _, err := s.rules.GetByID(ctx, id); err != nil {
		return util.MapError(err)
	}
	return s.rules.Delete(ctx, id)
}

// ListRules returns every rule, active or not, in evaluation order.
func (s *AdminService) ListRules(ctx context.Context) ([]domain.AssignmentRule, error) {
	return s.rules.List(ctx)
}

// CreateSLA validates and stores an SLA definition.
func (s *AdminService) CreateSLA(ctx context.Context, def *domain.SLADefinition) (*domain.SLADefinition, error) {
	if err := validateSLA(def); err != nil {
		return nil, err
	}
	if err := s.slas.Create(ctx, def); err != nil {
		return nil, err
	}
	return def, nil
}

// UpdateSLA validates and replaces an SLA definition.
func (s *AdminService) UpdateSLA(ctx context.Context, def *domain.SLADefinition) (*domain.SLADefinition, error) {
	if err := validateSLA(def); err != nil {
		return nil, err
	}
	if err := s.slas.Update(ctx, def); err != nil {
		return nil, err
	}
	return def, nil
}

// DeleteSLA removes an SLA definition.
func (s *AdminService) DeleteSLA(ctx context.Context, id string) error {
	return s.slas.Delete(ctx, id)
}

// ListSLAs returns the SLA catalogue.
func (s *AdminService) ListSLAs(ctx context.Context) ([]domain.SLADefinition, error) {
	return s.slas.List(ctx)
}

// ListTeams returns the active teams.
func (s *AdminService) ListTeams(ctx context.Context) ([]domain.Team, error) {
	return s.teams.ListActive(ctx)
}

func validateRule(rule *domain.AssignmentRule) error {
	rule.Name = strings.TrimSpace(rule.Name)
	if rule.Name == "" {
		return util.NewValidationError("rule name is required", nil)
	}
	if len(rule.Categories) == 0 {
		return util.NewValidationError("rule needs at least one category", nil)
	}
	for _, c := range rule.Categories {
		if !c.Valid() {
			return util.NewValidationError("unknown category", map[string]any{"category": string(c)})
		}
	}
	if rule.SetPriority != nil && !rule.SetPriority.Valid() {
		return util.NewValidationError("unknown priority", map[string]any{"priority": string(*rule.SetPriority)})
	}
	if (rule.TeamID == nil) == (rule.UserID == nil) {
		return util.NewValidationError("rule targets exactly one of team or assignee", nil)
	}
	return nil
}

func validateSLA(def *domain.SLADefinition) error {
	if !def.Category.Valid() {
		return util.NewValidationError("unknown category", map[string]any{"category": string(def.Category)})
	}
	if !def.Priority.Valid() {
		return util.NewValidationError("unknown priority", map[string]any{"priority": string(def.Priority)})
	}
	if def.ResolutionMinutes <= 0 {
		return util.NewValidationError("resolution minutes must be positive", nil)
	}
	return nil
}

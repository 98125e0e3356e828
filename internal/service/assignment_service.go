package service

import (
	"context"
	"strings"
	"time"

	"github.com/armonia-platform/pqr-service/internal/domain"
	"github.com/armonia-platform/pqr-service/internal/repository"
)

// AssignmentResult is the outcome of rule evaluation for one ticket.
type AssignmentResult struct {
	Priority domain.PQRPriority
	TeamID   *string
	UserID   *string
	DueDate  time.Time
}

// AssignmentService routes tickets using the ordered rule table.
type AssignmentService struct {
	rules         repository.AssignmentRuleRepository
	sla           *SLAService
	defaultTeamID string
}

// AssignmentDependencies bundles collaborators.
type AssignmentDependencies struct {
	RuleRepo      repository.AssignmentRuleRepository
	SLA           *SLAService
	DefaultTeamID string
}

// NewAssignmentService creates the service.
func NewAssignmentService(deps AssignmentDependencies) *AssignmentService {
	return &AssignmentService{
		rules:         deps.RuleRepo,
		sla:           deps.SLA,
		defaultTeamID: deps.DefaultTeamID,
	}
}

// Assign evaluates the active rules against the ticket and returns the
// resulting priority, target and due date. Rules are evaluated in
// ascending sort order against a single snapshot, so identical content
// and rule sets always produce identical results. A miss is not an
// error: the default team applies and the ticket keeps its own priority
// (MEDIUM when it has none). A matching rule's priority wins over a
// pre-set one. The due date is always computed from the priority the
// ticket ends up with.
func (s *AssignmentService) Assign(ctx context.Context, pqr *domain.PQR, now time.Time) (*AssignmentResult, error) {
	rules, err := s.rules.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	result := &AssignmentResult{Priority: domain.PriorityMedium}
	if pqr.Priority != "" {
		result.Priority = pqr.Priority
	}
	if s.defaultTeamID != "" {
		teamID := s.defaultTeamID
		result.TeamID = &teamID
	}

	haystack := strings.ToLower(pqr.Title + " " + pqr.Description)
	for i := range rules {
		rule := &rules[i]
		if !ruleMatches(rule, pqr.Category, haystack) {
			continue
		}
		if rule.SetPriority != nil {
			result.Priority = *rule.SetPriority
		}
		if rule.TeamID != nil {
			result.TeamID = rule.TeamID
			result.UserID = nil
		} else if rule.UserID != nil {
			result.UserID = rule.UserID
			result.TeamID = nil
		}
		break
	}

	dueDate, err := s.sla.ComputeDueDate(ctx, pqr.Category, result.Priority, now)
	if err != nil {
		return nil, err
	}
	result.DueDate = dueDate
	return result, nil
}

// ruleMatches checks the category list and, when present, the keyword
// list. Keywords are case-insensitive substring matches against
// title+description; an empty keyword list matches on category alone.
func ruleMatches(rule *domain.AssignmentRule, category domain.PQRCategory, haystack string) bool {
	if !rule.Active {
		return false
	}
	inCategory := false
	for _, c := range rule.Categories {
		if c == category {
			inCategory = true
			break
		}
	}
	if !inCategory {
		return false
	}
	if len(rule.Keywords) == 0 {
		return true
	}
	for _, keyword := range rule.Keywords {
		if keyword == "" {
			continue
		}
		if strings.Contains(haystack, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

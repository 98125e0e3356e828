package service

import (
	"context"
	"testing"
	"time"

	"github.com/armonia-platform/pqr-service/internal/domain"
	"github.com/armonia-platform/pqr-service/internal/schedule"
)

func strPtr(s string) *string { return &s }

func prioPtr(p domain.PQRPriority) *domain.PQRPriority { return &p }

func newTestAssignment(rules *fakeRuleRepo, defaultTeam string) *AssignmentService {
	return NewAssignmentService(AssignmentDependencies{
		RuleRepo:      rules,
		SLA:           NewSLAService(newFakeSLARepo(), schedule.DefaultCalendar(), 120),
		DefaultTeamID: defaultTeam,
	})
}

func TestAssignFirstMatchWins(t *testing.T) {
	rules := &fakeRuleRepo{rules: []domain.AssignmentRule{
		{
			ID: "r2", Name: "plumbing", SortOrder: 2, Active: true,
			Categories:  []domain.PQRCategory{domain.CategoryMaintenance},
			Keywords:    []string{"leak"},
			SetPriority: prioPtr(domain.PriorityHigh),
			TeamID:      strPtr("team-plumbing"),
		},
		{
			ID: "r1", Name: "elevator", SortOrder: 1, Active: true,
			Categories:  []domain.PQRCategory{domain.CategoryMaintenance},
			Keywords:    []string{"elevator", "lift"},
			SetPriority: prioPtr(domain.PriorityUrgent),
			UserID:      strPtr("user-tech"),
		},
	}}
	svc := newTestAssignment(rules, "team-default")

	pqr := &domain.PQR{
		Category:    domain.CategoryMaintenance,
		Title:       "Elevator stuck",
		Description: "The ELEVATOR in tower B is stuck between floors and leaking oil",
	}
	now := time.Date(2026, time.August, 24, 9, 0, 0, 0, time.UTC)
	result, err := svc.Assign(context.Background(), pqr, now)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if result.Priority != domain.PriorityUrgent {
		t.Errorf("priority = %s, want URGENT", result.Priority)
	}
	if result.UserID == nil || *result.UserID != "user-tech" {
		t.Errorf("assignee = %v, want user-tech", result.UserID)
	}
	if result.TeamID != nil {
		t.Errorf("team = %v, want nil when a user target wins", *result.TeamID)
	}
	if result.DueDate.IsZero() || !result.DueDate.After(now) {
		t.Errorf("due date = %v, want after %v", result.DueDate, now)
	}
}

func TestAssignKeepsPresetPriority(t *testing.T) {
	now := time.Date(2026, time.August, 24, 9, 0, 0, 0, time.UTC)

	t.Run("no rule match", func(t *testing.T) {
		svc := newTestAssignment(&fakeRuleRepo{}, "team-default")
		pqr := &domain.PQR{
			Category:    domain.CategoryMaintenance,
			Priority:    domain.PriorityHigh,
			Title:       "Broken intercom",
			Description: "The intercom panel at tower A is dead",
		}
		result, err := svc.Assign(context.Background(), pqr, now)
		if err != nil {
			t.Fatalf("Assign: %v", err)
		}
		if result.Priority != domain.PriorityHigh {
			t.Errorf("priority = %s, want the ticket's own HIGH", result.Priority)
		}
		if want := now.Add(24 * time.Hour); !result.DueDate.Equal(want) {
			t.Errorf("due date = %v, want %v (derived from HIGH)", result.DueDate, want)
		}
	})

	t.Run("rule priority wins over preset", func(t *testing.T) {
		rules := &fakeRuleRepo{rules: []domain.AssignmentRule{{
			ID: "r1", SortOrder: 1, Active: true,
			Categories:  []domain.PQRCategory{domain.CategoryMaintenance},
			SetPriority: prioPtr(domain.PriorityUrgent),
			TeamID:      strPtr("team-maintenance"),
		}}}
		svc := newTestAssignment(rules, "team-default")
		pqr := &domain.PQR{
			Category: domain.CategoryMaintenance,
			Priority: domain.PriorityLow,
			Title:    "Water leak",
		}
		result, err := svc.Assign(context.Background(), pqr, now)
		if err != nil {
			t.Fatalf("Assign: %v", err)
		}
		if result.Priority != domain.PriorityUrgent {
			t.Errorf("priority = %s, want the rule's URGENT", result.Priority)
		}
		if want := now.Add(4 * time.Hour); !result.DueDate.Equal(want) {
			t.Errorf("due date = %v, want %v (derived from URGENT)", result.DueDate, want)
		}
	})
}

func TestAssignKeywordIsCaseInsensitive(t *testing.T) {
	rules := &fakeRuleRepo{rules: []domain.AssignmentRule{
		{
			ID: "r1", SortOrder: 1, Active: true,
			Categories: []domain.PQRCategory{domain.CategoryNoise},
			Keywords:   []string{"PARTY"},
			TeamID:     strPtr("team-security"),
		},
	}}
	svc := newTestAssignment(rules, "team-default")

	pqr := &domain.PQR{
		Category:    domain.CategoryNoise,
		Title:       "Loud music",
		Description: "There is a party on the 5th floor every night",
	}
	result, err := svc.Assign(context.Background(), pqr, time.Now())
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if result.TeamID == nil || *result.TeamID != "team-security" {
		t.Fatalf("team = %v, want team-security", result.TeamID)
	}
}

func TestAssignEmptyKeywordsMatchOnCategory(t *testing.T) {
	rules := &fakeRuleRepo{rules: []domain.AssignmentRule{
		{
			ID: "r1", SortOrder: 1, Active: true,
			Categories: []domain.PQRCategory{domain.CategoryPayments},
			TeamID:     strPtr("team-billing"),
		},
	}}
	svc := newTestAssignment(rules, "team-default")

	result, err := svc.Assign(context.Background(), &domain.PQR{
		Category:    domain.CategoryPayments,
		Title:       "Question about admin fee",
		Description: "No keyword from any rule appears here",
	}, time.Now())
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if result.TeamID == nil || *result.TeamID != "team-billing" {
		t.Fatalf("team = %v, want team-billing", result.TeamID)
	}
}

func TestAssignNoMatchFallsBackToDefault(t *testing.T) {
	rules := &fakeRuleRepo{rules: []domain.AssignmentRule{
		{
			ID: "r1", SortOrder: 1, Active: true,
			Categories: []domain.PQRCategory{domain.CategorySecurity},
			TeamID:     strPtr("team-security"),
		},
		{
			ID: "r2", SortOrder: 2, Active: false,
			Categories: []domain.PQRCategory{domain.CategoryPets},
			TeamID:     strPtr("team-inactive"),
		},
	}}
	svc := newTestAssignment(rules, "team-default")

	result, err := svc.Assign(context.Background(), &domain.PQR{
		Category:    domain.CategoryPets,
		Title:       "Dog without leash",
		Description: "A neighbor walks their dog without a leash",
	}, time.Now())
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if result.Priority != domain.PriorityMedium {
		t.Errorf("priority = %s, want MEDIUM", result.Priority)
	}
	if result.TeamID == nil || *result.TeamID != "team-default" {
		t.Errorf("team = %v, want team-default", result.TeamID)
	}
	if result.UserID != nil {
		t.Errorf("assignee = %v, want nil", *result.UserID)
	}
}

func TestAssignDeterministic(t *testing.T) {
	rules := &fakeRuleRepo{rules: []domain.AssignmentRule{
		{
			ID: "r1", SortOrder: 1, Active: true,
			Categories:  []domain.PQRCategory{domain.CategoryMaintenance},
			Keywords:    []string{"water"},
			SetPriority: prioPtr(domain.PriorityHigh),
			TeamID:      strPtr("team-plumbing"),
		},
	}}
	svc := newTestAssignment(rules, "team-default")
	pqr := &domain.PQR{
		Category:    domain.CategoryMaintenance,
		Title:       "Water leak in garage",
		Description: "Water pooling near parking spot 12",
	}
	now := time.Date(2026, time.August, 24, 9, 0, 0, 0, time.UTC)

	first, err := svc.Assign(context.Background(), pqr, now)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	second, err := svc.Assign(context.Background(), pqr, now)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if *first.TeamID != *second.TeamID || first.Priority != second.Priority || !first.DueDate.Equal(second.DueDate) {
		t.Fatalf("results differ: %+v vs %+v", first, second)
	}
}

package service

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/armonia-platform/pqr-service/internal/domain"
	"github.com/armonia-platform/pqr-service/internal/notifier"
	"github.com/armonia-platform/pqr-service/internal/repository"
)

type fakePQRRepo struct {
	mu      sync.Mutex
	seq     int
	pqrs    map[string]*domain.PQR
	updates int
}

func newFakePQRRepo() *fakePQRRepo {
	return &fakePQRRepo{pqrs: map[string]*domain.PQR{}}
}

func (r *fakePQRRepo) Create(_ context.Context, pqr *domain.PQR) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if pqr.ID == "" {
		r.seq++
		pqr.ID = "pqr-" + strconv.Itoa(r.seq)
	}
	clone := *pqr
	r.pqrs[pqr.ID] = &clone
	return nil
}

func (r *fakePQRRepo) Update(_ context.Context, pqr *domain.PQR) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pqrs[pqr.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *pqr
	r.pqrs[pqr.ID] = &clone
	r.updates++
	return nil
}

func (r *fakePQRRepo) GetByID(_ context.Context, id string) (*domain.PQR, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pqr, ok := r.pqrs[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *pqr
	return &clone, nil
}

func (r *fakePQRRepo) GetByTicketNumber(_ context.Context, number string) (*domain.PQR, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, pqr := range r.pqrs {
		if pqr.TicketNumber == number {
			clone := *pqr
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakePQRRepo) ListWithFilter(_ context.Context, filter repository.PQRFilter) ([]domain.PQR, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.PQR, 0, len(r.pqrs))
	for _, pqr := range r.pqrs {
		if filter.DueBefore != nil && (pqr.DueDate == nil || pqr.DueDate.After(*filter.DueBefore)) {
			continue
		}
		out = append(out, *pqr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *fakePQRRepo) CountByStatus(_ context.Context) (map[domain.PQRStatus]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[domain.PQRStatus]int{}
	for _, pqr := range r.pqrs {
		counts[pqr.Status]++
	}
	return counts, nil
}

type fakeRuleRepo struct {
	rules []domain.AssignmentRule
}

func (r *fakeRuleRepo) Create(_ context.Context, rule *domain.AssignmentRule) error {
	r.rules = append(r.rules, *rule)
	return nil
}

func (r *fakeRuleRepo) Update(_ context.Context, rule *domain.AssignmentRule) error {
	for i := range r.rules {
		if r.rules[i].ID == rule.ID {
			r.rules[i] = *rule
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeRuleRepo) Delete(_ context.Context, id string) error {
	for i := range r.rules {
		if r.rules[i].ID == id {
			r.rules = append(r.rules[:i], r.rules[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeRuleRepo) GetByID(_ context.Context, id string) (*domain.AssignmentRule, error) {
	for i := range r.rules {
		if r.rules[i].ID == id {
			clone := r.rules[i]
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeRuleRepo) ListActive(_ context.Context) ([]domain.AssignmentRule, error) {
	out := make([]domain.AssignmentRule, 0, len(r.rules))
	for _, rule := range r.rules {
		if rule.Active {
			out = append(out, rule)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (r *fakeRuleRepo) List(_ context.Context) ([]domain.AssignmentRule, error) {
	out := append([]domain.AssignmentRule{}, r.rules...)
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

type slaKey struct {
	Category domain.PQRCategory
	Priority domain.PQRPriority
}

type fakeSLARepo struct {
	defs map[slaKey]domain.SLADefinition
}

func newFakeSLARepo() *fakeSLARepo {
	return &fakeSLARepo{defs: map[slaKey]domain.SLADefinition{}}
}

func (r *fakeSLARepo) put(def domain.SLADefinition) {
	r.defs[slaKey{def.Category, def.Priority}] = def
}

func (r *fakeSLARepo) Create(_ context.Context, def *domain.SLADefinition) error {
	r.put(*def)
	return nil
}

func (r *fakeSLARepo) Update(_ context.Context, def *domain.SLADefinition) error {
	r.put(*def)
	return nil
}

func (r *fakeSLARepo) Delete(_ context.Context, id string) error {
	for key, def := range r.defs {
		if def.ID == id {
			delete(r.defs, key)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeSLARepo) GetByCategoryPriority(_ context.Context, category domain.PQRCategory, priority domain.PQRPriority) (*domain.SLADefinition, error) {
	def, ok := r.defs[slaKey{category, priority}]
	if !ok || !def.Active {
		return nil, pgx.ErrNoRows
	}
	clone := def
	return &clone, nil
}

func (r *fakeSLARepo) List(_ context.Context) ([]domain.SLADefinition, error) {
	out := make([]domain.SLADefinition, 0, len(r.defs))
	for _, def := range r.defs {
		out = append(out, def)
	}
	return out, nil
}

type fakeUserRepo struct {
	users map[string]domain.User
}

func newFakeUserRepo(users ...domain.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: map[string]domain.User{}}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = "user-" + strconv.Itoa(len(r.users)+1)
	}
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := user
	return &clone, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			clone := user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) ListByRole(_ context.Context, role domain.UserRole) ([]domain.User, error) {
	out := []domain.User{}
	ids := make([]string, 0, len(r.users))
	for id := range r.users {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		user := r.users[id]
		if user.Role == role && user.Active {
			out = append(out, user)
		}
	}
	return out, nil
}

type fakeHistoryRepo struct {
	entries []domain.PQRHistory
}

func (r *fakeHistoryRepo) Create(_ context.Context, entry *domain.PQRHistory) error {
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeHistoryRepo) ListByPQR(_ context.Context, pqrID string, _, _ int) ([]domain.PQRHistory, error) {
	out := []domain.PQRHistory{}
	for _, entry := range r.entries {
		if entry.PQRID == pqrID {
			out = append(out, entry)
		}
	}
	return out, nil
}

type fakeLogRepo struct {
	entries []domain.NotificationLogEntry
}

func (r *fakeLogRepo) Append(_ context.Context, entry *domain.NotificationLogEntry) error {
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeLogRepo) ListByPQR(_ context.Context, pqrID string, _, _ int) ([]domain.NotificationLogEntry, error) {
	out := []domain.NotificationLogEntry{}
	for _, entry := range r.entries {
		if entry.PQRID == pqrID {
			out = append(out, entry)
		}
	}
	return out, nil
}

type sentMessage struct {
	Channel domain.Channel
	Address string
	Subject string
	Body    string
}

type fakeNotifier struct {
	sent         []sentMessage
	failChannels map[domain.Channel]bool
}

func (n *fakeNotifier) Send(_ context.Context, channel domain.Channel, address, subject, body string) notifier.SendResult {
	n.sent = append(n.sent, sentMessage{Channel: channel, Address: address, Subject: subject, Body: body})
	if n.failChannels[channel] {
		return notifier.SendResult{Success: false, Error: "transport down"}
	}
	return notifier.SendResult{Success: true}
}

type fakeMarkers struct {
	claimed map[string]bool
}

func newFakeMarkers() *fakeMarkers {
	return &fakeMarkers{claimed: map[string]bool{}}
}

func (m *fakeMarkers) Claim(_ context.Context, kind, pqrID string) (bool, error) {
	key := kind + ":" + pqrID
	if m.claimed[key] {
		return false, nil
	}
	m.claimed[key] = true
	return true, nil
}

// Package repotest provides in-memory repositories for service and handler tests.
package repotest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/fanfund/internal/domain"
	"github.com/spec-kit/fanfund/internal/repository"
)

// Store backs every repository interface with maps guarded by one mutex. Err, when set,
// is returned by every call.
type Store struct {
	mu            sync.Mutex
	users         map[string]domain.User
	artists       map[string]domain.Artist
	tiers         map[string]domain.Tier
	projects      map[string]domain.Project
	investments   []domain.Investment
	subscriptions map[string]domain.Subscription
	unlocks       map[string]domain.UnlockRequest

	Err error
	// ArtistErr, when set, fails artist profile creation only.
	ArtistErr error
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		users:         make(map[string]domain.User),
		artists:       make(map[string]domain.Artist),
		tiers:         make(map[string]domain.Tier),
		projects:      make(map[string]domain.Project),
		subscriptions: make(map[string]domain.Subscription),
		unlocks:       make(map[string]domain.UnlockRequest),
	}
}

func (s *Store) Accounts() repository.AccountRepository             { return accountRepo{s} }
func (s *Store) Users() repository.UserRepository                   { return userRepo{s} }
func (s *Store) Artists() repository.ArtistRepository               { return artistRepo{s} }
func (s *Store) Projects() repository.ProjectRepository             { return projectRepo{s} }
func (s *Store) Investments() repository.InvestmentRepository       { return investmentRepo{s} }
func (s *Store) Subscriptions() repository.SubscriptionRepository   { return subscriptionRepo{s} }
func (s *Store) UnlockRequests() repository.UnlockRequestRepository { return unlockRepo{s} }

// PutProject stores p as is, assigning an id when it has none.
func (s *Store) PutProject(p domain.Project) domain.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	s.projects[p.ID] = p
	return p
}

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.s.users[user.ID] = *user
	return nil
}

func (r userRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	u, ok := r.s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &u, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type accountRepo struct{ s *Store }

func (r accountRepo) CreateAccount(ctx context.Context, user *domain.User, artist *domain.Artist) error {
	if err := (userRepo{r.s}).Create(ctx, user); err != nil {
		return err
	}
	if artist == nil {
		return nil
	}
	artist.UserID = user.ID
	if err := (artistRepo{r.s}).Create(ctx, artist); err != nil {
		r.s.mu.Lock()
		delete(r.s.users, user.ID)
		r.s.mu.Unlock()
		return err
	}
	return nil
}

// UserCount reports how many accounts exist.
func (s *Store) UserCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

type artistRepo struct{ s *Store }

func (r artistRepo) Create(_ context.Context, artist *domain.Artist) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	if r.s.ArtistErr != nil {
		return r.s.ArtistErr
	}
	artist.ID = uuid.NewString()
	artist.CreatedAt = time.Now()
	r.s.artists[artist.ID] = *artist
	return nil
}

func (r artistRepo) GetByID(_ context.Context, id string) (*domain.Artist, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	a, ok := r.s.artists[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &a, nil
}

func (r artistRepo) GetByUserID(_ context.Context, userID string) (*domain.Artist, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	for _, a := range r.s.artists {
		if a.UserID == userID {
			return &a, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r artistRepo) List(context.Context) ([]domain.Artist, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	out := make([]domain.Artist, 0, len(r.s.artists))
	for _, a := range r.s.artists {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r artistRepo) CreateTier(_ context.Context, tier *domain.Tier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	tier.ID = uuid.NewString()
	r.s.tiers[tier.ID] = *tier
	return nil
}

func (r artistRepo) ListTiers(_ context.Context, artistID string) ([]domain.Tier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	out := []domain.Tier{}
	for _, t := range r.s.tiers {
		if t.ArtistID == artistID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PriceCents < out[j].PriceCents })
	return out, nil
}

func (r artistRepo) GetTier(_ context.Context, id string) (*domain.Tier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	t, ok := r.s.tiers[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &t, nil
}

type projectRepo struct{ s *Store }

func (r projectRepo) CreateDraft(_ context.Context, project *domain.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	project.ID = uuid.NewString()
	project.Status = domain.ProjectStatusDraft
	project.RaisedCents = 0
	project.CreatedAt = time.Now()
	project.UpdatedAt = project.CreatedAt
	r.s.projects[project.ID] = *project
	return nil
}

func (r projectRepo) GetByID(_ context.Context, id string) (*domain.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	p, ok := r.s.projects[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &p, nil
}

func (r projectRepo) List(_ context.Context, filter repository.ProjectFilter) ([]domain.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	out := []domain.Project{}
	for _, p := range r.s.projects {
		if filter.ArtistID != nil && p.ArtistID != *filter.ArtistID {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, p.Status) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func containsStatus(statuses []domain.ProjectStatus, status domain.ProjectStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

func (r projectRepo) Review(_ context.Context, id string, status domain.ProjectStatus, note string) (*domain.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	p, ok := r.s.projects[id]
	if !ok || p.Status != domain.ProjectStatusDraft {
		return nil, pgx.ErrNoRows
	}
	p.Status = status
	p.ReviewNote = note
	p.UpdatedAt = time.Now()
	r.s.projects[id] = p
	return &p, nil
}

type investmentRepo struct{ s *Store }

func (r investmentRepo) Create(_ context.Context, inv *domain.Investment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	p, ok := r.s.projects[inv.ProjectID]
	if !ok || p.Status != domain.ProjectStatusApproved {
		return pgx.ErrNoRows
	}
	p.RaisedCents += inv.AmountCents
	r.s.projects[p.ID] = p

	inv.ID = uuid.NewString()
	inv.CreatedAt = time.Now()
	r.s.investments = append(r.s.investments, *inv)
	return nil
}

func (r investmentRepo) Holdings(_ context.Context, investorID string) ([]domain.Holding, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	totals := map[string]int64{}
	var order []string
	for _, inv := range r.s.investments {
		if inv.InvestorID != investorID {
			continue
		}
		if _, seen := totals[inv.ProjectID]; !seen {
			order = append(order, inv.ProjectID)
		}
		totals[inv.ProjectID] += inv.AmountCents
	}
	out := make([]domain.Holding, 0, len(order))
	for _, id := range order {
		out = append(out, domain.Holding{Project: r.s.projects[id], InvestedCents: totals[id]})
	}
	return out, nil
}

type subscriptionRepo struct{ s *Store }

func (r subscriptionRepo) CreatePending(_ context.Context, sub *domain.Subscription) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	sub.ID = uuid.NewString()
	sub.Status = domain.SubscriptionStatusPending
	sub.CreatedAt = time.Now()
	sub.UpdatedAt = sub.CreatedAt
	r.s.subscriptions[sub.ID] = *sub
	return nil
}

func (r subscriptionRepo) Activate(_ context.Context, userID, sessionID string) (*domain.Subscription, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	for id, sub := range r.s.subscriptions {
		if sub.UserID == userID && sub.CheckoutSessionID == sessionID && sub.Status == domain.SubscriptionStatusPending {
			sub.Status = domain.SubscriptionStatusActive
			sub.UpdatedAt = time.Now()
			r.s.subscriptions[id] = sub
			return &sub, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type unlockRepo struct{ s *Store }

func (r unlockRepo) Create(_ context.Context, req *domain.UnlockRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	p, ok := r.s.projects[req.ProjectID]
	if !ok || p.Status != domain.ProjectStatusApproved {
		return pgx.ErrNoRows
	}
	var claimed int64
	for _, u := range r.s.unlocks {
		if u.ProjectID == p.ID && u.Status != domain.UnlockStatusRejected {
			claimed += u.AmountCents
		}
	}
	if p.AvailableCents(claimed) < req.AmountCents {
		return pgx.ErrNoRows
	}
	req.ID = uuid.NewString()
	req.Status = domain.UnlockStatusPending
	req.CreatedAt = time.Now()
	req.UpdatedAt = req.CreatedAt
	r.s.unlocks[req.ID] = *req
	return nil
}

func (r unlockRepo) List(_ context.Context, status *domain.UnlockStatus) ([]domain.UnlockRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	out := []domain.UnlockRequest{}
	for _, u := range r.s.unlocks {
		if status != nil && u.Status != *status {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r unlockRepo) Review(_ context.Context, id string, status domain.UnlockStatus, note string) (*domain.UnlockRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	u, ok := r.s.unlocks[id]
	if !ok || u.Status != domain.UnlockStatusPending {
		return nil, pgx.ErrNoRows
	}
	u.Status = status
	u.ReviewNote = note
	u.UpdatedAt = time.Now()
	r.s.unlocks[id] = u
	return &u, nil
}

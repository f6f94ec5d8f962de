// Package memory keeps users, quotas and usage counters in process memory.
// It mirrors the MySQL repositories' semantics, including the cascade from
// users to quotas, and backs STORE=memory and the service tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/promptgate/promptgate-go/internal/model"
	"github.com/promptgate/promptgate-go/internal/repository"
)

type usageKey struct {
	endpoint string
	method   string
}

// Store holds the shared state behind the three repository views.
type Store struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]model.User
	quotas map[int64]int

	nextUsageID int64
	usage       map[usageKey]*model.UsageRecord
}

func New() *Store {
	return &Store{
		users:  make(map[int64]model.User),
		quotas: make(map[int64]int),
		usage:  make(map[usageKey]*model.UsageRecord),
	}
}

// Users returns the user repository view.
func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

// Quotas returns the quota repository view.
func (s *Store) Quotas() *QuotaRepository { return &QuotaRepository{s: s} }

// Usage returns the usage repository view.
func (s *Store) Usage() *UsageRepository { return &UsageRepository{s: s} }

type UserRepository struct{ s *Store }

func (r *UserRepository) Create(ctx context.Context, user *model.User, initialCalls int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return repository.ErrDuplicateEmail
		}
	}

	r.s.nextID++
	user.ID = r.s.nextID
	r.s.users[user.ID] = *user
	r.s.quotas[user.ID] = initialCalls
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &u, nil
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	users := make([]model.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r *UserRepository) UpdateUsername(ctx context.Context, id int64, username string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if u, ok := r.s.users[id]; ok {
		u.Username = username
		r.s.users[id] = u
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(r.s.users, id)
	delete(r.s.quotas, id)
	return nil
}

type QuotaRepository struct{ s *Store }

func (r *QuotaRepository) Get(ctx context.Context, userID int64, seed int) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[userID]; !ok {
		return 0, repository.ErrUserNotFound
	}
	calls, ok := r.s.quotas[userID]
	if !ok {
		calls = seed
		r.s.quotas[userID] = calls
	}
	return calls, nil
}

func (r *QuotaRepository) Decrement(ctx context.Context, userID int64, seed int) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[userID]; !ok {
		return 0, repository.ErrUserNotFound
	}
	calls, ok := r.s.quotas[userID]
	switch {
	case !ok:
		calls = seed
	case calls > 0:
		calls--
	}
	r.s.quotas[userID] = calls
	return calls, nil
}

func (r *QuotaRepository) Initialize(ctx context.Context, userID int64, count int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[userID]; !ok {
		return repository.ErrUserNotFound
	}
	r.s.quotas[userID] = count
	return nil
}

// Remove drops the quota row of userID while keeping the user, as happens
// for accounts created before quotas were seeded at registration.
func (r *QuotaRepository) Remove(userID int64) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.quotas, userID)
}

// Has reports whether userID has a quota row.
func (r *QuotaRepository) Has(userID int64) bool {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.quotas[userID]
	return ok
}

type UsageRepository struct{ s *Store }

func (r *UsageRepository) RecordHit(ctx context.Context, endpoint, method string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := usageKey{endpoint: endpoint, method: method}
	if rec, ok := r.s.usage[key]; ok {
		rec.Requests++
		return nil
	}
	r.s.nextUsageID++
	r.s.usage[key] = &model.UsageRecord{
		ID:       r.s.nextUsageID,
		Endpoint: endpoint,
		Method:   method,
		Requests: 1,
	}
	return nil
}

func (r *UsageRepository) List(ctx context.Context) ([]model.UsageRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	records := make([]model.UsageRecord, 0, len(r.s.usage))
	for _, rec := range r.s.usage {
		records = append(records, *rec)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, nil
}

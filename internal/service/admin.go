package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/promptgate/promptgate-go/internal/model"
	"github.com/promptgate/promptgate-go/internal/repository"
)

// AdminService backs the administrator views.
type AdminService struct {
	users UserStore
	quota *QuotaService
	usage *UsageService
}

func NewAdminService(users UserStore, quota *QuotaService, usage *UsageService) *AdminService {
	return &AdminService{users: users, quota: quota, usage: usage}
}

// ListUsers returns every user with their current remaining calls. Users
// without a quota row get one as a side effect of reading it.
func (s *AdminService) ListUsers(ctx context.Context) ([]model.AdminUser, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}

	result := make([]model.AdminUser, 0, len(users))
	for _, u := range users {
		calls, err := s.quota.GetCount(ctx, u.ID)
		if err != nil {
			return nil, fmt.Errorf("quota of user %d: %w", u.ID, err)
		}
		result = append(result, model.AdminUser{
			ID:       u.ID,
			Username: u.Username,
			Email:    u.Email,
			IsAdmin:  u.IsAdmin,
			APICalls: calls,
		})
	}
	return result, nil
}

// DeleteUser removes user id and, through the cascade, its quota row.
// Usage counters are not per user and stay as they are.
func (s *AdminService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("deleting user: %w", err)
	}
	return nil
}

// ListResources returns the per-endpoint request counters.
func (s *AdminService) ListResources(ctx context.Context) ([]model.UsageRecord, error) {
	return s.usage.List(ctx)
}

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/promptgate/promptgate-go/internal/metrics"
	"github.com/promptgate/promptgate-go/internal/repository"
)

const (
	// DefaultQuota is the number of calls a new account starts with.
	DefaultQuota = 20

	// decrementSeed is stored when a call is consumed by a user without a
	// quota row: the call being charged counts against the default.
	decrementSeed = DefaultQuota - 1
)

var ErrUserNotFound = errors.New("user not found")

// QuotaService is the ledger of remaining API calls per user.
type QuotaService struct {
	repo QuotaStore
}

// NewQuotaService creates a new QuotaService.
func NewQuotaService(repo QuotaStore) *QuotaService {
	return &QuotaService{repo: repo}
}

// GetCount returns the remaining calls of userID. A user without a quota
// row gets one holding DefaultQuota.
func (s *QuotaService) GetCount(ctx context.Context, userID int64) (int, error) {
	calls, err := s.repo.Get(ctx, userID, DefaultQuota)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, fmt.Errorf("reading quota: %w", err)
	}
	return calls, nil
}

// Decrement consumes one call of userID, never going below zero, and
// returns what is left. A user without a quota row gets DefaultQuota-1.
func (s *QuotaService) Decrement(ctx context.Context, userID int64) (int, error) {
	calls, err := s.repo.Decrement(ctx, userID, decrementSeed)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, fmt.Errorf("decrementing quota: %w", err)
	}
	metrics.QuotaDecrementsTotal.Inc()
	return calls, nil
}

// Initialize stores count as the starting quota of userID.
func (s *QuotaService) Initialize(ctx context.Context, userID int64, count int) error {
	if count < 0 {
		return fmt.Errorf("initial quota must not be negative, got %d", count)
	}
	if err := s.repo.Initialize(ctx, userID, count); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("initializing quota: %w", err)
	}
	return nil
}

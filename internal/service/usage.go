package service

import (
	"context"
	"fmt"

	"github.com/promptgate/promptgate-go/internal/model"
)

// UsageService tallies requests per endpoint and method.
type UsageService struct {
	repo UsageStore
}

func NewUsageService(repo UsageStore) *UsageService {
	return &UsageService{repo: repo}
}

func (s *UsageService) RecordHit(ctx context.Context, endpoint, method string) error {
	if err := s.repo.RecordHit(ctx, endpoint, method); err != nil {
		return fmt.Errorf("recording hit on %s %s: %w", method, endpoint, err)
	}
	return nil
}

func (s *UsageService) List(ctx context.Context) ([]model.UsageRecord, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing usage: %w", err)
	}
	if records == nil {
		records = []model.UsageRecord{}
	}
	return records, nil
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/promptgate/promptgate-go/internal/crypto"
	"github.com/promptgate/promptgate-go/internal/model"
	"github.com/promptgate/promptgate-go/internal/repository/memory"
)

type testEnv struct {
	store  *memory.Store
	tokens *crypto.TokenService
	quota  *QuotaService
	auth   *AuthService
}

func newTestEnv() *testEnv {
	store := memory.New()
	tokens := crypto.NewTokenService("test-secret", time.Hour)
	quota := NewQuotaService(store.Quotas())
	return &testEnv{
		store:  store,
		tokens: tokens,
		quota:  quota,
		auth:   NewAuthService(store.Users(), quota, tokens),
	}
}

func (e *testEnv) register(t *testing.T, username, email string) *model.User {
	t.Helper()
	user, err := e.auth.Register(context.Background(), model.RegisterRequest{
		Username: username,
		Email:    email,
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Register(%s) unexpected error: %v", email, err)
	}
	return user
}

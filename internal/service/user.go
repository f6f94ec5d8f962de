package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/promptgate/promptgate-go/internal/crypto"
	"github.com/promptgate/promptgate-go/internal/repository"
)

var ErrForbidden = errors.New("not allowed to modify another user")

// UserService handles changes users make to their own accounts.
type UserService struct {
	users  UserStore
	quota  *QuotaService
	tokens *crypto.TokenService
}

func NewUserService(users UserStore, quota *QuotaService, tokens *crypto.TokenService) *UserService {
	return &UserService{users: users, quota: quota, tokens: tokens}
}

// UpdateUsername renames user id on behalf of actor. Only the account owner
// and administrators may rename. When actor renames itself a fresh session
// token is returned; otherwise the token is empty.
func (s *UserService) UpdateUsername(ctx context.Context, actor *crypto.Claims, id int64, username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", ErrUsernameRequired
	}
	if actor.UserID != id && !actor.IsAdmin {
		return "", ErrForbidden
	}

	if err := s.users.UpdateUsername(ctx, id, username); err != nil {
		return "", fmt.Errorf("updating username: %w", err)
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("reloading user: %w", err)
	}

	if actor.UserID != id {
		return "", nil
	}

	calls, err := s.quota.GetCount(ctx, id)
	if err != nil {
		return "", err
	}

	token, err := s.tokens.Issue(user, calls)
	if err != nil {
		return "", fmt.Errorf("issuing token: %w", err)
	}
	return token, nil
}

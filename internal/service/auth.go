package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/promptgate/promptgate-go/internal/crypto"
	"github.com/promptgate/promptgate-go/internal/model"
	"github.com/promptgate/promptgate-go/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameRequired   = errors.New("username is required")
	ErrEmailRequired      = errors.New("email is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrEmailTaken         = errors.New("email already taken")
)

// LoginResult carries the session token and the data echoed to the client.
type LoginResult struct {
	Token    string
	User     *model.User
	APICalls int
}

// AuthService handles registration and login.
type AuthService struct {
	users  UserStore
	quota  *QuotaService
	tokens *crypto.TokenService
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, quota *QuotaService, tokens *crypto.TokenService) *AuthService {
	return &AuthService{
		users:  users,
		quota:  quota,
		tokens: tokens,
	}
}

// Register creates a new account with DefaultQuota calls.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if email == "" {
		return nil, ErrEmailRequired
	}
	if req.Password == "" {
		return nil, ErrPasswordRequired
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}

	if err := s.users.Create(ctx, user, DefaultQuota); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return user, nil
}

// Login checks the credentials and issues a session token carrying the
// caller's current quota.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return LoginResult{}, ErrUserNotFound
		}
		return LoginResult{}, fmt.Errorf("finding user: %w", err)
	}

	match, err := crypto.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return LoginResult{}, fmt.Errorf("verifying password: %w", err)
	}
	if !match {
		return LoginResult{}, ErrInvalidCredentials
	}

	calls, err := s.quota.GetCount(ctx, user.ID)
	if err != nil {
		return LoginResult{}, err
	}

	token, err := s.tokens.Issue(user, calls)
	if err != nil {
		return LoginResult{}, fmt.Errorf("issuing token: %w", err)
	}

	return LoginResult{Token: token, User: user, APICalls: calls}, nil
}

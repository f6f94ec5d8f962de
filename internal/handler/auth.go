package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/promptgate/promptgate-go/internal/crypto"
	"github.com/promptgate/promptgate-go/internal/middleware"
	"github.com/promptgate/promptgate-go/internal/model"
	"github.com/promptgate/promptgate-go/internal/service"
)

// AuthHandler handles HTTP requests for registration and sessions.
type AuthHandler struct {
	service *service.AuthService
	ttl     time.Duration
}

// NewAuthHandler creates a new AuthHandler. ttl is the session cookie lifetime.
func NewAuthHandler(svc *service.AuthService, ttl time.Duration) *AuthHandler {
	return &AuthHandler{service: svc, ttl: ttl}
}

// HandleRegister handles POST /api/v1/register requests.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if status, err := decodeBody(w, r, &req); err != nil {
		writeError(w, status, "User registration failed.", err)
		return
	}

	if _, err := h.service.Register(r.Context(), req); err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameRequired),
			errors.Is(err, service.ErrEmailRequired),
			errors.Is(err, service.ErrPasswordRequired),
			errors.Is(err, crypto.ErrPasswordTooLong):
			writeError(w, http.StatusBadRequest, "User registration failed.", err)
		case errors.Is(err, service.ErrEmailTaken):
			writeError(w, http.StatusConflict, "User registration failed.", err)
		default:
			slog.Error("registration failed", "error", err)
			writeError(w, http.StatusInternalServerError, "User registration failed.", err)
		}
		return
	}

	writeMessage(w, http.StatusCreated, "User registered successfully.")
}

// HandleLogin handles POST /api/v1/login requests.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if status, err := decodeBody(w, r, &req); err != nil {
		writeError(w, status, "Invalid credentials.", err)
		return
	}

	res, err := h.service.Login(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			writeMessage(w, http.StatusBadRequest, "User not found.")
		case errors.Is(err, service.ErrInvalidCredentials):
			writeMessage(w, http.StatusForbidden, "Invalid credentials.")
		default:
			slog.Error("login failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Error fetching data.", err)
		}
		return
	}

	setSessionCookie(w, res.Token, h.ttl)
	writeJSON(w, http.StatusOK, model.LoginResponse{
		APICalls: res.APICalls,
		IsAdmin:  res.User.IsAdmin,
		Username: res.User.Username,
	})
}

// HandleLogout handles POST /api/v1/logout requests.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	clearSessionCookie(w)
	writeMessage(w, http.StatusOK, "Logged out successfully")
}

// HandleCheckUser handles GET /api/v1/checkUser requests. The quota it reports
// is the snapshot stored in the session token.
func (h *AuthHandler) HandleCheckUser(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	writeJSON(w, http.StatusOK, model.SessionResponse{
		IsAdmin:  claims.IsAdmin,
		APICalls: claims.APICalls,
		ID:       claims.UserID,
		Username: claims.Username,
	})
}

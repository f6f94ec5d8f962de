package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/promptgate/promptgate-go/internal/middleware"
	"github.com/promptgate/promptgate-go/internal/model"
	"github.com/promptgate/promptgate-go/internal/service"
)

// UserHandler handles HTTP requests a signed-in user makes about their account.
type UserHandler struct {
	users *service.UserService
	quota *service.QuotaService
	ttl   time.Duration
}

func NewUserHandler(users *service.UserService, quota *service.QuotaService, ttl time.Duration) *UserHandler {
	return &UserHandler{users: users, quota: quota, ttl: ttl}
}

// HandleUpdate handles PUT /api/v1/update/{id} requests.
func (h *UserHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := userIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "User update failed.", err)
		return
	}

	var req model.UpdateUserRequest
	if status, err := decodeBody(w, r, &req); err != nil {
		writeError(w, status, "User update failed.", err)
		return
	}

	token, err := h.users.UpdateUsername(r.Context(), claims, id, req.Username)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameRequired):
			writeError(w, http.StatusBadRequest, "User update failed.", err)
		case errors.Is(err, service.ErrForbidden):
			writeError(w, http.StatusForbidden, "User update failed.", err)
		case errors.Is(err, service.ErrUserNotFound):
			writeMessage(w, http.StatusBadRequest, "User not found.")
		default:
			slog.Error("updating user failed", "user_id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "User update failed.", err)
		}
		return
	}

	if token != "" {
		setSessionCookie(w, token, h.ttl)
	}
	writeMessage(w, http.StatusOK, "User updated successfully.")
}

// HandleGetAPICalls handles GET /api/v1/getApiCalls requests. Unlike
// checkUser it reads the live ledger.
func (h *UserHandler) HandleGetAPICalls(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	calls, err := h.quota.GetCount(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeMessage(w, http.StatusBadRequest, "User not found.")
			return
		}
		slog.Error("reading quota failed", "user_id", claims.UserID, "error", err)
		writeError(w, http.StatusInternalServerError, "Error fetching data.", err)
		return
	}

	writeJSON(w, http.StatusOK, model.APICallsResponse{APICalls: calls})
}

func userIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidUserID
	}
	return id, nil
}

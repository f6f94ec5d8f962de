package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/promptgate/promptgate-go/internal/model"
	"github.com/promptgate/promptgate-go/internal/service"
)

// AdminHandler handles the administrator endpoints. Routes using it must be
// behind middleware.RequireAdmin.
type AdminHandler struct {
	service *service.AdminService
}

func NewAdminHandler(svc *service.AdminService) *AdminHandler {
	return &AdminHandler{service: svc}
}

// HandleData handles GET /api/v1/admin/data requests.
func (h *AdminHandler) HandleData(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		slog.Error("listing users failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Error fetching data.", err)
		return
	}

	writeJSON(w, http.StatusOK, model.AdminUsersResponse{Users: users, IsAdmin: true})
}

// HandleDelete handles DELETE /api/v1/admin/delete/{id} requests.
func (h *AdminHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := userIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Error deleting user.", err)
		return
	}

	if err := h.service.DeleteUser(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeMessage(w, http.StatusNotFound, "User not found.")
			return
		}
		slog.Error("deleting user failed", "user_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Error deleting user.", err)
		return
	}

	slog.Info("user deleted", "user_id", id)
	writeMessage(w, http.StatusOK, "User deleted successfully.")
}

// HandleResource handles GET /api/v1/admin/resource requests.
func (h *AdminHandler) HandleResource(w http.ResponseWriter, r *http.Request) {
	resources, err := h.service.ListResources(r.Context())
	if err != nil {
		slog.Error("listing resources failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Error fetching resources.", err)
		return
	}

	writeJSON(w, http.StatusOK, model.ResourcesResponse{Resources: resources})
}

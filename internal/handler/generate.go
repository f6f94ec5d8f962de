package handler

import (
	"errors"
	"net/http"

	"github.com/promptgate/promptgate-go/internal/middleware"
	"github.com/promptgate/promptgate-go/internal/model"
	"github.com/promptgate/promptgate-go/internal/service"
)

// GenerateHandler handles HTTP requests for text generation.
type GenerateHandler struct {
	service *service.GenerateService
}

// NewGenerateHandler creates a new GenerateHandler.
func NewGenerateHandler(svc *service.GenerateService) *GenerateHandler {
	return &GenerateHandler{service: svc}
}

// HandleGenerate handles POST /api/v1/generate requests.
func (h *GenerateHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req model.GenerateRequest
	if status, err := decodeBody(w, r, &req); err != nil {
		writeError(w, status, "Prompt is required.", err)
		return
	}

	text, err := h.service.Generate(r.Context(), claims.UserID, req.Prompt)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPromptRequired):
			writeMessage(w, http.StatusBadRequest, "Prompt is required.")
		case errors.Is(err, service.ErrQuotaUpdateFailed):
			writeError(w, http.StatusInternalServerError, "Error decrementing API calls.", err)
		default:
			writeError(w, http.StatusInternalServerError, "Error generating text.", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, model.GenerateResponse{GeneratedText: text})
}

package lead

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	leadsvc "github.com/salaryrep/backend/internal/service/lead"
	"github.com/salaryrep/backend/pkg/utils"
)

// Handler captures leads for the email gate.
type Handler struct {
	leads *leadsvc.Service
}

// New creates the lead handler.
func New(leads *leadsvc.Service) *Handler {
	return &Handler{leads: leads}
}

// RegisterRoutes mounts the lead route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/leads", h.handleCapture)
}

func (h *Handler) handleCapture(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.leads.Capture(r.Context(), payload.Name, payload.Email); err != nil {
		if errors.Is(err, leadsvc.ErrNameRequired) || errors.Is(err, leadsvc.ErrEmailInvalid) {
			utils.RespondError(w, http.StatusBadRequest, "Name and valid email are required")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "Failed to save lead")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

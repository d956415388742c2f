package session

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/salaryrep/backend/internal/model/scenario"
	negotiationsvc "github.com/salaryrep/backend/internal/service/negotiation"
	"github.com/salaryrep/backend/pkg/utils"
)

// Handler serves the conversation session lifecycle short of streaming.
type Handler struct {
	sessions *negotiationsvc.Service
}

// New creates the session handler.
func New(sessions *negotiationsvc.Service) *Handler {
	return &Handler{sessions: sessions}
}

// RegisterRoutes mounts the session routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/sessions", h.handleCreate)
	r.Get("/sessions/{sessionID}", h.handleGet)
	r.Post("/sessions/{sessionID}/end", h.handleEnd)
	r.Delete("/sessions/{sessionID}", h.handleDiscard)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload scenario.Descriptor
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.sessions.Create(r.Context(), payload)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.sessions.Get(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, snapshot)
}

func (h *Handler) handleEnd(w http.ResponseWriter, r *http.Request) {
	transcript, err := h.sessions.End(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		utils.RespondError(w, endStatus(err), err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"turns": transcript})
}

func (h *Handler) handleDiscard(w http.ResponseWriter, r *http.Request) {
	h.sessions.Discard(r.Context(), chi.URLParam(r, "sessionID"))
	w.WriteHeader(http.StatusNoContent)
}

func endStatus(err error) int {
	switch {
	case errors.Is(err, negotiationsvc.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, negotiationsvc.ErrSessionEnded),
		errors.Is(err, negotiationsvc.ErrSessionBusy),
		errors.Is(err, negotiationsvc.ErrTooFewTurns):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

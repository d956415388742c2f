package feedback

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/salaryrep/backend/internal/gate"
	feedbacksvc "github.com/salaryrep/backend/internal/service/feedback"
	negotiationsvc "github.com/salaryrep/backend/internal/service/negotiation"
	"github.com/salaryrep/backend/pkg/utils"
)

// Handler runs the post-session evaluation and records the completed session.
type Handler struct {
	sessions  *negotiationsvc.Service
	evaluator *feedbacksvc.Service
	gate      *gate.Gate
	logger    *zap.Logger
}

// New creates the feedback handler.
func New(sessions *negotiationsvc.Service, evaluator *feedbacksvc.Service, g *gate.Gate, logger *zap.Logger) *Handler {
	return &Handler{sessions: sessions, evaluator: evaluator, gate: g, logger: logger}
}

// RegisterRoutes mounts the feedback route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/sessions/{sessionID}/feedback", h.handleEvaluate)
}

func (h *Handler) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	snapshot, err := h.sessions.Get(r.Context(), sessionID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}
	if !snapshot.Ended {
		utils.RespondError(w, http.StatusConflict, "session must be ended before requesting feedback")
		return
	}

	result, err := h.evaluator.Evaluate(r.Context(), sessionID, snapshot.Scenario, snapshot.Turns)
	if err != nil {
		utils.RespondError(w, evaluateStatus(err), err.Error())
		return
	}

	// The free-tier counter moves here and nowhere else: one completed
	// feedback per session. Abandoned chats never reach this point.
	if err := h.gate.RecordCompletion(sessionID); err != nil {
		h.logger.Warn("failed to record completed session",
			zap.String("session", sessionID),
			zap.Error(err))
	}

	utils.RespondJSON(w, http.StatusOK, result)
}

func evaluateStatus(err error) int {
	switch {
	case errors.Is(err, feedbacksvc.ErrEvaluationInFlight):
		return http.StatusConflict
	case errors.Is(err, feedbacksvc.ErrGeneratorUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, feedbacksvc.ErrGenerationFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

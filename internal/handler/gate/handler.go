package gate

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/salaryrep/backend/internal/gate"
	"github.com/salaryrep/backend/pkg/utils"
)

// Handler exposes the session gate so the client can route its views.
type Handler struct {
	gate *gate.Gate
}

// New creates the gate handler.
func New(g *gate.Gate) *Handler {
	return &Handler{gate: g}
}

// RegisterRoutes mounts the gate routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/gate", h.handleState)
	r.Post("/gate/upgrade", h.handleUpgrade)
}

type stateResponse struct {
	gate.State
	View string `json:"view"`
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	// The entry view is recomputed from persisted state on every read, so a
	// reload with no captured contact always lands on email capture.
	router := gate.NewRouter(h.gate)
	utils.RespondJSON(w, http.StatusOK, stateResponse{
		State: h.gate.State(),
		View:  router.Current().ViewName(),
	})
}

func (h *Handler) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	utils.RespondError(w, http.StatusNotImplemented, gate.ErrUpgradeUnavailable.Error())
}

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	gatePkg "github.com/salaryrep/backend/internal/gate"
	feedbackHandler "github.com/salaryrep/backend/internal/handler/feedback"
	gateHandler "github.com/salaryrep/backend/internal/handler/gate"
	leadHandler "github.com/salaryrep/backend/internal/handler/lead"
	personaHandler "github.com/salaryrep/backend/internal/handler/persona"
	sessionHandler "github.com/salaryrep/backend/internal/handler/session"
	streamHandler "github.com/salaryrep/backend/internal/handler/stream"
	wsHandler "github.com/salaryrep/backend/internal/handler/ws"
	middlewarePkg "github.com/salaryrep/backend/internal/middleware"
	personaModel "github.com/salaryrep/backend/internal/model/persona"
	feedbackService "github.com/salaryrep/backend/internal/service/feedback"
	leadService "github.com/salaryrep/backend/internal/service/lead"
	negotiationService "github.com/salaryrep/backend/internal/service/negotiation"
	"github.com/salaryrep/backend/pkg/utils"
)

// Deps carries everything the router needs.
type Deps struct {
	Personas  personaModel.Store
	Sessions  *negotiationService.Service
	Evaluator *feedbackService.Service
	Leads     *leadService.Service
	Gate      *gatePkg.Gate
	Streaming bool // whether a chat model is wired up at all
	Logger    *zap.Logger
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	personas := personaHandler.New(deps.Personas)
	sessions := sessionHandler.New(deps.Sessions)
	feedback := feedbackHandler.New(deps.Sessions, deps.Evaluator, deps.Gate, deps.Logger)
	leads := leadHandler.New(deps.Leads)
	gates := gateHandler.New(deps.Gate)
	stream := streamHandler.New(deps.Sessions, deps.Logger)
	sockets := wsHandler.New(deps.Sessions, deps.Logger)

	r.Route("/api", func(api chi.Router) {
		personas.RegisterRoutes(api)
		sessions.RegisterRoutes(api)
		feedback.RegisterRoutes(api)
		leads.RegisterRoutes(api)
		gates.RegisterRoutes(api)

		api.Get("/stream/{sessionID}", func(w http.ResponseWriter, r *http.Request) {
			sessionID := chi.URLParam(r, "sessionID")
			userMessage := r.URL.Query().Get("message")

			if !deps.Streaming {
				utils.RespondError(w, http.StatusServiceUnavailable, "counterpart generation unavailable")
				return
			}
			if userMessage == "" {
				utils.RespondError(w, http.StatusBadRequest, "message query parameter is required")
				return
			}

			if err := stream.HandleStreamRequest(r.Context(), w, sessionID, userMessage); err != nil {
				deps.Logger.Warn("stream request failed",
					zap.String("session", sessionID),
					zap.Error(err))
			}
		})

		if deps.Streaming {
			sockets.RegisterRoutes(api)
		}
	})

	return r
}

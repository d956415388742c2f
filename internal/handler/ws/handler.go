package ws

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	negotiationsvc "github.com/salaryrep/backend/internal/service/negotiation"
)

// Handler carries the chat exchange over a websocket for clients that prefer
// a duplex channel to SSE. The event vocabulary matches the SSE stream.
type Handler struct {
	sessions *negotiationsvc.Service
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// New creates a websocket chat handler.
func New(sessions *negotiationsvc.Service, logger *zap.Logger) *Handler {
	return &Handler{
		sessions: sessions,
		logger:   logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the websocket route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/sessions/{sessionID}", h.handleWebSocket)
}

type inboundFrame struct {
	Message string `json:"message"`
}

type outboundFrame struct {
	Event     string `json:"event"`
	Content   string `json:"content,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
	Finished  bool   `json:"finished,omitempty"`
	Error     string `json:"error,omitempty"`
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	// Gone sessions end the connection up front rather than on first send.
	if _, err := h.sessions.Get(r.Context(), sessionID); err != nil {
		h.writeFrame(conn, outboundFrame{Event: "error", SessionID: sessionID, Error: err.Error()})
		return
	}

	for {
		var frame inboundFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read failed",
					zap.String("session", sessionID),
					zap.Error(err))
			}
			return
		}

		h.writeFrame(conn, outboundFrame{Event: "start", SessionID: sessionID})

		turn, err := h.sessions.Submit(r.Context(), sessionID, frame.Message, func(delta string) {
			h.writeFrame(conn, outboundFrame{
				Event:     "delta",
				SessionID: sessionID,
				Content:   delta,
			})
		})
		if err != nil {
			h.writeFrame(conn, outboundFrame{
				Event:     "error",
				SessionID: sessionID,
				Error:     err.Error(),
			})
			continue
		}

		h.writeFrame(conn, outboundFrame{
			Event:     "message",
			SessionID: sessionID,
			Content:   turn.Text,
		})
		h.writeFrame(conn, outboundFrame{
			Event:     "end",
			SessionID: sessionID,
			Finished:  true,
		})
	}
}

func (h *Handler) writeFrame(conn *websocket.Conn, frame outboundFrame) {
	data, err := json.Marshal(frame)
	if err != nil {
		h.logger.Warn("failed to marshal websocket frame", zap.Error(err))
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		h.logger.Warn("failed to write websocket frame", zap.Error(err))
	}
}

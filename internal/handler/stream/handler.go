package stream

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	negotiationsvc "github.com/salaryrep/backend/internal/service/negotiation"
	"github.com/salaryrep/backend/pkg/utils"
)

// Handler streams counterpart replies over Server-Sent Events.
type Handler struct {
	sessions *negotiationsvc.Service
	logger   *zap.Logger
}

// New creates a stream handler.
func New(sessions *negotiationsvc.Service, logger *zap.Logger) *Handler {
	return &Handler{sessions: sessions, logger: logger}
}

// StreamResponse is one SSE frame.
type StreamResponse struct {
	Event     string `json:"event"`
	Content   string `json:"content,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
	Finished  bool   `json:"finished,omitempty"`
	Error     string `json:"error,omitempty"`
}

// HandleStreamRequest submits one candidate turn and streams the reply:
// start, delta fragments in arrival order, the assembled message, then end.
// Failures surface as an error frame; the candidate turn stays recorded so
// the client can retry.
func (h *Handler) HandleStreamRequest(ctx context.Context, w http.ResponseWriter, sessionID, userMessage string) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return errors.New("streaming unsupported")
	}

	utils.SetupSSEHeaders(w)

	h.sendSSE(w, flusher, StreamResponse{
		Event:     "start",
		SessionID: sessionID,
	})

	turn, err := h.sessions.Submit(ctx, sessionID, userMessage, func(delta string) {
		h.sendSSE(w, flusher, StreamResponse{
			Event:     "delta",
			SessionID: sessionID,
			Content:   delta,
		})
	})
	if err != nil {
		h.sendSSE(w, flusher, StreamResponse{
			Event:     "error",
			SessionID: sessionID,
			Error:     err.Error(),
		})
		return err
	}

	h.sendSSE(w, flusher, StreamResponse{
		Event:     "message",
		SessionID: sessionID,
		Content:   turn.Text,
	})
	h.sendSSE(w, flusher, StreamResponse{
		Event:     "end",
		SessionID: sessionID,
		Finished:  true,
	})

	h.logger.Debug("stream completed", zap.String("session", sessionID))
	return nil
}

func (h *Handler) sendSSE(w http.ResponseWriter, flusher http.Flusher, response StreamResponse) {
	utils.SendSSEChunk(w, flusher, response)
}

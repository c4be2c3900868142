package stream

import (
	"context"
	"fmt"
	"log"
	"net/http"

	chatHandler "github.com/zhouzirui/z-counsel/backend/internal/handler/chat"
	chatService "github.com/zhouzirui/z-counsel/backend/internal/service/chat"
	"github.com/zhouzirui/z-counsel/backend/pkg/utils"
)

// Handler delivers the events of one message via Server-Sent Events
type Handler struct {
	chatSvc *chatService.Service
}

// New creates a new stream handler
func New(chatSvc *chatService.Service) *Handler {
	return &Handler{chatSvc: chatSvc}
}

// StreamResponse frames the start, end and error of a stream
type StreamResponse struct {
	Event     string `json:"event"`
	SessionID string `json:"sessionId,omitempty"`
	Finished  bool   `json:"finished,omitempty"`
	Error     string `json:"error,omitempty"`
}

// ServeHTTP handles GET /stream/{sessionID}?message=
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request, sessionID string) {
	message := r.URL.Query().Get("message")
	if message == "" {
		utils.RespondError(w, http.StatusBadRequest, "message query parameter is required")
		return
	}
	if _, err := h.chatSvc.GetSession(r.Context(), sessionID); err != nil {
		chatHandler.RespondServiceError(w, err)
		return
	}

	if err := h.HandleStreamRequest(r.Context(), w, sessionID, message); err != nil {
		log.Printf("[stream] error handling request: %v", err)
	}
}

// HandleStreamRequest runs the message through the session and streams every
// resulting event as `event: <type>`.
func (h *Handler) HandleStreamRequest(ctx context.Context, w http.ResponseWriter, sessionID string, userMessage string) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return fmt.Errorf("streaming unsupported")
	}

	utils.SetupSSEHeaders(w)
	if err := utils.SendSSEChunk(w, flusher, StreamResponse{Event: "start", SessionID: sessionID}); err != nil {
		return err
	}

	events, err := h.chatSvc.SendMessage(ctx, sessionID, userMessage)
	if err != nil {
		utils.SendSSEChunk(w, flusher, StreamResponse{Event: "error", SessionID: sessionID, Error: err.Error()})
		return err
	}

	for i, e := range events {
		if err := utils.SendSSEEvent(w, flusher, i+1, string(e.Type), e); err != nil {
			return err
		}
	}

	if err := utils.SendSSEChunk(w, flusher, StreamResponse{Event: "end", SessionID: sessionID, Finished: true}); err != nil {
		return err
	}
	log.Printf("[stream] completed %d events for session=%s", len(events), sessionID)
	return nil
}

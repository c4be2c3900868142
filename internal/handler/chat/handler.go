package chat

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/z-counsel/backend/internal/model/chat"
	chatService "github.com/zhouzirui/z-counsel/backend/internal/service/chat"
	"github.com/zhouzirui/z-counsel/backend/internal/service/dialogue"
	"github.com/zhouzirui/z-counsel/backend/pkg/utils"
)

// Handler 咨询会话的HTTP处理器
type Handler struct {
	chatSvc *chatService.Service
}

// New 创建聊天处理器
func New(chatSvc *chatService.Service) *Handler {
	return &Handler{chatSvc: chatSvc}
}

// RegisterRoutes 注册聊天相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/session", h.handleCreateSession)
	r.Route("/session/{sessionID}", func(s chi.Router) {
		s.Get("/", h.handleGetSession)
		s.Delete("/", h.handleEndSession)
		s.Post("/mode", h.handleSelectMode)
		s.Post("/messages", h.handleSendMessage)
		s.Post("/ratings", h.handleSubmitRating)
		s.Post("/analysis", h.handleAnalysis)
	})
}

// EventsResponse is the body of every endpoint that produces renderer events.
type EventsResponse struct {
	Events  []chat.Event   `json:"events"`
	Session *chat.Snapshot `json:"session,omitempty"`
}

// StatusFor maps service errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, chatService.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, dialogue.ErrSessionEnded):
		return http.StatusGone
	case errors.Is(err, chatService.ErrSessionBusy), errors.Is(err, dialogue.ErrNotInAssessment):
		return http.StatusConflict
	case errors.Is(err, dialogue.ErrInvalidMode), errors.Is(err, dialogue.ErrInvalidRating),
		errors.Is(err, dialogue.ErrEmptyMessage):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// RespondServiceError writes err with the status from StatusFor.
func RespondServiceError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("[chat] request failed: %v", err)
	}
	utils.RespondError(w, status, err.Error())
}

// handleCreateSession 创建会话
func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	snap, events, err := h.chatSvc.CreateSession(r.Context())
	if err != nil {
		RespondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, EventsResponse{Events: events, Session: &snap})
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	snap, err := h.chatSvc.GetSession(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		RespondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, snap)
}

func (h *Handler) handleSelectMode(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Mode string `json:"mode"`
	}
	if err := utils.DecodeJSON(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	id := chi.URLParam(r, "sessionID")
	events, err := h.chatSvc.SelectMode(r.Context(), id, chat.Mode(payload.Mode))
	h.respondEvents(w, r, id, events, err)
}

// handleSendMessage 处理用户消息
func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Content string `json:"content"`
	}
	if err := utils.DecodeJSON(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	id := chi.URLParam(r, "sessionID")
	events, err := h.chatSvc.SendMessage(r.Context(), id, payload.Content)
	h.respondEvents(w, r, id, events, err)
}

func (h *Handler) handleSubmitRating(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Score *int `json:"score"`
	}
	if err := utils.DecodeJSON(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if payload.Score == nil {
		utils.RespondError(w, http.StatusBadRequest, "score is required")
		return
	}

	id := chi.URLParam(r, "sessionID")
	events, err := h.chatSvc.SubmitRating(r.Context(), id, *payload.Score)
	h.respondEvents(w, r, id, events, err)
}

func (h *Handler) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	events, err := h.chatSvc.RequestAnalysis(r.Context(), id)
	h.respondEvents(w, r, id, events, err)
}

func (h *Handler) handleEndSession(w http.ResponseWriter, r *http.Request) {
	events, err := h.chatSvc.EndSession(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		RespondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, EventsResponse{Events: events})
}

// respondEvents attaches a fresh snapshot unless the call ended the session.
func (h *Handler) respondEvents(w http.ResponseWriter, r *http.Request, id string, events []chat.Event, err error) {
	if err != nil {
		RespondServiceError(w, err)
		return
	}
	resp := EventsResponse{Events: events}
	if snap, err := h.chatSvc.GetSession(r.Context(), id); err == nil {
		resp.Session = &snap
	}
	utils.RespondJSON(w, http.StatusOK, resp)
}

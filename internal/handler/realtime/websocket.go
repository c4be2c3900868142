package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	chatHandler "github.com/zhouzirui/z-counsel/backend/internal/handler/chat"
	"github.com/zhouzirui/z-counsel/backend/internal/model/chat"
	chatservice "github.com/zhouzirui/z-counsel/backend/internal/service/chat"
)

const (
	readTimeout  = 60 * time.Second
	pingInterval = 54 * time.Second
)

// Inbound message types.
const (
	TypeMessage  = "message"
	TypeRating   = "rating"
	TypeMode     = "mode"
	TypeAnalysis = "analysis"
	TypeEnd      = "end"
)

// WebSocketHandler 会话的双向WebSocket通道
type WebSocketHandler struct {
	chatSvc  *chatservice.Service
	upgrader websocket.Upgrader
}

// NewWebSocketHandler 创建WebSocket处理器
func NewWebSocketHandler(chatSvc *chatservice.Service) *WebSocketHandler {
	return &WebSocketHandler{
		chatSvc: chatSvc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterWebSocketRoutes 注册WebSocket路由
func (h *WebSocketHandler) RegisterWebSocketRoutes(r chi.Router) {
	r.Get("/ws/{sessionID}", h.handleWebSocket)
}

type inboundMessage struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId"`
	Data      json.RawMessage `json:"data"`
}

// TextMessage 文本消息
type TextMessage struct {
	Text string `json:"text"`
}

// RatingMessage answers the current assessment question.
type RatingMessage struct {
	Score *int `json:"score"`
}

// ModeMessage selects the counseling mode.
type ModeMessage struct {
	Mode string `json:"mode"`
}

type outgoingMessage struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// conn serialises writes; gorilla allows one concurrent writer.
type conn struct {
	*websocket.Conn
	sessionID string
	mu        sync.Mutex
}

func (c *conn) send(msgType string, data interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.WriteJSON(outgoingMessage{
		Type:      msgType,
		SessionID: c.sessionID,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	})
}

func (c *conn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.WriteMessage(websocket.PingMessage, nil)
}

// handleWebSocket 处理WebSocket连接
func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	snap, err := h.chatSvc.GetSession(r.Context(), sessionID)
	if err != nil {
		chatHandler.RespondServiceError(w, err)
		return
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[websocket] upgrade failed: %v", err)
		return
	}
	c := &conn{Conn: ws, sessionID: sessionID}
	defer c.Close()

	log.Printf("[websocket] new connection for session: %s", sessionID)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	c.SetReadDeadline(time.Now().Add(readTimeout))
	c.SetPongHandler(func(string) error {
		c.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	go pingLoop(ctx, c)

	c.send("connected", snap)

	for {
		var msg inboundMessage
		if err := c.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[websocket] read error: %v", err)
			}
			return
		}
		c.SetReadDeadline(time.Now().Add(readTimeout))

		if msg.SessionID != "" && msg.SessionID != sessionID {
			c.send("error", map[string]string{"message": "session mismatch"})
			continue
		}

		if ended := h.handleMessage(ctx, c, &msg); ended {
			c.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session ended"),
				time.Now().Add(time.Second))
			return
		}
	}
}

// handleMessage dispatches one inbound message and reports whether the
// session ended.
func (h *WebSocketHandler) handleMessage(ctx context.Context, c *conn, msg *inboundMessage) bool {
	events, err := h.dispatch(ctx, c.sessionID, msg)
	if err != nil {
		status := chatHandler.StatusFor(err)
		var bad *badRequestError
		if errors.As(err, &bad) {
			status = http.StatusBadRequest
		}
		c.send("error", map[string]any{"message": err.Error(), "status": status})
		return status == http.StatusGone
	}

	ended := false
	for _, e := range events {
		if err := c.send(string(e.Type), e); err != nil {
			log.Printf("[websocket] write failed for session %s: %v", c.sessionID, err)
			return true
		}
		if e.Type == chat.EventSessionEnded {
			ended = true
		}
	}
	return ended
}

func (h *WebSocketHandler) dispatch(ctx context.Context, sessionID string, msg *inboundMessage) ([]chat.Event, error) {
	switch msg.Type {
	case TypeMessage:
		var text TextMessage
		if err := decode(msg.Data, &text); err != nil {
			return nil, err
		}
		return h.chatSvc.SendMessage(ctx, sessionID, text.Text)
	case TypeRating:
		var rating RatingMessage
		if err := decode(msg.Data, &rating); err != nil {
			return nil, err
		}
		if rating.Score == nil {
			return nil, &badRequestError{"score is required"}
		}
		return h.chatSvc.SubmitRating(ctx, sessionID, *rating.Score)
	case TypeMode:
		var mode ModeMessage
		if err := decode(msg.Data, &mode); err != nil {
			return nil, err
		}
		return h.chatSvc.SelectMode(ctx, sessionID, chat.Mode(mode.Mode))
	case TypeAnalysis:
		return h.chatSvc.RequestAnalysis(ctx, sessionID)
	case TypeEnd:
		return h.chatSvc.EndSession(ctx, sessionID)
	default:
		return nil, &badRequestError{"unknown message type: " + msg.Type}
	}
}

type badRequestError struct{ msg string }

func (e *badRequestError) Error() string { return e.msg }

func decode(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return &badRequestError{"invalid message data"}
	}
	return nil
}

// pingLoop 定期发送ping消息
func pingLoop(ctx context.Context, c *conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.ping(); err != nil {
				return
			}
		}
	}
}

package realtime

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	chatservice "github.com/zhouzirui/z-counsel/backend/internal/service/chat"
)

type received struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

func setup(t *testing.T) (*httptest.Server, *chatservice.Service) {
	t.Helper()
	chatSvc := chatservice.NewService(nil)
	r := chi.NewRouter()
	NewWebSocketHandler(chatSvc).RegisterWebSocketRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, chatSvc
}

func dial(t *testing.T, srv *httptest.Server, sessionID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/" + sessionID
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { ws.Close() })
	ws.SetReadDeadline(time.Now().Add(5 * time.Second))
	return ws
}

// readUntil collects frames until one of type stop arrives.
func readUntil(t *testing.T, ws *websocket.Conn, stop string) []received {
	t.Helper()
	var out []received
	for {
		var msg received
		if err := ws.ReadJSON(&msg); err != nil {
			t.Fatalf("read: %v (got %+v)", err, out)
		}
		out = append(out, msg)
		if msg.Type == stop {
			return out
		}
	}
}

func types(msgs []received) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Type
	}
	return out
}

func TestWebSocketConversation(t *testing.T) {
	srv, chatSvc := setup(t)
	snap, _, _ := chatSvc.CreateSession(context.Background())
	ws := dial(t, srv, snap.SessionID)

	readUntil(t, ws, "connected")

	ws.WriteJSON(map[string]any{"type": "mode", "data": map[string]string{"mode": "conversation"}})
	readUntil(t, ws, "bot_message")

	ws.WriteJSON(map[string]any{"type": "message", "data": map[string]string{"text": "자해하고 싶어요"}})
	got := types(readUntil(t, ws, "bot_message"))
	if len(got) < 3 || got[0] != "user_echo" || got[1] != "crisis_alert" {
		t.Fatalf("unexpected frame order %v", got)
	}

	ws.WriteJSON(map[string]any{"type": "rating", "data": map[string]int{"score": 2}})
	errs := readUntil(t, ws, "error")
	if status := errs[len(errs)-1].Data["status"]; status != float64(409) {
		t.Fatalf("expected 409 for rating outside assessment, got %v", status)
	}

	ws.WriteJSON(map[string]any{"type": "end"})
	readUntil(t, ws, "session_ended")
	if _, _, err := ws.ReadMessage(); !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Fatalf("expected normal close after end, got %v", err)
	}
}

func TestWebSocketRejectsUnknownType(t *testing.T) {
	srv, chatSvc := setup(t)
	snap, _, _ := chatSvc.CreateSession(context.Background())
	ws := dial(t, srv, snap.SessionID)
	readUntil(t, ws, "connected")

	ws.WriteJSON(map[string]any{"type": "audio"})
	errs := readUntil(t, ws, "error")
	if status := errs[len(errs)-1].Data["status"]; status != float64(400) {
		t.Fatalf("expected 400, got %v", status)
	}
}

func TestWebSocketUnknownSession(t *testing.T) {
	srv, _ := setup(t)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/missing"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("expected handshake failure")
	}
	if resp == nil || resp.StatusCode != 404 {
		t.Fatalf("expected 404, got %+v", resp)
	}
}

package chat

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/z-counsel/backend/internal/model/chat"
	chatservice "github.com/zhouzirui/z-counsel/backend/internal/service/chat"
)

func setupRouter() (*chi.Mux, *chatservice.Service) {
	chatSvc := chatservice.NewService(nil)
	handler := New(chatSvc)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, chatSvc
}

func do(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func decodeEvents(t *testing.T, resp *httptest.ResponseRecorder) EventsResponse {
	t.Helper()
	var out EventsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func createSession(t *testing.T, r http.Handler) string {
	t.Helper()
	resp := do(t, r, http.MethodPost, "/session", nil)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}
	out := decodeEvents(t, resp)
	if out.Session == nil || len(out.Events) != 2 {
		t.Fatalf("expected snapshot and greeting, got %+v", out)
	}
	return out.Session.SessionID
}

func TestCreateSession(t *testing.T) {
	r, svc := setupRouter()
	createSession(t, r)
	if svc.Count() != 1 {
		t.Fatalf("expected one live session, got %d", svc.Count())
	}
}

func TestAssessmentOverHTTP(t *testing.T) {
	r, _ := setupRouter()
	id := createSession(t, r)

	if resp := do(t, r, http.MethodPost, "/session/"+id+"/mode", map[string]string{"mode": "assessment"}); resp.Code != http.StatusOK {
		t.Fatalf("mode: expected 200, got %d", resp.Code)
	}
	resp := do(t, r, http.MethodPost, "/session/"+id+"/messages", map[string]string{"content": "불안하고 걱정이 많아요"})
	out := decodeEvents(t, resp)
	if out.Session == nil || out.Session.Phase != chat.PhaseAssessment || out.Session.QuestionTotal != 7 {
		t.Fatalf("expected GAD-7 in progress, got %+v", out.Session)
	}

	var last EventsResponse
	for i := 0; i < 7; i++ {
		resp := do(t, r, http.MethodPost, "/session/"+id+"/ratings", map[string]int{"score": 3})
		if resp.Code != http.StatusOK {
			t.Fatalf("rating %d: expected 200, got %d", i, resp.Code)
		}
		last = decodeEvents(t, resp)
	}
	var summary *chat.Summary
	for _, e := range last.Events {
		if e.Type == chat.EventAssessmentSummary {
			summary = e.Summary
		}
	}
	if summary == nil || summary.Score != 21 {
		t.Fatalf("expected summary with 21 points, got %+v", summary)
	}
}

func TestErrorStatuses(t *testing.T) {
	r, _ := setupRouter()
	id := createSession(t, r)

	cases := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"unknown session", http.MethodGet, "/session/missing", nil, http.StatusNotFound},
		{"bad mode", http.MethodPost, "/session/" + id + "/mode", map[string]string{"mode": "chat"}, http.StatusBadRequest},
		{"empty message", http.MethodPost, "/session/" + id + "/messages", map[string]string{"content": "  "}, http.StatusBadRequest},
		{"missing score", http.MethodPost, "/session/" + id + "/ratings", map[string]string{}, http.StatusBadRequest},
		{"rating outside assessment", http.MethodPost, "/session/" + id + "/ratings", map[string]int{"score": 1}, http.StatusConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if resp := do(t, r, tc.method, tc.path, tc.body); resp.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, resp.Code)
			}
		})
	}
}

func TestEndSession(t *testing.T) {
	r, _ := setupRouter()
	id := createSession(t, r)
	do(t, r, http.MethodPost, "/session/"+id+"/messages", map[string]string{"content": "오늘 회사에서 힘들었어요"})

	resp := do(t, r, http.MethodDelete, "/session/"+id, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	out := decodeEvents(t, resp)
	if out.Events[len(out.Events)-1].Type != chat.EventSessionEnded {
		t.Fatalf("expected session_ended last, got %+v", out.Events)
	}

	if resp := do(t, r, http.MethodGet, "/session/"+id, nil); resp.Code != http.StatusGone {
		t.Fatalf("expected 410 after end, got %d", resp.Code)
	}
}

func TestEndTokenOmitsSnapshot(t *testing.T) {
	r, _ := setupRouter()
	id := createSession(t, r)

	resp := do(t, r, http.MethodPost, "/session/"+id+"/messages", map[string]string{"content": "종료"})
	out := decodeEvents(t, resp)
	if out.Session != nil {
		t.Fatalf("expected no snapshot for an ended session, got %+v", out.Session)
	}
}

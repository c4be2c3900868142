package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/zhouzirui/z-counsel/backend/internal/middleware"
)

func TestCORSPreflight(t *testing.T) {
	called := false
	h := middleware.CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/session", nil))

	if rec.Code != http.StatusNoContent || called {
		t.Fatalf("expected short-circuited preflight, got %d called=%v", rec.Code, called)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatal("expected allow-origin header")
	}
}

func TestCORSPassesThrough(t *testing.T) {
	h := middleware.CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/instruments", nil))
	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected wrapped handler to run, got %d", rec.Code)
	}
}

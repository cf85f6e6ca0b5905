package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCORSPreflight(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("preflight must not reach the inner handler")
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodOptions, "/functions/v1/analyze-message", nil)
	CORS(inner).ServeHTTP(w, r)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing allow-origin header")
	}
	if w.Header().Get("Access-Control-Allow-Headers") == "" {
		t.Error("missing allow-headers header")
	}
}

func TestCORSPassesThrough(t *testing.T) {
	called := false
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/functions/v1/analyze-message", nil)
	CORS(inner).ServeHTTP(w, r)

	if !called {
		t.Fatal("inner handler not called")
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("non-preflight responses must carry CORS headers too")
	}
}

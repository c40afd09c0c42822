package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiterRejectsOverLimit(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	var hits int
	handler := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusNoContent)
	}), rl.Middleware())

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/weeks/current", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 2; i++ {
		if code := send("10.0.0.1:40001"); code != http.StatusNoContent {
			t.Fatalf("request %d: status = %d, want 204", i+1, code)
		}
	}
	if code := send("10.0.0.1:40001"); code != http.StatusTooManyRequests {
		t.Fatalf("over-limit status = %d, want 429", code)
	}
	if hits != 2 {
		t.Fatalf("handler ran %d times, want 2", hits)
	}

	// A different client has its own window.
	if code := send("10.0.0.2:40001"); code != http.StatusNoContent {
		t.Fatalf("second client status = %d, want 204", code)
	}
}

func TestRateLimiterKeysByForwardedFor(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	handler := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}), rl.Middleware())

	send := func(forwarded string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "127.0.0.1:40001"
		req.Header.Set("X-Forwarded-For", forwarded)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := send("203.0.113.7"); code != http.StatusNoContent {
		t.Fatalf("first request status = %d, want 204", code)
	}
	if code := send("203.0.113.7, 10.0.0.1"); code != http.StatusTooManyRequests {
		t.Fatalf("same forwarded client status = %d, want 429", code)
	}
	if code := send("203.0.113.8"); code != http.StatusNoContent {
		t.Fatalf("other forwarded client status = %d, want 204", code)
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiter_LimitsPerClient(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	handler := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
		req.RemoteAddr = ip + ":1234"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	for i := range 2 {
		if code := send("10.0.0.1"); code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, code)
		}
	}
	if code := send("10.0.0.1"); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after burst, got %d", code)
	}
	if code := send("10.0.0.2"); code != http.StatusOK {
		t.Fatalf("expected other client to pass, got %d", code)
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:5555"
	if got := clientIP(req); got != "192.0.2.1" {
		t.Fatalf("expected remote host, got %s", got)
	}

	req.Header.Set("X-Real-IP", "198.51.100.7")
	if got := clientIP(req); got != "198.51.100.7" {
		t.Fatalf("expected X-Real-IP, got %s", got)
	}

	req.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")
	if got := clientIP(req); got != "203.0.113.5" {
		t.Fatalf("expected first forwarded address, got %s", got)
	}
}

func TestRateLimiter_CleanupLimiters(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, 1)
	rl.now = func() time.Time { return now }

	rl.getLimiter("a")
	now = now.Add(2 * time.Hour)
	rl.getLimiter("b")

	if removed := rl.CleanupLimiters(time.Hour); removed != 1 {
		t.Fatalf("expected 1 idle limiter removed, got %d", removed)
	}
	if _, ok := rl.visitors["b"]; !ok {
		t.Fatalf("expected recent limiter to be kept")
	}
}

package ratelimit_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/orderdesk/backoffice/pkg/ratelimit"
)

func TestMemoryLimiter_Window(t *testing.T) {
	l := ratelimit.NewMemory(3, 100*time.Millisecond)
	defer l.Close()

	for i := 0; i < 3; i++ {
		if !l.TryAcquire("k") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if l.TryAcquire("k") {
		t.Error("4th request in the window should be rejected")
	}

	// A different key has its own window.
	if !l.TryAcquire("other") {
		t.Error("fresh key should be allowed")
	}

	// After the window resets the key is allowed again.
	time.Sleep(150 * time.Millisecond)
	if !l.TryAcquire("k") {
		t.Error("request after window reset should be allowed")
	}
}

func TestMiddleware(t *testing.T) {
	l := ratelimit.NewMemory(2, time.Minute)
	defer l.Close()

	h := ratelimit.Middleware(l, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	hit := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := hit("10.0.0.1:1234"); code != http.StatusOK {
		t.Errorf("1st request: got %d", code)
	}
	if code := hit("10.0.0.1:1234"); code != http.StatusOK {
		t.Errorf("2nd request: got %d", code)
	}
	if code := hit("10.0.0.1:1234"); code != http.StatusTooManyRequests {
		t.Errorf("3rd request: got %d, want 429", code)
	}

	// Another client is unaffected.
	if code := hit("10.0.0.2:1234"); code != http.StatusOK {
		t.Errorf("other client: got %d", code)
	}
}

func TestMiddleware_ForwardedFor(t *testing.T) {
	l := ratelimit.NewMemory(1, time.Minute)
	defer l.Close()

	h := ratelimit.Middleware(l, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	hit := func(fwd string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.Header.Set("X-Forwarded-For", fwd)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := hit("1.2.3.4"); code != http.StatusOK {
		t.Errorf("1st request: got %d", code)
	}
	if code := hit("1.2.3.4"); code != http.StatusTooManyRequests {
		t.Errorf("2nd request behind proxy: got %d, want 429", code)
	}
	if code := hit("5.6.7.8"); code != http.StatusOK {
		t.Errorf("different forwarded address: got %d", code)
	}
}

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"
)

type mockLimiter struct {
	allow bool
	retry time.Duration
	err   error
}

func (m mockLimiter) Allow(context.Context, string, int, time.Duration) (Decision, error) {
	return Decision{
		Allowed:    m.allow,
		RetryAfter: m.retry,
		Remaining:  0,
		ResetAt:    time.Now().Add(m.retry),
	}, m.err
}

type recordingLimiter struct {
	lastKey string
}

func (r *recordingLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (Decision, error) {
	r.lastKey = key
	return Decision{Allowed: true, Remaining: limit - 1, ResetAt: time.Now().Add(window)}, nil
}

func serveThroughLimiter(rl *RateLimiter, remoteAddr string) *httptest.ResponseRecorder {
	h := rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.RemoteAddr = remoteAddr
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestDistributedRateLimiterFailOpenOnBackendError(t *testing.T) {
	rl := NewDistributedRateLimiter(mockLimiter{err: errors.New("redis down")}, 10, time.Minute, FailOpen, "api")
	if rr := serveThroughLimiter(rl, "10.0.0.1:1111"); rr.Code != http.StatusOK {
		t.Fatalf("expected fail-open to allow request, got %d", rr.Code)
	}
}

func TestDistributedRateLimiterFailClosedOnBackendError(t *testing.T) {
	rl := NewDistributedRateLimiter(mockLimiter{err: errors.New("redis down")}, 10, time.Minute, FailClosed, "api")
	rr := serveThroughLimiter(rl, "10.0.0.1:1111")
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected fail-closed to reject request, got %d", rr.Code)
	}
	if rr.Header().Get("Retry-After") != "60" {
		t.Fatalf("expected retry after the full window, got %q", rr.Header().Get("Retry-After"))
	}
}

func TestDistributedRateLimiterDeniedSetsRetryAfter(t *testing.T) {
	rl := NewDistributedRateLimiter(mockLimiter{allow: false, retry: 5 * time.Second}, 1, time.Minute, FailClosed, "api")
	rr := serveThroughLimiter(rl, "10.0.0.1:1111")
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rr.Code)
	}
	if got := rr.Header().Get("Retry-After"); got != "5" {
		t.Fatalf("expected Retry-After=5, got %q", got)
	}
	if got := rr.Header().Get("X-RateLimit-Limit"); got != "1" {
		t.Fatalf("expected X-RateLimit-Limit=1, got %q", got)
	}
	if got := rr.Header().Get("X-RateLimit-Reset"); got == "" {
		t.Fatal("expected X-RateLimit-Reset header")
	} else if _, err := strconv.ParseInt(got, 10, 64); err != nil {
		t.Fatalf("expected numeric X-RateLimit-Reset, got %q", got)
	}
}

func TestRateLimiterKeysByClientIP(t *testing.T) {
	limiter := &recordingLimiter{}
	rl := NewDistributedRateLimiter(limiter, 3, time.Minute, FailClosed, "api")
	rr := serveThroughLimiter(rl, "192.0.2.7:5555")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if limiter.lastKey != "192.0.2.7" {
		t.Fatalf("expected ip key, got %q", limiter.lastKey)
	}
	if got := rr.Header().Get("X-RateLimit-Remaining"); got != "2" {
		t.Fatalf("expected X-RateLimit-Remaining=2, got %q", got)
	}
	if got := rr.Header().Get("Retry-After"); got != "" {
		t.Fatalf("did not expect Retry-After on allowed response, got %q", got)
	}
}

func TestLocalFixedWindowLimiterResetsAfterWindow(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewLocalFixedWindowLimiter().(*localFixedWindowLimiter)
	limiter.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		d, _ := limiter.Allow(ctx, "ip", 2, time.Minute)
		if !d.Allowed {
			t.Fatalf("request %d should be allowed", i)
		}
	}
	d, _ := limiter.Allow(ctx, "ip", 2, time.Minute)
	if d.Allowed || d.RetryAfter != time.Minute {
		t.Fatalf("expected third request denied with full retry, got %+v", d)
	}
	if other, _ := limiter.Allow(ctx, "other-ip", 2, time.Minute); !other.Allowed {
		t.Fatal("keys must be limited independently")
	}

	now = now.Add(time.Minute)
	if d, _ := limiter.Allow(ctx, "ip", 2, time.Minute); !d.Allowed || d.Remaining != 1 {
		t.Fatalf("expected fresh window, got %+v", d)
	}
}

func TestNewRateLimiterDeniesOverLimit(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	if rr := serveThroughLimiter(rl, "10.0.0.9:1"); rr.Code != http.StatusOK {
		t.Fatalf("expected first request allowed, got %d", rr.Code)
	}
	if rr := serveThroughLimiter(rl, "10.0.0.9:2"); rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request limited, got %d", rr.Code)
	}
}

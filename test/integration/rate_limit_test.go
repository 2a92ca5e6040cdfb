package integration

import (
	"net/http"
	"testing"
)

func TestProductAPIRateLimited(t *testing.T) {
	baseURL := newProductTestServer(t, newSQLiteIntegrationDB(t), 2)

	for i := 0; i < 2; i++ {
		res := doJSON(t, http.MethodGet, baseURL+"/api/products", nil)
		if res.Status != http.StatusOK {
			t.Fatalf("expected 200 on request %d, got %d", i+1, res.Status)
		}
	}

	res := doJSON(t, http.MethodGet, baseURL+"/api/products", nil)
	if res.Status != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", res.Status)
	}
	if res.Header.Get("Retry-After") == "" || res.Header.Get("X-RateLimit-Remaining") != "0" {
		t.Fatalf("expected rate limit headers, got %v", res.Header)
	}

	if live := doJSON(t, http.MethodGet, baseURL+"/health/live", nil); live.Status != http.StatusOK {
		t.Fatalf("expected health routes outside the limiter, got %d", live.Status)
	}
}

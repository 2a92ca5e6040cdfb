package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/sandeepkv93/product-inventory-admin/internal/domain"
	"github.com/sandeepkv93/product-inventory-admin/internal/health"
	"github.com/sandeepkv93/product-inventory-admin/internal/http/handler"
	servicegomock "github.com/sandeepkv93/product-inventory-admin/internal/service/gomock"
)

type staticChecker struct{ healthy bool }

func (c staticChecker) Check(context.Context) health.CheckResult {
	return health.CheckResult{Name: "db", Healthy: c.healthy}
}

func TestRouterServesProductsAndHealth(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := servicegomock.NewMockProductService(ctrl)
	svc.EXPECT().List(gomock.Any()).Return([]domain.Product{}, nil)

	h := NewRouter(Dependencies{
		ProductHandler:  handler.NewProductHandler(svc),
		CORSOrigins:     []string{"http://localhost:3000"},
		APIRateLimitRPM: 100,
		Readiness:       health.NewProbeRunner(0, 0, staticChecker{healthy: false}),
	})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/products", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 from list, got %d", rr.Code)
	}
	if rr.Header().Get("X-Request-Id") == "" || rr.Header().Get("X-RateLimit-Limit") != "100" {
		t.Fatalf("expected middleware headers, got %v", rr.Header())
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected live 200, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected ready 503 with failing checker, got %d", rr.Code)
	}
	var env map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil || env["code"] != "DEPENDENCY_UNREADY" {
		t.Fatalf("unexpected readiness body %s err=%v", rr.Body.String(), err)
	}
}

func TestRouterUnknownRouteAndMethod(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := NewRouter(Dependencies{
		ProductHandler:  handler.NewProductHandler(servicegomock.NewMockProductService(ctrl)),
		APIRateLimitRPM: 10,
	})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/unknown", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPatch, "/api/products/1", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}
}

package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/sandeepkv93/product-inventory-admin/internal/config"
	"github.com/sandeepkv93/product-inventory-admin/internal/database"
	"github.com/sandeepkv93/product-inventory-admin/internal/health"
	"github.com/sandeepkv93/product-inventory-admin/internal/http/handler"
	"github.com/sandeepkv93/product-inventory-admin/internal/http/router"
	"github.com/sandeepkv93/product-inventory-admin/internal/repository"
	"github.com/sandeepkv93/product-inventory-admin/internal/service"
)

type apiReply struct {
	Status int
	Header http.Header
	Body   map[string]any
}

func (r apiReply) data(t *testing.T) map[string]any {
	t.Helper()
	d, ok := r.Body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected object data, got %v", r.Body)
	}
	return d
}

func newSQLiteIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(&config.Config{
		DatabaseDriver: config.DatabaseDriverSQLite,
		DatabaseURL:    "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared",
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// newProductTestServer wires the real repository, service and router over db.
func newProductTestServer(t *testing.T, db *gorm.DB, rpm int) string {
	t.Helper()
	svc := service.NewProductService(repository.NewProductRepository(db))
	srv := httptest.NewServer(router.NewRouter(router.Dependencies{
		ProductHandler:  handler.NewProductHandler(svc),
		CORSOrigins:     []string{"http://localhost:3000"},
		APIRateLimitRPM: rpm,
		Readiness:       health.NewProbeRunner(0, 0, health.NewDBChecker(db)),
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func doJSON(t *testing.T, method, url string, body any) apiReply {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	reply := apiReply{Status: resp.StatusCode, Header: resp.Header}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &reply.Body); err != nil {
			t.Fatalf("decode %s %s body %q: %v", method, url, raw, err)
		}
	}
	return reply
}

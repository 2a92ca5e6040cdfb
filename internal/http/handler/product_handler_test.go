package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/sandeepkv93/product-inventory-admin/internal/domain"
	"github.com/sandeepkv93/product-inventory-admin/internal/repository"
	servicegomock "github.com/sandeepkv93/product-inventory-admin/internal/service/gomock"
	"github.com/sandeepkv93/product-inventory-admin/internal/validation"
)

func newProductRouterForTest(h *ProductHandler) http.Handler {
	r := chi.NewRouter()
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.GetByID)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
	return r
}

func doProductRequest(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	var env map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal response %q: %v", rr.Body.String(), err)
	}
	return rr, env
}

func sampleProduct(id uint, name string) *domain.Product {
	return &domain.Product{ID: id, ProductName: name, Price: decimal.RequireFromString("1.50"), Quantity: 10}
}

func TestProductHandlerReads(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := servicegomock.NewMockProductService(ctrl)
	r := newProductRouterForTest(NewProductHandler(svc))

	t.Run("list wraps items in data", func(t *testing.T) {
		svc.EXPECT().List(gomock.Any()).Return([]domain.Product{*sampleProduct(1, "Pen")}, nil)
		rr, env := doProductRequest(t, r, http.MethodGet, "/api/products", "")
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
		items, ok := env["data"].([]any)
		if !ok || len(items) != 1 {
			t.Fatalf("unexpected data: %v", env)
		}
		first := items[0].(map[string]any)
		if first["product_name"] != "Pen" || first["price"] != "1.5" {
			t.Fatalf("unexpected item encoding: %v", first)
		}
	})

	t.Run("list of nothing is an empty array", func(t *testing.T) {
		svc.EXPECT().List(gomock.Any()).Return([]domain.Product{}, nil)
		_, env := doProductRequest(t, r, http.MethodGet, "/api/products", "")
		if items, ok := env["data"].([]any); !ok || len(items) != 0 {
			t.Fatalf("expected empty array, got %v", env)
		}
	})

	t.Run("list store failure is 500", func(t *testing.T) {
		svc.EXPECT().List(gomock.Any()).Return(nil, errors.New("db down"))
		rr, _ := doProductRequest(t, r, http.MethodGet, "/api/products", "")
		if rr.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rr.Code)
		}
	})

	t.Run("show missing is 404", func(t *testing.T) {
		svc.EXPECT().GetByID(gomock.Any(), uint(7)).Return(nil, repository.ErrProductNotFound)
		rr, env := doProductRequest(t, r, http.MethodGet, "/api/products/7", "")
		if rr.Code != http.StatusNotFound || env["code"] != "NOT_FOUND" {
			t.Fatalf("expected 404 envelope, got %d %v", rr.Code, env)
		}
	})

	t.Run("non-numeric id is 404 without a lookup", func(t *testing.T) {
		for _, path := range []string{"/api/products/abc", "/api/products/0", "/api/products/-1"} {
			rr, _ := doProductRequest(t, r, http.MethodGet, path, "")
			if rr.Code != http.StatusNotFound {
				t.Fatalf("%s: expected 404, got %d", path, rr.Code)
			}
		}
	})
}

func TestProductHandlerCreate(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := servicegomock.NewMockProductService(ctrl)
	r := newProductRouterForTest(NewProductHandler(svc))

	t.Run("created with message", func(t *testing.T) {
		svc.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, input map[string]any) (*domain.Product, error) {
			if _, ok := input["price"].(json.Number); !ok {
				t.Fatalf("expected price decoded as json.Number, got %T", input["price"])
			}
			return sampleProduct(3, "Pen"), nil
		})
		rr, env := doProductRequest(t, r, http.MethodPost, "/api/products", `{"product_name":"Pen","price":1.50,"quantity":10}`)
		if rr.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", rr.Code)
		}
		if env["message"] != msgProductCreated {
			t.Fatalf("unexpected message: %v", env["message"])
		}
		data := env["data"].(map[string]any)
		if data["id"] != float64(3) {
			t.Fatalf("unexpected data: %v", data)
		}
	})

	t.Run("validation failure is 422 with field errors", func(t *testing.T) {
		svc.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, &validation.Error{Fields: map[string][]string{
			"product_name": {"The product name field is required."},
		}})
		rr, env := doProductRequest(t, r, http.MethodPost, "/api/products", `{"price":1,"quantity":1}`)
		if rr.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", rr.Code)
		}
		errs, ok := env["errors"].(map[string]any)
		if !ok || errs["product_name"] == nil {
			t.Fatalf("expected product_name errors, got %v", env)
		}
	})

	t.Run("malformed json is 400", func(t *testing.T) {
		for _, body := range []string{`{"product_name":`, `[1,2]`, `null`, `"text"`} {
			rr, env := doProductRequest(t, r, http.MethodPost, "/api/products", body)
			if rr.Code != http.StatusBadRequest || env["message"] != "invalid payload" {
				t.Fatalf("%s: expected 400 invalid payload, got %d %v", body, rr.Code, env)
			}
		}
	})
}

func TestProductHandlerUpdateAndDelete(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := servicegomock.NewMockProductService(ctrl)
	r := newProductRouterForTest(NewProductHandler(svc))

	t.Run("update returns message and data", func(t *testing.T) {
		svc.EXPECT().Update(gomock.Any(), uint(5), gomock.Any()).Return(sampleProduct(5, "Pen Pro"), nil)
		rr, env := doProductRequest(t, r, http.MethodPut, "/api/products/5", `{"product_name":"Pen Pro","price":2,"quantity":1}`)
		if rr.Code != http.StatusOK || env["message"] != msgProductUpdated {
			t.Fatalf("unexpected update response: %d %v", rr.Code, env)
		}
	})

	t.Run("update missing is 404", func(t *testing.T) {
		svc.EXPECT().Update(gomock.Any(), uint(9), gomock.Any()).Return(nil, repository.ErrProductNotFound)
		rr, _ := doProductRequest(t, r, http.MethodPut, "/api/products/9", `{}`)
		if rr.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rr.Code)
		}
	})

	t.Run("delete returns message only", func(t *testing.T) {
		svc.EXPECT().DeleteByID(gomock.Any(), uint(5)).Return(nil)
		rr, env := doProductRequest(t, r, http.MethodDelete, "/api/products/5", "")
		if rr.Code != http.StatusOK || env["message"] != msgProductDeleted {
			t.Fatalf("unexpected delete response: %d %v", rr.Code, env)
		}
		if _, ok := env["data"]; ok {
			t.Fatalf("delete must not carry data: %v", env)
		}
	})

	t.Run("delete missing is 404", func(t *testing.T) {
		svc.EXPECT().DeleteByID(gomock.Any(), uint(6)).Return(repository.ErrProductNotFound)
		rr, _ := doProductRequest(t, r, http.MethodDelete, "/api/products/6", "")
		if rr.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rr.Code)
		}
	})
}

package integration

import (
	"fmt"
	"net/http"
	"testing"

	"gorm.io/gorm"
)

func TestProductLifecycleSQLite(t *testing.T) {
	runProductLifecycle(t, newSQLiteIntegrationDB(t))
}

func TestProductLifecyclePostgres(t *testing.T) {
	runProductLifecycle(t, newPostgresIntegrationDB(t))
}

func runProductLifecycle(t *testing.T, db *gorm.DB) {
	t.Helper()
	baseURL := newProductTestServer(t, db, 1000)
	products := baseURL + "/api/products"

	created := doJSON(t, http.MethodPost, products, map[string]any{"product_name": "Pen", "price": 5, "quantity": 10})
	if created.Status != http.StatusCreated || created.Body["message"] != "Product created successfully" {
		t.Fatalf("expected 201 create, got %d %v", created.Status, created.Body)
	}
	pen := created.data(t)
	id := int(pen["id"].(float64))
	if id <= 0 || pen["product_name"] != "Pen" || pen["quantity"] != float64(10) || pen["description"] != nil {
		t.Fatalf("unexpected created product %v", pen)
	}
	productURL := fmt.Sprintf("%s/%d", products, id)

	got := doJSON(t, http.MethodGet, productURL, nil)
	if got.Status != http.StatusOK {
		t.Fatalf("expected 200 get, got %d", got.Status)
	}
	fetched := got.data(t)
	for _, key := range []string{"id", "product_name", "price", "quantity", "category"} {
		if fmt.Sprint(fetched[key]) != fmt.Sprint(pen[key]) {
			t.Fatalf("field %s changed between create and get: %v vs %v", key, pen[key], fetched[key])
		}
	}

	updated := doJSON(t, http.MethodPut, productURL, map[string]any{"product_name": "Blue Pen", "price": "6.25", "quantity": 3})
	if updated.Status != http.StatusOK || updated.data(t)["product_name"] != "Blue Pen" || updated.data(t)["category"] != nil {
		t.Fatalf("expected full replace update, got %d %v", updated.Status, updated.Body)
	}

	invalid := doJSON(t, http.MethodPut, productURL, map[string]any{"product_name": "Blue Pen"})
	if invalid.Status != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 on partial update, got %d %v", invalid.Status, invalid.Body)
	}
	errs, _ := invalid.Body["errors"].(map[string]any)
	if errs["price"] == nil || errs["quantity"] == nil {
		t.Fatalf("expected price and quantity errors, got %v", invalid.Body)
	}

	if del := doJSON(t, http.MethodDelete, productURL, nil); del.Status != http.StatusOK || del.Body["message"] != "Product deleted successfully" {
		t.Fatalf("expected 200 delete, got %d %v", del.Status, del.Body)
	}
	if missing := doJSON(t, http.MethodGet, productURL, nil); missing.Status != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", missing.Status)
	}
	if again := doJSON(t, http.MethodDelete, productURL, nil); again.Status != http.StatusNotFound {
		t.Fatalf("expected second delete to 404, got %d", again.Status)
	}
}

func TestProductListSortedByName(t *testing.T) {
	baseURL := newProductTestServer(t, newSQLiteIntegrationDB(t), 1000)
	for _, name := range []string{"Stapler", "Binder", "Marker"} {
		res := doJSON(t, http.MethodPost, baseURL+"/api/products", map[string]any{"product_name": name, "price": 0, "quantity": 0})
		if res.Status != http.StatusCreated {
			t.Fatalf("create %s: %d %v", name, res.Status, res.Body)
		}
	}

	list := doJSON(t, http.MethodGet, baseURL+"/api/products", nil)
	items, ok := list.Body["data"].([]any)
	if list.Status != http.StatusOK || !ok || len(items) != 3 {
		t.Fatalf("unexpected list %d %v", list.Status, list.Body)
	}
	want := []string{"Binder", "Marker", "Stapler"}
	for i, item := range items {
		if name := item.(map[string]any)["product_name"]; name != want[i] {
			t.Fatalf("position %d: expected %s got %v", i, want[i], name)
		}
	}
}

func TestProductValidationFailures(t *testing.T) {
	baseURL := newProductTestServer(t, newSQLiteIntegrationDB(t), 1000)
	products := baseURL + "/api/products"

	negative := doJSON(t, http.MethodPost, products, map[string]any{"product_name": "Pen", "price": -1, "quantity": 1})
	if negative.Status != http.StatusUnprocessableEntity || negative.Body["code"] != "VALIDATION_FAILED" {
		t.Fatalf("expected 422 for negative price, got %d %v", negative.Status, negative.Body)
	}
	noName := doJSON(t, http.MethodPost, products, map[string]any{"price": 1, "quantity": 1})
	if errs, _ := noName.Body["errors"].(map[string]any); noName.Status != http.StatusUnprocessableEntity || errs["product_name"] == nil {
		t.Fatalf("expected product_name error, got %d %v", noName.Status, noName.Body)
	}
	if res := doJSON(t, http.MethodGet, products+"/abc", nil); res.Status != http.StatusNotFound {
		t.Fatalf("expected 404 for non-numeric id, got %d", res.Status)
	}
	if res := doJSON(t, http.MethodPut, products+"/999", map[string]any{}); res.Status != http.StatusNotFound {
		t.Fatalf("expected 404 before validation on missing id, got %d", res.Status)
	}
	if res := doJSON(t, http.MethodGet, baseURL+"/health/ready", nil); res.Status != http.StatusOK {
		t.Fatalf("expected ready with sqlite checker, got %d %v", res.Status, res.Body)
	}
}

package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rr.Body.String(), err)
	}
	return out
}

func TestDataKeepsEmptyList(t *testing.T) {
	rr := httptest.NewRecorder()
	Data(rr, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusOK, []string{})

	if rr.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("unexpected content type %q", rr.Header().Get("Content-Type"))
	}
	body := decodeBody(t, rr)
	list, ok := body["data"].([]any)
	if !ok || len(list) != 0 {
		t.Fatalf("expected empty data list, got %v", body)
	}
	if _, ok := body["message"]; ok {
		t.Fatalf("message must be omitted on reads: %v", body)
	}
}

func TestMessageWithoutData(t *testing.T) {
	rr := httptest.NewRecorder()
	Message(rr, httptest.NewRequest(http.MethodDelete, "/", nil), http.StatusOK, "Product deleted successfully", nil)

	body := decodeBody(t, rr)
	if body["message"] != "Product deleted successfully" || len(body) != 1 {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestValidationErrorShape(t *testing.T) {
	rr := httptest.NewRecorder()
	ValidationError(rr, httptest.NewRequest(http.MethodPost, "/", nil), map[string][]string{
		"price": {"The price field is required."},
	})

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}
	body := decodeBody(t, rr)
	if body["message"] != ValidationMessage {
		t.Fatalf("unexpected message: %v", body["message"])
	}
	errs, ok := body["errors"].(map[string]any)
	if !ok {
		t.Fatalf("expected errors object, got %v", body)
	}
	msgs, ok := errs["price"].([]any)
	if !ok || len(msgs) != 1 {
		t.Fatalf("unexpected price messages: %v", errs["price"])
	}
}

func TestErrorIncludesCode(t *testing.T) {
	rr := httptest.NewRecorder()
	Error(rr, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusNotFound, "NOT_FOUND", "product not found", nil)

	body := decodeBody(t, rr)
	if rr.Code != http.StatusNotFound || body["code"] != "NOT_FOUND" || body["message"] != "product not found" {
		t.Fatalf("unexpected error response %d %v", rr.Code, body)
	}
}

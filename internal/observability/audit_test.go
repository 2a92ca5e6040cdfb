package observability

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func productAuditInput(action string) AuditInput {
	return AuditInput{
		EventName:  "product." + action,
		TargetType: "product",
		TargetID:   "7",
		Action:     action,
		Outcome:    "success",
		Reason:     "product_" + action + "d",
	}
}

func TestBuildAuditEventFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodPut, "/api/products/7", nil)
	req.Header.Set("X-Request-Id", "req-test-1")
	req.RemoteAddr = "127.0.0.1:12345"

	ev := BuildAuditEvent(req, productAuditInput("update"))
	if ev.EventVersion != auditEventVersion || ev.ActorIP != "127.0.0.1" || ev.RequestID != "req-test-1" {
		t.Fatalf("unexpected event %+v", ev)
	}
	if _, err := time.Parse(time.RFC3339, ev.TS); err != nil {
		t.Fatalf("expected RFC3339 ts, got %q err=%v", ev.TS, err)
	}
	if ev.TraceID != "" {
		t.Fatalf("expected no trace id outside a span, got %q", ev.TraceID)
	}
	if err := ev.Validate(); err != nil {
		t.Fatalf("expected valid event, got %v", err)
	}
}

func TestAuditEventValidateListsMissingFields(t *testing.T) {
	ev := AuditEvent{EventVersion: 2, ActorIP: "127.0.0.1", TargetType: "product", Outcome: "success", TS: "now"}
	err := ev.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"event_name", "target_id", "action", "event_version"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %q in %q", want, err.Error())
		}
	}
}

func TestEmitAuditLevels(t *testing.T) {
	var buf bytes.Buffer
	orig := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(orig) })

	req := httptest.NewRequest(http.MethodDelete, "/api/products/7", nil)
	EmitAudit(req, productAuditInput("delete"), "product_name", "Pen")
	EmitAudit(req, AuditInput{EventName: "product.delete"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected two audit lines, got %q", buf.String())
	}
	var ok, invalid map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &ok); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if err := json.Unmarshal([]byte(lines[1]), &invalid); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ok["level"] != "INFO" || ok["msg"] != "audit" || ok["event_name"] != "product.delete" || ok["product_name"] != "Pen" {
		t.Fatalf("unexpected audit line %v", ok)
	}
	if invalid["level"] != "WARN" || invalid["validation_error"] == nil {
		t.Fatalf("expected invalid event logged at warn, got %v", invalid)
	}
}

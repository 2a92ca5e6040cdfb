package observability

import (
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/trace"
)

const auditEventVersion = 1

type AuditInput struct {
	EventName  string
	TargetType string
	TargetID   string
	Action     string
	Outcome    string
	Reason     string
}

type AuditEvent struct {
	EventVersion int    `json:"event_version"`
	EventName    string `json:"event_name"`
	ActorIP      string `json:"actor_ip"`
	TargetType   string `json:"target_type"`
	TargetID     string `json:"target_id"`
	Action       string `json:"action"`
	Outcome      string `json:"outcome"`
	Reason       string `json:"reason"`
	RequestID    string `json:"request_id"`
	TraceID      string `json:"trace_id,omitempty"`
	TS           string `json:"ts"`
}

func BuildAuditEvent(r *http.Request, in AuditInput) AuditEvent {
	requestID := chimiddleware.GetReqID(r.Context())
	if requestID == "" {
		requestID = r.Header.Get("X-Request-Id")
	}
	ev := AuditEvent{
		EventVersion: auditEventVersion,
		EventName:    in.EventName,
		ActorIP:      clientIP(r),
		TargetType:   in.TargetType,
		TargetID:     in.TargetID,
		Action:       in.Action,
		Outcome:      in.Outcome,
		Reason:       in.Reason,
		RequestID:    requestID,
		TS:           time.Now().UTC().Format(time.RFC3339),
	}
	if sc := trace.SpanContextFromContext(r.Context()); sc.IsValid() {
		ev.TraceID = sc.TraceID().String()
	}
	return ev
}

func (e AuditEvent) Validate() error {
	var missing []string
	required := map[string]string{
		"event_name":  e.EventName,
		"actor_ip":    e.ActorIP,
		"target_type": e.TargetType,
		"target_id":   e.TargetID,
		"action":      e.Action,
		"outcome":     e.Outcome,
		"ts":          e.TS,
	}
	for _, k := range []string{"event_name", "actor_ip", "target_type", "target_id", "action", "outcome", "ts"} {
		if strings.TrimSpace(required[k]) == "" {
			missing = append(missing, k)
		}
	}
	if e.EventVersion != auditEventVersion {
		missing = append(missing, "event_version")
	}
	if len(missing) > 0 {
		return errors.New("audit event missing fields: " + strings.Join(missing, ", "))
	}
	return nil
}

// EmitAudit writes one structured audit line. Invalid events are still logged
// at warn level so nothing is silently dropped.
func EmitAudit(r *http.Request, in AuditInput, attrs ...any) {
	ev := BuildAuditEvent(r, in)
	base := []any{
		"event_version", ev.EventVersion,
		"event_name", ev.EventName,
		"actor_ip", ev.ActorIP,
		"target_type", ev.TargetType,
		"target_id", ev.TargetID,
		"action", ev.Action,
		"outcome", ev.Outcome,
		"reason", ev.Reason,
		"request_id", ev.RequestID,
		"ts", ev.TS,
	}
	base = append(base, attrs...)
	if err := ev.Validate(); err != nil {
		slog.WarnContext(r.Context(), "audit", append(base, "validation_error", err.Error())...)
		return
	}
	slog.InfoContext(r.Context(), "audit", base...)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

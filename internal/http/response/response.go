package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

const ValidationMessage = "The given data was invalid."

// Envelope is the body shape shared by every API response. Empty members are
// omitted so reads carry only data and deletes only a message.
type Envelope struct {
	Message string              `json:"message,omitempty"`
	Code    string              `json:"code,omitempty"`
	Data    any                 `json:"data,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
	Details any                 `json:"details,omitempty"`
}

func JSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.WarnContext(r.Context(), "write response failed", "status", status, "error", err)
	}
}

func Data(w http.ResponseWriter, r *http.Request, status int, data any) {
	JSON(w, r, status, Envelope{Data: data})
}

func Message(w http.ResponseWriter, r *http.Request, status int, message string, data any) {
	JSON(w, r, status, Envelope{Message: message, Data: data})
}

func Error(w http.ResponseWriter, r *http.Request, status int, code, message string, details any) {
	JSON(w, r, status, Envelope{Message: message, Code: code, Details: details})
}

func ValidationError(w http.ResponseWriter, r *http.Request, fields map[string][]string) {
	JSON(w, r, http.StatusUnprocessableEntity, Envelope{
		Message: ValidationMessage,
		Code:    "VALIDATION_FAILED",
		Errors:  fields,
	})
}

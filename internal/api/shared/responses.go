package shared

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dhruvat/astra-api/internal/redact"
)

// ErrorResponse is the JSON body of every error the API returns. The trace
// ID lets a client report an error that can be matched to server logs.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// RespondWithJSON writes data as a JSON response with the given status.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("encoding JSON response", "error", err)
	}
}

// RespondWithError writes a JSON error body carrying the request's trace
// ID. Use this when the message itself is the whole story; when there is
// an underlying error worth logging, use RespondWithErrorAndLog.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, message string) {
	traceID := GetTraceID(r.Context())

	slog.Debug("sending error response",
		"status_code", status,
		"message", message,
		"trace_id", traceID,
		"path", r.URL.Path,
		"method", r.Method)

	RespondWithJSON(w, r, status, ErrorResponse{Error: message, TraceID: traceID})
}

// RespondWithErrorAndLog sends the sanitized userMessage to the client and
// logs the underlying error, redacted, under the same trace ID. Server
// errors log at ERROR, everything else at DEBUG. The raw error string
// never reaches the response body.
func RespondWithErrorAndLog(w http.ResponseWriter, r *http.Request, status int, userMessage string, err error) {
	traceID := GetTraceID(r.Context())

	attrs := []slog.Attr{
		slog.String("trace_id", traceID),
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method),
		slog.Int("status_code", status),
		slog.String("user_message", userMessage),
	}
	if err != nil {
		attrs = append(attrs,
			slog.String("error", redact.Error(err)),
			slog.String("error_type", fmt.Sprintf("%T", err)))
	}

	level := slog.LevelDebug
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	slog.LogAttrs(r.Context(), level, "API error response", attrs...)

	RespondWithJSON(w, r, status, ErrorResponse{Error: userMessage, TraceID: traceID})
}

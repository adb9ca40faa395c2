// internal/httputil/response.go
package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gracechapel/flocktext-backend/internal/apperr"
)

// ErrorResponse is the error envelope for all API errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

// Error writes a JSON error envelope.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorResponse{Error: message})
}

// AppError maps an application error onto the wire: 4xx messages pass
// through verbatim, everything else is logged server-side and surfaced as a
// generic internal error.
func AppError(w http.ResponseWriter, err error) {
	status := apperr.Status(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
	}
	Error(w, status, apperr.ClientMessage(err))
}

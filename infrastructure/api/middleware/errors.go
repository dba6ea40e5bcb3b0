package middleware

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/catalogmesh/tablequery/domain/catalog"
	"github.com/catalogmesh/tablequery/domain/search"
)

// ErrorResponse is the JSON body written for failed requests.
type ErrorResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

// WriteJSON writes v as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// WriteError maps a domain error to an HTTP status and writes the JSON
// error body. Unknown errors become a 500 with a generic message so
// internals never leak to clients.
func WriteError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	status := http.StatusInternalServerError
	message := "internal server error"

	var jsonSyntaxErr *json.SyntaxError
	var jsonTypeErr *json.UnmarshalTypeError

	switch {
	case errors.As(err, &jsonSyntaxErr), errors.As(err, &jsonTypeErr):
		status = http.StatusBadRequest
		message = "malformed request body"
	case errors.Is(err, search.ErrInvalidQuery),
		errors.Is(err, catalog.ErrValidation),
		errors.Is(err, catalog.ErrDuplicateTable),
		errors.Is(err, catalog.ErrUnsupportedFormat):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, search.ErrNotReady):
		status = http.StatusServiceUnavailable
		message = err.Error()
	case errors.Is(err, search.ErrRebuildInProgress):
		status = http.StatusConflict
		message = err.Error()
	case errors.Is(err, fs.ErrNotExist):
		status = http.StatusNotFound
		message = err.Error()
	default:
		logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}

	WriteJSON(w, status, ErrorResponse{Status: "error", Error: message})
}

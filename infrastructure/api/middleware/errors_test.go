package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catalogmesh/tablequery/domain/catalog"
	"github.com/catalogmesh/tablequery/domain/search"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteJSON(rec, http.StatusCreated, map[string]string{"status": "ok"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestWriteError_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid query", search.ErrInvalidQuery, http.StatusBadRequest},
		{"validation", catalog.NewValidationError("users", "name", "required"), http.StatusBadRequest},
		{"duplicate table", fmt.Errorf("%w: %q", catalog.ErrDuplicateTable, "users"), http.StatusBadRequest},
		{"unsupported format", catalog.ErrUnsupportedFormat, http.StatusBadRequest},
		{"not ready", search.ErrNotReady, http.StatusServiceUnavailable},
		{"rebuild in progress", search.ErrRebuildInProgress, http.StatusConflict},
		{"missing file", fmt.Errorf("read catalog: %w", fs.ErrNotExist), http.StatusNotFound},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/search", nil)

			WriteError(rec, req, tt.err, nil)

			assert.Equal(t, tt.status, rec.Code)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "error", body.Status)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestWriteError_HidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)

	WriteError(rec, req, errors.New("dsn=postgres://secret"), nil)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "internal server error", body.Error)
	assert.NotContains(t, body.Error, "secret")
}

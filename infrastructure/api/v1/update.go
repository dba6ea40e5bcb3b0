package v1

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/catalogmesh/tablequery"
	"github.com/catalogmesh/tablequery/infrastructure/api/middleware"
	"github.com/catalogmesh/tablequery/infrastructure/api/v1/dto"
)

// UpdateRouter handles catalog refresh endpoints.
type UpdateRouter struct {
	client *tablequery.Client
	logger *slog.Logger
}

// NewUpdateRouter creates a new UpdateRouter.
func NewUpdateRouter(client *tablequery.Client) *UpdateRouter {
	return &UpdateRouter{
		client: client,
		logger: client.Logger(),
	}
}

// Routes returns the chi router for update endpoints.
func (r *UpdateRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", r.Update)

	return router
}

// Update handles POST /api/v1/update. The body is optional; without one
// the configured catalog file is re-read.
func (r *UpdateRouter) Update(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	var body dto.UpdateRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	result, err := r.client.Updater.Update(ctx, body.MetadataPath)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dto.UpdateResponse{
		Status: string(result.Status()),
		Detail: result.Detail(),
	})
}

// Package v1 implements the v1 REST API routers.
package v1

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/catalogmesh/tablequery"
	"github.com/catalogmesh/tablequery/application/service"
	"github.com/catalogmesh/tablequery/infrastructure/api/middleware"
	"github.com/catalogmesh/tablequery/infrastructure/api/v1/dto"
)

// SearchRouter handles search API endpoints.
type SearchRouter struct {
	client *tablequery.Client
	logger *slog.Logger
}

// NewSearchRouter creates a new SearchRouter.
func NewSearchRouter(client *tablequery.Client) *SearchRouter {
	return &SearchRouter{
		client: client,
		logger: client.Logger(),
	}
}

// Routes returns the chi router for search endpoints.
func (r *SearchRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", r.Search)

	return router
}

// Search handles POST /api/v1/search.
func (r *SearchRouter) Search(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	var body dto.SearchRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	topK := 0
	if body.TopK != nil {
		topK = *body.TopK
	}

	result, err := r.client.Search.Search(ctx, body.Query, topK)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, buildSearchResponse(result))
}

func buildSearchResponse(result service.SearchResult) dto.SearchResponse {
	results := make([]dto.TableResultSchema, 0, len(result.Results()))
	for _, tr := range result.Results() {
		entry := tr.Entry()

		columns := make([]dto.ColumnSchema, 0, len(entry.Columns()))
		for _, col := range entry.Columns() {
			columns = append(columns, dto.ColumnSchema{
				ColumnName:   col.Name(),
				Description:  col.Description(),
				DataType:     col.DataType(),
				IsPrimaryKey: col.IsPrimaryKey(),
			})
		}

		results = append(results, dto.TableResultSchema{
			SimilarityScore:    tr.Score(),
			TableName:          entry.Name(),
			TableDescription:   entry.Description(),
			OpenMetadataURL:    tr.GovernanceURL(),
			ColumnDescriptions: columns,
		})
	}

	return dto.SearchResponse{
		Status:        "success",
		OriginalQuery: result.Query(),
		LLMResponse:   service.LLMResponsePlaceholder,
		Results:       results,
	}
}

// Package dto defines the request and response bodies of the v1 API.
package dto

// SearchRequest represents a search request body.
type SearchRequest struct {
	Query string `json:"query"`
	TopK  *int   `json:"top_k,omitempty"`
}

// ColumnSchema represents a column description in search results.
type ColumnSchema struct {
	ColumnName   string `json:"column_name"`
	Description  string `json:"description"`
	DataType     string `json:"data_type"`
	IsPrimaryKey bool   `json:"is_primary_key"`
}

// TableResultSchema represents a single ranked table in search results.
type TableResultSchema struct {
	SimilarityScore    float64        `json:"similarity_score"`
	TableName          string         `json:"table_name"`
	TableDescription   string         `json:"table_description"`
	OpenMetadataURL    string         `json:"openmetadata_url"`
	ColumnDescriptions []ColumnSchema `json:"column_descriptions"`
}

// SearchResponse represents a search response body.
type SearchResponse struct {
	Status        string              `json:"status"`
	OriginalQuery string              `json:"original_query"`
	LLMResponse   string              `json:"llm_response"`
	Results       []TableResultSchema `json:"results"`
}

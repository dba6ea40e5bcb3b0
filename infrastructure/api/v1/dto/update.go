package dto

// UpdateRequest represents a catalog refresh request body.
type UpdateRequest struct {
	MetadataPath string `json:"metadata_path,omitempty"`
}

// UpdateResponse represents a catalog refresh response body.
type UpdateResponse struct {
	Status string `json:"status"`
	Detail string `json:"detail"`
}

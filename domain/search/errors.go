package search

import "errors"

// Search domain errors.
var (
	// ErrInvalidQuery indicates an empty or blank query text.
	ErrInvalidQuery = errors.New("query text is empty")

	// ErrNotReady indicates no catalog snapshot has been built yet.
	ErrNotReady = errors.New("search engine is not ready: no catalog snapshot built")

	// ErrRebuildInProgress indicates a concurrent index rebuild was rejected.
	ErrRebuildInProgress = errors.New("an index rebuild is already in progress")

	// ErrEncoding indicates the embedding model failed or is unavailable.
	ErrEncoding = errors.New("embedding encoder failed")

	// ErrIndex indicates a vector index build, search, or persistence failure.
	ErrIndex = errors.New("vector index failure")
)

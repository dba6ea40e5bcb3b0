package search

import "strings"

// DefaultTopK is the number of results returned when the caller does not
// specify one.
const DefaultTopK = 5

// Query represents a free-text catalog search query.
type Query struct {
	text string
	topK int
}

// NewQuery creates a Query. A non-positive topK falls back to DefaultTopK.
func NewQuery(text string, topK int) Query {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return Query{text: text, topK: topK}
}

// Text returns the query text.
func (q Query) Text() string { return q.text }

// TopK returns the number of results to return.
func (q Query) TopK() int { return q.topK }

// Validate returns ErrInvalidQuery when the query text is empty or blank.
func (q Query) Validate() error {
	if strings.TrimSpace(q.text) == "" {
		return ErrInvalidQuery
	}
	return nil
}

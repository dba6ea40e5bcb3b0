package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/catalogmesh/tablequery/domain/catalog"
	"github.com/catalogmesh/tablequery/domain/search"
)

// LLMResponsePlaceholder is returned in place of a generated answer.
// Answer synthesis runs in a separate service and is stitched in at the
// edge, never here.
const LLMResponsePlaceholder = "LLM answers are not generated yet."

// TableResult is one enriched search hit: the similarity score, the full
// catalog entry, and the governance platform link for the table.
type TableResult struct {
	score float64
	entry catalog.Entry
	url   string
}

// NewTableResult creates a TableResult.
func NewTableResult(score float64, entry catalog.Entry, url string) TableResult {
	return TableResult{score: score, entry: entry, url: url}
}

// Score returns the cosine similarity score.
func (r TableResult) Score() float64 { return r.score }

// Entry returns the catalog entry.
func (r TableResult) Entry() catalog.Entry { return r.entry }

// GovernanceURL returns the governance platform link for the table.
func (r TableResult) GovernanceURL() string { return r.url }

// SearchResult is the outcome of one catalog search.
type SearchResult struct {
	query   string
	results []TableResult
}

// Query returns the original query text.
func (r SearchResult) Query() string { return r.query }

// Results returns the ranked results (copy).
func (r SearchResult) Results() []TableResult {
	results := make([]TableResult, len(r.results))
	copy(results, r.results)
	return results
}

// Search is the catalog search engine: it validates the query, encodes it,
// runs the active snapshot's vector index, and enriches the hits back
// through the same snapshot.
type Search struct {
	active        *Active
	encoder       search.Encoder
	links         *GovernanceLinks
	defaultTopK   int
	minSimilarity float64
	logger        *slog.Logger
}

// NewSearch creates the search engine. A non-positive defaultTopK falls
// back to search.DefaultTopK; minSimilarity is the score floor below which
// hits are dropped (0 keeps everything non-negative).
func NewSearch(active *Active, encoder search.Encoder, links *GovernanceLinks, defaultTopK int, minSimilarity float64, logger *slog.Logger) *Search {
	if logger == nil {
		logger = slog.Default()
	}
	if defaultTopK <= 0 {
		defaultTopK = search.DefaultTopK
	}
	return &Search{
		active:        active,
		encoder:       encoder,
		links:         links,
		defaultTopK:   defaultTopK,
		minSimilarity: minSimilarity,
		logger:        logger,
	}
}

// Search runs a free-text query against the active snapshot. A non-positive
// topK uses the engine's default. The snapshot reference is resolved once
// and used for both the index lookup and the entry enrichment, so ids never
// cross snapshots.
func (s *Search) Search(ctx context.Context, queryText string, topK int) (SearchResult, error) {
	if topK <= 0 {
		topK = s.defaultTopK
	}
	query := search.NewQuery(queryText, topK)
	if err := query.Validate(); err != nil {
		return SearchResult{}, err
	}

	snap := s.active.Snapshot()
	if snap == nil {
		return SearchResult{}, search.ErrNotReady
	}

	vector, err := search.EncodeOne(ctx, s.encoder, query.Text())
	if err != nil {
		return SearchResult{}, fmt.Errorf("encode query: %w", err)
	}

	matches := snap.Index().Search(vector, query.TopK())

	results := s.enrich(snap, query.Text(), matches, query.TopK())

	s.logger.Debug("catalog search",
		"query", query.Text(),
		"top_k", query.TopK(),
		"hits", len(results),
	)

	return SearchResult{query: queryText, results: results}, nil
}

// enrich maps matches back to entries via the snapshot they came from,
// applies the similarity floor, and pins an exact table-name match (case
// insensitive) to the top with a score of 1.
func (s *Search) enrich(snap *catalog.Snapshot, queryText string, matches []search.Match, topK int) []TableResult {
	results := make([]TableResult, 0, topK)

	exactID := -1
	for id, entry := range snap.Entries() {
		if strings.EqualFold(strings.TrimSpace(queryText), entry.Name()) {
			exactID = id
			results = append(results, NewTableResult(1.0, entry, s.links.ExploreURL(entry.Name())))
			break
		}
	}

	for _, match := range matches {
		if len(results) >= topK {
			break
		}
		if match.ID() == exactID {
			continue
		}
		if match.Score() < s.minSimilarity {
			continue
		}
		entry, ok := snap.Entry(match.ID())
		if !ok {
			continue
		}
		results = append(results, NewTableResult(match.Score(), entry, s.links.ExploreURL(entry.Name())))
	}

	return results
}

package search

import "sort"

// Match holds an index position and its similarity score.
type Match struct {
	id    int
	score float64
}

// NewMatch creates a new Match.
func NewMatch(id int, score float64) Match {
	return Match{id: id, score: score}
}

// ID returns the index position of the matched entry.
func (m Match) ID() int { return m.id }

// Score returns the cosine similarity score, reported un-clamped.
func (m Match) Score() float64 { return m.score }

// TopK selects the k best matches, ordered by descending score with ties
// broken by ascending id so results are deterministic across runs.
// If k exceeds the number of matches, all of them are returned.
func TopK(matches []Match, k int) []Match {
	if k <= 0 || len(matches) == 0 {
		return []Match{}
	}

	sorted := make([]Match, len(matches))
	copy(sorted, matches)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].score != sorted[j].score {
			return sorted[i].score > sorted[j].score
		}
		return sorted[i].id < sorted[j].id
	})

	if k > len(sorted) {
		k = len(sorted)
	}
	return sorted[:k]
}

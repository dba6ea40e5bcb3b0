package index

import (
	"fmt"
	"sort"

	"github.com/catalogmesh/tablequery/domain/search"
)

// Lloyd iterations for centroid training. Fixed so that building the same
// vectors always produces the same index.
const ivfIterations = 10

// IVF is an inverted-file approximate index: vectors are clustered around
// trained centroids, and a search only scans the lists of the closest
// nProbes centroids. Recall is traded against scan cost; with nProbes equal
// to nLists the search is exact.
//
// Training is fully deterministic: centroids are seeded from evenly spaced
// input positions and refined with a fixed number of Lloyd iterations, so a
// rebuild from the same vectors answers identical queries.
type IVF struct {
	dim       int
	vectors   []search.Vector
	centroids []search.Vector
	lists     [][]int
	nProbes   int
}

// BuildIVF constructs an IVF index with nLists clusters, probing nProbes of
// them per search. nLists is clamped to the vector count; nProbes to nLists.
func BuildIVF(vectors []search.Vector, nLists, nProbes int) (*IVF, error) {
	normalized, dim, err := normalizeAll(vectors)
	if err != nil {
		return nil, err
	}
	if nLists <= 0 {
		return nil, fmt.Errorf("%w: ivf requires at least one list, got %d", search.ErrIndex, nLists)
	}
	if nLists > len(normalized) {
		nLists = len(normalized)
	}
	if nProbes <= 0 || nProbes > nLists {
		nProbes = nLists
	}

	idx := &IVF{dim: dim, vectors: normalized, nProbes: nProbes}
	if len(normalized) > 0 {
		idx.train(nLists)
	}
	return idx, nil
}

func (x *IVF) train(nLists int) {
	// Seed centroids from evenly spaced input positions.
	centroids := make([]search.Vector, nLists)
	for c := range centroids {
		centroids[c] = x.vectors[c*len(x.vectors)/nLists].Clone()
	}

	assignments := make([]int, len(x.vectors))
	for iter := 0; iter < ivfIterations; iter++ {
		for i, v := range x.vectors {
			assignments[i] = nearestCentroid(v, centroids)
		}

		for c := range centroids {
			mean := make(search.Vector, x.dim)
			count := 0
			for i, v := range x.vectors {
				if assignments[i] != c {
					continue
				}
				for d := range mean {
					mean[d] += v[d]
				}
				count++
			}
			// Empty clusters keep their previous centroid.
			if count == 0 {
				continue
			}
			for d := range mean {
				mean[d] /= float64(count)
			}
			centroids[c] = mean.Normalized()
		}
	}

	lists := make([][]int, nLists)
	for i, v := range x.vectors {
		c := nearestCentroid(v, centroids)
		lists[c] = append(lists[c], i)
	}

	x.centroids = centroids
	x.lists = lists
}

// nearestCentroid returns the centroid with the highest similarity; ties go
// to the lowest centroid index.
func nearestCentroid(v search.Vector, centroids []search.Vector) int {
	best := 0
	bestScore := search.Dot(v, centroids[0])
	for c := 1; c < len(centroids); c++ {
		if score := search.Dot(v, centroids[c]); score > bestScore {
			best, bestScore = c, score
		}
	}
	return best
}

// Search returns up to k matches from the nProbes closest lists, ordered by
// descending cosine similarity with ties broken by ascending id.
func (x *IVF) Search(query search.Vector, k int) []search.Match {
	if len(x.vectors) == 0 || k <= 0 || len(query) != x.dim {
		return []search.Match{}
	}

	q := query.Normalized()

	// Rank lists by centroid similarity, ties by ascending centroid index.
	order := make([]int, len(x.centroids))
	scores := make([]float64, len(x.centroids))
	for c, centroid := range x.centroids {
		order[c] = c
		scores[c] = search.Dot(q, centroid)
	}
	sort.Slice(order, func(i, j int) bool {
		if scores[order[i]] != scores[order[j]] {
			return scores[order[i]] > scores[order[j]]
		}
		return order[i] < order[j]
	})

	var matches []search.Match
	for _, c := range order[:x.nProbes] {
		for _, id := range x.lists[c] {
			matches = append(matches, search.NewMatch(id, search.Dot(q, x.vectors[id])))
		}
	}
	return search.TopK(matches, k)
}

// Vectors returns the indexed vectors in id order, L2-normalized.
func (x *IVF) Vectors() []search.Vector {
	vectors := make([]search.Vector, len(x.vectors))
	for i, v := range x.vectors {
		vectors[i] = v.Clone()
	}
	return vectors
}

// Len returns the number of indexed vectors.
func (x *IVF) Len() int { return len(x.vectors) }

// Dimension returns the vector dimension, or 0 for an empty index.
func (x *IVF) Dimension() int {
	if len(x.vectors) == 0 {
		return 0
	}
	return x.dim
}

var _ search.Index = (*IVF)(nil)

// Package index provides vector index implementations over catalog
// embeddings: an exact flat index, an IVF approximate index for larger
// catalogs, and SQLite-backed persistence for built indexes.
package index

import (
	"fmt"

	"github.com/catalogmesh/tablequery/domain/search"
)

// Flat is an exact nearest-neighbor index. Every search scans all vectors,
// which is the right trade-off at catalog scale (hundreds to low thousands
// of entries): full recall, no build cost beyond normalization.
type Flat struct {
	dim     int
	vectors []search.Vector
}

// BuildFlat constructs a Flat index over the given vectors. Vectors are
// L2-normalized on the way in so the inner product equals cosine similarity.
// All vectors must share one dimension.
func BuildFlat(vectors []search.Vector) (*Flat, error) {
	normalized, dim, err := normalizeAll(vectors)
	if err != nil {
		return nil, err
	}
	return &Flat{dim: dim, vectors: normalized}, nil
}

func normalizeAll(vectors []search.Vector) ([]search.Vector, int, error) {
	if len(vectors) == 0 {
		return []search.Vector{}, 0, nil
	}

	dim := len(vectors[0])
	if dim == 0 {
		return nil, 0, fmt.Errorf("%w: zero-dimension vector at position 0", search.ErrIndex)
	}

	normalized := make([]search.Vector, len(vectors))
	for i, v := range vectors {
		if len(v) != dim {
			return nil, 0, fmt.Errorf("%w: vector %d has dimension %d, want %d", search.ErrIndex, i, len(v), dim)
		}
		normalized[i] = v.Normalized()
	}
	return normalized, dim, nil
}

// Search returns up to k matches ordered by descending cosine similarity,
// ties broken by ascending id. An empty index returns no matches.
func (f *Flat) Search(query search.Vector, k int) []search.Match {
	if len(f.vectors) == 0 || k <= 0 || len(query) != f.dim {
		return []search.Match{}
	}

	q := query.Normalized()
	matches := make([]search.Match, len(f.vectors))
	for i, v := range f.vectors {
		matches[i] = search.NewMatch(i, search.Dot(q, v))
	}
	return search.TopK(matches, k)
}

// Vectors returns the indexed vectors in id order, L2-normalized.
func (f *Flat) Vectors() []search.Vector {
	vectors := make([]search.Vector, len(f.vectors))
	for i, v := range f.vectors {
		vectors[i] = v.Clone()
	}
	return vectors
}

// Len returns the number of indexed vectors.
func (f *Flat) Len() int { return len(f.vectors) }

// Dimension returns the vector dimension, or 0 for an empty index.
func (f *Flat) Dimension() int {
	if len(f.vectors) == 0 {
		return 0
	}
	return f.dim
}

var _ search.Index = (*Flat)(nil)

package search

// Index answers nearest-neighbor queries over a fixed set of vectors.
// Implementations are immutable once built; a catalog change produces a
// whole new index rather than mutating an existing one.
type Index interface {
	// Search returns up to k matches ordered by descending similarity,
	// ties broken by ascending id. An empty index returns no matches.
	Search(query Vector, k int) []Match

	// Vectors returns the indexed vectors in id order, L2-normalized.
	Vectors() []Vector

	// Len returns the number of indexed vectors.
	Len() int

	// Dimension returns the vector dimension, or 0 for an empty index.
	Dimension() int
}

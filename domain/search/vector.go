// Package search provides the vector search domain: embedding vectors,
// the encoder contract, similarity primitives, and match types.
package search

import "math"

// Vector is a dense embedding vector.
type Vector []float64

// Clone returns a copy of the vector.
func (v Vector) Clone() Vector {
	cp := make(Vector, len(v))
	copy(cp, v)
	return cp
}

// Norm returns the L2 norm of the vector.
func (v Vector) Norm() float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Normalized returns an L2-normalized copy of the vector. Zero vectors are
// returned unchanged so that their dot product with anything stays zero.
func (v Vector) Normalized() Vector {
	norm := v.Norm()
	cp := v.Clone()
	if norm == 0 {
		return cp
	}
	for i := range cp {
		cp[i] /= norm
	}
	return cp
}

// Dot returns the inner product of two vectors. Returns 0 when the
// dimensions differ.
func Dot(a, b Vector) float64 {
	if len(a) != len(b) {
		return 0
	}
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// CosineSimilarity computes the cosine similarity between two vectors.
// Returns a value between -1 (opposite) and 1 (identical).
// Returns 0 if either vector has zero magnitude or dimensions differ.
func CosineSimilarity(a, b Vector) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dotProduct, magA, magB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}

	if magA == 0 || magB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(magA) * math.Sqrt(magB))
}

package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTopK_OrdersByScoreDescending(t *testing.T) {
	matches := []Match{
		NewMatch(0, 0.2),
		NewMatch(1, 0.9),
		NewMatch(2, 0.5),
	}

	got := TopK(matches, 3)

	assert.Equal(t, []int{1, 2, 0}, ids(got))
}

func TestTopK_TiesBreakByAscendingID(t *testing.T) {
	matches := []Match{
		NewMatch(3, 0.5),
		NewMatch(1, 0.5),
		NewMatch(2, 0.5),
	}

	got := TopK(matches, 3)

	assert.Equal(t, []int{1, 2, 3}, ids(got))
}

func TestTopK_ClampsToAvailable(t *testing.T) {
	matches := []Match{NewMatch(0, 0.1), NewMatch(1, 0.2)}

	got := TopK(matches, 10)

	assert.Len(t, got, 2)
}

func TestTopK_Empty(t *testing.T) {
	assert.Empty(t, TopK(nil, 5))
	assert.Empty(t, TopK([]Match{NewMatch(0, 1)}, 0))
}

func TestTopK_DoesNotMutateInput(t *testing.T) {
	matches := []Match{NewMatch(0, 0.1), NewMatch(1, 0.9)}

	TopK(matches, 2)

	assert.Equal(t, 0, matches[0].ID())
	assert.Equal(t, 1, matches[1].ID())
}

func ids(matches []Match) []int {
	out := make([]int, len(matches))
	for i, m := range matches {
		out[i] = m.ID()
	}
	return out
}

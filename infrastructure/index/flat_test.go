package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catalogmesh/tablequery/domain/search"
)

func TestFlat_SearchOrdersByScore(t *testing.T) {
	idx, err := BuildFlat([]search.Vector{
		{0, 1},   // id 0, orthogonal to query
		{1, 0},   // id 1, identical to query
		{1, 0.5}, // id 2, close to query
	})
	require.NoError(t, err)

	matches := idx.Search(search.Vector{1, 0}, 3)

	require.Len(t, matches, 3)
	assert.Equal(t, 1, matches[0].ID())
	assert.Equal(t, 2, matches[1].ID())
	assert.Equal(t, 0, matches[2].ID())
	assert.InDelta(t, 1.0, matches[0].Score(), 1e-9)
}

func TestFlat_TiesBreakByAscendingID(t *testing.T) {
	idx, err := BuildFlat([]search.Vector{
		{1, 0},
		{1, 0},
		{1, 0},
	})
	require.NoError(t, err)

	matches := idx.Search(search.Vector{1, 0}, 3)

	require.Len(t, matches, 3)
	assert.Equal(t, 0, matches[0].ID())
	assert.Equal(t, 1, matches[1].ID())
	assert.Equal(t, 2, matches[2].ID())
}

func TestFlat_KClampedToSize(t *testing.T) {
	idx, err := BuildFlat([]search.Vector{{1, 0}, {0, 1}})
	require.NoError(t, err)

	matches := idx.Search(search.Vector{1, 0}, 100)

	assert.Len(t, matches, 2)
}

func TestFlat_Empty(t *testing.T) {
	idx, err := BuildFlat(nil)
	require.NoError(t, err)

	assert.Empty(t, idx.Search(search.Vector{1, 0}, 5))
	assert.Equal(t, 0, idx.Len())
	assert.Equal(t, 0, idx.Dimension())
}

func TestFlat_DimensionMismatchQuery(t *testing.T) {
	idx, err := BuildFlat([]search.Vector{{1, 0}})
	require.NoError(t, err)

	assert.Empty(t, idx.Search(search.Vector{1, 0, 0}, 5))
}

func TestBuildFlat_InconsistentDimensions(t *testing.T) {
	_, err := BuildFlat([]search.Vector{{1, 0}, {1, 0, 0}})

	assert.ErrorIs(t, err, search.ErrIndex)
}

func TestFlat_VectorsAreNormalized(t *testing.T) {
	idx, err := BuildFlat([]search.Vector{{3, 4}})
	require.NoError(t, err)

	vectors := idx.Vectors()
	require.Len(t, vectors, 1)
	assert.InDelta(t, 1.0, vectors[0].Norm(), 1e-9)
}

func TestBuild_DispatchesOnKind(t *testing.T) {
	vectors := []search.Vector{{1, 0}, {0, 1}}

	flat, err := Build(vectors, NewConfig(KindFlat, 0, 0))
	require.NoError(t, err)
	assert.IsType(t, &Flat{}, flat)

	ivf, err := Build(vectors, NewConfig(KindIVF, 2, 2))
	require.NoError(t, err)
	assert.IsType(t, &IVF{}, ivf)

	_, err = Build(vectors, NewConfig(Kind("hnsw"), 0, 0))
	assert.ErrorIs(t, err, search.ErrIndex)
}

package index

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catalogmesh/tablequery/domain/catalog"
	"github.com/catalogmesh/tablequery/domain/search"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "index.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	fingerprint := catalog.FingerprintBytes([]byte("catalog v1"))
	names := []string{"users", "orders"}
	vectors := []search.Vector{{1, 0, 0}, {0, 1, 0}}

	require.NoError(t, store.Save(ctx, fingerprint, KindFlat, names, vectors))

	persisted, err := store.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, fingerprint, persisted.Fingerprint())
	assert.Equal(t, KindFlat, persisted.Kind())
	assert.Equal(t, names, persisted.Names())
	assert.Equal(t, vectors, persisted.Vectors())
}

func TestStore_LoadEmpty(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Load(context.Background())

	assert.ErrorIs(t, err, ErrNoPersistedIndex)
}

func TestStore_SaveReplacesPrevious(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, catalog.FingerprintBytes([]byte("v1")), KindFlat,
		[]string{"users"}, []search.Vector{{1, 0}}))
	require.NoError(t, store.Save(ctx, catalog.FingerprintBytes([]byte("v2")), KindIVF,
		[]string{"orders", "items"}, []search.Vector{{0, 1}, {1, 1}}))

	persisted, err := store.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, catalog.FingerprintBytes([]byte("v2")), persisted.Fingerprint())
	assert.Equal(t, KindIVF, persisted.Kind())
	assert.Equal(t, []string{"orders", "items"}, persisted.Names())
}

func TestStore_SaveRejectsMismatchedNames(t *testing.T) {
	store := newTestStore(t)

	err := store.Save(context.Background(), "fp", KindFlat,
		[]string{"users"}, []search.Vector{{1}, {2}})

	assert.ErrorIs(t, err, search.ErrIndex)
}

func TestStore_RoundTripAnswersIdenticalQueries(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	vectors := randomVectors(20, 4)
	original, err := Build(vectors, NewConfig(KindFlat, 0, 0))
	require.NoError(t, err)

	names := make([]string, len(vectors))
	for i := range names {
		names[i] = "t"
	}
	require.NoError(t, store.Save(ctx, "fp", KindFlat, names, original.Vectors()))

	persisted, err := store.Load(ctx)
	require.NoError(t, err)
	reloaded, err := Build(persisted.Vectors(), NewConfig(persisted.Kind(), 0, 0))
	require.NoError(t, err)

	query := search.Vector{0.5, -1, 0.25, 2}
	want := original.Search(query, 5)
	got := reloaded.Search(query, 5)

	require.Equal(t, len(want), len(got))
	for i := range want {
		assert.Equal(t, want[i].ID(), got[i].ID())
		assert.InDelta(t, want[i].Score(), got[i].Score(), 1e-12)
	}
}

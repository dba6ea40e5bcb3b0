package tablequery

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catalogmesh/tablequery/domain/search"
)

// stubEncoder maps each text to a vector counting marker word occurrences.
type stubEncoder struct{}

func (stubEncoder) Encode(ctx context.Context, texts []string) ([]search.Vector, error) {
	markers := []string{"users", "orders"}
	vectors := make([]search.Vector, len(texts))
	for i, text := range texts {
		lower := strings.ToLower(text)
		v := make(search.Vector, len(markers)+1)
		for d, m := range markers {
			v[d] = float64(strings.Count(lower, m))
		}
		v[len(markers)] = 0.1
		vectors[i] = v
	}
	return vectors, nil
}

const clientCatalog = `[
  {"name": "users", "description": "Registered user accounts"},
  {"name": "orders", "description": "Customer orders"}
]`

func writeClientCatalog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(clientCatalog), 0o600))
	return path
}

func TestNew_RequiresCatalogPath(t *testing.T) {
	_, err := New(WithCatalogPath(""))

	assert.ErrorIs(t, err, ErrNoCatalog)
}

func TestClient_SearchAfterBootstrap(t *testing.T) {
	client, err := New(
		WithCatalogPath(writeClientCatalog(t)),
		WithEncoder(stubEncoder{}),
	)
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	ctx := context.Background()
	assert.False(t, client.Ready())

	require.NoError(t, client.Updater.Bootstrap(ctx))
	assert.True(t, client.Ready())

	result, err := client.Search.Search(ctx, "orders placed by customers", 2)
	require.NoError(t, err)
	require.NotEmpty(t, result.Results())
	assert.Equal(t, "orders", result.Results()[0].Entry().Name())
}

func TestClient_SearchBeforeBootstrap(t *testing.T) {
	client, err := New(
		WithCatalogPath(writeClientCatalog(t)),
		WithEncoder(stubEncoder{}),
	)
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	_, err = client.Search.Search(context.Background(), "orders", 2)

	assert.ErrorIs(t, err, search.ErrNotReady)
}

func TestClient_PersistedIndexAcrossClients(t *testing.T) {
	catalogPath := writeClientCatalog(t)
	dbPath := filepath.Join(t.TempDir(), "index.db")
	ctx := context.Background()

	first, err := New(
		WithCatalogPath(catalogPath),
		WithEncoder(stubEncoder{}),
		WithIndexDB(dbPath),
	)
	require.NoError(t, err)
	require.NoError(t, first.Updater.Bootstrap(ctx))
	require.NoError(t, first.Close())

	second, err := New(
		WithCatalogPath(catalogPath),
		WithEncoder(stubEncoder{}),
		WithIndexDB(dbPath),
	)
	require.NoError(t, err)
	defer func() { _ = second.Close() }()

	require.NoError(t, second.Updater.Bootstrap(ctx))

	result, err := second.Search.Search(ctx, "users", 1)
	require.NoError(t, err)
	require.NotEmpty(t, result.Results())
	assert.Equal(t, "users", result.Results()[0].Entry().Name())
}

func TestClient_CloseIdempotent(t *testing.T) {
	client, err := New(
		WithCatalogPath(writeClientCatalog(t)),
		WithEncoder(stubEncoder{}),
	)
	require.NoError(t, err)

	assert.NoError(t, client.Close())
	assert.NoError(t, client.Close())
}

func TestClient_GovernanceBaseURLOption(t *testing.T) {
	client, err := New(
		WithCatalogPath(writeClientCatalog(t)),
		WithEncoder(stubEncoder{}),
		WithGovernanceBaseURL("http://meta.example.com/"),
	)
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	assert.Equal(t, "http://meta.example.com", client.GovernanceLinks().BaseURL())
}

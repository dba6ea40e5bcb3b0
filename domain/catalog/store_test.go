package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogJSON = `[
  {
    "name": "users",
    "description": "Registered user accounts",
    "columns": [
      {"name": "id", "description": "Surrogate key", "dataTypeDisplay": "bigint", "isPrimaryKey": true},
      {"name": "email", "description": "Login email address", "dataTypeDisplay": "varchar"}
    ]
  },
  {
    "name": "orders",
    "description": "Customer orders",
    "columns": [
      {"name": "id", "description": "Surrogate key", "isPrimaryKey": true}
    ]
  }
]`

func TestParse_JSON(t *testing.T) {
	store, err := Parse([]byte(catalogJSON), FormatJSON)
	require.NoError(t, err)

	require.Equal(t, 2, store.Len())

	entry, ok := store.Entry(0)
	require.True(t, ok)
	assert.Equal(t, "users", entry.Name())
	assert.Equal(t, "Registered user accounts", entry.Description())

	cols := entry.Columns()
	require.Len(t, cols, 2)
	assert.Equal(t, "id", cols[0].Name())
	assert.Equal(t, "bigint", cols[0].DataType())
	assert.True(t, cols[0].IsPrimaryKey())
	assert.False(t, cols[1].IsPrimaryKey())
}

func TestParse_YAML(t *testing.T) {
	doc := `
- name: users
  description: Registered user accounts
  columns:
    - name: id
      description: Surrogate key
      dataTypeDisplay: bigint
      isPrimaryKey: true
`
	store, err := Parse([]byte(doc), FormatYAML)
	require.NoError(t, err)

	require.Equal(t, 1, store.Len())
	entry, _ := store.Entry(0)
	assert.Equal(t, "users", entry.Name())
}

func TestParse_MissingDataTypeDefaults(t *testing.T) {
	store, err := Parse([]byte(catalogJSON), FormatJSON)
	require.NoError(t, err)

	entry, _ := store.Entry(1)
	assert.Equal(t, "N/A", entry.Columns()[0].DataType())
}

func TestParse_MissingTableName(t *testing.T) {
	doc := `[{"description": "no name here"}]`

	_, err := Parse([]byte(doc), FormatJSON)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "table #0", vErr.Table())
	assert.Equal(t, "name", vErr.Field())
}

func TestParse_MissingColumnDescription(t *testing.T) {
	doc := `[{"name": "users", "description": "ok", "columns": [{"name": "id"}]}]`

	_, err := Parse([]byte(doc), FormatJSON)

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "users", vErr.Table())
	assert.Equal(t, "columns[0].description", vErr.Field())
}

func TestParse_BlankTableName(t *testing.T) {
	doc := `[{"name": "   ", "description": "ok"}]`

	_, err := Parse([]byte(doc), FormatJSON)

	assert.ErrorIs(t, err, ErrValidation)
}

func TestParse_DuplicateTableName(t *testing.T) {
	doc := `[
	  {"name": "users", "description": "a"},
	  {"name": "users", "description": "b"}
	]`

	_, err := Parse([]byte(doc), FormatJSON)

	assert.ErrorIs(t, err, ErrDuplicateTable)
}

func TestParse_MalformedJSON(t *testing.T) {
	_, err := Parse([]byte("{not json"), FormatJSON)

	assert.ErrorIs(t, err, ErrValidation)
}

func TestParseFile_FormatByExtension(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "catalog.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(catalogJSON), 0o600))

	yamlPath := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("- name: users\n  description: ok\n"), 0o600))

	jsonStore, err := ParseFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, 2, jsonStore.Len())

	yamlStore, err := ParseFile(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, 1, yamlStore.Len())
}

func TestStore_ByName(t *testing.T) {
	store, err := Parse([]byte(catalogJSON), FormatJSON)
	require.NoError(t, err)

	id, entry, ok := store.ByName("orders")
	require.True(t, ok)
	assert.Equal(t, 1, id)
	assert.Equal(t, "orders", entry.Name())

	_, _, ok = store.ByName("missing")
	assert.False(t, ok)
}

func TestEntry_CanonicalText(t *testing.T) {
	entry := NewEntry("users", "Registered user accounts", []Column{
		NewColumn("id", "Surrogate key", "bigint", true),
		NewColumn("email", "Login email address", "varchar", false),
	})

	want := "Table: users\n" +
		"Description: Registered user accounts\n" +
		"Columns:\n" +
		"- Column 'id': Surrogate key\n" +
		"- Column 'email': Login email address"

	assert.Equal(t, want, entry.CanonicalText())
}

func TestStore_CanonicalTexts_FollowEntryOrder(t *testing.T) {
	store, err := Parse([]byte(catalogJSON), FormatJSON)
	require.NoError(t, err)

	texts := store.CanonicalTexts()
	require.Len(t, texts, 2)
	assert.Contains(t, texts[0], "Table: users")
	assert.Contains(t, texts[1], "Table: orders")
}

func TestFingerprint_ContentNotMtime(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(catalogJSON), 0o600))

	first, err := FingerprintFile(path)
	require.NoError(t, err)

	// Rewrite identical bytes
	require.NoError(t, os.WriteFile(path, []byte(catalogJSON), 0o600))
	second, err := FingerprintFile(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	require.NoError(t, os.WriteFile(path, []byte(catalogJSON+"\n"), 0o600))
	third, err := FingerprintFile(path)
	require.NoError(t, err)
	assert.NotEqual(t, first, third)
}

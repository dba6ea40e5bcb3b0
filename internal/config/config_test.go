package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAppConfig_Defaults(t *testing.T) {
	cfg := NewAppConfig()

	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.Equal(t, DefaultCatalogPath, cfg.CatalogPath())
	assert.Equal(t, DefaultIndexKind, cfg.IndexKind())
	assert.Equal(t, BackendHugot, cfg.EmbeddingBackend())
	assert.Equal(t, LogFormatPretty, cfg.LogFormat())
}

func TestAppConfig_IndexDBPath(t *testing.T) {
	cfg := NewAppConfig()

	assert.Equal(t, filepath.Join(DefaultIndexDir, DefaultIndexFile), cfg.IndexDBPath())
}

func TestAppConfig_Apply(t *testing.T) {
	cfg := NewAppConfig()

	updated := cfg.Apply(WithHost("127.0.0.1"), WithPort(9000), WithCatalogPath("alt.json"))

	assert.Equal(t, "127.0.0.1:9000", updated.Addr())
	assert.Equal(t, "alt.json", updated.CatalogPath())
	// Original untouched
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
}

func TestToAppConfig_Validation(t *testing.T) {
	base := EnvConfig{
		Host:             "0.0.0.0",
		Port:             8080,
		LogFormat:        "pretty",
		IndexKind:        "flat",
		EmbeddingBackend: "hugot",
	}

	t.Run("valid", func(t *testing.T) {
		cfg, err := base.ToAppConfig()
		require.NoError(t, err)
		assert.Equal(t, "flat", cfg.IndexKind())
	})

	t.Run("bad log format", func(t *testing.T) {
		env := base
		env.LogFormat = "xml"
		_, err := env.ToAppConfig()
		assert.ErrorContains(t, err, "LOG_FORMAT")
	})

	t.Run("bad index kind", func(t *testing.T) {
		env := base
		env.IndexKind = "hnsw"
		_, err := env.ToAppConfig()
		assert.ErrorContains(t, err, "INDEX_KIND")
	})

	t.Run("bad backend", func(t *testing.T) {
		env := base
		env.EmbeddingBackend = "cohere"
		_, err := env.ToAppConfig()
		assert.ErrorContains(t, err, "EMBEDDING_BACKEND")
	})

	t.Run("openai requires api key", func(t *testing.T) {
		env := base
		env.EmbeddingBackend = "openai"
		_, err := env.ToAppConfig()
		assert.ErrorContains(t, err, "OPENAI_API_KEY")
	})

	t.Run("case insensitive values", func(t *testing.T) {
		env := base
		env.IndexKind = "IVF"
		env.EmbeddingBackend = "Hugot"
		cfg, err := env.ToAppConfig()
		require.NoError(t, err)
		assert.Equal(t, "ivf", cfg.IndexKind())
		assert.Equal(t, BackendHugot, cfg.EmbeddingBackend())
	})
}

func TestLoadConfig_EnvOverridesDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("PORT=9999\nMETADATA_FILE_PATH=from_file.json\n"), 0o600))

	t.Setenv("PORT", "7070")
	t.Setenv("METADATA_FILE_PATH", "")

	cfg, err := LoadConfig(envFile)
	require.NoError(t, err)

	// Real env wins over the file
	assert.Equal(t, 7070, cfg.Port())
}

func TestReadGovernanceBaseURL(t *testing.T) {
	dir := t.TempDir()

	t.Run("key value", func(t *testing.T) {
		path := filepath.Join(dir, "a.env")
		content := "# governance\nOTHER_KEY=x\nOPENMETADATA_BASE_URL=http://meta.example.com/\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		url, err := ReadGovernanceBaseURL(path)
		require.NoError(t, err)
		assert.Equal(t, "http://meta.example.com/", url)
	})

	t.Run("bare url", func(t *testing.T) {
		path := filepath.Join(dir, "b.env")
		require.NoError(t, os.WriteFile(path, []byte("http://bare.example.com\n"), 0o600))

		url, err := ReadGovernanceBaseURL(path)
		require.NoError(t, err)
		assert.Equal(t, "http://bare.example.com", url)
	})

	t.Run("missing file", func(t *testing.T) {
		url, err := ReadGovernanceBaseURL(filepath.Join(dir, "missing.env"))
		require.NoError(t, err)
		assert.Empty(t, url)
	})

	t.Run("no url present", func(t *testing.T) {
		path := filepath.Join(dir, "c.env")
		require.NoError(t, os.WriteFile(path, []byte("# nothing here\nFOO=bar\n"), 0o600))

		url, err := ReadGovernanceBaseURL(path)
		require.NoError(t, err)
		assert.Empty(t, url)
	})
}

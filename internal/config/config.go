// Package config provides application configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Default configuration values.
const (
	DefaultHost             = "0.0.0.0"
	DefaultPort             = 8080
	DefaultLogLevel         = "INFO"
	DefaultCatalogPath      = "metadata/enriched_metadata_clustered.json"
	DefaultIndexDir         = "catalog_indices"
	DefaultIndexFile        = "catalog_index.db"
	DefaultGovernanceFile   = ".env"
	DefaultSearchTopK       = 5
	DefaultMinSimilarity    = 0.0
	DefaultIndexKind        = "flat"
	DefaultEmbeddingModel   = "text-embedding-3-small"
	DefaultModelDir         = "models"
	DefaultBatchSize        = 32
	DefaultParallelism      = 1
	DefaultEmbeddingBackend = "hugot"
)

// Embedding backend identifiers.
const (
	BackendHugot  = "hugot"
	BackendOpenAI = "openai"
)

// LogFormat represents the log output format.
type LogFormat string

// LogFormat values.
const (
	LogFormatPretty LogFormat = "pretty"
	LogFormatJSON   LogFormat = "json"
)

// AppConfig holds the main application configuration.
type AppConfig struct {
	host                 string
	port                 int
	logLevel             string
	logFormat            LogFormat
	catalogPath          string
	indexDir             string
	governanceBaseURL    string
	governanceConfigFile string
	searchTopK           int
	minSimilarity        float64
	indexKind            string
	ivfLists             int
	ivfProbes            int
	embeddingBackend     string
	modelDir             string
	openAIAPIKey         string
	embeddingModel       string
	embeddingBaseURL     string
	batchSize            int
	parallelism          int
}

// NewAppConfig creates a new AppConfig with defaults.
func NewAppConfig() AppConfig {
	return AppConfig{
		host:                 DefaultHost,
		port:                 DefaultPort,
		logLevel:             DefaultLogLevel,
		logFormat:            LogFormatPretty,
		catalogPath:          DefaultCatalogPath,
		indexDir:             DefaultIndexDir,
		governanceConfigFile: DefaultGovernanceFile,
		searchTopK:           DefaultSearchTopK,
		minSimilarity:        DefaultMinSimilarity,
		indexKind:            DefaultIndexKind,
		embeddingBackend:     DefaultEmbeddingBackend,
		modelDir:             DefaultModelDir,
		embeddingModel:       DefaultEmbeddingModel,
		batchSize:            DefaultBatchSize,
		parallelism:          DefaultParallelism,
	}
}

// Host returns the server host to bind to.
func (c AppConfig) Host() string { return c.host }

// Port returns the server port to listen on.
func (c AppConfig) Port() int { return c.port }

// Addr returns the combined host:port address.
func (c AppConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.host, c.port)
}

// LogLevel returns the log level.
func (c AppConfig) LogLevel() string { return c.logLevel }

// LogFormat returns the log format.
func (c AppConfig) LogFormat() LogFormat { return c.logFormat }

// CatalogPath returns the catalog source file path.
func (c AppConfig) CatalogPath() string { return c.catalogPath }

// IndexDir returns the directory for persisted index artifacts.
func (c AppConfig) IndexDir() string { return c.indexDir }

// IndexDBPath returns the persisted index database path.
func (c AppConfig) IndexDBPath() string {
	return filepath.Join(c.indexDir, DefaultIndexFile)
}

// GovernanceBaseURL returns the governance platform base URL, if pinned via
// environment. Empty means: resolve from the governance config file.
func (c AppConfig) GovernanceBaseURL() string { return c.governanceBaseURL }

// GovernanceConfigFile returns the KEY=VALUE file the governance base URL
// is read from (and watched for changes) when not pinned by environment.
func (c AppConfig) GovernanceConfigFile() string { return c.governanceConfigFile }

// SearchTopK returns the default number of search results.
func (c AppConfig) SearchTopK() int { return c.searchTopK }

// MinSimilarity returns the similarity floor for search results.
func (c AppConfig) MinSimilarity() float64 { return c.minSimilarity }

// IndexKind returns the configured index structure ("flat" or "ivf").
func (c AppConfig) IndexKind() string { return c.indexKind }

// IVFLists returns the number of IVF clusters.
func (c AppConfig) IVFLists() int { return c.ivfLists }

// IVFProbes returns the number of IVF lists scanned per search.
func (c AppConfig) IVFProbes() int { return c.ivfProbes }

// EmbeddingBackend returns the embedding backend ("hugot" or "openai").
func (c AppConfig) EmbeddingBackend() string { return c.embeddingBackend }

// ModelDir returns the local embedding model directory.
func (c AppConfig) ModelDir() string { return c.modelDir }

// OpenAIAPIKey returns the OpenAI API key.
func (c AppConfig) OpenAIAPIKey() string { return c.openAIAPIKey }

// EmbeddingModel returns the remote embedding model identifier.
func (c AppConfig) EmbeddingModel() string { return c.embeddingModel }

// EmbeddingBaseURL returns the custom embeddings API base URL, if any.
func (c AppConfig) EmbeddingBaseURL() string { return c.embeddingBaseURL }

// BatchSize returns the bulk encoding batch size.
func (c AppConfig) BatchSize() int { return c.batchSize }

// Parallelism returns the bulk encoding parallelism.
func (c AppConfig) Parallelism() int { return c.parallelism }

// EnsureIndexDir creates the index directory if it doesn't exist.
func (c AppConfig) EnsureIndexDir() error {
	return os.MkdirAll(c.indexDir, 0o755)
}

// AppConfigOption overrides a single AppConfig field, used for command
// line flags that take precedence over environment values.
type AppConfigOption func(*AppConfig)

// WithHost overrides the server host.
func WithHost(host string) AppConfigOption {
	return func(c *AppConfig) { c.host = host }
}

// WithPort overrides the server port.
func WithPort(port int) AppConfigOption {
	return func(c *AppConfig) { c.port = port }
}

// WithCatalogPath overrides the catalog source file path.
func WithCatalogPath(path string) AppConfigOption {
	return func(c *AppConfig) { c.catalogPath = path }
}

// Apply returns a copy of the config with the given overrides applied.
func (c AppConfig) Apply(opts ...AppConfigOption) AppConfig {
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// LogAttrs returns the config values worth logging at startup.
func (c AppConfig) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("addr", c.Addr()),
		slog.String("catalog_path", c.catalogPath),
		slog.String("index_dir", c.indexDir),
		slog.String("index_kind", c.indexKind),
		slog.String("embedding_backend", c.embeddingBackend),
		slog.Int("search_top_k", c.searchTopK),
	}
}

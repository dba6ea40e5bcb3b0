package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// EnvConfig holds all environment-based configuration. The variable names
// deliberately match the ones the deployment already sets for this service
// (METADATA_FILE_PATH, OPENMETADATA_BASE_URL, ...).
type EnvConfig struct {
	// Host is the server host to bind to.
	// Env: HOST (default: 0.0.0.0)
	Host string `envconfig:"HOST" default:"0.0.0.0"`

	// Port is the server port to listen on.
	// Env: PORT (default: 8080)
	Port int `envconfig:"PORT" default:"8080"`

	// LogLevel is the log verbosity level.
	// Env: LOG_LEVEL (default: INFO)
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	// LogFormat is the log output format (pretty or json).
	// Env: LOG_FORMAT (default: pretty)
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// CatalogPath is the catalog source file (JSON or YAML).
	// Env: METADATA_FILE_PATH
	CatalogPath string `envconfig:"METADATA_FILE_PATH" default:"metadata/enriched_metadata_clustered.json"`

	// IndexDir is the directory for persisted index artifacts.
	// Env: INDEX_DIR (default: catalog_indices)
	IndexDir string `envconfig:"INDEX_DIR" default:"catalog_indices"`

	// GovernanceBaseURL pins the governance platform base URL. When set,
	// the governance config file is neither read nor watched.
	// Env: OPENMETADATA_BASE_URL
	GovernanceBaseURL string `envconfig:"OPENMETADATA_BASE_URL"`

	// GovernanceConfigFile is the KEY=VALUE file holding the governance
	// base URL when it is not pinned by environment.
	// Env: OPENMETADATA_CONFIG_FILE (default: .env)
	GovernanceConfigFile string `envconfig:"OPENMETADATA_CONFIG_FILE" default:".env"`

	// SearchTopK is the default number of search results.
	// Env: SEARCH_TOP_K (default: 5)
	SearchTopK int `envconfig:"SEARCH_TOP_K" default:"5"`

	// MinSimilarity drops results scoring below this cosine similarity.
	// Env: MIN_SIMILARITY (default: 0)
	MinSimilarity float64 `envconfig:"MIN_SIMILARITY" default:"0"`

	// IndexKind selects the index structure: flat (exact) or ivf
	// (approximate, for large catalogs).
	// Env: INDEX_KIND (default: flat)
	IndexKind string `envconfig:"INDEX_KIND" default:"flat"`

	// IVFLists is the number of IVF clusters.
	// Env: IVF_LISTS
	IVFLists int `envconfig:"IVF_LISTS"`

	// IVFProbes is the number of IVF lists scanned per search.
	// Env: IVF_PROBES
	IVFProbes int `envconfig:"IVF_PROBES"`

	// EmbeddingBackend selects the encoder: hugot (local ONNX model) or
	// openai (remote API).
	// Env: EMBEDDING_BACKEND (default: hugot)
	EmbeddingBackend string `envconfig:"EMBEDDING_BACKEND" default:"hugot"`

	// ModelDir is the local embedding model directory for hugot.
	// Env: MODEL_DIR (default: models)
	ModelDir string `envconfig:"MODEL_DIR" default:"models"`

	// OpenAIAPIKey authenticates the openai backend.
	// Env: OPENAI_API_KEY
	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY"`

	// EmbeddingModel is the remote embedding model identifier.
	// Env: EMBEDDING_MODEL (default: text-embedding-3-small)
	EmbeddingModel string `envconfig:"EMBEDDING_MODEL" default:"text-embedding-3-small"`

	// EmbeddingBaseURL points the openai backend at a compatible API.
	// Env: EMBEDDING_BASE_URL
	EmbeddingBaseURL string `envconfig:"EMBEDDING_BASE_URL"`

	// BatchSize is the bulk encoding batch size.
	// Env: EMBEDDING_BATCH_SIZE (default: 32)
	BatchSize int `envconfig:"EMBEDDING_BATCH_SIZE" default:"32"`

	// Parallelism is the bulk encoding parallelism.
	// Env: EMBEDDING_PARALLELISM (default: 1)
	Parallelism int `envconfig:"EMBEDDING_PARALLELISM" default:"1"`
}

// LoadConfig loads configuration: defaults, then the .env file (if any),
// then environment variables. Later sources override earlier ones.
func LoadConfig(envFile string) (AppConfig, error) {
	if err := LoadDotEnv(envFile); err != nil {
		return AppConfig{}, fmt.Errorf("load env file: %w", err)
	}

	var env EnvConfig
	if err := envconfig.Process("", &env); err != nil {
		return AppConfig{}, fmt.Errorf("process environment: %w", err)
	}

	return env.ToAppConfig()
}

// ToAppConfig validates the environment values and builds an AppConfig.
func (e EnvConfig) ToAppConfig() (AppConfig, error) {
	cfg := NewAppConfig()

	cfg.host = e.Host
	cfg.port = e.Port
	cfg.logLevel = e.LogLevel
	cfg.catalogPath = e.CatalogPath
	cfg.indexDir = e.IndexDir
	cfg.governanceBaseURL = e.GovernanceBaseURL
	cfg.governanceConfigFile = e.GovernanceConfigFile
	cfg.searchTopK = e.SearchTopK
	cfg.minSimilarity = e.MinSimilarity
	cfg.ivfLists = e.IVFLists
	cfg.ivfProbes = e.IVFProbes
	cfg.modelDir = e.ModelDir
	cfg.openAIAPIKey = e.OpenAIAPIKey
	cfg.embeddingModel = e.EmbeddingModel
	cfg.embeddingBaseURL = e.EmbeddingBaseURL
	cfg.batchSize = e.BatchSize
	cfg.parallelism = e.Parallelism

	switch strings.ToLower(e.LogFormat) {
	case "json":
		cfg.logFormat = LogFormatJSON
	case "", "pretty":
		cfg.logFormat = LogFormatPretty
	default:
		return AppConfig{}, fmt.Errorf("unknown LOG_FORMAT %q (want pretty or json)", e.LogFormat)
	}

	switch strings.ToLower(e.IndexKind) {
	case "", "flat", "ivf":
		cfg.indexKind = strings.ToLower(e.IndexKind)
		if cfg.indexKind == "" {
			cfg.indexKind = DefaultIndexKind
		}
	default:
		return AppConfig{}, fmt.Errorf("unknown INDEX_KIND %q (want flat or ivf)", e.IndexKind)
	}

	switch strings.ToLower(e.EmbeddingBackend) {
	case "", "hugot", "openai":
		cfg.embeddingBackend = strings.ToLower(e.EmbeddingBackend)
		if cfg.embeddingBackend == "" {
			cfg.embeddingBackend = DefaultEmbeddingBackend
		}
	default:
		return AppConfig{}, fmt.Errorf("unknown EMBEDDING_BACKEND %q (want hugot or openai)", e.EmbeddingBackend)
	}

	if cfg.embeddingBackend == BackendOpenAI && cfg.openAIAPIKey == "" {
		return AppConfig{}, fmt.Errorf("EMBEDDING_BACKEND=openai requires OPENAI_API_KEY")
	}

	return cfg, nil
}

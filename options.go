package tablequery

import (
	"io"
	"log/slog"

	"github.com/catalogmesh/tablequery/application/service"
	"github.com/catalogmesh/tablequery/domain/search"
	"github.com/catalogmesh/tablequery/infrastructure/index"
	"github.com/catalogmesh/tablequery/internal/config"
)

// clientConfig holds configuration for Client construction.
// Use newClientConfig() to create with defaults from internal/config.
type clientConfig struct {
	catalogPath       string
	indexDBPath       string
	governanceBaseURL string
	defaultTopK       int
	minSimilarity     float64
	indexKind         index.Kind
	ivfLists          int
	ivfProbes         int
	encoder           search.Encoder
	openAIKey         string
	embeddingModel    string
	embeddingBaseURL  string
	modelDir          string
	batchSize         int
	parallelism       int
	logger            *slog.Logger
	closers           []io.Closer
}

// newClientConfig creates a clientConfig with defaults from internal/config.
// This ensures all defaults come from the single source of truth.
func newClientConfig() *clientConfig {
	return &clientConfig{
		catalogPath:       config.DefaultCatalogPath,
		governanceBaseURL: service.DefaultGovernanceBaseURL,
		defaultTopK:       config.DefaultSearchTopK,
		minSimilarity:     config.DefaultMinSimilarity,
		indexKind:         index.KindFlat,
		embeddingModel:    config.DefaultEmbeddingModel,
		modelDir:          config.DefaultModelDir,
		batchSize:         config.DefaultBatchSize,
		parallelism:       config.DefaultParallelism,
	}
}

// Option configures the Client.
type Option func(*clientConfig)

// WithCatalogPath sets the catalog source file (JSON or YAML).
func WithCatalogPath(path string) Option {
	return func(c *clientConfig) {
		c.catalogPath = path
	}
}

// WithIndexDB persists the built index to a SQLite database at path, so a
// restart with an unchanged catalog skips re-encoding. An empty path
// keeps the index purely in memory.
func WithIndexDB(path string) Option {
	return func(c *clientConfig) {
		c.indexDBPath = path
	}
}

// WithGovernanceBaseURL sets the governance platform base URL used in
// result links.
func WithGovernanceBaseURL(baseURL string) Option {
	return func(c *clientConfig) {
		c.governanceBaseURL = baseURL
	}
}

// WithDefaultTopK sets the number of results returned when a search does
// not ask for a specific count.
func WithDefaultTopK(k int) Option {
	return func(c *clientConfig) {
		if k > 0 {
			c.defaultTopK = k
		}
	}
}

// WithMinSimilarity drops results scoring below the given cosine
// similarity.
func WithMinSimilarity(floor float64) Option {
	return func(c *clientConfig) {
		c.minSimilarity = floor
	}
}

// WithIndexKind selects the index structure ("flat" or "ivf"). Unknown
// values are left to Build to reject.
func WithIndexKind(kind string) Option {
	return func(c *clientConfig) {
		if kind != "" {
			c.indexKind = index.Kind(kind)
		}
	}
}

// WithIVF sets the IVF cluster and probe counts. Non-positive values keep
// the index defaults.
func WithIVF(lists, probes int) Option {
	return func(c *clientConfig) {
		c.ivfLists = lists
		c.ivfProbes = probes
	}
}

// WithEncoder supplies an external embedding encoder, overriding the
// built-in backends.
func WithEncoder(enc search.Encoder) Option {
	return func(c *clientConfig) {
		c.encoder = enc
	}
}

// WithOpenAI selects the OpenAI embedding backend.
func WithOpenAI(apiKey string) Option {
	return func(c *clientConfig) {
		c.openAIKey = apiKey
	}
}

// WithEmbeddingModel sets the remote embedding model identifier.
func WithEmbeddingModel(model string) Option {
	return func(c *clientConfig) {
		if model != "" {
			c.embeddingModel = model
		}
	}
}

// WithEmbeddingBaseURL points the OpenAI backend at a compatible API.
func WithEmbeddingBaseURL(baseURL string) Option {
	return func(c *clientConfig) {
		c.embeddingBaseURL = baseURL
	}
}

// WithModelDir sets the local embedding model directory for the built-in
// backend.
func WithModelDir(dir string) Option {
	return func(c *clientConfig) {
		if dir != "" {
			c.modelDir = dir
		}
	}
}

// WithBatchSize sets the bulk encoding batch size.
func WithBatchSize(n int) Option {
	return func(c *clientConfig) {
		if n > 0 {
			c.batchSize = n
		}
	}
}

// WithParallelism sets the bulk encoding parallelism.
func WithParallelism(n int) Option {
	return func(c *clientConfig) {
		if n > 0 {
			c.parallelism = n
		}
	}
}

// WithLogger sets the logger used by the client and its services.
func WithLogger(l *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = l
	}
}

// WithCloser registers an additional closer to run on Client.Close.
func WithCloser(closer io.Closer) Option {
	return func(c *clientConfig) {
		c.closers = append(c.closers, closer)
	}
}
